//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the formula module embedded at build
// time.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text, the
	// default config and cache paths, and the search path variable.
	Name = "formula"
	// Description is a short summary used in help output.
	Description = "Evaluate arithmetic formulas with named variables"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
