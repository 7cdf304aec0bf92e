package cli

import (
	"maps"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestConfig_Flatten(t *testing.T) {
	doc := map[string]any{
		"precision": uint64(6),
		"keep_going": true,
		"log": map[string]any{
			"level":       "debug",
			"time_layout": "Kitchen",
			"pretty":      false,
		},
		"path":  []any{"/a", "/b"},
		"empty": nil,
	}

	got := config{}
	got.flatten("", doc)

	want := config{
		"precision":       "6",
		"keep-going":      true,
		"log-level":       "debug",
		"log-time-layout": "Kitchen",
		"log-pretty":      false,
		"path":            "/a,/b",
	}

	if !maps.Equal(got, want) {
		t.Errorf("flatten() = %v, want %v", got, want)
	}
}

type resolverCLI struct {
	Log       logConfig `embed:"" prefix:"log-"`
	Precision int       `default:"-1"`
	KeepGoing bool
	Path      []string
}

func TestResolve(t *testing.T) {
	const doc = `
log:
  level: error
  caller: true
precision: 4
keep_going: true
path: [/x, /y]
bogus: 1
`

	tests := []struct {
		name string
		args []string
		want func(c resolverCLI) bool
	}{
		{"from file", nil, func(c resolverCLI) bool {
			return c.Log.Level == "error" && c.Log.Caller && c.Precision == 4 &&
				c.KeepGoing && strings.Join(c.Path, " ") == "/x /y"
		}},
		{"args win", []string{"--precision", "2", "--log-level", "info"}, func(c resolverCLI) bool {
			return c.Log.Level == "info" && c.Precision == 2
		}},
		{"defaults kept", nil, func(c resolverCLI) bool {
			return c.Log.Format == "text" && c.Log.Pretty
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli resolverCLI

			r, err := resolve(t.Context())(strings.NewReader(doc))
			if err != nil {
				t.Fatal(err)
			}

			parser, err := kong.New(&cli, kong.Resolvers(r), cli.Log.vars())
			if err != nil {
				t.Fatal(err)
			}

			if _, err := parser.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if !tt.want(cli) {
				t.Errorf("resolved %+v", cli)
			}
		})
	}
}

func TestResolve_InvalidYAMLIgnored(t *testing.T) {
	r, err := resolve(t.Context())(strings.NewReader("precision: [unterminated"))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	if c, ok := r.(config); !ok || len(c) != 0 {
		t.Errorf("resolver = %#v, want empty config", r)
	}
}
