package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/formula/pkg"
)

const (
	// baseConfig is the base name of the configuration file.
	baseConfig = "config.yaml"

	// stdinSource names standard input in --source lists.
	stdinSource = "-"
)

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// searchPathEnv is the environment variable holding the default formula
// source search path, FORMULA_PATH for the installed command.
func searchPathEnv() string { return pkg.EnvPrefix() + "_PATH" }

// configPath returns the path formed by joining the configuration directory
// with the given elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// searchPath returns the directories searched for relative source files: the
// given dirs followed by those in env, keeping only existing directories.
func searchPath(env string, dirs ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var path []string

	for dir := range strings.SplitSeq(joined, string(os.PathListSeparator)) {
		if dir != "" && isDir(dir) {
			path = append(path, dir)
		}
	}

	return path
}

// resolveSources expands each relative source name that does not exist in the
// working directory into the first match along path. Names that cannot be
// found are returned unchanged so opening them reports the error.
func resolveSources(sources, path []string) []string {
	resolved := make([]string, len(sources))

	for i, src := range sources {
		resolved[i] = resolveSource(src, path)
	}

	return resolved
}

func resolveSource(src string, path []string) string {
	if src == stdinSource || filepath.IsAbs(src) {
		return src
	}

	if _, err := os.Stat(src); err == nil {
		return src
	}

	for _, dir := range path {
		candidate := filepath.Join(dir, src)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return src
}
