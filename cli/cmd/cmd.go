package cmd

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		paths    []string
		hasStdin bool
	}

	// SourceFiles is a deduplicated list of formula sources.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		Lines() iter.Seq2[Line, error]
	}

	// Line is one formula read from a source.
	Line struct {
		Source string
		Number int
		Text   string
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// Lines yields the formulas of every source in order, stdin last. Blank lines
// and lines starting with '#' are skipped. Reading stops at the first error.
func (s *sourceFiles) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for _, path := range s.paths {
			f, err := os.Open(path)
			if err != nil {
				yield(Line{Source: path}, err)

				return
			}

			ok := scanLines(path, f, yield)
			f.Close()

			if !ok {
				return
			}
		}

		if s.hasStdin {
			scanLines(stdinSource, os.Stdin, yield)
		}
	}
}

// scanLines yields the formulas read from r. It returns false if the
// consumer stopped or reading failed.
func scanLines(name string, r io.Reader, yield func(Line, error) bool) bool {
	scanner := bufio.NewScanner(r)
	number := 0

	for scanner.Scan() {
		number++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if !yield(Line{Source: name, Number: number, Text: text}, nil) {
			return false
		}
	}

	if err := scanner.Err(); err != nil {
		yield(Line{Source: name, Number: number}, err)

		return false
	}

	return true
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// files.
//
// Duplicates are removed by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source read
// after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniquePath(src, seen)
		if !ok {
			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// uniquePath returns the resolved path of src if it names a file not yet
// seen. It returns false for duplicates and for files that cannot be
// examined.
func uniquePath(src string, seen map[fileKey]struct{}) (string, bool) {
	absPath, err := filepath.Abs(src)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the sources stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// formulas yields the formulas named on the command line, or if there are
// none, those read from the source files in ctx, or from stdin.
func formulas(ctx context.Context, args []string) iter.Seq2[Line, error] {
	if len(args) > 0 {
		return func(yield func(Line, error) bool) {
			for i, arg := range args {
				if !yield(Line{Source: "arg", Number: i + 1, Text: arg}, nil) {
					return
				}
			}
		}
	}

	if src := sourceFilesFrom(ctx); src != nil {
		return src.Lines()
	}

	return (&sourceFiles{hasStdin: true}).Lines()
}
