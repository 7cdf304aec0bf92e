package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeSource creates a source file named name in dir.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// collect drains lines, failing the test on a read error.
func collect(t *testing.T, src SourceFiles) []Line {
	t.Helper()

	var lines []Line

	for line, err := range src.Lines() {
		if err != nil {
			t.Fatalf("Lines() error at %s:%d: %v", line.Source, line.Number, err)
		}

		lines = append(lines, line)
	}

	return lines
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}

	return out
}

func TestWithSourceFiles_Empty(t *testing.T) {
	for _, sources := range [][]string{nil, {}} {
		if src := sourceFilesFrom(WithSourceFiles(t.Context(), sources)); src != nil {
			t.Errorf("WithSourceFiles(%v) stored %v, want nil", sources, src)
		}
	}
}

func TestSourceFiles_Lines(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.f", "# rates\nA = 2\n\n  B = A * 3  \n#C = 1\n")

	src := sourceFilesFrom(WithSourceFiles(t.Context(), []string{path}))
	if src == nil || src.IsZero() {
		t.Fatal("WithSourceFiles returned no sources for an existing file")
	}

	lines := collect(t, src)

	want := []Line{
		{Source: lines[0].Source, Number: 2, Text: "A = 2"},
		{Source: lines[0].Source, Number: 4, Text: "B = A * 3"},
	}

	if !slices.Equal(lines, want) {
		t.Errorf("Lines() = %+v, want %+v", lines, want)
	}

	if filepath.Base(lines[0].Source) != "a.f" {
		t.Errorf("Source = %q", lines[0].Source)
	}
}

func TestSourceFiles_MultipleInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.f", "A = 1\n")
	b := writeSource(t, dir, "b.f", "B = A + 1\nC = B + 1\n")

	src := sourceFilesFrom(WithSourceFiles(t.Context(), []string{b, a}))

	got := texts(collect(t, src))
	if want := []string{"B = A + 1", "C = B + 1", "A = 1"}; !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestSourceFiles_Duplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.f", "A = 1\n")

	link := filepath.Join(dir, "link.f")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	t.Chdir(dir)

	src := sourceFilesFrom(WithSourceFiles(t.Context(),
		[]string{path, "a.f", "./a.f", link}))

	if got := texts(collect(t, src)); len(got) != 1 {
		t.Errorf("duplicate sources read %d times, want once", len(got))
	}
}

func TestSourceFiles_Stdin(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.f", "A = 1\n")

	src := buildSourceFiles([]string{stdinSource, path, stdinSource})

	s, ok := src.(*sourceFiles)
	if !ok {
		t.Fatalf("buildSourceFiles() = %T", src)
	}

	if !s.hasStdin || len(s.paths) != 1 {
		t.Errorf("sources = %+v, want one file and stdin", s)
	}

	if s.Stdin() != os.Stdin {
		t.Error("Stdin() is not os.Stdin")
	}
}

func TestSourceFiles_MissingFilesDropped(t *testing.T) {
	dir := t.TempDir()

	if src := buildSourceFiles([]string{filepath.Join(dir, "missing.f")}); src != nil {
		t.Errorf("buildSourceFiles() = %v, want nil", src)
	}
}

func TestSourceFiles_OpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.f")
	src := &sourceFiles{paths: []string{path}}

	for line, err := range src.Lines() {
		if err == nil {
			t.Fatalf("Lines() yielded %+v without error", line)
		}

		if line.Source != path {
			t.Errorf("error Source = %q, want %q", line.Source, path)
		}
	}
}

func TestFormulas_ArgsTakePrecedence(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.f", "A = 1\n")
	ctx := WithSourceFiles(t.Context(), []string{path})

	var got []Line

	for line, err := range formulas(ctx, []string{"X = 1", "X + 1"}) {
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, line)
	}

	want := []Line{
		{Source: "arg", Number: 1, Text: "X = 1"},
		{Source: "arg", Number: 2, Text: "X + 1"},
	}

	if !slices.Equal(got, want) {
		t.Errorf("formulas() = %+v, want %+v", got, want)
	}
}

func TestCaretPad(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		want   string
	}{
		{"1 + x", 4, "    "},
		{"\t1+", 2, "\t "},
		{"ab", 9, "  "},
		{"ab", 0, ""},
	}

	for _, tt := range tests {
		if got := caretPad(tt.text, tt.offset); got != tt.want {
			t.Errorf("caretPad(%q, %d) = %q, want %q", tt.text, tt.offset, got, tt.want)
		}
	}
}
