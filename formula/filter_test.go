package formula

import (
	"errors"
	"testing"
)

func TestCompileFilter(t *testing.T) {
	tab := NewTable()
	tab.Assign("ALPHA", 1)
	tab.Assign("BETA", -2)
	tab.Assign("ALPHA2", 3)

	tests := []struct {
		src  string
		want []string
	}{
		{``, []string{"ALPHA", "BETA", "ALPHA2"}},
		{`value > 0`, []string{"ALPHA", "ALPHA2"}},
		{`name startsWith "ALPHA"`, []string{"ALPHA", "ALPHA2"}},
		{`index == 1`, []string{"BETA"}},
		{`value < 0 || len(name) > 5`, []string{"BETA", "ALPHA2"}},
		{`false`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := CompileFilter(tt.src)
			if err != nil {
				t.Fatalf("CompileFilter(%q): %v", tt.src, err)
			}

			sub, err := f.Subset(tab)
			if err != nil {
				t.Fatalf("Subset: %v", err)
			}

			got := sub.Names()
			if len(got) != len(tt.want) {
				t.Fatalf("Subset = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Subset = %v, want %v", got, tt.want)

					break
				}
			}
		})
	}
}

func TestCompileFilter_Invalid(t *testing.T) {
	for _, src := range []string{
		`value +`,
		`value + 1`,
		`unknown > 0`,
	} {
		_, err := CompileFilter(src)
		if !errors.Is(err, ErrFilter) {
			t.Errorf("CompileFilter(%q) error = %v, want %v", src, err, ErrFilter)
		}
	}
}

func TestFilter_NilMatchesAll(t *testing.T) {
	var f *Filter

	ok, err := f.Match(0, Variable{Name: "X"})
	if err != nil || !ok {
		t.Errorf("nil Filter Match = %v, %v", ok, err)
	}
}
