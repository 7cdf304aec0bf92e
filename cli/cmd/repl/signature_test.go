package repl

import "testing"

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		cursor   int
		wantName string
		wantOpen int
		inCall   bool
	}{
		{"empty", "", 0, "", 0, false},
		{"no parens", "1+2", 3, "", 0, false},
		{"simple", "SQRT(", 5, "SQRT", 4, true},
		{"lower case", "sqrt(2", 6, "SQRT", 4, true},
		{"space before paren", "LOG (", 5, "LOG", 4, true},
		{"after operator", "1+COS(%PI", 9, "COS", 5, true},
		{"closed", "SIN(1)", 6, "", 0, false},
		{"nested innermost", "ABS(SQRT(2", 10, "SQRT", 8, true},
		{"nested outer after close", "ABS(SQRT(2)+", 12, "ABS", 3, true},
		{"grouping paren", "2*(3", 4, "", 2, false},
		{"variable before paren", "X(", 2, "", 1, false},
		{"cursor before paren", "SQRT(2", 2, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.inCall != tt.inCall || got.name != tt.wantName {
				t.Fatalf("detectFunctionCall(%q, %d) = %+v, want name %q inCall %v",
					tt.input, tt.cursor, got, tt.wantName, tt.inCall)
			}

			if (tt.inCall || tt.wantOpen > 0) && got.open != tt.wantOpen {
				t.Errorf("open = %d, want %d", got.open, tt.wantOpen)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SQRT", "SQRT(x)  x > 0"},
		{"acos", "ACOS(x)  -1 <= x < 1"},
		{"SIN", "SIN(x)"},
		{"X", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plain(renderSignatureHint(tt.name)); got != tt.want {
				t.Errorf("renderSignatureHint(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	const input = "ABS(SQRT(X*X+Y*Y)-LOG10(1+%PI"

	for b.Loop() {
		_ = detectFunctionCall(input, len(input))
	}
}
