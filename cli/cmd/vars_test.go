package cmd

import (
	"errors"
	"testing"
)

type varsCLI struct {
	Vars Vars `cmd:""`
}

func TestVarsRun(t *testing.T) {
	formulas := []string{"A = 2.5", "B = A * 2", "C = 0 - 1"}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"native", nil, "A = 2.5\nB = 5\nC = -1\n"},
		{"native precision", []string{"-p", "1"}, "A = 2.5\nB = 5.0\nC = -1.0\n"},
		{"filter", []string{"--filter", "value > 0 && name != 'B'"}, "A = 2.5\n"},
		{"filter index", []string{"--filter", "index >= 1"}, "B = 5\nC = -1\n"},
		{
			"json compact", []string{"-F", "json", "-i", "0", "--filter", "name == 'A'"},
			`[{"name":"A","value":2.5}]` + "\n",
		},
		{
			"json", []string{"-F", "json", "--filter", "name == 'A'"},
			"[\n  {\n    \"name\": \"A\",\n    \"value\": 2.5\n  }\n]\n",
		},
		{"yaml", []string{"-F", "yaml", "--filter", "value < 0 || name == 'A'"}, "A: 2.5\nC: -1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli varsCLI

			args := append(append([]string{"vars"}, tt.args...), formulas...)
			ctx, out, _ := parse(t, &cli, args...)

			if err := cli.Vars.Run(ctx); err != nil {
				t.Fatalf("Vars.Run() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVarsRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"bad filter", []string{"--filter", "value >", "A = 1"}, ErrFilter},
		{"non-boolean filter", []string{"--filter", "value", "A = 1"}, ErrFilter},
		{"bad formula", []string{"A = 1", "LOG(0)"}, ErrEvaluate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli varsCLI

			ctx, out, _ := parse(t, &cli, append([]string{"vars"}, tt.args...)...)

			err := cli.Vars.Run(ctx)
			if !errors.Is(err, tt.want) {
				t.Errorf("Vars.Run() error = %v, want %v", err, tt.want)
			}

			if out.Len() != 0 {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}
