package formula

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
)

// FormatValue renders v for display. A negative precision selects the
// shortest representation that round-trips; otherwise v is rounded half away
// from zero to exactly precision decimal places.
func FormatValue(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// Format writes the table in native syntax: one NAME = value assignment
// per line, which evaluates back to the same table.
func (t *Table) Format(_ context.Context, w io.Writer, precision int) error {
	for _, v := range t.All() {
		_, err := fmt.Fprintf(w, "%s = %s\n", v.Name, FormatValue(v.Value, precision))
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the table as a JSON array of variables.
func (t *Table) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	vars := make([]Variable, 0, t.Len())
	for _, v := range t.All() {
		vars = append(vars, v)
	}

	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(vars, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(vars)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the table as a YAML mapping from name to value, in
// creation order.
func (t *Table) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	ms := make(yaml.MapSlice, 0, t.Len())
	for _, v := range t.All() {
		ms = append(ms, yaml.MapItem{Key: v.Name, Value: v.Value})
	}

	yamlData, err := yaml.MarshalContext(ctx, ms, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
