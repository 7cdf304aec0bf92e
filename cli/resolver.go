package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys name long flags. Nested mappings are joined with hyphens, so both of
// the following set --log-level and --precision:
//
//	log:
//	  level: debug
//	precision: 6
//
//	log-level: debug
//	precision: 6
//
// Underscores may be used in place of hyphens. Sequences become
// comma-separated lists. Flags given on the command line take precedence.
// A file that cannot be parsed is reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		data, err := io.ReadAll(r)
		if err == nil {
			err = yaml.UnmarshalContext(ctx, data, &doc)
		}

		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened YAML keys.
type config map[string]any

// flatten copies m into c, joining nested keys with hyphens. Scalars are
// converted to strings since kong parses flag values from text.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}

			c[key] = strings.Join(items, ",")

		case bool:
			c[key] = v

		case nil:

		default:
			c[key] = fmt.Sprint(v)
		}
	}
}

// Validate implements [kong.Resolver]. Keys that do not name any flag are
// reported but not rejected, so one file can serve builds with and without
// optional flag groups.
func (c config) Validate(app *kong.Application) error {
	known := map[string]bool{}

	_ = kong.Visit(app, func(node kong.Visitable, next kong.Next) error {
		if flag, ok := node.(*kong.Flag); ok {
			known[flag.Name] = true
		}

		return next(nil)
	})

	var unknown []string

	for key := range c {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		log.Warn("unknown configuration keys",
			slog.String("keys", strings.Join(unknown, ",")))
	}

	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
