package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/pkg"
	"github.com/ardnew/formula/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ignoreFlags names flags that are never written to the configuration file,
// either because they act once or because they name per-invocation inputs.
var ignoreFlags = []string{"help", "version", "force", "source"}

// Init generates a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.settings(ctx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	header := fmt.Sprintf("# %s %s configuration\n", pkg.Name, pkg.Version)

	err = os.WriteFile(confPath, append([]byte(header), data...), 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// settings collects the value of every configurable flag in the model,
// in declaration order.
func (i *Init) settings(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	var (
		items yaml.MapSlice
		seen  = map[string]bool{}
	)

	_ = kong.Visit(ktx.Model, func(node kong.Visitable, next kong.Next) error {
		flag, ok := node.(*kong.Flag)
		if !ok || flag.Hidden || seen[flag.Name] || ignored(flag.Name) {
			return next(nil)
		}

		seen[flag.Name] = true

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: v})
		}

		return next(nil)
	})

	return items
}

func ignored(name string) bool {
	return slices.Contains(ignoreFlags, name) ||
		strings.HasPrefix(name, profile.Tag+"-")
}

// configValue converts a flag value to a plain YAML value. It returns false
// for values that would not change anything, such as empty strings and
// lists.
func configValue(v any) (any, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false

	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Bool:
		return rv.Bool(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice, reflect.Array:
		items := make([]any, 0, rv.Len())

		for j := range rv.Len() {
			if item, ok := configValue(rv.Index(j).Interface()); ok {
				items = append(items, item)
			}
		}

		return items, len(items) > 0

	default:
		return fmt.Sprint(v), true
	}
}
