package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lotr/log"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The file is a single mapping from flag name to value. Flag names with
// hyphens (e.g., "log-level") may also be written with underscores
// (e.g., "log_level"). Sequences set repeatable flags.
//
// Example config file:
//
//	log-level: debug
//	log_format: json
//	log-pretty: false
//	path: [~/scripts, /usr/share/lotr]
//
// Command-line flags override config file values. A file that cannot be
// parsed is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var values map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &values)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring invalid configuration file",
					slog.Any("error", err),
				)
			}

			return config{}, nil
		}

		return makeConfig(values), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// makeConfig converts decoded YAML values to values kong can parse.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))

	for key, value := range values {
		c[key] = flagValue(value)
	}

	return c
}

// flagValue converts numbers to strings, as Kong requires numbers as
// strings for parsing.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = flagValue(item)
		}

		return items
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}
