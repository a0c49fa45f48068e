package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from
// a YAML mapping.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yml")
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"). Example:
//
//	log_level: debug
//	log_format: json
//	log_pretty: true
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		// Unreadable config - return empty config
		return flagValues{}, nil
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		// Parse error - return empty config
		return flagValues{}, nil
	}

	return flagValues(values), nil
}

// flagValues implements [kong.Resolver] for YAML flag-default configs.
type flagValues map[string]any

// Validate implements [kong.Resolver].
func (r flagValues) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r flagValues) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	value, ok := r[name]
	if !ok {
		value, ok = r[underscoreName]
	}

	if !ok {
		// Not found - return nil to let Kong use defaults
		return nil, nil
	}

	// Kong requires numbers as strings for parsing
	switch num := value.(type) {
	case int64:
		return strconv.FormatInt(num, 10), nil
	case uint64:
		return strconv.FormatUint(num, 10), nil
	case float64:
		return strconv.FormatFloat(num, 'f', -1, 64), nil
	}

	return value, nil
}
