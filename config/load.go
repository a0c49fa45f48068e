package config

import (
	"log/slog"
	"os"

	"github.com/ardnew/constgen/lang"
	"github.com/ardnew/constgen/target"
)

// LoadOptions reads and deserializes the options document at path.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadDocument.Wrap(err).
			With(slog.String("path", path))
	}

	opts, err := ParseOptions(data)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return opts, nil
}

// LoadConstants reads the constants documents at paths and declares
// their constants, in path order, into a new set built on the given
// type table.
func LoadConstants(
	table *lang.TypeTable, paths ...string,
) (*lang.ConstantSet, error) {
	set := lang.NewConstantSet(table, lang.Builtins())

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrReadDocument.Wrap(err).
				With(slog.String("path", path))
		}

		doc, err := ParseConstants(data)
		if err != nil {
			return nil, lang.WrapError(err).
				With(slog.String("path", path))
		}

		if err := doc.Declare(set); err != nil {
			return nil, lang.WrapError(err).
				With(slog.String("path", path))
		}
	}

	return set, nil
}

// Load reads the options document and all constants documents, and
// builds the structures a generation run operates on.
func Load(
	optionsPath string, constantPaths ...string,
) (*target.Registry, *lang.ConstantSet, error) {
	opts, err := LoadOptions(optionsPath)
	if err != nil {
		return nil, nil, err
	}

	reg, table, err := opts.Build()
	if err != nil {
		return nil, nil, err
	}

	set, err := LoadConstants(table, constantPaths...)
	if err != nil {
		return nil, nil, err
	}

	return reg, set, nil
}
