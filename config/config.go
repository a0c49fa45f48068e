// Package config deserializes the two YAML document kinds that drive a
// generation run: the options document (codegen settings, semantic type
// aliases, and target definitions) and one or more constants documents.
//
// Loading produces the in-memory [target.Registry], [lang.TypeTable],
// and [lang.ConstantSet]; everything downstream operates on those
// structures, never on file syntax.
package config

import (
	"log/slog"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/constgen/lang"
	"github.com/ardnew/constgen/target"
)

// Predefined errors (sentinel values).
var (
	ErrReadDocument  = lang.NewError("cannot read document")
	ErrParseDocument = lang.NewError("cannot parse document")
)

// Codegen holds run-wide generation settings.
type Codegen struct {
	// Enabled lists the targets to generate, in order.
	Enabled []string `yaml:"enabled"`

	// CommentSections enables section and per-constant comments in the
	// generated output.
	CommentSections bool `yaml:"comment_sections"`
}

// Options is the deserialized options document.
type Options struct {
	Codegen Codegen                   `yaml:"codegen"`
	Types   map[string]string         `yaml:"types"`
	Targets map[string]*target.Target `yaml:"targets"`
}

// ConstantDecl is one constant entry of a constants document.
// Value holds the unparsed expression text.
type ConstantDecl struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Value   string `yaml:"value"`
	Comment string `yaml:"comment"`
}

// ConstantsDoc is one deserialized constants document.
type ConstantsDoc struct {
	Constants []ConstantDecl `yaml:"constants"`
}

// ParseOptions deserializes an options document.
// Unknown keys are errors.
func ParseOptions(data []byte) (*Options, error) {
	var opts Options
	if err := yaml.UnmarshalWithOptions(data, &opts, yaml.Strict()); err != nil {
		return nil, ErrParseDocument.Wrap(err)
	}

	return &opts, nil
}

// ParseConstants deserializes a constants document.
// Unknown keys are errors.
func ParseConstants(data []byte) (*ConstantsDoc, error) {
	var doc ConstantsDoc
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, ErrParseDocument.Wrap(err)
	}

	return &doc, nil
}

// Registry builds the target registry: every configured target is
// registered (sorted by name, since YAML maps carry no order), then the
// enabled list is applied in its declared order.
func (o *Options) Registry() (*target.Registry, error) {
	reg := target.NewRegistry(o.Codegen.CommentSections)

	names := make([]string, 0, len(o.Targets))
	for name := range o.Targets {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		t := o.Targets[name]
		if t == nil {
			// A null YAML node decodes to a nil pointer.
			return nil, ErrParseDocument.With(
				slog.String("target", name),
				slog.String("reason", "target entry is empty"),
			)
		}

		t.Name = name

		if err := reg.Add(t); err != nil {
			return nil, err
		}
	}

	if err := reg.Enable(o.Codegen.Enabled...); err != nil {
		return nil, err
	}

	return reg, nil
}

// TypeTable builds the semantic type table: the builtins plus every
// configured alias. Aliases may name other aliases; declaration repeats
// until all resolve, so alias-of-alias works regardless of map order.
func (o *Options) TypeTable() (*lang.TypeTable, error) {
	table := lang.NewTypeTable()

	remaining := make([]string, 0, len(o.Types))
	for name := range o.Types {
		remaining = append(remaining, name)
	}

	sort.Strings(remaining)

	for len(remaining) > 0 {
		var deferred []string

		for _, name := range remaining {
			base := o.Types[name]
			if _, ok := table.Lookup(base); !ok {
				deferred = append(deferred, name)

				continue
			}

			if err := table.Declare(name, base); err != nil {
				return nil, err
			}
		}

		if len(deferred) == len(remaining) {
			// No alias resolved this pass: the first leftover names a
			// base that does not exist anywhere.
			name := deferred[0]

			return nil, lang.ErrUnknownType.With(
				slog.String("type", o.Types[name]),
				slog.String("alias", name),
			)
		}

		remaining = deferred
	}

	return table, nil
}

// Build constructs the registry and type table from the options.
func (o *Options) Build() (*target.Registry, *lang.TypeTable, error) {
	reg, err := o.Registry()
	if err != nil {
		return nil, nil, err
	}

	table, err := o.TypeTable()
	if err != nil {
		return nil, nil, err
	}

	return reg, table, nil
}

// Declare appends the document's constants to the set in document
// order. Ordinals are global: declarations from an earlier document
// precede every declaration from a later one.
func (d *ConstantsDoc) Declare(set *lang.ConstantSet) error {
	for _, c := range d.Constants {
		if err := set.Add(c.Name, c.Type, c.Value, c.Comment); err != nil {
			return err
		}
	}

	return nil
}
