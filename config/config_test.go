package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/constgen/lang"
	"github.com/ardnew/constgen/target"
)

const optionsDoc = `
codegen:
  enabled: [c, toml]
  comment_sections: true
types:
  PhysAddr: u64
  Frame: PhysAddr
targets:
  c:
    file_ext: .h
    template: "const $type $name = $value;"
    import: "#include $import"
    comment: "// $comment"
    format:
      radix: hex
      group: 4
    types:
      u32:
        name: uint32_t
        imports: ["<stdint.h>"]
      PhysAddr:
        name: uintptr_t
        format:
          pad: 8
  toml:
    file_ext: .toml
    template: "$name = $value"
  python:
    file_ext: .py
    template: "$name = $value"
`

const constantsDoc = `
constants:
  - name: BASE
    type: PhysAddr
    value: "0x1000"
    comment: start of the region
  - name: LIMIT
    type: PhysAddr
    value: (add BASE 0x400)
`

func TestParseOptions(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions([]byte(optionsDoc))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	if !opts.Codegen.CommentSections {
		t.Error("comment_sections not decoded")
	}

	if len(opts.Codegen.Enabled) != 2 || opts.Codegen.Enabled[0] != "c" {
		t.Errorf("enabled = %v", opts.Codegen.Enabled)
	}

	c, ok := opts.Targets["c"]
	if !ok {
		t.Fatal("target c missing")
	}

	if c.FileExt != ".h" {
		t.Errorf("file_ext = %q", c.FileExt)
	}

	if c.Int == nil || c.Int.Radix == nil || *c.Int.Radix != target.RadixHexadecimal {
		t.Error("target format radix not decoded")
	}

	tr, ok := c.Types["PhysAddr"]
	if !ok || tr.Name != "uintptr_t" {
		t.Fatalf("PhysAddr type rule not decoded: %+v", tr)
	}

	if tr.Format == nil || tr.Format.Pad == nil || *tr.Format.Pad != 8 {
		t.Error("type rule pad not decoded")
	}
}

func TestParseOptionsUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := ParseOptions([]byte("codegen:\n  frobnicate: true\n"))
	if !errors.Is(err, ErrParseDocument) {
		t.Fatalf("expected ErrParseDocument for unknown key, got %v", err)
	}
}

func TestParseConstants(t *testing.T) {
	t.Parallel()

	doc, err := ParseConstants([]byte(constantsDoc))
	if err != nil {
		t.Fatalf("ParseConstants: %v", err)
	}

	if len(doc.Constants) != 2 {
		t.Fatalf("constants = %d, want 2", len(doc.Constants))
	}

	first := doc.Constants[0]
	if first.Name != "BASE" || first.Type != "PhysAddr" ||
		first.Value != "0x1000" || first.Comment != "start of the region" {
		t.Errorf("first constant = %+v", first)
	}
}

func TestTypeTableAliases(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions([]byte(optionsDoc))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	table, err := opts.TypeTable()
	if err != nil {
		t.Fatalf("TypeTable: %v", err)
	}

	// Frame aliases PhysAddr which aliases u64; both must resolve to the
	// base's width and signedness regardless of map iteration order.
	for _, name := range []string{"PhysAddr", "Frame"} {
		st, ok := table.Lookup(name)
		if !ok {
			t.Fatalf("alias %s not declared", name)
		}

		if st.Kind != lang.KindInteger || st.Bits != 64 || st.Signed {
			t.Errorf("alias %s = %+v, want unsigned 64-bit", name, st)
		}
	}
}

func TestTypeTableUnknownBase(t *testing.T) {
	t.Parallel()

	opts := &Options{Types: map[string]string{"Bogus": "u128"}}

	if _, err := opts.TypeTable(); !errors.Is(err, lang.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegistryBuild(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions([]byte(optionsDoc))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	reg, err := opts.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	if !reg.CommentSections() {
		t.Error("registry must carry comment_sections")
	}

	if len(reg.Targets()) != 3 {
		t.Errorf("targets = %d, want 3", len(reg.Targets()))
	}

	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].Name != "c" || enabled[1].Name != "toml" {
		t.Errorf("enabled order wrong: %v", enabled)
	}

	if reg.IsEnabled("python") {
		t.Error("python must not be enabled")
	}
}

func TestRegistryNullTarget(t *testing.T) {
	t.Parallel()

	// A target key with no value decodes to a nil *Target; building the
	// registry must diagnose it rather than crash.
	opts, err := ParseOptions([]byte("targets:\n  c:\n"))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	if _, err := opts.Registry(); !errors.Is(err, ErrParseDocument) {
		t.Fatalf("expected ErrParseDocument for null target, got %v", err)
	}
}

func TestRegistryNullTypeRule(t *testing.T) {
	t.Parallel()

	doc := `
targets:
  c:
    template: "$name = $value"
    types:
      u32:
`

	opts, err := ParseOptions([]byte(doc))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	reg, err := opts.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	c, err := reg.Lookup("c")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	// The null entry declares u32 with no overrides.
	rule, err := c.Rule("u32")
	if err != nil {
		t.Fatalf("Rule: %v", err)
	}

	if rule.TypeName != "u32" {
		t.Errorf("TypeName = %q, want u32", rule.TypeName)
	}
}

func TestRegistryEnableUnknown(t *testing.T) {
	t.Parallel()

	opts := &Options{
		Codegen: Codegen{Enabled: []string{"rust"}},
		Targets: map[string]*target.Target{"c": {}},
	}

	if _, err := opts.Registry(); !errors.Is(err, target.ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	optPath := filepath.Join(dir, "targets.yml")
	if err := os.WriteFile(optPath, []byte(optionsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	conPath := filepath.Join(dir, "constants.yml")
	if err := os.WriteFile(conPath, []byte(constantsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	extraPath := filepath.Join(dir, "extra.yml")
	extra := "constants:\n  - name: SPAN\n    value: (sub LIMIT BASE)\n"
	if err := os.WriteFile(extraPath, []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, set, err := Load(optPath, conPath, extraPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(reg.Enabled()) != 2 {
		t.Errorf("enabled targets = %d, want 2", len(reg.Enabled()))
	}

	// Ordinals are global across documents.
	all := set.Constants()
	if len(all) != 3 || all[2].Name != "SPAN" {
		t.Fatalf("constants across documents = %v", all)
	}

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	span, ok := res.Value("SPAN")
	if !ok || span.Int().Int64() != 0x400 {
		t.Errorf("SPAN = %v, want 1024", span)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if !errors.Is(err, ErrReadDocument) {
		t.Fatalf("expected ErrReadDocument, got %v", err)
	}
}
