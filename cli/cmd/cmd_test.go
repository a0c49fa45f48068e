package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/constgen/target"
)

const optionsDoc = `
codegen:
  enabled: [c, ini]
  comment_sections: false
targets:
  c:
    file_ext: .h
    template: "#define $name $value"
    format:
      radix: hex
  ini:
    file_ext: .ini
    template: "$name = $value"
  rust:
    file_ext: .rs
    template: "pub const $name: $type = $value;"
`

const constantsDoc = `
constants:
  - name: PAGE_SIZE
    value: "4096"
  - name: PAGE_MASK
    value: (sub PAGE_SIZE 1)
`

func writeDocs(t *testing.T) (optPath, conPath string) {
	t.Helper()

	dir := t.TempDir()

	optPath = filepath.Join(dir, "targets.yml")
	if err := os.WriteFile(optPath, []byte(optionsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	conPath = filepath.Join(dir, "constants.yml")
	if err := os.WriteFile(conPath, []byte(constantsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	return optPath, conPath
}

func TestLoad(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)

	reg, set, err := load(optPath, []string{conPath})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(reg.Enabled()) != 2 {
		t.Errorf("enabled = %d, want 2", len(reg.Enabled()))
	}

	if set.Len() != 2 {
		t.Errorf("constants = %d, want 2", set.Len())
	}
}

func TestLoadDeduplicatesDocuments(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)

	// The same document named twice declares its constants once; a
	// second read would fail with a duplicate-constant error.
	_, set, err := load(optPath, []string{conPath, conPath})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if set.Len() != 2 {
		t.Errorf("constants = %d, want 2", set.Len())
	}
}

func TestGenRun(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)
	outDir := t.TempDir()

	gen := &Gen{
		Options:          optPath,
		Constants:        []string{conPath},
		TargetDir:        outDir,
		Stem:             "constants",
		FormatterTimeout: 30 * time.Second,
	}

	if err := gen.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	header, err := os.ReadFile(filepath.Join(outDir, "constants.h"))
	if err != nil {
		t.Fatalf("read constants.h: %v", err)
	}

	want := "#define PAGE_SIZE 0x1000\n#define PAGE_MASK 0xfff\n"
	if string(header) != want {
		t.Errorf("constants.h = %q, want %q", string(header), want)
	}

	ini, err := os.ReadFile(filepath.Join(outDir, "constants.ini"))
	if err != nil {
		t.Fatalf("read constants.ini: %v", err)
	}

	if string(ini) != "PAGE_SIZE = 4096\nPAGE_MASK = 4095\n" {
		t.Errorf("constants.ini = %q", string(ini))
	}

	// The rust target is configured but not enabled.
	if _, err := os.Stat(filepath.Join(outDir, "constants.rs")); err == nil {
		t.Error("disabled target must not generate a file")
	}
}

func TestGenOnly(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)
	outDir := t.TempDir()

	gen := &Gen{
		Options:          optPath,
		Constants:        []string{conPath},
		TargetDir:        outDir,
		Stem:             "constants",
		Only:             []string{"ini"},
		FormatterTimeout: 30 * time.Second,
	}

	if err := gen.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "constants.ini")); err != nil {
		t.Errorf("constants.ini missing: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "constants.h")); err == nil {
		t.Error("filtered-out target must not generate a file")
	}
}

func TestGenOnlyUnknown(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)

	gen := &Gen{
		Options:          optPath,
		Constants:        []string{conPath},
		TargetDir:        t.TempDir(),
		Stem:             "constants",
		Only:             []string{"cobol"},
		FormatterTimeout: time.Second,
	}

	err := gen.Run(context.Background())
	if !errors.Is(err, target.ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestRunFormatter(t *testing.T) {
	t.Parallel()

	out, err := runFormatter(
		context.Background(),
		[]string{"tr", "a-z", "A-Z"},
		"page_size = 4096\n",
		10*time.Second,
	)
	if err != nil {
		t.Fatalf("runFormatter: %v", err)
	}

	if out != "PAGE_SIZE = 4096\n" {
		t.Errorf("formatted = %q", out)
	}
}

func TestRunFormatterFailure(t *testing.T) {
	t.Parallel()

	_, err := runFormatter(
		context.Background(),
		[]string{"false"},
		"input\n",
		10*time.Second,
	)
	if !errors.Is(err, ErrFormatter) {
		t.Fatalf("expected ErrFormatter, got %v", err)
	}

	if _, err := runFormatter(
		context.Background(), nil, "", time.Second,
	); !errors.Is(err, ErrEmptyArgv) {
		t.Fatalf("expected ErrEmptyArgv, got %v", err)
	}
}

func TestCheckRun(t *testing.T) {
	t.Parallel()

	optPath, conPath := writeDocs(t)

	check := &Check{Options: optPath, Constants: []string{conPath}}

	if err := check.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestCheckRunResolutionError(t *testing.T) {
	t.Parallel()

	optPath, _ := writeDocs(t)

	dir := t.TempDir()
	conPath := filepath.Join(dir, "bad.yml")
	bad := "constants:\n  - name: A\n    value: (add A 1)\n"

	if err := os.WriteFile(conPath, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	check := &Check{Options: optPath, Constants: []string{conPath}}

	err := check.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "cyclic") {
		t.Fatalf("expected cyclic dependency error, got %v", err)
	}
}

func TestTargetsRun(t *testing.T) {
	t.Parallel()

	optPath, _ := writeDocs(t)

	cmd := &Targets{Options: optPath}

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
