package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ardnew/constgen/lang"
	"github.com/ardnew/constgen/log"
	"github.com/ardnew/constgen/target"
)

// Gen generates one constant file per enabled target.
type Gen struct {
	Options   string   `help:"Options document defining types and targets"   name:"options"    short:"o" required:"" type:"existingfile"`
	Constants []string `help:"Constants document(s) or '-' for stdin"        name:"constants"  short:"c" required:""`
	TargetDir string   `help:"Directory receiving generated files"           name:"target-dir" short:"d" default:"."`
	Stem      string   `help:"Base name (without extension) of output files" default:"constants"`
	Only      []string `help:"Generate only the named enabled targets"`

	FormatterTimeout time.Duration `help:"Execution timeout per formatter invocation" default:"30s"`
}

// Run executes the gen command. Targets generate independently: one
// target's emission, formatter, or write failure is reported and skips
// its file, but the remaining targets still generate. Any failure
// yields a non-nil (non-zero exit) result.
func (g *Gen) Run(ctx context.Context) error {
	reg, set, err := load(g.Options, g.Constants)
	if err != nil {
		return err
	}

	res, err := set.Resolve()
	if err != nil {
		return err
	}

	targets, err := g.selectTargets(reg)
	if err != nil {
		return err
	}

	var failed int

	for _, t := range targets {
		if err := g.generate(ctx, res, t, reg.CommentSections()); err != nil {
			log.ErrorContext(ctx, "target failed",
				slog.String("target", t.Name),
				slog.Any("error", err),
			)

			failed++
		}
	}

	if failed > 0 {
		return ErrGenerate.With(
			slog.Int("failed", failed),
			slog.Int("targets", len(targets)),
		)
	}

	return nil
}

// selectTargets returns the enabled targets, narrowed by --only.
// Every --only name must be a configured target; names that are
// configured but not enabled are skipped.
func (g *Gen) selectTargets(reg *target.Registry) ([]*target.Target, error) {
	if len(g.Only) == 0 {
		targets := reg.Enabled()
		if len(targets) == 0 {
			return nil, target.ErrNoTargetsEnabled
		}

		return targets, nil
	}

	targets := make([]*target.Target, 0, len(g.Only))

	for _, name := range g.Only {
		t, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}

		if !reg.IsEnabled(name) {
			continue
		}

		targets = append(targets, t)
	}

	if len(targets) == 0 {
		return nil, target.ErrNoTargetsEnabled
	}

	return targets, nil
}

// generate emits, formats, and writes one target's output file.
func (g *Gen) generate(
	ctx context.Context,
	res *lang.Resolution,
	t *target.Target,
	commentSections bool,
) error {
	out, err := target.Emit(res, t, commentSections)
	if err != nil {
		return err
	}

	for _, argv := range t.Formatter {
		out, err = runFormatter(ctx, argv, out, g.FormatterTimeout)
		if err != nil {
			return err
		}
	}

	path := filepath.Join(g.TargetDir, g.Stem+t.FileExt)

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "generated",
		slog.String("target", t.Name),
		slog.String("path", path),
	)

	return nil
}
