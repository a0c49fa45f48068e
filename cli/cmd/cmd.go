package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constgen/config"
	"github.com/ardnew/constgen/lang"
	"github.com/ardnew/constgen/target"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer of the kong context in ctx, or
// os.Stdout when none is stored.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special path indicating a document read from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers,
// which deduplicates documents named through symlinks or under both
// absolute and relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// document is one constants document: the path it was named by and its
// raw content.
type document struct {
	path string
	data []byte
}

// readDocuments reads the constants documents at paths, in order.
// Duplicate files (by device and inode) are read once; every occurrence
// of "-" collapses to a single stdin read, placed after all files so a
// piped document always declares last.
func readDocuments(paths []string) ([]document, error) {
	var (
		docs     []document
		hasStdin bool
		seen     = make(map[fileKey]struct{})
	)

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, info, err := statDocument(path)
		if err != nil {
			return nil, config.ErrReadDocument.Wrap(err).
				With(slog.String("path", path))
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, config.ErrReadDocument.Wrap(err).
				With(slog.String("path", path))
		}

		docs = append(docs, document{path: path, data: data})
	}

	if hasStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, config.ErrReadDocument.Wrap(err).
				With(slog.String("path", stdinSource))
		}

		docs = append(docs, document{path: stdinSource, data: data})
	}

	return docs, nil
}

// statDocument resolves symlinks and stats the document at path.
func statDocument(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, err
	}

	return resolved, info, nil
}

// load reads the options document and all constants documents, and
// builds the structures shared by every command: the target registry
// and the declared constant set.
func load(
	optionsPath string, constantPaths []string,
) (*target.Registry, *lang.ConstantSet, error) {
	opts, err := config.LoadOptions(optionsPath)
	if err != nil {
		return nil, nil, err
	}

	reg, table, err := opts.Build()
	if err != nil {
		return nil, nil, err
	}

	docs, err := readDocuments(constantPaths)
	if err != nil {
		return nil, nil, err
	}

	set := lang.NewConstantSet(table, lang.Builtins())

	for _, d := range docs {
		doc, err := config.ParseConstants(d.data)
		if err != nil {
			return nil, nil, lang.WrapError(err).
				With(slog.String("path", d.path))
		}

		if err := doc.Declare(set); err != nil {
			return nil, nil, lang.WrapError(err).
				With(slog.String("path", d.path))
		}
	}

	return reg, set, nil
}
