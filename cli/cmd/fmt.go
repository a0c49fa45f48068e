package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// runFormatter pipes text through one external formatter invocation:
// the program reads the rendered output on stdin and writes the
// reformatted text to stdout. The invocation is bounded by timeout.
func runFormatter(
	ctx context.Context,
	argv []string,
	text string,
	timeout time.Duration,
) (string, error) {
	if len(argv) == 0 {
		return "", ErrEmptyArgv
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e := ErrFormatter.Wrap(err).With(
			slog.String("command", strings.Join(argv, " ")),
		)

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			e = e.With(slog.String("stderr", msg))
		}

		return "", e
	}

	return stdout.String(), nil
}
