package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/constgen/lang"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	caretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Check resolves the constant set and prints every value without
// generating any files.
type Check struct {
	Options   string   `help:"Options document defining types and targets" name:"options"   short:"o" required:"" type:"existingfile"`
	Constants []string `help:"Constants document(s) or '-' for stdin"      name:"constants" short:"c" required:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	_, set, err := load(c.Options, c.Constants)
	if err != nil {
		return describe(ctx, err)
	}

	res, err := set.Resolve()
	if err != nil {
		return describe(ctx, err)
	}

	w := stdout(ctx)

	for _, con := range res.Constants() {
		v, _ := res.Value(con.Name)

		line := nameStyle.Render(con.Name)
		if con.Type != "" {
			line += ": " + typeStyle.Render(con.Type)
		}

		line += " = " + valueStyle.Render(v.String())

		fmt.Fprintln(w, line)
	}

	return nil
}

// describe prints a styled diagnostic, including the caret display when
// the error carries a source location, and passes the error through.
func describe(ctx context.Context, err error) error {
	w := stdout(ctx)

	fmt.Fprintln(w, errorStyle.Render(err.Error()))

	le := &lang.Error{}
	if errors.As(err, &le) {
		if loc, ok := le.Location(); ok {
			fmt.Fprintln(w, caretStyle.Render(loc.String()))
		}
	}

	return err
}
