package cmd

import (
	"context"

	"github.com/ardnew/constgen/cli/cmd/repl"
)

// Repl evaluates expressions interactively over the resolved constant
// set.
type Repl struct {
	Options   string   `help:"Options document defining types and targets" name:"options"   short:"o" required:"" type:"existingfile"`
	Constants []string `help:"Constants document(s) or '-' for stdin"      name:"constants" short:"c" required:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	_, set, err := load(r.Options, r.Constants)
	if err != nil {
		return describe(ctx, err)
	}

	res, err := set.Resolve()
	if err != nil {
		return describe(ctx, err)
	}

	return repl.Run(ctx, res)
}
