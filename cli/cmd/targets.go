package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/constgen/config"
)

// Targets lists the configured targets.
type Targets struct {
	Options string `help:"Options document defining types and targets" name:"options" short:"o" required:"" type:"existingfile"`
}

// Run executes the targets command.
func (t *Targets) Run(ctx context.Context) error {
	opts, err := config.LoadOptions(t.Options)
	if err != nil {
		return err
	}

	reg, err := opts.Registry()
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, tgt := range reg.Targets() {
		state := "disabled"
		if reg.IsEnabled(tgt.Name) {
			state = "enabled"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n",
			nameStyle.Render(tgt.Name), tgt.FileExt, state)
	}

	return nil
}
