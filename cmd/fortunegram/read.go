package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortunegram/fortunegram/config"
	"github.com/fortunegram/fortunegram/oracles"
)

type readOptions struct {
	req    oracles.Request
	corpse bool
}

func newReadCmd() *cobra.Command {
	var opts readOptions

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print a single fortune and exit",
		Long: `Resolves one fortune with the configured provider and prints it.

Example:
  fortunegram read --lens "the cards" --character wanderer --energy hopeful`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runRead(cmd, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.req.Lens, "lens", oracles.DefaultOracle, "Oracle to consult")
	f.StringVar(&opts.req.Character, "character", "", "Who is asking")
	f.StringVar(&opts.req.Timeframe, "timeframe", "", "When the guidance is for")
	f.StringVar(&opts.req.Energy, "energy", "", "The seeker's current energy")
	f.BoolVar(&opts.corpse, "corpse", false, "Draw an exquisite corpse and read it through the dream")
	return cmd
}

func runRead(cmd *cobra.Command, cfg config.Config, opts readOptions) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	req := opts.req
	if opts.corpse {
		body := a.corpse.Random()
		fmt.Fprintln(out, body)
		fmt.Fprintln(out)
		req.Lens = oracles.Dream
		req.Corpse = body
	}

	fortune, err := a.resolver.Resolve(cmd.Context(), req)
	if err != nil {
		var genErr *oracles.GenerationError
		if errors.As(err, &genErr) {
			return errors.New(genErr.UserMessage())
		}
		return err
	}

	fmt.Fprintf(out, "%s\n\n~ %s\n", fortune.Text, fortune.Oracle)
	return nil
}
