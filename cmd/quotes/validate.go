package main

import (
	"fmt"

	"github.com/2beens/quotegen/internal/quotes"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a quotes JSON file can be loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := quotes.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("invalid quotes file [%s]: %w", args[0], err)
			}

			_, _ = color.New(color.FgGreen).Fprintf(
				cmd.OutOrStdout(),
				"ok: %d quotes, %d topics\n",
				store.Len(), len(store.Topics()),
			)
			return nil
		},
	}
}
