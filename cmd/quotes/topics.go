package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTopicsCmd() *cobra.Command {
	var quotesPath string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the distinct topics of the quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(quotesPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = color.New(color.Bold).Fprintf(out, "%d topics, %d quotes\n", len(store.Topics()), store.Len())
			for _, topic := range store.Topics() {
				_, _ = fmt.Fprintf(out, "  %s\n", topic)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&quotesPath, "file", "f", "", "Quotes JSON file (default: bundled quotes)")

	return cmd
}
