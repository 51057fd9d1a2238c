package main

import (
	"errors"
	"fmt"

	"github.com/2beens/quotegen/internal/config"
	"github.com/2beens/quotegen/internal/quotes"
	"github.com/2beens/quotegen/internal/web"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		limit      int
		quotesPath string
	)

	cmd := &cobra.Command{
		Use:   "search [topic]",
		Short: "Print up to three random quotes for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(quotesPath)
			if err != nil {
				return err
			}

			query := args[0]
			selector := quotes.NewSelector(store, quotes.WithLimit(limit))
			found, err := selector.Select(cmd.Context(), query)

			var noMatchErr *quotes.NoMatchError
			switch {
			case errors.Is(err, quotes.ErrEmptyQuery):
				return errors.New(web.EmptyQueryMessage)
			case errors.As(err, &noMatchErr):
				return errors.New(web.NoMatchMessage(noMatchErr.Query, config.DefaultSuggestedTopics))
			case err != nil:
				return err
			}

			out := cmd.OutOrStdout()
			heading := color.New(color.FgMagenta, color.Bold)
			author := color.New(color.FgCyan, color.Italic)

			_, _ = heading.Fprintf(out, "Quotes about \"%s\"\n", query)
			for _, q := range found {
				_, _ = fmt.Fprintf(out, "\n  \"%s\"\n", q.Text)
				_, _ = author.Fprintf(out, "    - %s\n", q.Author)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", quotes.DefaultLimit, "Maximum number of quotes to print")
	cmd.Flags().StringVarP(&quotesPath, "file", "f", "", "Quotes JSON file (default: bundled quotes)")

	return cmd
}
