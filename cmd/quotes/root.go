package main

import (
	"os"

	"github.com/2beens/quotegen/internal/quotes"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newRootCmd builds a fresh command tree, so tests can run commands in isolation.
func newRootCmd() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	rootCmd := &cobra.Command{
		Use:   "quotes",
		Short: "Search motivational quotes by topic",
		Long: `quotes searches a quotes file (or the bundled quotes) by topic and prints
up to three random quotes whose topic contains the given text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
			color.NoColor = noColor || !isInteractive()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newSearchCmd(),
		newTopicsCmd(),
		newValidateCmd(),
	)

	return rootCmd
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// loadStore reads the quotes file at path, or the bundled quotes when path is empty.
func loadStore(path string) (*quotes.Store, error) {
	if path == "" {
		return quotes.LoadEmbedded()
	}
	return quotes.LoadFile(path)
}
