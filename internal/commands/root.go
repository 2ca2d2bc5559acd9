package commands

import (
	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "cashbook",
		Short:   "Personal cash and online balance tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.home, "home", "", "ledger home directory (default $"+HomeEnv+" or ~/.cashbook)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log storage activity")

	rootCmd.AddCommand(
		newInitCommand(g),
		newOpenCommand(g),
		newTransactionCommand(g, "debit"),
		newTransactionCommand(g, "credit"),
		newBalanceCommand(g),
		newListCommand(g),
		newExportCommand(g),
		newResetCommand(g),
		newCheckCommand(g),
		newBackupCommand(g),
		newRestoreCommand(g),
		newLogCommand(g),
	)

	return rootCmd
}
