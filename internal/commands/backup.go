package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/gateway"
	"github.com/cashbook-dev/cashbook/internal/ledger"
	"github.com/cashbook-dev/cashbook/internal/schema"
)

func newBackupCommand(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write the whole ledger to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			l := a.svc.Ledger()
			write := func(w io.Writer) error {
				return schema.WriteBackup(w, gateway.OpeningBalanceKey, gateway.TransactionsKey, l.Opening, l.Transactions, a.now())
			}

			if output == "" {
				return write(a.out)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Backed up %d transaction(s) to %s\n", len(l.Transactions), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default stdout)")

	return cmd
}

func newRestoreCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Load a backup into an empty ledger",
		Long: "Load a backup written by \"cashbook backup\" into an empty ledger. A flat JSON\n" +
			"dump of the INITIAL_BALANCE and EXPENSES records is accepted too.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer f.Close()

			opening, txns, err := schema.ReadBackup(f, gateway.OpeningBalanceKey, gateway.TransactionsKey)
			if err != nil {
				return err
			}
			if err := a.svc.Restore(cmd.Context(), ledger.Ledger{Opening: opening, Transactions: txns}); err != nil {
				return err
			}

			b := a.svc.Balances()
			fmt.Fprintf(a.out, "Restored %d transaction(s), total %s\n", len(txns), a.money(b.Total))
			a.record(activity.ActionRestore, fmt.Sprintf("%d transaction(s) from %s", len(txns), args[0]), "")
			return nil
		},
	}
}
