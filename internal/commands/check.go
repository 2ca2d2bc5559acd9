package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/ledger"
)

func newCheckCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the stored ledger is consistent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			l := a.svc.Ledger()
			violations := ledger.Reconcile(l)
			if len(violations) == 0 {
				fmt.Fprintf(a.out, "OK: %d transaction(s), total %s\n", len(l.Transactions), a.money(l.Balances().Total))
				if len(l.Transactions) > 0 {
					latest := l.Transactions[0].ID
					for _, t := range l.Transactions[1:] {
						latest = max(latest, t.ID)
					}
					fmt.Fprintf(a.out, "Last entry: %s\n", latest.Time().Local().Format(time.DateTime))
				}
				return nil
			}
			for _, v := range violations {
				fmt.Fprintln(a.out, v.Error())
			}
			return fmt.Errorf("%d problem(s) found", len(violations))
		},
	}
}
