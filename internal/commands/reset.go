package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/statement"
)

func newResetCommand(g *globals) *cobra.Command {
	var exportPath string
	var yes bool

	registry := statement.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the opening balance and all transactions",
		Long: "Delete the opening balance and all transactions so the ledger can start over.\n" +
			"Use --export to save a statement of the ledger first. Asks for confirmation\n" +
			"unless --yes is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			plan := a.svc.BeginReset()
			snap := plan.Snapshot
			if snap.Opening == nil && len(snap.Transactions) == 0 {
				fmt.Fprintln(a.out, "Nothing to reset.")
				return nil
			}

			if exportPath != "" {
				exp, err := pickExporter(registry, "", exportPath)
				if err != nil {
					return err
				}
				if err := writeStatement(exp, a.snapshot(snap), exportPath, a.out); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Wrote %s statement to %s\n", exp.Format(), exportPath)
			}

			if !yes {
				fmt.Fprintf(a.out, "Delete the opening balance and %d transaction(s)? [y/N]: ", len(snap.Transactions))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(a.out, "Reset cancelled.")
					return nil
				}
			}

			if err := plan.Confirm(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Ledger reset.")
			details := fmt.Sprintf("cleared %d transaction(s)", len(snap.Transactions))
			if exportPath != "" {
				details += ", exported to " + exportPath
			}
			a.record(activity.ActionReset, details, "")
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "export a statement to this file before resetting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
