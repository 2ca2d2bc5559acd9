package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/model"
	"github.com/cashbook-dev/cashbook/internal/statement"
)

func newOpenCommand(g *globals) *cobra.Command {
	var cash, online string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Set the opening cash and online balance",
		Long: "Set the opening balance the ledger starts from. Either amount may be left\n" +
			"out but at least one must be greater than zero. The opening balance can only\n" +
			"be set once; use reset to start over.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			ob, err := a.svc.SetOpeningBalance(cmd.Context(), cash, online)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Opening balance: cash %s, online %s, total %s\n",
				a.money(ob.Cash), a.money(ob.Online), a.money(ob.Total()))
			a.record(activity.ActionOpen, fmt.Sprintf("cash %s online %s", ob.Cash, ob.Online), "")
			return nil
		},
	}

	cmd.Flags().StringVar(&cash, "cash", "", "opening cash balance")
	cmd.Flags().StringVar(&online, "online", "", "opening online balance")

	return cmd
}

// newTransactionCommand builds the debit or credit command.
func newTransactionCommand(g *globals, name string) *cobra.Command {
	txType := model.TypeDebit
	short := "Record money going out"
	if name == "credit" {
		txType = model.TypeCredit
		short = "Record money coming in"
	}
	var mode string

	cmd := &cobra.Command{
		Use:   name + " <title> <amount>",
		Short: short,
		Long: short + ". The amount must be greater than zero.\n\n" +
			"Arguments starting with a dash are read as flags; put them after -- so\n" +
			"they reach the ledger as written.",
		Example: "  cashbook " + name + " Lunch 12.50 --mode cash\n" +
			"  cashbook " + name + " --mode online -- Rent 900",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, err := a.svc.AddTransaction(cmd.Context(), args[0], args[1], mode, string(txType))
			if err != nil {
				return err
			}

			b := a.svc.Balances()
			fmt.Fprintf(a.out, "%s %s %s (%s) on %s %s\n",
				txn.Type, a.money(txn.Amount), strings.ToLower(string(txn.Mode)), txn.Title, txn.Date, txn.Time)
			fmt.Fprintf(a.out, "Balance: cash %s, online %s, total %s\n",
				a.money(b.Cash), a.money(b.Online), a.money(b.Total))
			a.record(activity.ActionAdd,
				fmt.Sprintf("%s %s %s: %s", txn.Type, txn.Amount, txn.Mode, txn.Title),
				txn.ID.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "cash or online (default cash)")

	return cmd
}

func newBalanceCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current cash, online and total balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.svc.Opening(); !ok {
				fmt.Fprintln(a.out, "No opening balance set. Run \"cashbook open\" to start.")
			}
			b := a.svc.Balances()
			fmt.Fprintf(a.out, "Cash:   %s\n", a.money(b.Cash))
			fmt.Fprintf(a.out, "Online: %s\n", a.money(b.Online))
			fmt.Fprintf(a.out, "Total:  %s\n", a.money(b.Total))
			return nil
		},
	}
}

func newListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions newest first with the running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			return statement.Render(a.out, a.statement())
		},
	}
}
