package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cashbook-dev/cashbook/internal/activity"
	"github.com/cashbook-dev/cashbook/internal/statement"
)

const defaultExportFormat = "md"

func newExportCommand(g *globals) *cobra.Command {
	var format, output string

	registry := statement.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a statement of the ledger",
		Long: "Export the balances and every transaction with its running balance. The\n" +
			"format defaults to the output file's extension, or md when writing to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			exp, err := pickExporter(registry, format, output)
			if err != nil {
				return err
			}
			if err := writeStatement(exp, a.statement(), output, a.out); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(a.out, "Wrote %s statement to %s\n", exp.Format(), output)
				a.record(activity.ActionExport, fmt.Sprintf("%s statement to %s", exp.Format(), output), "")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "statement format: "+strings.Join(registry.Formats(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// pickExporter resolves the export format from the flag, then the output
// file extension, then the default.
func pickExporter(r *statement.Registry, format, output string) (statement.Exporter, error) {
	if format == "" && output != "" {
		format = statement.FormatFromPath(output)
	}
	if format == "" {
		format = defaultExportFormat
	}
	exp := r.Get(format)
	if exp == nil {
		return nil, fmt.Errorf("unknown export format %q (supported: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return exp, nil
}

// writeStatement exports st to path, or to stdout when path is empty.
func writeStatement(exp statement.Exporter, st statement.Statement, path string, stdout io.Writer) error {
	if path == "" {
		return exp.Export(stdout, st)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := exp.Export(f, st); err != nil {
		f.Close()
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	return f.Close()
}
