package statement

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

var markdownTmpl = template.Must(template.New("statement").Funcs(template.FuncMap{
	"cell": cell,
}).Parse(`# Statement{{with .Owner}} for {{cell .}}{{end}}

Generated {{.Generated}}

|  | Cash | Online | Total |
|---|---:|---:|---:|
{{- with .Opening}}
| Opening | {{.Cash}} | {{.Online}} | {{.Total}} |
{{- end}}
| Current | {{.Current.Cash}} | {{.Current.Online}} | {{.Current.Total}} |

## Transactions
{{if .Rows}}
| Date | Time | Title | Mode | Type | Amount | Balance |
|---|---|---|---|---|---:|---:|
{{- range .Rows}}
| {{cell .Date}} | {{cell .Time}} | {{cell .Title}} | {{.Mode}} | {{.Type}} | {{.Amount}} | {{.Balance}} |
{{- end}}
{{else}}
_No transactions._
{{end}}`))

type mdTriple struct {
	Cash, Online, Total string
}

type mdRow struct {
	Date, Time, Title, Mode, Type, Amount, Balance string
}

type mdView struct {
	Owner     string
	Generated string
	Opening   *mdTriple
	Current   mdTriple
	Rows      []mdRow
}

// MarkdownExporter writes the statement as a markdown document with
// amounts in display form.
type MarkdownExporter struct{}

func (MarkdownExporter) Format() string { return "md" }

func (MarkdownExporter) Export(w io.Writer, s Statement) error {
	v := mdView{
		Owner:     s.Owner,
		Generated: s.GeneratedAt.Format("02 Jan 2006 15:04"),
		Current: mdTriple{
			Cash:   s.Money(s.Balances.Cash),
			Online: s.Money(s.Balances.Online),
			Total:  s.Money(s.Balances.Total),
		},
	}
	if s.Opening != nil {
		v.Opening = &mdTriple{
			Cash:   s.Money(s.Opening.Cash),
			Online: s.Money(s.Opening.Online),
			Total:  s.Money(s.Opening.Total()),
		}
	}
	for _, r := range s.Rows() {
		amount := s.Money(r.Amount)
		if r.Amount.IsPositive() {
			amount = "+" + amount
		}
		v.Rows = append(v.Rows, mdRow{
			Date:    r.Date,
			Time:    r.Time,
			Title:   r.Title,
			Mode:    string(r.Mode),
			Type:    string(r.Type),
			Amount:  amount,
			Balance: s.Money(r.Balance),
		})
	}
	if err := markdownTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return nil
}

// cell makes s safe inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
