package statement

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 80

// Render writes the statement as markdown. When w is a terminal the markdown
// is styled and wrapped to the terminal width.
func Render(w io.Writer, s Statement) error {
	var buf bytes.Buffer
	if err := (MarkdownExporter{}).Export(&buf, s); err != nil {
		return err
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := w.Write(buf.Bytes())
		return err
	}

	width := defaultWidth
	if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
		width = tw
	}
	out, err := Style(buf.String(), width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Style renders markdown for a terminal of the given width.
func Style(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
