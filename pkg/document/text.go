package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

type textRenderer struct{}

// NewTextRenderer renders a plain-text version of a document
func NewTextRenderer() Renderer {
	return textRenderer{}
}

func (textRenderer) Format() Format      { return FormatText }
func (textRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (textRenderer) Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	title := doc.Brand.Name
	if title == "" {
		title = doc.Title
	}
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", len(title)+1))
	if doc.Brand.Name != "" && doc.Title != "" {
		fmt.Fprintln(bw, doc.Title)
	}
	if doc.Subtitle != "" {
		fmt.Fprintln(bw, doc.Subtitle)
	}

	for _, s := range doc.Sections {
		fmt.Fprintln(bw)
		if s.Heading != "" {
			fmt.Fprintf(bw, "%s:\n", s.Heading)
		}
		for _, f := range s.Fields {
			fmt.Fprintf(bw, "%s: %s\n", f.Label, f.Value)
		}
		if s.Table != nil {
			writeTextTable(bw, s.Table)
		}
	}

	if doc.Footer != "" {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, doc.Footer)
	}
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "Generated on: %s\n", doc.GeneratedAt.Format(time.RFC1123))
	}

	return bw.Flush()
}

// writeTextTable prints one line per row: the first label column after the
// row number, then "Column: value" pairs.
func writeTextTable(w io.Writer, t *Table) {
	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = "No items found"
		}
		fmt.Fprintln(w, empty)
		return
	}

	for n, row := range t.Rows {
		var head string
		var parts []string
		for i, col := range t.Columns {
			if col.Role == ReceiptSkip {
				continue
			}
			v := cell(row, i)
			if head == "" && col.Role == ReceiptLabel {
				head = v
				continue
			}
			parts = append(parts, col.Title+": "+v)
		}
		line := fmt.Sprintf("%d. %s", n+1, head)
		if len(parts) > 0 {
			line += " - " + strings.Join(parts, " - ")
		}
		fmt.Fprintln(w, line)
	}
}
