package document

import (
	"io"
	"strconv"

	"github.com/pahanabooks/console-api/pkg/printer"
)

type escposRenderer struct {
	width int
}

// NewESCPOSRenderer renders a thermal-printer receipt. width is the paper
// width in characters (32 for 58mm, 48 for 80mm).
func NewESCPOSRenderer(width int) Renderer {
	return escposRenderer{width: width}
}

func (escposRenderer) Format() Format      { return FormatESCPOS }
func (escposRenderer) ContentType() string { return "application/octet-stream" }

func (r escposRenderer) Render(w io.Writer, doc *Document) error {
	d := printer.NewDocument(r.width)

	d.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(doc.Brand.Name).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if doc.Brand.Tagline != "" {
		d.Text(doc.Brand.Tagline)
	}
	d.LineFeed().SetBold(true).Text(doc.Title).SetBold(false)
	d.SetAlign(printer.AlignLeft).Separator('=')

	for _, s := range doc.Sections {
		if s.Heading != "" {
			d.SetBold(true).Text(s.Heading).SetBold(false)
		}
		for _, f := range s.Fields {
			d.SetBold(f.Strong).KeyValue(f.Label, f.Value).SetBold(false)
		}
		if s.Table != nil {
			receiptRows(d, s.Table)
		}
		d.Separator('-')
	}

	if doc.Footer != "" {
		d.SetAlign(printer.AlignCenter).Text(doc.Footer)
	}
	d.FeedLines(3).PartialCut()

	_, err := w.Write(d.Bytes())
	return err
}

// receiptRows prints each row as "qty x label ... amount" using column roles
func receiptRows(d *printer.Document, t *Table) {
	for _, row := range t.Rows {
		var label, amount string
		qty := 0
		for i, col := range t.Columns {
			v := cell(row, i)
			switch col.Role {
			case ReceiptSkip:
			case ReceiptQuantity:
				qty, _ = strconv.Atoi(v)
			case ReceiptAmount:
				amount = v
			default:
				if label == "" {
					label = v
				} else {
					label += " " + v
				}
			}
		}
		if qty > 0 {
			d.ItemLine(qty, label, amount)
		} else {
			d.KeyValue(label, amount)
		}
	}
}
