package document

import (
	"io"

	"github.com/phpdave11/gofpdf"
)

var (
	headerFill = [3]int{37, 99, 235}
	mutedText  = [3]int{100, 116, 139}
)

type pdfRenderer struct{}

// NewPDFRenderer renders A4 portrait PDFs
func NewPDFRenderer() Renderer {
	return pdfRenderer{}
}

func (pdfRenderer) Format() Format      { return FormatPDF }
func (pdfRenderer) ContentType() string { return "application/pdf" }

func (pdfRenderer) Render(w io.Writer, doc *Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(doc.Brand.Name, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(mutedText[0], mutedText[1], mutedText[2])
			pdf.CellFormat(0, 6, tr(doc.Footer), "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	// brand band
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.Rect(0, 0, pageW, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(left, 6)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentW, 10, tr(doc.Brand.Name), "", 1, "C", false, 0, "")
	if doc.Brand.Tagline != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(contentW, 7, tr(doc.Brand.Tagline), "", 1, "C", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(40)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(doc.Title), "", 1, "L", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(mutedText[0], mutedText[1], mutedText[2])
		pdf.CellFormat(contentW, 6, tr(doc.Subtitle), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	for _, s := range doc.Sections {
		pdf.Ln(5)
		if s.Heading != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(contentW, 8, tr(s.Heading), "", 1, "L", false, 0, "")
		}
		for _, f := range s.Fields {
			style := ""
			if f.Strong {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			pdf.CellFormat(contentW*0.4, 7, tr(f.Label+":"), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.6, 7, tr(f.Value), "", 1, "L", false, 0, "")
		}
		if s.Table != nil {
			pdfTable(pdf, tr, s.Table, contentW)
		}
	}

	return pdf.Output(w)
}

func pdfTable(pdf *gofpdf.Fpdf, tr func(string) string, t *Table, contentW float64) {
	widths := columnWidths(t.Columns, contentW)

	header := func() {
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 9)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], 8, tr(col.Title), "", 0, pdfAlign(col.Align), true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}

	header()
	if len(t.Rows) == 0 && t.Empty != "" {
		pdf.SetTextColor(mutedText[0], mutedText[1], mutedText[2])
		pdf.CellFormat(contentW, 8, tr(t.Empty), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return
	}

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.Rows {
		if pdf.GetY()+8 > pageH-bottom {
			pdf.AddPage()
			header()
		}
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], 7, tr(cell(row, i)), "B", 0, pdfAlign(col.Align), false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// columnWidths honours fixed widths and splits what is left evenly
func columnWidths(cols []Column, total float64) []float64 {
	widths := make([]float64, len(cols))
	fixed, flexible := 0.0, 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			flexible++
		}
	}
	if flexible > 0 {
		share := (total - fixed) / float64(flexible)
		if share < 10 {
			share = 10
		}
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func pdfAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}
