package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() *Document {
	return &Document{
		Brand:    Brand{Name: "PAHANA BOOK SHOP", Tagline: "Professional Book Retailer", Currency: "Rs."},
		Title:    "INVOICE",
		Badge:    "Viewing Existing Bill",
		Filename: "bill-BILL-1001",
		Sections: []Section{
			{
				Heading: "Customer Information",
				Fields: []Field{
					{Label: "Name", Value: "Nimal <Perera>"},
					{Label: "Account", Value: "ACC1001"},
				},
			},
			{
				Heading: "Items",
				Table: &Table{
					Columns: []Column{
						{Title: "#", Role: ReceiptSkip, Width: 10},
						{Title: "Item"},
						{Title: "Qty", Role: ReceiptQuantity, Align: AlignRight},
						{Title: "Price", Align: AlignRight, Role: ReceiptSkip},
						{Title: "Amount", Align: AlignRight, Role: ReceiptAmount},
					},
					Rows: [][]string{
						{"1", "Dune", "2", "Rs. 1500.00", "Rs. 3000.00"},
					},
				},
			},
			{
				Heading: "Summary",
				Fields: []Field{
					{Label: "Total Amount", Value: "Rs. 3105.00", Strong: true, Class: "total"},
				},
			},
		},
		Actions:     []Action{{Name: "save", Label: "Save Bill", Method: "POST", Href: "/api/v1/billing/bills/BILL-1001/save"}},
		Footer:      "Thank you for your purchase!",
		GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer().Render(&buf, sampleDocument()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_ManyRowsPaginates(t *testing.T) {
	doc := sampleDocument()
	table := doc.Sections[1].Table
	for i := 0; i < 120; i++ {
		table.Rows = append(table.Rows, []string{"n", "Book", "1", "1.00", "1.00"})
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer().Render(&buf, doc))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, sampleDocument()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "PAHANA BOOK SHOP\n=================\n"))
	assert.Contains(t, out, "Account: ACC1001")
	assert.Contains(t, out, "1. Dune - Qty: 2 - Amount: Rs. 3000.00")
	assert.Contains(t, out, "Total Amount: Rs. 3105.00")
	assert.Contains(t, out, "Thank you for your purchase!")
}

func TestTextRenderer_EmptyTable(t *testing.T) {
	doc := sampleDocument()
	doc.Sections[1].Table.Rows = nil

	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, doc))
	assert.Contains(t, buf.String(), "No items found")
}

func TestHTMLRenderer_EscapesAndRendersActions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "Nimal &lt;Perera&gt;")
	assert.Contains(t, out, `data-action="save"`)
	assert.Contains(t, out, `class="total"`)
	assert.Contains(t, out, "<td style=\"text-align:left\">Dune</td>")
	assert.Contains(t, out, "Viewing Existing Bill")
}

func TestHTMLRenderer_EmptyTable(t *testing.T) {
	doc := sampleDocument()
	doc.Sections[1].Table.Rows = nil
	doc.Sections[1].Table.Empty = "No items"

	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, doc))
	assert.Contains(t, buf.String(), `<td colspan="5" class="empty">No items</td>`)
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXRenderer().Render(&buf, sampleDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Items"}, f.GetSheetList())

	v, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "PAHANA BOOK SHOP", v)

	v, err = f.GetCellValue("Items", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Dune", v)
}

func TestESCPOSRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewESCPOSRenderer(32).Render(&buf, sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "PAHANA BOOK SHOP")
	assert.Contains(t, out, "2x Dune")
	assert.Contains(t, out, "Rs. 3000.00\n")
	assert.NotContains(t, out, "Rs. 1500.00")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestDefaultRenderersCoverEveryFormat(t *testing.T) {
	rs := DefaultRenderers()
	for _, f := range []Format{FormatPDF, FormatXLSX, FormatText, FormatHTML, FormatESCPOS} {
		r, err := rs.For(f)
		require.NoError(t, err)
		assert.Equal(t, f, r.Format())
	}
	assert.Equal(t, "bill-BILL-1001.bin", sampleDocument().FileName(FormatESCPOS))
}

func TestSheetNameIsUniqueAndSafe(t *testing.T) {
	used := map[string]bool{"Summary": true}
	assert.Equal(t, "Top-Books", sheetName("Top/Books", used))
	assert.Equal(t, "Top-Books 2", sheetName("Top/Books", used))
	assert.Equal(t, "Summary 2", sheetName("Summary", used))
}
