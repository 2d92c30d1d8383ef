// Package document builds printable documents (bills, reports) once and
// renders them through interchangeable format strategies.
package document

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format identifies an output format
type Format string

const (
	FormatPDF    Format = "pdf"
	FormatXLSX   Format = "xlsx"
	FormatText   Format = "txt"
	FormatHTML   Format = "html"
	FormatESCPOS Format = "escpos"
)

// ParseFormat normalises a format name. "text" is accepted for txt.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatXLSX, FormatText, FormatHTML, FormatESCPOS:
		return f, nil
	case "text":
		return FormatText, nil
	case "":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("document: unsupported format %q", s)
	}
}

// Align is a horizontal alignment
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ReceiptRole tells the thermal renderer how to use a table column
type ReceiptRole int

const (
	ReceiptLabel ReceiptRole = iota
	ReceiptSkip
	ReceiptQuantity
	ReceiptAmount
)

// Brand is the shop identity printed in headers
type Brand struct {
	Name     string
	Tagline  string
	Currency string
}

// Money formats an already-rounded amount with the brand currency
func (b Brand) Money(amount string) string {
	if b.Currency == "" {
		return amount
	}
	return b.Currency + " " + amount
}

// Field is a labelled value
type Field struct {
	Label  string
	Value  string
	Strong bool
	// Class is an optional presentation hint for HTML (e.g. "total", "status-badge saved")
	Class string
}

// Column describes a table column
type Column struct {
	Title string
	Align Align
	// Width in millimetres for PDF; zero shares the remaining width
	Width float64
	Role  ReceiptRole
}

// Table is a simple grid of pre-formatted cells
type Table struct {
	Columns []Column
	Rows    [][]string
	// Empty is shown when there are no rows
	Empty string
}

// Section is a headed block with fields, a table, or both
type Section struct {
	Heading string
	Fields  []Field
	Table   *Table
}

// Action is an operation offered next to an interactive rendering
type Action struct {
	Name   string
	Label  string
	Method string
	Href   string
}

// Document is the format-independent description of a printable document
type Document struct {
	Brand       Brand
	Title       string
	Subtitle    string
	Badge       string
	Sections    []Section
	Actions     []Action
	Footer      string
	Filename    string
	GeneratedAt time.Time
}

// FileName returns the download name for a format
func (d *Document) FileName(f Format) string {
	base := d.Filename
	if base == "" {
		base = "document"
	}
	ext := string(f)
	if f == FormatESCPOS {
		ext = "bin"
	}
	return base + "." + ext
}

// Renderer writes a document in one format
type Renderer interface {
	Format() Format
	ContentType() string
	Render(w io.Writer, doc *Document) error
}

// Renderers holds one renderer per format
type Renderers map[Format]Renderer

// DefaultRenderers returns a renderer for every supported format
func DefaultRenderers() Renderers {
	rs := Renderers{}
	for _, r := range []Renderer{NewPDFRenderer(), NewXLSXRenderer(), NewTextRenderer(), NewHTMLRenderer(), NewESCPOSRenderer(48)} {
		rs[r.Format()] = r
	}
	return rs
}

// For returns the renderer for f
func (rs Renderers) For(f Format) (Renderer, error) {
	r, ok := rs[f]
	if !ok {
		return nil, fmt.Errorf("document: no renderer for %q", f)
	}
	return r, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
