package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

type xlsxRenderer struct{}

// NewXLSXRenderer renders a workbook with a summary sheet for fields and one
// sheet per table
func NewXLSXRenderer() Renderer {
	return xlsxRenderer{}
}

func (xlsxRenderer) Format() Format { return FormatXLSX }
func (xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxRenderer) Render(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2563EB"}},
	})
	if err != nil {
		return err
	}

	row := 1
	set := func(sheet string, col, r int, v interface{}, style int) error {
		name, err := excelize.CoordinatesToCellName(col, r)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(sheet, name, name, style)
		}
		return nil
	}

	if err := set(summarySheet, 1, row, doc.Brand.Name, titleStyle); err != nil {
		return err
	}
	row++
	if err := set(summarySheet, 1, row, doc.Title, bold); err != nil {
		return err
	}
	row++
	if doc.Subtitle != "" {
		if err := set(summarySheet, 1, row, doc.Subtitle, 0); err != nil {
			return err
		}
		row++
	}

	usedNames := map[string]bool{summarySheet: true}
	for _, s := range doc.Sections {
		if len(s.Fields) > 0 {
			row++
			if s.Heading != "" {
				if err := set(summarySheet, 1, row, s.Heading, bold); err != nil {
					return err
				}
				row++
			}
			for _, fl := range s.Fields {
				if err := set(summarySheet, 1, row, fl.Label, 0); err != nil {
					return err
				}
				if err := set(summarySheet, 2, row, fl.Value, 0); err != nil {
					return err
				}
				row++
			}
		}

		if s.Table == nil {
			continue
		}
		sheet := sheetName(s.Heading, usedNames)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		for i, col := range s.Table.Columns {
			if err := set(sheet, i+1, 1, col.Title, headerStyle); err != nil {
				return err
			}
		}
		for r, cells := range s.Table.Rows {
			for i := range s.Table.Columns {
				if err := set(sheet, i+1, r+2, cell(cells, i), 0); err != nil {
					return err
				}
			}
		}
		if last, err := excelize.ColumnNumberToName(len(s.Table.Columns)); err == nil && len(s.Table.Columns) > 0 {
			_ = f.SetColWidth(sheet, "A", last, 20)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 28)

	return f.Write(w)
}

// sheetName makes a heading safe for use as a unique worksheet name
func sheetName(heading string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(heading))
	if name == "" {
		name = "Table"
	}
	if len(name) > 28 {
		name = name[:28]
	}
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s %d", name, i)
	}
	used[candidate] = true
	return candidate
}
