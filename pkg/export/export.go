package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"dictdoy/pkg/dictionary"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Entries"

var header = []interface{}{"Query", "Simplified", "Traditional", "Pinyin", "English", "Measure Words", "HSK"}

// Row is one exported entry together with the query that found it.
type Row struct {
	Query string
	dictionary.Entry
}

// Rows pairs entries with the query that produced them.
func Rows(query string, entries []dictionary.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{Query: query, Entry: e})
	}
	return rows
}

// WriteXLSX writes rows as a workbook to w.
func WriteXLSX(w io.Writer, rows []Row) error {
	f, err := build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes rows as a workbook to path.
func SaveXLSX(path string, rows []Row) error {
	f, err := build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "E", "E", 48); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2) // excelize 从 1 开始
		if err != nil {
			f.Close()
			return nil, err
		}
		values := []interface{}{
			r.Query,
			r.Simplified,
			r.Traditional,
			r.PinyinMarks,
			strings.Join(r.English, "; "),
			strings.Join(r.MeasureWords, ", "),
			hskCell(r.HSK),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func hskCell(level int) interface{} {
	if level == 0 {
		return ""
	}
	return level
}

// FileName suggests a workbook name for query.
func FileName(query string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(query) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "dictdoy.xlsx"
	}
	return "dictdoy-" + name + ".xlsx"
}
