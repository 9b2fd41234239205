package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"pmdash/internal/tabular"
)

// Sheet is one worksheet of an export: a header row and string cells.
// Cells that parse as numbers are written as numbers.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// CreateExcelFile builds an xlsx workbook with the given sheets followed by
// an "Info" sheet holding the metadata pairs in order.
func CreateExcelFile(sheets []Sheet, metadata [][2]string) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7ECF3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	first := -1
	for i, sheet := range sheets {
		var index int
		if i == 0 {
			// Reuse the default sheet so the workbook has no empty tab.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
			index = 0
		} else if index, err = f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}
		if first < 0 {
			first = index
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}

	if len(metadata) > 0 {
		createInfoSheet(f, metadata)
	}

	f.SetActiveSheet(first)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	for i, header := range sheet.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	if len(sheet.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for rowIdx, row := range sheet.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			if n := tabular.ParseFloat(v); !math.IsNaN(n) && v != "" {
				values[i] = n
			} else {
				values[i] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	for i := 1; i <= len(sheet.Headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet.Name, colName, colName, 20)
	}
	return nil
}

func createInfoSheet(f *excelize.File, metadata [][2]string) {
	f.NewSheet("Info")

	f.SetCellValue("Info", "A1", "Report Generated")
	f.SetCellValue("Info", "B1", time.Now().Format("2006-01-02 15:04:05"))
	for i, kv := range metadata {
		f.SetCellValue("Info", fmt.Sprintf("A%d", i+2), kv[0])
		f.SetCellValue("Info", fmt.Sprintf("B%d", i+2), kv[1])
	}
	f.SetColWidth("Info", "A", "B", 30)
}

// CreateCSV writes a header row and rows as UTF-8 CSV.
func CreateCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
