package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"
)

// extractXLSX parses a .xlsx workbook. The first sheet that contains any
// rows becomes the table; row 0 is treated as the header. Short rows are
// padded to the header width so downstream rendering sees a rectangle.
func extractXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		return padRows(rows), nil
	}
	return nil, nil
}

// extractXLS parses a legacy .xls workbook, first non-empty sheet only.
func extractXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		sheetRows := sheet.GetRows()
		if len(sheetRows) == 0 {
			continue
		}
		rows := make([][]string, 0, len(sheetRows))
		for _, row := range sheetRows {
			rows = append(rows, xlsRowValues(row.GetCols()))
		}
		return padRows(rows), nil
	}
	return nil, nil
}

func xlsRowValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}

// extractCSV parses comma-separated rows. Ragged rows are tolerated and
// padded to the widest row.
func extractCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return padRows(rows), nil
}

// padRows pads every row with empty cells up to the widest row, so the
// header row always covers the full column count.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}
