package plan

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required column headers on the first sheet.
const (
	colPeriod   = "period"
	colCategory = "category"
	colAmount   = "amount"
)

// ParseWorkbook reads the first sheet of an XLSX workbook into rows. The
// header row must contain the period, category and amount columns; blank
// amount cells are carried through as nil so the pipeline can reject the
// batch with its own error kind.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("plan: open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("plan: workbook has no sheets")
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("plan: read sheet %q: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("plan: sheet %q is empty", sheet)
	}

	idx, err := headerIndex(cells[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, record := range cells[1:] {
		if blankRecord(record) {
			continue
		}
		row := Row{
			Period:   strings.TrimSpace(cellAt(record, idx[colPeriod])),
			Category: strings.TrimSpace(cellAt(record, idx[colCategory])),
		}
		raw := strings.TrimSpace(cellAt(record, idx[colAmount]))
		if raw != "" {
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("plan: row %d: invalid amount %q", i+2, raw)
			}
			row.Amount = &amount
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, 3)
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colPeriod, colCategory, colAmount} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("plan: missing column %q", required)
		}
	}
	return idx, nil
}

// cellAt tolerates short records: excelize trims trailing empty cells.
func cellAt(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
