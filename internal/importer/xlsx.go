package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX parses the first sheet of an XLSX product file. The column layout
// matches ParseCSV: a header row followed by name/store_id/price rows.
func ParseXLSX(content []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return &ParseResult{}, nil
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for idx, record := range rows[1:] {
		rowNum := idx + 2
		if len(record) == 0 {
			continue
		}
		row, err := parseRecord(record, cols)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
