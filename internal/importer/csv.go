package importer

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// header aliases accepted for each column, matching the shapes seen in
// crowdsourced price files.
var (
	nameHeaders         = []string{"name", "product_name", "product"}
	storeHeaders        = []string{"store_id", "storeid", "store"}
	priceHeaders        = []string{"price"}
	availabilityHeaders = []string{"availability", "in_stock", "stock"}
)

// ParseCSV parses a CSV product file. Encoding is detected (UTF-8 or
// Windows-1252 fallback) and the delimiter sniffed from the header line.
func ParseCSV(content []byte) (*ParseResult, error) {
	text, err := decodeToUTF8(content)
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &ParseResult{}, nil
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for idx, record := range records[1:] {
		rowNum := idx + 2 // 1-based, after header
		row, err := parseRecord(record, cols)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

type columnIndices struct {
	name         int
	storeID      int
	price        int
	availability int // -1 when absent
}

func mapColumns(headers []string) (columnIndices, error) {
	cols := columnIndices{name: -1, storeID: -1, price: -1, availability: -1}
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case cols.name == -1 && contains(nameHeaders, key):
			cols.name = i
		case cols.storeID == -1 && contains(storeHeaders, key):
			cols.storeID = i
		case cols.price == -1 && contains(priceHeaders, key):
			cols.price = i
		case cols.availability == -1 && contains(availabilityHeaders, key):
			cols.availability = i
		}
	}
	if cols.name == -1 || cols.storeID == -1 || cols.price == -1 {
		return cols, fmt.Errorf("missing required columns (need name, store_id, price), got %v", headers)
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndices) (ProductRow, error) {
	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := get(cols.name)
	if name == "" {
		return ProductRow{}, fmt.Errorf("empty product name")
	}

	storeID, err := strconv.ParseInt(get(cols.storeID), 10, 64)
	if err != nil {
		return ProductRow{}, fmt.Errorf("invalid store id %q", get(cols.storeID))
	}

	priceStr := strings.ReplaceAll(get(cols.price), ",", ".")
	priceStr = strings.TrimPrefix(priceStr, "$")
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return ProductRow{}, fmt.Errorf("invalid price %q", get(cols.price))
	}

	return ProductRow{
		Name:         name,
		StoreID:      storeID,
		Price:        price,
		Availability: get(cols.availability),
	}, nil
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

// decodeToUTF8 returns the content as UTF-8 text, decoding from Windows-1252
// when the bytes are not already valid UTF-8.
func decodeToUTF8(content []byte) (string, error) {
	// Strip UTF-8 BOM.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}
	if utf8.Valid(content) {
		return string(content), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// detectDelimiter sniffs the delimiter from the header line by picking the
// candidate that occurs most often.
func detectDelimiter(text string) rune {
	header := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		header = text[:i]
	}
	best := ','
	bestCount := strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if count := strings.Count(header, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}
