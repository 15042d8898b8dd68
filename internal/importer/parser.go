package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither XLSX nor CSV
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse is returned when file bytes cannot be decoded into rows
	ErrParse = errors.New("failed to parse spreadsheet")
)

// Parser decodes raw file bytes into ordered rows
type Parser interface {
	Parse(data []byte) ([]Row, error)
}

// XLSXParser reads the first sheet of an Excel workbook
type XLSXParser struct{}

// Parse implements Parser
func (XLSXParser) Parse(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}

	table, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rowsFromTable(table), nil
}

// CSVParser reads comma-separated text with a header line
type CSVParser struct {
	// Comma is the field delimiter; ',' when zero
	Comma rune
}

// Parse implements Parser
func (p CSVParser) Parse(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	if p.Comma != 0 {
		r.Comma = p.Comma
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rowsFromTable(table), nil
}

// ParserFor picks a parser from the file extension
func ParserFor(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return XLSXParser{}, nil
	case ".csv":
		return CSVParser{}, nil
	case ".xls":
		return nil, fmt.Errorf("%w: %q is a legacy .xls workbook, save it as .xlsx or .csv",
			ErrUnsupportedFormat, filepath.Base(filename))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(filename))
	}
}

// rowsFromTable uses the first record as the header and skips blank records
func rowsFromTable(table [][]string) []Row {
	rows := make([]Row, 0, max(len(table)-1, 0))
	if len(table) == 0 {
		return rows
	}
	header := table[0]
	for _, record := range table[1:] {
		row := NewRow(header, record)
		if row.Blank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
