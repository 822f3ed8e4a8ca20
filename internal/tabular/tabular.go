// Package tabular reads delimited-text and spreadsheet files into a schema.Table.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/caudal/schema"
	"github.com/xuri/excelize/v2"
)

// Supported file extensions.
var (
	delimitedExts   = map[string]struct{}{".csv": {}, ".tsv": {}, ".txt": {}}
	spreadsheetExts = map[string]struct{}{".xlsx": {}, ".xlsm": {}}
)

// excelTimestampLayout is how spreadsheet date cells are rendered into the table.
const excelTimestampLayout = "2006-01-02 15:04:05.999"

// ReadFile reads the table stored at path. Sheet selects a worksheet for
// spreadsheet files and is ignored otherwise; an empty sheet means the first one.
// Any failure to read the file is wrapped in schema.ErrUnreadableInput.
func ReadFile(path, sheet string) (schema.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		table schema.Table
		err   error
	)
	switch {
	case isDelimited(ext):
		table, err = readDelimitedFile(path)
	case isSpreadsheet(ext):
		table, err = readSpreadsheet(path, sheet)
	default:
		return schema.Table{}, fmt.Errorf("%w: unsupported file extension %q", schema.ErrUnreadableInput, ext)
	}
	if err != nil {
		return schema.Table{}, fmt.Errorf("%w: %v", schema.ErrUnreadableInput, err)
	}
	return table, nil
}

// IsSupported reports whether the file extension of path can be read.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return isDelimited(ext) || isSpreadsheet(ext)
}

func isDelimited(ext string) bool {
	_, ok := delimitedExts[ext]
	return ok
}

func isSpreadsheet(ext string) bool {
	_, ok := spreadsheetExts[ext]
	return ok
}

func readDelimitedFile(path string) (schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return ReadDelimited(f)
}

// ReadDelimited reads a delimited-text table. The delimiter is sniffed from
// the header line among comma, semicolon and tab.
func ReadDelimited(r io.Reader) (schema.Table, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return schema.Table{}, err
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to parse delimited text: %w", err)
	}
	return toTable(records)
}

// sniffDelimiter picks the most frequent candidate delimiter on the first line.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(head, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readSpreadsheet(path, sheet string) (schema.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return schema.Table{}, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return schema.Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Formatted values tell date cells apart; raw values carry the full precision.
	formatted, err := f.GetRows(sheet)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	records := make([][]string, len(raw))
	for i, row := range raw {
		records[i] = make([]string, len(row))
		for j, cell := range row {
			records[i][j] = cellValue(cell, formattedCell(formatted, i, j))
		}
	}
	return toTable(records)
}

// cellValue converts a raw cell into text. Numeric cells displayed as dates
// are converted from the Excel serial date.
func cellValue(raw, display string) string {
	if raw == display || !looksLikeDate(display) {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Round(time.Millisecond).Format(excelTimestampLayout)
}

// looksLikeDate reports whether a display value carries date separators.
// Numbers in scientific notation such as 1.50E-03 are not dates.
func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	return strings.ContainsAny(strings.TrimPrefix(s, "-"), "/-:")
}

func formattedCell(rows [][]string, i, j int) string {
	if i >= len(rows) || j >= len(rows[i]) {
		return ""
	}
	return rows[i][j]
}

// toTable splits records into the header and data rows, skipping blank lines.
func toTable(records [][]string) (schema.Table, error) {
	var rows [][]string
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return schema.Table{}, fmt.Errorf("no header row found")
	}
	return schema.Table{Columns: rows[0], Rows: rows[1:]}, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
