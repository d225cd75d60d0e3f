package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ProductImporter/internal/domain"
)

// ErrUnsupportedFormat is returned for files that are neither XLSX nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var preferredSheets = []string{"products", "ürünler", "urunler"}

// ReadFile opens path and parses it according to its extension.
func ReadFile(path string) (domain.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(file)
	case ".csv", ".txt":
		return ReadCSV(file)
	default:
		return domain.Table{}, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

// ReadXLSX parses the first (or the "Products") sheet of a workbook.
// Numeric cells are returned as float64, everything else as formatted text.
func ReadXLSX(r io.Reader) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList())
	if err != nil {
		return domain.Table{}, err
	}

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("read raw sheet %s: %w", sheet, err)
	}
	if len(formatted) == 0 {
		return domain.Table{}, nil
	}

	headers := headerNames(formatted[0])
	table := domain.Table{Headers: headers}

	for rowIdx := 1; rowIdx < len(formatted); rowIdx++ {
		var rawRow []string
		if rowIdx < len(raw) {
			rawRow = raw[rowIdx]
		}

		row := make(domain.Row, len(headers))
		blank := true
		for col, header := range headers {
			value := mergeCell(f, sheet, col, rowIdx, cellAt(formatted[rowIdx], col), cellAt(rawRow, col))
			if s, ok := value.(string); !ok || s != "" {
				blank = false
			}
			row[header] = value
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// mergeCell prefers a numeric raw value and falls back to the formatted text.
func mergeCell(f *excelize.File, sheet string, col, row int, formatted, raw string) any {
	if raw != "" && isNumericCell(f, sheet, col, row) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	if raw != "" {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(formatted)
}

func isNumericCell(f *excelize.File, sheet string, col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false
	}
	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return false
	}
	return cellType == excelize.CellTypeNumber || cellType == excelize.CellTypeUnset
}

func pickSheet(sheets []string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	for _, name := range sheets {
		for _, preferred := range preferredSheets {
			if strings.EqualFold(strings.TrimSpace(name), preferred) {
				return name, nil
			}
		}
	}
	return sheets[0], nil
}

// ReadCSV parses comma or semicolon separated text. All cells stay strings.
func ReadCSV(r io.Reader) (domain.Table, error) {
	br := bufio.NewReader(r)
	firstLine, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return domain.Table{}, fmt.Errorf("peek csv: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{}, nil
	}

	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	headers := headerNames(records[0])
	table := domain.Table{Headers: headers}

	for _, record := range records[1:] {
		row := make(domain.Row, len(headers))
		blank := true
		for col, header := range headers {
			value := strings.TrimSpace(cellAt(record, col))
			if value != "" {
				blank = false
			}
			row[header] = value
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func sniffDelimiter(sample []byte) rune {
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}
	if bytes.Count(sample, []byte{';'}) > bytes.Count(sample, []byte{','}) {
		return ';'
	}
	return ','
}

// headerNames keeps header text verbatim but gives blank and duplicate
// headers positional names so every column stays addressable.
func headerNames(cells []string) []string {
	headers := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, cell := range cells {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			seen[name] = 1
		}
		headers[i] = name
	}
	return headers
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
