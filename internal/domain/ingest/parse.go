package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"leadengage/internal/domain/fieldconfig"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type, expected .csv or .xlsx")
	ErrNoHeader        = errors.New("file has no header row")
)

// ParseFile reads records from a CSV or XLSX upload. The first row names the fields.
func ParseFile(filename string, r io.Reader) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, ErrUnsupportedFile
	}
}

func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header := make([]string, len(rows[0]))
	named := false
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = fieldconfig.NormalizeName(h)
		if header[i] != "" {
			named = true
		}
	}
	if !named {
		return nil, ErrNoHeader
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]any, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				fields[header[i]] = v
			}
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, Record{Fields: fields})
	}
	return records, nil
}
