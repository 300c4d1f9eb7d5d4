package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/table"
)

// ReadFile reads a raw POS export into a string table. Delimited text and
// spreadsheet formats are supported; anything else is a validation failure.
// headerSkip rows are discarded before the header row, matching exports that
// carry report titles above the real header.
func ReadFile(path string, headerSkip int) (*table.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var rows [][]string
	var err error

	switch ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xls", ".xlsx":
		rows, err = readExcel(path)
	default:
		return nil, apperrors.Validation("unsupported file format %q: only CSV and Excel exports are accepted", ext)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) <= headerSkip {
		return nil, apperrors.Validation("export %s has no rows past the header offset", filepath.Base(path))
	}
	rows = rows[headerSkip:]

	return table.New(rows[0], rows[1:]), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // POS exports are frequently ragged
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return rows, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
