package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Dataset is a decoded tabular export: a header plus raw cell text.
// Column names are normalized (lower-case, trimmed) at decode time so
// alias resolution never has to care about header casing.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the raw text of one cell, tolerating short rows and
// unresolved (-1) column indexes.
func (d *Dataset) Cell(row int, col int) string {
	if col < 0 || row < 0 || row >= len(d.Rows) {
		return ""
	}
	r := d.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// ReadDataset decodes a CSV or spreadsheet file into a Dataset.
// Decode failures are fatal to the run; everything past this point
// resolves problems to defaults instead of failing.
func ReadDataset(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls", ".xlsx", ".xlsm":
		return readSpreadsheet(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exports disagree on trailing columns
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv %s: %w", path, err)
	}
	return datasetFromRows(path, all)
}

func readSpreadsheet(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("decode spreadsheet %s: no sheets", path)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("decode spreadsheet %s: %w", path, err)
	}
	return datasetFromRows(path, all)
}

func datasetFromRows(path string, all [][]string) (*Dataset, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("decode %s: no header row", path)
	}
	return &Dataset{
		Columns: NormalizeColumns(all[0]),
		Rows:    all[1:],
	}, nil
}

// NormalizeColumns lower-cases and trims header names.
func NormalizeColumns(header []string) []string {
	out := make([]string, len(header))
	for i, c := range header {
		out[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return out
}
