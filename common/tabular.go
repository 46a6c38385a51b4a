package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTable loads a tabular file (CSV, TSV or XLSX) as a header row plus
// data rows. The first non-empty row is treated as the header.
func ReadTable(path string) ([]string, [][]string, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	case ".tsv":
		records, err = readDelimited(path, '\t')
	default:
		records, err = readDelimited(path, ',')
	}
	if err != nil {
		return nil, nil, err
	}

	for i, row := range records {
		if rowHasData(row) {
			return row, records[i+1:], nil
		}
	}
	return nil, nil, fmt.Errorf("no data rows in %s", filepath.Base(path))
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

func rowHasData(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// SummarizeTable computes count/mean/min/max per numeric column. Columns
// without any numeric values are skipped; their names still make useful
// topic text and are returned separately by TextColumns.
func SummarizeTable(ref, source string, header []string, rows [][]string) TableSummary {
	summary := TableSummary{Ref: ref, Source: source, Rows: len(rows)}

	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column %d", col+1)
		}

		var count int
		var sum, min, max float64
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			v, ok := parseNumber(row[col])
			if !ok {
				continue
			}
			if count == 0 {
				min, max = v, v
			} else {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		summary.Columns = append(summary.Columns, ColumnStats{
			Name:  name,
			Count: count,
			Mean:  sum / float64(count),
			Min:   min,
			Max:   max,
		})
	}
	return summary
}

// TextColumns returns header names that did not yield numeric statistics.
func TextColumns(header []string, summary TableSummary) []string {
	numeric := make(map[string]bool, len(summary.Columns))
	for _, c := range summary.Columns {
		numeric[c.Name] = true
	}
	var names []string
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name != "" && !numeric[name] {
			names = append(names, name)
		}
	}
	return names
}

func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DescribeColumn renders one column's statistics as a short finding text.
func DescribeColumn(table string, c ColumnStats) string {
	return fmt.Sprintf("%s: %s averages %.2f (min %.2f, max %.2f across %d values)",
		table, c.Name, c.Mean, c.Min, c.Max, c.Count)
}
