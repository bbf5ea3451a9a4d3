package importer

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned for files that are neither delimited text nor xlsx
var ErrUnsupportedFormat = errors.New("unsupported import file format")

// ReadRows decodes an import file into header keyed rows, the format is
// chosen by file extension
func ReadRows(filename string, r io.Reader) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	}
	return nil, errors.Wrap(ErrUnsupportedFormat, filename)
}

// ReadCSV parses delimited text with a header row
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return []map[string]string{}, nil
	}
	rows, err := gocsv.CSVToMaps(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	return normalizeRows(rows), nil
}

// ReadXLSX reads the first sheet of a workbook, the first row is the header
func ReadXLSX(r io.Reader) ([]map[string]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	sheets := book.GetSheetMap()
	if len(sheets) == 0 {
		return []map[string]string{}, nil
	}
	first := 0
	for idx := range sheets {
		if first == 0 || idx < first {
			first = idx
		}
	}
	grid := book.GetRows(sheets[first])
	if len(grid) == 0 {
		return []map[string]string{}, nil
	}
	header := grid[0]
	rows := make([]map[string]string, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(cells) {
				row[key] = cells[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return normalizeRows(rows), nil
}

// normalizeRows lower-cases header names, maps spaces to underscores and
// trims values
func normalizeRows(rows []map[string]string) []map[string]string {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]string, len(row))
		for k, v := range row {
			key := strings.ToLower(strings.TrimSpace(k))
			key = strings.ReplaceAll(key, " ", "_")
			clean[key] = strings.TrimSpace(v)
		}
		result = append(result, clean)
	}
	return result
}

func isBlank(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
