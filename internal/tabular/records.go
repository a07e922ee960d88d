// internal/tabular/records.go
package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNoHeader = errors.New("plik nie ma wiersza nagłówka")

// tableFromRecords zamienia surowe wiersze (pierwszy = nagłówek) na Table.
// Puste komórki są brakujące.
func tableFromRecords(records [][]string) (*Table, error) {
	records = trimTrailingEmpty(records)
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	columns := columnsOf(records)

	t := &Table{Columns: columns, Rows: make([]Row, 0, len(records)-1)}
	for i, rec := range records[1:] {
		cells := make(map[string]string, len(rec))
		for j, v := range rec {
			if v == "" {
				continue
			}
			cells[columns[j]] = v
		}
		t.Rows = append(t.Rows, Row{Index: i, Cells: cells})
	}
	return t, nil
}

func headerFromRecords(records [][]string) ([]string, error) {
	records = trimTrailingEmpty(records)
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	return columnsOf(records), nil
}

// columnsOf: nagłówek poszerzony do najdłuższego wiersza, te same nazwy dla Read i ReadHeader.
func columnsOf(records [][]string) []string {
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	head := make([]string, width)
	copy(head, records[0])
	return normalizeHeader(head)
}

// normalizeHeader: pusty nagłówek -> "Unnamed: i", duplikaty -> "nazwa.1", "nazwa.2".
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for k := 1; used[name]; k++ {
			name = fmt.Sprintf("%s.%d", h, k)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func trimTrailingEmpty(records [][]string) [][]string {
	for len(records) > 0 && isEmptyRecord(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	return records
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
