// internal/tabular/types.go
package tabular

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Row to jeden wiersz danych. Komórka nieobecna w Cells jest "brakująca" (pusta w arkuszu).
type Row struct {
	Index int // 0-based indeks wiersza danych (bez nagłówka)
	Cells map[string]string
}

// Get zwraca wartość komórki i informację, czy w ogóle jest.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.Cells[col]
	return v, ok
}

// Number zwraca numer wiersza w arkuszu (1 = nagłówek).
func (r Row) Number() int { return r.Index + 2 }

// Table to arkusz: nazwy kolumn w kolejności + wiersze w kolejności źródła.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Format czyta jeden rodzaj pliku tabelarycznego.
type Format interface {
	Name() string
	Extensions() []string                 // z kropką, małymi literami, np. ".xlsx"
	Header(path string) ([]string, error) // tylko nazwy kolumn
	Read(path string) (*Table, error)     // pierwszy arkusz, pierwszy wiersz = nagłówek
}

// Factory buduje format z jego surowego JSON-a z configu (może być pusty).
type Factory func(log zerolog.Logger, raw json.RawMessage) (Format, error)
