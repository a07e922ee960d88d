// internal/tabular/writer.go
package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX zapisuje tabelę do nowego skoroszytu (jeden arkusz) w zadanej kolejności kolumn.
// Wszystkie wartości idą jako tekst, żeby Excel nie zjadł kodów do notacji naukowej.
func WriteXLSX(t *Table, columns []string, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]any, len(columns))
	for j, c := range columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("nagłówek: %w", err)
	}

	for i, r := range t.Rows {
		for j, c := range columns {
			v, ok := r.Get(c)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return fmt.Errorf("komórka %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("zapis %s: %w", path, err)
	}
	return nil
}
