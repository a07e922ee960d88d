// internal/tabular/xlsx.go
package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type XLSXConfig struct {
	Sheet string `json:"sheet"` // pusty = pierwszy arkusz
}

type xlsxFormat struct {
	log zerolog.Logger
	cfg XLSXConfig
}

func (x *xlsxFormat) Name() string         { return "xlsx" }
func (x *xlsxFormat) Extensions() []string { return []string{".xlsx", ".xlsm"} }

func (x *xlsxFormat) Header(path string) ([]string, error) {
	records, err := x.records(path)
	if err != nil {
		return nil, err
	}
	return headerFromRecords(records)
}

func (x *xlsxFormat) Read(path string) (*Table, error) {
	records, err := x.records(path)
	if err != nil {
		return nil, err
	}
	return tableFromRecords(records)
}

// records czyta arkusz dwa razy: sformatowany i surowy.
// Excel pokazuje długie liczby (np. EAN w formacie "Ogólne") jako 7,50123E+12,
// więc w takich komórkach bierzemy wartość surową. Daty itp. zostają sformatowane.
func (x *xlsxFormat) records(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := x.cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%s: skoroszyt bez arkuszy", path)
	}

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("arkusz %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("arkusz %q: %w", sheet, err)
	}

	for i := range shown {
		if i >= len(raw) {
			break
		}
		for j, v := range shown[i] {
			if j < len(raw[i]) && isScientific(v) {
				shown[i][j] = raw[i][j]
			}
		}
	}
	return shown, nil
}

func isScientific(v string) bool {
	if !strings.ContainsAny(v, "eE") {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	return err == nil
}

func xlsxFactory(log zerolog.Logger, raw json.RawMessage) (Format, error) {
	var cfg XLSXConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return &xlsxFormat{log: log, cfg: cfg}, nil
}

func init() {
	Register("xlsx", xlsxFactory)
}
