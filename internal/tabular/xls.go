// internal/tabular/xls.go
package tabular

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/extrame/xls"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// XLSConfig – stary format BIFF (Excel 97-2003).
type XLSConfig struct {
	Charset string `json:"charset"` // strona kodowa plików Excel 95 (BIFF5); domyślnie utf-8
}

type xlsFormat struct {
	log zerolog.Logger
	cfg XLSConfig
}

func (x *xlsFormat) Name() string         { return "xls" }
func (x *xlsFormat) Extensions() []string { return []string{".xls"} }

func (x *xlsFormat) Header(path string) ([]string, error) {
	records, err := x.records(path)
	if err != nil {
		return nil, err
	}
	return headerFromRecords(records)
}

func (x *xlsFormat) Read(path string) (*Table, error) {
	records, err := x.records(path)
	if err != nil {
		return nil, err
	}
	return tableFromRecords(records)
}

func (x *xlsFormat) records(path string) (records [][]string, err error) {
	// biblioteka potrafi spanikować na uszkodzonym pliku
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("%s: uszkodzony plik xls: %v", path, r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, x.charset())
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, fmt.Errorf("%s: brak strumienia Workbook", path)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%s: skoroszyt bez arkuszy", path)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%s: nie mogę odczytać pierwszego arkusza", path)
	}

	decode, err := x.decoder(wb.Is5ver)
	if err != nil {
		return nil, err
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		last := row.LastCol()
		if last <= 0 {
			// wiersz bez rekordu ROW, szerokość nieznana
			last = maxXLSCols
		}
		rec := make([]string, last)
		for j := 0; j < last; j++ {
			rec[j] = decode(row.Col(j))
		}
		for len(rec) > 0 && rec[len(rec)-1] == "" {
			rec = rec[:len(rec)-1]
		}
		records = append(records, rec)
	}
	return records, nil
}

// BIFF8 ma maksymalnie 256 kolumn
const maxXLSCols = 256

// sheetRow: WorkSheet.Row panikuje dla wiersza, którego nie ma w pliku.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func (x *xlsFormat) charset() string {
	if x.cfg.Charset == "" {
		return "utf-8"
	}
	return normalizeCharset(x.cfg.Charset)
}

// decoder: BIFF8 trzyma teksty w UTF-16, BIFF5 (Excel 95) w stronie kodowej
// systemu, którą biblioteka oddaje bajt w bajt. Te przekodowujemy z configu.
func (x *xlsFormat) decoder(biff5 bool) (func(string) string, error) {
	cs := x.charset()
	if !biff5 || cs == "utf-8" || cs == "utf8" {
		return func(s string) string { return s }, nil
	}
	return legacyDecoder(cs)
}

func legacyDecoder(cs string) (func(string) string, error) {
	enc, _ := charset.Lookup(cs)
	if enc == nil {
		return nil, fmt.Errorf("nieznany charset %q", cs)
	}
	return func(s string) string {
		out, err := enc.NewDecoder().String(s)
		if err != nil {
			return s
		}
		return out
	}, nil
}

func xlsFactory(log zerolog.Logger, raw json.RawMessage) (Format, error) {
	var cfg XLSConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return &xlsFormat{log: log, cfg: cfg}, nil
}

func init() {
	Register("xls", xlsFactory)
}
