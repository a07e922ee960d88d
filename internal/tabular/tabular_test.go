package tabular

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestReader(t *testing.T, opts map[string]json.RawMessage) *Reader {
	t.Helper()
	r, err := NewReader(zerolog.Nop(), opts)
	require.NoError(t, err)
	return r
}

// writeWorkbook tworzy plik xlsx z wierszy; nil w wierszu = pusta komórka.
func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReaderXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produkty.xlsx")
	writeWorkbook(t, path, [][]any{
		{"Producto", "EAN", "Precio"},
		{"Café Latte", int64(7501234567895), 12.5},
		{nil, "abc", 3},
		{"Té verde", nil, nil},
	})

	r := newTestReader(t, nil)
	tbl, err := r.Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Producto", "EAN", "Precio"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)

	v, ok := tbl.Rows[0].Get("EAN")
	assert.True(t, ok)
	assert.Equal(t, "7501234567895", v)
	assert.Equal(t, 2, tbl.Rows[0].Number())

	_, ok = tbl.Rows[1].Get("Producto")
	assert.False(t, ok, "empty cell is missing")

	_, ok = tbl.Rows[2].Get("EAN")
	assert.False(t, ok)
	assert.Equal(t, 4, tbl.Rows[2].Number())

	head, err := r.ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, head)
}

func TestReaderCSVCharsetAndDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eksport.csv")
	// "Gęś" w cp1250: ę=0xEA, ś=0x9C
	data := "Nazwa;Kod\r\nG\xea\x9c;5901234123457\r\n;123\r\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	raw, _ := json.Marshal(CSVConfig{Charset: "cp1250"})
	r := newTestReader(t, map[string]json.RawMessage{"csv": raw})

	tbl, err := r.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nazwa", "Kod"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	name, _ := tbl.Rows[0].Get("Nazwa")
	assert.Equal(t, "Gęś", name)
	_, ok := tbl.Rows[1].Get("Nazwa")
	assert.False(t, ok)
}

func TestReaderCSVUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbfname,code\nx,1\n"), 0o644))

	head, err := newTestReader(t, nil).ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "code"}, head)
}

func TestReadHeaderCoversWideRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "szeroki.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nombre,EAN\nCafe,4501234567,extra\n"), 0o644))
	r := newTestReader(t, nil)

	head, err := r.ReadHeader(path)
	require.NoError(t, err)
	tbl, err := r.Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nombre", "EAN", "Unnamed: 2"}, head)
	assert.Equal(t, tbl.Columns, head)
}

func TestLegacyDecoder(t *testing.T) {
	dec, err := legacyDecoder(normalizeCharset("cp1250"))
	require.NoError(t, err)
	assert.Equal(t, "Gęś", dec("G\xea\x9c"))

	_, err = legacyDecoder("klingon-8")
	assert.Error(t, err)

	x := &xlsFormat{cfg: XLSConfig{Charset: "cp1250"}}
	same, err := x.decoder(false)
	require.NoError(t, err)
	assert.Equal(t, "G\xea\x9c", same("G\xea\x9c"), "BIFF8 text is already unicode")
}

func TestReaderUnsupportedExtension(t *testing.T) {
	r := newTestReader(t, nil)
	_, err := r.Read("plik.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pdf")
	assert.False(t, r.Supports("plik.pdf"))
	assert.True(t, r.Supports("PLIK.XLSX"))
	assert.True(t, r.Supports("stary.xls"))
}

func TestReaderMissingFile(t *testing.T) {
	r := newTestReader(t, nil)
	for _, name := range []string{"brak.xlsx", "brak.xls", "brak.csv"} {
		_, err := r.Read(filepath.Join(t.TempDir(), name))
		assert.Error(t, err, name)
	}
}

func TestReaderBadOptions(t *testing.T) {
	_, err := NewReader(zerolog.Nop(), map[string]json.RawMessage{"csv": json.RawMessage(`[1,2]`)})
	assert.Error(t, err)
}

func TestTableFromRecords(t *testing.T) {
	tbl, err := tableFromRecords([][]string{
		{"a", "", "a"},
		{"1", "2", "3", "extra"},
		{},
		{"x"},
		{"", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "Unnamed: 3"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3, "trailing empty rows are trimmed, inner ones kept")

	v, _ := tbl.Rows[0].Get("Unnamed: 3")
	assert.Equal(t, "extra", v)
	assert.Empty(t, tbl.Rows[1].Cells)
	assert.Equal(t, 2, tbl.Rows[2].Index)

	_, err = tableFromRecords(nil)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"EAN", "EAN.1", "EAN.2", "Unnamed: 3", "Nombre"},
		normalizeHeader([]string{"EAN", "EAN", "EAN", " ", "\ufeffNombre"}))
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := &Table{
		Columns: []string{"Nombre", "EAN_FINAL", "Nota"},
		Rows: []Row{
			{Index: 0, Cells: map[string]string{"Nombre": "Café", "EAN_FINAL": "7501234567895"}},
			{Index: 1, Cells: map[string]string{"Nombre": "Té", "EAN_FINAL": "0012345678905", "Nota": "ok"}},
		},
	}
	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, WriteXLSX(src, []string{"Nombre", "Nota", "EAN_FINAL"}, out))

	tbl, err := newTestReader(t, nil).Read(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nombre", "Nota", "EAN_FINAL"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	code, _ := tbl.Rows[1].Get("EAN_FINAL")
	assert.Equal(t, "0012345678905", code, "leading zeros kept as text")
	_, ok := tbl.Rows[0].Get("Nota")
	assert.False(t, ok)
}

func TestNormalizeCharset(t *testing.T) {
	assert.Equal(t, "windows-1250", normalizeCharset(" CP1250 "))
	assert.Equal(t, "iso-8859-2", normalizeCharset("Latin2"))
	assert.Equal(t, "utf-8", normalizeCharset("UTF-8"))
	assert.Equal(t, "", normalizeCharset(""))
}

func TestRegistry(t *testing.T) {
	all := All()
	for _, name := range []string{"csv", "xls", "xlsx"} {
		_, ok := all[name]
		assert.True(t, ok, name)
	}
	_, ok := Get("ods")
	assert.False(t, ok)

	delete(all, "csv")
	_, ok = Get("csv")
	assert.True(t, ok, "All returns a copy")
}
