// internal/tabular/csv.go
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// CSVConfig – eksporty CSV z programów magazynowych bywają w cp1250 i z średnikiem.
type CSVConfig struct {
	Charset   string `json:"charset"`   // np. "windows-1250"; pusty = utf-8
	Delimiter string `json:"delimiter"` // pusty = wykryj z nagłówka
}

type csvFormat struct {
	log zerolog.Logger
	cfg CSVConfig
}

func (c *csvFormat) Name() string         { return "csv" }
func (c *csvFormat) Extensions() []string { return []string{".csv", ".txt"} }

func (c *csvFormat) Header(path string) ([]string, error) {
	records, err := c.records(path)
	if err != nil {
		return nil, err
	}
	return headerFromRecords(records)
}

func (c *csvFormat) Read(path string) (*Table, error) {
	records, err := c.records(path)
	if err != nil {
		return nil, err
	}
	return tableFromRecords(records)
}

func (c *csvFormat) records(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.decode(f)
}

func (c *csvFormat) decode(in io.Reader) ([][]string, error) {
	var r io.Reader = bufio.NewReader(in)
	if cs := normalizeCharset(c.cfg.Charset); cs != "" && cs != "utf-8" && cs != "utf8" {
		dec, err := charset.NewReaderLabel(cs, r)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", c.cfg.Charset, err)
		}
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = c.delimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return records, nil
}

// delimiter: z configu albo najczęstszy z ; , \t w pierwszej linii.
func (c *csvFormat) delimiter(data []byte) rune {
	if c.cfg.Delimiter != "" {
		if c.cfg.Delimiter == `\t` {
			return '\t'
		}
		r, _ := utf8.DecodeRuneInString(c.cfg.Delimiter)
		return r
	}
	first := string(data)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	best, bestN := ',', 0
	for _, cand := range []rune{',', ';', '\t'} {
		if n := strings.Count(first, string(cand)); n > bestN {
			best, bestN = cand, n
		}
	}
	return best
}

// normalizeCharset mapuje nietypowe etykiety na standardowe nazwy rozpoznawane przez charset.NewReaderLabel
func normalizeCharset(cs string) string {
	c := strings.TrimSpace(strings.ToLower(cs))
	switch c {
	case "latin ii", "latin-2", "latin2", "iso8859-2", "iso_8859-2":
		return "iso-8859-2"
	case "cp1250", "windows1250", "win-1250":
		return "windows-1250"
	case "cp1252", "windows1252", "win-1252", "latin1", "latin-1":
		return "windows-1252"
	default:
		return c
	}
}

func csvFactory(log zerolog.Logger, raw json.RawMessage) (Format, error) {
	var cfg CSVConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return &csvFormat{log: log, cfg: cfg}, nil
}

func init() {
	Register("csv", csvFactory)
}
