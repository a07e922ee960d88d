// internal/tabular/reader.go
package tabular

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Reader wybiera format po rozszerzeniu pliku.
type Reader struct {
	log   zerolog.Logger
	byExt map[string]Format
}

// NewReader buduje wszystkie zarejestrowane formaty. opts: nazwa formatu -> surowy JSON.
func NewReader(log zerolog.Logger, opts map[string]json.RawMessage) (*Reader, error) {
	r := &Reader{log: log, byExt: map[string]Format{}}

	all := All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := all[name](log.With().Str("format", name).Logger(), opts[name])
		if err != nil {
			return nil, fmt.Errorf("format %q: %w", name, err)
		}
		for _, ext := range f.Extensions() {
			r.byExt[ext] = f
		}
	}
	for name := range opts {
		if _, ok := all[name]; !ok {
			log.Warn().Str("format", name).Msg("opcje dla nieznanego formatu – pomijam")
		}
	}
	return r, nil
}

// Extensions zwraca obsługiwane rozszerzenia (posortowane).
func (r *Reader) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Supports mówi, czy plik ma obsługiwane rozszerzenie.
func (r *Reader) Supports(path string) bool {
	_, err := r.formatFor(path)
	return err == nil
}

func (r *Reader) formatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("nieobsługiwany format pliku %q (obsługiwane: %s)", ext, strings.Join(r.Extensions(), ", "))
	}
	return f, nil
}

func (r *Reader) Read(path string) (*Table, error) {
	f, err := r.formatFor(path)
	if err != nil {
		return nil, err
	}
	t, err := f.Read(path)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("file", path).Str("format", f.Name()).
		Int("columns", len(t.Columns)).Int("rows", len(t.Rows)).Msg("tabela wczytana")
	return t, nil
}

func (r *Reader) ReadHeader(path string) ([]string, error) {
	f, err := r.formatFor(path)
	if err != nil {
		return nil, err
	}
	return f.Header(path)
}
