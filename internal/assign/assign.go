// Package assign decyduje, jaki kod końcowy dostaje każdy wiersz arkusza.
package assign

import (
	"strconv"
	"strings"

	"github.com/bartek5186/ean13gen/internal/ean"
	"github.com/bartek5186/ean13gen/internal/tabular"
)

// Assigned to wiersz z przydzielonym kodem.
type Assigned struct {
	Row       tabular.Row
	Product   string
	Code      string
	Generated bool // true = kod nowy z Generatora, false = zachowany z arkusza
}

type Policy struct {
	gen        *ean.Generator
	codeColumn string
}

// New tworzy politykę. codeColumn == "" oznacza brak kolumny z istniejącymi kodami:
// wtedy każdy wiersz dostaje nowy kod.
func New(gen *ean.Generator, codeColumn string) *Policy {
	return &Policy{gen: gen, codeColumn: codeColumn}
}

// Decide zwraca kod dla jednego wiersza. Istniejący kod zostaje (bez ponownej walidacji),
// jeśli jest obecny i ma 12/13 cyfr albo znany prefiks kraju.
func (p *Policy) Decide(row tabular.Row) (code string, generated bool) {
	if p.codeColumn != "" {
		if v, ok := row.Get(p.codeColumn); ok {
			v = Stringify(v)
			if ean.Preservable(v) {
				return v, false
			}
		}
	}
	return p.gen.Generate(), true
}

// Apply przydziela kody wszystkim wierszom, a potem wyrzuca wiersze bez nazwy produktu.
// Kolejność wierszy zostaje zachowana.
func (p *Policy) Apply(t *tabular.Table, productColumn string) []Assigned {
	all := make([]Assigned, 0, len(t.Rows))
	for _, row := range t.Rows {
		code, generated := p.Decide(row)
		all = append(all, Assigned{Row: row, Code: code, Generated: generated})
	}

	out := all[:0]
	for _, a := range all {
		name, ok := a.Row.Get(productColumn)
		if !ok {
			continue
		}
		a.Product = name
		a.Code = strings.TrimSpace(a.Code)
		out = append(out, a)
	}
	return out
}

// Stringify zamienia wartość komórki na tekst kodu: obcina białe znaki, a liczbę
// całkowitą zapisaną jako float ("4501234567.0", "7.501234567895E+12") na same cyfry.
func Stringify(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !strings.ContainsAny(v, ".eE") {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f >= 1e15 || f != float64(int64(f)) {
		return v
	}
	return strconv.FormatInt(int64(f), 10)
}
