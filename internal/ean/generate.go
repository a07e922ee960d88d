package ean

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// HousePrefix oznacza kody wygenerowane przez nas (nieautorytatywne).
const HousePrefix = "750"

// Length to długość pełnego kodu EAN-13.
const Length = 13

// Generator tworzy nowe kody EAN-13 pod prefiksem domowym.
// Unikalność nie jest gwarantowana ani w obrębie pliku, ani między uruchomieniami.
type Generator struct {
	rnd *rand.Rand // nil -> globalne źródło math/rand/v2
}

// NewGenerator tworzy generator. src == nil oznacza globalne, losowo zasiane źródło.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		return &Generator{}
	}
	return &Generator{rnd: rand.New(src)}
}

// Generate zwraca 13 cyfr: "750" + 9 losowych cyfr + cyfra kontrolna.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	b.WriteString(HousePrefix)
	for i := len(HousePrefix); i < Length-1; i++ {
		b.WriteByte(byte('0' + g.digit()))
	}
	body := b.String()
	return body + strconv.Itoa(Checksum(body))
}

func (g *Generator) digit() int {
	if g.rnd == nil {
		return rand.IntN(10)
	}
	return g.rnd.IntN(10)
}
