package render

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxNameLen = 30

var (
	reUnsafe = regexp.MustCompile(`[^A-Za-z0-9_\s\p{Zs}-]`)
	reSpaces = regexp.MustCompile(`[\s\p{Zs}]+`)

	// litery bez rozkładu NFD
	extraLetters = strings.NewReplacer("ł", "l", "Ł", "L", "ß", "ss", "ø", "o", "Ø", "O", "đ", "d", "Đ", "D")
)

// Sanitize robi z nazwy produktu bezpieczny kawałek nazwy pliku:
// zdejmuje akcenty (é -> e), usuwa wszystko poza [A-Za-z0-9_-] i białymi znakami,
// ciągi białych znaków zamienia na "_" i obcina wynik do 30 znaków.
func Sanitize(name string) string {
	s := strings.TrimSpace(name)
	s = foldAccents(s)
	s = reUnsafe.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, "_")
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	return s
}

// FileName: ean_<nazwa>_<kod>.png
func FileName(product, code string) string {
	return "ean_" + Sanitize(product) + "_" + code + ".png"
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, extraLetters.Replace(s))
	if err != nil {
		return s
	}
	return out
}
