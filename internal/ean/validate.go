package ean

import "strings"

// CountryPrefixes to prefiksy GS1 uznawane za "prawdziwe" kody krajowe.
// Kod zaczynający się od któregoś z nich zostaje zachowany bez względu na długość.
var CountryPrefixes = []string{
	// Meksyk
	"750",
	// USA i Kanada
	"00", "01", "03", "04", "06",
	// Francja
	"30", "31", "32", "33", "34", "35", "36", "37",
	// Niemcy
	"40", "41", "42", "43", "44",
	// Rosja
	"45", "46", "47",
	// Japonia
	"49",
	// Wielka Brytania
	"50",
	// Belgia i Luksemburg
	"54",
	// Dania
	"57",
	// Finlandia
	"64",
	// Norwegia
	"70",
	// Szwajcaria
	"76",
	// Hiszpania
	"84",
	// Holandia
	"87",
	// Australia
	"93",
}

// IsValid zwraca true, gdy wartość (po obcięciu białych znaków) to same cyfry
// ASCII o długości dokładnie 12 albo 13.
//
// Cyfra kontrolna NIE jest sprawdzana: 13 cyfr z błędną kontrolką też przechodzi.
// Brakująca komórka to pusty string, więc daje false.
func IsValid(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 12 && len(v) != 13 {
		return false
	}
	return isDigits(v)
}

// HasKnownCountryPrefix zwraca true, gdy wartość zaczyna się od prefiksu z CountryPrefixes.
// Długość nie ma znaczenia.
func HasKnownCountryPrefix(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, p := range CountryPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// Preservable łączy obie reguły: IsValid albo HasKnownCountryPrefix.
func Preservable(value string) bool {
	return IsValid(value) || HasKnownCountryPrefix(value)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
