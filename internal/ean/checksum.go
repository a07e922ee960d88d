// Package ean zawiera całą logikę kodów EAN-13: cyfrę kontrolną,
// reguły zachowania istniejących kodów i generowanie nowych.
package ean

// Checksum liczy cyfrę kontrolną dla korpusu kodu (12 cyfr dla EAN-13).
//
// Wagi 3 i 1 idą naprzemiennie od prawej strony korpusu, więc po dopisaniu
// wyniku cały kod spełnia relację EAN-13 (suma ważona podzielna przez 10).
// Dla 12 cyfr pierwsza cyfra z lewej ma wagę 1, nie 3. Liczenie wag od lewej
// dałoby kody, które odrzuca każdy czytnik i barcode/ean przy renderowaniu.
// Długość i cyfrowość korpusu sprawdza wołający.
func Checksum(body string) int {
	sum := 0
	weight := 3
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight = 4 - weight
	}
	return (10 - sum%10) % 10
}

// VerifyChecksum sprawdza pełny kod (korpus + cyfra kontrolna).
func VerifyChecksum(code string) bool {
	if len(code) < 2 || !isDigits(code) {
		return false
	}
	body, check := code[:len(code)-1], int(code[len(code)-1]-'0')
	return Checksum(body) == check
}
