// Package cnpj normalizes and validates Brazilian company registry numbers.
package cnpj

import "strings"

var (
	firstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize keeps only digits and left-pads short values to 14 characters.
func Normalize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 14 {
		digits = strings.Repeat("0", 14-len(digits)) + digits
	}
	return digits
}

// Valid reports whether value is a CNPJ with correct check digits.
// Punctuation is ignored; repeated-digit sequences are rejected.
func Valid(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	digits := Normalize(value)
	if len(digits) != 14 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 14 {
		return false
	}
	if int(digits[12]-'0') != checkDigit(digits[:12], firstWeights) {
		return false
	}
	return int(digits[13]-'0') == checkDigit(digits[:13], secondWeights)
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
