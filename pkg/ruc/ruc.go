// Package ruc validates Peruvian taxpayer registry numbers (RUC).
package ruc

import (
	"errors"
	"strings"
	"unicode"
)

// Length is the number of digits in a RUC.
const Length = 11

var (
	ErrInvalidLength   = errors.New("ruc: must contain exactly 11 digits")
	ErrInvalidCheckSum = errors.New("ruc: check digit does not match")
)

var weights = [Length - 1]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// Normalize strips every non-digit rune from raw.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate normalizes raw and verifies its length and modulo-11 check digit.
// It returns the normalized value on success.
func Validate(raw string) (string, error) {
	// Letters are never stripped silently: "abcdefghijk" must not normalize to "".
	for _, r := range raw {
		if unicode.IsLetter(r) {
			return "", ErrInvalidLength
		}
	}

	digits := Normalize(raw)
	if len(digits) != Length {
		return "", ErrInvalidLength
	}

	if CheckDigit(digits[:Length-1]) != int(digits[Length-1]-'0') {
		return "", ErrInvalidCheckSum
	}
	return digits, nil
}

// IsValid reports whether raw is a valid RUC.
func IsValid(raw string) bool {
	_, err := Validate(raw)
	return err == nil
}

// CheckDigit computes the check digit for the first ten digits of a RUC.
// It panics if body is not ten ASCII digits.
func CheckDigit(body string) int {
	if len(body) != Length-1 {
		panic("ruc: check digit body must have 10 digits")
	}
	sum := 0
	for i := 0; i < len(body); i++ {
		sum += int(body[i]-'0') * weights[i]
	}
	d := 11 - sum%11
	switch d {
	case 10:
		return 0
	case 11:
		return 1
	}
	return d
}
