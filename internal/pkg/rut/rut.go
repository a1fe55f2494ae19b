// Package rut validates and formats Chilean tax identifiers (RUT).
package rut

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid rut")

// Normalize strips dots and whitespace and upper-cases the check digit,
// returning the "NNNNNNNN-D" form. It does not verify the check digit.
func Normalize(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) < 2 {
		return "", ErrInvalid
	}

	body := s[:len(s)-1]
	check := s[len(s)-1:]
	if _, err := strconv.ParseUint(body, 10, 64); err != nil {
		return "", ErrInvalid
	}
	if check != "K" {
		if _, err := strconv.Atoi(check); err != nil {
			return "", ErrInvalid
		}
	}
	return body + "-" + check, nil
}

// Valid reports whether raw is a well-formed RUT with a correct
// modulo-11 check digit.
func Valid(raw string) bool {
	normalized, err := Normalize(raw)
	if err != nil {
		return false
	}
	parts := strings.SplitN(normalized, "-", 2)
	return checkDigit(parts[0]) == parts[1]
}

// checkDigit computes the modulo-11 check digit for a numeric body.
func checkDigit(body string) string {
	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch rest := 11 - sum%11; rest {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(rest)
	}
}

// Format returns the dotted display form, e.g. "12.345.678-5".
func Format(raw string) (string, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	parts := strings.SplitN(normalized, "-", 2)
	body := parts[0]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte('-')
	b.WriteString(parts[1])
	return b.String(), nil
}
