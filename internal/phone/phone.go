// Package phone formats and validates the WhatsApp numbers merchants attach to
// their catalog and contact buttons.
package phone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder marks a digit slot in a country format template.
const Placeholder = '#'

var (
	ErrEmpty      = errors.New("número não pode estar vazio")
	ErrLength     = errors.New("número deve ter 11 dígitos (DDD + número)")
	ErrAreaCode   = errors.New("DDD inválido")
	ErrNotMobile  = errors.New("número de celular deve começar com 9")
	ErrIncomplete = errors.New("número incompleto")
	ErrCountry    = errors.New("código de país não suportado")
)

// Number is a validated, normalized phone number.
type Number struct {
	Digits    string // country code + area code + subscriber, digits only
	Formatted string // display form, e.g. +55 (11) 99999-9999
	Flag      string
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Format lays digits over template, consuming one digit per placeholder and
// copying literal characters. Output stops as soon as the digits run out and
// digits beyond the last placeholder are dropped.
func Format(digits, template string) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(template) && next < len(digits); i++ {
		if template[i] == Placeholder {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteByte(template[i])
	}
	return b.String()
}

// MinLength is the number of digit slots in template.
func MinLength(template string) int {
	return strings.Count(template, string(Placeholder))
}

// CheckLocal reports whether a local number is long enough for the country.
// An empty number is accepted; callers decide whether the field is required.
func CheckLocal(c Country, local string) error {
	digits := Digits(local)
	if len(digits) > 0 && len(digits) < MinLength(c.Format) {
		return fmt.Errorf("%w para %s", ErrIncomplete, c.Name)
	}
	return nil
}

// ValidateBR validates a Brazilian mobile number. The country code 55 is
// prepended when missing; the result must be 13 digits long, carry an area
// code between 11 and 99 and a subscriber number starting with 9.
func ValidateBR(input string) (Number, error) {
	digits := Digits(input)
	if digits == "" {
		return Number{}, ErrEmpty
	}

	// An 11 digit number is a local number even when its area code is 55.
	if !strings.HasPrefix(digits, Brazil.Code) || len(digits) == 11 {
		digits = Brazil.Code + digits
	}

	if len(digits) != 13 {
		return Number{}, ErrLength
	}

	area, err := strconv.Atoi(digits[2:4])
	if err != nil || area < 11 || area > 99 {
		return Number{}, ErrAreaCode
	}

	subscriber := digits[4:]
	if subscriber[0] != '9' {
		return Number{}, ErrNotMobile
	}

	return Number{
		Digits:    digits,
		Formatted: fmt.Sprintf("+%s (%s) %s-%s", digits[:2], digits[2:4], digits[4:9], digits[9:]),
		Flag:      Brazil.Flag,
	}, nil
}
