package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrPrice is returned by ParsePrice for unparseable or negative amounts.
var ErrPrice = errors.New("preço inválido")

// NextItemNumber returns the item number for a new product: the largest
// numeric item number in use plus one, zero padded to two digits.
func NextItemNumber(existing []string) string {
	max := 0
	for _, s := range existing {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%02d", max+1)
}

// Discount is the whole percentage between original and price, or 0 when
// there is no markdown.
func Discount(price, original float64) int {
	if original <= 0 || price >= original {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}

// ParsePrice reads an amount typed by a merchant. Both "49.90" and "49,90"
// are accepted; when both separators appear the last one is the decimal
// separator. Currency symbols and spaces are ignored. Empty input is 0.
func ParsePrice(raw string) (float64, error) {
	s := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if s == "" {
		if strings.TrimSpace(raw) != "" {
			return 0, ErrPrice
		}
		return 0, nil
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot > comma && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrPrice
	}
	return v, nil
}
