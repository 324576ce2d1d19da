// Package view holds the template helpers shared by the storefront and
// admin pages.
package view

import (
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/livefir/storefront/internal/buttons"
	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/phone"
	"github.com/livefir/storefront/internal/whatsapp"
)

// Funcs returns the template functions every page can use.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":       catalog.FormatPrice,
		"discount":    catalog.Discount,
		"buttonURL":   whatsapp.ButtonURL,
		"buttonLabel": func(b catalog.Button) string { return buttons.LabelOrDefault(b.Type, b.Label) },
		"buttonTypes": func() []buttons.Type { return buttons.Types },
		"tagOptions":  func() []catalog.TagOption { return catalog.Tags },
		"currencies":  func() []catalog.CurrencyOption { return catalog.Currencies },
		"countries":   func() []phone.Country { return phone.Countries },
		"phone":       phone.Display,
		"initial":     Initial,
		"hasTag":      func(p catalog.Product, tag catalog.Tag) bool { return p.HasTag(tag) },
		"add":         func(delta, n int) int { return n + delta },
		"amount":      Amount,
	}
}

// Amount renders a price for an input field; zero is blank.
func Amount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Initial is the upper-cased first letter of name, used as avatar fallback.
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
