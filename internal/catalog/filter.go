package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SortOrder selects the ordering of a filtered listing.
type SortOrder string

const (
	SortRecent    SortOrder = "recent"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	// SortNone keeps the input order.
	SortNone SortOrder = ""
)

// Label is the display name of the sort order.
func (s SortOrder) Label() string {
	switch s {
	case SortRecent:
		return "Mais recentes"
	case SortPriceAsc:
		return "Menor preço"
	case SortPriceDesc:
		return "Maior preço"
	default:
		return ""
	}
}

// ParseSort maps user input to a sort order, defaulting to SortRecent.
func ParseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortRecent
	}
}

// Query narrows and orders a product listing. Zero values disable each
// criterion.
type Query struct {
	Search      string
	CategoryID  string
	Tag         Tag
	VisibleOnly bool
	Sort        SortOrder
}

// Filter returns the products matching q in the requested order. The input
// slice is left untouched.
func Filter(products []Product, q Query) []Product {
	term := fold(q.Search)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.VisibleOnly && !p.Visible {
			continue
		}
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if q.Tag != "" && !p.HasTag(q.Tag) {
			continue
		}
		if !matchesSearch(p, q.Search, term) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// matchesSearch: name or description contain the folded term, or the item
// number contains the raw term.
func matchesSearch(p Product, raw, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(fold(p.Name), term) {
		return true
	}
	if p.Description != "" && strings.Contains(fold(p.Description), term) {
		return true
	}
	return p.ItemNumber != "" && strings.Contains(p.ItemNumber, raw)
}

// fold lowercases s and strips diacritics so "Calça" matches "calca".
func fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// CountByCategory pairs each category with the number of its products.
func CountByCategory(categories []Category, products []Product) []CategoryCount {
	counts := make(map[string]int, len(categories))
	for _, p := range products {
		if p.CategoryID != "" {
			counts[p.CategoryID]++
		}
	}
	out := make([]CategoryCount, len(categories))
	for i, c := range categories {
		out[i] = CategoryCount{Category: c, ProductCount: counts[c.ID]}
	}
	return out
}

// CategoryName returns the name of the category with id, or "".
func CategoryName(categories []Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
