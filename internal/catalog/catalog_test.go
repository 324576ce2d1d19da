package catalog

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []Product{
		{ID: "p1", CategoryID: "shirts", Name: "Camiseta Básica", Description: "Camiseta 100% algodão", Price: 49.90, ItemNumber: "01", Visible: true, Tags: []Tag{TagLaunch}, CreatedAt: base},
		{ID: "p2", CategoryID: "shirts", Name: "Camiseta Estampada", Description: "Estampa exclusiva", Price: 59.90, ItemNumber: "02", Visible: true, Tags: []Tag{TagSale, TagMostLoved}, CreatedAt: base.Add(time.Hour)},
		{ID: "p3", CategoryID: "pants", Name: "Calça Jeans", Description: "Calça jeans tradicional", Price: 129.90, ItemNumber: "03", Visible: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p4", Name: "Boné", Description: "", Price: 39.90, ItemNumber: "14", Visible: false, Tags: []Tag{TagLastUnits}, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"no criteria keeps order", Query{}, []string{"p1", "p2", "p3", "p4"}},
		{"visible only", Query{VisibleOnly: true}, []string{"p1", "p2", "p3"}},
		{"search name case insensitive", Query{Search: "CAMISETA"}, []string{"p1", "p2"}},
		{"search ignores accents", Query{Search: "calca"}, []string{"p3"}},
		{"search description", Query{Search: "algodao"}, []string{"p1"}},
		{"search item number", Query{Search: "14"}, []string{"p4"}},
		{"category", Query{CategoryID: "shirts"}, []string{"p1", "p2"}},
		{"tag", Query{Tag: TagSale}, []string{"p2"}},
		{"price ascending", Query{Sort: SortPriceAsc}, []string{"p4", "p1", "p2", "p3"}},
		{"price descending", Query{Sort: SortPriceDesc}, []string{"p3", "p2", "p1", "p4"}},
		{"recent first", Query{Sort: SortRecent, VisibleOnly: true}, []string{"p3", "p2", "p1"}},
		{"combined", Query{Search: "camiseta", Tag: TagLaunch, VisibleOnly: true}, []string{"p1"}},
		{"no match", Query{Search: "sapato"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(products, tt.q)))
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)
	Filter(products, Query{Sort: SortPriceDesc})
	assert.Equal(t, before, ids(products))
}

func TestFilterVisibleOnlyWithRandomCatalog(t *testing.T) {
	faker := gofakeit.New(42)
	products := make([]Product, 200)
	for i := range products {
		products[i] = Product{
			ID:         faker.UUID(),
			Name:       faker.ProductName(),
			Price:      faker.Price(1, 500),
			Visible:    faker.Bool(),
			ItemNumber: faker.Numerify("##"),
			CreatedAt:  faker.Date(),
		}
	}

	got := Filter(products, Query{VisibleOnly: true, Sort: SortPriceAsc})
	for i, p := range got {
		require.True(t, p.Visible)
		if i > 0 {
			require.LessOrEqual(t, got[i-1].Price, p.Price)
		}
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseSort("price-desc"))
	assert.Equal(t, SortRecent, ParseSort("anything"))
	assert.Equal(t, "Menor preço", SortPriceAsc.Label())
}

func TestCountByCategory(t *testing.T) {
	categories := []Category{{ID: "pants", Name: "Calças"}, {ID: "shirts", Name: "Camisetas"}, {ID: "hats", Name: "Bonés"}}
	counts := CountByCategory(categories, sampleProducts())

	require.Len(t, counts, 3)
	assert.Equal(t, 1, counts[0].ProductCount)
	assert.Equal(t, 2, counts[1].ProductCount)
	assert.Equal(t, 0, counts[2].ProductCount)
	assert.Equal(t, "Camisetas", CategoryName(categories, "shirts"))
	assert.Equal(t, "", CategoryName(categories, "missing"))
}

func TestNextItemNumber(t *testing.T) {
	assert.Equal(t, "01", NextItemNumber(nil))
	assert.Equal(t, "01", NextItemNumber([]string{"", "abc"}))
	assert.Equal(t, "03", NextItemNumber([]string{"01", "02"}))
	assert.Equal(t, "11", NextItemNumber([]string{"9", "10", "02"}))
	assert.Equal(t, "100", NextItemNumber([]string{"99"}))
}

func TestDiscount(t *testing.T) {
	assert.Equal(t, 0, Discount(50, 0))
	assert.Equal(t, 0, Discount(50, 40))
	assert.Equal(t, 20, Discount(80, 100))
	assert.Equal(t, 33, Discount(39.90, 59.90))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "R$ 49.90", FormatPrice(49.9, ""))
	assert.Equal(t, "US$ 10.00", FormatPrice(10, "US$"))
	assert.Equal(t, "€ 0.33", FormatPrice(1.0/3.0, "€"))
	assert.True(t, ValidCurrency("£"))
	assert.False(t, ValidCurrency("BTC"))
	assert.Equal(t, "R$", Store{}.Currency())
}

func TestTags(t *testing.T) {
	assert.Equal(t, "Promoção", TagSale.Label())
	assert.Equal(t, "", Tag("vintage").Label())
	assert.Equal(t, "bg-pink-500", TagMostLoved.Color())
	assert.Equal(t, []Tag{TagSale, TagLaunch}, ParseTags([]string{"sale", "vintage", "launch", "sale"}))
	assert.Equal(t, []Tag{TagLaunch}, ToggleTag([]Tag{TagLaunch, TagSale}, TagSale))
	assert.Equal(t, []Tag{TagLaunch, TagSale}, ToggleTag([]Tag{TagLaunch}, TagSale))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		err  bool
	}{
		{"", 0, false},
		{"49.90", 49.90, false},
		{"49,90", 49.90, false},
		{"R$ 1.234,56", 1234.56, false},
		{"1,234.56", 1234.56, false},
		{"120", 120, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"1,2,3", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrPrice, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 0.0001, tt.in)
	}
}
