package catalog

import "fmt"

// DefaultCurrency is used when a store has no currency symbol configured.
const DefaultCurrency = "R$"

// CurrencyOption is a selectable store currency.
type CurrencyOption struct {
	Symbol string
	Label  string
}

// Currencies lists the selectable currencies; the first is the default.
var Currencies = []CurrencyOption{
	{Symbol: "R$", Label: "Real Brasileiro (R$)"},
	{Symbol: "US$", Label: "Dólar Americano (US$)"},
	{Symbol: "€", Label: "Euro (€)"},
	{Symbol: "£", Label: "Libra Esterlina (£)"},
	{Symbol: "¥", Label: "Iene Japonês (¥)"},
}

// ValidCurrency reports whether symbol is a selectable currency.
func ValidCurrency(symbol string) bool {
	for _, c := range Currencies {
		if c.Symbol == symbol {
			return true
		}
	}
	return false
}

// FormatPrice renders value with two decimals after the currency symbol.
func FormatPrice(value float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrency
	}
	return fmt.Sprintf("%s %.2f", symbol, value)
}
