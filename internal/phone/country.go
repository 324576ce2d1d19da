package phone

import "strings"

// Country describes the dialing code and local display template of a country.
type Country struct {
	Code        string
	Name        string
	Flag        string
	Format      string
	Placeholder string
}

// Brazil is the default country for every number field.
var Brazil = Country{Code: "55", Name: "Brasil", Flag: "🇧🇷", Format: "(##) #####-####", Placeholder: "(11) 99999-9999"}

// Countries lists the supported countries in lookup order.
var Countries = []Country{
	Brazil,
	{Code: "1", Name: "Estados Unidos", Flag: "🇺🇸", Format: "(###) ###-####", Placeholder: "(555) 123-4567"},
	{Code: "351", Name: "Portugal", Flag: "🇵🇹", Format: "### ### ###", Placeholder: "912 345 678"},
	{Code: "34", Name: "Espanha", Flag: "🇪🇸", Format: "### ### ###", Placeholder: "612 345 678"},
	{Code: "44", Name: "Reino Unido", Flag: "🇬🇧", Format: "#### ######", Placeholder: "7911 123456"},
	{Code: "49", Name: "Alemanha", Flag: "🇩🇪", Format: "### #######", Placeholder: "151 2345678"},
	{Code: "33", Name: "França", Flag: "🇫🇷", Format: "# ## ## ## ##", Placeholder: "6 12 34 56 78"},
	{Code: "39", Name: "Itália", Flag: "🇮🇹", Format: "### ### ####", Placeholder: "312 345 6789"},
	{Code: "81", Name: "Japão", Flag: "🇯🇵", Format: "## #### ####", Placeholder: "90 1234 5678"},
	{Code: "86", Name: "China", Flag: "🇨🇳", Format: "### #### ####", Placeholder: "138 1234 5678"},
}

// CountryByCode returns the country with the given dialing code.
func CountryByCode(code string) (Country, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Split separates a stored full number into its country and local part. The
// first country in table order whose code prefixes the number wins; numbers
// with no known prefix are returned whole under the default country.
func Split(full string) (Country, string) {
	digits := Digits(full)
	for _, c := range Countries {
		if strings.HasPrefix(digits, c.Code) {
			return c, digits[len(c.Code):]
		}
	}
	return Brazil, digits
}

// Compose joins a country code and a local number into the stored form.
func Compose(c Country, local string) string {
	digits := Digits(local)
	if digits == "" {
		return ""
	}
	return c.Code + digits
}

// Display renders a stored full number using its country's template.
func Display(full string) string {
	if full == "" {
		return ""
	}
	c, local := Split(full)
	return "+" + c.Code + " " + Format(local, c.Format)
}
