package buttons

// Type describes one kind of contact button.
type Type struct {
	ID           string
	Label        string
	DefaultLabel string
	Placeholder  string
}

// Types lists the button kinds in the order the admin offers them.
var Types = []Type{
	{ID: "whatsapp", Label: "WhatsApp", DefaultLabel: "Fale no WhatsApp", Placeholder: "5511999999999"},
	{ID: "instagram", Label: "Instagram", DefaultLabel: "Siga no Instagram", Placeholder: "@minhaloja"},
	{ID: "facebook", Label: "Facebook", DefaultLabel: "Curta no Facebook", Placeholder: "https://facebook.com/minhaloja"},
	{ID: "youtube", Label: "YouTube", DefaultLabel: "Inscreva-se no Canal", Placeholder: "https://youtube.com/@minhaloja"},
	{ID: "twitter", Label: "Twitter", DefaultLabel: "Siga no Twitter", Placeholder: "@minhaloja"},
	{ID: "linkedin", Label: "LinkedIn", DefaultLabel: "Conecte no LinkedIn", Placeholder: "https://linkedin.com/company/minhaloja"},
	{ID: "website", Label: "Site", DefaultLabel: "Visite nosso Site", Placeholder: "https://www.minhaloja.com.br"},
	{ID: "email", Label: "Email", DefaultLabel: "Envie um Email", Placeholder: "contato@minhaloja.com.br"},
	{ID: "location", Label: "Localização", DefaultLabel: "Como Chegar", Placeholder: "Rua Augusta, 1500 - São Paulo"},
	{ID: "custom", Label: "Personalizado", DefaultLabel: "Veja Mais", Placeholder: "https://minhaloja.com.br/promocoes"},
}

// Lookup finds a button type by ID.
func Lookup(id string) (Type, bool) {
	for _, t := range Types {
		if t.ID == id {
			return t, true
		}
	}
	return Type{}, false
}

// ValidType reports whether id names a known button type.
func ValidType(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// LabelOrDefault returns label, or the type's default label when label is blank.
func LabelOrDefault(typeID, label string) string {
	if label != "" {
		return label
	}
	t, _ := Lookup(typeID)
	return t.DefaultLabel
}
