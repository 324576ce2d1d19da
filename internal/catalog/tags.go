package catalog

// Tag is a merchandising badge attached to a product.
type Tag string

const (
	TagLaunch    Tag = "launch"
	TagMostLoved Tag = "most-loved"
	TagLastUnits Tag = "last-units"
	TagSale      Tag = "sale"
)

// TagOption pairs a tag with its display label.
type TagOption struct {
	Value Tag
	Label string
}

// Tags lists every tag in display order.
var Tags = []TagOption{
	{Value: TagLaunch, Label: "Lançamento"},
	{Value: TagMostLoved, Label: "Mais Vendido"},
	{Value: TagLastUnits, Label: "Últimas Unidades"},
	{Value: TagSale, Label: "Promoção"},
}

// Label returns the display label of tag, or "" for unknown tags.
func (t Tag) Label() string {
	for _, opt := range Tags {
		if opt.Value == t {
			return opt.Label
		}
	}
	return ""
}

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	return t.Label() != ""
}

// Color is the badge color class of tag.
func (t Tag) Color() string {
	switch t {
	case TagLaunch:
		return "bg-green-500"
	case TagMostLoved:
		return "bg-pink-500"
	case TagLastUnits:
		return "bg-orange-500"
	case TagSale:
		return "bg-red-500"
	default:
		return "bg-gray-500"
	}
}

// ParseTags keeps the known tags of raw in order, dropping duplicates.
func ParseTags(raw []string) []Tag {
	tags := make([]Tag, 0, len(raw))
	seen := make(map[Tag]bool, len(raw))
	for _, r := range raw {
		t := Tag(r)
		if !t.Valid() || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// ToggleTag adds tag to tags when missing and removes it otherwise.
func ToggleTag(tags []Tag, tag Tag) []Tag {
	out := make([]Tag, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
