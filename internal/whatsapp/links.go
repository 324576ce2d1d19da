package whatsapp

import (
	"strings"

	"github.com/livefir/storefront/internal/catalog"
)

// ButtonURL resolves the destination of a custom contact button from its
// type and message. Unknown types resolve to "".
func ButtonURL(b catalog.Button) string {
	msg := strings.TrimSpace(b.Message)
	switch b.Type {
	case "whatsapp":
		return ChatURL(msg, "")
	case "instagram":
		return "https://instagram.com/" + strings.TrimPrefix(msg, "@")
	case "twitter":
		return "https://twitter.com/" + strings.TrimPrefix(msg, "@")
	case "email":
		return "mailto:" + msg
	case "location":
		return "https://www.google.com/maps/search/?api=1&query=" + Escape(msg)
	case "facebook", "youtube", "linkedin", "website", "custom":
		return msg
	default:
		return ""
	}
}
