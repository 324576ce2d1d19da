// Package whatsapp builds the order messages and links that hand a shopper
// over to the merchant's WhatsApp chat.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/livefir/storefront/internal/cart"
	"github.com/livefir/storefront/internal/catalog"
)

const chatBase = "https://wa.me/"

// OrderMessage renders the prefilled order summary for items. It returns ""
// when there is nothing to order.
func OrderMessage(items []cart.Item, currency string) string {
	if len(items) == 0 {
		return ""
	}

	blocks := make([]string, len(items))
	var total float64
	for i, it := range items {
		subtotal := it.Subtotal()
		total += subtotal
		blocks[i] = fmt.Sprintf("📌 Produto: %s\n🔢 Código: %s\n📦 Quantidade: %d\n💰 Valor Total: %s",
			it.Product.Name, it.Product.ItemNumber, it.Quantity, catalog.FormatPrice(subtotal, currency))
	}

	return "Oi! Tudo bem?\n\nVocê pode me ajudar neste pedido?\n\n" +
		strings.Join(blocks, "\n\n") +
		"\n\nTotal do Pedido: " + catalog.FormatPrice(total, currency) +
		"\n\nAguardo seu retorno! 😃"
}

// SingleProductMessage is the order summary for one unit of p.
func SingleProductMessage(p catalog.Product, currency string) string {
	return OrderMessage([]cart.Item{{Product: p, Quantity: 1}}, currency)
}

// ChatURL opens a chat with number, optionally prefilled with text.
func ChatURL(number, text string) string {
	if text == "" {
		return chatBase + number
	}
	return chatBase + number + "?text=" + Escape(text)
}

// Escape percent-encodes s the way encodeURIComponent does for the
// characters that matter here, spaces included.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
