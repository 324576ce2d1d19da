// Package cart keeps a shopper's order lines between catalog interactions.
package cart

import "github.com/livefir/storefront/internal/catalog"

// Item is one order line.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart is an ordered list of lines, one per product.
type Cart struct {
	Items []Item `json:"items"`
}

// Add puts one more unit of p in the cart.
func (c *Cart) Add(p catalog.Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, Item{Product: p, Quantity: 1})
}

// SetQuantity changes the quantity of a line; quantities below one remove it.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].Product.ID != productID {
			continue
		}
		if quantity < 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
		c.Items[i].Quantity = quantity
		return
	}
}

// Quantity returns the units of productID in the cart.
func (c *Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Total is the sum of all subtotals.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Items = nil
}

// Refresh replaces each line's product with its current version from
// products and drops lines whose product is gone or hidden.
func (c *Cart) Refresh(products []catalog.Product) {
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		p, ok := byID[it.Product.ID]
		if !ok || !p.Visible {
			continue
		}
		it.Product = p
		kept = append(kept, it)
	}
	c.Items = kept
}
