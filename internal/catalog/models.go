// Package catalog holds the storefront records and the pure listing logic
// shared by the public catalog page and the merchant panel.
package catalog

import "time"

// Store is a merchant's catalog profile.
type Store struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	WhatsApp          string    `json:"whatsapp"`
	WelcomeMessage    string    `json:"welcome_message"`
	ImageURL          string    `json:"image_url,omitempty"`
	Description       string    `json:"description,omitempty"`
	AttentionHeadline string    `json:"attention_headline,omitempty"`
	CurrencySymbol    string    `json:"currency_symbol,omitempty"`
	CouponCode        string    `json:"coupon_code,omitempty"`
	CouponDiscount    float64   `json:"coupon_discount,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Currency returns the store's currency symbol, falling back to the default.
func (s Store) Currency() string {
	if s.CurrencySymbol == "" {
		return DefaultCurrency
	}
	return s.CurrencySymbol
}

// Category groups products of a store.
type Category struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryCount is a category with the number of products filed under it.
type CategoryCount struct {
	Category
	ProductCount int `json:"product_count"`
}

// Product is a catalog item. An empty CategoryID means uncategorized and a
// zero OriginalPrice means no reference price.
type Product struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"store_id"`
	CategoryID    string    `json:"category_id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	ItemNumber    string    `json:"item_number"`
	Visible       bool      `json:"is_visible"`
	Tags          []Tag     `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasTag reports whether the product carries tag.
func (p Product) HasTag(tag Tag) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Button is a custom contact button shown under the store header.
type Button struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Label     string    `json:"label"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
