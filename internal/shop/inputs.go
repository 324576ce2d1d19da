package shop

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a store, category, product or button
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a merchant touches another store's record.
	ErrForbidden = errors.New("record belongs to another store")
)

// FieldError attaches a user-facing message to one input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// FieldName is the input the error belongs to.
func (e *FieldError) FieldName() string { return e.Field }

// Message is the text shown next to the input.
func (e *FieldError) Message() string { return e.Err.Error() }

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// SettingsInput is the store profile form. WhatsApp is the local part of
// the number; CountryCode selects its country and defaults to Brazil.
type SettingsInput struct {
	Name              string `json:"name" validate:"required,max=120"`
	Description       string `json:"description" validate:"max=1000"`
	AttentionHeadline string `json:"attention_headline" validate:"max=200"`
	ImageURL          string `json:"image_url" validate:"omitempty,url"`
	CountryCode       string `json:"country_code"`
	WhatsApp          string `json:"whatsapp"`
	WelcomeMessage    string `json:"welcome_message" validate:"max=500"`
	CurrencySymbol    string `json:"currency_symbol"`
	CouponCode        string `json:"coupon_code" validate:"max=40"`
	CouponDiscount    string `json:"coupon_discount"`
}

// ProductInput creates a product when ID is empty and updates it otherwise.
// Prices are typed text, see catalog.ParsePrice.
type ProductInput struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	Price         string   `json:"price" validate:"required"`
	OriginalPrice string   `json:"original_price"`
	CategoryID    string   `json:"category_id"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	ItemNumber    string   `json:"item_number" validate:"max=20"`
	Hidden        bool     `json:"hidden"`
	Tags          []string `json:"tags"`
}

// ButtonInput creates a button when ID is empty and updates it otherwise.
// A blank label falls back to the type's default label. CountryCode only
// applies to WhatsApp buttons; when blank the country is inferred.
type ButtonInput struct {
	ID          string `json:"id"`
	Type        string `json:"type" validate:"required"`
	Label       string `json:"label" validate:"max=60"`
	Message     string `json:"message" validate:"required,max=500"`
	CountryCode string `json:"country_code"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}
