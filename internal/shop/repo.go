package shop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/database/db"
	"github.com/livefir/storefront/internal/slug"
)

// slugRepo stores slugs through the generated queries.
type slugRepo struct {
	q   *db.Queries
	now func() time.Time
}

func (r slugRepo) FindSlug(ctx context.Context, s string) (slug.Record, error) {
	row, err := r.q.GetSlug(ctx, s)
	if err != nil {
		return slug.Record{}, slugErr(err)
	}
	return slug.Record{ID: row.ID, StoreID: row.StoreID, Slug: row.Slug}, nil
}

func (r slugRepo) FindSlugByStore(ctx context.Context, storeID string) (slug.Record, error) {
	row, err := r.q.GetSlugByStore(ctx, storeID)
	if err != nil {
		return slug.Record{}, slugErr(err)
	}
	return slug.Record{ID: row.ID, StoreID: row.StoreID, Slug: row.Slug}, nil
}

func (r slugRepo) InsertSlug(ctx context.Context, storeID, s string) (slug.Record, error) {
	now := r.now()
	rec := slug.Record{ID: uuid.NewString(), StoreID: storeID, Slug: s}
	err := r.q.CreateSlug(ctx, db.CreateSlugParams{
		ID:        rec.ID,
		StoreID:   storeID,
		Slug:      s,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return rec, err
}

func (r slugRepo) UpdateSlug(ctx context.Context, storeID, s string) (slug.Record, error) {
	if err := r.q.UpdateSlug(ctx, db.UpdateSlugParams{Slug: s, UpdatedAt: r.now(), StoreID: storeID}); err != nil {
		return slug.Record{}, err
	}
	return r.FindSlugByStore(ctx, storeID)
}

func slugErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return slug.ErrNotFound
	}
	return err
}

// notFound maps a missing row to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func toStore(s db.Store) catalog.Store {
	return catalog.Store{
		ID:                s.ID,
		UserID:            s.UserID,
		Name:              s.Name,
		WhatsApp:          s.Whatsapp,
		WelcomeMessage:    s.WelcomeMessage,
		ImageURL:          s.ImageUrl,
		Description:       s.Description,
		AttentionHeadline: s.AttentionHeadline,
		CurrencySymbol:    s.CurrencySymbol,
		CouponCode:        s.CouponCode,
		CouponDiscount:    s.CouponDiscount,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toCategory(c db.Category) catalog.Category {
	return catalog.Category{ID: c.ID, StoreID: c.StoreID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toCategoryCount(c db.ListCategoryCountsRow) catalog.CategoryCount {
	return catalog.CategoryCount{
		Category:     catalog.Category{ID: c.ID, StoreID: c.StoreID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		ProductCount: int(c.ProductCount),
	}
}

// toProduct converts a product row. Malformed stored tags are logged and
// the product is listed without them.
func (s *Service) toProduct(p db.Product) catalog.Product {
	raw, err := decodeTags(p.Tags)
	if err != nil {
		s.logger.Warn("corrupt product tags",
			zap.String("product_id", p.ID),
			zap.String("tags", p.Tags),
			zap.Error(err))
	}
	return catalog.Product{
		ID:            p.ID,
		StoreID:       p.StoreID,
		CategoryID:    p.CategoryID.String,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice.Float64,
		ImageURL:      p.ImageUrl,
		ItemNumber:    p.ItemNumber,
		Visible:       p.IsVisible,
		Tags:          catalog.ParseTags(raw),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toButton(b db.CustomButton) catalog.Button {
	return catalog.Button{
		ID:        b.ID,
		StoreID:   b.StoreID,
		Label:     b.Label,
		Message:   b.Message,
		Type:      b.Type,
		Icon:      b.Icon,
		Color:     b.Color,
		Position:  int(b.Position),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func decodeTags(stored string) ([]string, error) {
	if stored == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(stored), &raw); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return raw, nil
}

func encodeTags(tags []catalog.Tag) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v > 0}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
