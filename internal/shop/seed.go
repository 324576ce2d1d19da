package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/database/db"
)

// Demo store identifiers, stable so /dev always finds the same catalog.
const (
	DemoStoreID = "123e4567-e89b-12d3-a456-426614174000"
	DemoUserID  = "demo"
	DemoSlug    = "loja-demonstrativa"
)

type demoProduct struct {
	id, categoryID, name, description, image string
	price                                    float64
}

var demoCategories = []db.Category{
	{ID: "123e4567-e89b-12d3-a456-426614174001", Name: "Camisetas"},
	{ID: "123e4567-e89b-12d3-a456-426614174002", Name: "Calças"},
	{ID: "123e4567-e89b-12d3-a456-426614174003", Name: "Acessórios"},
}

var demoProducts = []demoProduct{
	{"123e4567-e89b-12d3-a456-426614174004", demoCategories[0].ID, "Camiseta Básica", "Camiseta 100% algodão", "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500", 49.90},
	{"123e4567-e89b-12d3-a456-426614174005", demoCategories[0].ID, "Camiseta Estampada", "Camiseta com estampa exclusiva", "https://images.unsplash.com/photo-1503342217505-b0a15ec3261c?w=500", 59.90},
	{"123e4567-e89b-12d3-a456-426614174006", demoCategories[1].ID, "Calça Jeans", "Calça jeans tradicional", "https://images.unsplash.com/photo-1542272604-787c3835535d?w=500", 129.90},
	{"123e4567-e89b-12d3-a456-426614174007", demoCategories[2].ID, "Boné", "Boné ajustável", "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=500", 39.90},
}

// SeedDemo inserts the demo store with its categories and products. It does
// nothing when the demo store already exists.
func (s *Service) SeedDemo(ctx context.Context) (catalog.Store, error) {
	existing, err := s.q.GetStore(ctx, DemoStoreID)
	if err == nil {
		return toStore(existing), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return catalog.Store{}, fmt.Errorf("load demo store: %w", err)
	}

	var store db.Store
	err = s.inTx(ctx, func(q *db.Queries) error {
		now := s.now()
		store, err = q.CreateStore(ctx, db.CreateStoreParams{
			ID:             DemoStoreID,
			UserID:         DemoUserID,
			Name:           "Loja Demonstrativa",
			Whatsapp:       "5511999999999",
			WelcomeMessage: "Olá! Vi seu catálogo e gostaria de fazer um pedido:",
			CurrencySymbol: catalog.DefaultCurrency,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("create demo store: %w", err)
		}
		if _, err := (slugRepo{q: q, now: s.now}).InsertSlug(ctx, DemoStoreID, DemoSlug); err != nil {
			return fmt.Errorf("create demo slug: %w", err)
		}
		for _, c := range demoCategories {
			_, err := q.CreateCategory(ctx, db.CreateCategoryParams{
				ID: c.ID, StoreID: DemoStoreID, Name: c.Name, CreatedAt: now, UpdatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("create demo category: %w", err)
			}
		}
		for i, p := range demoProducts {
			// Later products are newer, so "recent" lists them first.
			created := now.Add(time.Duration(i) * time.Second)
			_, err := q.CreateProduct(ctx, db.CreateProductParams{
				ID:          p.id,
				StoreID:     DemoStoreID,
				CategoryID:  nullString(p.categoryID),
				Name:        p.name,
				Description: p.description,
				Price:       p.price,
				ImageUrl:    p.image,
				ItemNumber:  fmt.Sprintf("%02d", i+1),
				IsVisible:   true,
				Tags:        "[]",
				CreatedAt:   created,
				UpdatedAt:   created,
			})
			if err != nil {
				return fmt.Errorf("create demo product: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return catalog.Store{}, err
	}
	s.logger.Info("demo store seeded", zap.String("store_id", DemoStoreID))
	return toStore(store), nil
}

// SeedFake adds n generated products to storeID, spread over its existing
// categories. The same seed produces the same products.
func (s *Service) SeedFake(ctx context.Context, storeID string, n int, seed uint64) ([]catalog.Product, error) {
	if _, err := s.q.GetStore(ctx, storeID); err != nil {
		return nil, notFound(err)
	}
	counts, err := s.q.ListCategoryCounts(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	numbers, err := s.q.ListItemNumbers(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list item numbers: %w", err)
	}

	faker := gofakeit.New(seed)
	out := make([]catalog.Product, 0, n)
	err = s.inTx(ctx, func(q *db.Queries) error {
		now := s.now()
		for i := 0; i < n; i++ {
			var categoryID string
			if len(counts) > 0 {
				categoryID = counts[faker.Number(0, len(counts)-1)].ID
			}
			price := math.Round(faker.Price(5, 500)*100) / 100
			var original float64
			if faker.Number(0, 3) == 0 {
				original = math.Round(price*1.25*100) / 100
			}
			var tags []catalog.Tag
			for _, opt := range catalog.Tags {
				if faker.Number(0, 4) == 0 {
					tags = append(tags, opt.Value)
				}
			}
			item := catalog.NextItemNumber(numbers)
			numbers = append(numbers, item)
			created := now.Add(-time.Duration(i) * time.Minute)

			p, err := q.CreateProduct(ctx, db.CreateProductParams{
				ID:            uuid.NewString(),
				StoreID:       storeID,
				CategoryID:    nullString(categoryID),
				Name:          faker.ProductName(),
				Description:   faker.ProductDescription(),
				Price:         price,
				OriginalPrice: nullFloat(original),
				ImageUrl:      fmt.Sprintf("https://picsum.photos/seed/%s/500", faker.LetterN(8)),
				ItemNumber:    item,
				IsVisible:     faker.Number(0, 9) > 0,
				Tags:          encodeTags(tags),
				CreatedAt:     created,
				UpdatedAt:     created,
			})
			if err != nil {
				return fmt.Errorf("create fake product: %w", err)
			}
			out = append(out, s.toProduct(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("fake products seeded", zap.String("store_id", storeID), zap.Int("count", n))
	return out, nil
}
