package slug

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	bySlug map[string]Record
	nextID int
}

func newMemRepo(records ...Record) *memRepo {
	r := &memRepo{bySlug: make(map[string]Record)}
	for _, rec := range records {
		r.bySlug[rec.Slug] = rec
	}
	return r
}

func (r *memRepo) FindSlug(_ context.Context, slug string) (Record, error) {
	rec, ok := r.bySlug[slug]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *memRepo) FindSlugByStore(_ context.Context, storeID string) (Record, error) {
	for _, rec := range r.bySlug {
		if rec.StoreID == storeID {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *memRepo) InsertSlug(_ context.Context, storeID, slug string) (Record, error) {
	r.nextID++
	rec := Record{ID: string(rune('a' + r.nextID)), StoreID: storeID, Slug: slug}
	r.bySlug[slug] = rec
	return rec, nil
}

func (r *memRepo) UpdateSlug(ctx context.Context, storeID, slug string) (Record, error) {
	old, err := r.FindSlugByStore(ctx, storeID)
	if err != nil {
		return Record{}, err
	}
	delete(r.bySlug, old.Slug)
	old.Slug = slug
	r.bySlug[slug] = old
	return old, nil
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(""), ErrEmpty)
	assert.ErrorIs(t, Validate("Minha Loja"), ErrInvalid)
	assert.ErrorIs(t, Validate("loja_1"), ErrInvalid)
	assert.ErrorIs(t, Validate("café"), ErrInvalid)
	assert.NoError(t, Validate("minha-loja-2"))
	for _, r := range Reserved {
		assert.ErrorIs(t, Validate(r), ErrReserved, r)
	}
	assert.NoError(t, Validate("admin-loja"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "minha-loja", Normalize("  Minha-Loja "))
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already valid", "loja-ab12cd", "loja-ab12cd"},
		{"spaces", "Loja Demonstrativa", "loja-demonstrativa"},
		{"accents", "Loja Demonstração", "loja-demonstracao"},
		{"symbols", "Café & Cia", "cafe-cia"},
		{"nothing usable", "!!!", ""},
		{"reserved route", "admin", "admin-loja"},
		{"reserved after folding", "Métrics", "metrics-loja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.NoError(t, Validate(got))
			}
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Acessorios", Fold("Acessórios"))
	assert.Equal(t, "Calcas", Fold("Calças"))
}

func TestServiceAvailable(t *testing.T) {
	svc := NewService(newMemRepo(Record{ID: "1", StoreID: "store-a", Slug: "loja-a"}))
	ctx := context.Background()

	ok, err := svc.Available(ctx, "store-b", "loja-a")
	require.NoError(t, err)
	assert.False(t, ok, "slug owned by another store")

	ok, err = svc.Available(ctx, "store-a", "loja-a")
	require.NoError(t, err)
	assert.True(t, ok, "own slug stays available")

	ok, err = svc.Available(ctx, "store-b", "livre")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestServiceSave(t *testing.T) {
	repo := newMemRepo(Record{ID: "1", StoreID: "store-a", Slug: "loja-a"})
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("rejects invalid", func(t *testing.T) {
		_, err := svc.Save(ctx, "store-b", "minha loja")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := svc.Save(ctx, "store-b", "   ")
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("rejects reserved routes", func(t *testing.T) {
		for _, r := range []string{"admin", "Dev", " healthz ", "metrics"} {
			_, err := svc.Save(ctx, "store-b", r)
			assert.ErrorIs(t, err, ErrReserved, r)
		}
		_, err := svc.Resolve(ctx, "admin")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects taken", func(t *testing.T) {
		_, err := svc.Save(ctx, "store-b", "loja-a")
		assert.ErrorIs(t, err, ErrTaken)
	})

	t.Run("inserts first slug", func(t *testing.T) {
		rec, err := svc.Save(ctx, "store-b", "Loja-B")
		require.NoError(t, err)
		assert.Equal(t, "loja-b", rec.Slug)
		assert.Equal(t, "store-b", rec.StoreID)
	})

	t.Run("updates existing slug", func(t *testing.T) {
		rec, err := svc.Save(ctx, "store-a", "nova-loja-a")
		require.NoError(t, err)
		assert.Equal(t, "1", rec.ID)

		_, err = svc.Resolve(ctx, "loja-a")
		assert.ErrorIs(t, err, ErrNotFound)

		id, err := svc.Resolve(ctx, "nova-loja-a")
		require.NoError(t, err)
		assert.Equal(t, "store-a", id)
	})

	t.Run("current", func(t *testing.T) {
		cur, err := svc.Current(ctx, "store-b")
		require.NoError(t, err)
		assert.Equal(t, "loja-b", cur)

		cur, err = svc.Current(ctx, "store-z")
		require.NoError(t, err)
		assert.Equal(t, "", cur)
	})
}
