// Package slug validates and assigns the public catalog path of a store.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmpty    = errors.New("o slug não pode estar vazio")
	ErrInvalid  = errors.New("o slug deve conter apenas letras minúsculas, números e hífens")
	ErrTaken    = errors.New("este slug já está em uso")
	ErrReserved = errors.New("este slug é reservado pelo sistema")
	ErrNotFound = errors.New("slug not found")
)

var (
	validPattern   = regexp.MustCompile(`^[a-z0-9-]+$`)
	invalidChars   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	repeatedHyphen = regexp.MustCompile(`-{2,}`)
)

// Reserved lists the single-segment paths served by fixed routes. A store
// holding one of them could never be reached at /{slug}.
var Reserved = []string{"admin", "dev", "healthz", "metrics"}

// IsReserved reports whether s is taken by a fixed route.
func IsReserved(s string) bool {
	for _, r := range Reserved {
		if s == r {
			return true
		}
	}
	return false
}

// Normalize applies the input transformation of the slug editor.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks that s is non-empty, made of lowercase letters, digits
// and hyphens only, and not a reserved route.
func Validate(s string) error {
	if s == "" {
		return ErrEmpty
	}
	if !validPattern.MatchString(s) {
		return ErrInvalid
	}
	if IsReserved(s) {
		return ErrReserved
	}
	return nil
}

// Fold removes diacritics, so "Demonstração" becomes "Demonstracao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Suggest derives a slug from a store name. The result may be empty when the
// name has no usable characters; a reserved result gets a "-loja" suffix.
func Suggest(name string) string {
	if Validate(name) == nil {
		return name
	}
	words := invalidChars.ReplaceAllString(Fold(name), " ")
	s := strcase.ToKebab(strings.TrimSpace(words))
	s = repeatedHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if IsReserved(s) {
		s += "-loja"
	}
	return s
}

// Record is the store-to-slug binding as persisted.
type Record struct {
	ID      string
	StoreID string
	Slug    string
}

// Repository is the persistence surface the Service needs.
type Repository interface {
	FindSlug(ctx context.Context, slug string) (Record, error)
	FindSlugByStore(ctx context.Context, storeID string) (Record, error)
	InsertSlug(ctx context.Context, storeID, slug string) (Record, error)
	UpdateSlug(ctx context.Context, storeID, slug string) (Record, error)
}

// Service validates, checks and saves slugs. Repository lookups must return
// an error satisfying errors.Is(err, ErrNotFound) when no row matches.
type Service struct {
	repo Repository
}

// NewService returns a Service over repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Available reports whether slug is free for storeID, i.e. no other store
// owns it.
func (s *Service) Available(ctx context.Context, storeID, slug string) (bool, error) {
	rec, err := s.repo.FindSlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check slug availability: %w", err)
	}
	return rec.StoreID == storeID, nil
}

// Save assigns slug to storeID, updating the existing binding when the store
// already has one.
func (s *Service) Save(ctx context.Context, storeID, raw string) (Record, error) {
	value := Normalize(raw)
	if err := Validate(value); err != nil {
		return Record{}, err
	}

	ok, err := s.Available(ctx, storeID, value)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, ErrTaken
	}

	_, err = s.repo.FindSlugByStore(ctx, storeID)
	switch {
	case errors.Is(err, ErrNotFound):
		rec, err := s.repo.InsertSlug(ctx, storeID, value)
		if err != nil {
			return Record{}, fmt.Errorf("insert slug: %w", err)
		}
		return rec, nil
	case err != nil:
		return Record{}, fmt.Errorf("load store slug: %w", err)
	}

	rec, err := s.repo.UpdateSlug(ctx, storeID, value)
	if err != nil {
		return Record{}, fmt.Errorf("update slug: %w", err)
	}
	return rec, nil
}

// Resolve returns the store bound to slug.
func (s *Service) Resolve(ctx context.Context, slug string) (string, error) {
	rec, err := s.repo.FindSlug(ctx, Normalize(slug))
	if err != nil {
		return "", err
	}
	return rec.StoreID, nil
}

// Current returns the slug of storeID, or "" when it has none.
func (s *Service) Current(ctx context.Context, storeID string) (string, error) {
	rec, err := s.repo.FindSlugByStore(ctx, storeID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.Slug, nil
}
