// Package shop implements the merchant and shopper operations of the
// storefront on top of the SQLite queries.
package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/buttons"
	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/database/db"
	"github.com/livefir/storefront/internal/phone"
	"github.com/livefir/storefront/internal/slug"
)

// DefaultWelcomeMessage is the greeting a new store starts with.
const DefaultWelcomeMessage = "Ola! Vi seu catalogo e gostaria de fazer um pedido:"

var (
	errCategoryName = errors.New("o nome da categoria é obrigatório")
	errCategory     = errors.New("categoria inválida")
	errCurrency     = errors.New("moeda inválida")
	errDiscount     = errors.New("o desconto deve estar entre 0 e 100")
	errButtonType   = errors.New("Selecione um tipo de botão")
	errButtonTarget = errors.New("O link ou identificador é obrigatório")
	errEmail        = errors.New("email inválido")
)

// Dashboard is everything the merchant panel shows.
type Dashboard struct {
	Store          catalog.Store
	Slug           string
	Categories     []catalog.CategoryCount
	Products       []catalog.Product
	Buttons        []catalog.Button
	NextItemNumber string
}

// Catalog is the public view of a store. Products holds visible products
// only and category counts are computed over them.
type Catalog struct {
	Store      catalog.Store
	Slug       string
	Categories []catalog.CategoryCount
	Products   []catalog.Product
	Buttons    []catalog.Button
}

// Service runs every storefront operation. Merchant operations take the
// merchant's user ID and act on the store it owns.
type Service struct {
	db       *sql.DB
	q        *db.Queries
	slugs    *slug.Service
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service over a migrated database.
func NewService(conn *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:       conn,
		q:        db.New(conn),
		validate: NewValidator(),
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.slugs = slug.NewService(slugRepo{q: s.q, now: s.now})
	return s
}

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator is the validator the service checks inputs with.
func (s *Service) Validator() *validator.Validate { return s.validate }

// Slugs exposes the slug service.
func (s *Service) Slugs() *slug.Service { return s.slugs }

func (s *Service) inTx(ctx context.Context, fn func(q *db.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(s.q.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

// Provision returns the merchant's store, creating it with a random
// "loja-xxxxxx" name and matching slug on first use.
func (s *Service) Provision(ctx context.Context, userID string) (catalog.Store, error) {
	if userID == "" {
		return catalog.Store{}, ErrForbidden
	}
	existing, err := s.q.GetStoreByUser(ctx, userID)
	if err == nil {
		return toStore(existing), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return catalog.Store{}, fmt.Errorf("load store: %w", err)
	}

	var created db.Store
	err = s.inTx(ctx, func(q *db.Queries) error {
		name, err := freeStoreName(ctx, q)
		if err != nil {
			return err
		}
		now := s.now()
		created, err = q.CreateStore(ctx, db.CreateStoreParams{
			ID:             uuid.NewString(),
			UserID:         userID,
			Name:           name,
			WelcomeMessage: DefaultWelcomeMessage,
			CurrencySymbol: catalog.DefaultCurrency,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		_, err = slugRepo{q: q, now: s.now}.InsertSlug(ctx, created.ID, name)
		return err
	})
	if err != nil {
		return catalog.Store{}, err
	}
	s.logger.Info("store provisioned", zap.String("user_id", userID), zap.String("store_id", created.ID))
	return toStore(created), nil
}

func freeStoreName(ctx context.Context, q *db.Queries) (string, error) {
	for i := 0; i < 5; i++ {
		name := "loja-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		_, err := q.GetSlug(ctx, name)
		if errors.Is(err, sql.ErrNoRows) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
	}
	return "", fmt.Errorf("no free store name: %w", slug.ErrTaken)
}

// CreateStore provisions the merchant's store and names it. The slug is
// derived from the name when raw is blank.
func (s *Service) CreateStore(ctx context.Context, userID, name, rawSlug string) (catalog.Store, string, error) {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return catalog.Store{}, "", err
	}
	country, local := phone.Split(store.WhatsApp)
	store, err = s.SaveSettings(ctx, userID, SettingsInput{
		Name:              name,
		CountryCode:       country.Code,
		WhatsApp:          local,
		Description:       store.Description,
		AttentionHeadline: store.AttentionHeadline,
		ImageURL:          store.ImageURL,
		WelcomeMessage:    store.WelcomeMessage,
		CurrencySymbol:    store.CurrencySymbol,
		CouponCode:        store.CouponCode,
		CouponDiscount:    strconv.FormatFloat(store.CouponDiscount, 'f', -1, 64),
	})
	if err != nil {
		return catalog.Store{}, "", err
	}
	if rawSlug == "" {
		rawSlug = slug.Suggest(name)
	}
	saved, err := s.SaveSlug(ctx, userID, rawSlug)
	if err != nil {
		return catalog.Store{}, "", err
	}
	return store, saved, nil
}

// Dashboard loads the merchant's store with all of its records.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	current, err := s.slugs.Current(ctx, store.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load slug: %w", err)
	}
	counts, err := s.q.ListCategoryCounts(ctx, store.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list categories: %w", err)
	}
	products, err := s.q.ListProducts(ctx, store.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list products: %w", err)
	}
	btns, err := s.q.ListButtons(ctx, store.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list buttons: %w", err)
	}

	d := Dashboard{
		Store:      store,
		Slug:       current,
		Categories: mapSlice(counts, toCategoryCount),
		Products:   mapSlice(products, s.toProduct),
		Buttons:    buttons.Sort(mapSlice(btns, toButton)),
	}
	numbers := make([]string, len(d.Products))
	for i, p := range d.Products {
		numbers[i] = p.ItemNumber
	}
	d.NextItemNumber = catalog.NextItemNumber(numbers)
	return d, nil
}

// SaveSettings updates the store profile. Brazilian WhatsApp numbers must be
// valid mobile numbers; other countries must fill their local template.
func (s *Service) SaveSettings(ctx context.Context, userID string, in SettingsInput) (catalog.Store, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return catalog.Store{}, err
	}
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return catalog.Store{}, err
	}

	whatsapp, err := normalizeWhatsApp(in.CountryCode, in.WhatsApp)
	if err != nil {
		return catalog.Store{}, fieldErr("whatsapp", err)
	}

	currency := in.CurrencySymbol
	if currency == "" {
		currency = catalog.DefaultCurrency
	}
	if !catalog.ValidCurrency(currency) {
		return catalog.Store{}, fieldErr("currency_symbol", errCurrency)
	}

	discount, err := catalog.ParsePrice(in.CouponDiscount)
	if err != nil || discount > 100 {
		return catalog.Store{}, fieldErr("coupon_discount", errDiscount)
	}

	welcome := strings.TrimSpace(in.WelcomeMessage)
	if welcome == "" {
		welcome = store.WelcomeMessage
	}

	err = s.q.UpdateStoreSettings(ctx, db.UpdateStoreSettingsParams{
		Name:              in.Name,
		Description:       strings.TrimSpace(in.Description),
		AttentionHeadline: strings.TrimSpace(in.AttentionHeadline),
		ImageUrl:          strings.TrimSpace(in.ImageURL),
		Whatsapp:          whatsapp,
		WelcomeMessage:    welcome,
		CurrencySymbol:    currency,
		CouponCode:        strings.ToUpper(strings.TrimSpace(in.CouponCode)),
		CouponDiscount:    discount,
		UpdatedAt:         s.now(),
		ID:                store.ID,
	})
	if err != nil {
		return catalog.Store{}, fmt.Errorf("update store: %w", err)
	}
	updated, err := s.q.GetStore(ctx, store.ID)
	if err != nil {
		return catalog.Store{}, notFound(err)
	}
	return toStore(updated), nil
}

// normalizeWhatsApp returns the stored form of a number typed for the given
// country. An empty number clears the field.
func normalizeWhatsApp(countryCode, local string) (string, error) {
	digits := phone.Digits(local)
	if digits == "" {
		return "", nil
	}
	country, ok := phone.CountryByCode(countryCode)
	if !ok {
		country = phone.Brazil
	}
	if country.Code == phone.Brazil.Code {
		n, err := phone.ValidateBR(digits)
		if err != nil {
			return "", err
		}
		return n.Digits, nil
	}
	if err := phone.CheckLocal(country, digits); err != nil {
		return "", err
	}
	return phone.Compose(country, digits), nil
}

// SaveSlug assigns the public catalog path of the merchant's store.
func (s *Service) SaveSlug(ctx context.Context, userID, raw string) (string, error) {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return "", err
	}
	rec, err := s.slugs.Save(ctx, store.ID, raw)
	switch {
	case errors.Is(err, slug.ErrEmpty), errors.Is(err, slug.ErrInvalid), errors.Is(err, slug.ErrTaken),
		errors.Is(err, slug.ErrReserved):
		return "", fieldErr("slug", err)
	case err != nil:
		return "", err
	}
	return rec.Slug, nil
}

// AddCategory creates a category in the merchant's store.
func (s *Service) AddCategory(ctx context.Context, userID, name string) (catalog.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.Category{}, fieldErr("category_name", errCategoryName)
	}
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return catalog.Category{}, err
	}
	now := s.now()
	c, err := s.q.CreateCategory(ctx, db.CreateCategoryParams{
		ID:        uuid.NewString(),
		StoreID:   store.ID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return catalog.Category{}, fmt.Errorf("create category: %w", err)
	}
	return toCategory(c), nil
}

func (s *Service) ownCategory(ctx context.Context, q *db.Queries, storeID, id string) (db.Category, error) {
	c, err := q.GetCategory(ctx, id)
	if err != nil {
		return db.Category{}, notFound(err)
	}
	if c.StoreID != storeID {
		return db.Category{}, ErrForbidden
	}
	return c, nil
}

// RenameCategory changes a category name.
func (s *Service) RenameCategory(ctx context.Context, userID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fieldErr("category_name", errCategoryName)
	}
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.ownCategory(ctx, s.q, store.ID, id); err != nil {
		return err
	}
	return s.q.RenameCategory(ctx, db.RenameCategoryParams{Name: name, UpdatedAt: s.now(), ID: id})
}

// DeleteCategory removes a category. Its products stay, uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(q *db.Queries) error {
		if _, err := s.ownCategory(ctx, q, store.ID, id); err != nil {
			return err
		}
		if err := q.ClearProductCategory(ctx, id); err != nil {
			return fmt.Errorf("detach products: %w", err)
		}
		return q.DeleteCategory(ctx, id)
	})
}

// SaveProduct creates or updates a product. A blank item number takes the
// next free one.
func (s *Service) SaveProduct(ctx context.Context, userID string, in ProductInput) (catalog.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return catalog.Product{}, err
	}
	price, err := catalog.ParsePrice(in.Price)
	if err != nil {
		return catalog.Product{}, fieldErr("price", err)
	}
	original, err := catalog.ParsePrice(in.OriginalPrice)
	if err != nil {
		return catalog.Product{}, fieldErr("original_price", err)
	}

	store, err := s.Provision(ctx, userID)
	if err != nil {
		return catalog.Product{}, err
	}
	if in.CategoryID != "" {
		if _, err := s.ownCategory(ctx, s.q, store.ID, in.CategoryID); err != nil {
			return catalog.Product{}, fieldErr("category_id", errCategory)
		}
	}

	itemNumber := strings.TrimSpace(in.ItemNumber)
	if itemNumber == "" {
		numbers, err := s.q.ListItemNumbers(ctx, store.ID)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("list item numbers: %w", err)
		}
		itemNumber = catalog.NextItemNumber(numbers)
	}
	tags := encodeTags(catalog.ParseTags(in.Tags))
	now := s.now()

	if in.ID == "" {
		p, err := s.q.CreateProduct(ctx, db.CreateProductParams{
			ID:            uuid.NewString(),
			StoreID:       store.ID,
			CategoryID:    nullString(in.CategoryID),
			Name:          in.Name,
			Description:   strings.TrimSpace(in.Description),
			Price:         price,
			OriginalPrice: nullFloat(original),
			ImageUrl:      strings.TrimSpace(in.ImageURL),
			ItemNumber:    itemNumber,
			IsVisible:     !in.Hidden,
			Tags:          tags,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return catalog.Product{}, fmt.Errorf("create product: %w", err)
		}
		return s.toProduct(p), nil
	}

	existing, err := s.q.GetProduct(ctx, in.ID)
	if err != nil {
		return catalog.Product{}, notFound(err)
	}
	if existing.StoreID != store.ID {
		return catalog.Product{}, ErrForbidden
	}
	err = s.q.UpdateProduct(ctx, db.UpdateProductParams{
		CategoryID:    nullString(in.CategoryID),
		Name:          in.Name,
		Description:   strings.TrimSpace(in.Description),
		Price:         price,
		OriginalPrice: nullFloat(original),
		ImageUrl:      strings.TrimSpace(in.ImageURL),
		ItemNumber:    itemNumber,
		IsVisible:     !in.Hidden,
		Tags:          tags,
		UpdatedAt:     now,
		ID:            in.ID,
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}
	updated, err := s.q.GetProduct(ctx, in.ID)
	if err != nil {
		return catalog.Product{}, notFound(err)
	}
	return s.toProduct(updated), nil
}

// DeleteProducts removes the given products and returns how many were
// deleted. Unknown IDs are skipped; a foreign product aborts the batch.
func (s *Service) DeleteProducts(ctx context.Context, userID string, ids []string) (int, error) {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	err = s.inTx(ctx, func(q *db.Queries) error {
		for _, id := range ids {
			p, err := q.GetProduct(ctx, id)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("load product: %w", err)
			}
			if p.StoreID != store.ID {
				return ErrForbidden
			}
			if err := q.DeleteProduct(ctx, db.DeleteProductParams{ID: id, StoreID: store.ID}); err != nil {
				return fmt.Errorf("delete product: %w", err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// SaveButton creates a button at the end of the list or updates one in place.
func (s *Service) SaveButton(ctx context.Context, userID string, in ButtonInput) (catalog.Button, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.Label = strings.TrimSpace(in.Label)
	if !buttons.ValidType(in.Type) {
		return catalog.Button{}, fieldErr("type", errButtonType)
	}
	if in.Message == "" {
		return catalog.Button{}, fieldErr("message", errButtonTarget)
	}
	if err := s.validate.Struct(in); err != nil {
		return catalog.Button{}, err
	}
	message, err := s.buttonTarget(in)
	if err != nil {
		return catalog.Button{}, fieldErr("message", err)
	}
	label := buttons.LabelOrDefault(in.Type, in.Label)

	store, err := s.Provision(ctx, userID)
	if err != nil {
		return catalog.Button{}, err
	}
	now := s.now()

	if in.ID == "" {
		existing, err := s.q.ListButtons(ctx, store.ID)
		if err != nil {
			return catalog.Button{}, fmt.Errorf("list buttons: %w", err)
		}
		b, err := s.q.CreateButton(ctx, db.CreateButtonParams{
			ID:        uuid.NewString(),
			StoreID:   store.ID,
			Label:     label,
			Message:   message,
			Type:      in.Type,
			Icon:      in.Icon,
			Color:     in.Color,
			Position:  int64(buttons.NextPosition(mapSlice(existing, toButton))),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return catalog.Button{}, fmt.Errorf("create button: %w", err)
		}
		return toButton(b), nil
	}

	if _, err := s.ownButton(ctx, store.ID, in.ID); err != nil {
		return catalog.Button{}, err
	}
	err = s.q.UpdateButton(ctx, db.UpdateButtonParams{
		Label:     label,
		Message:   message,
		Type:      in.Type,
		Icon:      in.Icon,
		Color:     in.Color,
		UpdatedAt: now,
		ID:        in.ID,
	})
	if err != nil {
		return catalog.Button{}, fmt.Errorf("update button: %w", err)
	}
	b, err := s.q.GetButton(ctx, in.ID)
	if err != nil {
		return catalog.Button{}, notFound(err)
	}
	return toButton(b), nil
}

// buttonTarget checks and normalizes the message of a button type.
func (s *Service) buttonTarget(in ButtonInput) (string, error) {
	switch in.Type {
	case "whatsapp":
		return whatsAppTarget(in.CountryCode, in.Message)
	case "email":
		if err := s.validate.Var(in.Message, "email"); err != nil {
			return "", errEmail
		}
	}
	return in.Message, nil
}

// whatsAppTarget stores a button number as country code plus local digits.
// A leading + or a selected country decide the country. Otherwise the
// number is read as Brazilian first and by its dialing code when that fails.
func whatsAppTarget(countryCode, message string) (string, error) {
	digits := phone.Digits(message)
	if digits == "" {
		return "", phone.ErrEmpty
	}
	if strings.HasPrefix(message, "+") {
		return international(digits)
	}
	if countryCode != "" {
		return normalizeWhatsApp(countryCode, digits)
	}
	n, errBR := phone.ValidateBR(digits)
	if errBR == nil {
		return n.Digits, nil
	}
	if full, err := international(digits); err == nil {
		return full, nil
	}
	return "", errBR
}

// international reads digits as a dialing code followed by a local number.
func international(digits string) (string, error) {
	country, local := phone.Split(digits)
	if country.Code == phone.Brazil.Code {
		if !strings.HasPrefix(digits, phone.Brazil.Code) {
			return "", phone.ErrCountry
		}
		// ValidateBR would read 11 digits as a local number.
		if len(digits) != 13 {
			return "", phone.ErrLength
		}
		n, err := phone.ValidateBR(digits)
		if err != nil {
			return "", err
		}
		return n.Digits, nil
	}
	if local == "" {
		return "", fmt.Errorf("%w para %s", phone.ErrIncomplete, country.Name)
	}
	if err := phone.CheckLocal(country, local); err != nil {
		return "", err
	}
	return digits, nil
}

func (s *Service) ownButton(ctx context.Context, storeID, id string) (db.CustomButton, error) {
	b, err := s.q.GetButton(ctx, id)
	if err != nil {
		return db.CustomButton{}, notFound(err)
	}
	if b.StoreID != storeID {
		return db.CustomButton{}, ErrForbidden
	}
	return b, nil
}

// DeleteButton removes a button.
func (s *Service) DeleteButton(ctx context.Context, userID, id string) error {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.ownButton(ctx, store.ID, id); err != nil {
		return err
	}
	return s.q.DeleteButton(ctx, db.DeleteButtonParams{ID: id, StoreID: store.ID})
}

// MoveButton drops button activeID onto the slot of overID and persists
// every position that changed in one transaction. It returns the new order.
func (s *Service) MoveButton(ctx context.Context, userID, activeID, overID string) ([]catalog.Button, error) {
	store, err := s.Provision(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ordered []catalog.Button
	err = s.inTx(ctx, func(q *db.Queries) error {
		rows, err := q.ListButtons(ctx, store.ID)
		if err != nil {
			return fmt.Errorf("list buttons: %w", err)
		}
		current := mapSlice(rows, toButton)
		if !hasButton(current, activeID) || !hasButton(current, overID) {
			return ErrNotFound
		}

		var changed []catalog.Button
		ordered, changed = buttons.Move(current, activeID, overID)
		now := s.now()
		for _, b := range changed {
			err := q.UpdateButtonPosition(ctx, db.UpdateButtonPositionParams{
				Position:  int64(b.Position),
				UpdatedAt: now,
				ID:        b.ID,
			})
			if err != nil {
				return fmt.Errorf("update button position: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ordered, nil
}

func hasButton(list []catalog.Button, id string) bool {
	for _, b := range list {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Catalog loads the public view of a store.
func (s *Service) Catalog(ctx context.Context, storeID string) (Catalog, error) {
	row, err := s.q.GetStore(ctx, storeID)
	if err != nil {
		return Catalog{}, notFound(err)
	}
	current, err := s.slugs.Current(ctx, storeID)
	if err != nil {
		return Catalog{}, fmt.Errorf("load slug: %w", err)
	}
	counts, err := s.q.ListCategoryCounts(ctx, storeID)
	if err != nil {
		return Catalog{}, fmt.Errorf("list categories: %w", err)
	}
	rows, err := s.q.ListProducts(ctx, storeID)
	if err != nil {
		return Catalog{}, fmt.Errorf("list products: %w", err)
	}
	btns, err := s.q.ListButtons(ctx, storeID)
	if err != nil {
		return Catalog{}, fmt.Errorf("list buttons: %w", err)
	}

	products := catalog.Filter(mapSlice(rows, s.toProduct), catalog.Query{VisibleOnly: true})
	categories := make([]catalog.Category, len(counts))
	for i, c := range counts {
		categories[i] = toCategoryCount(c).Category
	}
	return Catalog{
		Store:      toStore(row),
		Slug:       current,
		Categories: catalog.CountByCategory(categories, products),
		Products:   products,
		Buttons:    buttons.Sort(mapSlice(btns, toButton)),
	}, nil
}

// CatalogBySlug resolves a public catalog path.
func (s *Service) CatalogBySlug(ctx context.Context, raw string) (Catalog, error) {
	storeID, err := s.slugs.Resolve(ctx, raw)
	if errors.Is(err, slug.ErrNotFound) {
		return Catalog{}, ErrNotFound
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("resolve slug: %w", err)
	}
	return s.Catalog(ctx, storeID)
}

// Stores lists every store with its slug, oldest first.
func (s *Service) Stores(ctx context.Context) ([]Catalog, error) {
	rows, err := s.q.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	out := make([]Catalog, 0, len(rows))
	for _, r := range rows {
		current, err := s.slugs.Current(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("load slug: %w", err)
		}
		out = append(out, Catalog{Store: toStore(r), Slug: current})
	}
	return out, nil
}
