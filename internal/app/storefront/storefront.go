// Package storefront is the public catalog page: product browsing, the
// shopper cart and checkout through WhatsApp.
package storefront

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/app/view"
	"github.com/livefir/storefront/internal/cart"
	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/live"
	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/shop"
	"github.com/livefir/storefront/internal/whatsapp"
)

// TemplateName is the full page template.
const TemplateName = "storefront"

// Templates holds the page templates.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// TemplatePatterns selects the page templates inside Templates.
var TemplatePatterns = []string{"templates/*.tmpl"}

var (
	errEmptyCart   = errors.New("Seu carrinho está vazio")
	errNoWhatsApp  = errors.New("Esta loja ainda não configurou o WhatsApp")
	errUnavailable = errors.New("Produto indisponível")
)

// Catalogs loads public catalogs. *shop.Service implements it.
type Catalogs interface {
	Catalog(ctx context.Context, storeID string) (shop.Catalog, error)
	CatalogBySlug(ctx context.Context, slug string) (shop.Catalog, error)
}

// NewTemplate parses the embedded page templates.
func NewTemplate(opts ...live.TemplateOption) (*live.Template, error) {
	opts = append([]live.TemplateOption{live.WithFuncs(view.Funcs())}, opts...)
	return live.New(TemplateName, opts...).ParseFS(Templates, TemplatePatterns...)
}

// Page is the state of one shopper's catalog page.
type Page struct {
	Store      catalog.Store           `json:"store"`
	Slug       string                  `json:"slug"`
	Categories []catalog.CategoryCount `json:"categories"`
	Products   []catalog.Product       `json:"products"`
	Buttons    []catalog.Button        `json:"buttons"`
	Cart       cart.Cart               `json:"cart"`
	ShowCart   bool                    `json:"show_cart"`
	Search     string                  `json:"search"`
	CategoryID string                  `json:"category_id"`
	Tag        catalog.Tag             `json:"tag"`
	Sort       catalog.SortOrder       `json:"sort"`
	// Admin is set when a signed-in merchant views the catalog.
	Admin bool `json:"admin"`

	all     []catalog.Product
	load    func(ctx context.Context) (shop.Catalog, error)
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewPage returns a page that loads its catalog with load.
func NewPage(load func(ctx context.Context) (shop.Catalog, error), m *metrics.Collector, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{Sort: catalog.SortRecent, load: load, metrics: m, logger: logger}
}

// Factory serves the catalog named by the {slug} path value. An unknown
// slug surfaces from Init as live.ErrNotFound.
func Factory(svc Catalogs, m *metrics.Collector, logger *zap.Logger) live.StoreFactory {
	return func(r *http.Request, userID string) (live.Store, error) {
		slug := r.PathValue("slug")
		p := NewPage(func(ctx context.Context) (shop.Catalog, error) {
			return svc.CatalogBySlug(ctx, slug)
		}, m, logger)
		p.Admin = userID != ""
		return p, nil
	}
}

// StoreFactory always serves the store with storeID, as the demo route does.
func StoreFactory(svc Catalogs, storeID string, m *metrics.Collector, logger *zap.Logger) live.StoreFactory {
	return func(r *http.Request, userID string) (live.Store, error) {
		p := NewPage(func(ctx context.Context) (shop.Catalog, error) {
			return svc.Catalog(ctx, storeID)
		}, m, logger)
		p.Admin = userID != ""
		return p, nil
	}
}

func notFound(err error) error {
	if errors.Is(err, shop.ErrNotFound) {
		return fmt.Errorf("%w: %v", live.ErrNotFound, err)
	}
	return err
}

// Init reloads the catalog. Cart lines follow the current products and
// lines of removed or hidden products are dropped.
func (p *Page) Init(ctx context.Context) error {
	c, err := p.load(ctx)
	if err != nil {
		return notFound(err)
	}
	p.Store = c.Store
	p.Slug = c.Slug
	p.Categories = c.Categories
	p.Buttons = c.Buttons
	p.all = c.Products
	p.Cart.Refresh(p.all)
	p.refilter()
	return nil
}

func (p *Page) refilter() {
	p.Products = catalog.Filter(p.all, catalog.Query{
		Search:      p.Search,
		CategoryID:  p.CategoryID,
		Tag:         p.Tag,
		VisibleOnly: true,
		Sort:        p.Sort,
	})
}

func (p *Page) product(id string) (catalog.Product, bool) {
	for _, prod := range p.all {
		if prod.ID == id && prod.Visible {
			return prod, true
		}
	}
	return catalog.Product{}, false
}

// Change handles the shopper actions.
func (p *Page) Change(ctx *live.ActionContext) error {
	switch ctx.Action {
	case "search":
		p.Search = ctx.GetString("search")
	case "filter_category":
		p.CategoryID = ctx.GetString("id")
	case "filter_tag":
		tag := catalog.Tag(ctx.GetString("tag"))
		if !tag.Valid() {
			tag = ""
		}
		p.Tag = tag
	case "sort":
		p.Sort = catalog.ParseSort(ctx.GetString("sort"))
	case "clear_filters":
		p.Search, p.CategoryID, p.Tag, p.Sort = "", "", "", catalog.SortRecent
	case "toggle_cart":
		p.ShowCart = !p.ShowCart
	case "add_to_cart":
		prod, ok := p.product(ctx.GetString("id"))
		if !ok {
			return live.NewFieldError("cart", errUnavailable)
		}
		p.Cart.Add(prod)
		p.ShowCart = true
	case "update_quantity":
		p.Cart.SetQuantity(ctx.GetString("id"), ctx.GetInt("quantity"))
	case "checkout":
		return p.checkout(ctx)
	case "buy_now":
		return p.buyNow(ctx)
	case "refresh":
		return p.Init(ctx.Context())
	default:
		return fmt.Errorf("ação desconhecida: %s", ctx.Action)
	}
	p.refilter()
	return nil
}

func (p *Page) checkout(ctx *live.ActionContext) error {
	if p.Cart.Empty() {
		return live.NewFieldError("cart", errEmptyCart)
	}
	if p.Store.WhatsApp == "" {
		return live.NewFieldError("cart", errNoWhatsApp)
	}
	message := whatsapp.OrderMessage(p.Cart.Items, p.Store.Currency())
	p.redirect(ctx, message, "cart")
	return nil
}

func (p *Page) buyNow(ctx *live.ActionContext) error {
	prod, ok := p.product(ctx.GetString("id"))
	if !ok {
		return live.NewFieldError("cart", errUnavailable)
	}
	if p.Store.WhatsApp == "" {
		return live.NewFieldError("cart", errNoWhatsApp)
	}
	p.redirect(ctx, whatsapp.SingleProductMessage(prod, p.Store.Currency()), "buy_now")
	return nil
}

func (p *Page) redirect(ctx *live.ActionContext, message, kind string) {
	ctx.Redirect(whatsapp.ChatURL(p.Store.WhatsApp, message))
	if p.metrics != nil {
		p.metrics.IncrementCheckout()
	}
	p.logger.Info("checkout",
		zap.String("store", p.Store.ID),
		zap.String("kind", kind),
		zap.Int("units", p.Cart.Count()),
	)
}

// CartCount is the number of units in the cart.
func (p *Page) CartCount() int {
	return p.Cart.Count()
}

// CartTotal is the formatted cart total.
func (p *Page) CartTotal() string {
	return catalog.FormatPrice(p.Cart.Total(), p.Store.Currency())
}

// CategoryLabel is the name of the selected category, or the default label.
func (p *Page) CategoryLabel() string {
	if name := catalog.CategoryName(categoryList(p.Categories), p.CategoryID); name != "" {
		return name
	}
	return "Categorias"
}

// TagLabel is the label of the selected tag, or the default label.
func (p *Page) TagLabel() string {
	if label := p.Tag.Label(); label != "" {
		return label
	}
	return "Tags"
}

// Sorts lists the selectable sort orders.
func (p *Page) Sorts() []catalog.SortOrder {
	return []catalog.SortOrder{catalog.SortRecent, catalog.SortPriceAsc, catalog.SortPriceDesc}
}

// Filtered reports whether any filter narrows the listing.
func (p *Page) Filtered() bool {
	return p.Search != "" || p.CategoryID != "" || p.Tag != ""
}

func categoryList(counts []catalog.CategoryCount) []catalog.Category {
	out := make([]catalog.Category, len(counts))
	for i, c := range counts {
		out[i] = c.Category
	}
	return out
}
