// Package admin is the merchant panel: store settings, the public link,
// categories, products and contact buttons.
package admin

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/app/view"
	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/live"
	"github.com/livefir/storefront/internal/phone"
	"github.com/livefir/storefront/internal/shop"
)

// TemplateName is the full page template.
const TemplateName = "admin"

// Templates holds the page templates.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// TemplatePatterns selects the page templates inside Templates.
var TemplatePatterns = []string{"templates/*.tmpl"}

// Tabs of the panel.
const (
	TabProducts = "products"
	TabStore    = "store"
	TabButtons  = "buttons"
)

var (
	errForbidden    = errors.New("Você não pode alterar registros de outra loja")
	errMissing      = errors.New("Registro não encontrado")
	errNoneSelected = errors.New("Selecione ao menos um produto")
)

// Merchant is the set of store operations the panel runs. *shop.Service
// implements it.
type Merchant interface {
	Dashboard(ctx context.Context, userID string) (shop.Dashboard, error)
	SaveSettings(ctx context.Context, userID string, in shop.SettingsInput) (catalog.Store, error)
	SaveSlug(ctx context.Context, userID, raw string) (string, error)
	AddCategory(ctx context.Context, userID, name string) (catalog.Category, error)
	RenameCategory(ctx context.Context, userID, id, name string) error
	DeleteCategory(ctx context.Context, userID, id string) error
	SaveProduct(ctx context.Context, userID string, in shop.ProductInput) (catalog.Product, error)
	DeleteProducts(ctx context.Context, userID string, ids []string) (int, error)
	SaveButton(ctx context.Context, userID string, in shop.ButtonInput) (catalog.Button, error)
	DeleteButton(ctx context.Context, userID, id string) error
	MoveButton(ctx context.Context, userID, activeID, overID string) ([]catalog.Button, error)
	Validator() *validator.Validate
}

// NewTemplate parses the embedded page templates.
func NewTemplate(opts ...live.TemplateOption) (*live.Template, error) {
	opts = append([]live.TemplateOption{live.WithFuncs(view.Funcs())}, opts...)
	return live.New(TemplateName, opts...).ParseFS(Templates, TemplatePatterns...)
}

// Page is the state of one merchant's panel.
type Page struct {
	Store          catalog.Store           `json:"store"`
	Slug           string                  `json:"slug"`
	PublicURL      string                  `json:"public_url"`
	Categories     []catalog.CategoryCount `json:"categories"`
	Products       []catalog.Product       `json:"products"`
	Buttons        []catalog.Button        `json:"buttons"`
	NextItemNumber string                  `json:"next_item_number"`
	Tab            string                  `json:"tab"`
	Search         string                  `json:"search"`
	CategoryID     string                  `json:"category_id"`
	// Editing is the product in the form; a zero ID means a new product.
	Editing     catalog.Product `json:"editing"`
	ProductForm bool            `json:"product_form"`
	// EditingButton is the button in the button form.
	EditingButton catalog.Button `json:"editing_button"`
	ButtonForm    bool           `json:"button_form"`
	// ButtonCountry is the dialing code picked for a WhatsApp button; blank
	// lets the number decide.
	ButtonCountry string `json:"button_country"`
	// RenamingID is the category whose name is being edited.
	RenamingID string `json:"renaming_id"`
	Notice     string `json:"notice"`

	all     []catalog.Product
	userID  string
	baseURL string
	svc     Merchant
	logger  *zap.Logger
}

// NewPage returns the panel of the merchant userID. baseURL prefixes the
// public catalog link.
func NewPage(svc Merchant, userID, baseURL string, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{
		Tab:     TabProducts,
		userID:  userID,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		svc:     svc,
		logger:  logger.With(zap.String("user", userID)),
	}
}

// Factory serves the panel of the authenticated merchant.
func Factory(svc Merchant, baseURL string, logger *zap.Logger) live.StoreFactory {
	return func(r *http.Request, userID string) (live.Store, error) {
		if userID == "" {
			return nil, live.ErrUnauthenticated
		}
		return NewPage(svc, userID, baseURL, logger), nil
	}
}

// Init loads the merchant's store, provisioning it on first use.
func (p *Page) Init(ctx context.Context) error {
	d, err := p.svc.Dashboard(ctx, p.userID)
	if err != nil {
		return err
	}
	p.Store = d.Store
	p.Slug = d.Slug
	p.PublicURL = p.baseURL + "/" + d.Slug
	p.Categories = d.Categories
	p.Buttons = d.Buttons
	p.NextItemNumber = d.NextItemNumber
	p.all = d.Products
	p.refilter()
	return nil
}

func (p *Page) refilter() {
	p.Products = catalog.Filter(p.all, catalog.Query{
		Search:     p.Search,
		CategoryID: p.CategoryID,
		Sort:       catalog.SortRecent,
	})
}

// Change handles the merchant actions. Every write reloads the dashboard.
func (p *Page) Change(ctx *live.ActionContext) error {
	p.Notice = ""
	switch ctx.Action {
	case "tab":
		p.Tab = tab(ctx.GetString("tab"))
		return nil
	case "search":
		p.Search = ctx.GetString("search")
		p.refilter()
		return nil
	case "filter_category":
		p.CategoryID = ctx.GetString("id")
		p.refilter()
		return nil
	case "edit_product":
		return p.editProduct(ctx.GetString("id"))
	case "edit_button":
		return p.editButton(ctx.GetString("id"))
	case "edit_category":
		p.RenamingID = ctx.GetString("id")
		return nil
	case "cancel":
		p.closeForms()
		return nil
	case "refresh":
		return p.Init(ctx.Context())
	}

	notice, err := p.write(ctx)
	if err != nil {
		p.logger.Debug("action rejected", zap.String("action", ctx.Action), zap.Error(err))
		return userError(err)
	}
	p.Notice = notice
	return p.Init(ctx.Context())
}

func (p *Page) write(ctx *live.ActionContext) (string, error) {
	c := ctx.Context()
	switch ctx.Action {
	case "save_settings":
		var in shop.SettingsInput
		if err := ctx.BindAndValidate(&in, p.svc.Validator()); err != nil {
			return "", err
		}
		if _, err := p.svc.SaveSettings(c, p.userID, in); err != nil {
			return "", err
		}
		return "Configurações salvas", nil

	case "save_slug":
		s, err := p.svc.SaveSlug(c, p.userID, ctx.GetString("slug"))
		if err != nil {
			return "", err
		}
		p.logger.Info("slug changed", zap.String("slug", s))
		return "Link atualizado", nil

	case "add_category":
		if _, err := p.svc.AddCategory(c, p.userID, ctx.GetString("name")); err != nil {
			return "", err
		}
		return "Categoria criada", nil

	case "rename_category":
		if err := p.svc.RenameCategory(c, p.userID, ctx.GetString("id"), ctx.GetString("name")); err != nil {
			return "", err
		}
		p.RenamingID = ""
		return "Categoria renomeada", nil

	case "delete_category":
		id := ctx.GetString("id")
		if err := p.svc.DeleteCategory(c, p.userID, id); err != nil {
			return "", err
		}
		if p.CategoryID == id {
			p.CategoryID = ""
		}
		return "Categoria excluída", nil

	case "save_product":
		var in shop.ProductInput
		if err := ctx.Bind(&in); err != nil {
			return "", err
		}
		in.Hidden = !ctx.GetBool("visible")
		p.draft(in)
		if err := p.svc.Validator().Struct(in); err != nil {
			return "", err
		}
		saved, err := p.svc.SaveProduct(c, p.userID, in)
		if err != nil {
			return "", err
		}
		p.ProductForm = false
		p.Editing = catalog.Product{}
		p.logger.Info("product saved", zap.String("product", saved.ID), zap.String("item", saved.ItemNumber))
		return "Produto salvo", nil

	case "delete_products":
		ids := ctx.GetStrings("ids")
		if id := ctx.GetString("id"); id != "" {
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return "", live.NewFieldError("ids", errNoneSelected)
		}
		n, err := p.svc.DeleteProducts(c, p.userID, ids)
		if err != nil {
			return "", err
		}
		if p.ProductForm && contains(ids, p.Editing.ID) {
			p.closeForms()
		}
		return fmt.Sprintf("%d produto(s) excluído(s)", n), nil

	case "save_button":
		var in shop.ButtonInput
		if err := ctx.Bind(&in); err != nil {
			return "", err
		}
		p.EditingButton = catalog.Button{ID: in.ID, Type: in.Type, Label: in.Label, Message: in.Message, Color: in.Color}
		p.ButtonCountry = in.CountryCode
		if _, err := p.svc.SaveButton(c, p.userID, in); err != nil {
			return "", err
		}
		p.ButtonForm = false
		p.EditingButton = catalog.Button{}
		p.ButtonCountry = ""
		return "Botão salvo", nil

	case "delete_button":
		if err := p.svc.DeleteButton(c, p.userID, ctx.GetString("id")); err != nil {
			return "", err
		}
		return "Botão excluído", nil

	case "move_button":
		active, over := ctx.GetString("active_id"), ctx.GetString("over_id")
		if active == over {
			return "", nil
		}
		if _, err := p.svc.MoveButton(c, p.userID, active, over); err != nil {
			return "", err
		}
		return "Ordem dos botões atualizada", nil
	}
	return "", fmt.Errorf("ação desconhecida: %s", ctx.Action)
}

func (p *Page) editProduct(id string) error {
	p.ProductForm = true
	p.Tab = TabProducts
	if id == "" {
		p.Editing = catalog.Product{Visible: true, CategoryID: p.CategoryID}
		return nil
	}
	for _, prod := range p.all {
		if prod.ID == id {
			p.Editing = prod
			return nil
		}
	}
	p.ProductForm = false
	return errMissing
}

// draft keeps the typed product in the form so a rejected save can be fixed.
func (p *Page) draft(in shop.ProductInput) {
	price, _ := catalog.ParsePrice(in.Price)
	original, _ := catalog.ParsePrice(in.OriginalPrice)
	p.Editing = catalog.Product{
		ID:            in.ID,
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		Price:         price,
		OriginalPrice: original,
		ImageURL:      in.ImageURL,
		ItemNumber:    in.ItemNumber,
		Visible:       !in.Hidden,
		Tags:          catalog.ParseTags(in.Tags),
	}
}

func (p *Page) editButton(id string) error {
	p.ButtonForm = true
	p.ButtonCountry = ""
	p.Tab = TabButtons
	if id == "" {
		p.EditingButton = catalog.Button{Type: "whatsapp"}
		return nil
	}
	for _, b := range p.Buttons {
		if b.ID == id {
			p.EditingButton = b
			return nil
		}
	}
	p.ButtonForm = false
	return errMissing
}

func (p *Page) closeForms() {
	p.ProductForm, p.ButtonForm = false, false
	p.Editing = catalog.Product{}
	p.EditingButton = catalog.Button{}
	p.ButtonCountry = ""
	p.RenamingID = ""
}

// userError replaces repository sentinels with messages for the merchant.
func userError(err error) error {
	switch {
	case errors.Is(err, shop.ErrForbidden):
		return errForbidden
	case errors.Is(err, shop.ErrNotFound):
		return errMissing
	}
	return err
}

func tab(name string) string {
	switch name {
	case TabStore, TabButtons:
		return name
	}
	return TabProducts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Tabs lists the panel tabs with their labels.
func (p *Page) Tabs() [][2]string {
	return [][2]string{{TabProducts, "Produtos"}, {TabStore, "Loja"}, {TabButtons, "Botões"}}
}

// WhatsAppCountry is the dialing code of the stored number.
func (p *Page) WhatsAppCountry() string {
	c, _ := phone.Split(p.Store.WhatsApp)
	return c.Code
}

// WhatsAppLocal is the local part of the stored number in its country's format.
func (p *Page) WhatsAppLocal() string {
	if p.Store.WhatsApp == "" {
		return ""
	}
	c, local := phone.Split(p.Store.WhatsApp)
	return phone.Format(local, c.Format)
}

// CategoryName names the category with id, or "Sem categoria".
func (p *Page) CategoryName(id string) string {
	for _, c := range p.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Sem categoria"
}

// ProductCount is the number of products before filtering.
func (p *Page) ProductCount() int {
	return len(p.all)
}
