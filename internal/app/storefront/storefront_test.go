package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/database"
	"github.com/livefir/storefront/internal/live"
	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/shop"
	"github.com/livefir/storefront/internal/token"
)

const (
	basica     = "123e4567-e89b-12d3-a456-426614174004"
	estampada  = "123e4567-e89b-12d3-a456-426614174005"
	jeans      = "123e4567-e89b-12d3-a456-426614174006"
	bone       = "123e4567-e89b-12d3-a456-426614174007"
	camisetas  = "123e4567-e89b-12d3-a456-426614174001"
	demoNumber = "5511999999999"
)

func newDemoService(t *testing.T) *shop.Service {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.DriverModernc, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, database.Migrate(ctx, conn, nil))

	svc := shop.NewService(conn, shop.WithLogger(zaptest.NewLogger(t)))
	_, err = svc.SeedDemo(ctx)
	require.NoError(t, err)
	return svc
}

func newDemoPage(t *testing.T, svc *shop.Service, m *metrics.Collector) *Page {
	t.Helper()
	p := NewPage(func(ctx context.Context) (shop.Catalog, error) {
		return svc.Catalog(ctx, shop.DemoStoreID)
	}, m, zaptest.NewLogger(t))
	require.NoError(t, p.Init(context.Background()))
	return p
}

func act(p *Page, action string, data map[string]interface{}) (*live.ActionContext, error) {
	ctx := live.NewActionContext(context.Background(), action, "", data)
	return ctx, p.Change(ctx)
}

func productIDs(products []catalog.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestPage_FiltersAndSort(t *testing.T) {
	p := newDemoPage(t, newDemoService(t), nil)

	assert.Equal(t, []string{bone, jeans, estampada, basica}, productIDs(p.Products), "most recent first")

	_, err := act(p, "sort", map[string]interface{}{"sort": "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{bone, basica, estampada, jeans}, productIDs(p.Products))

	_, err = act(p, "filter_category", map[string]interface{}{"id": camisetas})
	require.NoError(t, err)
	assert.Equal(t, []string{basica, estampada}, productIDs(p.Products))
	assert.Equal(t, "Camisetas", p.CategoryLabel())

	_, err = act(p, "search", map[string]interface{}{"search": "ESTAMPA"})
	require.NoError(t, err)
	assert.Equal(t, []string{estampada}, productIDs(p.Products))

	_, err = act(p, "filter_tag", map[string]interface{}{"tag": "sale"})
	require.NoError(t, err)
	assert.Empty(t, p.Products)
	assert.True(t, p.Filtered())

	_, err = act(p, "filter_tag", map[string]interface{}{"tag": "bogus"})
	require.NoError(t, err)
	assert.Equal(t, catalog.Tag(""), p.Tag)

	_, err = act(p, "clear_filters", nil)
	require.NoError(t, err)
	assert.Len(t, p.Products, 4)
	assert.False(t, p.Filtered())
	assert.Equal(t, "Categorias", p.CategoryLabel())
}

func TestPage_CartAndCheckout(t *testing.T) {
	m := metrics.NewCollector()
	p := newDemoPage(t, newDemoService(t), m)

	ctx, err := act(p, "checkout", nil)
	requireFieldError(t, err, "cart", "Seu carrinho está vazio")
	assert.Empty(t, ctx.RedirectURL())

	for _, id := range []string{basica, basica, jeans} {
		_, err := act(p, "add_to_cart", map[string]interface{}{"id": id})
		require.NoError(t, err)
	}
	assert.True(t, p.ShowCart)
	assert.Equal(t, 3, p.Cart.Count())
	assert.Equal(t, "R$ 229.70", p.CartTotal())

	_, err = act(p, "update_quantity", map[string]interface{}{"id": jeans, "quantity": "0"})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Cart.Count())

	_, err = act(p, "add_to_cart", map[string]interface{}{"id": "nope"})
	requireFieldError(t, err, "cart", "Produto indisponível")

	ctx, err = act(p, "checkout", nil)
	require.NoError(t, err)
	redirect, err := url.Parse(ctx.RedirectURL())
	require.NoError(t, err)
	assert.Equal(t, "wa.me", redirect.Host)
	assert.Equal(t, "/"+demoNumber, redirect.Path)
	text := redirect.Query().Get("text")
	assert.Contains(t, text, "📌 Produto: Camiseta Básica")
	assert.Contains(t, text, "📦 Quantidade: 2")
	assert.Contains(t, text, "Total do Pedido: R$ 99.80")
	assert.Equal(t, int64(1), m.GetMetrics().Checkouts)
}

func TestPage_BuyNow(t *testing.T) {
	p := newDemoPage(t, newDemoService(t), nil)

	ctx, err := act(p, "buy_now", map[string]interface{}{"id": bone})
	require.NoError(t, err)
	assert.Contains(t, ctx.RedirectURL(), "https://wa.me/"+demoNumber+"?text=")
	assert.Contains(t, ctx.RedirectURL(), url.PathEscape("Boné"))
	assert.True(t, p.Cart.Empty(), "buy now leaves the cart alone")
}

func TestPage_CheckoutWithoutNumber(t *testing.T) {
	ctx := context.Background()
	svc := newDemoService(t)
	store, err := svc.Provision(ctx, "merchant")
	require.NoError(t, err)
	product, err := svc.SaveProduct(ctx, "merchant", shop.ProductInput{Name: "Caneca", Price: "25"})
	require.NoError(t, err)

	p := NewPage(func(ctx context.Context) (shop.Catalog, error) {
		return svc.Catalog(ctx, store.ID)
	}, nil, nil)
	require.NoError(t, p.Init(ctx))

	_, err = act(p, "add_to_cart", map[string]interface{}{"id": product.ID})
	require.NoError(t, err)
	_, err = act(p, "checkout", nil)
	requireFieldError(t, err, "cart", "Esta loja ainda não configurou o WhatsApp")
}

func TestPage_RefreshDropsHiddenProducts(t *testing.T) {
	ctx := context.Background()
	svc := newDemoService(t)
	p := newDemoPage(t, svc, nil)

	_, err := act(p, "add_to_cart", map[string]interface{}{"id": bone})
	require.NoError(t, err)

	_, err = svc.SaveProduct(ctx, shop.DemoUserID, shop.ProductInput{
		ID: bone, Name: "Boné", Price: "39,90", CategoryID: "123e4567-e89b-12d3-a456-426614174003", Hidden: true,
	})
	require.NoError(t, err)

	_, err = act(p, "refresh", nil)
	require.NoError(t, err)
	assert.True(t, p.Cart.Empty())
	assert.NotContains(t, productIDs(p.Products), bone)
}

func TestPage_UnknownAction(t *testing.T) {
	p := newDemoPage(t, newDemoService(t), nil)
	_, err := act(p, "dance", nil)
	assert.Error(t, err)
}

func requireFieldError(t *testing.T, err error, field, message string) {
	t.Helper()
	require.Error(t, err)
	var fe live.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, field, fe.Field)
	assert.Equal(t, message, fe.Message)
}

func newCatalogServer(t *testing.T, svc Catalogs, opts ...live.MountOption) *httptest.Server {
	t.Helper()
	tmpl, err := NewTemplate()
	require.NoError(t, err)

	opts = append([]live.MountOption{live.WithLogger(zaptest.NewLogger(t))}, opts...)
	mux := http.NewServeMux()
	mux.Handle("/{slug}", live.Mount(tmpl, Factory(svc, nil, zaptest.NewLogger(t)), opts...))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if match(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, match)...)
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(t.Data)
	}
	return strings.TrimSpace(b.String())
}

func TestCatalogRoute(t *testing.T) {
	srv := newCatalogServer(t, newDemoService(t))
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(srv.URL + "/" + shop.DemoSlug)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := html.Parse(resp.Body)
	require.NoError(t, err)
	names := findAll(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && hasClass(n, "product-name") })
	require.Len(t, names, 4)
	assert.Equal(t, "Boné", text(names[0]))

	body, _ := json.Marshal(map[string]interface{}{"action": "add_to_cart", "data": map[string]string{"id": jeans}})
	resp2, err := client.Post(srv.URL+"/"+shop.DemoSlug, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp2.Body.Close()

	var update live.UpdateResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&update))
	assert.True(t, update.Meta.Success)
	assert.Contains(t, update.HTML, `id="cart-total"`)
	assert.Contains(t, update.HTML, "R$ 129.90")

	missing, err := client.Get(srv.URL + "/nao-existe")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

type countingCatalogs struct {
	*shop.Service
	loads atomic.Int32
}

func (c *countingCatalogs) CatalogBySlug(ctx context.Context, slug string) (shop.Catalog, error) {
	c.loads.Add(1)
	return c.Service.CatalogBySlug(ctx, slug)
}

func TestCatalogRoute_LoadsOncePerSession(t *testing.T) {
	svc := &countingCatalogs{Service: newDemoService(t)}
	srv := newCatalogServer(t, svc)
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(srv.URL + "/" + shop.DemoSlug)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), svc.loads.Load(), "a new session reads the catalog once")

	resp, err = client.Get(srv.URL + "/nao-existe")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(2), svc.loads.Load())
}

func TestCatalogRoute_PanelLinkForMerchants(t *testing.T) {
	tokens, err := token.NewTokenService([]byte("secret"), nil)
	require.NoError(t, err)
	srv := newCatalogServer(t, newDemoService(t), live.WithAuthenticator(live.NewShopperAuthenticator(tokens)))

	page := func(cookies ...*http.Cookie) string {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/"+shop.DemoSlug, nil)
		require.NoError(t, err)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var b strings.Builder
		_, err = io.Copy(&b, resp.Body)
		require.NoError(t, err)
		return b.String()
	}

	assert.NotContains(t, page(), "Painel Admin")
	assert.NotContains(t, page(&http.Cookie{Name: live.TokenCookie, Value: "forged"}), "Painel Admin")

	signed, err := tokens.GenerateToken(shop.DemoUserID)
	require.NoError(t, err)
	assert.Contains(t, page(&http.Cookie{Name: live.TokenCookie, Value: signed}), "Painel Admin")
}
