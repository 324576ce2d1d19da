package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/livefir/storefront/internal/app/admin"
	"github.com/livefir/storefront/internal/app/storefront"
	"github.com/livefir/storefront/internal/config"
	"github.com/livefir/storefront/internal/database"
	"github.com/livefir/storefront/internal/live"
	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/shop"
	"github.com/livefir/storefront/internal/token"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type fixture struct {
	cfg     *config.Config
	server  *Server
	tokens  *token.TokenService
	metrics *metrics.Collector
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.DriverModernc, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, database.Migrate(ctx, conn, nil))

	logger := zaptest.NewLogger(t)
	svc := shop.NewService(conn, shop.WithLogger(logger))
	_, err = svc.SeedDemo(ctx)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Auth.Secret = "test-secret-0123456789"
	cfg.Server.PublicURL = "https://vitrine.example"
	cfg.Server.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(cfg)
	}

	tokens, err := token.NewTokenService([]byte(cfg.Auth.Secret), &token.Config{TTL: cfg.Auth.TokenTTL})
	require.NoError(t, err)
	m := metrics.NewCollector()
	s, err := New(cfg, Deps{DB: conn, Shop: svc, Tokens: tokens, Metrics: m, Logger: logger})
	require.NoError(t, err)
	return &fixture{cfg: cfg, server: s, tokens: tokens, metrics: m}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	resp, body := get(t, srv.Client(), srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)

	get(t, srv.Client(), srv.URL+"/dev")

	resp, body = get(t, srv.Client(), srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, int64(1), snap.Metrics.SessionsCreated)
	assert.Equal(t, int64(1), snap.Metrics.PagesRendered)

	resp, body = get(t, srv.Client(), srv.URL+live.ClientPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "data-action")
}

func TestRoutes_Catalogs(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	resp, body := get(t, srv.Client(), srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dev", resp.Request.URL.Path)
	assert.Contains(t, body, "Loja Demonstrativa")

	resp, body = get(t, srv.Client(), srv.URL+"/"+shop.DemoSlug)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Camiseta Estampada")

	resp, _ = get(t, srv.Client(), srv.URL+"/nao-existe")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv.Client(), srv.URL+"/a/b")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_AdminTokenLogin(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	resp, _ := get(t, srv.Client(), srv.URL+"/admin")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, srv.Client(), srv.URL+"/admin?token=forged")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	signed, err := f.tokens.GenerateToken(shop.DemoUserID)
	require.NoError(t, err)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}
	resp, body := get(t, client, srv.URL+"/admin?token="+signed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Request.URL.Path)
	assert.Empty(t, resp.Request.URL.RawQuery, "token is dropped from the URL")
	assert.Contains(t, body, "https://vitrine.example/"+shop.DemoSlug)

	resp, _ = get(t, client, srv.URL+"/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "cookie keeps the merchant signed in")

	_, body = get(t, client, srv.URL+"/"+shop.DemoSlug)
	assert.Contains(t, body, "Painel Admin", "signed-in merchants get a panel link")
	_, body = get(t, srv.Client(), srv.URL+"/"+shop.DemoSlug)
	assert.NotContains(t, body, "Painel Admin")

	m := f.metrics.GetMetrics()
	assert.Equal(t, int64(1), m.TokenFailures)
	assert.GreaterOrEqual(t, m.TokensVerified, int64(3))
}

func TestServe_StopsOnCancel(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.Sessions.JanitorInterval = 10 * time.Millisecond
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, _ := get(t, client, "http://"+ln.Addr().String()+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func copyTemplates(t *testing.T, dir string) {
	t.Helper()
	for name, src := range map[string]string{
		storefront.TemplateName: "storefront.tmpl",
		admin.TemplateName:      "admin.tmpl",
	} {
		var data []byte
		var err error
		if name == storefront.TemplateName {
			data, err = storefront.Templates.ReadFile("templates/" + src)
		} else {
			data, err = admin.Templates.ReadFile("templates/" + src)
		}
		require.NoError(t, err)
		target := filepath.Join(dir, name, "templates")
		require.NoError(t, os.MkdirAll(target, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(target, src), data, 0644))
	}
}

func TestServe_ReloadsTemplatesInDev(t *testing.T) {
	dir := t.TempDir()
	copyTemplates(t, dir)
	f := newFixture(t, func(c *config.Config) {
		c.Server.Dev = true
		c.Server.TemplatesDir = dir
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	base := "http://" + ln.Addr().String()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	_, body := get(t, client, base+"/dev")
	require.NotContains(t, body, "Promoção relâmpago")

	path := filepath.Join(dir, storefront.TemplateName, "templates", "storefront.tmpl")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	changed := strings.Replace(string(data), `<h1 id="store-name"`, `<p id="banner">Promoção relâmpago</p><h1 id="store-name"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0644))

	require.Eventually(t, func() bool {
		_, body := get(t, client, base+"/dev")
		return strings.Contains(body, "Promoção relâmpago")
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{{define "storefront"}}broken`), 0644))
	time.Sleep(3 * reloadDebounce)
	resp, body := get(t, client, base+"/dev")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Promoção relâmpago", "a broken edit keeps the last good templates")
}

func TestStatusRecorderHijack(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rec.Hijack()
	assert.Error(t, err)

	_, _ = rec.Write([]byte("ok"))
	assert.Equal(t, http.StatusOK, rec.status)
	assert.Equal(t, 2, rec.bytes)
}
