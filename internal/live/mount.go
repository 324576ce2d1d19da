package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/livefir/storefront/internal/metrics"
)

// maxMessageSize bounds a single WebSocket action message.
const maxMessageSize = 64 << 10

// StoreFactory builds the page store for a new session. It returns an
// error wrapping ErrNotFound when the page does not exist.
type StoreFactory func(r *http.Request, userID string) (Store, error)

// UpdateResponse is the reply to every action, over HTTP and WebSocket.
type UpdateResponse struct {
	HTML string            `json:"html"`
	Meta *ResponseMetadata `json:"meta"`
}

// ResponseMetadata describes the outcome of the action.
type ResponseMetadata struct {
	Success  bool              `json:"success"`
	Errors   map[string]string `json:"errors"`
	Action   string            `json:"action,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// MountConfig configures the mount handler
type MountConfig struct {
	Authenticator     Authenticator
	SessionStore      SessionStore
	Upgrader          *websocket.Upgrader
	Logger            *zap.Logger
	Metrics           *metrics.Collector
	WebSocketDisabled bool
}

// MountOption is a functional option for configuring Mount
type MountOption func(*MountConfig)

// WithAuthenticator sets how users and session groups are resolved.
func WithAuthenticator(a Authenticator) MountOption {
	return func(c *MountConfig) { c.Authenticator = a }
}

// WithSessionStore shares a session store between handlers.
func WithSessionStore(s SessionStore) MountOption {
	return func(c *MountConfig) { c.SessionStore = s }
}

// WithLogger sets the handler logger.
func WithLogger(l *zap.Logger) MountOption {
	return func(c *MountConfig) { c.Logger = l }
}

// WithMetrics records handler activity in m.
func WithMetrics(m *metrics.Collector) MountOption {
	return func(c *MountConfig) { c.Metrics = m }
}

// WithWebSocketDisabled serves actions over HTTP POST only.
func WithWebSocketDisabled() MountOption {
	return func(c *MountConfig) { c.WebSocketDisabled = true }
}

// Mount creates an http.Handler serving tmpl for stores built by factory.
// GET renders the page, POST runs one action and WebSocket runs many.
func Mount(tmpl *Template, factory StoreFactory, opts ...MountOption) http.Handler {
	config := MountConfig{
		Authenticator: &AnonymousAuthenticator{},
		Logger:        zap.NewNop(),
		Upgrader: &websocket.Upgrader{
			CheckOrigin: sameOrigin,
		},
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.SessionStore == nil {
		config.SessionStore = NewMemorySessionStore(DefaultSessionTTL)
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NewCollector()
	}

	return &liveHandler{
		config:   config,
		template: tmpl,
		factory:  factory,
		log:      config.Logger.With(zap.String("page", tmpl.Name())),
	}
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// liveHandler handles both WebSocket and HTTP requests
type liveHandler struct {
	config   MountConfig
	template *Template
	factory  StoreFactory
	log      *zap.Logger
	creating singleflight.Group
}

type connState struct {
	mu     sync.Mutex
	store  Store
	errors map[string]string // Field errors from last action
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.config.WebSocketDisabled {
		w.Header().Set("X-Storefront-WebSocket", "disabled")
	} else {
		w.Header().Set("X-Storefront-WebSocket", "enabled")
	}

	userID, err := h.config.Authenticator.Identify(r)
	if err != nil {
		h.log.Info("request not authenticated", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Acesso não autorizado", http.StatusUnauthorized)
		return
	}
	groupID, err := h.config.Authenticator.GetSessionGroup(r, userID)
	if err != nil {
		h.log.Error("session group failed", zap.Error(err))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	h.ensureGroupCookie(w, r, groupID)

	state, created, err := h.session(r, groupID, userID)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("page setup failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	switch {
	case websocket.IsWebSocketUpgrade(r):
		if h.config.WebSocketDisabled {
			http.Error(w, "WebSocket is disabled on this endpoint", http.StatusBadRequest)
			return
		}
		h.handleWebSocket(w, r, state, userID)
	case r.Method == http.MethodHead:
		return
	case r.Method == http.MethodGet:
		h.handlePage(w, r, state, created)
	case r.Method == http.MethodPost:
		h.handlePost(w, r, state, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ensureGroupCookie persists a freshly generated browser group ID. Only the
// part before the first ":" belongs to the browser.
func (h *liveHandler) ensureGroupCookie(w http.ResponseWriter, r *http.Request, groupID string) {
	switch h.config.Authenticator.(type) {
	case *AnonymousAuthenticator, *ShopperAuthenticator:
	default:
		return
	}
	groupID, _, _ = strings.Cut(groupID, ":")
	if c, err := r.Cookie(GroupCookie); err == nil && c.Value == groupID {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     GroupCookie,
		Value:    groupID,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Later reads in this request see the new group.
	r.AddCookie(&http.Cookie{Name: GroupCookie, Value: groupID})
}

// session returns the page state of the group, building it on first use.
// Each page path of a group has its own state. Concurrent first requests
// for the same key share one build; other keys build in parallel.
func (h *liveHandler) session(r *http.Request, groupID, userID string) (*connState, bool, error) {
	key := groupID + ":" + r.URL.Path

	if v, ok := h.config.SessionStore.Get(key).(*connState); ok {
		return v, false, nil
	}

	v, err, _ := h.creating.Do(key, func() (interface{}, error) {
		if v, ok := h.config.SessionStore.Get(key).(*connState); ok {
			return builtState{state: v}, nil
		}
		store, err := h.factory(r, userID)
		if err != nil {
			return nil, err
		}
		if initializer, ok := store.(StoreInitializer); ok {
			if err := initializer.Init(r.Context()); err != nil {
				return nil, err
			}
		}

		state := &connState{store: store, errors: make(map[string]string)}
		h.config.SessionStore.Set(key, state)
		h.config.Metrics.IncrementSessionCreated()
		h.log.Debug("session created", zap.String("path", r.URL.Path), zap.Bool("merchant", userID != ""))
		return builtState{state: state, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	b := v.(builtState)
	return b.state, b.created, nil
}

type builtState struct {
	state   *connState
	created bool
}

func (h *liveHandler) handlePage(w http.ResponseWriter, r *http.Request, state *connState, created bool) {
	state.mu.Lock()
	defer state.mu.Unlock()

	// A reload always shows fresh data.
	if !created {
		if initializer, ok := state.store.(StoreInitializer); ok {
			if err := initializer.Init(r.Context()); err != nil {
				h.log.Warn("store refresh failed", zap.Error(err))
			}
		}
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, state.store, state.errors); err != nil {
		h.config.Metrics.IncrementRenderError()
		h.log.Error("render failed", zap.Error(err))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	h.config.Metrics.IncrementPageRendered()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *liveHandler) handlePost(w http.ResponseWriter, r *http.Request, state *connState, userID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageSize)
	msg, err := parseActionFromHTTP(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.apply(r.Context(), state, msg, userID)
	if err != nil {
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Warn("write response failed", zap.Error(err))
	}
}

func (h *liveHandler) handleWebSocket(w http.ResponseWriter, r *http.Request, state *connState, userID string) {
	conn, err := h.config.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	h.config.Metrics.WebSocketOpened()
	defer h.config.Metrics.WebSocketClosed()
	h.log.Debug("client connected", zap.String("remote", conn.RemoteAddr().String()))

	initial, err := h.render(state, "")
	if err != nil {
		return
	}
	if err := writeUpdateWebSocket(conn, initial); err != nil {
		h.log.Warn("initial send failed", zap.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket error", zap.Error(err))
			}
			break
		}

		msg, err := parseActionFromWebSocket(data)
		if err != nil {
			h.log.Warn("bad message", zap.Error(err))
			continue
		}

		response, err := h.apply(r.Context(), state, msg, userID)
		if err != nil {
			continue
		}
		if err := writeUpdateWebSocket(conn, response); err != nil {
			h.log.Warn("websocket write failed", zap.Error(err))
			break
		}
	}

	h.log.Debug("client disconnected")
}

// apply runs one action and renders the result.
func (h *liveHandler) apply(ctx context.Context, state *connState, msg message, userID string) (UpdateResponse, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	actx := &ActionContext{
		Action: msg.Action,
		Data:   newActionData(msg.Data),
		UserID: userID,
		ctx:    ctx,
	}

	h.config.Metrics.IncrementAction(msg.Action)
	err := state.store.Change(actx)
	state.errors = errorFields(err)
	if err != nil {
		h.config.Metrics.IncrementActionError()
		if _, general := state.errors[GeneralField]; general {
			h.log.Warn("action failed", zap.String("action", msg.Action), zap.Error(err))
		} else {
			h.log.Debug("action rejected", zap.String("action", msg.Action), zap.Error(err))
		}
	}

	response, renderErr := h.renderLocked(state, msg.Action)
	if renderErr != nil {
		return UpdateResponse{}, renderErr
	}
	response.Meta.Redirect = actx.redirect
	return response, nil
}

func (h *liveHandler) render(state *connState, action string) (UpdateResponse, error) {
	state.mu.Lock()
	defer state.mu.Unlock()
	return h.renderLocked(state, action)
}

func (h *liveHandler) renderLocked(state *connState, action string) (UpdateResponse, error) {
	html, err := h.template.Render(state.store, state.errors)
	if err != nil {
		h.config.Metrics.IncrementRenderError()
		h.log.Error("render failed", zap.String("action", action), zap.Error(err))
		return UpdateResponse{}, err
	}
	h.config.Metrics.IncrementPageRendered()

	errs := make(map[string]string, len(state.errors))
	for k, v := range state.errors {
		errs[k] = v
	}
	return UpdateResponse{
		HTML: html,
		Meta: &ResponseMetadata{
			Success: len(errs) == 0,
			Errors:  errs,
			Action:  action,
		},
	}, nil
}

// writeUpdateWebSocket writes an update to the WebSocket connection
func writeUpdateWebSocket(conn *websocket.Conn, update UpdateResponse) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
