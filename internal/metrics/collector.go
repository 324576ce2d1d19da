package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	storefrontMetrics *StorefrontMetrics
	actionCounters    map[string]*int64
	mu                sync.RWMutex
	startTime         time.Time
}

// StorefrontMetrics tracks server-level counters
type StorefrontMetrics struct {
	// Sessions
	SessionsCreated       int64 `json:"sessions_created"`
	SessionsExpired       int64 `json:"sessions_expired"`
	ActiveSessions        int64 `json:"active_sessions"`
	MaxConcurrentSessions int64 `json:"max_concurrent_sessions"`

	// WebSocket connections
	WebSocketsOpened     int64 `json:"websockets_opened"`
	WebSocketConnections int64 `json:"websocket_connections"`

	// Actions and rendering
	ActionsHandled int64 `json:"actions_handled"`
	ActionErrors   int64 `json:"action_errors"`
	PagesRendered  int64 `json:"pages_rendered"`
	RenderErrors   int64 `json:"render_errors"`

	// Checkouts handed over to WhatsApp
	Checkouts int64 `json:"checkouts"`

	// Merchant tokens
	TokensVerified int64 `json:"tokens_verified"`
	TokenFailures  int64 `json:"token_failures"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		storefrontMetrics: &StorefrontMetrics{
			StartTime: time.Now(),
		},
		actionCounters: make(map[string]*int64),
		startTime:      time.Now(),
	}
}

// IncrementSessionCreated records a new session
func (c *Collector) IncrementSessionCreated() {
	atomic.AddInt64(&c.storefrontMetrics.SessionsCreated, 1)
	currentActive := atomic.AddInt64(&c.storefrontMetrics.ActiveSessions, 1)

	// Update max concurrent if needed
	for {
		max := atomic.LoadInt64(&c.storefrontMetrics.MaxConcurrentSessions)
		if currentActive <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.storefrontMetrics.MaxConcurrentSessions, max, currentActive) {
			break
		}
	}
}

// AddSessionsExpired records n sessions dropped by the janitor
func (c *Collector) AddSessionsExpired(n int64) {
	atomic.AddInt64(&c.storefrontMetrics.SessionsExpired, n)
	atomic.AddInt64(&c.storefrontMetrics.ActiveSessions, -n)
}

// WebSocketOpened records a new WebSocket connection
func (c *Collector) WebSocketOpened() {
	atomic.AddInt64(&c.storefrontMetrics.WebSocketsOpened, 1)
	atomic.AddInt64(&c.storefrontMetrics.WebSocketConnections, 1)
}

// WebSocketClosed records a closed WebSocket connection
func (c *Collector) WebSocketClosed() {
	atomic.AddInt64(&c.storefrontMetrics.WebSocketConnections, -1)
}

// IncrementAction records a handled action, also counted per name
func (c *Collector) IncrementAction(name string) {
	atomic.AddInt64(&c.storefrontMetrics.ActionsHandled, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.actionCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.actionCounters[name] = &newCounter
	}
}

// IncrementActionError records an action that returned an error
func (c *Collector) IncrementActionError() {
	atomic.AddInt64(&c.storefrontMetrics.ActionErrors, 1)
}

// IncrementPageRendered records a rendered page or update
func (c *Collector) IncrementPageRendered() {
	atomic.AddInt64(&c.storefrontMetrics.PagesRendered, 1)
}

// IncrementRenderError records a failed render
func (c *Collector) IncrementRenderError() {
	atomic.AddInt64(&c.storefrontMetrics.RenderErrors, 1)
}

// IncrementCheckout records a checkout redirected to WhatsApp
func (c *Collector) IncrementCheckout() {
	atomic.AddInt64(&c.storefrontMetrics.Checkouts, 1)
}

// IncrementTokenVerified records a successful token verification
func (c *Collector) IncrementTokenVerified() {
	atomic.AddInt64(&c.storefrontMetrics.TokensVerified, 1)
}

// IncrementTokenFailure records a token verification failure
func (c *Collector) IncrementTokenFailure() {
	atomic.AddInt64(&c.storefrontMetrics.TokenFailures, 1)
}

// GetMetrics returns current metrics
func (c *Collector) GetMetrics() StorefrontMetrics {
	c.mu.RLock()
	start := c.startTime
	startTime := c.storefrontMetrics.StartTime
	c.mu.RUnlock()

	// Return a copy with current atomic values
	return StorefrontMetrics{
		SessionsCreated:       atomic.LoadInt64(&c.storefrontMetrics.SessionsCreated),
		SessionsExpired:       atomic.LoadInt64(&c.storefrontMetrics.SessionsExpired),
		ActiveSessions:        atomic.LoadInt64(&c.storefrontMetrics.ActiveSessions),
		MaxConcurrentSessions: atomic.LoadInt64(&c.storefrontMetrics.MaxConcurrentSessions),
		WebSocketsOpened:      atomic.LoadInt64(&c.storefrontMetrics.WebSocketsOpened),
		WebSocketConnections:  atomic.LoadInt64(&c.storefrontMetrics.WebSocketConnections),
		ActionsHandled:        atomic.LoadInt64(&c.storefrontMetrics.ActionsHandled),
		ActionErrors:          atomic.LoadInt64(&c.storefrontMetrics.ActionErrors),
		PagesRendered:         atomic.LoadInt64(&c.storefrontMetrics.PagesRendered),
		RenderErrors:          atomic.LoadInt64(&c.storefrontMetrics.RenderErrors),
		Checkouts:             atomic.LoadInt64(&c.storefrontMetrics.Checkouts),
		TokensVerified:        atomic.LoadInt64(&c.storefrontMetrics.TokensVerified),
		TokenFailures:         atomic.LoadInt64(&c.storefrontMetrics.TokenFailures),
		StartTime:             startTime,
		Uptime:                time.Since(start),
	}
}

// GetActionCounters returns the per-action counters
func (c *Collector) GetActionCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range c.actionCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.storefrontMetrics.SessionsCreated, 0)
	atomic.StoreInt64(&c.storefrontMetrics.SessionsExpired, 0)
	atomic.StoreInt64(&c.storefrontMetrics.ActiveSessions, 0)
	atomic.StoreInt64(&c.storefrontMetrics.MaxConcurrentSessions, 0)
	atomic.StoreInt64(&c.storefrontMetrics.WebSocketsOpened, 0)
	atomic.StoreInt64(&c.storefrontMetrics.WebSocketConnections, 0)
	atomic.StoreInt64(&c.storefrontMetrics.ActionsHandled, 0)
	atomic.StoreInt64(&c.storefrontMetrics.ActionErrors, 0)
	atomic.StoreInt64(&c.storefrontMetrics.PagesRendered, 0)
	atomic.StoreInt64(&c.storefrontMetrics.RenderErrors, 0)
	atomic.StoreInt64(&c.storefrontMetrics.Checkouts, 0)
	atomic.StoreInt64(&c.storefrontMetrics.TokensVerified, 0)
	atomic.StoreInt64(&c.storefrontMetrics.TokenFailures, 0)

	c.actionCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.storefrontMetrics.StartTime = c.startTime
}

// GetErrorRate returns the percentage of actions that failed
func (c *Collector) GetErrorRate() float64 {
	handled := atomic.LoadInt64(&c.storefrontMetrics.ActionsHandled)
	errors := atomic.LoadInt64(&c.storefrontMetrics.ActionErrors)

	if handled == 0 {
		return 0.0
	}

	return float64(errors) / float64(handled) * 100.0
}

// GetTokenSuccessRate returns the success rate for token verification
func (c *Collector) GetTokenSuccessRate() float64 {
	verified := atomic.LoadInt64(&c.storefrontMetrics.TokensVerified)
	failures := atomic.LoadInt64(&c.storefrontMetrics.TokenFailures)

	total := verified + failures
	if total == 0 {
		return 100.0 // No operations means 100% success rate
	}

	return float64(verified) / float64(total) * 100.0
}

// Snapshot is the JSON document served at /metrics
type Snapshot struct {
	Metrics          StorefrontMetrics `json:"metrics"`
	Actions          map[string]int64  `json:"actions"`
	ErrorRate        float64           `json:"error_rate"`
	TokenSuccessRate float64           `json:"token_success_rate"`
}

// Snapshot captures every metric at once
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Metrics:          c.GetMetrics(),
		Actions:          c.GetActionCounters(),
		ErrorRate:        c.GetErrorRate(),
		TokenSuccessRate: c.GetTokenSuccessRate(),
	}
}

// Handler serves the snapshot as JSON
func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(c.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
