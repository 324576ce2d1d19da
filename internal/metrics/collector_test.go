package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()

	if collector == nil {
		t.Fatal("NewCollector() returned nil")
	}

	if collector.storefrontMetrics == nil {
		t.Fatal("storefrontMetrics not initialized")
	}

	if collector.actionCounters == nil {
		t.Fatal("actionCounters not initialized")
	}

	metrics := collector.GetMetrics()
	if metrics.ActionsHandled != 0 || metrics.ActiveSessions != 0 {
		t.Errorf("expected zero counters, got %+v", metrics)
	}
}

func TestSessionMetrics(t *testing.T) {
	collector := NewCollector()

	collector.IncrementSessionCreated()
	collector.IncrementSessionCreated()
	collector.IncrementSessionCreated()

	metrics := collector.GetMetrics()
	if metrics.SessionsCreated != 3 {
		t.Errorf("Expected 3 sessions created, got %d", metrics.SessionsCreated)
	}
	if metrics.MaxConcurrentSessions != 3 {
		t.Errorf("Expected max concurrent 3, got %d", metrics.MaxConcurrentSessions)
	}

	collector.AddSessionsExpired(2)
	collector.IncrementSessionCreated()

	metrics = collector.GetMetrics()
	if metrics.ActiveSessions != 2 {
		t.Errorf("Expected 2 active sessions, got %d", metrics.ActiveSessions)
	}
	if metrics.SessionsExpired != 2 {
		t.Errorf("Expected 2 expired sessions, got %d", metrics.SessionsExpired)
	}
	if metrics.MaxConcurrentSessions != 3 {
		t.Errorf("Max concurrent should stay 3, got %d", metrics.MaxConcurrentSessions)
	}
}

func TestWebSocketMetrics(t *testing.T) {
	collector := NewCollector()

	collector.WebSocketOpened()
	collector.WebSocketOpened()
	collector.WebSocketClosed()

	metrics := collector.GetMetrics()
	if metrics.WebSocketsOpened != 2 {
		t.Errorf("Expected 2 opened, got %d", metrics.WebSocketsOpened)
	}
	if metrics.WebSocketConnections != 1 {
		t.Errorf("Expected 1 open connection, got %d", metrics.WebSocketConnections)
	}
}

func TestActionMetrics(t *testing.T) {
	collector := NewCollector()

	collector.IncrementAction("add_to_cart")
	collector.IncrementAction("add_to_cart")
	collector.IncrementAction("checkout")
	collector.IncrementActionError()
	collector.IncrementCheckout()

	counters := collector.GetActionCounters()
	if counters["add_to_cart"] != 2 {
		t.Errorf("Expected 2 add_to_cart, got %d", counters["add_to_cart"])
	}
	if counters["checkout"] != 1 {
		t.Errorf("Expected 1 checkout action, got %d", counters["checkout"])
	}

	rate := collector.GetErrorRate()
	if rate < 33.3 || rate > 33.4 {
		t.Errorf("Expected error rate ~33.3%%, got %f", rate)
	}

	if got := collector.GetMetrics().Checkouts; got != 1 {
		t.Errorf("Expected 1 checkout, got %d", got)
	}
}

func TestTokenSuccessRate(t *testing.T) {
	collector := NewCollector()

	if rate := collector.GetTokenSuccessRate(); rate != 100.0 {
		t.Errorf("Expected 100%% with no operations, got %f", rate)
	}

	collector.IncrementTokenVerified()
	collector.IncrementTokenVerified()
	collector.IncrementTokenVerified()
	collector.IncrementTokenFailure()

	if rate := collector.GetTokenSuccessRate(); rate != 75.0 {
		t.Errorf("Expected 75%%, got %f", rate)
	}
}

func TestReset(t *testing.T) {
	collector := NewCollector()

	collector.IncrementSessionCreated()
	collector.IncrementAction("search")
	collector.IncrementCheckout()
	collector.Reset()

	metrics := collector.GetMetrics()
	if metrics.SessionsCreated != 0 || metrics.Checkouts != 0 || metrics.ActionsHandled != 0 {
		t.Errorf("Expected zero counters after reset, got %+v", metrics)
	}
	if len(collector.GetActionCounters()) != 0 {
		t.Error("Expected action counters to be cleared")
	}
}

func TestConcurrentAccess(t *testing.T) {
	collector := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.IncrementAction("search")
				collector.IncrementPageRendered()
			}
		}()
	}
	wg.Wait()

	if got := collector.GetActionCounters()["search"]; got != 5000 {
		t.Errorf("Expected 5000 search actions, got %d", got)
	}
	if got := collector.GetMetrics().PagesRendered; got != 5000 {
		t.Errorf("Expected 5000 renders, got %d", got)
	}
}

func TestHandler(t *testing.T) {
	collector := NewCollector()
	collector.IncrementAction("checkout")
	collector.IncrementCheckout()

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Metrics.Checkouts != 1 || snap.Actions["checkout"] != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
