package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCollectors(t *testing.T) {
	m := New()

	m.SearchBranchFailures.WithLabelValues("brands").Inc()
	m.SearchBranchFailures.WithLabelValues("brands").Inc()
	if got := testutil.ToFloat64(m.SearchBranchFailures.WithLabelValues("brands")); got != 2 {
		t.Errorf("branch failures: got %v, want 2", got)
	}

	// Two instances must not collide; each owns its registry.
	_ = New()
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SearchCacheRequests.WithLabelValues("hit").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"indomart_search_cache_requests_total", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in exposition output", name)
		}
	}
}
