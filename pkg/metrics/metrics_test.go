package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", 200, time.Millisecond)
	c.ObserveRequest("GET", 200, time.Millisecond)
	c.ObserveRequest("POST", 500, time.Millisecond)
	c.ObserveBalanceQuery("single", nil)
	c.ObserveBalanceQuery("single", errors.New("boom"))
	c.ObserveDial(nil)

	if v := testutil.ToFloat64(c.Requests.WithLabelValues("GET", "200")); v != 2 {
		t.Errorf("expected 2 GET requests, have: %v", v)
	}
	if v := testutil.ToFloat64(c.Requests.WithLabelValues("POST", "500")); v != 1 {
		t.Errorf("expected 1 failed POST, have: %v", v)
	}
	if v := testutil.ToFloat64(c.BalanceQueries.WithLabelValues("single", "error")); v != 1 {
		t.Errorf("expected 1 failed query, have: %v", v)
	}
	if v := testutil.ToFloat64(c.NodeDials.WithLabelValues("ok")); v != 1 {
		t.Errorf("expected 1 dial, have: %v", v)
	}
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.ObserveRequest("GET", 200, time.Second)
	c.ObserveBalanceQuery("all", nil)
	c.ObserveDial(nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("expected 404 from a nil collector, have: %d", rec.Code)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveDial(nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `walletclient_balance_node_dials_total{result="ok"} 1`) {
		t.Errorf("dial counter is missing from the exposition:\n%s", body)
	}
}
