package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dukerupert/wardbook/internal/auth"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("families", "query", 3*time.Millisecond, nil)
	m.ObserveOperation("families", "query", 5*time.Millisecond, nil)
	m.ObserveOperation("families", "query", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("families", "query", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("families", "query", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.storeDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestObserveSlotSizeAndTransition(t *testing.T) {
	m := New()

	m.ObserveSlotSize("members", 12)
	m.ObserveSlotSize("members", 7)
	m.ObserveTransition(auth.Transition{From: auth.StateSignedOut, To: auth.StateSignedIn})

	if got := testutil.ToFloat64(m.slotSize.WithLabelValues("members")); got != 7 {
		t.Errorf("members slot = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.authTransition.WithLabelValues("SIGNED_IN")); got != 1 {
		t.Errorf("signed in transitions = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveSlotSize("families", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `wardbook_cache_slot_size{slot="families"} 3`) {
		t.Errorf("metrics output missing slot gauge:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing go runtime collector")
	}
}
