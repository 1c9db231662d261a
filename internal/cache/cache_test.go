package cache

import (
	"sync"
	"testing"

	"github.com/dukerupert/wardbook/internal/model"
)

type sizeRecorder struct {
	mu    sync.Mutex
	sizes map[string]int
}

func (r *sizeRecorder) ObserveSlotSize(slot string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sizes == nil {
		r.sizes = map[string]int{}
	}
	r.sizes[slot] = n
}

func TestSettersReplaceWholesale(t *testing.T) {
	obs := &sizeRecorder{}
	w := New(obs)

	w.SetFamilies([]model.Family{{ID: "a"}, {ID: "b"}})
	w.SetFamilies([]model.Family{{ID: "c"}})

	got := w.Families()
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("families = %v, want only c", got)
	}
	if obs.sizes[SlotFamilies] != 1 {
		t.Errorf("observed size = %d, want 1", obs.sizes[SlotFamilies])
	}
}

func TestReadsReturnCopies(t *testing.T) {
	w := New(nil)
	in := []model.Member{{ID: "m1", Name: "Asha"}}
	w.SetMembers(in)
	in[0].Name = "changed"

	out := w.Members()
	if out[0].Name != "Asha" {
		t.Errorf("setter kept caller's slice: %q", out[0].Name)
	}
	out[0].Name = "mutated"
	if w.Members()[0].Name != "Asha" {
		t.Error("reader mutated the cache")
	}
}

func TestClear(t *testing.T) {
	obs := &sizeRecorder{}
	w := New(obs)
	w.SetFamilies([]model.Family{{ID: "f"}})
	w.SetMembers([]model.Member{{ID: "m"}})
	w.SetRequests([]model.Request{{ID: "r"}})
	w.SetZoneFilter(3)
	w.SetStatusFilter(model.StatusPending)

	w.Clear()

	if len(w.Families()) != 0 || len(w.Members()) != 0 || len(w.Requests()) != 0 {
		t.Error("slots not empty after Clear")
	}
	if w.ZoneFilter() != 0 || w.StatusFilter() != "" {
		t.Errorf("filters = %d, %q after Clear", w.ZoneFilter(), w.StatusFilter())
	}
	for _, slot := range []string{SlotFamilies, SlotMembers, SlotRequests} {
		if obs.sizes[slot] != 0 {
			t.Errorf("%s size = %d after Clear", slot, obs.sizes[slot])
		}
	}
}

func TestSearch(t *testing.T) {
	w := New(nil)
	w.SetFamilies([]model.Family{{Name: "Abraham"}, {Name: "Menon"}})
	w.SetMembers([]model.Member{{Name: "Asha", Phone: "9847"}, {Name: "Ravi", Phone: "9495"}})

	if got := w.SearchFamilies("men"); len(got) != 1 || got[0].Name != "Menon" {
		t.Errorf("family search = %v", got)
	}
	if got := w.SearchMembers("949"); len(got) != 1 || got[0].Name != "Ravi" {
		t.Errorf("member search = %v", got)
	}
	if got := w.SearchMembers(""); len(got) != 2 {
		t.Errorf("empty search = %d, want 2", len(got))
	}
}

func TestConcurrentSetters(t *testing.T) {
	w := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			reqs := make([]model.Request, n)
			w.SetRequests(reqs)
			_ = w.Requests()
		}(i)
	}
	wg.Wait()
	if n := len(w.Requests()); n < 0 || n >= 20 {
		t.Errorf("requests len = %d", n)
	}
}
