package view

import (
	"testing"

	"github.com/dukerupert/wardbook/internal/model"
)

func TestActions(t *testing.T) {
	if got := Actions(model.StatusPending); len(got) != 3 {
		t.Errorf("pending actions = %v", got)
	}
	if got := Actions(model.StatusInProgress); len(got) != 1 || got[0] != ActionComplete {
		t.Errorf("in progress actions = %v", got)
	}
	for _, s := range []model.RequestStatus{model.StatusCompleted, model.StatusRejected} {
		if got := Actions(s); len(got) != 0 {
			t.Errorf("%s actions = %v, want none", s, got)
		}
	}
}

func TestActionTargetsAreValidTransitions(t *testing.T) {
	for _, s := range model.RequestStatuses {
		for _, a := range Actions(s) {
			if !s.CanTransitionTo(a.Target()) {
				t.Errorf("action %s offered on %s leads to invalid %s", a, s, a.Target())
			}
		}
	}
}

func TestRequestCardsAndGrouping(t *testing.T) {
	reqs := []model.Request{
		{ID: "1", Status: model.StatusPending},
		{ID: "2", Status: model.StatusCompleted},
		{ID: "3", Status: model.StatusPending},
	}
	cards := RequestCards(reqs)
	if len(cards) != 3 || len(cards[1].Actions) != 0 {
		t.Errorf("cards = %+v", cards)
	}

	groups := GroupByStatus(reqs)
	if len(groups) != 4 {
		t.Errorf("got %d groups, want 4", len(groups))
	}
	if p := groups[model.StatusPending]; len(p) != 2 || p[0].ID != "1" || p[1].ID != "3" {
		t.Errorf("pending group = %+v", p)
	}
	if len(groups[model.StatusRejected]) != 0 {
		t.Errorf("rejected group = %+v", groups[model.StatusRejected])
	}
}
