package view

import "github.com/dukerupert/wardbook/internal/model"

type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionReject   Action = "reject"
)

// Target is the status an action moves a request to.
func (a Action) Target() model.RequestStatus {
	switch a {
	case ActionStart:
		return model.StatusInProgress
	case ActionComplete:
		return model.StatusCompleted
	case ActionReject:
		return model.StatusRejected
	}
	return ""
}

// Actions lists the buttons offered for a request in status s.
func Actions(s model.RequestStatus) []Action {
	switch s {
	case model.StatusPending:
		return []Action{ActionStart, ActionComplete, ActionReject}
	case model.StatusInProgress:
		return []Action{ActionComplete}
	}
	return nil
}

type RequestCard struct {
	model.Request
	Actions []Action `json:"actions"`
}

func RequestCards(requests []model.Request) []RequestCard {
	cards := make([]RequestCard, 0, len(requests))
	for _, r := range requests {
		cards = append(cards, RequestCard{Request: r, Actions: Actions(r.Status)})
	}
	return cards
}

// GroupByStatus buckets requests for the filter tabs, keeping input order
// within each bucket.
func GroupByStatus(requests []model.Request) map[model.RequestStatus][]model.Request {
	groups := make(map[model.RequestStatus][]model.Request, len(model.RequestStatuses))
	for _, s := range model.RequestStatuses {
		groups[s] = nil
	}
	for _, r := range requests {
		groups[r.Status] = append(groups[r.Status], r)
	}
	return groups
}
