package repository

import (
	"context"
	"strings"
	"time"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

// RequestFilter narrows a request listing. An empty Status means all.
type RequestFilter struct {
	Status model.RequestStatus
}

type RequestRepository struct {
	store docstore.Store
	gate  Gate
	now   func() time.Time
}

func NewRequestRepository(store docstore.Store, gate Gate) *RequestRepository {
	return &RequestRepository{store: store, gate: gate, now: time.Now}
}

// List returns requests newest first.
func (r *RequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.Request, error) {
	var where []docstore.Filter
	if filter.Status != "" {
		where = []docstore.Filter{{Field: "status", Value: string(filter.Status)}}
	}
	return r.list(ctx, "load requests", where)
}

func (r *RequestRepository) ListByMember(ctx context.Context, memberID string) ([]model.Request, error) {
	return r.list(ctx, "load member requests", []docstore.Filter{{Field: "memberId", Value: memberID}})
}

func (r *RequestRepository) list(ctx context.Context, op string, where []docstore.Filter) ([]model.Request, error) {
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: model.CollectionRequests,
		Where:      where,
		OrderBy:    "requestDate",
		Descending: true,
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	requests := make([]model.Request, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, requestFromDoc(d))
	}
	return requests, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*model.Request, error) {
	const op = "load request"
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, model.CollectionRequests, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	req := requestFromDoc(*doc)
	return &req, nil
}

// Create records a new PENDING request for the selected member, copying the
// member's name and phone onto the request.
func (r *RequestRepository) Create(ctx context.Context, in model.RequestInput) (string, error) {
	const op = "submit request"
	if err := checkGate(r.gate, op); err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}

	doc, err := r.store.Get(ctx, model.CollectionMembers, strings.TrimSpace(in.MemberID))
	if err != nil {
		return "", wrap(op, err)
	}
	member := memberFromDoc(*doc)

	id, err := r.store.Add(ctx, model.CollectionRequests, map[string]any{
		"memberId":           member.ID,
		"memberName":         member.Name,
		"memberPhone":        member.Phone,
		"requestDescription": strings.TrimSpace(in.Description),
		"status":             string(model.StatusPending),
		"notes":              "",
		"requestDate":        docstore.FormatTime(r.now()),
		"completedDate":      nil,
	})
	if err != nil {
		return "", wrap(op, err)
	}
	return id, nil
}

// UpdateStatus moves a request to status and replaces its notes. The
// completion date is stamped exactly when the new status is terminal.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status model.RequestStatus, notes string) error {
	const op = "update request status"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}

	doc, err := r.store.Get(ctx, model.CollectionRequests, id)
	if err != nil {
		return wrap(op, err)
	}
	current := model.RequestStatus(str(doc.Fields, "status"))
	if !current.CanTransitionTo(status) {
		return model.ValidationError{
			Field:   "status",
			Message: "cannot move request from " + string(current) + " to " + string(status),
		}
	}

	fields := map[string]any{
		"status":        string(status),
		"notes":         strings.TrimSpace(notes),
		"completedDate": nil,
	}
	if status.Terminal() {
		fields["completedDate"] = docstore.FormatTime(r.now())
	}
	return wrap(op, r.store.Update(ctx, model.CollectionRequests, id, fields))
}

// Update edits the description and notes without touching status.
func (r *RequestRepository) Update(ctx context.Context, id, description, notes string) error {
	const op = "update request"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return model.ValidationError{Field: "requestDescription", Message: "requestDescription is required"}
	}
	return wrap(op, r.store.Update(ctx, model.CollectionRequests, id, map[string]any{
		"requestDescription": description,
		"notes":              strings.TrimSpace(notes),
	}))
}

func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	const op = "delete request"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}
	return wrap(op, r.store.Delete(ctx, model.CollectionRequests, id))
}
