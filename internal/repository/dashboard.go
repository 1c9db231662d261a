package repository

import (
	"context"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

type DashboardRepository struct {
	store docstore.Store
	gate  Gate
}

func NewDashboardRepository(store docstore.Store, gate Gate) *DashboardRepository {
	return &DashboardRepository{store: store, gate: gate}
}

// Stats fetches every family and member and counts them fresh on each call.
func (r *DashboardRepository) Stats(ctx context.Context) (view.Stats, error) {
	const op = "load dashboard"
	if err := checkGate(r.gate, op); err != nil {
		return view.Stats{}, err
	}

	families, err := r.store.Query(ctx, docstore.Query{Collection: model.CollectionFamilies})
	if err != nil {
		return view.Stats{}, wrap(op, err)
	}
	docs, err := r.store.Query(ctx, docstore.Query{Collection: model.CollectionMembers})
	if err != nil {
		return view.Stats{}, wrap(op, err)
	}
	members := make([]model.Member, 0, len(docs))
	for _, d := range docs {
		members = append(members, memberFromDoc(d))
	}
	return view.Dashboard(len(families), members), nil
}
