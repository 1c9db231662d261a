package repository

import (
	"context"
	"time"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

// FamilyFilter narrows a family listing. Zone 0 means every zone.
type FamilyFilter struct {
	Zone int
}

type FamilyRepository struct {
	store docstore.Store
	gate  Gate
	now   func() time.Time
}

func NewFamilyRepository(store docstore.Store, gate Gate) *FamilyRepository {
	return &FamilyRepository{store: store, gate: gate, now: time.Now}
}

// List returns families ordered by name, optionally restricted to one zone.
func (r *FamilyRepository) List(ctx context.Context, filter FamilyFilter) ([]model.Family, error) {
	const op = "load families"
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}

	q := docstore.Query{Collection: model.CollectionFamilies, OrderBy: "familyName"}
	if filter.Zone > 0 {
		q.Where = []docstore.Filter{{Field: "zone", Value: filter.Zone}}
	}
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, wrap(op, err)
	}

	families := make([]model.Family, 0, len(docs))
	for _, d := range docs {
		families = append(families, familyFromDoc(d))
	}
	return families, nil
}

func (r *FamilyRepository) GetByID(ctx context.Context, id string) (*model.Family, error) {
	const op = "load family"
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, model.CollectionFamilies, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	f := familyFromDoc(*doc)
	return &f, nil
}

func (r *FamilyRepository) Create(ctx context.Context, in model.FamilyInput) (string, error) {
	const op = "save family"
	if err := checkGate(r.gate, op); err != nil {
		return "", err
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}

	fields := familyFields(in)
	now := docstore.FormatTime(r.now())
	fields["createdAt"] = now
	fields["updatedAt"] = now

	id, err := r.store.Add(ctx, model.CollectionFamilies, fields)
	if err != nil {
		return "", wrap(op, err)
	}
	return id, nil
}

func (r *FamilyRepository) Update(ctx context.Context, id string, in model.FamilyInput) error {
	const op = "update family"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	fields := familyFields(in)
	fields["updatedAt"] = docstore.FormatTime(r.now())
	return wrap(op, r.store.Update(ctx, model.CollectionFamilies, id, fields))
}

// Delete removes the family and every member whose familyId points at it in
// one commit. If any part fails nothing is removed.
func (r *FamilyRepository) Delete(ctx context.Context, id string) error {
	const op = "delete family"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}

	uow, err := r.store.Begin(ctx)
	if err != nil {
		return wrap(op, err)
	}
	defer uow.Rollback()

	members, err := uow.Query(ctx, docstore.Query{
		Collection: model.CollectionMembers,
		Where:      []docstore.Filter{{Field: "familyId", Value: id}},
	})
	if err != nil {
		return wrap(op, err)
	}
	for _, m := range members {
		uow.Delete(model.CollectionMembers, m.ID)
	}
	uow.Delete(model.CollectionFamilies, id)

	return wrap(op, uow.Commit(ctx))
}
