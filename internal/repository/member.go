package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

type MemberRepository struct {
	store docstore.Store
	gate  Gate
	now   func() time.Time
}

func NewMemberRepository(store docstore.Store, gate Gate) *MemberRepository {
	return &MemberRepository{store: store, gate: gate, now: time.Now}
}

// List returns every member ordered by name.
func (r *MemberRepository) List(ctx context.Context) ([]model.Member, error) {
	return r.list(ctx, "load members", nil)
}

// ListByFamily returns the members of one family ordered by name.
func (r *MemberRepository) ListByFamily(ctx context.Context, familyID string) ([]model.Member, error) {
	return r.list(ctx, "load family members", []docstore.Filter{{Field: "familyId", Value: familyID}})
}

// Search fetches the full member set and keeps those whose name contains q
// (ignoring case) or whose phone number contains q.
func (r *MemberRepository) Search(ctx context.Context, q string) ([]model.Member, error) {
	all, err := r.list(ctx, "search members", nil)
	if err != nil {
		return nil, err
	}
	var out []model.Member
	for _, m := range all {
		if m.Matches(q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemberRepository) list(ctx context.Context, op string, where []docstore.Filter) ([]model.Member, error) {
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: model.CollectionMembers,
		Where:      where,
		OrderBy:    "name",
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	members := make([]model.Member, 0, len(docs))
	for _, d := range docs {
		members = append(members, memberFromDoc(d))
	}
	return members, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*model.Member, error) {
	const op = "load member"
	if err := checkGate(r.gate, op); err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, model.CollectionMembers, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	m := memberFromDoc(*doc)
	return &m, nil
}

func (r *MemberRepository) Create(ctx context.Context, in model.MemberInput) (string, error) {
	const op = "save member"
	if err := checkGate(r.gate, op); err != nil {
		return "", err
	}
	in = in.Normalize()
	if err := in.Validate(r.now()); err != nil {
		return "", err
	}
	if err := r.requireFamily(ctx, op, in.FamilyID); err != nil {
		return "", err
	}

	fields := memberFields(in)
	now := docstore.FormatTime(r.now())
	fields["createdAt"] = now
	fields["updatedAt"] = now

	id, err := r.store.Add(ctx, model.CollectionMembers, fields)
	if err != nil {
		return "", wrap(op, err)
	}
	return id, nil
}

func (r *MemberRepository) Update(ctx context.Context, id string, in model.MemberInput) error {
	const op = "update member"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}
	in = in.Normalize()
	if err := in.Validate(r.now()); err != nil {
		return err
	}
	if err := r.requireFamily(ctx, op, in.FamilyID); err != nil {
		return err
	}

	fields := memberFields(in)
	fields["updatedAt"] = docstore.FormatTime(r.now())
	return wrap(op, r.store.Update(ctx, model.CollectionMembers, id, fields))
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	const op = "delete member"
	if err := checkGate(r.gate, op); err != nil {
		return err
	}
	return wrap(op, r.store.Delete(ctx, model.CollectionMembers, id))
}

func (r *MemberRepository) requireFamily(ctx context.Context, op, familyID string) error {
	_, err := r.store.Get(ctx, model.CollectionFamilies, familyID)
	if errors.Is(err, docstore.ErrNotFound) {
		return model.ValidationError{Field: "familyId", Message: "family does not exist"}
	}
	return wrap(op, err)
}
