package lifecycle

import (
	"context"

	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

// The readers below project the working set as last loaded. They do not touch
// the store.

func (c *Controller) Families() []view.FamilyCard {
	return view.FamilyCards(c.cache.Families(), c.cache.Members(), c.now())
}

// FamiliesMatching applies the same name filter SearchFamilies renders.
func (c *Controller) FamiliesMatching(q string) []view.FamilyCard {
	q, ok := searchable(q)
	if !ok {
		q = ""
	}
	return view.FamilyCards(c.cache.SearchFamilies(q), c.cache.Members(), c.now())
}

func (c *Controller) Members() []view.MemberCard {
	return view.MemberCards(c.cache.Members(), c.now())
}

func (c *Controller) Requests() []view.RequestCard {
	return view.RequestCards(c.cache.Requests())
}

func (c *Controller) ZoneFilter() int {
	return c.cache.ZoneFilter()
}

func (c *Controller) StatusFilter() model.RequestStatus {
	return c.cache.StatusFilter()
}

// FamilyMembers lists the members of one family straight from the store.
func (c *Controller) FamilyMembers(ctx context.Context, familyID string) ([]view.MemberCard, error) {
	if _, err := c.repos.Families.GetByID(ctx, familyID); err != nil {
		return nil, c.fail("load family members", err)
	}
	members, err := c.repos.Members.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, c.fail("load family members", err)
	}
	return view.MemberCards(members, c.now()), nil
}

// MemberRequests lists the requests filed for one member, newest first.
func (c *Controller) MemberRequests(ctx context.Context, memberID string) ([]view.RequestCard, error) {
	if _, err := c.repos.Members.GetByID(ctx, memberID); err != nil {
		return nil, c.fail("load member requests", err)
	}
	requests, err := c.repos.Requests.ListByMember(ctx, memberID)
	if err != nil {
		return nil, c.fail("load member requests", err)
	}
	return view.RequestCards(requests), nil
}
