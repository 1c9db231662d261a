package lifecycle

import (
	"context"

	"github.com/dukerupert/wardbook/internal/repository"
	"github.com/dukerupert/wardbook/internal/view"
)

// Each load replaces its cache slot only on success; on failure the user is
// notified and the previous contents stay.

func (c *Controller) LoadDashboard(ctx context.Context) error {
	_, err := c.Dashboard(ctx)
	return err
}

// Dashboard recomputes the summary counts, renders them, and returns them.
func (c *Controller) Dashboard(ctx context.Context) (view.Stats, error) {
	stats, err := c.repos.Dashboard.Stats(ctx)
	if err != nil {
		return view.Stats{}, c.fail("load dashboard", err)
	}
	c.presenter.RenderDashboard(stats)
	return stats, nil
}

// LoadFamilies reloads the families under the current zone filter along with
// the members their cards list.
func (c *Controller) LoadFamilies(ctx context.Context) error {
	families, err := c.repos.Families.List(ctx, repository.FamilyFilter{Zone: c.cache.ZoneFilter()})
	if err != nil {
		return c.fail("load families", err)
	}
	members, err := c.repos.Members.List(ctx)
	if err != nil {
		return c.fail("load families", err)
	}
	c.cache.SetFamilies(families)
	c.cache.SetMembers(members)
	c.presenter.RenderFamilies(view.FamilyCards(families, members, c.now()))
	return nil
}

func (c *Controller) LoadMembers(ctx context.Context) error {
	members, err := c.repos.Members.List(ctx)
	if err != nil {
		return c.fail("load members", err)
	}
	c.cache.SetMembers(members)
	c.presenter.RenderMembers(view.MemberCards(members, c.now()))
	return nil
}

func (c *Controller) LoadRequests(ctx context.Context) error {
	requests, err := c.repos.Requests.List(ctx, repository.RequestFilter{Status: c.cache.StatusFilter()})
	if err != nil {
		return c.fail("load requests", err)
	}
	c.cache.SetRequests(requests)
	c.presenter.RenderRequests(view.RequestCards(requests))
	return nil
}
