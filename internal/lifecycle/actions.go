package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	c.presenter.SetSubmitEnabled(FormLogin, false)
	defer c.presenter.SetSubmitEnabled(FormLogin, true)

	if err := c.gate.SignIn(ctx, email, password); err != nil {
		return c.fail("sign in", err)
	}
	return nil
}

func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.gate.SignOut(ctx); err != nil {
		return c.fail("sign out", err)
	}
	return nil
}

// SetZoneFilter changes the families zone filter. The list reloads only
// while the families section is showing.
func (c *Controller) SetZoneFilter(ctx context.Context, zone int) error {
	if zone < 0 || zone > model.MaxZone {
		return c.fail("filter families", model.ValidationError{
			Field:   "zone",
			Message: fmt.Sprintf("zone must be between 1 and %d", model.MaxZone),
		})
	}
	c.cache.SetZoneFilter(zone)
	if c.Section() == SectionFamilies {
		return c.LoadFamilies(ctx)
	}
	return nil
}

// SetStatusFilter changes the request tab and reloads while requests are
// showing.
func (c *Controller) SetStatusFilter(ctx context.Context, status model.RequestStatus) error {
	c.cache.SetStatusFilter(status)
	if c.Section() == SectionRequests {
		return c.LoadRequests(ctx)
	}
	return nil
}

func searchable(q string) (string, bool) {
	q = strings.TrimSpace(q)
	return q, q == "" || utf8.RuneCountInString(q) >= minSearchLen
}

// SearchFamilies filters the cached families by name. One-character queries
// are ignored and an empty query shows everything again.
func (c *Controller) SearchFamilies(q string) {
	q, ok := searchable(q)
	if !ok {
		return
	}
	c.presenter.RenderFamilies(view.FamilyCards(c.cache.SearchFamilies(q), c.cache.Members(), c.now()))
}

// SearchMembers searches members by name or phone. An empty query reloads
// the full list.
func (c *Controller) SearchMembers(ctx context.Context, q string) error {
	_, err := c.SearchMemberCards(ctx, q)
	return err
}

// SearchMemberCards is SearchMembers returning what it rendered. An ignored
// query returns the cached list unchanged.
func (c *Controller) SearchMemberCards(ctx context.Context, q string) ([]view.MemberCard, error) {
	q, ok := searchable(q)
	if !ok {
		return c.Members(), nil
	}
	if q == "" {
		if err := c.LoadMembers(ctx); err != nil {
			return nil, err
		}
		return c.Members(), nil
	}
	members, err := c.repos.Members.Search(ctx, q)
	if err != nil {
		return nil, c.fail("search members", err)
	}
	cards := view.MemberCards(members, c.now())
	c.presenter.RenderMembers(cards)
	return cards, nil
}

// SearchPeople feeds the request form's person picker.
func (c *Controller) SearchPeople(ctx context.Context, q string) ([]model.Member, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minSearchLen {
		c.presenter.RenderPeople(nil)
		return nil, nil
	}
	members, err := c.repos.Members.Search(ctx, q)
	if err != nil {
		return nil, c.fail("search people", err)
	}
	c.presenter.RenderPeople(members)
	return members, nil
}

func (c *Controller) RunQuery(ctx context.Context, kind view.QueryKind) (view.QueryResult, error) {
	members, err := c.repos.Members.List(ctx)
	if err != nil {
		return view.QueryResult{}, c.fail("run query", err)
	}
	res, err := view.Query(kind, members, c.now())
	if err != nil {
		return view.QueryResult{}, c.fail("run query", err)
	}
	c.presenter.RenderQuery(res)
	return res, nil
}

func (c *Controller) RunOccupationQuery(ctx context.Context, occupation string) (view.QueryResult, error) {
	if strings.TrimSpace(occupation) == "" {
		return view.QueryResult{}, c.fail("run query", model.ValidationError{Field: "occupation", Message: "Please enter an occupation"})
	}
	members, err := c.repos.Members.List(ctx)
	if err != nil {
		return view.QueryResult{}, c.fail("run query", err)
	}
	res, err := view.OccupationQuery(occupation, members, c.now())
	if err != nil {
		return view.QueryResult{}, c.fail("run query", err)
	}
	c.presenter.RenderQuery(res)
	return res, nil
}

func (c *Controller) NewFamily() {
	c.presenter.OpenModal(FormFamily, nil)
}

// EditFamily opens the family form filled with the stored family.
func (c *Controller) EditFamily(ctx context.Context, id string) (*model.Family, error) {
	f, err := c.repos.Families.GetByID(ctx, id)
	if err != nil {
		return nil, c.fail("edit family", err)
	}
	c.presenter.OpenModal(FormFamily, f)
	return f, nil
}

// NewMember opens the member form, preselecting familyID when given.
func (c *Controller) NewMember(familyID string) {
	c.presenter.OpenModal(FormMember, model.MemberInput{FamilyID: familyID})
}

func (c *Controller) EditMember(ctx context.Context, id string) (*model.Member, error) {
	m, err := c.repos.Members.GetByID(ctx, id)
	if err != nil {
		return nil, c.fail("edit member", err)
	}
	c.presenter.OpenModal(FormMember, m)
	return m, nil
}

func (c *Controller) NewRequest() {
	c.presenter.RenderPeople(nil)
	c.presenter.OpenModal(FormRequest, nil)
}

// afterRegisterChange refreshes every view a family or member edit can
// affect.
func (c *Controller) afterRegisterChange(ctx context.Context) {
	c.LoadFamilies(ctx)
	c.LoadMembers(ctx)
	c.LoadDashboard(ctx)
}

// SaveFamily creates the family when id is empty and updates it otherwise.
func (c *Controller) SaveFamily(ctx context.Context, id string, in model.FamilyInput) (string, error) {
	msg := "Family updated successfully"
	var err error
	if id == "" {
		msg = "Family added successfully"
		id, err = c.repos.Families.Create(ctx, in)
	} else {
		err = c.repos.Families.Update(ctx, id, in)
	}
	if err != nil {
		return "", c.fail("save family", err)
	}
	c.succeed(msg)
	c.presenter.CloseModal(FormFamily)
	c.afterRegisterChange(ctx)
	return id, nil
}

// DeleteFamily removes a family together with all of its members.
func (c *Controller) DeleteFamily(ctx context.Context, id string) error {
	if err := c.repos.Families.Delete(ctx, id); err != nil {
		return c.fail("delete family", err)
	}
	c.succeed("Family deleted successfully")
	c.afterRegisterChange(ctx)
	return nil
}

func (c *Controller) SaveMember(ctx context.Context, id string, in model.MemberInput) (string, error) {
	msg := "Member updated successfully"
	var err error
	if id == "" {
		msg = "Member added successfully"
		id, err = c.repos.Members.Create(ctx, in)
	} else {
		err = c.repos.Members.Update(ctx, id, in)
	}
	if err != nil {
		return "", c.fail("save member", err)
	}
	c.succeed(msg)
	c.presenter.CloseModal(FormMember)
	c.afterRegisterChange(ctx)
	return id, nil
}

func (c *Controller) DeleteMember(ctx context.Context, id string) error {
	if err := c.repos.Members.Delete(ctx, id); err != nil {
		return c.fail("delete member", err)
	}
	c.succeed("Member deleted successfully")
	c.afterRegisterChange(ctx)
	return nil
}

func (c *Controller) SubmitRequest(ctx context.Context, in model.RequestInput) (string, error) {
	id, err := c.repos.Requests.Create(ctx, in)
	if err != nil {
		return "", c.fail("submit request", err)
	}
	c.succeed("Request submitted successfully")
	c.presenter.CloseModal(FormRequest)
	c.LoadRequests(ctx)
	return id, nil
}

func (c *Controller) UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus, notes string) error {
	if err := c.repos.Requests.UpdateStatus(ctx, id, status, notes); err != nil {
		return c.fail("update request", err)
	}
	c.succeed("Request status updated")
	c.LoadRequests(ctx)
	return nil
}

func (c *Controller) UpdateRequest(ctx context.Context, id, description, notes string) error {
	if err := c.repos.Requests.Update(ctx, id, description, notes); err != nil {
		return c.fail("update request", err)
	}
	c.succeed("Request updated successfully")
	c.presenter.CloseModal(FormRequest)
	c.LoadRequests(ctx)
	return nil
}

func (c *Controller) DeleteRequest(ctx context.Context, id string) error {
	if err := c.repos.Requests.Delete(ctx, id); err != nil {
		return c.fail("delete request", err)
	}
	c.succeed("Request deleted successfully")
	c.LoadRequests(ctx)
	return nil
}
