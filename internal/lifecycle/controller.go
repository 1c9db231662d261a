// Package lifecycle coordinates sign-in state, section navigation, data
// loads and mutations, and tells the presenter what to show.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/cache"
	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/repository"
)

type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionFamilies  Section = "families"
	SectionMembers   Section = "members"
	SectionQueries   Section = "queries"
	SectionRequests  Section = "requests"
)

func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case SectionDashboard, SectionFamilies, SectionMembers, SectionQueries, SectionRequests:
		return sec, nil
	}
	return "", model.ValidationError{Field: "section", Message: fmt.Sprintf("unknown section %q", s)}
}

// minSearchLen is the shortest query that triggers a search.
const minSearchLen = 2

// ErrSignedOut is returned by operations attempted without a session.
var ErrSignedOut = errors.New("not signed in")

// Repositories bundles the data access the controller uses.
type Repositories struct {
	Families  *repository.FamilyRepository
	Members   *repository.MemberRepository
	Requests  *repository.RequestRepository
	Dashboard *repository.DashboardRepository
}

type Controller struct {
	gate      *auth.Gate
	repos     Repositories
	cache     *cache.WorkingSet
	presenter Presenter
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	section Section
}

// New builds a controller and subscribes it to gate transitions.
func New(gate *auth.Gate, repos Repositories, ws *cache.WorkingSet, presenter Presenter, logger *slog.Logger) *Controller {
	c := &Controller{
		gate:      gate,
		repos:     repos,
		cache:     ws,
		presenter: presenter,
		logger:    logger,
		now:       time.Now,
	}
	gate.Subscribe(c.onTransition)
	return c
}

func (c *Controller) onTransition(tr auth.Transition) {
	switch tr.To {
	case auth.StateSignedIn:
		c.logger.Info("signed in, loading working set", "user", tr.User.Email)
		c.presenter.ShowApp(*tr.User)
		c.setSection(SectionDashboard)
		c.presenter.ShowSection(SectionDashboard)
		ctx := context.Background()
		c.LoadDashboard(ctx)
		c.LoadFamilies(ctx)
		c.LoadMembers(ctx)
		c.LoadRequests(ctx)
	case auth.StateSignedOut:
		c.logger.Info("signed out, clearing working set")
		c.cache.Clear()
		c.setSection("")
		c.presenter.ShowLogin()
	}
}

// Section returns the active section, or "" when signed out.
func (c *Controller) Section() Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.section
}

func (c *Controller) setSection(s Section) {
	c.mu.Lock()
	c.section = s
	c.mu.Unlock()
}

// Activate switches to section and reloads its data. The queries section
// loads nothing until a query is run. Loads already in flight for another
// section are left to finish.
func (c *Controller) Activate(ctx context.Context, section Section) error {
	if !c.gate.SignedIn() {
		return ErrSignedOut
	}
	c.setSection(section)
	c.presenter.ShowSection(section)

	switch section {
	case SectionDashboard:
		return c.LoadDashboard(ctx)
	case SectionFamilies:
		return c.LoadFamilies(ctx)
	case SectionMembers:
		return c.LoadMembers(ctx)
	case SectionRequests:
		return c.LoadRequests(ctx)
	}
	return nil
}

// fail logs err and shows it to the user as a notification.
func (c *Controller) fail(op string, err error) error {
	msg := UserMessage(err)
	var se *repository.StoreError
	if errors.As(err, &se) && se.Kind != repository.KindPermission && se.Kind != repository.KindNotFound {
		c.logger.Error(op, "error", err)
	} else {
		c.logger.Warn(op, "error", err)
	}
	c.presenter.Notify(msg, SeverityError)
	return err
}

func (c *Controller) succeed(msg string) {
	c.presenter.Notify(msg, SeveritySuccess)
}

// UserMessage turns any controller error into text safe to show.
func UserMessage(err error) string {
	var ve model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *auth.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var se *repository.StoreError
	if errors.As(err, &se) {
		return se.UserMessage()
	}
	if errors.Is(err, ErrSignedOut) {
		return "Please sign in first"
	}
	return "Something went wrong"
}
