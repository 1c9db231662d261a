package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type State int

const (
	StateUninitialized State = iota
	StateSignedOut
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "SIGNED_OUT"
	case StateSignedIn:
		return "SIGNED_IN"
	}
	return "UNINITIALIZED"
}

// Transition is one recorded change of gate state. User is nil when signed out.
type Transition struct {
	From State
	To   State
	User *User
	At   time.Time
}

// Gate tracks whether an operator is signed in. It is driven solely by the
// provider's session notifications.
type Gate struct {
	provider Provider
	logger   *slog.Logger
	now      func() time.Time

	// notifyMu serializes notification handling so subscribers see
	// transitions in order.
	notifyMu sync.Mutex

	mu          sync.RWMutex
	state       State
	session     *Session
	subscribers []func(Transition)
	log         []Transition
}

func NewGate(provider Provider, logger *slog.Logger) *Gate {
	g := &Gate{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
	provider.OnSessionChange(g.handle)
	return g
}

// Subscribe registers fn to receive every later transition, synchronously
// and in order.
func (g *Gate) Subscribe(fn func(Transition)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) SignedIn() bool {
	return g.State() == StateSignedIn
}

// User returns the signed-in user.
func (g *Gate) User() (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return User{}, false
	}
	return g.session.User, true
}

// Token returns the current session token, or "" when signed out.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return ""
	}
	return g.session.Token
}

// Session returns a copy of the current session.
func (g *Gate) Session() (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return Session{}, false
	}
	return *g.session, true
}

// Transitions returns a copy of the transition log.
func (g *Gate) Transitions() []Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Transition, len(g.log))
	copy(out, g.log)
	return out
}

// SignIn asks the provider to sign in. Failures come back as *AuthError; the
// provider's own text is only logged.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	if _, err := g.provider.SignIn(ctx, email, password); err != nil {
		ae := MapError(err)
		g.logger.Warn("sign in failed", "email", email, "code", ae.Code, "error", err)
		return ae
	}
	return nil
}

func (g *Gate) SignOut(ctx context.Context) error {
	if err := g.provider.SignOut(ctx); err != nil {
		g.logger.Error("sign out failed", "error", err)
		return err
	}
	return nil
}

func (g *Gate) handle(sess *Session) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	to := StateSignedOut
	var user *User
	if sess != nil {
		to = StateSignedIn
		u := sess.User
		user = &u
	}

	g.mu.Lock()
	from := g.state
	if from == to && sameUser(g.session, sess) {
		g.session = sess
		g.mu.Unlock()
		return
	}
	g.state = to
	g.session = sess
	tr := Transition{From: from, To: to, User: user, At: g.now()}
	g.log = append(g.log, tr)
	subs := make([]func(Transition), len(g.subscribers))
	copy(subs, g.subscribers)
	g.mu.Unlock()

	g.logger.Info("auth transition", "from", from, "to", to)
	for _, fn := range subs {
		fn(tr)
	}
}

func sameUser(a, b *Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.User.ID == b.User.ID
}
