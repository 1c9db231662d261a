package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/wardbook/internal/database"
)

const (
	maxSignInAttempts = 5
	signInWindow      = 15 * time.Minute
)

// Limiter decides whether another attempt for key is allowed.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// LocalProvider authenticates against the users table and issues signed
// session tokens. It holds a single current session for the process.
type LocalProvider struct {
	db      *database.DB
	secret  []byte
	ttl     time.Duration
	limiter Limiter
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	current  *Session
	listener func(*Session)
}

func NewLocalProvider(db *database.DB, secret []byte, ttl time.Duration, limiter Limiter, logger *slog.Logger) *LocalProvider {
	return &LocalProvider{
		db:      db,
		secret:  secret,
		ttl:     ttl,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type userRecord struct {
	User
	PasswordHash string
	Disabled     bool
}

func (p *LocalProvider) OnSessionChange(fn func(*Session)) {
	p.mu.Lock()
	p.listener = fn
	p.mu.Unlock()
}

// Init restores a session from token, if it is still valid, and reports the
// initial session state. An empty token starts signed out.
func (p *LocalProvider) Init(ctx context.Context, token string) {
	var sess *Session
	if token != "" {
		s, err := p.Verify(ctx, token)
		if err != nil {
			p.logger.Info("stored session rejected", "error", err)
		} else {
			sess = s
		}
	}
	p.setCurrent(sess)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ProviderError{Code: CodeInvalidEmail, Err: err}
	}
	if p.limiter != nil && !p.limiter.Allow("signin:"+email, maxSignInAttempts, signInWindow) {
		return nil, &ProviderError{Code: CodeTooManyRequests}
	}

	rec, err := p.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ProviderError{Code: CodeUserNotFound}
	}
	if rec.Disabled {
		return nil, &ProviderError{Code: CodeUserDisabled}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, &ProviderError{Code: CodeWrongPassword, Err: err}
	}

	sess, err := p.issue(rec.User)
	if err != nil {
		return nil, err
	}
	p.setCurrent(sess)
	return sess, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// Verify parses a session token and checks that its user still exists and is
// enabled.
func (p *LocalProvider) Verify(ctx context.Context, token string) (*Session, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	rec, err := p.userByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ProviderError{Code: CodeUserNotFound}
	}
	if rec.Disabled {
		return nil, &ProviderError{Code: CodeUserDisabled}
	}

	sess := &Session{User: rec.User, Token: token}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// CreateUser adds an operator account with a bcrypt-hashed password.
func (p *LocalProvider) CreateUser(ctx context.Context, email, name, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ProviderError{Code: CodeInvalidEmail, Err: err}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{ID: uuid.NewString(), Email: email, Name: name}
	_, err = p.db.ExecContext(ctx,
		p.db.Rebind(`INSERT INTO users (id, email, name, password_hash) VALUES (?, ?, ?, ?)`),
		u.ID, u.Email, u.Name, string(hash),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// EnsureUser creates the account unless one already exists for email.
func (p *LocalProvider) EnsureUser(ctx context.Context, email, name, password string) error {
	rec, err := p.userByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if rec != nil {
		return nil
	}
	_, err = p.CreateUser(ctx, email, name, password)
	return err
}

func (p *LocalProvider) SetDisabled(ctx context.Context, id string, disabled bool) error {
	_, err := p.db.ExecContext(ctx,
		p.db.Rebind(`UPDATE users SET disabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		disabled, id,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (p *LocalProvider) issue(u User) (*Session, error) {
	now := p.now()
	expires := now.Add(p.ttl)
	claims := sessionClaims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token, ExpiresAt: expires}, nil
}

func (p *LocalProvider) setCurrent(sess *Session) {
	p.mu.Lock()
	p.current = sess
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn(sess)
	}
}

const userCols = `id, email, name, password_hash, disabled`

func scanUser(scanner interface{ Scan(...any) error }) (*userRecord, error) {
	var rec userRecord
	err := scanner.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.PasswordHash, &rec.Disabled)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *LocalProvider) userByEmail(ctx context.Context, email string) (*userRecord, error) {
	row := p.db.QueryRowContext(ctx, p.db.Rebind(`SELECT `+userCols+` FROM users WHERE email = ?`), email)
	rec, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return rec, nil
}

func (p *LocalProvider) userByID(ctx context.Context, id string) (*userRecord, error) {
	row := p.db.QueryRowContext(ctx, p.db.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id)
	rec, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return rec, nil
}
