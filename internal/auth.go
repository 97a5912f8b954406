package internal

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRateLimited is returned when a client retries login too quickly.
	ErrRateLimited = errors.New("too many login attempts, try again later")
)

// HashPassword returns the bcrypt hash stored as adminPasswordHash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil { return "", err }
	return string(b), nil
}

type session struct {
	email     string
	expiresAt time.Time
}

// Auth gates the portal behind a single configured operator account.
// It is safe for concurrent use.
type Auth struct {
	email   string
	hash    []byte
	ttl     time.Duration
	perMin  int
	nowFunc func() time.Time

	mu       sync.Mutex
	sessions map[string]session
	limiters map[string]*rate.Limiter
}

func NewAuth(cfg Config) *Auth {
	perMin := cfg.LoginRatePerMin
	if perMin <= 0 { perMin = DefaultConfig().LoginRatePerMin }
	ttl := cfg.SessionTTL
	if ttl <= 0 { ttl = DefaultConfig().SessionTTL }
	return &Auth{
		email:    strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		hash:     []byte(cfg.AdminPasswordHash),
		ttl:      ttl,
		perMin:   perMin,
		nowFunc:  time.Now,
		sessions: map[string]session{},
		limiters: map[string]*rate.Limiter{},
	}
}

// Enabled reports whether an operator account is configured.
func (a *Auth) Enabled() bool { return a.email != "" && len(a.hash) > 0 }

// Login checks the credentials for client and returns a new session token.
func (a *Auth) Login(client, email, password string) (string, error) {
	a.sweep()
	if !a.limiter(client).Allow() {
		return "", ErrRateLimited
	}
	if !a.Enabled() || strings.ToLower(strings.TrimSpace(email)) != a.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token := uuid.New().String()
	a.mu.Lock()
	a.sessions[token] = session{email: a.email, expiresAt: a.nowFunc().Add(a.ttl)}
	a.mu.Unlock()
	return token, nil
}

// Session returns the email behind token if the session is still valid.
func (a *Auth) Session(token string) (string, bool) {
	if token == "" { return "", false }
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[token]
	if !ok { return "", false }
	if a.nowFunc().After(s.expiresAt) {
		delete(a.sessions, token)
		return "", false
	}
	return s.email, true
}

// Logout drops the session; unknown tokens are ignored.
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

func (a *Auth) limiter(client string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.limiters[client]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.perMin)), a.perMin)
		a.limiters[client] = l
	}
	return l
}

// sweep drops expired sessions and limiters that have refilled, since a full
// limiter behaves the same as a fresh one.
func (a *Auth) sweep() {
	now := a.nowFunc()
	a.mu.Lock()
	defer a.mu.Unlock()
	for token, s := range a.sessions {
		if now.After(s.expiresAt) { delete(a.sessions, token) }
	}
	for client, l := range a.limiters {
		if l.Tokens() >= float64(a.perMin) { delete(a.limiters, client) }
	}
}
