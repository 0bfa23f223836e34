// internal/session/session.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrNoWallet  = errors.New("account has no wallet address")
)

// Session is everything business logic may know about the signed-in actor.
// It is passed explicitly; nothing reads it from ambient state.
type Session struct {
	ID            string         `json:"id"`
	Token         string         `json:"-"`
	WalletAddress string         `json:"walletAddress"`
	Role          status.Role    `json:"role"`
	User          map[string]any `json:"user,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

var walletField = resolver.NewField("walletAddress", true,
	"walletAddress", "wallet", "address", "company.walletAddress", "organization.walletAddress")

// WalletFromUser finds the wallet in a login user object.
func WalletFromUser(user map[string]any) string {
	return walletField.String(user, "")
}

// Store keeps live sessions in memory. Entries expire after the TTL and the
// least recently used are evicted once size is reached.
type Store struct {
	cache *expirable.LRU[string, Session]
}

func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 1024
	}
	return &Store{cache: expirable.NewLRU[string, Session](size, nil, ttl)}
}

// Create stores s under a fresh id and returns the stored copy.
func (st *Store) Create(s Session) Session {
	s.ID = uuid.NewString()
	st.cache.Add(s.ID, s)
	return s
}

func (st *Store) Get(id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNoSession
	}
	s, ok := st.cache.Get(id)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Delete drops the session; deleting an unknown id is not an error.
func (st *Store) Delete(id string) {
	st.cache.Remove(id)
}

func (st *Store) Len() int { return st.cache.Len() }

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by WithSession.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.ID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}
