package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
)

// tokenBytes is the entropy of a session token; hex-encoded it yields a
// fixed 64-character opaque string.
const tokenBytes = 32

// Data is the authorization record bound to one token.
type Data struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Store maps opaque tokens to short-lived session records. It is the only
// process-wide session state: constructed once in main and reached solely
// through this API. Expired entries are evicted lazily on Get and swept
// opportunistically on each Create; session counts stay small enough that
// a full scan is fine. A larger deployment would need a time-indexed
// structure or an external store.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Data

	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewStore creates a session store with the normal and remember-me TTLs.
func NewStore(ttl, rememberTTL time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]Data),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Test hook for expiry behavior.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Create generates a cryptographically random token and stores the session
// record under it. rememberMe extends the expiry from the normal TTL to
// the remember-me TTL.
func (s *Store) Create(user *model.User, rememberMe bool) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	ttl := s.ttl
	if rememberMe {
		ttl = s.rememberTTL
	}
	s.sessions[token] = Data{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return token, nil
}

// Get returns the session for token, evicting and reporting absent if it
// has expired.
func (s *Store) Get(token string) (*Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(d.ExpiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	return &d, true
}

// Delete invalidates a token immediately (logout).
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of live entries, counting not-yet-swept expired
// ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked(now time.Time) {
	for t, d := range s.sessions {
		if now.After(d.ExpiresAt) {
			delete(s.sessions, t)
		}
	}
}
