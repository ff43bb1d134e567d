// Package session owns the current bearer token.
//
// A Session moves between two states: unauthenticated (no token) and
// authenticated (token present). Every transition is persisted through a
// Store on a best-effort basis and broadcast to subscribers. Readers take
// snapshots; a token is only ever replaced wholesale.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

// Store persists the current token. Load returns (nil, nil) when nothing is
// stored.
type Store interface {
	Save(ctx context.Context, token models.Token) error
	Load(ctx context.Context) (*models.Token, error)
	Delete(ctx context.Context) error
}

type Session struct {
	// persistMu orders transitions with their store writes, so the store
	// always ends up holding the last adopted or cleared state.
	persistMu sync.Mutex

	// mu serialises writers and subscriber bookkeeping; readers use token.
	mu     sync.Mutex
	token  atomic.Pointer[models.Token]
	subs   map[uint64]chan bool
	nextID uint64

	store Store
	log   logging.Logger
	now   func() time.Time
}

// Option customises a Session.
type Option func(*Session)

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(store Store, log logging.Logger, opts ...Option) *Session {
	if log == nil {
		log = logging.Nop()
	}
	s := &Session{
		subs:  make(map[uint64]chan bool),
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }

// Token returns a copy of the current token, or nil.
func (s *Session) Token() *models.Token {
	p := s.token.Load()
	if p == nil {
		return nil
	}
	t := *p
	return &t
}

func (s *Session) IsAuthenticated() bool {
	return s.token.Load() != nil
}

// Restore adopts a previously persisted token without writing it back.
// A missing or unreadable token leaves the session unauthenticated.
func (s *Session) Restore(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	t, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "token load failed", "error", err)
		return false
	}
	if t == nil {
		return false
	}
	s.set(t)
	s.log.Info(ctx, "session restored", "expires_at", t.ExpirationDate)
	return true
}

// Adopt replaces the current token and persists it.
func (s *Session) Adopt(ctx context.Context, t models.Token) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.set(&t)
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, t); err != nil {
		s.log.Warn(ctx, "token save failed", "error", err)
	}
}

// Clear discards the token and deletes the persisted copy. It never fails.
func (s *Session) Clear(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.set(nil)
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx); err != nil {
		s.log.Warn(ctx, "token delete failed", "error", err)
	}
}

func (s *Session) set(t *models.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.token.Load() != nil
	s.token.Store(t)
	if is := t != nil; is != was {
		for _, ch := range s.subs {
			offer(ch, is)
		}
	}
}

// Subscribe returns a channel that immediately receives the current
// authentication state and then every change. The channel keeps only the
// latest value, so a slow reader skips intermediate states but never blocks
// the session. cancel closes the channel.
func (s *Session) Subscribe() (<-chan bool, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan bool, 1)
	ch <- s.token.Load() != nil
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// offer replaces any unread value in ch with v. Callers hold s.mu.
func offer(ch chan bool, v bool) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
