package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("booking session not found")

// BookingSession carries the wizard selections of one booking attempt. It is
// deleted when the booking completes or the client restarts.
type BookingSession struct {
	ID            string              `json:"id"`
	ClientID      uint                `json:"client_id,omitempty"`
	ServiceID     uint                `json:"service_id,omitempty"`
	Date          string              `json:"date,omitempty"`
	Time          string              `json:"time,omitempty"`
	AppointmentID uint                `json:"appointment_id,omitempty"`
	Checkout      *CheckoutDescriptor `json:"checkout,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type SessionStore interface {
	Create(ctx context.Context) (*BookingSession, error)
	Get(ctx context.Context, id string) (*BookingSession, error)
	Save(ctx context.Context, s *BookingSession) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON values with a sliding TTL.
type RedisSessionStore struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl, prefix: "booking:session:"}
}

func (s *RedisSessionStore) Create(ctx context.Context) (*BookingSession, error) {
	session := &BookingSession{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*BookingSession, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session BookingSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *BookingSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.prefix+session.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.prefix+id).Err()
}

// MemorySessionStore is used when no Redis is configured. Expired sessions
// are dropped on access and swept on writes, at most once per sweep interval.
type MemorySessionStore struct {
	mu         sync.Mutex
	ttl        time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	sessions   map[string]memorySession
}

type memorySession struct {
	session   BookingSession
	expiresAt time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemorySessionStore{
		ttl:        ttl,
		sweepEvery: min(ttl, time.Minute),
		lastSweep:  time.Now(),
		sessions:   make(map[string]memorySession),
	}
}

func (s *MemorySessionStore) Create(ctx context.Context) (*BookingSession, error) {
	session := &BookingSession{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	return session, s.Save(ctx, session)
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*BookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *BookingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.sweepLocked(now)
	s.sessions[session.ID] = memorySession{session: *session, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// sweepLocked removes expired sessions. s.mu must be held.
func (s *MemorySessionStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}
	s.lastSweep = now
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
