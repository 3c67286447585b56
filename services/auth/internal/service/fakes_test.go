package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/tokens"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/events"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]domain.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Email != nil {
		for _, other := range f.users {
			if other.Email != nil && *other.Email == *u.Email {
				return nil, domain.ErrEmailTaken
			}
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.users[c.ID] = c
	return &c, nil
}

func (f *fakeUserStore) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	switch {
	case p.ClearEmail:
		u.Email = nil
	case p.Email != nil:
		e := *p.Email
		u.Email = &e
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Provider != nil {
		u.Provider = *p.Provider
	}
	if p.SocialID != nil {
		u.SocialID = p.SocialID
	}
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return &u, nil
}

func (f *fakeUserStore) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	users    *fakeUserStore
	seq      int
}

func newFakeSessionStore(users *fakeUserStore) *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]domain.Session{}, users: users}
}

func (f *fakeSessionStore) Create(_ context.Context, userID, hash string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s := domain.Session{ID: uuid.NewString(), UserID: userID, Hash: hash, CreatedAt: time.Now()}
	f.sessions[s.ID] = s
	return &s, nil
}

func (f *fakeSessionStore) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	s, ok := f.sessions[id]
	f.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u, err := f.users.FindByID(ctx, s.UserID); err == nil {
		s.User = u
	}
	return &s, nil
}

func (f *fakeSessionStore) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteByUserIDExcept(_ context.Context, userID, keepID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.UserID == userID && id != keepID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionStore) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[id]
	return ok
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Confirmation
	err  error
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, c Confirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, c)
	return nil
}

func (f *fakeNotifier) last() Confirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var testKeys = TokenKeys{
	Access:       tokens.Key{Secret: []byte("test-jwt-secret"), TTL: 15 * time.Minute},
	Refresh:      tokens.Key{Secret: []byte("test-refresh-secret"), TTL: 24 * time.Hour},
	ConfirmEmail: tokens.Key{Secret: []byte("test-confirm-secret"), TTL: time.Hour},
	Forgot:       tokens.Key{Secret: []byte("test-forgot-secret"), TTL: 30 * time.Minute},
}

type testEnv struct {
	svc      *AuthService
	users    *fakeUserStore
	sessions *fakeSessionStore
	mailer   *fakeNotifier
	events   *recordingPublisher
	now      time.Time
}

func newTestEnv(opts ...Option) *testEnv {
	users := newFakeUserStore()
	env := &testEnv{
		users:    users,
		sessions: newFakeSessionStore(users),
		mailer:   &fakeNotifier{},
		events:   &recordingPublisher{},
		now:      time.Now().Truncate(time.Second),
	}
	opts = append([]Option{
		WithClock(func() time.Time { return env.now }),
		WithEvents(env.events),
	}, opts...)
	env.svc = NewAuthService(NewUsersService(users), env.sessions, env.mailer, testKeys, opts...)
	return env
}

func ptr[T any](v T) *T { return &v }
