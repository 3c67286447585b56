package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	UserRegistered  Type = "user.registered"
	EmailConfirmed  Type = "user.email_confirmed"
	PasswordChanged Type = "user.password_changed"
	UserDeleted     Type = "user.deleted"
	LoggedIn        Type = "auth.login"
	TokenRefreshed  Type = "auth.refresh"
	LoggedOut       Type = "auth.logout"
)

// Event is an audit record of a completed auth operation. It never carries
// secrets or token material.
type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers each event to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
