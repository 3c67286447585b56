package service

import (
	"context"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

// UserStore persists users. Lookups return domain.ErrNotFound when absent;
// Create and Update return domain.ErrEmailTaken on a duplicate email.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error)
	Remove(ctx context.Context, id string) error
}

type SessionStore interface {
	Create(ctx context.Context, userID, hash string) (*domain.Session, error)
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserIDExcept(ctx context.Context, userID, keepID string) error
}

type Confirmation struct {
	To   string
	Hash string
}

type Notifier interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}
