package service

import (
	"context"
	"errors"
	"strings"

	pkg_hash "github.com/t-t-h-q/telemedicine-platform-api/pkg/hash"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

type UsersService struct {
	store UserStore
}

func NewUsersService(store UserStore) *UsersService {
	return &UsersService{store: store}
}

type CreateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	SocialID  *string
	Provider  string
	Role      domain.Role
	Status    domain.Status
}

type UpdateUserInput struct {
	Email      *string
	ClearEmail bool
	Password   *string
	FirstName  *string
	LastName   *string
	SocialID   *string
	Provider   *string
	Role       *domain.Role
	Status     *domain.Status
}

func (s *UsersService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	u := &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		SocialID:  in.SocialID,
		Provider:  in.Provider,
		Role:      domain.RoleUser,
		Status:    domain.StatusInactive,
	}
	if u.Provider == "" {
		u.Provider = domain.ProviderEmail
	}

	if in.Password != nil && *in.Password != "" {
		pwHash, err := pkg_hash.HashPassword(*in.Password)
		if err != nil {
			l.Error("create_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
			return nil, upstream("hash password", err)
		}
		u.Password = pwHash
	}

	if in.Email != nil && *in.Email != "" {
		email := strings.ToLower(*in.Email)
		if err := s.ensureEmailFree(ctx, email, ""); err != nil {
			return nil, err
		}
		u.Email = &email
	}

	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, Invalid("role", "roleNotExists")
		}
		u.Role = in.Role
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, Invalid("status", "statusNotExists")
		}
		u.Status = in.Status
	}

	created, err := s.store.Create(ctx, u)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, Invalid("email", "emailAlreadyExists")
		}
		l.Error("create_user_error", "status", 500, "error", err)
		return nil, upstream("create user", err)
	}
	return created, nil
}

// FindByID returns domain.ErrNotFound when the user does not exist.
func (s *UsersService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, upstream("find user", err)
	}
	return u, nil
}

func (s *UsersService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.store.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, upstream("find user", err)
	}
	return u, nil
}

// Update applies in to the user and returns the stored result, or nil when
// the user does not exist.
func (s *UsersService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", id)

	patch := domain.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		SocialID:  in.SocialID,
		Provider:  in.Provider,
	}

	if in.Password != nil && *in.Password != "" {
		current, err := s.FindByID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if current != nil && current.Password != *in.Password {
			pwHash, err := pkg_hash.HashPassword(*in.Password)
			if err != nil {
				l.Error("update_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
				return nil, upstream("hash password", err)
			}
			patch.Password = &pwHash
		}
	}

	switch {
	case in.ClearEmail:
		patch.ClearEmail = true
	case in.Email != nil && *in.Email != "":
		email := strings.ToLower(*in.Email)
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		patch.Email = &email
	}

	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, Invalid("role", "roleNotExists")
		}
		patch.Role = in.Role
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, Invalid("status", "statusNotExists")
		}
		patch.Status = in.Status
	}

	u, err := s.store.Update(ctx, id, patch)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	case errors.Is(err, domain.ErrEmailTaken):
		return nil, Invalid("email", "emailAlreadyExists")
	case err != nil:
		l.Error("update_user_error", "status", 500, "error", err)
		return nil, upstream("update user", err)
	}
	return u, nil
}

func (s *UsersService) Remove(ctx context.Context, id string) error {
	return upstream("remove user", s.store.Remove(ctx, id))
}

// ensureEmailFree fails with emailAlreadyExists when email belongs to a user
// other than ownerID.
func (s *UsersService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return upstream("find user", err)
	case existing.ID != ownerID:
		return Invalid("email", "emailAlreadyExists")
	default:
		return nil
	}
}
