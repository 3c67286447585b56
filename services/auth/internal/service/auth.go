package service

import (
	"context"
	"errors"
	"strings"
	"time"

	pkg_hash "github.com/t-t-h-q/telemedicine-platform-api/pkg/hash"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/tokens"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/events"
)

// TokenKeys holds the independent secret/lifetime pairs. Forgot is loaded
// from configuration but no flow signs with it yet.
type TokenKeys struct {
	Access       tokens.Key
	Refresh      tokens.Key
	ConfirmEmail tokens.Key
	Forgot       tokens.Key
}

type AuthService struct {
	users    *UsersService
	sessions SessionStore
	mailer   Notifier
	keys     TokenKeys
	events   events.Publisher
	now      func() time.Time
}

type Option func(*AuthService)

func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

func WithEvents(p events.Publisher) Option {
	return func(s *AuthService) { s.events = p }
}

func NewAuthService(users *UsersService, sessions SessionStore, mailer Notifier, keys TokenKeys, opts ...Option) *AuthService {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		keys:     keys,
		events:   events.Nop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type LoginResult struct {
	Token        string
	RefreshToken string
	TokenExpires time.Time
	User         *domain.User
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateMeInput is a self-service profile patch. OldPassword is required
// when Password is set and is never persisted.
type UpdateMeInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Password    *string
	OldPassword *string
}

func (s *AuthService) ValidateLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login failed", "status", 422, "reason", "email not found")
			return nil, Invalid("email", "notFound")
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	l = l.With("user_id", user.ID)

	if user.Provider != domain.ProviderEmail {
		l.Warn("login failed", "status", 422, "reason", "external provider", "provider", user.Provider)
		return nil, Invalid("email", "needLoginViaProvider:"+user.Provider)
	}

	if err := validatePassword(user.Password, password); err != nil {
		l.Warn("login failed", "status", 422, "reason", "invalid password")
		return nil, err
	}

	res, err := s.loginResponse(ctx, user, nil)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, events.LoggedIn, user.ID, res.sessionID)
	l.Info("login_successful")
	return &res.LoginResult, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	user, err := s.users.Create(ctx, CreateUserInput{
		Email:     &in.Email,
		Password:  &in.Password,
		FirstName: optional(in.FirstName),
		LastName:  optional(in.LastName),
		Provider:  domain.ProviderEmail,
		Role:      domain.RoleUser,
		Status:    domain.StatusInactive,
	})
	if err != nil {
		l.Warn("register_error", "error", err)
		return err
	}
	l = l.With("user_id", user.ID)

	hash, err := tokens.Sign(tokens.ConfirmEmailClaims{
		ConfirmEmailUserID: user.ID,
		RegisteredClaims:   tokens.Registered(s.now(), s.keys.ConfirmEmail.TTL),
	}, s.keys.ConfirmEmail.Secret)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot sign confirmation token", "error", err)
		return upstream("sign confirmation token", err)
	}

	if err := s.mailer.SendConfirmation(ctx, Confirmation{To: user.EmailValue(), Hash: hash}); err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot send confirmation", "error", err)
		return upstream("send confirmation", err)
	}

	s.publish(ctx, events.UserRegistered, user.ID, "")
	l.Info("register_successful")
	return nil
}

// ConfirmEmail activates the user named by a confirmation token. Every
// token verification failure is reported as the same invalidHash error.
func (s *AuthService) ConfirmEmail(ctx context.Context, hash string) error {
	l := logging.FromContext(ctx).With("svc", "auth.confirm_email")

	claims, err := tokens.ConfirmEmailClaimsFromToken(hash, s.keys.ConfirmEmail.Secret)
	if err != nil || claims.ConfirmEmailUserID == "" {
		l.Warn("confirm_email_error", "status", 422, "reason", "invalid hash", "error", err)
		return Invalid("hash", "invalidHash")
	}

	user, err := s.users.FindByID(ctx, claims.ConfirmEmailUserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if user == nil || user.Status != domain.StatusInactive {
		l.Warn("confirm_email_error", "status", 404, "user_id", claims.ConfirmEmailUserID)
		return NotFound()
	}

	active := domain.StatusActive
	if _, err := s.users.Update(ctx, user.ID, UpdateUserInput{Status: &active}); err != nil {
		return err
	}

	s.publish(ctx, events.EmailConfirmed, user.ID, "")
	l.Info("email_confirmed", "user_id", user.ID)
	return nil
}

// Me returns the user behind verified access claims, or nil.
func (s *AuthService) Me(ctx context.Context, claims *tokens.AccessClaims) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, claims.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *AuthService) Update(ctx context.Context, claims *tokens.AccessClaims, in UpdateMeInput) (*domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update", "user_id", claims.ID)

	current, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, Invalid("user", "userNotFound")
		}
		return nil, err
	}

	passwordChanged := in.Password != nil && *in.Password != ""
	if passwordChanged {
		if in.OldPassword == nil || *in.OldPassword == "" {
			return nil, Invalid("oldPassword", "missingOldPassword")
		}
		if err := validatePassword(current.Password, *in.OldPassword); err != nil {
			l.Warn("update_error", "status", 422, "reason", "old password mismatch")
			return nil, err
		}
		if in.Email != nil && *in.Email != "" {
			if err := s.users.ensureEmailFree(ctx, strings.ToLower(*in.Email), current.ID); err != nil {
				return nil, err
			}
		}
		if err := s.sessions.DeleteByUserIDExcept(ctx, current.ID, claims.SessionID); err != nil {
			l.Error("update_error", "status", 500, "reason", "cannot revoke sessions", "error", err)
			return nil, upstream("revoke sessions", err)
		}
	}

	if _, err := s.users.Update(ctx, claims.ID, UpdateUserInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	}); err != nil {
		return nil, err
	}

	if passwordChanged {
		s.publish(ctx, events.PasswordChanged, current.ID, claims.SessionID)
	}

	return s.Me(ctx, claims)
}

// RefreshToken reissues tokens for an existing session. The session and its
// hash are reused as they are.
func (s *AuthService) RefreshToken(ctx context.Context, claims *tokens.RefreshClaims) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh", "session_id", claims.SessionID)

	session, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		l.Error("refresh failed", "status", 500, "error", err)
		return nil, upstream("find session", err)
	}
	if session == nil || session.Hash != claims.Hash {
		l.Warn("refresh failed", "status", 401, "reason", "session not found or hash mismatch")
		return nil, Unauthorized("Session not found or hash mismatch")
	}

	user := session.User
	if user == nil {
		user, err = s.users.FindByID(ctx, session.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, Unauthorized("Session not found or hash mismatch")
		}
		if err != nil {
			return nil, err
		}
	}

	res, err := s.loginResponse(ctx, user, session)
	if err != nil {
		l.Error("refresh failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TokenRefreshed, user.ID, session.ID)
	res.User = nil
	return &res.LoginResult, nil
}

func (s *AuthService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Remove(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, events.UserDeleted, userID, "")
	return nil
}

// Logout ends the session named by claims. Other sessions of the user stay.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.AccessClaims) error {
	if err := s.sessions.DeleteByID(ctx, claims.SessionID); err != nil {
		return upstream("delete session", err)
	}
	s.publish(ctx, events.LoggedOut, claims.ID, claims.SessionID)
	return nil
}

func validatePassword(stored, supplied string) error {
	if stored == "" || supplied == "" {
		return Invalid("password", "missingPassword")
	}
	if !pkg_hash.CheckPassword(stored, supplied) {
		return Invalid("password", "incorrectPassword")
	}
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *AuthService) publish(ctx context.Context, t events.Type, userID, sessionID string) {
	err := s.events.Publish(ctx, events.Event{
		Type:       t,
		UserID:     userID,
		SessionID:  sessionID,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("audit event not published", "type", string(t), "error", err)
	}
}
