package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	pkg_hash "github.com/t-t-h-q/telemedicine-platform-api/pkg/hash"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/tokens"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

const sessionSecretBytes = 32

type issuedTokens struct {
	LoginResult
	sessionID string
}

// loginResponse issues a token pair bound to session, creating a new
// session first when session is nil.
func (s *AuthService) loginResponse(ctx context.Context, user *domain.User, session *domain.Session) (*issuedTokens, error) {
	if session == nil {
		var err error
		if session, err = s.createSession(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	access, refresh, err := s.signPair(
		tokens.AccessClaims{
			ID:               user.ID,
			Role:             string(user.Role),
			SessionID:        session.ID,
			RegisteredClaims: tokens.Registered(now, s.keys.Access.TTL),
		},
		tokens.RefreshClaims{
			SessionID:        session.ID,
			Hash:             session.Hash,
			RegisteredClaims: tokens.Registered(now, s.keys.Refresh.TTL),
		},
	)
	if err != nil {
		return nil, err
	}

	return &issuedTokens{
		LoginResult: LoginResult{
			Token:        access,
			RefreshToken: refresh,
			TokenExpires: now.Add(s.keys.Access.TTL),
			User:         user,
		},
		sessionID: session.ID,
	}, nil
}

func (s *AuthService) createSession(ctx context.Context, userID string) (*domain.Session, error) {
	secret, err := pkg_hash.RandomHex(sessionSecretBytes)
	if err != nil {
		return nil, upstream("generate session secret", err)
	}
	session, err := s.sessions.Create(ctx, userID, secret)
	if err != nil {
		return nil, upstream("create session", err)
	}
	return session, nil
}

// signPair signs both tokens concurrently; a failure of either fails both.
func (s *AuthService) signPair(access tokens.AccessClaims, refresh tokens.RefreshClaims) (string, string, error) {
	var accessToken, refreshToken string
	var g errgroup.Group

	g.Go(func() error {
		t, err := tokens.Sign(access, s.keys.Access.Secret)
		accessToken = t
		return err
	})
	g.Go(func() error {
		t, err := tokens.Sign(refresh, s.keys.Refresh.Secret)
		refreshToken = t
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", upstream("sign tokens", err)
	}
	return accessToken, refreshToken, nil
}
