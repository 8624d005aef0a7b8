package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/auth"
)

// Authenticator is the identity provider behind the admin login.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) (*oauth2.Token, error)
	CompleteNewPassword(ctx context.Context, ch auth.Challenge, newPassword string) (*oauth2.Token, error)
	Refresh(ctx context.Context, username string, tok *oauth2.Token) (*oauth2.Token, error)
	SignOut(ctx context.Context, accessToken string)
}

// AdminAuthService keeps admin token sets server-side and refreshes them
// before they expire.
type AdminAuthService struct {
	idp      Authenticator
	sessions domain.SessionRepository
	now      func() time.Time
}

func NewAdminAuthService(idp Authenticator, sessions domain.SessionRepository) *AdminAuthService {
	return &AdminAuthService{idp: idp, sessions: sessions, now: time.Now}
}

// SignIn authenticates and stores a new session. A pending challenge is
// returned as *auth.ChallengeError.
func (s *AdminAuthService) SignIn(ctx context.Context, username, password string) (*domain.AdminSession, error) {
	tok, err := s.idp.SignIn(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, username, tok)
}

// CompleteNewPassword finishes a NEW_PASSWORD_REQUIRED challenge and stores the session.
func (s *AdminAuthService) CompleteNewPassword(ctx context.Context, ch auth.Challenge, newPassword string) (*domain.AdminSession, error) {
	tok, err := s.idp.CompleteNewPassword(ctx, ch, newPassword)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, ch.Username, tok)
}

func (s *AdminAuthService) create(ctx context.Context, username string, tok *oauth2.Token) (*domain.AdminSession, error) {
	now := s.now()
	sess := &domain.AdminSession{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	auth.ApplyToken(sess, tok)
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	slog.Info("Admin signed in", "username", username)
	return sess, nil
}

// Session loads a session, refreshing its tokens when they expire within
// auth.RefreshWindow. A session that cannot be refreshed is removed.
func (s *AdminAuthService) Session(ctx context.Context, id string) (*domain.AdminSession, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	sess, err := s.sessions.GetSession(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	tok := auth.SessionToken(sess)
	if !auth.NeedsRefresh(tok, now) {
		return sess, nil
	}

	fresh, err := s.idp.Refresh(ctx, sess.Username, tok)
	if err != nil {
		slog.Warn("Admin token refresh failed", "username", sess.Username, "error", err)
		if delErr := s.sessions.DeleteSession(ctx, id); delErr != nil {
			slog.Error("Failed to drop stale session", "error", delErr)
		}
		return nil, fmt.Errorf("refresh: %w", domain.ErrUnauthorized)
	}
	auth.ApplyToken(sess, fresh)
	sess.UpdatedAt = now
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("store refreshed session: %w", err)
	}
	slog.Debug("Admin token refreshed", "username", sess.Username, "expiry", sess.Expiry)
	return sess, nil
}

// AccessToken returns a valid access token for the session.
func (s *AdminAuthService) AccessToken(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// SignOut revokes the tokens and deletes the session.
func (s *AdminAuthService) SignOut(ctx context.Context, id string) error {
	sess, err := s.sessions.GetSession(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.idp.SignOut(ctx, sess.AccessToken)
	return s.sessions.DeleteSession(ctx, id)
}
