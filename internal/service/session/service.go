package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront-orders/internal/domain"
	tokenrepo "storefront-orders/internal/repository/token"
)

// ErrExpired is returned when a credential is expired and could not be
// refreshed. Callers should prompt for re-authentication instead of showing
// a generic error.
var ErrExpired = errors.New("session expired")

// Session is the ambient credential for one authenticated browsing session.
// The guarantor may replace AccessToken and ExpiresAt in place.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service issues, validates and refreshes bearer credentials backed by the
// token repository.
type Service struct {
	repo       tokenrepo.Repository
	accessTTL  time.Duration
	refreshTTL time.Duration
	// leeway is how much remaining validity a credential must have before a
	// store call; anything less triggers a proactive refresh.
	leeway time.Duration
	now    func() time.Time
}

func New(repo tokenrepo.Repository, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		leeway:     30 * time.Second,
		now:        time.Now,
	}
}

// Issue creates a fresh access/refresh pair for a user.
func (s *Service) Issue(ctx context.Context, userID string) (*Session, error) {
	expiresAt := s.now().Add(s.accessTTL)
	access, err := s.issueToken(ctx, userID, tokenrepo.KindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueToken(ctx, userID, tokenrepo.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// Lookup validates an access token and returns the session bound to it.
func (s *Service) Lookup(ctx context.Context, accessToken string) (*Session, error) {
	meta, err := s.repo.Get(ctx, accessToken)
	if err != nil {
		return nil, ErrExpired
	}
	if meta.Kind != tokenrepo.KindAccess {
		return nil, ErrExpired
	}
	if s.now().After(meta.ExpiresAt) {
		_ = s.repo.Delete(ctx, accessToken)
		return nil, ErrExpired
	}
	return &Session{
		UserID:      meta.UserID,
		AccessToken: accessToken,
		ExpiresAt:   meta.ExpiresAt,
	}, nil
}

// EnsureValid guarantees sess holds a credential valid for at least one
// store call, refreshing it in place when expiry is imminent or unknown.
// Returns ErrExpired when no valid credential can be produced; the caller
// must abort and prompt re-authentication.
func (s *Service) EnsureValid(ctx context.Context, sess *Session) error {
	if sess == nil || sess.AccessToken == "" {
		return ErrExpired
	}
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.After(s.now().Add(s.leeway)) {
		return nil
	}
	return s.refresh(ctx, sess)
}

// Refresh exchanges a refresh token for a new session. Used by the token
// refresh endpoint.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	meta, err := s.repo.Get(ctx, refreshToken)
	if err != nil {
		return nil, ErrExpired
	}
	if meta.Kind != tokenrepo.KindRefresh || s.now().After(meta.ExpiresAt) {
		return nil, ErrExpired
	}
	access, err := s.issueToken(ctx, meta.UserID, tokenrepo.KindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:       meta.UserID,
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    s.now().Add(s.accessTTL),
	}, nil
}

// Revoke deletes both credentials of a session. Missing tokens are ignored.
func (s *Service) Revoke(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	if sess.AccessToken != "" {
		_ = s.repo.Delete(ctx, sess.AccessToken)
	}
	if sess.RefreshToken != "" {
		_ = s.repo.Delete(ctx, sess.RefreshToken)
	}
}

func (s *Service) refresh(ctx context.Context, sess *Session) error {
	if sess.RefreshToken == "" {
		return ErrExpired
	}
	renewed, err := s.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return err
	}
	old := sess.AccessToken
	sess.UserID = renewed.UserID
	sess.AccessToken = renewed.AccessToken
	sess.ExpiresAt = renewed.ExpiresAt
	if old != "" {
		_ = s.repo.Delete(ctx, old)
	}
	return nil
}

func (s *Service) issueToken(ctx context.Context, userID, kind string, ttl time.Duration) (string, error) {
	expiresAt := s.now().Add(ttl)
	for i := 0; i < 5; i++ {
		tok, err := randomToken()
		if err != nil {
			return "", err
		}
		err = s.repo.Create(ctx, tokenrepo.Token{
			Token:     tok,
			UserID:    userID,
			Kind:      kind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return tok, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
