package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-orders/internal/domain"
	userrepo "storefront-orders/internal/repository/user"
	"storefront-orders/internal/service/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles shopper registration and login. Tokens come from the
// session service; this package only proves who the user is.
type Service struct {
	repo        userrepo.Repository
	sessions    *session.Service
	passwordMin int
}

func New(repo userrepo.Repository, sessions *session.Service) *Service {
	return &Service{
		repo:        repo,
		sessions:    sessions,
		passwordMin: 8,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userrepo.CreateUserInput{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
	})
}

// Login validates credentials and returns the user plus a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *session.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	sess, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasLetter := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one number")
	}
	return nil
}
