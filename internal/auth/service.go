package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dErrors "logitrack/pkg/domain-errors"
	"logitrack/pkg/platform/sentinel"
)

// TokenIssuer signs access tokens for a verified identity.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, email string, roles []string, expiresIn time.Duration) (string, error)
}

// Service registers accounts and exchanges credentials for tokens. The rest
// of the system only ever sees the verified identity plus its granted roles.
type Service struct {
	store    UserStore
	tokens   TokenIssuer
	tokenTTL time.Duration
}

func NewService(store UserStore, tokens TokenIssuer, tokenTTL time.Duration) *Service {
	return &Service{store: store, tokens: tokens, tokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.TrimSpace(req.Email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	case len(req.Password) < 6:
		return dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if req.Role != "" {
		user.Roles = []string{req.Role}
	}

	if err := s.store.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return TokenResponse{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return TokenResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		return TokenResponse{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Roles, s.tokenTTL)
	if err != nil {
		return TokenResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return TokenResponse{Token: token}, nil
}
