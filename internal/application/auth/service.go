// Package auth authenticates staff users. Customers never authenticate; the
// verification token is their only credential.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/identity-verify-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type staffStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
}

type jwtSigner interface {
	Sign(userID, email, role string) (string, error)
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.StaffUser, error)
}

type service struct {
	staff staffStore
	jwt   jwtSigner
}

type ServiceDeps struct {
	Staff staffStore
	JWT   jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{staff: deps.Staff, jwt: deps.JWT}
}

// Login verifies staff credentials and returns a signed bearer token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.StaffUser, error) {
	user, err := s.staff.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !user.Enable {
		return "", nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		slog.Warn("failed staff login", "email", req.Email)
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.jwt.Sign(user.UserID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
