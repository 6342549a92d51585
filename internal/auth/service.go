package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
	"github.com/rehabtrack/rehabtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")
)

type usersRepo interface {
	Create(ctx context.Context, user User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type Service struct {
	users   usersRepo
	tokens  *TokenService
	revoker tokenRevoker
}

func NewService(users usersRepo, tokens *TokenService, revoker tokenRevoker) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (_ *TokenResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = RolePatient
	}
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.role", string(req.Role)))

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         req.Role,
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("user [%s] registered with role %s", user.ID, user.Role)
	return s.sign(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (_ *TokenResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.sign(user)
}

// Logout revokes the token until it would have expired on its own.
func (s *Service) Logout(ctx context.Context, claims *Claims) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) sign(user *User) (*TokenResponse, error) {
	token, claims, err := s.tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		User:        claims.Payload(),
	}, nil
}

func validateRegisterRequest(req RegisterRequest) error {
	// bare addresses only, "Name <addr>" forms would be stored verbatim
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return fmt.Errorf("%w: email must be a valid address", ErrInvalidRequest)
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}
	if req.Name == "" {
		return fmt.Errorf("%w: name must be set", ErrInvalidRequest)
	}
	if !req.Role.Valid() {
		return fmt.Errorf("%w: unknown role %s", ErrInvalidRequest, req.Role)
	}
	return nil
}
