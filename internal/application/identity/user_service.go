package identity

import (
	"context"
	"errors"

	"github.com/smarthomes/backend/internal/domain/identity"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errUnchanged = errors.New("accounts unchanged")

// UserService handles storefront account registration and login. It
// issues no sessions or tokens.
type UserService struct {
	repo   identity.Repository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo identity.Repository, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// Register creates an account. Emails are unique.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*identity.Profile, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "register")
	defer span.End()

	var profile identity.Profile
	err := s.repo.Update(ctx, func(a *identity.Accounts) error {
		p, err := a.Register(req.Name, req.Email, req.Password)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.For(ctx, s.logger).Info("User registered", zap.String("email", profile.Email))
	return &profile, nil
}

// Login checks credentials and returns the matching profile. A legacy
// plaintext password that matches is rehashed and saved.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*identity.Profile, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "login")
	defer span.End()

	var profile identity.Profile
	err := s.repo.Update(ctx, func(a *identity.Accounts) error {
		p, upgraded, err := a.Login(req.Email, req.Password)
		if err != nil {
			return err
		}
		profile = p
		if !upgraded {
			return errUnchanged
		}
		return nil
	})
	switch {
	case err == nil:
		logger.For(ctx, s.logger).Info("Upgraded legacy password", zap.String("email", profile.Email))
	case errors.Is(err, errUnchanged):
	default:
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &profile, nil
}

// ListUsers returns every account without password material
func (s *UserService) ListUsers(ctx context.Context) ([]identity.Profile, error) {
	a, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return a.Profiles(), nil
}
