package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles sign up, sign in, profile updates and token revocation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revoker    auth.TokenRevoker
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revoker auth.TokenRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoker:    revoker,
		logger:     logger,
	}
}

// SignUp registers a shopper and returns their signed-in identity
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*session.UserIdentity, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// SignIn verifies credentials and returns the signed-in identity
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*session.UserIdentity, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Sign in for unknown email")
			return nil, shared.ErrInvalidPassword
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Sign in with wrong password", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidPassword
	}
	return s.issue(user)
}

// UpdateProfile changes name, email and optionally password, and returns a
// fresh identity reflecting the change
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*session.UserIdentity, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if identity.NormalizeEmail(input.Email) != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
		}
	}

	if err := user.UpdateProfile(input.Name, input.Email, input.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate validates a bearer token and rejects revoked ones
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

// SignOut revokes token until it would have expired. Tokens that no longer
// validate are already unusable and are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("User signed out", zap.String("user_id", claims.UserID))
	return nil
}

func (s *AuthService) issue(user *identity.User) (*session.UserIdentity, error) {
	token, _, err := s.jwtService.Generate(auth.TokenInput{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &session.UserIdentity{
		ID:      user.ID.String(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}, nil
}
