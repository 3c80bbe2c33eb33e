package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService() (*AuthService, *MockUserRepository, *auth.JWTService) {
	repo := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "storefront-test",
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenRevoker(), zap.NewNop()), repo, jwtService
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Jane Doe", "jane@example.com", "123456")
	require.NoError(t, err)
	return user
}

func TestAuthService_SignUp(t *testing.T) {
	svc, repo, jwtService := newTestAuthService()

	repo.On("ExistsByEmail", mock.Anything, "Jane@Example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	id, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.False(t, id.IsAdmin)

	claims, err := jwtService.Validate(id.Token)
	require.NoError(t, err)
	assert.Equal(t, id.ID, claims.UserID)
	assert.Equal(t, "Jane Doe", claims.Name)
	repo.AssertExpectations(t)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	repo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(true, nil)

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "Jane", Email: "jane@example.com", Password: "123456"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignIn(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)

	repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

	id, err := svc.SignIn(context.Background(), SignInInput{Email: "jane@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), id.ID)
	assert.NotEmpty(t, id.Token)

	_, err = svc.SignIn(context.Background(), SignInInput{Email: "jane@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, shared.ErrInvalidPassword)

	_, err = svc.SignIn(context.Background(), SignInInput{Email: "nobody@example.com", Password: "123456"})
	assert.ErrorIs(t, err, shared.ErrInvalidPassword)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	id, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name:     "Jane Smith",
		Email:    "new@example.com",
		Password: "654321",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", id.Name)
	assert.Equal(t, "new@example.com", id.Email)
	assert.True(t, user.VerifyPassword("654321"))
	repo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: "Jane", Email: "taken@example.com"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_UpdateProfile_SameEmailSkipsUniquenessCheck(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: "Jane", Email: "JANE@example.com"})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_SignOutRevokesToken(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)
	repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	id, err := svc.SignIn(context.Background(), SignInInput{Email: "jane@example.com", Password: "123456"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(context.Background(), id.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)

	require.NoError(t, svc.SignOut(context.Background(), id.Token))

	_, err = svc.Authenticate(context.Background(), id.Token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAuthService_SignOutIgnoresUnusableTokens(t *testing.T) {
	svc, _, _ := newTestAuthService()
	assert.NoError(t, svc.SignOut(context.Background(), ""))
	assert.NoError(t, svc.SignOut(context.Background(), "not-a-token"))
}
