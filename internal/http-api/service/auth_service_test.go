package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"kostfinder/internal/config"
	"kostfinder/internal/http-api/middleware/auth"
	"kostfinder/internal/http-api/models"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-key-that-is-long-enough",
		JWTExpiry: time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testConfig())

	repo.On("FindByEmail", "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	token, user, err := svc.Register("Jane", "jane@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "user", user.Role)
	// stored password is hashed, never the plaintext
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "password123"))

	repo.AssertExpectations(t)
}

func TestRegister_EmailInUse(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testConfig())

	existing := &models.User{ID: "u1", Email: "jane@example.com"}
	repo.On("FindByEmail", "jane@example.com").Return(existing, nil)

	_, _, err := svc.Register("Jane", "jane@example.com", "password123")

	assert.ErrorIs(t, err, ErrEmailInUse)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testConfig())

	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	user := &models.User{
		ID:       "u1",
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: hashed,
		Role:     "admin",
	}
	repo.On("FindByEmail", "jane@example.com").Return(user, nil)

	token, got, err := svc.Login("jane@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", got.ID)

	// the token must round-trip through validation with the same identity
	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testConfig())

	hashed, _ := auth.HashPassword("password123")
	user := &models.User{ID: "u1", Email: "jane@example.com", Password: hashed}
	repo.On("FindByEmail", "jane@example.com").Return(user, nil)

	_, _, err := svc.Login("jane@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, testConfig())

	repo.On("FindByEmail", "nobody@example.com").Return(nil, errors.New("record not found"))

	_, _, err := svc.Login("nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), testConfig())

	_, err := svc.ValidateToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := NewAuthService(repo, testConfig())

	hashed, _ := auth.HashPassword("password123")
	user := &models.User{ID: "u1", Email: "jane@example.com", Password: hashed}
	repo.On("FindByEmail", "jane@example.com").Return(user, nil)

	token, _, err := issuer.Login("jane@example.com", "password123")
	assert.NoError(t, err)

	other := NewAuthService(repo, &config.Config{
		JWTSecret: "a-completely-different-secret-value",
		JWTExpiry: time.Hour,
	})
	_, err = other.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
