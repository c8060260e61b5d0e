package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
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

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of identity.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id int64) (*identity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID string) ([]identity.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindPrimaryByUser(ctx context.Context, userID string) (*identity.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, addr *identity.Address) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockAddressRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAvatarStorage is a mock implementation of AvatarStorage
type MockAvatarStorage struct {
	mock.Mock
}

func (m *MockAvatarStorage) UploadImage(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func (m *MockAvatarStorage) DeleteImage(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testIdentity() Identity {
	return Identity{UserID: "auth0|abc", Email: "ana@example.com", Name: "Ana Souza"}
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps the local mirror on first contact", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockAvatarStorage), zap.NewNop())
		userRepo.On("FindByID", mock.Anything, "auth0|abc").Return(nil, shared.ErrNotFound)

		var saved *identity.User
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.User) }).
			Return(nil)

		resp, err := svc.GetProfile(ctx, testIdentity())
		require.NoError(t, err)
		assert.Equal(t, "auth0|abc", resp.ID)
		assert.Equal(t, "ana@example.com", resp.Email)
		assert.Equal(t, identity.RoleCustomer, resp.Role)
		require.NotNil(t, saved)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockAvatarStorage), zap.NewNop())
		_, err := svc.GetProfile(ctx, Identity{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeUnauthorized, domainErr.Code)
	})
}

func TestUserService_UpsertProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the mutable fields", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockAvatarStorage), zap.NewNop())
		existing, _ := identity.NewUser("auth0|abc", "Ana", "ana@example.com")
		userRepo.On("FindByID", mock.Anything, "auth0|abc").Return(existing, nil)
		userRepo.On("Save", mock.Anything, existing).Return(nil)

		resp, err := svc.UpsertProfile(ctx, testIdentity(), UpsertProfileRequest{
			Name:      "Ana Paula Souza",
			Phone:     "11999990000",
			CPF:       "12345678901",
			BirthDate: "1994-03-20",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana Paula Souza", resp.Name)
		assert.Equal(t, "11999990000", resp.Phone)
		assert.Equal(t, "1994-03-20", resp.BirthDate)
	})

	t.Run("rejects a malformed birth date", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockAvatarStorage), zap.NewNop())
		existing, _ := identity.NewUser("auth0|abc", "Ana", "ana@example.com")
		userRepo.On("FindByID", mock.Anything, "auth0|abc").Return(existing, nil)

		_, err := svc.UpsertProfile(ctx, testIdentity(), UpsertProfileRequest{BirthDate: "20/03/1994"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})
}

func TestUserService_UploadAvatar(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	storage := new(MockAvatarStorage)
	svc := NewUserService(userRepo, storage, zap.NewNop())
	existing, _ := identity.NewUser("auth0|abc", "Ana", "ana@example.com")
	userRepo.On("FindByID", mock.Anything, "auth0|abc").Return(existing, nil)
	storage.On("UploadImage", mock.Anything, "avatars/auth0|abc.jpg", []byte{1}).
		Return("https://cdn.example.com/avatars/abc.jpg", nil)
	userRepo.On("Save", mock.Anything, existing).Return(nil)

	resp, err := svc.UploadAvatar(ctx, testIdentity(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/abc.jpg", resp.AvatarURL)
}

func TestAddressService(t *testing.T) {
	ctx := context.Background()

	t.Run("first address becomes primary", func(t *testing.T) {
		addressRepo := new(MockAddressRepository)
		svc := NewAddressService(addressRepo, zap.NewNop())
		addressRepo.On("CountByUser", mock.Anything, "u1").Return(int64(0), nil)

		var saved *identity.Address
		addressRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Address")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.Address) }).
			Return(nil)

		resp, err := svc.Create(ctx, "u1", SaveAddressRequest{
			Cep:        "01310-100",
			Logradouro: "Av. Paulista",
			Numero:     "1000",
			Cidade:     "São Paulo",
			Estado:     "SP",
		})
		require.NoError(t, err)
		assert.True(t, resp.Principal)
		require.NotNil(t, saved)
		assert.True(t, saved.Primary)
	})

	t.Run("later addresses keep the requested flag", func(t *testing.T) {
		addressRepo := new(MockAddressRepository)
		svc := NewAddressService(addressRepo, zap.NewNop())
		addressRepo.On("CountByUser", mock.Anything, "u1").Return(int64(2), nil)
		addressRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Address")).Return(nil)

		resp, err := svc.Create(ctx, "u1", SaveAddressRequest{
			Cep:        "01310-100",
			Logradouro: "Rua Augusta",
			Cidade:     "São Paulo",
			Estado:     "SP",
		})
		require.NoError(t, err)
		assert.False(t, resp.Principal)
	})

	t.Run("update rejects a foreign address", func(t *testing.T) {
		addressRepo := new(MockAddressRepository)
		svc := NewAddressService(addressRepo, zap.NewNop())
		foreign, _ := identity.NewAddress("u2", "01310-100", "Av. Paulista", "1", "São Paulo", "SP")
		foreign.ID = 7
		addressRepo.On("FindByID", mock.Anything, int64(7)).Return(foreign, nil)

		_, err := svc.Update(ctx, "u1", 7, SaveAddressRequest{
			Cep: "x", Logradouro: "y", Cidade: "z", Estado: "SP",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeForbidden, domainErr.Code)
	})

	t.Run("set primary", func(t *testing.T) {
		addressRepo := new(MockAddressRepository)
		svc := NewAddressService(addressRepo, zap.NewNop())
		addr, _ := identity.NewAddress("u1", "01310-100", "Av. Paulista", "1", "São Paulo", "SP")
		addr.ID = 3
		addressRepo.On("FindByID", mock.Anything, int64(3)).Return(addr, nil)
		addressRepo.On("Save", mock.Anything, addr).Return(nil)

		resp, err := svc.SetPrimary(ctx, "u1", 3)
		require.NoError(t, err)
		assert.True(t, resp.Principal)
	})
}
