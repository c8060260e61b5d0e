package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
)

// AvatarStorage stores profile pictures and serves public URLs
type AvatarStorage interface {
	UploadImage(ctx context.Context, key string, data []byte) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// Identity is the token-derived identity of the caller
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// UserService manages the local mirror of provider accounts
type UserService struct {
	userRepo identity.UserRepository
	storage  AvatarStorage
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, storage AvatarStorage, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, storage: storage, logger: logger}
}

// GetProfile returns the caller's profile, creating the local mirror on
// first contact
func (s *UserService) GetProfile(ctx context.Context, ident Identity) (*ProfileResponse, error) {
	u, err := s.findOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(u)
	return &resp, nil
}

// UpsertProfile creates or updates the caller's profile
func (s *UserService) UpsertProfile(ctx context.Context, ident Identity, req UpsertProfileRequest) (*ProfileResponse, error) {
	u, err := s.findOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}

	var birth *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, shared.NewValidationError("Invalid birth date, expected YYYY-MM-DD")
		}
		birth = &parsed
	}

	u.UpdateProfile(req.Name, req.Phone, req.CPF, birth)
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

// UploadAvatar stores the profile picture and records its public URL
func (s *UserService) UploadAvatar(ctx context.Context, ident Identity, data []byte) (*ProfileResponse, error) {
	u, err := s.findOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.UploadImage(ctx, avatarKey(u.ID), data)
	if err != nil {
		return nil, err
	}

	u.SetAvatar(url)
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

// findOrCreate loads the local mirror or bootstraps it from the token
func (s *UserService) findOrCreate(ctx context.Context, ident Identity) (*identity.User, error) {
	if ident.UserID == "" {
		return nil, shared.NewUnauthorizedError("Missing user identity")
	}

	u, err := s.userRepo.FindByID(ctx, ident.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	u, err = identity.NewUser(ident.UserID, ident.Name, ident.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("account mirror created", zap.String("user_id", u.ID))
	return u, nil
}

func avatarKey(userID string) string {
	return fmt.Sprintf("avatars/%s.jpg", userID)
}
