package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
)

// AddressService manages the caller's address book
type AddressService struct {
	addressRepo identity.AddressRepository
	logger      *zap.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo identity.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addressRepo: addressRepo, logger: logger}
}

// List returns the caller's addresses, primary first
func (s *AddressService) List(ctx context.Context, userID string) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		views = append(views, ToAddressResponse(&addresses[i]))
	}
	return views, nil
}

// Create adds an address. The first address of an account automatically
// becomes the primary one.
func (s *AddressService) Create(ctx context.Context, userID string, req SaveAddressRequest) (*AddressResponse, error) {
	addr, err := identity.NewAddress(userID, req.Cep, req.Logradouro, req.Numero, req.Cidade, req.Estado)
	if err != nil {
		return nil, err
	}
	addr.Complement = req.Complemento
	addr.Neighborhood = req.Bairro
	addr.Primary = req.Principal

	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		addr.Primary = true
	}

	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// Update replaces an address owned by the caller
func (s *AddressService) Update(ctx context.Context, userID string, id int64, req SaveAddressRequest) (*AddressResponse, error) {
	addr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	addr.PostalCode = req.Cep
	addr.Street = req.Logradouro
	addr.Number = req.Numero
	addr.Complement = req.Complemento
	addr.Neighborhood = req.Bairro
	addr.City = req.Cidade
	addr.State = req.Estado
	addr.Primary = req.Principal

	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// SetPrimary marks an address as the account's primary one
func (s *AddressService) SetPrimary(ctx context.Context, userID string, id int64) (*AddressResponse, error) {
	addr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	addr.Primary = true
	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(addr)
	return &resp, nil
}

// Delete removes an address owned by the caller
func (s *AddressService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.addressRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Address not found")
		}
		return err
	}
	return nil
}

func (s *AddressService) findOwned(ctx context.Context, userID string, id int64) (*identity.Address, error) {
	addr, err := s.addressRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Address not found")
		}
		return nil, err
	}
	if addr.UserID != userID {
		return nil, shared.NewForbiddenError("You do not have access to this address")
	}
	return addr, nil
}
