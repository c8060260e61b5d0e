// Package identity hosts the account profile and address book workflows.
// Authentication itself lives at the edge; tokens are issued by the external
// provider and only validated here.
package identity

import (
	"time"

	"github.com/icepoint/backend/internal/domain/identity"
)

// UpsertProfileRequest creates or updates the local mirror of an account
type UpsertProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birthDate"`
}

// ProfileResponse is the account wire shape
type ProfileResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	CPF       string        `json:"cpf,omitempty"`
	BirthDate string        `json:"birthDate,omitempty"`
	Role      identity.Role `json:"role"`
	AvatarURL string        `json:"avatarUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ToProfileResponse maps an account to its wire shape
func ToProfileResponse(u *identity.User) ProfileResponse {
	resp := ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CPF:       u.TaxID,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
	if u.BirthDate != nil {
		resp.BirthDate = u.BirthDate.Format("2006-01-02")
	}
	return resp
}

// SaveAddressRequest creates or replaces an address. Field names follow the
// Brazilian postal format used by the storefront.
type SaveAddressRequest struct {
	Cep         string `json:"cep" binding:"required,cep"`
	Logradouro  string `json:"logradouro" binding:"required"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade" binding:"required"`
	Estado      string `json:"estado" binding:"required,len=2"`
	Principal   bool   `json:"principal"`
}

// AddressResponse is the address wire shape
type AddressResponse struct {
	ID          int64  `json:"id"`
	Cep         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
	Principal   bool   `json:"principal"`
}

// ToAddressResponse maps an address to its wire shape
func ToAddressResponse(a *identity.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID,
		Cep:         a.PostalCode,
		Logradouro:  a.Street,
		Numero:      a.Number,
		Complemento: a.Complement,
		Bairro:      a.Neighborhood,
		Cidade:      a.City,
		Estado:      a.State,
		Principal:   a.Primary,
	}
}
