package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/icepoint/backend/internal/application/identity"
	"github.com/icepoint/backend/internal/interfaces/http/middleware"
)

// UserHandler handles profile and address endpoints
type UserHandler struct {
	BaseHandler
	userService    *identityapp.UserService
	addressService *identityapp.AddressService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, addressService *identityapp.AddressService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		addressService: addressService,
	}
}

// callerIdentity builds the identity snapshot from the validated token
func callerIdentity(c *gin.Context) identityapp.Identity {
	return identityapp.Identity{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetUserEmail(c),
		Name:   middleware.GetUserName(c),
	}
}

// GetProfile returns the caller's profile, bootstrapping the local mirror
// on first contact
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile updates the caller's profile fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req identityapp.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.userService.UpsertProfile(c.Request.Context(), callerIdentity(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// UploadAvatar replaces the caller's profile photo
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	data, err := readUpload(c, "avatar")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	profile, err := h.userService.UploadAvatar(c.Request.Context(), callerIdentity(c), data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// ListAddresses returns the caller's saved addresses
func (h *UserHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.addressService.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, addresses)
}

// CreateAddress saves a new delivery address
func (h *UserHandler) CreateAddress(c *gin.Context) {
	var req identityapp.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, address)
}

// UpdateAddress updates a saved address
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	var req identityapp.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), middleware.GetUserID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, address)
}

// SetPrimaryAddress marks a saved address as the default one
func (h *UserHandler) SetPrimaryAddress(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	address, err := h.addressService.SetPrimary(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, address)
}

// DeleteAddress removes a saved address
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
