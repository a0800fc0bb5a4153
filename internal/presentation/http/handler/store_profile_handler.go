package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/application/service"
	"github.com/sangkips/investify-receipts/internal/presentation/http/dto/request"
	"github.com/sangkips/investify-receipts/internal/presentation/http/dto/response"
)

// StoreProfileHandler handles store profile requests
type StoreProfileHandler struct {
	profileService *service.StoreProfileService
}

// NewStoreProfileHandler creates a new store profile handler
func NewStoreProfileHandler(profileService *service.StoreProfileService) *StoreProfileHandler {
	return &StoreProfileHandler{profileService: profileService}
}

// GetProfile returns the stored and effective store profile
func (h *StoreProfileHandler) GetProfile(c *gin.Context) {
	view, err := h.profileService.GetProfile(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to retrieve store profile")
		return
	}
	response.OK(c, "Store profile retrieved", view)
}

// UpdateProfile creates or updates the store profile
func (h *StoreProfileHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateStoreProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.profileService.UpdateProfile(c.Request.Context(), &service.UpdateStoreProfileInput{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		WhatsApp: req.WhatsApp,
		TaxID:    req.TaxID,
		Email:    req.Email,
		Website:  req.Website,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Store profile updated", view)
}
