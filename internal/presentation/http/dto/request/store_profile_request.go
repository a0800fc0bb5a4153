package request

// UpdateStoreProfileRequest is the request body for updating the store profile
type UpdateStoreProfileRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Address  string `json:"address" binding:"max=255"`
	Phone    string `json:"phone" binding:"max=50"`
	WhatsApp string `json:"whatsapp" binding:"max=50"`
	TaxID    string `json:"tax_id" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Website  string `json:"website" binding:"max=255"`
}
