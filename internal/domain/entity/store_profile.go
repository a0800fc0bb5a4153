package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreProfile is the store identity printed in every receipt header
type StoreProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255" json:"name"`
	Address  string `gorm:"size:255" json:"address"`
	Phone    string `gorm:"size:50" json:"phone"`
	WhatsApp string `gorm:"size:50" json:"whatsapp"`

	// Optional lines
	TaxID   string `gorm:"size:50" json:"tax_id,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Website string `gorm:"size:255" json:"website,omitempty"`
}

// BeforeCreate generates a UUID before creating a new profile
func (p *StoreProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreProfile model
func (StoreProfile) TableName() string {
	return "store_profiles"
}
