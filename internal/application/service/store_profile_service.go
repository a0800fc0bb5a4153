package service

import (
	"context"
	"strings"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/repository"
	"github.com/sangkips/investify-receipts/internal/receipt"
	"github.com/sangkips/investify-receipts/pkg/apperror"
)

// StoreProfileService handles the store identity printed on receipts
type StoreProfileService struct {
	profileRepo repository.StoreProfileRepository
}

// NewStoreProfileService creates a new store profile service
func NewStoreProfileService(profileRepo repository.StoreProfileRepository) *StoreProfileService {
	return &StoreProfileService{
		profileRepo: profileRepo,
	}
}

// StoreProfileView is the stored profile plus what a receipt will actually show
type StoreProfileView struct {
	Configured bool                `json:"configured"`
	Stored     *entity.StoreProfile `json:"stored,omitempty"`
	Effective  entity.StoreProfile  `json:"effective"`
}

// GetProfile retrieves the store profile; receipts use the built-in default until one is saved
func (s *StoreProfileService) GetProfile(ctx context.Context) (*StoreProfileView, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &StoreProfileView{
		Configured: profile != nil,
		Stored:     profile,
		Effective:  receipt.ResolveProfile(profile),
	}, nil
}

// UpdateStoreProfileInput represents the input for updating the store profile
type UpdateStoreProfileInput struct {
	Name     string
	Address  string
	Phone    string
	WhatsApp string
	TaxID    string
	Email    string
	Website  string
}

// UpdateProfile creates or updates the store profile
func (s *StoreProfileService) UpdateProfile(ctx context.Context, input *UpdateStoreProfileInput) (*StoreProfileView, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Store name is required"},
		})
	}

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	created := profile == nil
	if created {
		profile = &entity.StoreProfile{}
	}

	profile.Name = strings.TrimSpace(input.Name)
	profile.Address = strings.TrimSpace(input.Address)
	profile.Phone = strings.TrimSpace(input.Phone)
	profile.WhatsApp = strings.TrimSpace(input.WhatsApp)
	profile.TaxID = strings.TrimSpace(input.TaxID)
	profile.Email = strings.TrimSpace(input.Email)
	profile.Website = strings.TrimSpace(input.Website)

	if created {
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	} else {
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, err
		}
	}

	return &StoreProfileView{
		Configured: true,
		Stored:     profile,
		Effective:  receipt.ResolveProfile(profile),
	}, nil
}
