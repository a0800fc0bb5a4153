package service

import (
	"context"
	"testing"

	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/receipt"
	"github.com/sangkips/investify-receipts/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreProfileService_GetProfileUnconfigured(t *testing.T) {
	svc := NewStoreProfileService(&fakeProfileRepo{})

	view, err := svc.GetProfile(context.Background())

	require.NoError(t, err)
	assert.False(t, view.Configured)
	assert.Nil(t, view.Stored)
	assert.Equal(t, receipt.DefaultStoreProfile(), view.Effective)
}

func TestStoreProfileService_UpdateCreatesThenUpdates(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewStoreProfileService(repo)

	view, err := svc.UpdateProfile(context.Background(), &UpdateStoreProfileInput{Name: " Corner Shop ", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.created)
	assert.True(t, view.Configured)
	assert.Equal(t, "Corner Shop", view.Stored.Name)
	assert.Equal(t, receipt.DefaultStoreProfile().Address, view.Effective.Address)

	_, err = svc.UpdateProfile(context.Background(), &UpdateStoreProfileInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.created)
	assert.Equal(t, 1, repo.updated)
	assert.Equal(t, "Renamed", repo.profile.Name)
	assert.Empty(t, repo.profile.Phone)
}

func TestStoreProfileService_UpdateRequiresName(t *testing.T) {
	repo := &fakeProfileRepo{profile: &entity.StoreProfile{Name: "Kept"}}
	svc := NewStoreProfileService(repo)

	_, err := svc.UpdateProfile(context.Background(), &UpdateStoreProfileInput{Name: "  "})

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "name", appErr.Errors[0].Field)
	assert.Equal(t, "Kept", repo.profile.Name)
}
