package service

import (
	"context"
	"testing"

	"codeclub/internal/common"
	"codeclub/internal/domain/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	svc := NewResourceService(store.Resources())

	res, err := svc.CreateResource(ctx, admin.ID, CreateResourceRequest{
		Title:        "Dynamic Programming Primer",
		Link:         "https://example.org/dp",
		ResourceType: "article",
	})
	require.NoError(t, err)
	assert.Equal(t, "dynamic-programming-primer", res.Slug)

	link := "https://example.org/dp-v2"
	updated, err := svc.UpdateResource(ctx, res.ID, UpdateResourceRequest{Link: &link})
	require.NoError(t, err)
	assert.Equal(t, link, updated.Link)
	assert.Equal(t, res.Title, updated.Title)

	require.NoError(t, svc.DeleteResource(ctx, res.ID))
	_, err = svc.GetResource(ctx, res.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateResourceValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	svc := NewResourceService(store.Resources())

	_, err := svc.CreateResource(ctx, admin.ID, CreateResourceRequest{Link: "https://example.org"})
	assert.ErrorIs(t, err, common.ErrValidation)

	// A resource needs either a link or inline content.
	_, err = svc.CreateResource(ctx, admin.ID, CreateResourceRequest{Title: "Empty"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateResource(ctx, admin.ID, CreateResourceRequest{Title: "Notes", Content: "inline notes"})
	assert.NoError(t, err)
}
