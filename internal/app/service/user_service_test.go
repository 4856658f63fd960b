package service

import (
	"context"
	"testing"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	alice := seedUser(t, store, "alice")
	svc := NewUserService(store.Users())

	name := "Alice L."
	level := model.LevelAdvanced
	updated, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileRequest{DisplayName: &name, Level: &level})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", updated.DisplayName)
	assert.Equal(t, model.LevelAdvanced, updated.Level)
	// Untouched fields survive a partial update.
	assert.Equal(t, "alice", updated.Username)

	bad := "grandmaster"
	_, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileRequest{Level: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	empty := ""
	_, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileRequest{DisplayName: &empty})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	alice := seedUser(t, store, "alice")
	svc := NewUserService(store.Users())

	updated, err := svc.ChangeRole(ctx, alice.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	_, err = svc.ChangeRole(ctx, alice.ID, "owner")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ChangeRole(ctx, 999, model.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListMembersOrderedByDisplayName(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewUserService(store.Users())

	for _, name := range []string{"zoe", "adam", "mona"} {
		seedUser(t, store, name)
	}

	users, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "adam", users[0].DisplayName)
	assert.Equal(t, "mona", users[1].DisplayName)
	assert.Equal(t, "zoe", users[2].DisplayName)
}
