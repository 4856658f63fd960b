package service

import (
	"context"
	"testing"
	"time"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	svc := NewEventService(store.Events())

	tests := []struct {
		name string
		req  CreateEventRequest
	}{
		{"missing title", CreateEventRequest{EventType: model.EventTypeMeetup, Date: time.Now()}},
		{"missing type", CreateEventRequest{Title: "t", Date: time.Now()}},
		{"bad type", CreateEventRequest{Title: "t", EventType: "hackathon", Date: time.Now()}},
		{"missing date", CreateEventRequest{Title: "t", EventType: model.EventTypeMeetup}},
		{"negative duration", CreateEventRequest{Title: "t", EventType: model.EventTypeMeetup, Date: time.Now(), DurationMinutes: -5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, admin.ID, tc.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestListEventsOrderedByDate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	svc := NewEventService(store.Events())

	later, err := svc.CreateEvent(ctx, admin.ID, CreateEventRequest{
		Title: "Later", EventType: model.EventTypeWorkshop,
		Date: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	earlier, err := svc.CreateEvent(ctx, admin.ID, CreateEventRequest{
		Title: "Earlier", EventType: model.EventTypeMeetup,
		Date: time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, earlier.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	alice := seedUser(t, store, "alice")
	event := seedContest(t, store, admin.ID, "Open Night")
	svc := NewEventService(store.Events())

	reg, err := svc.RegisterUser(ctx, event.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, reg.UserID)

	// Second attempt fails instead of producing a duplicate row.
	_, err = svc.RegisterUser(ctx, event.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	regs, err := svc.ListRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	alice := seedUser(t, store, "alice")
	event := seedContest(t, store, admin.ID, "Open Night")
	svc := NewEventService(store.Events())

	_, err := svc.RegisterUser(ctx, event.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.UnregisterUser(ctx, event.ID, alice.ID))

	// Not registered anymore.
	err = svc.UnregisterUser(ctx, event.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Re-registering after unregister is allowed.
	_, err = svc.RegisterUser(ctx, event.ID, alice.ID)
	assert.NoError(t, err)
}

func TestRegisterUnknownEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	alice := seedUser(t, store, "alice")
	svc := NewEventService(store.Events())

	_, err := svc.RegisterUser(ctx, 77, alice.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.ListRegistrations(ctx, 77)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteEventWithResultsRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	alice := seedUser(t, store, "alice")
	event := seedContest(t, store, admin.ID, "Scored Sprint")
	svc := NewEventService(store.Events())

	require.NoError(t, store.Contests().CreateResult(ctx, &model.ContestResult{
		EventID: event.ID, UserID: alice.ID, Score: 50,
	}))

	// Recorded scores keep feeding the leaderboard, so the event stays.
	err := svc.DeleteEvent(ctx, event.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	kept, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, kept.ID)

	// An event without results deletes fine.
	other := seedContest(t, store, admin.ID, "Unscored Night")
	require.NoError(t, svc.DeleteEvent(ctx, other.ID))
}

func TestUpdateEventPartial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin")
	event := seedContest(t, store, admin.ID, "Original")
	svc := NewEventService(store.Events())

	location := "Room 42"
	updated, err := svc.UpdateEvent(ctx, event.ID, UpdateEventRequest{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Room 42", updated.Location)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, model.EventTypeContest, updated.EventType)

	badType := "festival"
	_, err = svc.UpdateEvent(ctx, event.ID, UpdateEventRequest{EventType: &badType})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.UpdateEvent(ctx, 999, UpdateEventRequest{Location: &location})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
