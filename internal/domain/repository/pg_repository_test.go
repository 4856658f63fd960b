package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/platform/config"
	"codeclub/internal/platform/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the Pg* repositories against a live database and are skipped
// by default. Set STORE_BACKEND=postgres (with the usual DB_* variables) to
// enable them.
func pgSetup(t *testing.T) {
	t.Helper()
	if os.Getenv("STORE_BACKEND") != config.BackendPostgres {
		t.Skip("set STORE_BACKEND=postgres to run database tests")
	}
	if database.DB == nil {
		config.Load()
		database.Connect()
		require.NoError(t, database.RunMigrations())
	}
}

func pgSeedUser(t *testing.T, name string) *model.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := &model.User{
		Username:       name + "-" + suffix,
		DisplayName:    name,
		Email:          name + "-" + suffix + "@club.test",
		HashedPassword: "x",
		Role:           model.RoleMember,
		Level:          model.LevelBeginner,
	}
	require.NoError(t, NewPgUserRepository(database.DB).Create(context.Background(), user))
	t.Cleanup(func() {
		database.DB.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func TestPgSetBestAnswerReassignment(t *testing.T) {
	pgSetup(t)
	ctx := context.Background()
	repo := NewPgForumRepository(database.DB)

	author := pgSeedUser(t, "author")
	post := &model.ForumPost{
		Title:   "Fast IO",
		Slug:    "fast-io-" + uuid.NewString()[:8],
		Content: "how?",
		UserID:  author.ID,
	}
	require.NoError(t, repo.CreatePost(ctx, post))
	t.Cleanup(func() {
		repo.DeletePost(ctx, post.ID)
	})

	first := &model.ForumReply{PostID: post.ID, UserID: author.ID, Content: "bufio"}
	require.NoError(t, repo.CreateReply(ctx, first))
	second := &model.ForumReply{PostID: post.ID, UserID: author.ID, Content: "fmt is fine"}
	require.NoError(t, repo.CreateReply(ctx, second))

	require.NoError(t, repo.SetBestAnswer(ctx, post.ID, first.ID))
	// Reassigning must clear the old best answer without tripping the partial
	// unique index on forum_replies(post_id) WHERE is_best_answer.
	require.NoError(t, repo.SetBestAnswer(ctx, post.ID, second.ID))

	replies, err := repo.ListRepliesByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	for _, reply := range replies {
		assert.Equal(t, reply.ID == second.ID, reply.IsBestAnswer, "reply %d", reply.ID)
	}

	// Marking the current best answer again is a no-op.
	require.NoError(t, repo.SetBestAnswer(ctx, post.ID, second.ID))

	// A reply id paired with the wrong post is rejected.
	err = repo.SetBestAnswer(ctx, post.ID+1, second.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgDeleteEventWithResultsRejected(t *testing.T) {
	pgSetup(t)
	ctx := context.Background()
	events := NewPgEventRepository(database.DB)
	contests := NewPgContestRepository(database.DB)

	organizer := pgSeedUser(t, "organizer")
	event := &model.Event{
		Title:     "Scored Sprint",
		EventType: model.EventTypeContest,
		Date:      time.Now().UTC(),
		CreatedBy: organizer.ID,
	}
	require.NoError(t, events.Create(ctx, event))
	t.Cleanup(func() {
		database.DB.Exec(`DELETE FROM contest_results WHERE event_id = $1`, event.ID)
		events.Delete(ctx, event.ID)
	})

	result := &model.ContestResult{EventID: event.ID, UserID: organizer.ID, Score: 10}
	require.NoError(t, contests.CreateResult(ctx, result))

	err := events.Delete(ctx, event.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	// The event and its result are both still there.
	_, err = events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	results, err := contests.ListResultsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
