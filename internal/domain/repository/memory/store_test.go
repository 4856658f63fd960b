package memory

import (
	"context"
	"testing"
	"time"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@club.test",
		Role:        model.RoleMember,
		Level:       model.LevelBeginner,
	}
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

func TestAutoIncrementPerEntity(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")
	assert.Equal(t, int64(1), user.ID)

	event := &model.Event{Title: "e", EventType: model.EventTypeMeetup, Date: time.Now(), CreatedBy: user.ID}
	require.NoError(t, s.Events().Create(ctx, event))
	// Counters are independent per entity type.
	assert.Equal(t, int64(1), event.ID)

	second := addUser(t, s, "bob")
	assert.Equal(t, int64(2), second.ID)
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	addUser(t, s, "alice")

	err := s.Users().Create(ctx, &model.User{Username: "alice", Email: "x@club.test"})
	assert.ErrorIs(t, err, common.ErrConflict)
	err = s.Users().Create(ctx, &model.User{Username: "other", Email: "alice@club.test"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")

	got, err := s.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	got.DisplayName = "mutated"

	again, err := s.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.DisplayName)
}

func TestPostTagFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")

	mk := func(title string, tags []string) *model.ForumPost {
		post := &model.ForumPost{Title: title, Slug: title, Content: "c", UserID: user.ID, Tags: tags}
		require.NoError(t, s.Forum().CreatePost(ctx, post))
		return post
	}
	first := mk("first", []string{"go"})
	second := mk("second", []string{"go", "algorithms"})
	mk("third", []string{"python"})

	posts, err := s.Forum().ListPosts(ctx, "go")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Newest first.
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	all, err := s.Forum().ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepliesOrderedOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")
	post := &model.ForumPost{Title: "q", Slug: "q", Content: "?", UserID: user.ID}
	require.NoError(t, s.Forum().CreatePost(ctx, post))

	var ids []int64
	for _, content := range []string{"a", "b", "c"} {
		reply := &model.ForumReply{PostID: post.ID, UserID: user.ID, Content: content}
		require.NoError(t, s.Forum().CreateReply(ctx, reply))
		ids = append(ids, reply.ID)
	}

	replies, err := s.Forum().ListRepliesByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, replies, 3)
	for i, reply := range replies {
		assert.Equal(t, ids[i], reply.ID)
	}
}

func TestReplyToMissingPost(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")

	reply := &model.ForumReply{PostID: 42, UserID: user.ID, Content: "hello?"}
	err := s.Forum().CreateReply(ctx, reply)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestViewsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")
	post := &model.ForumPost{Title: "q", Slug: "q", Content: "?", UserID: user.ID}
	require.NoError(t, s.Forum().CreatePost(ctx, post))

	for want := 1; want <= 5; want++ {
		views, err := s.Forum().IncrementPostViews(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, want, views)
	}

	_, err := s.Forum().IncrementPostViews(ctx, 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteEventDropsRegistrations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")
	event := &model.Event{Title: "e", EventType: model.EventTypeMeetup, Date: time.Now(), CreatedBy: user.ID}
	require.NoError(t, s.Events().Create(ctx, event))

	_, err := s.Events().Register(ctx, event.ID, user.ID)
	require.NoError(t, err)
	require.NoError(t, s.Events().Delete(ctx, event.ID))

	regs, err := s.Events().ListRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, regs)

	// The pair is free again if the event id were reused.
	err = s.Events().Unregister(ctx, event.ID, user.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	user := addUser(t, s, "alice")
	post := &model.ForumPost{Title: "q", Slug: "q", Content: "?", UserID: user.ID}
	require.NoError(t, s.Forum().CreatePost(ctx, post))
	_, err := s.Forum().IncrementPostViews(ctx, post.ID)
	require.NoError(t, err)

	edit := *post
	edit.Title = "edited"
	edit.Views = 999 // must be ignored
	edit.UserID = 12345
	require.NoError(t, s.Forum().UpdatePost(ctx, &edit))

	got, err := s.Forum().FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, 1, got.Views)
	assert.Equal(t, user.ID, got.UserID)
}
