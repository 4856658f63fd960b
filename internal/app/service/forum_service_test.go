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

func newForumFixture(t *testing.T) (*ForumService, *memory.Store, *model.User, *model.User, *model.User) {
	t.Helper()
	store := memory.NewStore()
	author := seedUser(t, store, "author")
	replier := seedUser(t, store, "replier")
	admin := seedUser(t, store, "boss")
	admin.Role = model.RoleAdmin
	require.NoError(t, store.Users().Update(context.Background(), admin))
	return NewForumService(store.Forum()), store, author, replier, admin
}

func TestCreatePostSlug(t *testing.T) {
	ctx := context.Background()
	svc, _, author, _, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{
		Title:   "How do I read input fast?",
		Content: "Scanner is slow for big inputs.",
		Tags:    []string{"go", "io"},
	})
	require.NoError(t, err)
	assert.Equal(t, "how-do-i-read-input-fast", post.Slug)

	// Same title gets a suffixed slug instead of a conflict.
	other, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{
		Title:   "How do I read input fast?",
		Content: "Asking again.",
	})
	require.NoError(t, err)
	assert.NotEqual(t, post.Slug, other.Slug)
	assert.Contains(t, other.Slug, "how-do-i-read-input-fast-")
}

func TestGetPostIncrementsViews(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	_, err = svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "first"})
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	require.Len(t, got.Replies, 1)

	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
}

func TestBestAnswerReassignment(t *testing.T) {
	ctx := context.Background()
	svc, store, author, replier, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)
	replyA, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "answer A"})
	require.NoError(t, err)
	replyB, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "answer B"})
	require.NoError(t, err)

	marked, err := svc.MarkBestAnswer(ctx, author.ID, model.RoleMember, post.ID, replyA.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsBestAnswer)

	// Marking B clears A in the same operation.
	marked, err = svc.MarkBestAnswer(ctx, author.ID, model.RoleMember, post.ID, replyB.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsBestAnswer)

	replies, err := store.Forum().ListRepliesByPost(ctx, post.ID)
	require.NoError(t, err)
	best := 0
	for _, reply := range replies {
		if reply.IsBestAnswer {
			best++
			assert.Equal(t, replyB.ID, reply.ID)
		}
	}
	assert.Equal(t, 1, best)
}

func TestBestAnswerIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "a"})
	require.NoError(t, err)

	_, err = svc.MarkBestAnswer(ctx, author.ID, model.RoleMember, post.ID, reply.ID)
	require.NoError(t, err)
	marked, err := svc.MarkBestAnswer(ctx, author.ID, model.RoleMember, post.ID, reply.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsBestAnswer)
}

func TestBestAnswerPermissions(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, admin := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "a"})
	require.NoError(t, err)

	// The replier is not the post author.
	_, err = svc.MarkBestAnswer(ctx, replier.ID, model.RoleMember, post.ID, reply.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// Admins may mark on any post.
	_, err = svc.MarkBestAnswer(ctx, admin.ID, model.RoleAdmin, post.ID, reply.ID)
	assert.NoError(t, err)
}

func TestBestAnswerWrongPost(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q1", Content: "?"})
	require.NoError(t, err)
	other, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q2", Content: "?"})
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, replier.ID, other.ID, CreateReplyRequest{Content: "a"})
	require.NoError(t, err)

	_, err = svc.MarkBestAnswer(ctx, author.ID, model.RoleMember, post.ID, reply.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	svc, store, author, replier, _ := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "a"})
	require.NoError(t, err)
	_, err = svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, author.ID, model.RoleMember, post.ID))

	_, err = store.Forum().FindPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = store.Forum().FindReplyByID(ctx, reply.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	replies, err := store.Forum().ListRepliesByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestPostOwnerOrAdminGate(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, admin := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)

	newTitle := "edited"
	_, err = svc.UpdatePost(ctx, replier.ID, model.RoleMember, post.ID, UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := svc.UpdatePost(ctx, admin.ID, model.RoleAdmin, post.ID, UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)

	err = svc.DeletePost(ctx, replier.ID, model.RoleMember, post.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.NoError(t, svc.DeletePost(ctx, author.ID, model.RoleMember, post.ID))
}

func TestUpvoteDeduplication(t *testing.T) {
	ctx := context.Background()
	svc, _, author, replier, admin := newForumFixture(t)

	post, err := svc.CreatePost(ctx, author.ID, CreatePostRequest{Title: "q", Content: "?"})
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, replier.ID, post.ID, CreateReplyRequest{Content: "a"})
	require.NoError(t, err)

	upvotes, err := svc.UpvoteReply(ctx, author.ID, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, upvotes)

	// Same voter again: rejected, count unchanged.
	_, err = svc.UpvoteReply(ctx, author.ID, reply.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	upvotes, err = svc.UpvoteReply(ctx, admin.ID, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, upvotes)

	_, err = svc.UpvoteReply(ctx, author.ID, 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
