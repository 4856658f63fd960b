package service

import (
	"context"
	"strings"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ForumService struct {
	forumRepo repository.ForumRepository
}

func NewForumService(forumRepo repository.ForumRepository) *ForumService {
	return &ForumService{forumRepo: forumRepo}
}

type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

type CreateReplyRequest struct {
	Content string `json:"content"`
}

type UpdateReplyRequest struct {
	Content *string `json:"content,omitempty"`
}

// canModify implements the owner-or-admin gate on forum content.
func canModify(ownerID, actorID int64, actorRole string) bool {
	return ownerID == actorID || actorRole == model.RoleAdmin
}

func (s *ForumService) CreatePost(ctx context.Context, userID int64, req CreatePostRequest) (*model.ForumPost, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, common.Errorf("title and content are required: %w", common.ErrValidation)
	}

	postSlug := slug.Make(req.Title)
	taken, err := s.forumRepo.PostSlugTaken(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if taken {
		postSlug = postSlug + "-" + uuid.NewString()[:8]
	}

	post := &model.ForumPost{
		Title:   req.Title,
		Slug:    postSlug,
		Content: req.Content,
		UserID:  userID,
		Tags:    req.Tags,
	}
	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns the post with its replies, bumping the view counter.
func (s *ForumService) GetPost(ctx context.Context, id int64) (*model.ForumPost, error) {
	views, err := s.forumRepo.IncrementPostViews(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.forumRepo.FindPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Views = views
	replies, err := s.forumRepo.ListRepliesByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	return post, nil
}

func (s *ForumService) ListPosts(ctx context.Context, tag string) ([]model.ForumPost, error) {
	return s.forumRepo.ListPosts(ctx, tag)
}

func (s *ForumService) UpdatePost(ctx context.Context, actorID int64, actorRole string, postID int64, req UpdatePostRequest) (*model.ForumPost, error) {
	post, err := s.forumRepo.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !canModify(post.UserID, actorID, actorRole) {
		return nil, common.ErrForbidden
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, common.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, common.Errorf("content cannot be empty: %w", common.ErrValidation)
		}
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}

	if err := s.forumRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ForumService) DeletePost(ctx context.Context, actorID int64, actorRole string, postID int64) error {
	post, err := s.forumRepo.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !canModify(post.UserID, actorID, actorRole) {
		return common.ErrForbidden
	}
	return s.forumRepo.DeletePost(ctx, postID)
}

func (s *ForumService) CreateReply(ctx context.Context, userID, postID int64, req CreateReplyRequest) (*model.ForumReply, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, common.Errorf("content is required: %w", common.ErrValidation)
	}

	reply := &model.ForumReply{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.forumRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ForumService) UpdateReply(ctx context.Context, actorID int64, actorRole string, replyID int64, req UpdateReplyRequest) (*model.ForumReply, error) {
	reply, err := s.forumRepo.FindReplyByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if !canModify(reply.UserID, actorID, actorRole) {
		return nil, common.ErrForbidden
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, common.Errorf("content cannot be empty: %w", common.ErrValidation)
		}
		reply.Content = *req.Content
	}

	if err := s.forumRepo.UpdateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ForumService) DeleteReply(ctx context.Context, actorID int64, actorRole string, replyID int64) error {
	reply, err := s.forumRepo.FindReplyByID(ctx, replyID)
	if err != nil {
		return err
	}
	if !canModify(reply.UserID, actorID, actorRole) {
		return common.ErrForbidden
	}
	return s.forumRepo.DeleteReply(ctx, replyID)
}

// UpvoteReply adds one vote; a user may vote a given reply at most once.
func (s *ForumService) UpvoteReply(ctx context.Context, voterID, replyID int64) (int, error) {
	return s.forumRepo.UpvoteReply(ctx, replyID, voterID)
}

// MarkBestAnswer designates the reply as the post's accepted answer. Only the
// post's author or an admin may do this; any previous best answer on the post
// is cleared in the same operation.
func (s *ForumService) MarkBestAnswer(ctx context.Context, actorID int64, actorRole string, postID, replyID int64) (*model.ForumReply, error) {
	post, err := s.forumRepo.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	if err := s.forumRepo.SetBestAnswer(ctx, postID, replyID); err != nil {
		return nil, err
	}
	return s.forumRepo.FindReplyByID(ctx, replyID)
}
