package memory

import (
	"context"
	"fmt"
	"sort"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
)

func clonePost(post *model.ForumPost) *model.ForumPost {
	clone := *post
	clone.Tags = append([]string(nil), post.Tags...)
	clone.Replies = nil
	return &clone
}

func (s *Store) CreatePost(ctx context.Context, post *model.ForumPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if existing.Slug == post.Slug {
			return fmt.Errorf("post slug already taken: %w", common.ErrConflict)
		}
	}

	post.ID = s.next("forum_post")
	post.Views = 0
	post.CreatedAt = now()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *Store) FindPostByID(ctx context.Context, id int64) (*model.ForumPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clonePost(post), nil
}

func (s *Store) ListPosts(ctx context.Context, tag string) ([]model.ForumPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []model.ForumPost
	for _, post := range s.posts {
		if tag != "" && !hasTag(post.Tags, tag) {
			continue
		}
		posts = append(posts, *clonePost(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *Store) UpdatePost(ctx context.Context, post *model.ForumPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.posts[post.ID]
	if !ok {
		return common.ErrNotFound
	}
	post.Slug = stored.Slug
	post.UserID = stored.UserID
	post.Views = stored.Views
	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = now()
	s.posts[post.ID] = clonePost(post)
	return nil
}

// DeletePost drops the post together with its replies and their vote records
// under one lock hold, so a concurrent reader never sees an orphaned reply.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.posts, id)
	for replyID, reply := range s.replies {
		if reply.PostID != id {
			continue
		}
		for key := range s.votes {
			if key.ReplyID == replyID {
				delete(s.votes, key)
			}
		}
		delete(s.replies, replyID)
	}
	return nil
}

func (s *Store) IncrementPostViews(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return 0, common.ErrNotFound
	}
	post.Views++
	return post.Views, nil
}

func (s *Store) PostSlugTaken(ctx context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateReply(ctx context.Context, reply *model.ForumReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[reply.PostID]; !ok {
		return common.ErrNotFound
	}

	reply.ID = s.next("forum_reply")
	reply.Upvotes = 0
	reply.IsBestAnswer = false
	reply.CreatedAt = now()
	reply.UpdatedAt = reply.CreatedAt
	clone := *reply
	s.replies[reply.ID] = &clone
	return nil
}

func (s *Store) FindReplyByID(ctx context.Context, id int64) (*model.ForumReply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reply, ok := s.replies[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *reply
	return &clone, nil
}

func (s *Store) ListRepliesByPost(ctx context.Context, postID int64) ([]model.ForumReply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var replies []model.ForumReply
	for _, reply := range s.replies {
		if reply.PostID == postID {
			replies = append(replies, *reply)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		if !replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		}
		return replies[i].ID < replies[j].ID
	})
	return replies, nil
}

func (s *Store) UpdateReply(ctx context.Context, reply *model.ForumReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.replies[reply.ID]
	if !ok {
		return common.ErrNotFound
	}
	reply.PostID = stored.PostID
	reply.UserID = stored.UserID
	reply.Upvotes = stored.Upvotes
	reply.IsBestAnswer = stored.IsBestAnswer
	reply.CreatedAt = stored.CreatedAt
	reply.UpdatedAt = now()
	clone := *reply
	s.replies[reply.ID] = &clone
	return nil
}

func (s *Store) DeleteReply(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.replies[id]; !ok {
		return common.ErrNotFound
	}
	for key := range s.votes {
		if key.ReplyID == id {
			delete(s.votes, key)
		}
	}
	delete(s.replies, id)
	return nil
}

func (s *Store) UpvoteReply(ctx context.Context, replyID, voterID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.replies[replyID]
	if !ok {
		return 0, common.ErrNotFound
	}
	key := voteKey{ReplyID: replyID, UserID: voterID}
	if _, voted := s.votes[key]; voted {
		return 0, fmt.Errorf("user %d already upvoted reply %d: %w", voterID, replyID, common.ErrConflict)
	}
	s.votes[key] = struct{}{}
	reply.Upvotes++
	return reply.Upvotes, nil
}

func (s *Store) SetBestAnswer(ctx context.Context, postID, replyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.replies[replyID]
	if !ok || reply.PostID != postID {
		return common.ErrNotFound
	}
	if reply.IsBestAnswer {
		return nil
	}
	for _, sibling := range s.replies {
		if sibling.PostID == postID && sibling.IsBestAnswer {
			sibling.IsBestAnswer = false
			sibling.UpdatedAt = now()
		}
	}
	reply.IsBestAnswer = true
	reply.UpdatedAt = now()
	return nil
}
