package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// ForumRepository holds posts and their replies. The two multi-row writes
// (best-answer reassignment, post delete with its replies) are single methods
// so each backend can make them atomic its own way.
type ForumRepository interface {
	CreatePost(ctx context.Context, post *model.ForumPost) error
	FindPostByID(ctx context.Context, id int64) (*model.ForumPost, error)
	ListPosts(ctx context.Context, tag string) ([]model.ForumPost, error)
	UpdatePost(ctx context.Context, post *model.ForumPost) error
	DeletePost(ctx context.Context, id int64) error
	IncrementPostViews(ctx context.Context, id int64) (int, error)
	PostSlugTaken(ctx context.Context, slug string) (bool, error)

	CreateReply(ctx context.Context, reply *model.ForumReply) error
	FindReplyByID(ctx context.Context, id int64) (*model.ForumReply, error)
	ListRepliesByPost(ctx context.Context, postID int64) ([]model.ForumReply, error)
	UpdateReply(ctx context.Context, reply *model.ForumReply) error
	DeleteReply(ctx context.Context, id int64) error

	// UpvoteReply counts at most one vote per user per reply; a repeat vote
	// yields common.ErrConflict. Returns the new vote count.
	UpvoteReply(ctx context.Context, replyID, voterID int64) (int, error)

	// SetBestAnswer marks the reply as the post's best answer and clears the
	// flag on every sibling in the same atomic operation.
	SetBestAnswer(ctx context.Context, postID, replyID int64) error
}

type pgForumRepository struct {
	db *sql.DB
}

func NewPgForumRepository(db *sql.DB) ForumRepository {
	return &pgForumRepository{db: db}
}

const postColumns = `id, title, slug, content, user_id, views, tags, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*model.ForumPost, error) {
	post := &model.ForumPost{}
	var tags []byte
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.UserID,
		&post.Views, &tags, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &post.Tags); err != nil {
			return nil, fmt.Errorf("decoding post tags: %w", err)
		}
	}
	return post, nil
}

func (r *pgForumRepository) CreatePost(ctx context.Context, post *model.ForumPost) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("encoding post tags: %w", err)
	}
	query := `INSERT INTO forum_posts (title, slug, content, user_id, tags)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, views, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		post.Title, post.Slug, post.Content, post.UserID, tags,
	).Scan(&post.ID, &post.Views, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("post slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgForumRepository.CreatePost: %w", err)
	}
	return nil
}

func (r *pgForumRepository) FindPostByID(ctx context.Context, id int64) (*model.ForumPost, error) {
	query := `SELECT ` + postColumns + ` FROM forum_posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgForumRepository.FindPostByID: %w", err)
	}
	return post, err
}

func (r *pgForumRepository) ListPosts(ctx context.Context, tag string) ([]model.ForumPost, error) {
	query := `SELECT ` + postColumns + ` FROM forum_posts ORDER BY created_at DESC, id DESC`
	args := []any{}
	if tag != "" {
		query = `SELECT ` + postColumns + ` FROM forum_posts WHERE tags @> $1 ORDER BY created_at DESC, id DESC`
		tagJSON, err := json.Marshal([]string{tag})
		if err != nil {
			return nil, fmt.Errorf("encoding tag filter: %w", err)
		}
		args = append(args, tagJSON)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgForumRepository.ListPosts: %w", err)
	}
	defer rows.Close()

	var posts []model.ForumPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("pgForumRepository.ListPosts: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *pgForumRepository) UpdatePost(ctx context.Context, post *model.ForumPost) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("encoding post tags: %w", err)
	}
	query := `UPDATE forum_posts
	          SET title = $2, content = $3, tags = $4, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Content, tags).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgForumRepository.UpdatePost: %w", err)
	}
	return nil
}

// DeletePost removes the post, its replies and their vote records in one
// transaction so no orphaned reply is ever observable.
func (r *pgForumRepository) DeletePost(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgForumRepository.DeletePost: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reply_upvotes WHERE reply_id IN (SELECT id FROM forum_replies WHERE post_id = $1)`, id); err != nil {
		return fmt.Errorf("pgForumRepository.DeletePost: upvotes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM forum_replies WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("pgForumRepository.DeletePost: replies: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgForumRepository.DeletePost: post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return tx.Commit()
}

func (r *pgForumRepository) IncrementPostViews(ctx context.Context, id int64) (int, error) {
	var views int
	err := r.db.QueryRowContext(ctx,
		`UPDATE forum_posts SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgForumRepository.IncrementPostViews: %w", err)
	}
	return views, nil
}

func (r *pgForumRepository) PostSlugTaken(ctx context.Context, slug string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM forum_posts WHERE slug = $1)`, slug).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("pgForumRepository.PostSlugTaken: %w", err)
	}
	return taken, nil
}

const replyColumns = `id, post_id, user_id, content, upvotes, is_best_answer, created_at, updated_at`

func scanReply(row interface{ Scan(...any) error }) (*model.ForumReply, error) {
	reply := &model.ForumReply{}
	err := row.Scan(
		&reply.ID, &reply.PostID, &reply.UserID, &reply.Content,
		&reply.Upvotes, &reply.IsBestAnswer, &reply.CreatedAt, &reply.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return reply, nil
}

func (r *pgForumRepository) CreateReply(ctx context.Context, reply *model.ForumReply) error {
	query := `INSERT INTO forum_replies (post_id, user_id, content)
	          VALUES ($1, $2, $3)
	          RETURNING id, upvotes, is_best_answer, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, reply.PostID, reply.UserID, reply.Content).Scan(
		&reply.ID, &reply.Upvotes, &reply.IsBestAnswer, &reply.CreatedAt, &reply.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // post gone
			return common.ErrNotFound
		}
		return fmt.Errorf("pgForumRepository.CreateReply: %w", err)
	}
	return nil
}

func (r *pgForumRepository) FindReplyByID(ctx context.Context, id int64) (*model.ForumReply, error) {
	query := `SELECT ` + replyColumns + ` FROM forum_replies WHERE id = $1`
	reply, err := scanReply(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgForumRepository.FindReplyByID: %w", err)
	}
	return reply, err
}

func (r *pgForumRepository) ListRepliesByPost(ctx context.Context, postID int64) ([]model.ForumReply, error) {
	query := `SELECT ` + replyColumns + ` FROM forum_replies WHERE post_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("pgForumRepository.ListRepliesByPost: %w", err)
	}
	defer rows.Close()

	var replies []model.ForumReply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, fmt.Errorf("pgForumRepository.ListRepliesByPost: %w", err)
		}
		replies = append(replies, *reply)
	}
	return replies, rows.Err()
}

func (r *pgForumRepository) UpdateReply(ctx context.Context, reply *model.ForumReply) error {
	query := `UPDATE forum_replies
	          SET content = $2, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, reply.ID, reply.Content).Scan(&reply.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgForumRepository.UpdateReply: %w", err)
	}
	return nil
}

func (r *pgForumRepository) DeleteReply(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgForumRepository.DeleteReply: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reply_upvotes WHERE reply_id = $1`, id); err != nil {
		return fmt.Errorf("pgForumRepository.DeleteReply: upvotes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM forum_replies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgForumRepository.DeleteReply: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return tx.Commit()
}

func (r *pgForumRepository) UpvoteReply(ctx context.Context, replyID, voterID int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgForumRepository.UpvoteReply: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reply_upvotes (reply_id, user_id) VALUES ($1, $2)`, replyID, voterID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, fmt.Errorf("user %d already upvoted reply %d: %w", voterID, replyID, common.ErrConflict)
			case "23503":
				return 0, common.ErrNotFound
			}
		}
		return 0, fmt.Errorf("pgForumRepository.UpvoteReply: vote: %w", err)
	}

	var upvotes int
	err = tx.QueryRowContext(ctx,
		`UPDATE forum_replies SET upvotes = upvotes + 1 WHERE id = $1 RETURNING upvotes`, replyID).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgForumRepository.UpvoteReply: count: %w", err)
	}
	return upvotes, tx.Commit()
}

func (r *pgForumRepository) SetBestAnswer(ctx context.Context, postID, replyID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgForumRepository.SetBestAnswer: begin: %w", err)
	}
	defer tx.Rollback()

	var isBest bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_best_answer FROM forum_replies WHERE id = $1 AND post_id = $2 FOR UPDATE`,
		replyID, postID).Scan(&isBest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgForumRepository.SetBestAnswer: lookup: %w", err)
	}
	if isBest {
		return tx.Commit()
	}

	// Demote before promoting: the partial unique index on
	// forum_replies(post_id) WHERE is_best_answer is non-deferrable, so the
	// previous best answer must release its index entry first.
	if _, err := tx.ExecContext(ctx,
		`UPDATE forum_replies SET is_best_answer = false, updated_at = now()
		 WHERE post_id = $1 AND is_best_answer`, postID); err != nil {
		return fmt.Errorf("pgForumRepository.SetBestAnswer: demote: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE forum_replies SET is_best_answer = true, updated_at = now()
		 WHERE id = $1`, replyID); err != nil {
		return fmt.Errorf("pgForumRepository.SetBestAnswer: promote: %w", err)
	}
	return tx.Commit()
}
