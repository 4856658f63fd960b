package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// ContestRepository stores per-event contest results and admin score
// adjustments; the leaderboard is aggregated from both.
type ContestRepository interface {
	CreateResult(ctx context.Context, result *model.ContestResult) error
	ListResults(ctx context.Context) ([]model.ContestResult, error)
	ListResultsByEvent(ctx context.Context, eventID int64) ([]model.ContestResult, error)
	CreateAdjustment(ctx context.Context, adj *model.ScoreAdjustment) error
	ListAdjustments(ctx context.Context) ([]model.ScoreAdjustment, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateResult(ctx context.Context, result *model.ContestResult) error {
	query := `INSERT INTO contest_results (event_id, user_id, score, position)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		result.EventID, result.UserID, result.Score, result.Position,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgContestRepository.CreateResult: %w", err)
	}
	return nil
}

func (r *pgContestRepository) ListResults(ctx context.Context) ([]model.ContestResult, error) {
	return r.listResults(ctx,
		`SELECT id, event_id, user_id, score, position, created_at FROM contest_results ORDER BY id`)
}

func (r *pgContestRepository) ListResultsByEvent(ctx context.Context, eventID int64) ([]model.ContestResult, error) {
	return r.listResults(ctx,
		`SELECT id, event_id, user_id, score, position, created_at FROM contest_results WHERE event_id = $1 ORDER BY score DESC, id`,
		eventID)
}

func (r *pgContestRepository) listResults(ctx context.Context, query string, args ...any) ([]model.ContestResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.listResults: %w", err)
	}
	defer rows.Close()

	var results []model.ContestResult
	for rows.Next() {
		var res model.ContestResult
		if err := rows.Scan(&res.ID, &res.EventID, &res.UserID, &res.Score, &res.Position, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgContestRepository.listResults: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *pgContestRepository) CreateAdjustment(ctx context.Context, adj *model.ScoreAdjustment) error {
	query := `INSERT INTO score_adjustments (user_id, delta, reason, created_by)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		adj.UserID, adj.Delta, adj.Reason, adj.CreatedBy,
	).Scan(&adj.ID, &adj.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgContestRepository.CreateAdjustment: %w", err)
	}
	return nil
}

func (r *pgContestRepository) ListAdjustments(ctx context.Context) ([]model.ScoreAdjustment, error) {
	query := `SELECT id, user_id, delta, reason, created_by, created_at FROM score_adjustments ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListAdjustments: %w", err)
	}
	defer rows.Close()

	var adjs []model.ScoreAdjustment
	for rows.Next() {
		var adj model.ScoreAdjustment
		if err := rows.Scan(&adj.ID, &adj.UserID, &adj.Delta, &adj.Reason, &adj.CreatedBy, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListAdjustments: %w", err)
		}
		adjs = append(adjs, adj)
	}
	return adjs, rows.Err()
}
