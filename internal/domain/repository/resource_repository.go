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

type ResourceRepository interface {
	Create(ctx context.Context, res *model.Resource) error
	FindByID(ctx context.Context, id int64) (*model.Resource, error)
	List(ctx context.Context) ([]model.Resource, error)
	Update(ctx context.Context, res *model.Resource) error
	Delete(ctx context.Context, id int64) error
	SlugTaken(ctx context.Context, slug string) (bool, error)
}

type pgResourceRepository struct {
	db *sql.DB
}

func NewPgResourceRepository(db *sql.DB) ResourceRepository {
	return &pgResourceRepository{db: db}
}

const resourceColumns = `id, title, slug, description, link, content, resource_type, user_id, created_at, updated_at`

func scanResource(row interface{ Scan(...any) error }) (*model.Resource, error) {
	res := &model.Resource{}
	err := row.Scan(
		&res.ID, &res.Title, &res.Slug, &res.Description, &res.Link, &res.Content,
		&res.ResourceType, &res.UserID, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *pgResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	query := `INSERT INTO resources (title, slug, description, link, content, resource_type, user_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		res.Title, res.Slug, res.Description, res.Link, res.Content, res.ResourceType, res.UserID,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("resource slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgResourceRepository.Create: %w", err)
	}
	return nil
}

func (r *pgResourceRepository) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgResourceRepository.FindByID: %w", err)
	}
	return res, err
}

func (r *pgResourceRepository) List(ctx context.Context) ([]model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgResourceRepository.List: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("pgResourceRepository.List: %w", err)
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

func (r *pgResourceRepository) Update(ctx context.Context, res *model.Resource) error {
	query := `UPDATE resources
	          SET title = $2, description = $3, link = $4, content = $5, resource_type = $6, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		res.ID, res.Title, res.Description, res.Link, res.Content, res.ResourceType,
	).Scan(&res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgResourceRepository.Update: %w", err)
	}
	return nil
}

func (r *pgResourceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgResourceRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgResourceRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM resources WHERE slug = $1)`, slug).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("pgResourceRepository.SlugTaken: %w", err)
	}
	return taken, nil
}
