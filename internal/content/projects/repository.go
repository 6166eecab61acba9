package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, title, description, tech_stack, status, team, github, demo,
	domain, image, student_id, year, approval_status, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &p.Status, &p.Team,
		&p.Github, &p.Demo, &p.Domain, &p.Image, &p.StudentID, &p.Year, &p.Approval,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Project, error) {
	query := `SELECT ` + columns + ` FROM projects`
	var args []any
	var where []string
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where = append(where, fmt.Sprintf("approval_status = ANY($%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM projects WHERE id = $1`, id)
	p, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, fmt.Errorf("%w: project %d", shared.ErrNotFound, id)
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, p Project) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (title, description, tech_stack, status, team, github, demo,
			domain, image, student_id, year, approval_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+columns,
		p.Title, p.Description, p.TechStack, p.Status, p.Team, p.Github, p.Demo,
		p.Domain, p.Image, p.StudentID, p.Year, p.Approval, p.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, p Project) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects SET title = $2, description = $3, tech_stack = $4, status = $5,
			team = $6, github = $7, demo = $8, domain = $9, image = $10, student_id = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		p.ID, p.Title, p.Description, p.TechStack, p.Status, p.Team, p.Github, p.Demo,
		p.Domain, p.Image, p.StudentID)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, fmt.Errorf("%w: project %d", shared.ErrNotFound, p.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %d", shared.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET approval_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set project %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %d", shared.ErrNotFound, id)
	}
	return nil
}
