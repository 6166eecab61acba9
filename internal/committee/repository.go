package committee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/settings"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const membershipColumns = `
	m.id, m.user_id, m.role_id, m.year, m.created_at,
	u.name, u.email, r.name, r.is_president`

const membershipJoins = `
	FROM committee_memberships m
	JOIN users u ON u.id = m.user_id
	JOIN roles r ON r.id = m.role_id`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMembership(row pgx.Row) (Membership, error) {
	var m Membership
	err := row.Scan(&m.ID, &m.UserID, &m.RoleID, &m.Year, &m.CreatedAt,
		&m.UserName, &m.UserEmail, &m.RoleName, &m.IsPresident)
	return m, err
}

// List returns memberships ordered newest year first, then by member name.
// A nil year returns every year.
func (r *Repository) List(ctx context.Context, year *int) ([]Membership, error) {
	query := `SELECT` + membershipColumns + membershipJoins
	args := []any{}
	if year != nil {
		query += ` WHERE m.year = $1`
		args = append(args, *year)
	}
	query += ` ORDER BY m.year DESC, u.name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MembershipFor returns the membership of a user in a year, or nil when the
// user holds none.
func (r *Repository) MembershipFor(ctx context.Context, userID int64, year int) (*Membership, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT`+membershipColumns+membershipJoins+` WHERE m.user_id = $1 AND m.year = $2`,
		userID, year)
	m, err := scanMembership(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("membership for user %d year %d: %w", userID, year, err)
	}
	return &m, nil
}

// Assign upserts the membership for (user, year), replacing the role when one
// already exists.
func (r *Repository) Assign(ctx context.Context, userID, roleID int64, year int) (Membership, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO committee_memberships (user_id, role_id, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, year) DO UPDATE SET role_id = EXCLUDED.role_id
		RETURNING id`,
		userID, roleID, year).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Membership{}, fmt.Errorf("%w: user or role does not exist", shared.ErrNotFound)
		}
		return Membership{}, fmt.Errorf("assign membership: %w", err)
	}

	row := r.pool.QueryRow(ctx, `SELECT`+membershipColumns+membershipJoins+` WHERE m.id = $1`, id)
	m, err := scanMembership(row)
	if err != nil {
		return Membership{}, fmt.Errorf("reload membership %d: %w", id, err)
	}
	return m, nil
}

// CurrentRole resolves the role and page names granted to a user in a year.
// Returns nil when the user has no membership that year.
func (r *Repository) CurrentRole(ctx context.Context, userID int64, year int) (*RoleGrant, error) {
	var g RoleGrant
	err := r.pool.QueryRow(ctx, `
		SELECT r.id, r.name, r.is_president
		FROM committee_memberships m
		JOIN roles r ON r.id = m.role_id
		WHERE m.user_id = $1 AND m.year = $2`,
		userID, year).Scan(&g.RoleID, &g.RoleName, &g.IsPresident)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current role for user %d: %w", userID, err)
	}
	g.Year = year

	rows, err := r.pool.Query(ctx, `
		SELECT p.name
		FROM role_pages rp
		JOIN pages p ON p.id = rp.page_id
		WHERE rp.role_id = $1
		ORDER BY p.name`, g.RoleID)
	if err != nil {
		return nil, fmt.Errorf("role pages for role %d: %w", g.RoleID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role page: %w", err)
		}
		g.Pages = append(g.Pages, name)
	}
	return &g, rows.Err()
}

// HandoverTx is the unit of work the yearly transition runs inside. All
// statements share one serialized transaction.
type HandoverTx interface {
	CurrentYear(ctx context.Context) (int, error)
	SetCurrentYear(ctx context.Context, year int) error
	ListByYear(ctx context.Context, year int) ([]Membership, error)
	DeleteByYear(ctx context.Context, year int) (int, error)
	ArchiveToAlumni(ctx context.Context, m Membership) error
	PresidentRoleID(ctx context.Context) (int64, error)
	UserEmail(ctx context.Context, userID int64) (string, error)
	Assign(ctx context.Context, userID, roleID int64, year int) error
}

// WithHandoverTx runs fn inside a transaction holding the handover advisory
// lock, so concurrent transitions serialize instead of interleaving.
func (r *Repository) WithHandoverTx(ctx context.Context, fn func(HandoverTx) error) error {
	return db.WithAdvisoryTxLock(ctx, r.pool, shared.HandoverLockID, func(tx pgx.Tx) error {
		return fn(&handoverTx{tx: tx})
	})
}

type handoverTx struct {
	tx pgx.Tx
}

// CurrentYear delegates to the settings store bound to this transaction, so
// a handover on a fresh database gets the same calendar-year bootstrap as
// the settings endpoint instead of a not-found error.
func (h *handoverTx) CurrentYear(ctx context.Context) (int, error) {
	year, err := settings.NewStore(h.tx).CurrentYear(ctx)
	if err != nil {
		return 0, fmt.Errorf("read current year: %w", err)
	}
	return year, nil
}

func (h *handoverTx) SetCurrentYear(ctx context.Context, year int) error {
	if err := settings.NewStore(h.tx).SetCurrentYear(ctx, year); err != nil {
		return fmt.Errorf("set current year: %w", err)
	}
	return nil
}

func (h *handoverTx) ListByYear(ctx context.Context, year int) ([]Membership, error) {
	rows, err := h.tx.Query(ctx,
		`SELECT`+membershipColumns+membershipJoins+` WHERE m.year = $1 ORDER BY u.name`, year)
	if err != nil {
		return nil, fmt.Errorf("list memberships for %d: %w", year, err)
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (h *handoverTx) DeleteByYear(ctx context.Context, year int) (int, error) {
	tag, err := h.tx.Exec(ctx, `DELETE FROM committee_memberships WHERE year = $1`, year)
	if err != nil {
		return 0, fmt.Errorf("delete memberships for %d: %w", year, err)
	}
	return int(tag.RowsAffected()), nil
}

func (h *handoverTx) ArchiveToAlumni(ctx context.Context, m Membership) error {
	_, err := h.tx.Exec(ctx, `
		INSERT INTO alumni (name, email, designation, batch, approval_status, year)
		VALUES ($1, $2, $3, $4, 'approved', $5)
		ON CONFLICT (email, year) DO NOTHING`,
		m.UserName, m.UserEmail, m.RoleName, fmt.Sprintf("Committee %d", m.Year), m.Year)
	if err != nil {
		return fmt.Errorf("archive %s to alumni: %w", m.UserEmail, err)
	}
	return nil
}

func (h *handoverTx) PresidentRoleID(ctx context.Context) (int64, error) {
	var id int64
	err := h.tx.QueryRow(ctx,
		`SELECT id FROM roles WHERE is_president = TRUE`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNoPresidentRole
	}
	if err != nil {
		return 0, fmt.Errorf("find president role: %w", err)
	}
	return id, nil
}

func (h *handoverTx) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := h.tx.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
	}
	if err != nil {
		return "", fmt.Errorf("load user %d: %w", userID, err)
	}
	return email, nil
}

func (h *handoverTx) Assign(ctx context.Context, userID, roleID int64, year int) error {
	_, err := h.tx.Exec(ctx, `
		INSERT INTO committee_memberships (user_id, role_id, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, year) DO UPDATE SET role_id = EXCLUDED.role_id`,
		userID, roleID, year)
	if err != nil {
		return fmt.Errorf("assign membership in handover: %w", err)
	}
	return nil
}

// ImportTx is the unit of work one roster row commits inside.
type ImportTx interface {
	UpsertUser(ctx context.Context, email, name, studentID, photo, passwordHash string) (int64, error)
	UpsertRoleByName(ctx context.Context, name string) (int64, error)
	Assign(ctx context.Context, userID, roleID int64, year int) error
	UpsertTeamMember(ctx context.Context, row RosterRow, year int) error
}

// WithImportTx runs fn in its own transaction so a failing roster row rolls
// back alone without poisoning the rest of the import.
func (r *Repository) WithImportTx(ctx context.Context, fn func(ImportTx) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&importTx{tx: tx})
	})
}

type importTx struct {
	tx pgx.Tx
}

func (i *importTx) UpsertUser(ctx context.Context, email, name, studentID, photo, passwordHash string) (int64, error) {
	var id int64
	err := i.tx.QueryRow(ctx, `
		INSERT INTO users (email, name, student_id, photo, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			student_id = CASE WHEN EXCLUDED.student_id <> '' THEN EXCLUDED.student_id ELSE users.student_id END,
			photo = CASE WHEN EXCLUDED.photo <> '' THEN EXCLUDED.photo ELSE users.photo END,
			updated_at = now()
		RETURNING id`,
		email, name, studentID, photo, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user %s: %w", email, err)
	}
	return id, nil
}

func (i *importTx) UpsertRoleByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := i.tx.QueryRow(ctx, `
		INSERT INTO roles (name, is_president)
		VALUES ($1, FALSE)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert role %s: %w", name, err)
	}
	return id, nil
}

func (i *importTx) Assign(ctx context.Context, userID, roleID int64, year int) error {
	_, err := i.tx.Exec(ctx, `
		INSERT INTO committee_memberships (user_id, role_id, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, year) DO UPDATE SET role_id = EXCLUDED.role_id`,
		userID, roleID, year)
	if err != nil {
		return fmt.Errorf("assign imported membership: %w", err)
	}
	return nil
}

func (i *importTx) UpsertTeamMember(ctx context.Context, row RosterRow, year int) error {
	_, err := i.tx.Exec(ctx, `
		INSERT INTO team_members (name, email, designation, image_url, facebook_url, linkedin_url, quote, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email, year) DO UPDATE SET
			name = EXCLUDED.name,
			designation = EXCLUDED.designation,
			image_url = EXCLUDED.image_url,
			facebook_url = EXCLUDED.facebook_url,
			linkedin_url = EXCLUDED.linkedin_url,
			quote = EXCLUDED.quote`,
		row.Name, row.Email, row.Designation, row.ImageURL, row.FacebookURL, row.LinkedInURL, row.Quote, year)
	if err != nil {
		return fmt.Errorf("upsert team member %s: %w", row.Email, err)
	}
	return nil
}
