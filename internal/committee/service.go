package committee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// RepositoryPort abstracts persistence for the ledger service.
type RepositoryPort interface {
	List(ctx context.Context, year *int) ([]Membership, error)
	MembershipFor(ctx context.Context, userID int64, year int) (*Membership, error)
	Assign(ctx context.Context, userID, roleID int64, year int) (Membership, error)
	CurrentRole(ctx context.Context, userID int64, year int) (*RoleGrant, error)
	WithHandoverTx(ctx context.Context, fn func(HandoverTx) error) error
	WithImportTx(ctx context.Context, fn func(ImportTx) error) error
}

// SettingsPort resolves the current committee year.
type SettingsPort interface {
	CurrentYear(ctx context.Context) (int, error)
}

type Service struct {
	repo     RepositoryPort
	settings SettingsPort
	audit    *shared.AuditLogger
	logger   *slog.Logger
}

func NewService(repo RepositoryPort, settings SettingsPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, settings: settings, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context, year *int) ([]Membership, error) {
	return s.repo.List(ctx, year)
}

// CurrentFor returns the membership the user holds in the current year, or
// ErrNotFound when they hold none.
func (s *Service) CurrentFor(ctx context.Context, userID int64) (Membership, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Membership{}, err
	}
	m, err := s.repo.MembershipFor(ctx, userID, year)
	if err != nil {
		return Membership{}, err
	}
	if m == nil {
		return Membership{}, fmt.Errorf("%w: no membership for user %d in %d", shared.ErrNotFound, userID, year)
	}
	return *m, nil
}

func (s *Service) Assign(ctx context.Context, req AssignRequest) (Membership, error) {
	m, err := s.repo.Assign(ctx, req.UserID, req.RoleID, req.Year)
	if err != nil {
		return Membership{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	s.audit.RecordID(ctx, actorID, "membership.assign", "committee_membership", m.ID, map[string]any{
		"user_id": req.UserID, "role_id": req.RoleID, "year": req.Year,
	})
	return m, nil
}

// CurrentMembership implements the permission ledger: the role and pages a
// user holds in the current year, nil when they hold none.
func (s *Service) CurrentMembership(ctx context.Context, userID int64) (*authz.CurrentMembership, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return nil, err
	}
	grant, err := s.repo.CurrentRole(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, nil
	}
	return &authz.CurrentMembership{
		RoleID:      grant.RoleID,
		RoleName:    grant.RoleName,
		IsPresident: grant.IsPresident,
		Pages:       grant.Pages,
		Year:        year,
	}, nil
}

// Handover advances the current year, installs the incoming president and
// optionally archives the outgoing committee into the alumni directory before
// deleting its memberships. Everything runs in one serialized transaction, so
// a failure leaves the previous committee untouched.
func (s *Service) Handover(ctx context.Context, req HandoverRequest) (HandoverResult, error) {
	var result HandoverResult
	err := s.repo.WithHandoverTx(ctx, func(tx HandoverTx) error {
		oldYear, err := tx.CurrentYear(ctx)
		if err != nil {
			return err
		}
		if req.NewYear <= oldYear {
			return fmt.Errorf("%w: new year %d must be after current year %d",
				shared.ErrValidation, req.NewYear, oldYear)
		}

		presidentRoleID, err := tx.PresidentRoleID(ctx)
		if err != nil {
			return err
		}
		email, err := tx.UserEmail(ctx, req.NewPresidentID)
		if err != nil {
			return err
		}

		if req.ArchiveOld {
			outgoing, err := tx.ListByYear(ctx, oldYear)
			if err != nil {
				return err
			}
			for _, m := range outgoing {
				if err := tx.ArchiveToAlumni(ctx, m); err != nil {
					return err
				}
			}
			archived, err := tx.DeleteByYear(ctx, oldYear)
			if err != nil {
				return err
			}
			result.Archived = archived
		}

		if err := tx.SetCurrentYear(ctx, req.NewYear); err != nil {
			return err
		}
		if err := tx.Assign(ctx, req.NewPresidentID, presidentRoleID, req.NewYear); err != nil {
			return err
		}

		result.Year = req.NewYear
		result.PresidentEmail = email
		return nil
	})
	if err != nil {
		return HandoverResult{}, err
	}

	actorID, _ := shared.CurrentUserID(ctx)
	s.audit.RecordID(ctx, actorID, "committee.handover", "system_setting", 0, map[string]any{
		"year": result.Year, "president": result.PresidentEmail, "archived": result.Archived,
	})
	s.logger.Info("committee handover completed",
		slog.Int("year", result.Year),
		slog.Int("archived", result.Archived))
	return result, nil
}

// importPassword is the initial credential every imported member receives.
// Members are expected to change it after first login.
func importPassword(year int) string {
	return fmt.Sprintf("committee%d!", year)
}

// ImportRoster upserts users, roles, memberships and the public team directory
// from parsed roster rows for the current year. Rows missing a designation,
// name or email are skipped without failing the import; each surviving row
// commits in its own transaction.
func (s *Service) ImportRoster(ctx context.Context, rows []RosterRow) (ImportResult, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(importPassword(year)), bcrypt.DefaultCost)
	if err != nil {
		return ImportResult{}, fmt.Errorf("hash import password: %w", err)
	}

	result := ImportResult{Year: year}
	for _, row := range rows {
		row.Designation = strings.TrimSpace(row.Designation)
		row.Name = norm.NFC.String(strings.TrimSpace(row.Name))
		row.Email = strings.ToLower(strings.TrimSpace(row.Email))
		if row.Designation == "" || row.Name == "" || row.Email == "" {
			continue
		}

		row := row
		err := s.repo.WithImportTx(ctx, func(tx ImportTx) error {
			userID, err := tx.UpsertUser(ctx, row.Email, row.Name, row.StudentID, row.ImageURL, string(hash))
			if err != nil {
				return err
			}
			roleID, err := tx.UpsertRoleByName(ctx, strings.ToLower(row.Designation))
			if err != nil {
				return err
			}
			if err := tx.Assign(ctx, userID, roleID, year); err != nil {
				return err
			}
			return tx.UpsertTeamMember(ctx, row, year)
		})
		if err != nil {
			s.logger.Warn("roster row skipped",
				slog.String("email", row.Email),
				slog.String("error", err.Error()))
			continue
		}
		result.Processed++
	}

	actorID, _ := shared.CurrentUserID(ctx)
	s.audit.RecordID(ctx, actorID, "committee.import", "committee_membership", 0, map[string]any{
		"year": year, "processed": result.Processed,
	})
	return result, nil
}
