package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

// Store provides persistence for reports and their owned records on postgres.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const reportColumns = `id, project_id, beneficiary_id, period, descricao_progresso, postos_trabalho, status, observacoes, criado_em, atualizado_em`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var r domain.Report
	err := row.Scan(&r.ID, &r.ProjectID, &r.BeneficiaryID, &r.Period, &r.Progress,
		&r.JobPositions, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	q := `select ` + reportColumns + ` from reports where id = $1;`
	return scanReport(s.db.QueryRow(ctx, q, id))
}

func (s *Store) InsertReport(ctx context.Context, projectID, beneficiaryID string, f domain.ReportFields) (*domain.Report, error) {
	q := `
insert into reports (id, project_id, beneficiary_id, period, descricao_progresso, postos_trabalho, status, observacoes)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning ` + reportColumns + `;
`
	return scanReport(s.db.QueryRow(ctx, q,
		uuid.New().String(), projectID, beneficiaryID,
		f.Period, f.Progress, f.JobPositions, domain.StatusDraft, f.Notes))
}

// UpdateReportFields rewrites the beneficiary-editable columns. The draft
// status guard in the WHERE clause makes the write safe against a concurrent
// submit: a report that left rascunho is never mutated.
func (s *Store) UpdateReportFields(ctx context.Context, id string, f domain.ReportFields) (*domain.Report, error) {
	q := `
update reports
set period = $2, descricao_progresso = $3, postos_trabalho = $4, observacoes = $5, atualizado_em = now()
where id = $1 and status = $6
returning ` + reportColumns + `;
`
	r, err := scanReport(s.db.QueryRow(ctx, q, id, f.Period, f.Progress, f.JobPositions, f.Notes, domain.StatusDraft))
	if err == nil {
		return r, nil
	}
	if errors.Is(err, domain.ErrReportNotFound) {
		// Either the row is gone or it left draft under us.
		if _, getErr := s.GetReport(ctx, id); getErr == nil {
			return nil, domain.ErrStatusConflict
		}
		return nil, domain.ErrReportNotFound
	}
	return nil, err
}

// NewComment is a comment to be recorded alongside a status transition.
type NewComment struct {
	AdminID string
	Text    string
}

// UpdateReportStatus performs the compare-and-swap status write, inserting the
// accompanying admin comment in the same transaction when one is given. A
// reader can therefore never observe a rejection without its comment, and a
// failed comment insert leaves the status untouched.
func (s *Store) UpdateReportStatus(ctx context.Context, id, expected, next string, comment *NewComment) (*domain.Report, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if comment != nil {
		const cq = `
insert into admin_comments (id, report_id, admin_id, comentario)
values ($1, $2, $3, $4);
`
		if _, err := tx.Exec(ctx, cq, uuid.New().String(), id, comment.AdminID, comment.Text); err != nil {
			return nil, fmt.Errorf("insert comment: %w", err)
		}
	}

	q := `
update reports
set status = $3, atualizado_em = now()
where id = $1 and status = $2
returning ` + reportColumns + `;
`
	r, err := scanReport(tx.QueryRow(ctx, q, id, expected, next))
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			if _, getErr := s.GetReport(ctx, id); getErr == nil {
				return nil, domain.ErrStatusConflict
			}
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r, nil
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `delete from reports where id = $1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error) {
	q := `select ` + reportColumns + ` from reports`
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.BeneficiaryID != "" {
		add("beneficiary_id = $%d", f.BeneficiaryID)
	}
	if f.ProjectID != "" {
		add("project_id = $%d", f.ProjectID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Period != "" {
		add("period = $%d", f.Period)
	}
	for i, c := range conds {
		if i == 0 {
			q += " where " + c
		} else {
			q += " and " + c
		}
	}
	q += " order by criado_em desc;"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Report, 0, 16)
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.BeneficiaryID, &r.Period, &r.Progress,
			&r.JobPositions, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) IsMember(ctx context.Context, beneficiaryID, projectID string) (bool, error) {
	const q = `select exists (select 1 from beneficiary_projects where beneficiary_id = $1 and project_id = $2);`
	var ok bool
	if err := s.db.QueryRow(ctx, q, beneficiaryID, projectID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
