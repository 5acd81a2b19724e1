package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

const commentColumns = `id, report_id, admin_id, comentario, criado_em`

func (s *Store) InsertComment(ctx context.Context, reportID, adminID, text string) (*domain.AdminComment, error) {
	q := `
insert into admin_comments (id, report_id, admin_id, comentario)
values ($1, $2, $3, $4)
returning ` + commentColumns + `;
`
	var c domain.AdminComment
	err := s.db.QueryRow(ctx, q, uuid.New().String(), reportID, adminID, text).
		Scan(&c.ID, &c.ReportID, &c.AdminID, &c.Text, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns a report's admin comments, most recent first.
func (s *Store) ListComments(ctx context.Context, reportID string) ([]domain.AdminComment, error) {
	q := `select ` + commentColumns + ` from admin_comments where report_id = $1 order by criado_em desc;`
	rows, err := s.db.Query(ctx, q, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AdminComment
	for rows.Next() {
		var c domain.AdminComment
		if err := rows.Scan(&c.ID, &c.ReportID, &c.AdminID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteComments(ctx context.Context, reportID string) error {
	_, err := s.db.Exec(ctx, `delete from admin_comments where report_id = $1;`, reportID)
	return err
}
