package repository

import (
	"context"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

const attachmentColumns = `id, report_id, uploaded_by, url, type, criado_em`

func (s *Store) ListAttachments(ctx context.Context, reportID string) ([]domain.Attachment, error) {
	q := `select ` + attachmentColumns + ` from attachments where report_id = $1 order by criado_em;`
	rows, err := s.db.Query(ctx, q, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.ReportID, &a.UploadedBy, &a.URL, &a.Type, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertAttachment records attachment metadata. The caller supplies the id so
// the blob can be written under its final key before the row exists.
func (s *Store) InsertAttachment(ctx context.Context, id, reportID, uploadedBy, url, typ string) (*domain.Attachment, error) {
	q := `
insert into attachments (id, report_id, uploaded_by, url, type)
values ($1, $2, $3, $4, $5)
returning ` + attachmentColumns + `;
`
	var a domain.Attachment
	err := s.db.QueryRow(ctx, q, id, reportID, uploadedBy, url, typ).
		Scan(&a.ID, &a.ReportID, &a.UploadedBy, &a.URL, &a.Type, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAttachment removes the metadata row. Deleting an already-deleted
// attachment is not an error so delete retries stay idempotent.
func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `delete from attachments where id = $1;`, id)
	return err
}

// AttachmentIDs returns the ids of every attachment row, for the janitor's
// orphaned-blob sweep.
func (s *Store) AttachmentIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.Query(ctx, `select id from attachments;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
