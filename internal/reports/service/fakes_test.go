package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
	"github.com/fgc-incentivos/reports-backend/internal/reports/repository"
)

// fakeStore is an in-memory RecordStore with the same CAS and
// comment-coupling semantics as the postgres implementation.
type fakeStore struct {
	reports     map[string]*domain.Report
	attachments map[string]*domain.Attachment
	comments    map[string]*domain.AdminComment
	members     map[string]bool // beneficiaryID|projectID

	now time.Time

	failCommentInsert bool
	// beforeStatusWrite runs inside UpdateReportStatus before the CAS check,
	// to interleave a concurrent transition in tests.
	beforeStatusWrite func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reports:     make(map[string]*domain.Report),
		attachments: make(map[string]*domain.Attachment),
		comments:    make(map[string]*domain.AdminComment),
		members:     make(map[string]bool),
		now:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) addMember(beneficiaryID, projectID string) {
	f.members[beneficiaryID+"|"+projectID] = true
}

func (f *fakeStore) IsMember(_ context.Context, beneficiaryID, projectID string) (bool, error) {
	return f.members[beneficiaryID+"|"+projectID], nil
}

func (f *fakeStore) GetReport(_ context.Context, id string) (*domain.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) InsertReport(_ context.Context, projectID, beneficiaryID string, fields domain.ReportFields) (*domain.Report, error) {
	now := f.tick()
	r := &domain.Report{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		BeneficiaryID: beneficiaryID,
		Period:        fields.Period,
		Progress:      fields.Progress,
		JobPositions:  fields.JobPositions,
		Notes:         fields.Notes,
		Status:        domain.StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.reports[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeStore) UpdateReportFields(_ context.Context, id string, fields domain.ReportFields) (*domain.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	if r.Status != domain.StatusDraft {
		return nil, domain.ErrStatusConflict
	}
	r.Period = fields.Period
	r.Progress = fields.Progress
	r.JobPositions = fields.JobPositions
	r.Notes = fields.Notes
	r.UpdatedAt = f.tick()
	cp := *r
	return &cp, nil
}

func (f *fakeStore) UpdateReportStatus(ctx context.Context, id, expected, next string, comment *repository.NewComment) (*domain.Report, error) {
	if f.beforeStatusWrite != nil {
		f.beforeStatusWrite()
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	if r.Status != expected {
		return nil, domain.ErrStatusConflict
	}
	// Comment and status land together or not at all.
	if comment != nil {
		if f.failCommentInsert {
			return nil, fmt.Errorf("insert comment: connection reset")
		}
		if _, err := f.InsertComment(ctx, id, comment.AdminID, comment.Text); err != nil {
			return nil, err
		}
	}
	r.Status = next
	r.UpdatedAt = f.tick()
	cp := *r
	return &cp, nil
}

func (f *fakeStore) DeleteReport(_ context.Context, id string) error {
	if _, ok := f.reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeStore) ListReports(_ context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	var out []domain.Report
	for _, r := range f.reports {
		if filter.BeneficiaryID != "" && r.BeneficiaryID != filter.BeneficiaryID {
			continue
		}
		if filter.ProjectID != "" && r.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Period != "" && r.Period != filter.Period {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) ListAttachments(_ context.Context, reportID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, a := range f.attachments {
		if a.ReportID == reportID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) InsertAttachment(_ context.Context, id, reportID, uploadedBy, url, typ string) (*domain.Attachment, error) {
	a := &domain.Attachment{
		ID:         id,
		ReportID:   reportID,
		UploadedBy: uploadedBy,
		URL:        url,
		Type:       typ,
		CreatedAt:  f.tick(),
	}
	f.attachments[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeStore) DeleteAttachment(_ context.Context, id string) error {
	delete(f.attachments, id)
	return nil
}

func (f *fakeStore) InsertComment(_ context.Context, reportID, adminID, text string) (*domain.AdminComment, error) {
	c := &domain.AdminComment{
		ID:        uuid.New().String(),
		ReportID:  reportID,
		AdminID:   adminID,
		Text:      text,
		CreatedAt: f.tick(),
	}
	f.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListComments(_ context.Context, reportID string) ([]domain.AdminComment, error) {
	var out []domain.AdminComment
	for _, c := range f.comments {
		if c.ReportID == reportID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeleteComments(_ context.Context, reportID string) error {
	for id, c := range f.comments {
		if c.ReportID == reportID {
			delete(f.comments, id)
		}
	}
	return nil
}

// fakeBlobs is an in-memory BlobStore with per-key failure injection.
type fakeBlobs struct {
	objects  map[string][]byte
	failKeys map[string]bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte), failKeys: make(map[string]bool)}
}

func (b *fakeBlobs) Put(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	if b.failKeys[key] {
		return fmt.Errorf("delete %s: storage unavailable", key)
	}
	// missing keys are fine: already absent
	delete(b.objects, key)
	return nil
}
