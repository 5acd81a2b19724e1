// Package service implements the report lifecycle: draft creation and editing,
// submission, admin review, deletion with attachment cleanup, and admin
// annotation. Every operation checks the access policy before touching the
// record store, and transition writes are compare-and-swap so concurrent
// callers lose cleanly instead of overwriting each other.
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
	"github.com/fgc-incentivos/reports-backend/internal/reports/policy"
	"github.com/fgc-incentivos/reports-backend/internal/reports/repository"
	blob "github.com/fgc-incentivos/reports-backend/internal/storage/s3"
)

// RecordStore is the durable storage the lifecycle runs against. Implemented
// by repository.Store; tests substitute a fake.
type RecordStore interface {
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	InsertReport(ctx context.Context, projectID, beneficiaryID string, f domain.ReportFields) (*domain.Report, error)
	UpdateReportFields(ctx context.Context, id string, f domain.ReportFields) (*domain.Report, error)
	UpdateReportStatus(ctx context.Context, id, expected, next string, comment *repository.NewComment) (*domain.Report, error)
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error)
	ListAttachments(ctx context.Context, reportID string) ([]domain.Attachment, error)
	InsertAttachment(ctx context.Context, id, reportID, uploadedBy, url, typ string) (*domain.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
	InsertComment(ctx context.Context, reportID, adminID, text string) (*domain.AdminComment, error)
	ListComments(ctx context.Context, reportID string) ([]domain.AdminComment, error)
	DeleteComments(ctx context.Context, reportID string) error
}

// BlobStore holds attachment file contents.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
}

// MembershipChecker answers whether a beneficiary is assigned to a project.
// Satisfied by repository.Store directly or by the redis cache wrapping it.
type MembershipChecker interface {
	IsMember(ctx context.Context, beneficiaryID, projectID string) (bool, error)
}

// LifecycleService validates and executes report status transitions and their
// side effects.
type LifecycleService struct {
	store   RecordStore
	blobs   BlobStore
	members MembershipChecker
	baseURL string
}

func NewLifecycleService(store RecordStore, blobs BlobStore, members MembershipChecker, publicBaseURL string) *LifecycleService {
	return &LifecycleService{
		store:   store,
		blobs:   blobs,
		members: members,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func validateFields(f *domain.ReportFields) error {
	if !domain.ValidPeriod(f.Period) {
		return domain.Invalid("period", "must be mensal, trimestral, semestral or anual")
	}
	f.Progress = strings.TrimSpace(f.Progress)
	if f.Progress == "" {
		return domain.Invalid("descricao_progresso", "must not be empty")
	}
	if f.JobPositions < 0 {
		return domain.Invalid("postos_trabalho", "must be zero or positive")
	}
	return nil
}

// CreateDraft creates a new draft report for a project the beneficiary is a
// member of.
func (s *LifecycleService) CreateDraft(ctx context.Context, actor domain.Actor, projectID string, f domain.ReportFields) (*domain.Report, error) {
	if actor.Role != domain.RoleBeneficiary {
		return nil, domain.Unauthorized(domain.ReasonWrongRole, "only beneficiaries create reports")
	}
	if projectID == "" {
		return nil, domain.Invalid("project_id", "must not be empty")
	}
	if err := validateFields(&f); err != nil {
		return nil, err
	}

	member, err := s.members.IsMember(ctx, actor.ID, projectID)
	if err != nil {
		return nil, domain.Dependency("check membership", err)
	}
	if !member {
		return nil, domain.Unauthorized(domain.ReasonNotMember, "beneficiary is not assigned to this project")
	}

	r, err := s.store.InsertReport(ctx, projectID, actor.ID, f)
	if err != nil {
		return nil, domain.Dependency("insert report", err)
	}
	return r, nil
}

// UpdateDraft rewrites the content fields of a draft owned by the actor.
// Status and ownership are not reachable through this path.
func (s *LifecycleService) UpdateDraft(ctx context.Context, actor domain.Actor, reportID string, f domain.ReportFields) (*domain.Report, error) {
	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("load report", err)
	}
	if err := policy.CanMutateFields(actor, r); err != nil {
		return nil, err
	}
	if err := validateFields(&f); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateReportFields(ctx, reportID, f)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			// The report left draft between our read and the write; report the
			// denial the same way a fresh policy check would.
			if fresh, getErr := s.store.GetReport(ctx, reportID); getErr == nil {
				return nil, policy.CanMutateFields(actor, fresh)
			}
			return nil, domain.ErrReportNotFound
		}
		return nil, domain.Dependency("update report", err)
	}
	return updated, nil
}

// Submit moves a draft to enviado. Irreversible by the beneficiary.
func (s *LifecycleService) Submit(ctx context.Context, actor domain.Actor, reportID string) (*domain.Report, error) {
	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("load report", err)
	}
	if err := policy.CanTransition(actor, r, domain.StatusSubmitted); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateReportStatus(ctx, reportID, domain.StatusDraft, domain.StatusSubmitted, nil)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, &domain.InvalidTransitionError{From: r.Status, To: domain.StatusSubmitted, Conflict: true}
		}
		return nil, domain.Dependency("submit report", err)
	}
	return updated, nil
}

// Review decides a submitted report. A rejection requires a non-empty comment;
// an approval may carry one. The comment and the status write land in one
// record-store transaction, so a rejection is never visible without its
// justification.
func (s *LifecycleService) Review(ctx context.Context, actor domain.Actor, reportID, decision, commentText string) (*domain.Report, error) {
	if decision != domain.DecisionApproved && decision != domain.DecisionRejected {
		return nil, domain.Invalid("decision", "must be aprovado or rejeitado")
	}

	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("load report", err)
	}
	if err := policy.CanTransition(actor, r, decision); err != nil {
		return nil, err
	}

	commentText = strings.TrimSpace(commentText)
	if decision == domain.DecisionRejected && commentText == "" {
		return nil, domain.Invalid("comentario", "comment required")
	}

	var comment *repository.NewComment
	if commentText != "" {
		comment = &repository.NewComment{AdminID: actor.ID, Text: commentText}
	}

	updated, err := s.store.UpdateReportStatus(ctx, reportID, domain.StatusSubmitted, decision, comment)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, &domain.InvalidTransitionError{From: r.Status, To: decision, Conflict: true}
		}
		return nil, domain.Dependency("review report", err)
	}
	return updated, nil
}

// DeleteReport permanently removes a draft and everything it owns. Order:
// attachment blobs and rows first, then comments, then the report row. A blob
// failure aborts with the report row intact; attachments already cleaned up
// stay gone and the retry skips them.
func (s *LifecycleService) DeleteReport(ctx context.Context, actor domain.Actor, reportID string) error {
	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return domain.Dependency("load report", err)
	}
	if err := policy.CanDelete(actor, r); err != nil {
		return err
	}

	atts, err := s.store.ListAttachments(ctx, reportID)
	if err != nil {
		return domain.Dependency("list attachments", err)
	}
	for _, a := range atts {
		if err := s.blobs.Delete(ctx, blob.Key(a.ReportID, a.ID)); err != nil {
			return domain.Dependency("delete attachment blob", err)
		}
		if err := s.store.DeleteAttachment(ctx, a.ID); err != nil {
			return domain.Dependency("delete attachment", err)
		}
	}

	if err := s.store.DeleteComments(ctx, reportID); err != nil {
		return domain.Dependency("delete comments", err)
	}
	if err := s.store.DeleteReport(ctx, reportID); err != nil {
		return domain.Dependency("delete report", err)
	}
	return nil
}

// AddComment appends a free-standing admin annotation, independent of any
// review decision and with no status side effect. Comments are append-only:
// the same text twice makes two records.
func (s *LifecycleService) AddComment(ctx context.Context, actor domain.Actor, reportID, text string) (*domain.AdminComment, error) {
	if err := policy.CanComment(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid("comentario", "must not be empty")
	}
	if _, err := s.store.GetReport(ctx, reportID); err != nil {
		return nil, domain.Dependency("load report", err)
	}

	c, err := s.store.InsertComment(ctx, reportID, actor.ID, text)
	if err != nil {
		return nil, domain.Dependency("insert comment", err)
	}
	return c, nil
}

// GetReport loads a report with its attachments and comments (newest-first).
func (s *LifecycleService) GetReport(ctx context.Context, actor domain.Actor, reportID string) (*domain.ReportDetail, error) {
	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("load report", err)
	}
	if err := policy.CanRead(actor, r); err != nil {
		return nil, err
	}

	atts, err := s.store.ListAttachments(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("list attachments", err)
	}
	comments, err := s.store.ListComments(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("list comments", err)
	}
	return &domain.ReportDetail{Report: r, Attachments: atts, Comments: comments}, nil
}

// ListReports returns reports visible to the actor, newest first. Admins see
// everything; beneficiaries only their own regardless of the filter.
func (s *LifecycleService) ListReports(ctx context.Context, actor domain.Actor, f domain.ReportFilter) ([]domain.Report, error) {
	if f.Status != "" && !domain.ValidStatus(f.Status) {
		return nil, domain.Invalid("status", "unknown status")
	}
	if f.Period != "" && !domain.ValidPeriod(f.Period) {
		return nil, domain.Invalid("period", "unknown period")
	}
	if actor.Role != domain.RoleAdmin {
		f.BeneficiaryID = actor.ID
	}

	out, err := s.store.ListReports(ctx, f)
	if err != nil {
		return nil, domain.Dependency("list reports", err)
	}
	return out, nil
}

// AddAttachment uploads a file for a draft report owned by the actor. The blob
// is written before the metadata row; if the row insert fails the blob is
// removed again so neither side dangles.
func (s *LifecycleService) AddAttachment(ctx context.Context, actor domain.Actor, reportID, typ, contentType string, body io.Reader) (*domain.Attachment, error) {
	if !domain.ValidAttachmentType(typ) {
		return nil, domain.Invalid("type", "must be foto_projeto or comprovante")
	}

	r, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, domain.Dependency("load report", err)
	}
	if err := policy.CanMutateFields(actor, r); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := blob.Key(reportID, id)
	if err := s.blobs.Put(ctx, key, contentType, body); err != nil {
		return nil, domain.Dependency("upload attachment blob", err)
	}

	url := key
	if s.baseURL != "" {
		url = s.baseURL + "/" + key
	}
	a, err := s.store.InsertAttachment(ctx, id, reportID, actor.ID, url, typ)
	if err != nil {
		// best effort: don't leave an unreferenced blob behind
		_ = s.blobs.Delete(ctx, key)
		return nil, domain.Dependency("insert attachment", err)
	}
	return a, nil
}
