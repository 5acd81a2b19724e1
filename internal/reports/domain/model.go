package domain

import "time"

// Report is a beneficiary progress report filed against a project.
// Column names mirror the FGC schema, which is Portuguese throughout.
type Report struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	BeneficiaryID string    `json:"beneficiary_id"`
	Period        string    `json:"period"`
	Progress      string    `json:"descricao_progresso"`
	JobPositions  int       `json:"postos_trabalho"`
	Status        string    `json:"status"`
	Notes         *string   `json:"observacoes,omitempty"`
	CreatedAt     time.Time `json:"criado_em"`
	UpdatedAt     time.Time `json:"atualizado_em"`
}

// Report status values. rascunho is initial; aprovado and rejeitado are
// terminal, enviado is the only state reviewable by an admin.
const (
	StatusDraft     = "rascunho"
	StatusSubmitted = "enviado"
	StatusApproved  = "aprovado"
	StatusRejected  = "rejeitado"
)

// Reporting period values.
const (
	PeriodMonthly    = "mensal"
	PeriodQuarterly  = "trimestral"
	PeriodSemiannual = "semestral"
	PeriodAnnual     = "anual"
)

// Attachment is a file uploaded against a report. The blob itself lives in
// object storage; URL points at it.
type Attachment struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"report_id"`
	UploadedBy string    `json:"uploaded_by"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"criado_em"`
}

// Attachment type values.
const (
	AttachmentProjectPhoto = "foto_projeto"
	AttachmentExpenseProof = "comprovante"
)

// AdminComment is an append-only admin annotation on a report.
type AdminComment struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	AdminID   string    `json:"admin_id"`
	Text      string    `json:"comentario"`
	CreatedAt time.Time `json:"criado_em"`
}

// Actor is the authenticated caller, resolved by the auth middleware.
// The core authorizes against it but never persists it.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Actor roles.
const (
	RoleBeneficiary = "beneficiary"
	RoleAdmin       = "admin"
)

// Review decisions. Same values as the terminal report statuses.
const (
	DecisionApproved = StatusApproved
	DecisionRejected = StatusRejected
)

// ValidStatus reports whether s is one of the four report statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidPeriod reports whether p is one of the four reporting periods.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodSemiannual, PeriodAnnual:
		return true
	}
	return false
}

// ValidAttachmentType reports whether t is a known attachment type.
func ValidAttachmentType(t string) bool {
	return t == AttachmentProjectPhoto || t == AttachmentExpenseProof
}

// ReportFields carries the beneficiary-editable fields for create/update.
// Status and ownership are deliberately absent.
type ReportFields struct {
	Period       string  `json:"period"`
	Progress     string  `json:"descricao_progresso"`
	JobPositions int     `json:"postos_trabalho"`
	Notes        *string `json:"observacoes,omitempty"`
}

// ReportDetail bundles a report with its owned records for display.
type ReportDetail struct {
	Report      *Report        `json:"report"`
	Attachments []Attachment   `json:"attachments"`
	Comments    []AdminComment `json:"comments"`
}

// ReportFilter narrows a report listing. Zero values mean no constraint.
type ReportFilter struct {
	ProjectID     string
	BeneficiaryID string
	Status        string
	Period        string
}
