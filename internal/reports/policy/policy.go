// Package policy answers "may this actor do this to this report" as pure
// predicates over (role, ownership, current status). It performs no I/O; a nil
// return means allowed, otherwise the *domain.AuthorizationError names the
// denial reason.
package policy

import (
	"fmt"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

// CanRead allows admins to read any report and beneficiaries their own.
func CanRead(actor domain.Actor, r *domain.Report) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if r.BeneficiaryID != actor.ID {
		return domain.Unauthorized(domain.ReasonNotOwner, "report belongs to another beneficiary")
	}
	return nil
}

// CanMutateFields allows the owning beneficiary to edit content fields while
// the report is still a draft. Admins never edit report content.
func CanMutateFields(actor domain.Actor, r *domain.Report) error {
	if actor.Role != domain.RoleBeneficiary {
		return domain.Unauthorized(domain.ReasonWrongRole, "only beneficiaries edit reports")
	}
	if r.BeneficiaryID != actor.ID {
		return domain.Unauthorized(domain.ReasonNotOwner, "report belongs to another beneficiary")
	}
	if r.Status != domain.StatusDraft {
		return domain.Unauthorized(domain.ReasonWrongStatus, fmt.Sprintf("report is %s, only drafts are editable", r.Status))
	}
	return nil
}

// CanDelete allows the owning beneficiary to delete a report while it is a
// draft. Nothing else may be deleted by anyone.
func CanDelete(actor domain.Actor, r *domain.Report) error {
	if actor.Role != domain.RoleBeneficiary {
		return domain.Unauthorized(domain.ReasonWrongRole, "only beneficiaries delete reports")
	}
	if r.BeneficiaryID != actor.ID {
		return domain.Unauthorized(domain.ReasonNotOwner, "report belongs to another beneficiary")
	}
	if r.Status != domain.StatusDraft {
		return domain.Unauthorized(domain.ReasonWrongStatus, fmt.Sprintf("report is %s, only drafts can be deleted", r.Status))
	}
	return nil
}

// CanTransition gates status changes by role and ownership. Beneficiaries may
// only submit their own drafts; admins may only decide submitted reports.
// Status preconditions themselves surface as InvalidTransitionError so callers
// can tell a permission problem from a state problem.
func CanTransition(actor domain.Actor, r *domain.Report, target string) error {
	switch actor.Role {
	case domain.RoleBeneficiary:
		if target != domain.StatusSubmitted {
			return domain.Unauthorized(domain.ReasonWrongRole, "beneficiaries may only submit")
		}
		if r.BeneficiaryID != actor.ID {
			return domain.Unauthorized(domain.ReasonNotOwner, "report belongs to another beneficiary")
		}
		if r.Status != domain.StatusDraft {
			return &domain.InvalidTransitionError{From: r.Status, To: target}
		}
		return nil
	case domain.RoleAdmin:
		if target != domain.StatusApproved && target != domain.StatusRejected {
			return domain.Unauthorized(domain.ReasonWrongRole, "admins may only approve or reject")
		}
		if r.Status != domain.StatusSubmitted {
			return &domain.InvalidTransitionError{From: r.Status, To: target}
		}
		return nil
	}
	return domain.Unauthorized(domain.ReasonWrongRole, "unknown role")
}

// CanComment allows any admin to annotate any report.
func CanComment(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.Unauthorized(domain.ReasonWrongRole, "only admins comment on reports")
	}
	return nil
}
