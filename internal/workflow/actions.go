// Package workflow decides which admin actions are legal for an entity, runs
// them against the backend one at a time, and keeps the local copy of the
// entity equal to whatever the backend last returned.
package workflow

import (
	"fmt"
	"strings"

	"laborctl/internal/models"
)

// JobAction is an admin operation on a job.
type JobAction string

const (
	ActionApprove          JobAction = "approve"
	ActionReject           JobAction = "reject"
	ActionGoLive           JobAction = "go-live"
	ActionClose            JobAction = "close"
	ActionEdit             JobAction = "edit"
	ActionViewApplicants   JobAction = "view-applicants"
	ActionHire             JobAction = "hire"
	ActionComplete         JobAction = "complete"
	ActionCancel           JobAction = "cancel"
	ActionPayServiceCharge JobAction = "pay-service-charge"
	ActionDelete           JobAction = "delete"
)

// AllJobActions in the order controls are presented.
var AllJobActions = []JobAction{
	ActionApprove,
	ActionReject,
	ActionGoLive,
	ActionClose,
	ActionEdit,
	ActionViewApplicants,
	ActionHire,
	ActionComplete,
	ActionCancel,
	ActionPayServiceCharge,
	ActionDelete,
}

var jobActionLabels = map[JobAction]string{
	ActionApprove:          "Approve",
	ActionReject:           "Reject",
	ActionGoLive:           "Go Live",
	ActionClose:            "Close",
	ActionEdit:             "Edit",
	ActionViewApplicants:   "View applicants",
	ActionHire:             "Hire",
	ActionComplete:         "Mark complete",
	ActionCancel:           "Cancel worker",
	ActionPayServiceCharge: "Pay service charge",
	ActionDelete:           "Delete",
}

func (a JobAction) Label() string {
	if l, ok := jobActionLabels[a]; ok {
		return l
	}
	return string(a)
}

// ParseJobAction accepts "go-live", "GO_LIVE" and "go live".
func ParseJobAction(v string) (JobAction, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	a := JobAction(norm)
	if _, ok := jobActionLabels[a]; !ok {
		return "", fmt.Errorf("unknown job action %q: %w", v, models.ErrValidation)
	}
	return a, nil
}

// JobActions gates every job control. Compute it from the job's current
// status each time it is needed; never keep one around.
type JobActions struct {
	CanApprove          bool `json:"canApprove"`
	CanReject           bool `json:"canReject"`
	CanGoLive           bool `json:"canGoLive"`
	CanClose            bool `json:"canClose"`
	CanEdit             bool `json:"canEdit"`
	CanViewApplicants   bool `json:"canViewApplicants"`
	CanHire             bool `json:"canHire"`
	CanComplete         bool `json:"canComplete"`
	CanCancel           bool `json:"canCancel"`
	CanPayServiceCharge bool `json:"canPayServiceCharge"`
	CanDelete           bool `json:"canDelete"`
}

// EvaluateJob returns the legal admin actions for a job in status.
func EvaluateJob(status models.JobStatus) JobActions {
	return JobActions{
		CanApprove:          status == models.JobStatusPending || status == models.JobStatusRejected,
		CanReject:           status == models.JobStatusPending,
		CanGoLive:           status == models.JobStatusApproved,
		CanClose:            status == models.JobStatusApproved || status == models.JobStatusLive,
		CanEdit:             true,
		CanViewApplicants:   status == models.JobStatusLive,
		CanHire:             status == models.JobStatusLive,
		CanComplete:         status == models.JobStatusHired,
		CanCancel:           status == models.JobStatusHired,
		CanPayServiceCharge: status == models.JobStatusInactivePendingPayment,
		CanDelete:           true,
	}
}

// Allows reports whether action is enabled.
func (a JobActions) Allows(action JobAction) bool {
	switch action {
	case ActionApprove:
		return a.CanApprove
	case ActionReject:
		return a.CanReject
	case ActionGoLive:
		return a.CanGoLive
	case ActionClose:
		return a.CanClose
	case ActionEdit:
		return a.CanEdit
	case ActionViewApplicants:
		return a.CanViewApplicants
	case ActionHire:
		return a.CanHire
	case ActionComplete:
		return a.CanComplete
	case ActionCancel:
		return a.CanCancel
	case ActionPayServiceCharge:
		return a.CanPayServiceCharge
	case ActionDelete:
		return a.CanDelete
	}
	return false
}

// List returns the enabled actions in presentation order.
func (a JobActions) List() []JobAction {
	var out []JobAction
	for _, action := range AllJobActions {
		if a.Allows(action) {
			out = append(out, action)
		}
	}
	return out
}

// JobActionAllowed reports whether action is legal for a job in status.
func JobActionAllowed(status models.JobStatus, action JobAction) bool {
	return EvaluateJob(status).Allows(action)
}

// AllowedJobActions lists the actions legal in status, in presentation order.
func AllowedJobActions(status models.JobStatus) []JobAction {
	return EvaluateJob(status).List()
}

// targetStatus is the status a plain status change requests.
func targetStatus(action JobAction) (models.JobStatus, bool) {
	switch action {
	case ActionApprove:
		return models.JobStatusApproved, true
	case ActionReject:
		return models.JobStatusRejected, true
	case ActionGoLive:
		return models.JobStatusLive, true
	case ActionClose:
		return models.JobStatusClosed, true
	}
	return "", false
}

// KycActions gates the KYC controls of a worker or employer.
type KycActions struct {
	CanApproveKyc   bool `json:"canApproveKyc"`
	CanReviewImages bool `json:"canReviewImages"`
}

// EvaluateKyc derives the KYC controls from the record; a nil record allows none.
func EvaluateKyc(kyc *models.KycRecord) KycActions {
	if kyc == nil {
		return KycActions{}
	}
	return KycActions{
		CanApproveKyc:   kyc.Status != models.KycStatusApproved,
		CanReviewImages: kyc.HasAnyImages(),
	}
}
