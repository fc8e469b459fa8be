package models

import "strings"

/*
Job and KYC status vocabulary shared by the CLI, the HTTP façade and the
workflow package. Values match what the marketplace backend sends on the wire.
*/

// JobStatus is the lifecycle stage of a job posting.
type JobStatus string

// Job status constants
const (
	JobStatusPending                JobStatus = "PENDING"
	JobStatusApproved               JobStatus = "APPROVED"
	JobStatusRejected               JobStatus = "REJECTED"
	JobStatusLive                   JobStatus = "LIVE"
	JobStatusHired                  JobStatus = "HIRED"
	JobStatusCompleted              JobStatus = "COMPLETED"
	JobStatusCancelled              JobStatus = "CANCELLED"
	JobStatusInactivePendingPayment JobStatus = "INACTIVE_PENDING_PAYMENT"
	JobStatusClosed                 JobStatus = "CLOSED"
)

// AllJobStatuses lists every known job status in lifecycle order.
var AllJobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusApproved,
	JobStatusRejected,
	JobStatusLive,
	JobStatusHired,
	JobStatusCompleted,
	JobStatusCancelled,
	JobStatusInactivePendingPayment,
	JobStatusClosed,
}

// Placeholder is shown wherever a label has nothing to describe.
const Placeholder = "—"

var jobStatusLabels = map[JobStatus]string{
	JobStatusPending:                "Pending",
	JobStatusApproved:               "Approved",
	JobStatusRejected:               "Rejected",
	JobStatusLive:                   "Live",
	JobStatusHired:                  "Booked",
	JobStatusCompleted:              "Completed",
	JobStatusCancelled:              "Cancelled",
	JobStatusInactivePendingPayment: "Inactive (unpaid)",
	JobStatusClosed:                 "Closed",
}

// Known reports whether s is one of the statuses the backend defines.
func (s JobStatus) Known() bool {
	_, ok := jobStatusLabels[s]
	return ok
}

func (s JobStatus) String() string { return string(s) }

// ParseJobStatus normalizes user input such as "go live" or "inactive-pending-payment".
func ParseJobStatus(v string) (JobStatus, bool) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	s := JobStatus(norm)
	return s, s.Known()
}

// JobStatusLabel returns the human label for a job status. Unknown values are
// passed through and an empty status yields the placeholder.
func JobStatusLabel(s JobStatus) string {
	if label, ok := jobStatusLabels[s]; ok {
		return label
	}
	if strings.TrimSpace(string(s)) == "" {
		return Placeholder
	}
	return string(s)
}

// BadgeClass is the visual tag a status renders with.
type BadgeClass string

const (
	BadgeSuccess BadgeClass = "success"
	BadgeInfo    BadgeClass = "info"
	BadgeMuted   BadgeClass = "muted"
	BadgeDanger  BadgeClass = "danger"
	BadgeWarning BadgeClass = "warning"
)

// JobStatusBadgeClass groups job statuses into badge classes. Anything not
// listed, PENDING included, is a warning.
func JobStatusBadgeClass(s JobStatus) BadgeClass {
	switch s {
	case JobStatusLive:
		return BadgeSuccess
	case JobStatusApproved, JobStatusHired:
		return BadgeInfo
	case JobStatusCompleted, JobStatusClosed:
		return BadgeMuted
	case JobStatusRejected, JobStatusCancelled, JobStatusInactivePendingPayment:
		return BadgeDanger
	default:
		return BadgeWarning
	}
}

// Option is a value/label pair for filters and pickers.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// JobStatusOptions returns the filter options for job listings, led by the
// "all" entry.
func JobStatusOptions() []Option {
	opts := []Option{{Value: "", Label: "All statuses"}}
	for _, s := range AllJobStatuses {
		opts = append(opts, Option{Value: string(s), Label: JobStatusLabel(s)})
	}
	return opts
}

// CancellationReason is attached when a hired job is cancelled.
type CancellationReason string

const (
	CancellationNotFit      CancellationReason = "NOT_FIT"
	CancellationChangedPlan CancellationReason = "CHANGED_PLAN"
	CancellationDuplicate   CancellationReason = "DUPLICATE"
	CancellationOther       CancellationReason = "OTHER"
)

// AllCancellationReasons lists the reasons the backend accepts.
var AllCancellationReasons = []CancellationReason{
	CancellationNotFit,
	CancellationChangedPlan,
	CancellationDuplicate,
	CancellationOther,
}

// Valid reports whether r is one of AllCancellationReasons.
func (r CancellationReason) Valid() bool {
	for _, known := range AllCancellationReasons {
		if r == known {
			return true
		}
	}
	return false
}

// ParseCancellationReason accepts "not-fit", "Not Fit" and "NOT_FIT" alike.
func ParseCancellationReason(v string) (CancellationReason, bool) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	r := CancellationReason(norm)
	return r, r.Valid()
}
