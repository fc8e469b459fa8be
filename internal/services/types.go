package services

import (
	"context"

	"laborctl/internal/api"
	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

// JobStore is the part of the REST client the job service uses outside of
// the action dispatcher.
type JobStore interface {
	ListJobs(ctx context.Context, p api.ListParams) (models.Page[models.Job], error)
	CreateJob(ctx context.Context, fields map[string]any) (*models.Job, error)
	JobAudit(ctx context.Context, jobID string, p api.ListParams) (models.Page[models.AuditEntry], error)
	JobApplicants(ctx context.Context, jobID, employerID string) ([]models.Applicant, error)
	AssignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error)
	UnassignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error)
}

type ProfileStore interface {
	ListWorkers(ctx context.Context, p api.ListParams) (models.Page[models.Worker], error)
	ListEmployers(ctx context.Context, p api.ListParams) (models.Page[models.Employer], error)
	DeleteProfile(ctx context.Context, kind api.ProfileKind, id string) error
}

type UserStore interface {
	ListUsers(ctx context.Context, p api.ListParams) (models.Page[models.User], error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, fields map[string]any) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListRoles(ctx context.Context, p api.ListParams) (models.Page[models.Ref], error)
}

type CatalogStore interface {
	ListSkills(ctx context.Context, p api.ListParams) (models.Page[models.Ref], error)
	ListCategories(ctx context.Context, p api.ListParams) (models.Page[models.Category], error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, fields map[string]any) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ToggleCategory(ctx context.Context, id string) (*models.Category, error)
}

type AuthStore interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
}

// ListParams are the listing options shared by every list command and route.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (p ListParams) toAPI(statusKey string) api.ListParams {
	out := api.ListParams{Page: p.Page, Limit: p.Limit, Search: p.Search}
	if p.Status != "" {
		out.Filters = map[string]string{statusKey: p.Status}
	}
	return out
}

// JobView is a job as an admin sees it: status label, badge and the actions
// its current status allows.
type JobView struct {
	Job         models.Job           `json:"job"`
	StatusLabel string               `json:"statusLabel"`
	Badge       models.BadgeClass    `json:"badge"`
	Actions     workflow.JobActions  `json:"actions"`
	Allowed     []workflow.JobAction `json:"allowed"`
	Submitting  bool                 `json:"submitting"`
}

func newJobView(job models.Job, submitting bool) *JobView {
	actions := workflow.EvaluateJob(job.Status)
	allowed := actions.List()
	if allowed == nil {
		allowed = []workflow.JobAction{}
	}
	return &JobView{
		Job:         job,
		StatusLabel: models.JobStatusLabel(job.Status),
		Badge:       models.JobStatusBadgeClass(job.Status),
		Actions:     actions,
		Allowed:     allowed,
		Submitting:  submitting,
	}
}

// KycView is the KYC state of a worker or employer with its reviewable images.
type KycView struct {
	Kind              api.ProfileKind       `json:"kind"`
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Kyc               *models.KycRecord     `json:"kyc"`
	StatusLabel       string                `json:"statusLabel"`
	Badge             models.BadgeClass     `json:"badge"`
	ImageVerification string                `json:"imageVerification"`
	ImageBadge        models.BadgeClass     `json:"imageBadge"`
	Images            []models.KycImageItem `json:"images"`
	Actions           workflow.KycActions   `json:"actions"`
}

func newKycView(p api.Profile) *KycView {
	kyc := p.Kyc()
	view := &KycView{
		Kind:              p.Kind,
		ID:                p.ID(),
		Name:              p.Name(),
		Kyc:               kyc,
		StatusLabel:       models.Placeholder,
		Badge:             models.BadgeMuted,
		ImageVerification: models.Placeholder,
		ImageBadge:        models.BadgeMuted,
		Images:            []models.KycImageItem{},
		Actions:           workflow.EvaluateKyc(kyc),
	}
	if kyc == nil {
		return view
	}
	view.StatusLabel = models.KycLabel(string(kyc.Status))
	view.Badge = models.KycBadgeClass(string(kyc.Status))
	view.ImageVerification = models.KycImageVerificationLabel(string(kyc.KycImageVerification))
	view.ImageBadge = models.ImageVerificationBadgeClass(string(kyc.KycImageVerification))
	if items := models.AllKycImageItems(kyc); items != nil {
		view.Images = items
	}
	return view
}
