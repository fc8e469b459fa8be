package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"laborctl/internal/api"
	"laborctl/internal/models"
)

// mockBackend stands in for the REST client: every store interface of the
// services plus the dispatcher's backends.
type mockBackend struct {
	mock.Mock
}

func jobOrNil(args mock.Arguments) (*models.Job, error) {
	if j, ok := args.Get(0).(*models.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func profileOrNil(args mock.Arguments) (*api.Profile, error) {
	if p, ok := args.Get(0).(*api.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, id))
}

func (m *mockBackend) SetJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, id, status))
}

func (m *mockBackend) JobAction(ctx context.Context, id string, action api.JobAction) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, id, action))
}

func (m *mockBackend) UpdateJob(ctx context.Context, id string, fields map[string]any) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, id, fields))
}

func (m *mockBackend) DeleteJob(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) ListJobs(ctx context.Context, p api.ListParams) (models.Page[models.Job], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.Job]), args.Error(1)
}

func (m *mockBackend) CreateJob(ctx context.Context, fields map[string]any) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, fields))
}

func (m *mockBackend) JobAudit(ctx context.Context, id string, p api.ListParams) (models.Page[models.AuditEntry], error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(models.Page[models.AuditEntry]), args.Error(1)
}

func (m *mockBackend) JobApplicants(ctx context.Context, id, employerID string) ([]models.Applicant, error) {
	args := m.Called(ctx, id, employerID)
	applicants, _ := args.Get(0).([]models.Applicant)
	return applicants, args.Error(1)
}

func (m *mockBackend) AssignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, jobID, workerID))
}

func (m *mockBackend) UnassignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error) {
	return jobOrNil(m.Called(ctx, jobID, workerID))
}

func (m *mockBackend) GetProfile(ctx context.Context, kind api.ProfileKind, id string) (*api.Profile, error) {
	return profileOrNil(m.Called(ctx, kind, id))
}

func (m *mockBackend) UpdateProfile(ctx context.Context, kind api.ProfileKind, id string, body any) (*api.Profile, error) {
	return profileOrNil(m.Called(ctx, kind, id, body))
}

func (m *mockBackend) ListWorkers(ctx context.Context, p api.ListParams) (models.Page[models.Worker], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.Worker]), args.Error(1)
}

func (m *mockBackend) ListEmployers(ctx context.Context, p api.ListParams) (models.Page[models.Employer], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Page[models.Employer]), args.Error(1)
}

func (m *mockBackend) DeleteProfile(ctx context.Context, kind api.ProfileKind, id string) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockBackend) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockBackend) Me(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func jobIn(status models.JobStatus) *models.Job {
	return &models.Job{
		ID:       "job-1",
		Title:    "Warehouse loading",
		Employer: models.Ref{ID: "emp-1", Name: "Acme Logistics"},
		Status:   status,
	}
}
