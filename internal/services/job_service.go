package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

type JobService struct {
	jobs       JobStore
	dispatcher *workflow.Dispatcher
}

func NewJobService(jobs JobStore, dispatcher *workflow.Dispatcher) *JobService {
	return &JobService{jobs: jobs, dispatcher: dispatcher}
}

func (s *JobService) ListJobs(ctx context.Context, p ListParams) (models.Page[models.Job], error) {
	if p.Status != "" {
		status, ok := models.ParseJobStatus(p.Status)
		if !ok {
			return models.Page[models.Job]{}, fmt.Errorf("unknown job status %q: %w", p.Status, models.ErrValidation)
		}
		p.Status = string(status)
	}
	page, err := s.jobs.ListJobs(ctx, p.toAPI("status"))
	if err != nil {
		return page, fmt.Errorf("could not list jobs: %w", err)
	}
	return page, nil
}

// GetJob reads the job from the backend and returns its view. An open session
// for the job is refreshed rather than trusted.
func (s *JobService) GetJob(ctx context.Context, id string) (*JobView, error) {
	session, err := s.dispatcher.LoadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return newJobView(session.Job(), session.Submitting()), nil
}

// Perform runs action on the job. The returned view is nil after a delete.
func (s *JobService) Perform(ctx context.Context, id string, action workflow.JobAction, payload workflow.JobPayload) (*JobView, error) {
	payload.CancellationNote = strings.TrimSpace(payload.CancellationNote)
	job, err := s.dispatcher.PerformJobAction(ctx, id, action, payload)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	return newJobView(*job, false), nil
}

func (s *JobService) UpdateJob(ctx context.Context, id string, fields map[string]any) (*JobView, error) {
	return s.Perform(ctx, id, workflow.ActionEdit, workflow.JobPayload{Fields: fields})
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	_, err := s.Perform(ctx, id, workflow.ActionDelete, workflow.JobPayload{})
	return err
}

// CreateJob posts a new job. The backend starts every job as PENDING.
func (s *JobService) CreateJob(ctx context.Context, fields map[string]any) (*JobView, error) {
	title, _ := fields["jobTitle"].(string)
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("jobTitle is required: %w", models.ErrValidation)
	}
	if employer, _ := fields["employerId"].(string); employer == "" {
		return nil, fmt.Errorf("employerId is required: %w", models.ErrValidation)
	}
	job, err := s.jobs.CreateJob(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("could not create job: %w", err)
	}
	log.WithFields(log.Fields{"job_id": job.ID, "status": job.Status}).Info("job created")
	return newJobView(*job, false), nil
}

// Applicants lists who applied to a live job. The request is made on behalf
// of the job's employer.
func (s *JobService) Applicants(ctx context.Context, id string) ([]models.Applicant, error) {
	session, err := s.dispatcher.OpenJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job := session.Job()
	if !workflow.JobActionAllowed(job.Status, workflow.ActionViewApplicants) {
		return nil, fmt.Errorf("applicants of a %s job: %w", models.JobStatusLabel(job.Status), models.ErrActionNotAllowed)
	}
	applicants, err := s.jobs.JobApplicants(ctx, id, job.Employer.ID)
	if err != nil {
		return nil, fmt.Errorf("could not load applicants: %w", err)
	}
	return applicants, nil
}

func (s *JobService) Audit(ctx context.Context, id string, p ListParams) (models.Page[models.AuditEntry], error) {
	page, err := s.jobs.JobAudit(ctx, id, p.toAPI("action"))
	if err != nil {
		return page, fmt.Errorf("could not load audit trail: %w", err)
	}
	return page, nil
}

// AssignWorker and UnassignWorker bypass the status gate; the backend owns
// assignment rules. The job is read again afterwards.
func (s *JobService) AssignWorker(ctx context.Context, jobID, workerID string) (*JobView, error) {
	if workerID == "" {
		return nil, fmt.Errorf("workerId is required: %w", models.ErrValidation)
	}
	if _, err := s.jobs.AssignWorker(ctx, jobID, workerID); err != nil {
		return nil, fmt.Errorf("could not assign worker: %w", err)
	}
	return s.GetJob(ctx, jobID)
}

func (s *JobService) UnassignWorker(ctx context.Context, jobID, workerID string) (*JobView, error) {
	if workerID == "" {
		return nil, fmt.Errorf("workerId is required: %w", models.ErrValidation)
	}
	if _, err := s.jobs.UnassignWorker(ctx, jobID, workerID); err != nil {
		return nil, fmt.Errorf("could not unassign worker: %w", err)
	}
	return s.GetJob(ctx, jobID)
}
