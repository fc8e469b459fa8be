package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"laborctl/internal/models"
)

// JobAction is the body of POST /api/job/:id/action.
type JobAction struct {
	Action              string                    `json:"action"`
	WorkerID            string                    `json:"workerId,omitempty"`
	EmployerID          string                    `json:"employerId,omitempty"`
	CompleteImmediately bool                      `json:"completeImmediately,omitempty"`
	CancellationReason  models.CancellationReason `json:"cancellationReason,omitempty"`
	CancellationNote    string                    `json:"cancellationNote,omitempty"`
}

func (c *Client) ListJobs(ctx context.Context, p ListParams) (models.Page[models.Job], error) {
	return list[models.Job](ctx, c, c.apipath("job"), p, "jobs")
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := c.get(ctx, c.apipath("job", jobID), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts the job fields as given; the backend starts it as PENDING.
func (c *Client) CreateJob(ctx context.Context, fields map[string]any) (*models.Job, error) {
	var job models.Job
	if err := c.post(ctx, c.apipath("job"), fields, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, jobID string, fields map[string]any) (*models.Job, error) {
	var job models.Job
	if err := c.put(ctx, c.apipath("job", jobID), fields, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	return c.delete(ctx, c.apipath("job", jobID))
}

// SetJobStatus asks the backend to move a job to status.
func (c *Client) SetJobStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.Job, error) {
	var job models.Job
	body := map[string]models.JobStatus{"status": status}
	if err := c.patch(ctx, c.apipath("job", jobID, "status"), body, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// JobAction runs one of the employer-side actions (hire, complete, cancel,
// pay-service-charge) on behalf of the job's employer.
func (c *Client) JobAction(ctx context.Context, jobID string, action JobAction) (*models.Job, error) {
	var job models.Job
	if err := c.post(ctx, c.apipath("job", jobID, "action"), action, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) JobAudit(ctx context.Context, jobID string, p ListParams) (models.Page[models.AuditEntry], error) {
	return list[models.AuditEntry](ctx, c, c.apipath("job", jobID, "audit"), p, "audit")
}

func (c *Client) JobApplicants(ctx context.Context, jobID, employerID string) ([]models.Applicant, error) {
	var q url.Values
	if employerID != "" {
		q = url.Values{"employerId": []string{employerID}}
	}
	var raw json.RawMessage
	if err := c.get(ctx, c.apipath("job", jobID, "applicants"), q, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.Applicant{}, nil
	}

	var applicants []models.Applicant
	if err := json.Unmarshal(raw, &applicants); err == nil {
		return applicants, nil
	}
	var wrapped struct {
		Applicants []models.Applicant `json:"applicants"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &Error{Message: "unexpected applicants response", Body: raw, Err: err}
	}
	return wrapped.Applicants, nil
}

func (c *Client) AssignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error) {
	var job models.Job
	body := map[string]string{"workerId": workerID}
	if err := c.post(ctx, c.apipath("job", jobID, "assign"), body, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UnassignWorker(ctx context.Context, jobID, workerID string) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodDelete, c.apipath("job", jobID, "assign", workerID), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
