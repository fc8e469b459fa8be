package workflow_test

import (
	"context"
	"sync"

	"laborctl/internal/api"
	"laborctl/internal/models"
)

type call struct {
	Method string
	ID     string
	Status models.JobStatus
	Action api.JobAction
	Body   any
}

// fakeBackend answers from canned responses and records every call.
type fakeBackend struct {
	mu    sync.Mutex
	calls []call

	job      *models.Job
	profile  *api.Profile
	nextJob  *models.Job
	nextProf *api.Profile
	err      error
	block    chan struct{}
	onCall   func()
}

func (f *fakeBackend) record(c call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	hook := f.onCall
	block := f.block
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if block != nil {
		<-block
	}
}

func (f *fakeBackend) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBackend) respondJob() (*models.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	j := *f.nextJob
	return &j, nil
}

func (f *fakeBackend) GetJob(ctx context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: "GetJob", ID: id})
	f.mu.Unlock()
	j := *f.job
	return &j, nil
}

func (f *fakeBackend) SetJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	f.record(call{Method: "SetJobStatus", ID: id, Status: status})
	return f.respondJob()
}

func (f *fakeBackend) JobAction(ctx context.Context, id string, action api.JobAction) (*models.Job, error) {
	f.record(call{Method: "JobAction", ID: id, Action: action})
	return f.respondJob()
}

func (f *fakeBackend) UpdateJob(ctx context.Context, id string, fields map[string]any) (*models.Job, error) {
	f.record(call{Method: "UpdateJob", ID: id, Body: fields})
	return f.respondJob()
}

func (f *fakeBackend) DeleteJob(ctx context.Context, id string) error {
	f.record(call{Method: "DeleteJob", ID: id})
	return f.err
}

func (f *fakeBackend) GetProfile(ctx context.Context, kind api.ProfileKind, id string) (*api.Profile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: "GetProfile", ID: id})
	f.mu.Unlock()
	p := *f.profile
	return &p, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, kind api.ProfileKind, id string, body any) (*api.Profile, error) {
	f.record(call{Method: "UpdateProfile", ID: id, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	p := *f.nextProf
	return &p, nil
}

func jobIn(status models.JobStatus) *models.Job {
	return &models.Job{
		ID:       "job-1",
		Title:    "Warehouse loading",
		Employer: models.Ref{ID: "emp-1", Name: "Acme Logistics"},
		Status:   status,
	}
}
