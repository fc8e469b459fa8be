package workflow

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"laborctl/internal/api"
	"laborctl/internal/models"
)

// MaxNoteLength bounds free-text notes and reasons sent with an action.
const MaxNoteLength = 500

// JobBackend is the part of the REST client the job workflow needs.
type JobBackend interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	SetJobStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.Job, error)
	JobAction(ctx context.Context, jobID string, action api.JobAction) (*models.Job, error)
	UpdateJob(ctx context.Context, jobID string, fields map[string]any) (*models.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// ProfileBackend is the part of the REST client the KYC workflow needs.
type ProfileBackend interface {
	GetProfile(ctx context.Context, kind api.ProfileKind, id string) (*api.Profile, error)
	UpdateProfile(ctx context.Context, kind api.ProfileKind, id string, body any) (*api.Profile, error)
}

// JobPayload carries the inputs of actions that need more than the job id.
type JobPayload struct {
	// WorkerID is required by hire.
	WorkerID string
	// EmployerID acts on behalf of an employer; defaults to the job's employer.
	EmployerID          string
	CompleteImmediately bool
	// CancellationReason is required by cancel.
	CancellationReason models.CancellationReason
	CancellationNote   string
	// Fields are the edited job fields for edit.
	Fields map[string]any
}

// Dispatcher caches one session per open entity and routes actions to it.
// Sessions for different entities never share state.
type Dispatcher struct {
	jobs     JobBackend
	profiles ProfileBackend

	mu              sync.Mutex
	jobSessions     map[string]*JobSession
	profileSessions map[string]*ProfileSession
}

func NewDispatcher(jobs JobBackend, profiles ProfileBackend) *Dispatcher {
	return &Dispatcher{
		jobs:            jobs,
		profiles:        profiles,
		jobSessions:     make(map[string]*JobSession),
		profileSessions: make(map[string]*ProfileSession),
	}
}

// OpenJob returns the cached session for jobID, fetching the job when there
// is none yet.
func (d *Dispatcher) OpenJob(ctx context.Context, jobID string) (*JobSession, error) {
	d.mu.Lock()
	if s, ok := d.jobSessions[jobID]; ok && !s.state.isClosed() {
		d.mu.Unlock()
		return s, nil
	}
	d.mu.Unlock()

	job, err := d.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, actionFailed("load job", "Failed to load job", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.jobSessions[jobID]; ok && !s.state.isClosed() {
		return s, nil
	}
	s := newJobSession(d, jobID, job)
	d.jobSessions[jobID] = s
	return s, nil
}

// LoadJob is OpenJob for readers that must see the backend's current copy:
// a cached session is refreshed before it is returned.
func (d *Dispatcher) LoadJob(ctx context.Context, jobID string) (*JobSession, error) {
	d.mu.Lock()
	s, ok := d.jobSessions[jobID]
	d.mu.Unlock()
	if !ok || s.state.isClosed() {
		return d.OpenJob(ctx, jobID)
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// PerformJobAction runs action on the job with the last known status deciding
// whether it is legal.
func (d *Dispatcher) PerformJobAction(ctx context.Context, jobID string, action JobAction, payload JobPayload) (*models.Job, error) {
	s, err := d.OpenJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.Perform(ctx, action, payload)
}

// OpenProfile is OpenJob for workers and employers.
func (d *Dispatcher) OpenProfile(ctx context.Context, kind api.ProfileKind, id string) (*ProfileSession, error) {
	key := string(kind) + ":" + id
	d.mu.Lock()
	if s, ok := d.profileSessions[key]; ok && !s.state.isClosed() {
		d.mu.Unlock()
		return s, nil
	}
	d.mu.Unlock()

	profile, err := d.profiles.GetProfile(ctx, kind, id)
	if err != nil {
		return nil, actionFailed("load "+string(kind), "Failed to load "+string(kind), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.profileSessions[key]; ok && !s.state.isClosed() {
		return s, nil
	}
	s := newProfileSession(d, kind, id, profile)
	d.profileSessions[key] = s
	return s, nil
}

// LoadProfile is LoadJob for workers and employers.
func (d *Dispatcher) LoadProfile(ctx context.Context, kind api.ProfileKind, id string) (*ProfileSession, error) {
	d.mu.Lock()
	s, ok := d.profileSessions[string(kind)+":"+id]
	d.mu.Unlock()
	if !ok || s.state.isClosed() {
		return d.OpenProfile(ctx, kind, id)
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// CloseAll closes every open session, discarding responses still in flight.
func (d *Dispatcher) CloseAll() {
	d.mu.Lock()
	jobs := d.jobSessions
	profiles := d.profileSessions
	d.jobSessions = make(map[string]*JobSession)
	d.profileSessions = make(map[string]*ProfileSession)
	d.mu.Unlock()

	for _, s := range jobs {
		s.state.close()
	}
	for _, s := range profiles {
		s.state.close()
	}
}

// CloseProfile closes the cached session of a profile, if any, without
// fetching it.
func (d *Dispatcher) CloseProfile(kind api.ProfileKind, id string) {
	d.mu.Lock()
	s, ok := d.profileSessions[string(kind)+":"+id]
	d.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (d *Dispatcher) forgetJob(id string, s *JobSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.jobSessions[id] == s {
		delete(d.jobSessions, id)
	}
}

func (d *Dispatcher) forgetProfile(key string, s *ProfileSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profileSessions[key] == s {
		delete(d.profileSessions, key)
	}
}

// JobSession is one open job. Every read of its actions is derived from the
// job it holds right now.
type JobSession struct {
	id         string
	dispatcher *Dispatcher
	state      entityState[models.Job]
}

func newJobSession(d *Dispatcher, id string, job *models.Job) *JobSession {
	s := &JobSession{id: id, dispatcher: d}
	s.state.current = job
	return s
}

func (s *JobSession) ID() string { return s.id }

// Job returns a copy of the last job the backend returned.
func (s *JobSession) Job() models.Job {
	job, _ := s.state.snapshot()
	return job
}

func (s *JobSession) Actions() JobActions {
	return EvaluateJob(s.Job().Status)
}

// Submitting reports whether an action is in flight; controls should be
// disabled while it is.
func (s *JobSession) Submitting() bool { return s.state.isSubmitting() }

// Err is the error of the last failed action, cleared by the next attempt.
func (s *JobSession) Err() error { return s.state.lastError() }

// Refresh re-reads the job. A result older than an action response that
// landed meanwhile is dropped.
func (s *JobSession) Refresh(ctx context.Context) (models.Job, error) {
	seen := s.state.currentVersion()
	job, err := s.dispatcher.jobs.GetJob(ctx, s.id)
	if err != nil {
		return s.Job(), actionFailed("load job", "Failed to load job", err)
	}
	if s.state.isClosed() {
		return models.Job{}, models.ErrSessionClosed
	}
	s.state.replace(job, seen)
	return s.Job(), nil
}

// Close ends the session. Responses arriving afterwards are discarded.
func (s *JobSession) Close() {
	s.state.close()
	s.dispatcher.forgetJob(s.id, s)
}

// Perform dispatches one action. It fails without calling the backend when
// the action is illegal for the current status, its payload is invalid, or
// another action is still in flight. On success the held job is replaced by
// the backend's response, which is also returned. Delete returns a nil job
// and closes the session.
func (s *JobSession) Perform(ctx context.Context, action JobAction, payload JobPayload) (*models.Job, error) {
	if err := validateJobPayload(action, payload); err != nil {
		return nil, err
	}

	current, err := s.state.begin(func(job models.Job) error {
		if !JobActionAllowed(job.Status, action) {
			return fmt.Errorf("%s on a %s job: %w", action.Label(), models.JobStatusLabel(job.Status), models.ErrActionNotAllowed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"job_id": s.id, "action": action, "from": current.Status})
	logger.Info("dispatching job action")

	updated, callErr := s.call(ctx, action, current, payload)
	if callErr != nil {
		callErr = actionFailed(string(action), fallbackMessage(action), callErr)
		logger.Warnf("job action failed: %v", callErr)
	}

	if err := s.state.finish(updated, callErr); err != nil {
		return nil, err
	}

	if action == ActionDelete {
		s.Close()
		return nil, nil
	}

	job := s.Job()
	if job.Status == models.JobStatusInactivePendingPayment &&
		current.Status != job.Status && action != ActionCancel {
		logger.Warnf("%v: %s led to %s", models.ErrUnsupportedTransition, action, job.Status)
	}
	logger.WithField("to", job.Status).Info("job action applied")
	return &job, nil
}

func (s *JobSession) call(ctx context.Context, action JobAction, current models.Job, p JobPayload) (*models.Job, error) {
	backend := s.dispatcher.jobs
	if status, ok := targetStatus(action); ok {
		return backend.SetJobStatus(ctx, s.id, status)
	}

	employerID := p.EmployerID
	if employerID == "" {
		employerID = current.Employer.ID
	}

	switch action {
	case ActionHire:
		return backend.JobAction(ctx, s.id, api.JobAction{
			Action:              "hire",
			WorkerID:            p.WorkerID,
			EmployerID:          employerID,
			CompleteImmediately: p.CompleteImmediately,
		})
	case ActionComplete:
		return backend.JobAction(ctx, s.id, api.JobAction{Action: "complete", EmployerID: employerID})
	case ActionCancel:
		return backend.JobAction(ctx, s.id, api.JobAction{
			Action:             "cancel",
			EmployerID:         employerID,
			CancellationReason: p.CancellationReason,
			CancellationNote:   p.CancellationNote,
		})
	case ActionPayServiceCharge:
		return backend.JobAction(ctx, s.id, api.JobAction{Action: "pay-service-charge", EmployerID: employerID})
	case ActionEdit:
		return backend.UpdateJob(ctx, s.id, p.Fields)
	case ActionDelete:
		return nil, backend.DeleteJob(ctx, s.id)
	case ActionViewApplicants:
		// read-only; the session keeps its job
		job := current
		return &job, nil
	}
	return nil, fmt.Errorf("no backend call for %q: %w", action, models.ErrActionNotAllowed)
}

func validateJobPayload(action JobAction, p JobPayload) error {
	switch action {
	case ActionHire:
		if p.WorkerID == "" {
			return invalid("workerId", "select a worker to hire")
		}
	case ActionCancel:
		if p.CancellationReason == "" {
			return invalid("cancellationReason", "cancellation reason is required")
		}
		if !p.CancellationReason.Valid() {
			return invalid("cancellationReason", fmt.Sprintf("unknown cancellation reason %q", p.CancellationReason))
		}
		if utf8.RuneCountInString(p.CancellationNote) > MaxNoteLength {
			return invalid("cancellationNote", fmt.Sprintf("cancellation note must be at most %d characters", MaxNoteLength))
		}
	case ActionEdit:
		if len(p.Fields) == 0 {
			return invalid("fields", "nothing to update")
		}
	}
	return nil
}

func fallbackMessage(action JobAction) string {
	switch action {
	case ActionApprove, ActionReject, ActionGoLive, ActionClose:
		return "Status update failed"
	case ActionEdit:
		return "Update failed"
	case ActionDelete:
		return "Delete failed"
	}
	return "Action failed"
}
