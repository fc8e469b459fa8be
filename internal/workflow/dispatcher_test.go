package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborctl/internal/api"
	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

func TestPerform_ApprovePendingJob(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{
		job:     jobIn(models.JobStatusPending),
		nextJob: jobIn(models.JobStatusApproved),
	}
	d := workflow.NewDispatcher(backend, backend)

	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	actions := s.Actions()
	assert.True(t, actions.CanApprove)
	assert.True(t, actions.CanReject)
	assert.False(t, actions.CanGoLive)

	job, err := s.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusApproved, job.Status)
	assert.Equal(t, models.JobStatusApproved, s.Job().Status)
	assert.True(t, s.Actions().CanGoLive)

	calls := backend.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "SetJobStatus", calls[1].Method)
	assert.Equal(t, models.JobStatusApproved, calls[1].Status)
}

func TestPerform_HireLiveJob(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{
		job:     jobIn(models.JobStatusLive),
		nextJob: jobIn(models.JobStatusHired),
	}
	d := workflow.NewDispatcher(backend, backend)

	job, err := d.PerformJobAction(ctx, "job-1", workflow.ActionHire, workflow.JobPayload{WorkerID: "w1"})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusHired, job.Status)

	calls := backend.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "JobAction", last.Method)
	assert.Equal(t, api.JobAction{Action: "hire", WorkerID: "w1", EmployerID: "emp-1"}, last.Action)

	actions := workflow.EvaluateJob(job.Status)
	assert.True(t, actions.CanComplete)
	assert.True(t, actions.CanCancel)
	assert.False(t, actions.CanApprove)
}

func TestPerform_CancelThenPayServiceCharge(t *testing.T) {
	ctx := context.Background()
	charge := 150.0
	unpaid := jobIn(models.JobStatusInactivePendingPayment)
	unpaid.ServiceChargeAmount = &charge

	backend := &fakeBackend{job: jobIn(models.JobStatusHired), nextJob: unpaid}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	job, err := s.Perform(ctx, workflow.ActionCancel, workflow.JobPayload{
		CancellationReason: models.CancellationOther,
		CancellationNote:   "worker did not show up",
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInactivePendingPayment, job.Status)
	require.NotNil(t, job.ServiceChargeAmount)
	assert.Equal(t, 150.0, *job.ServiceChargeAmount)
	assert.True(t, s.Actions().CanPayServiceCharge)

	backend.nextJob = jobIn(models.JobStatusClosed)
	job, err = s.Perform(ctx, workflow.ActionPayServiceCharge, workflow.JobPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, job.Status)
	assert.False(t, s.Actions().CanPayServiceCharge)

	calls := backend.Calls()
	assert.Equal(t, "cancel", calls[1].Action.Action)
	assert.Equal(t, models.CancellationOther, calls[1].Action.CancellationReason)
	assert.Equal(t, "pay-service-charge", calls[2].Action.Action)
}

func TestPerform_IllegalActionMakesNoCall(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusLive)}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	_, err = s.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
	assert.ErrorIs(t, err, models.ErrActionNotAllowed)
	assert.Len(t, backend.Calls(), 1)
	assert.Equal(t, models.JobStatusLive, s.Job().Status)
}

func TestPerform_PayloadValidation(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusHired)}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	_, err = s.Perform(ctx, workflow.ActionCancel, workflow.JobPayload{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Perform(ctx, workflow.ActionCancel, workflow.JobPayload{CancellationReason: "BORED"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Perform(ctx, workflow.ActionHire, workflow.JobPayload{})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Len(t, backend.Calls(), 1)
}

func TestPerform_BackendRejectionKeepsEntity(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{
		job: jobIn(models.JobStatusPending),
		err: &api.Error{StatusCode: 409, Message: "Job was already approved", Err: models.ErrConflict},
	}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	_, err = s.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
	require.Error(t, err)

	var actionErr *workflow.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "Job was already approved", actionErr.Message)
	assert.ErrorIs(t, err, models.ErrConflict)

	assert.Equal(t, models.JobStatusPending, s.Job().Status)
	assert.False(t, s.Submitting())
	assert.Equal(t, err, s.Err())
	assert.True(t, s.Actions().CanApprove)
}

func TestPerform_NetworkErrorUsesFallback(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusApproved), err: &api.Error{}}
	d := workflow.NewDispatcher(backend, backend)

	_, err := d.PerformJobAction(ctx, "job-1", workflow.ActionGoLive, workflow.JobPayload{})
	var actionErr *workflow.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.NotEmpty(t, actionErr.Message)
}

func TestPerform_OneActionInFlightPerJob(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		job:     jobIn(models.JobStatusPending),
		nextJob: jobIn(models.JobStatusApproved),
	}
	var once sync.Once
	backend.onCall = func() { once.Do(func() { close(entered) }) }
	backend.block = release

	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
		done <- err
	}()

	<-entered
	assert.True(t, s.Submitting())
	_, err = s.Perform(ctx, workflow.ActionReject, workflow.JobPayload{})
	assert.ErrorIs(t, err, models.ErrActionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Submitting())
	assert.Len(t, backend.Calls(), 2)
}

func TestPerform_ResponseAfterCloseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		job:     jobIn(models.JobStatusPending),
		nextJob: jobIn(models.JobStatusApproved),
	}
	var once sync.Once
	backend.onCall = func() { once.Do(func() { close(entered) }) }
	backend.block = release

	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
		done <- err
	}()

	<-entered
	s.Close()
	close(release)

	assert.ErrorIs(t, <-done, models.ErrSessionClosed)
	assert.Equal(t, models.JobStatusPending, s.Job().Status)

	// a new session is fetched fresh
	backend.job = jobIn(models.JobStatusApproved)
	s2, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)
	assert.NotSame(t, s, s2)
	assert.Equal(t, models.JobStatusApproved, s2.Job().Status)
}

func TestPerform_DeleteClosesSession(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusClosed)}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)

	job, err := s.Perform(ctx, workflow.ActionDelete, workflow.JobPayload{})
	require.NoError(t, err)
	assert.Nil(t, job)

	_, err = s.Perform(ctx, workflow.ActionEdit, workflow.JobPayload{Fields: map[string]any{"jobTitle": "x"}})
	assert.ErrorIs(t, err, models.ErrSessionClosed)
}

func TestRefresh_PicksUpServerSideChange(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusPending)}
	d := workflow.NewDispatcher(backend, backend)
	s, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)
	assert.True(t, s.Actions().CanApprove)

	// another admin approved it meanwhile
	backend.job = jobIn(models.JobStatusApproved)
	job, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusApproved, job.Status)
	assert.False(t, s.Actions().CanApprove)
	assert.True(t, s.Actions().CanGoLive)
}

func TestLoadJob_RefreshesCachedSession(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusPending)}
	d := workflow.NewDispatcher(backend, backend)

	first, err := d.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Len(t, backend.Calls(), 1)

	backend.job = jobIn(models.JobStatusLive)
	second, err := d.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, models.JobStatusLive, second.Job().Status)
	assert.True(t, second.Actions().CanHire)
	assert.Len(t, backend.Calls(), 2)

	// OpenJob keeps returning what the session holds without a fetch
	cached, err := d.OpenJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Same(t, first, cached)
	assert.Len(t, backend.Calls(), 2)
}

func TestLoadProfile_RefreshesCachedSession(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{profile: workerWithImages()}
	d := workflow.NewDispatcher(backend, backend)

	s, err := d.LoadProfile(ctx, api.KindWorker, "w-1")
	require.NoError(t, err)
	assert.Len(t, s.Kyc().AadhaarFrontImage, 2)

	backend.profile = withKyc(workerWithImages(), func(k *models.KycRecord) {
		k.Status = models.KycStatusApproved
		k.AadhaarFrontImage = append(k.AadhaarFrontImage, models.KycImageUpload{Image: "https://cdn.example/front-3.jpg"})
	})
	again, err := d.LoadProfile(ctx, api.KindWorker, "w-1")
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Len(t, again.Kyc().AadhaarFrontImage, 3)
	assert.False(t, again.Actions().CanApproveKyc)
}

func TestDispatcher_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{job: jobIn(models.JobStatusPending), nextJob: jobIn(models.JobStatusApproved)}
	d := workflow.NewDispatcher(backend, backend)

	a, err := d.OpenJob(ctx, "job-a")
	require.NoError(t, err)
	b, err := d.OpenJob(ctx, "job-b")
	require.NoError(t, err)

	_, err = a.Perform(ctx, workflow.ActionApprove, workflow.JobPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusApproved, a.Job().Status)
	assert.Equal(t, models.JobStatusPending, b.Job().Status)

	same, err := d.OpenJob(ctx, "job-a")
	require.NoError(t, err)
	assert.Same(t, a, same)
}
