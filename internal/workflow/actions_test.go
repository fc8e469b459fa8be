package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

func TestEvaluateJob_LegalityTable(t *testing.T) {
	legalIn := map[workflow.JobAction][]models.JobStatus{
		workflow.ActionApprove:          {models.JobStatusPending, models.JobStatusRejected},
		workflow.ActionReject:           {models.JobStatusPending},
		workflow.ActionGoLive:           {models.JobStatusApproved},
		workflow.ActionClose:            {models.JobStatusApproved, models.JobStatusLive},
		workflow.ActionEdit:             models.AllJobStatuses,
		workflow.ActionViewApplicants:   {models.JobStatusLive},
		workflow.ActionHire:             {models.JobStatusLive},
		workflow.ActionComplete:         {models.JobStatusHired},
		workflow.ActionCancel:           {models.JobStatusHired},
		workflow.ActionPayServiceCharge: {models.JobStatusInactivePendingPayment},
		workflow.ActionDelete:           models.AllJobStatuses,
	}

	for _, action := range workflow.AllJobActions {
		legal := legalIn[action]
		for _, status := range models.AllJobStatuses {
			want := false
			for _, s := range legal {
				if s == status {
					want = true
				}
			}
			assert.Equal(t, want, workflow.JobActionAllowed(status, action),
				"%s in %s", action, status)
		}
	}
}

func TestEvaluateJob_Spot(t *testing.T) {
	assert.False(t, workflow.EvaluateJob(models.JobStatusLive).CanApprove)
	assert.True(t, workflow.EvaluateJob(models.JobStatusPending).CanApprove)
	assert.True(t, workflow.EvaluateJob(models.JobStatusApproved).CanGoLive)
	assert.False(t, workflow.EvaluateJob(models.JobStatusLive).CanGoLive)
}

func TestEvaluateJob_UnknownStatusOnlyAllowsOverrides(t *testing.T) {
	for _, status := range []models.JobStatus{"", "ARCHIVED"} {
		assert.Equal(t,
			[]workflow.JobAction{workflow.ActionEdit, workflow.ActionDelete},
			workflow.AllowedJobActions(status))
	}
}

func TestEvaluateJob_IsPure(t *testing.T) {
	for _, status := range models.AllJobStatuses {
		assert.Equal(t, workflow.EvaluateJob(status), workflow.EvaluateJob(status))
	}
}

func TestParseJobAction(t *testing.T) {
	for in, want := range map[string]workflow.JobAction{
		"approve":            workflow.ActionApprove,
		"GO_LIVE":            workflow.ActionGoLive,
		"go live":            workflow.ActionGoLive,
		"pay-service-charge": workflow.ActionPayServiceCharge,
	} {
		got, err := workflow.ParseJobAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := workflow.ParseJobAction("publish")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEvaluateKyc(t *testing.T) {
	assert.Equal(t, workflow.KycActions{}, workflow.EvaluateKyc(nil))

	pending := &models.KycRecord{Status: models.KycStatusPending}
	assert.True(t, workflow.EvaluateKyc(pending).CanApproveKyc)
	assert.False(t, workflow.EvaluateKyc(pending).CanReviewImages)

	withImages := &models.KycRecord{
		Status:      models.KycStatusApproved,
		SelfieImage: models.KycImageField{{Image: "https://cdn.example/selfie.jpg"}},
	}
	assert.False(t, workflow.EvaluateKyc(withImages).CanApproveKyc)
	assert.True(t, workflow.EvaluateKyc(withImages).CanReviewImages)
}
