package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_DecodesBackendDocument(t *testing.T) {
	var job Job
	err := json.Unmarshal([]byte(`{
		"_id": "665f",
		"jobTitle": "Loading helpers",
		"employerId": {"_id": "emp-9", "businessName": "Acme Logistics"},
		"workersRequired": 4,
		"workersAssigned": ["w1", "w2"],
		"skillsRequired": [{"_id": "sk-1", "name": "Forklift"}, "sk-2"],
		"status": "INACTIVE_PENDING_PAYMENT",
		"serviceChargeAmount": 150,
		"duration": 3
	}`), &job)
	require.NoError(t, err)

	assert.Equal(t, "665f", job.ID)
	assert.Equal(t, "Loading helpers", job.Title)
	assert.Equal(t, Ref{ID: "emp-9", Name: "Acme Logistics"}, job.Employer)
	assert.Equal(t, 2, job.WorkersAssigned)
	assert.Equal(t, []Ref{{ID: "sk-1", Name: "Forklift"}, {ID: "sk-2"}}, job.Skills)
	assert.Equal(t, JobStatusInactivePendingPayment, job.Status)
	require.NotNil(t, job.ServiceChargeAmount)
	assert.Equal(t, 150.0, *job.ServiceChargeAmount)
	assert.Equal(t, "3", job.Duration)
}

func TestJob_EmployerFallbacks(t *testing.T) {
	var bare Job
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"j1","employerId":"emp-1","status":"LIVE"}`), &bare))
	assert.Equal(t, "emp-1", bare.Employer.ID)

	var legacy Job
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"j1","employer":{"_id":"emp-2","companyName":"Old Co"}}`), &legacy))
	assert.Equal(t, Ref{ID: "emp-2", Name: "Old Co"}, legacy.Employer)
}

func TestJob_RoundTripsCanonicalForm(t *testing.T) {
	charge := 99.5
	in := Job{
		ID:                  "j1",
		Title:               "Night shift",
		Employer:            Ref{ID: "emp-1", Name: "Acme"},
		WorkersRequired:     2,
		WorkersAssigned:     1,
		Status:              JobStatusHired,
		ServiceChargeAmount: &charge,
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Job
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestWorker_UserFallbacks(t *testing.T) {
	var w Worker
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "w-1",
		"fullName": "Ravi Kumar",
		"user": {"_id": "u-1", "email": "ravi@example.com", "phone": "+91 90000 00000"},
		"phone": "ignored",
		"kyc": {"status": "PENDING", "selfieImage": "https://cdn.example/s.jpg"}
	}`), &w))

	assert.Equal(t, "u-1", w.User.ID)
	assert.Equal(t, "ravi@example.com", w.Email)
	assert.Equal(t, "+91 90000 00000", w.Phone)
	require.NotNil(t, w.Kyc)
	assert.Equal(t, "https://cdn.example/s.jpg", w.Kyc.SelfieImage.Latest())

	var e Employer
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"e-1","userId":"u-2","companyName":"Acme","phone":"123"}`), &e))
	assert.Equal(t, "u-2", e.User.ID)
	assert.Equal(t, "Acme", e.DisplayName())
	assert.Equal(t, "123", e.Phone)
}
