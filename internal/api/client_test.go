package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborctl/internal/models"
	"laborctl/internal/session"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// newTestClient starts a server answering every request with status/body and
// records what it received.
func newTestClient(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var got []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.Body)
		}
		got = append(got, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	sess, err := session.Load("")
	require.NoError(t, err)
	c, err := New(srv.URL, 5*time.Second, sess)
	require.NoError(t, err)
	return c, &got
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url", time.Second, nil)
	assert.Error(t, err)
}

func TestApipath_EscapesSegments(t *testing.T) {
	c := &Client{}
	assert.Equal(t, "/api/job/a%2Fb/status", c.apipath("job", "a/b", "status"))
}

func TestGetJob_UnwrapsDataEnvelope(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"success": true, "data": {"_id": "j1", "jobTitle": "Packers", "status": "LIVE"}}`)
	require.NoError(t, c.session.Set("tok-1", "", nil))

	job, err := c.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.ID)
	assert.Equal(t, models.JobStatusLive, job.Status)

	require.Len(t, *got, 1)
	req := (*got)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/job/j1", req.Path)
	assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
}

func TestGetJob_BareBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"_id": "j1", "status": "PENDING"}`)
	job, err := c.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		sentinel error
	}{
		{"message field", http.StatusConflict, `{"message": "Job already approved"}`, "Job already approved", models.ErrConflict},
		{"error field", http.StatusBadRequest, `{"error": "workerId is required"}`, "workerId is required", models.ErrValidation},
		{"nested error", http.StatusNotFound, `{"error": {"message": "Job not found"}}`, "Job not found", models.ErrNotFound},
		{"no body", http.StatusInternalServerError, ``, "Internal Server Error", nil},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.status, tc.body)
			_, err := c.SetJobStatus(context.Background(), "j1", models.JobStatusApproved)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, MessageOf(err, "Status update failed"))
			if tc.sentinel != nil {
				assert.ErrorIs(t, err, tc.sentinel)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, time.Second, nil)
	require.NoError(t, err)
	_, err = c.GetJob(context.Background(), "j1")
	require.Error(t, err)
	assert.Equal(t, 0, StatusCodeOf(err))
	assert.Equal(t, "Network error: could not reach the server", MessageOf(err, "x"))
}

func TestUnauthorized_ExpiresSession(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, `{"message": "jwt expired"}`)
	require.NoError(t, c.session.Set("stale", "refresh", nil))

	var events []session.Event
	c.session.Subscribe(func(ev session.Event) { events = append(events, ev) })

	_, err := c.GetJob(context.Background(), "j1")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.Equal(t, "Session expired", MessageOf(err, ""))
	assert.False(t, c.session.Authenticated())
	assert.Equal(t, []session.Event{session.EventExpired}, events)
}

func TestLogin(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data": {"accessToken": "a1", "refreshToken": "r1", "user": {"_id": "u1", "email": "admin@example.com"}}}`)

	s, err := c.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a1", s.AccessToken)
	assert.Equal(t, "a1", c.session.Token())
	assert.Equal(t, "r1", c.session.RefreshToken())

	req := (*got)[0]
	assert.Equal(t, "/api/auth/admin/login", req.Path)
	assert.Equal(t, map[string]any{"email": "admin@example.com", "password": "secret"}, req.Body)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestLogin_BadCredentialsKeepSession(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, `{}`)
	var events []session.Event
	c.session.Subscribe(func(ev session.Event) { events = append(events, ev) })

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", MessageOf(err, ""))
	assert.Empty(t, events)
}

func TestLogout_ClearsSessionEvenOnFailure(t *testing.T) {
	c, got := newTestClient(t, http.StatusInternalServerError, `{"message": "boom"}`)
	require.NoError(t, c.session.Set("a1", "r1", nil))

	err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, c.session.Authenticated())
	assert.Equal(t, map[string]any{"refreshToken": "r1"}, (*got)[0].Body)
}

func TestListJobs(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data": {
		"jobs": [{"_id": "j1", "status": "LIVE"}, {"_id": "j2", "status": "HIRED"}],
		"pagination": {"page": 2, "limit": 2, "total": 7, "pages": 4}
	}}`)

	page, err := c.ListJobs(context.Background(), ListParams{
		Page:    2,
		Limit:   2,
		Search:  "packers",
		Filters: map[string]string{"status": "LIVE", "employerId": ""},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "j2", page.Items[1].ID)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 2, Total: 7, Pages: 4}, page.Pagination)
	assert.Equal(t, "limit=2&page=2&search=packers&status=LIVE", (*got)[0].Query)
}

func TestListRoles_ItemsFallback(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"items": [{"_id": "r1", "name": "Ops"}]}`)
	page, err := c.ListRoles(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []models.Ref{{ID: "r1", Name: "Ops"}}, page.Items)
}

func TestListWorkers_EmptyPage(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"pagination": {"page": 1, "limit": 20, "total": 0, "pages": 0}}`)
	page, err := c.ListWorkers(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, "/api/worker/workers", (*got)[0].Path)
}

func TestJobAction_Body(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data": {"_id": "j1", "status": "INACTIVE_PENDING_PAYMENT", "serviceChargeAmount": 99}}`)

	job, err := c.JobAction(context.Background(), "j1", JobAction{
		Action:             "cancel",
		EmployerID:         "emp-1",
		CancellationReason: models.CancellationNotFit,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInactivePendingPayment, job.Status)

	req := (*got)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/job/j1/action", req.Path)
	assert.Equal(t, map[string]any{"action": "cancel", "employerId": "emp-1", "cancellationReason": "NOT_FIT"}, req.Body)
}

func TestJobApplicants_Shapes(t *testing.T) {
	for name, body := range map[string]string{
		"array":   `{"data": [{"workerId": {"_id": "w1", "fullName": "Asha"}, "status": "APPLIED"}]}`,
		"wrapped": `{"data": {"applicants": [{"worker": "w1", "status": "APPLIED"}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, got := newTestClient(t, http.StatusOK, body)
			applicants, err := c.JobApplicants(context.Background(), "j1", "emp-1")
			require.NoError(t, err)
			require.Len(t, applicants, 1)
			assert.Equal(t, "w1", applicants[0].Worker.ID)
			assert.Equal(t, "employerId=emp-1", (*got)[0].Query)
		})
	}
}

func TestUpdateProfile_KycBody(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"data": {"_id": "e1", "companyName": "Acme", "kyc": {"status": "REJECTED"}}}`)

	p, err := c.UpdateProfile(context.Background(), KindEmployer, "e1", KycUpdate{
		KycStatus:            models.KycStatusRejected,
		KycImageVerification: models.ImageVerificationFailed,
		RejectedImages:       []models.RejectedImage{{ImageType: models.KycImageBack, ImageURL: "back.jpg"}},
		KycRejectedReason:    "unreadable",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Name())
	assert.Equal(t, models.KycStatusRejected, p.Kyc().Status)

	req := (*got)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/employer/employers/e1", req.Path)
	assert.Equal(t, map[string]any{
		"kycStatus":            "REJECTED",
		"kycImageVerification": "FAILED",
		"rejectedImages":       []any{map[string]any{"imageType": "BACK", "imageUrl": "back.jpg"}},
		"kycRejectedReason":    "unreadable",
	}, req.Body)
}

func TestDeleteProfile_UnknownKind(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{}`)
	err := c.DeleteProfile(context.Background(), ProfileKind("admin"), "x")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, *got)
}
