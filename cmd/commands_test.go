package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend answers the few admin endpoints the command tests touch.
func backend(t *testing.T) *httptest.Server {
	status := "PENDING"
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"data":{"accessToken":"tok-1","user":{"email":"admin@example.com"}}}`)
	})
	mux.HandleFunc("/api/job/j1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"_id": "j1", "jobTitle": "Packers", "status": status,
		}})
	})
	mux.HandleFunc("/api/job/j1/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		status = body["status"]
		json.NewEncoder(w).Encode(map[string]any{"_id": "j1", "jobTitle": "Packers", "status": status})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewBufferString("secret\n"))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	srv := backend(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("LABORCTL_API_BASE_URL", srv.URL)
	t.Setenv("LABORCTL_SESSION_PATH", sessionPath)
	t.Setenv("LABORCTL_LOG_LEVEL", "error")
	t.Setenv("LABORCTL_OUTPUT_COLOR", "false")
	return sessionPath
}

func TestStatusCommand(t *testing.T) {
	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "INACTIVE_PENDING_PAYMENT")
	assert.Contains(t, out, "Inactive (unpaid)")
}

func TestJobShowAndApprove(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "job", "show", "j1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "Allowed actions: approve, reject, edit, delete")

	out, err = run(t, "job", "approve", "j1")
	require.NoError(t, err)
	assert.Contains(t, out, "Approve: job j1 is now Approved.")

	_, err = run(t, "job", "complete", "j1")
	assert.ErrorContains(t, err, "not allowed")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	sessionPath := setupEnv(t)

	out, err := run(t, "login", "--email", "admin@example.com", "--password", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin@example.com.")

	raw, err := os.ReadFile(sessionPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tok-1")
}

func TestReviewRequiresOneMode(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "worker", "review", "w1")
	assert.EqualError(t, err, "choose exactly one of --approve or --reject")
}
