package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gitlab.com/chit-chat/kris/internal/credentials"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

// fakeStore is an in-memory credential store.
type fakeStore struct {
	mu      sync.Mutex
	account credentials.Account
	tokens  []string
}

func (f *fakeStore) Account() (credentials.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account, nil
}

func (f *fakeStore) SetAccessToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.account.AccessToken = token
	f.tokens = append(f.tokens, token)
	return nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{account: credentials.Account{
		Email:       "user@example.com",
		Password:    "hunter2",
		APIKey:      "api-key-123",
		AccessToken: "token-0",
	}}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *fakeStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newFakeStore()
	return New(store, WithBaseURL(server.URL)), store
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	var gotAPIKey, gotAuthorization string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotAuthorization = r.Header.Get("Authorization")

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode auth body: %v", err)
		}
		if body["email"] != "user@example.com" || body["password"] != "hunter2" {
			t.Errorf("auth body = %v", body)
		}
		writeJSON(t, w, map[string]any{
			"error_code": 0,
			"token":      map[string]string{"access_token": "token-1"},
		})
	}))

	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if gotAPIKey != "api-key-123" {
		t.Errorf("X-Api-Key = %q, want %q", gotAPIKey, "api-key-123")
	}
	if gotAuthorization != "" {
		t.Errorf("Authorization sent on /auth: %q", gotAuthorization)
	}
	if len(store.tokens) != 1 || store.tokens[0] != "token-1" {
		t.Errorf("stored tokens = %v, want [token-1]", store.tokens)
	}
}

func TestListJobsSendsAuthorization(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token-0" {
			t.Errorf("Authorization = %q, want %q", got, "token-0")
		}
		writeJSON(t, w, map[string]any{
			"error_code": 0,
			"jobs": []map[string]any{
				{"job_name": "job-a", "status": "Running", "created_at": 100},
			},
		})
	}))

	jobs, err := client.ListJobs(context.Background(), false)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Name != "job-a" {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestListJobsService(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"error_code": 0, "jobs": []any{}})
	}))

	if _, err := client.ListJobs(context.Background(), true); err != nil {
		t.Fatalf("ListJobs(service) failed: %v", err)
	}
}

func TestTokenRefresh(t *testing.T) {
	var jobCalls, authCalls int
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			authCalls++
			writeJSON(t, w, map[string]any{
				"error_code": 0,
				"token":      map[string]string{"access_token": "token-fresh"},
			})
		case "/jobs":
			jobCalls++
			if r.Header.Get("Authorization") != "token-fresh" {
				writeJSON(t, w, map[string]any{
					"error_code":    1,
					"error_message": "access_token expired",
				})
				return
			}
			writeJSON(t, w, map[string]any{"error_code": 0, "jobs": []any{}})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	if _, err := client.ListJobs(context.Background(), false); err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if authCalls != 1 {
		t.Errorf("auth calls = %d, want 1", authCalls)
	}
	if jobCalls != 2 {
		t.Errorf("job calls = %d, want 2", jobCalls)
	}
	if store.account.AccessToken != "token-fresh" {
		t.Errorf("stored token = %q, want %q", store.account.AccessToken, "token-fresh")
	}
}

func TestTokenRefreshDoesNotLoop(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			writeJSON(t, w, map[string]any{
				"error_code": 0,
				"token":      map[string]string{"access_token": "token-fresh"},
			})
		default:
			// Keep reporting the token as expired even after the refresh.
			writeJSON(t, w, map[string]any{
				"error_code":    1,
				"error_message": "access_token expired",
			})
		}
	}))

	_, err := client.ListJobs(context.Background(), false)
	if !errors.Is(err, kerrors.ErrTokenRefreshFailed) {
		t.Fatalf("ListJobs error = %v, want ErrTokenRefreshFailed", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, map[string]any{"error_code": 0, "jobs": []any{}})
	}))

	if _, err := client.ListJobs(context.Background(), false); err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]any{"error_code": 42, "error_message": "no such job"})
	}))

	_, err := client.Status(context.Background(), "nope", false)
	if err == nil {
		t.Fatal("Status on 404 succeeded, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not be retried)", calls)
	}
}

func TestWaitForJob(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		status := "Running"
		if calls >= 3 {
			status = "Complete"
		}
		writeJSON(t, w, map[string]any{
			"error_code": 0,
			"job_name":   "job-a",
			"status":     status,
		})
	}))

	status, err := client.WaitForJob(context.Background(), "job-a", true)
	if err != nil {
		t.Fatalf("WaitForJob failed: %v", err)
	}
	if status.Status != JobStatusComplete {
		t.Errorf("status = %q, want Complete", status.Status)
	}
	if calls < 3 {
		t.Errorf("calls = %d, want at least 3", calls)
	}
}

func TestNFSFileExists(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/service/storage/list":
			writeJSON(t, w, map[string]any{"error_code": 0, "job_name": "ls-1"})
		case "/service/jobs/ls-1":
			writeJSON(t, w, map[string]any{"error_code": 0, "job_name": "ls-1", "status": "Complete"})
		case "/service/storage/list/ls-1/json":
			writeJSON(t, w, map[string]any{
				"error_code": 0,
				"ls":         []map[string]string{{"name": "missing", "size": "No"}},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	exists, err := client.NFSFileExists(context.Background(), "/home/jovyan/.kris/missing")
	if err != nil {
		t.Fatalf("NFSFileExists failed: %v", err)
	}
	if exists {
		t.Error("NFSFileExists = true for a missing file")
	}
}

func TestRunDefaults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode run body: %v", err)
		}
		if body["script"] != "/home/jovyan/agent.py archive run.py 0" {
			t.Errorf("script = %v", body["script"])
		}
		if body["base_image"] != defaultImage {
			t.Errorf("base_image = %v, want default", body["base_image"])
		}
		if fmt.Sprint(body["n_workers"]) != "1" || fmt.Sprint(body["n_gpus"]) != "1" {
			t.Errorf("workers/gpus = %v/%v, want 1/1", body["n_workers"], body["n_gpus"])
		}
		writeJSON(t, w, map[string]any{"error_code": 0, "job_name": "job-new"})
	}))

	job, err := client.Run(context.Background(), RunSpec{Script: "agent.py archive run.py 0"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if job.Name != "job-new" {
		t.Errorf("job name = %q, want job-new", job.Name)
	}
}
