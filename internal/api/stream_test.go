package api

import (
	"context"
	"io"
	"net/http"
	"testing"
)

func TestLogsStream(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-a/logs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("line one\nline two\n"))
	}))

	stream, err := client.Logs(context.Background(), "job-a", false, false)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("reading stream failed: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Errorf("stream = %q", data)
	}
}

func TestLogsImagePath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/image/build-1/logs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("building\n"))
	}))

	stream, err := client.Logs(context.Background(), "build-1", false, true)
	if err != nil {
		t.Fatalf("Logs(image) failed: %v", err)
	}
	stream.Close()
}

func TestWaitForLogsSkipsQueue(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.Write([]byte("Job in queue.\n"))
			return
		}
		w.Write([]byte("epoch 1\nepoch 2\n"))
	}))

	stream, err := client.WaitForLogs(context.Background(), "job-a", false)
	if err != nil {
		t.Fatalf("WaitForLogs failed: %v", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("reading stream failed: %v", err)
	}
	if string(data) != "epoch 1\nepoch 2\n" {
		t.Errorf("stream = %q", data)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
