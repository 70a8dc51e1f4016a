package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

// queuedLogPrefix is what the platform streams while a job has not started.
const queuedLogPrefix = "Job in queue."

// Logs opens the log stream of a job. With image it streams an image build
// log, with service a service job log.
func (c *Client) Logs(ctx context.Context, jobID string, service, image bool) (io.ReadCloser, error) {
	prefix := "/jobs"
	switch {
	case image:
		prefix = "/service/image"
	case service:
		prefix = "/service/jobs"
	}
	return c.openStream(ctx, prefix+"/"+jobID+"/logs", true)
}

// WaitForLogs opens the log stream of a job once the job has left the
// queue, polling with exponential backoff until there is real output.
func (c *Client) WaitForLogs(ctx context.Context, jobID string, service bool) (io.ReadCloser, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0

	var stream io.ReadCloser
	op := func() error {
		body, err := c.Logs(ctx, jobID, service, false)
		if err != nil {
			return backoff.Permanent(err)
		}

		br := bufio.NewReader(body)
		first, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			body.Close()
			return backoff.Permanent(err)
		}
		if strings.HasPrefix(first, queuedLogPrefix) {
			body.Close()
			return fmt.Errorf("job %s still in queue", jobID)
		}

		stream = &logStream{
			reader: io.MultiReader(strings.NewReader(first), br),
			closer: body,
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return stream, nil
}

// openStream issues a streaming GET with the usual retry and token refresh
// behavior, returning the open response body.
func (c *Client) openStream(ctx context.Context, path string, allowRefresh bool) (io.ReadCloser, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		c.log.Debugf("< %d <stream>", resp.StatusCode)
		return resp.Body, nil
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: failed to read response: %w", path, err)
	}
	c.log.Debugf("< %d %s", resp.StatusCode, string(data))

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.ErrorMessage == tokenExpiredMessage {
		if !allowRefresh {
			return nil, kerrors.ErrTokenRefreshFailed
		}
		if err := c.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrTokenRefreshFailed, err)
		}
		return c.openStream(ctx, path, false)
	}

	msg := env.ErrorMessage
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return nil, fmt.Errorf("GET %s: %s", path, msg)
}

// logStream pairs a buffered reader with the response body it wraps.
type logStream struct {
	reader io.Reader
	closer io.Closer
}

func (s *logStream) Read(p []byte) (int, error) { return s.reader.Read(p) }
func (s *logStream) Close() error               { return s.closer.Close() }
