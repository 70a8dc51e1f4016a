package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"gitlab.com/chit-chat/kris/internal/credentials"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	logger "gitlab.com/chit-chat/kris/internal/logging"
)

// DefaultBaseURL is the production endpoint of the Christofari public API.
const DefaultBaseURL = "https://api.aicloud.sbercloud.ru/public/v1"

const (
	authPath            = "/auth"
	tokenExpiredMessage = "access_token expired"

	// defaultImage is the image jobs run on unless overridden.
	defaultImage = "registry.aicloud.sbcp.ru/horovod-tf2"

	// nfsHome is where the cluster mounts the user's NFS storage.
	nfsHome = "/home/jovyan"
)

// requestTimeout bounds the retries of a single API call.
const requestTimeout = time.Minute

// CredentialStore supplies account credentials and receives refreshed
// access tokens.
type CredentialStore interface {
	Account() (credentials.Account, error)
	SetAccessToken(token string) error
}

// Client talks to the Christofari public API.
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   CredentialStore
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger sets the logger used for request/response debug output.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client backed by the given credential store.
func New(creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   http.DefaultClient,
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate obtains a fresh access token with the stored email and
// password and saves it in the credential store.
func (c *Client) Authenticate(ctx context.Context) error {
	account, err := c.creds.Account()
	if err != nil {
		return err
	}
	if account.Email == "" {
		return kerrors.ErrNotAuthorized
	}

	body := map[string]string{
		"email":    account.Email,
		"password": account.Password,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, authPath, body, &resp); err != nil {
		return err
	}
	if resp.Token.AccessToken == "" {
		return fmt.Errorf("%w: empty token in response", kerrors.ErrTokenRefreshFailed)
	}
	return c.creds.SetAccessToken(resp.Token.AccessToken)
}

// ListJobs returns the user's jobs. With service it lists service jobs
// (image builds, S3 copies) instead of training jobs.
func (c *Client) ListJobs(ctx context.Context, service bool) ([]Job, error) {
	var resp jobsResponse
	if err := c.do(ctx, http.MethodGet, servicePrefix(service)+"/jobs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// Status returns the state of a job.
func (c *Client) Status(ctx context.Context, jobID string, service bool) (*JobStatus, error) {
	var resp JobStatus
	if err := c.do(ctx, http.MethodGet, servicePrefix(service)+"/jobs/"+jobID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Run submits a training job.
func (c *Client) Run(ctx context.Context, spec RunSpec) (*JobInfo, error) {
	image := spec.BaseImage
	if image == "" {
		image = defaultImage
	}
	workers, gpus := spec.Workers, spec.GPUs
	if workers < 1 {
		workers = 1
	}
	if gpus < 1 {
		gpus = 1
	}

	body := map[string]any{
		"script":     nfsHome + "/" + spec.Script,
		"base_image": image,
		"n_workers":  workers,
		"n_gpus":     gpus,
		"warm_cache": false,
		"type":       "pytorch",
	}
	var resp JobInfo
	if err := c.do(ctx, http.MethodPost, "/jobs", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BuildImage submits an image build from a requirements file on NFS.
func (c *Client) BuildImage(ctx context.Context, requirementsPath string) (*ImageBuild, error) {
	body := map[string]string{
		"from_image":        defaultImage,
		"requirements_file": nfsHome + "/" + requirementsPath,
	}
	var resp ImageBuild
	if err := c.do(ctx, http.MethodPost, "/service/image", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransferFile submits a service job copying between S3 and NFS.
// S3 credentials for the source or destination bucket must have been sent
// with SetS3Credentials beforehand.
func (c *Client) TransferFile(ctx context.Context, src, dst string) (*JobInfo, error) {
	body := map[string]string{"src": src, "dst": dst}
	var resp JobInfo
	if err := c.do(ctx, http.MethodPost, "/s3/copy", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetS3Credentials registers bucket credentials with the platform so that
// subsequent transfer jobs can access the bucket.
func (c *Client) SetS3Credentials(ctx context.Context, namespace, accessKeyID, secretAccessKey string) error {
	body := map[string]string{
		"s3_namespace":  namespace,
		"access_key_id": accessKeyID,
		"security_key":  secretAccessKey,
	}
	return c.do(ctx, http.MethodPost, "/s3/credentials", body, nil)
}

// ListNFSFiles lists an NFS path. Listing runs as a service job; this call
// blocks until the job completes.
func (c *Client) ListNFSFiles(ctx context.Context, path string) (*NFSListing, error) {
	var job JobInfo
	if err := c.do(ctx, http.MethodPost, "/service/storage/list", map[string]string{"path": path}, &job); err != nil {
		return nil, err
	}
	if _, err := c.WaitForJob(ctx, job.Name, true); err != nil {
		return nil, err
	}

	var listing NFSListing
	if err := c.do(ctx, http.MethodGet, "/service/storage/list/"+job.Name+"/json", nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// NFSFileExists reports whether path exists on NFS. The platform reports a
// missing file as a single listing entry with size "No".
func (c *Client) NFSFileExists(ctx context.Context, path string) (bool, error) {
	listing, err := c.ListNFSFiles(ctx, path)
	if err != nil {
		return false, err
	}
	if len(listing.Files) == 1 && listing.Files[0].Size == "No" {
		return false, nil
	}
	return true, nil
}

// WaitForJob polls a job until it finishes, backing off exponentially up to
// ten seconds between polls.
func (c *Client) WaitForJob(ctx context.Context, jobID string, service bool) (*JobStatus, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0

	var status *JobStatus
	op := func() error {
		st, err := c.Status(ctx, jobID, service)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !st.Done(service) {
			return fmt.Errorf("job %s still running", jobID)
		}
		status = st
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return status, nil
}

func servicePrefix(service bool) string {
	if service {
		return "/service"
	}
	return ""
}

// do performs a JSON request and decodes the response into out (when out is
// not nil). An expired access token triggers one re-authentication followed
// by a single retry.
func (c *Client) do(ctx context.Context, verb, path string, body, out any) error {
	return c.doRequest(ctx, verb, path, body, out, true)
}

func (c *Client) doRequest(ctx context.Context, verb, path string, body, out any, allowRefresh bool) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: failed to encode request: %w", verb, path, err)
		}
	}

	resp, err := c.send(ctx, verb, path, raw)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", verb, path, err)
	}

	if path == authPath {
		c.log.Debugf("< %d %s", resp.StatusCode, censorJSON(data))
	} else {
		c.log.Debugf("< %d %s", resp.StatusCode, string(data))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil &&
		env.ErrorMessage == tokenExpiredMessage && path != authPath {
		if !allowRefresh {
			return kerrors.ErrTokenRefreshFailed
		}
		if err := c.Authenticate(ctx); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrTokenRefreshFailed, err)
		}
		return c.doRequest(ctx, verb, path, body, out, false)
	}

	if resp.StatusCode != http.StatusOK {
		msg := env.ErrorMessage
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", verb, path, msg)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", verb, path, err)
		}
	}
	return nil
}

// send issues the HTTP request, retrying transport errors, 5xx, and 429
// responses with exponential backoff. The caller owns the response body.
func (c *Client) send(ctx context.Context, verb, path string, body []byte) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = requestTimeout

	var resp *http.Response
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, verb, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := c.setHeaders(req, path); err != nil {
			return backoff.Permanent(err)
		}

		c.log.Debugf("> %s %s %s %s", verb, path, censorHeaderString(req.Header), censorJSON(body))

		r, err := c.httpc.Do(req)
		if err != nil {
			c.log.Debugf("request failed, retrying: %v", err)
			return err
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			r.Body.Close()
			c.log.Debugf("got status %d, retrying", r.StatusCode)
			return fmt.Errorf("%s %s: status %d", verb, path, r.StatusCode)
		}
		resp = r
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, path string) error {
	account, err := c.creds.Account()
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", account.APIKey)
	if path != authPath {
		req.Header.Set("Authorization", account.AccessToken)
	}
	return nil
}
