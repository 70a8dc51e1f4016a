// Package api implements the client for the Christofari public REST API.
//
// The client attaches the stored API key to every request and the stored
// access token to everything except the auth endpoint. Access tokens expire
// frequently; when the server reports an expired token the client
// re-authenticates with the stored email and password and retries the
// request once.
//
// Transport failures, HTTP 5xx responses, and HTTP 429 are retried with
// exponential backoff for up to a minute. Other 4xx responses fail
// immediately.
//
// With --debug every request and response is logged. Credential fields
// (API key, tokens, passwords, S3 keys) are censored before logging.
package api
