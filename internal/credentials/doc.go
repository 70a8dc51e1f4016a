// Package credentials stores the user's Christofari account secrets in the
// operating system keyring.
//
// All secrets (email, password, API key, access token) live in a single JSON
// blob under the "kris" keyring service, so a credential rewrite replaces
// everything atomically. On platforms without a native keyring the encrypted
// file backend under the kris config directory is used instead.
//
// The stored password is needed beyond initial login: the platform's access
// tokens expire frequently and the api package re-authenticates with the
// stored email and password whenever the server reports an expired token.
package credentials
