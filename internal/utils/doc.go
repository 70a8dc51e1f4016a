// Package utils provides small helpers shared across kris: interactive
// terminal prompts and zip archiving for project uploads.
package utils
