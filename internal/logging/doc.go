// Package logger provides leveled logging for kris CLI commands.
//
// Verbosity is controlled by two root flags:
//
//   - --verbose: shows info messages
//   - --debug: shows everything, including every API request and response
//     (with credentials censored by the api package)
//
// Without flags, only warnings and errors are shown.
//
// Commands create a logger in the root command's PersistentPreRun and share
// it with internal packages:
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Debugf("> POST /jobs %s", censoredBody)
package logger
