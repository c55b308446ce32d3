// Package exitcode provides standardized exit codes for goreqs
package exitcode

import (
	"context"
	"errors"

	"github.com/fulmenhq/goreqs/pkg/config"
	"github.com/fulmenhq/goreqs/pkg/scanner"
)

// Exit codes for goreqs CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	UsageError      = 3
	FileSystemError = 4
	Interrupted     = 130
)

// ErrUsage marks bad command-line arguments or flags
var ErrUsage = errors.New("usage error")

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case UsageError:
		return "Usage error"
	case FileSystemError:
		return "File system error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

// For maps an error returned by a command to its exit code. A nil error
// maps to Success.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, scanner.ErrFilesystem):
		return FileSystemError
	case errors.Is(err, config.ErrInvalid):
		return ConfigError
	case errors.Is(err, ErrUsage):
		return UsageError
	case errors.Is(err, context.Canceled):
		return Interrupted
	default:
		return GeneralError
	}
}
