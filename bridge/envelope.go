// Package bridge mediates between console surfaces and the backup server.
//
// Every operation returns a Result envelope regardless of whether a real
// backend served it or the substitute repository filled in. Nothing panics
// or errors across the bridge boundary: all failures are folded into the
// envelope so callers branch on Success instead of handling errors.
package bridge

import (
	"fmt"
	"time"
)

// Mode indicates which path produced a Result.
type Mode string

// Mode constants. Mode always reflects the path actually taken,
// not the path requested.
const (
	ModeReal Mode = "real"
	ModeMock Mode = "mock"
)

// Error codes used in Result.ErrorCode.
const (
	// CodeRealServerError marks a mutating operation that failed against
	// the real backend. Mutations never silently degrade to the substitute:
	// reporting mock success for a write the real system rejected would
	// mislead the operator about what was persisted.
	CodeRealServerError = "REAL_SERVER_ERROR"

	// CodeMockFailure marks a substitute-path failure with no more
	// specific code attached.
	CodeMockFailure = "MOCK_OPERATION_FAILED"

	// CodeMockPanic marks a substitute path that panicked.
	CodeMockPanic = "MOCK_PANIC"
)

// Result is the common response envelope returned by every bridge operation.
//
// Invariants: Success==true implies Error is empty; Success==false implies
// Error is non-empty. Mode and Timestamp are envelope metadata and are never
// merged into Data, so callers can always tell what the backend returned
// from what the bridge annotated.
type Result struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data,omitempty"`
	Mode      Mode    `json:"mode"`
	Message   string  `json:"message,omitempty"`
	Error     string  `json:"error,omitempty"`
	ErrorCode string  `json:"error_code,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

// Ok constructs a successful Result.
func Ok(mode Mode, data any, message string) Result {
	return Result{
		Success:   true,
		Data:      data,
		Mode:      mode,
		Message:   message,
		Timestamp: stamp(time.Now()),
	}
}

// Fail constructs a failed Result. If code is empty, a generic code is
// chosen based on the mode.
func Fail(mode Mode, code, errMsg string) Result {
	if code == "" {
		if mode == ModeReal {
			code = CodeRealServerError
		} else {
			code = CodeMockFailure
		}
	}
	if errMsg == "" {
		errMsg = code
	}
	return Result{
		Success:   false,
		Mode:      mode,
		Error:     errMsg,
		ErrorCode: code,
		Timestamp: stamp(time.Now()),
	}
}

// stamp converts a wall-clock time to envelope seconds.
func stamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// CodedError carries a stable machine-readable code alongside a message.
// Substitute implementations return CodedError for domain failures
// (e.g. CLIENT_NOT_FOUND) so the bridge can surface the code in the
// envelope instead of a generic MOCK_ code.
type CodedError struct {
	Code    string
	Message string
}

// Error implements error.
func (e *CodedError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCodedError constructs a CodedError with a formatted message.
func NewCodedError(code, format string, args ...any) *CodedError {
	return &CodedError{Code: code, Message: fmt.Sprintf(format, args...)}
}
