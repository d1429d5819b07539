package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution (including a deferred ingestion)
	ExitFailure      = 1 // Partial failure (some writes failed, suburb not found)
	ExitCommandError = 2 // Command error (bad config, store unreachable, source unavailable)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeConfig  = "E001" // configuration could not be loaded
	ErrCodeStore   = "E002" // store could not be opened or read
	ErrCodeSource  = "E003" // observation source unavailable
	ErrCodeExport  = "E004" // snapshot could not be written
	ErrCodeInput   = "E005" // invalid flag or argument
	ErrCodeWrite   = "E006" // one or more observations failed to write
	ErrCodeMissing = "E007" // requested data does not exist
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`           // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`   // success payload
	Error  *CLIError   `json:"error,omitempty"`  // error details
	RunID  string      `json:"run_id,omitempty"` // ingestion run correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // ErrCode* value
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// SuccessRun is Success with the ingestion run id attached to the JSON envelope.
func (f *OutputFormatter) SuccessRun(data interface{}, runID string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
			RunID:  runID,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports an error through the formatter and returns it as an ExitError.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
}
