package apperrors

import "fmt"

// ValidationError signals invalid input: an unsupported file extension, an
// unresolvable source id, or a raw export missing a timestamp or revenue
// column. Validation errors abort the whole analysis run.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation creates a new ValidationError
func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// EnrichmentError signals that the weather provider could not be reached.
// Recoverable: the orchestrator proceeds without weather context.
type EnrichmentError struct {
	Msg string
	Err error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// Enrichment creates a new EnrichmentError wrapping the provider failure
func Enrichment(msg string, err error) *EnrichmentError {
	return &EnrichmentError{Msg: msg, Err: err}
}

// ModelFitError signals a forecasting or clustering computation failure,
// such as a degenerate series or too few distinct items. Non-fatal: it is
// captured in that engine's payload and the other engine still runs.
type ModelFitError struct {
	Stage string // "forecast" or "cluster"
	Msg   string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
}

// ModelFit creates a new ModelFitError for the given engine stage
func ModelFit(stage, format string, args ...interface{}) *ModelFitError {
	return &ModelFitError{Stage: stage, Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError signals a result-store write failure. Fatal: surfaced to
// the caller after temp-file cleanup.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist analysis result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence creates a new PersistenceError
func Persistence(err error) *PersistenceError {
	return &PersistenceError{Err: err}
}
