package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// AppError is the unified error type for corpus, audio and batch failures.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status used when the error is served by the inspection API.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithDetail sets one detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	return e.WithDetails(map[string]any{key: value})
}

// New creates an AppError; Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

func newf(code ErrorCode, status int, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...), status)
}

// CorpusFormat reports a malformed corpus index file. line is 1-based; pass 0
// when the problem is not tied to a single line.
func CorpusFormat(file string, line int, reason string) *AppError {
	if line <= 0 {
		return newf(ErrCodeCorpusFormat, http.StatusUnprocessableEntity, "%s: %s", file, reason).
			WithDetail("file", file)
	}
	return newf(ErrCodeCorpusFormat, http.StatusUnprocessableEntity, "%s:%d: %s", file, line, reason).
		WithDetails(map[string]any{"file": file, "line": line})
}

// MissingRequiredFile reports a mandatory index file that does not exist.
func MissingRequiredFile(path string) *AppError {
	return newf(ErrCodeMissingRequiredFile, http.StatusUnprocessableEntity, "required corpus file %s is missing", path).
		WithDetail("path", path)
}

// AudioSource reports an audio source that could not be read.
func AudioSource(source string, cause error) *AppError {
	return newf(ErrCodeAudioSource, http.StatusBadGateway, "cannot read audio source %q", source).
		WithDetail("source", source).
		WithCause(cause)
}

// SpeakerNotIndexed reports an utterance missing from utt2spk.
func SpeakerNotIndexed(recording, utterance string) *AppError {
	return newf(ErrCodeSpeakerNotIndexed, http.StatusUnprocessableEntity,
		"utterance %q of recording %q has no speaker mapping", utterance, recording).
		WithDetails(map[string]any{"recording": recording, "utterance": utterance})
}

// ShapeMismatch reports items whose dimensions cannot be combined.
func ShapeMismatch(reason string) *AppError {
	return New(ErrCodeShapeMismatch, reason, http.StatusUnprocessableEntity)
}

// NotFound reports an unknown recording or chunk.
func NotFound(resource, id string) *AppError {
	err := newf(ErrCodeNotFound, http.StatusNotFound, "%s not found", resource).
		WithDetail("resource", resource)
	if id != "" {
		err.WithDetail("id", id)
	}
	return err
}

// InvalidInput reports a bad request parameter.
func InvalidInput(field, reason string) *AppError {
	err := newf(ErrCodeInvalidInput, http.StatusBadRequest, "invalid input: %s", reason)
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// Validation reports a configuration or request that failed validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Internal wraps an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "internal error", http.StatusInternalServerError).WithCause(cause)
}
