package logger

import (
	"time"

	"github.com/kbukum/speechkit/errors"
)

// Field keys shared across packages.
const (
	FieldComponent = "component"
	FieldService   = "service"
	FieldRunID     = "run_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldErrorCode = "error_code"
	FieldDuration  = "duration_ms"
	FieldRecording = "recording"
	FieldChunk     = "chunk"
	FieldBatch     = "batch"
	FieldSource    = "source"
)

// Fields builds a field map from alternating key-value pairs.
//
//	log.Info("planned", logger.Fields("recordings", 12, "chunks", 480))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields describes a failed operation. AppErrors also contribute their code.
func ErrorFields(op string, err error) map[string]interface{} {
	m := map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
	if appErr, ok := errors.AsAppError(err); ok {
		m[FieldErrorCode] = string(appErr.Code)
	}
	return m
}

// DurationFields describes a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
