package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Corpus construction errors (fatal, never retried)
const (
	// ErrCodeCorpusFormat indicates a malformed index line or inconsistent field count.
	ErrCodeCorpusFormat ErrorCode = "CORPUS_FORMAT"
	// ErrCodeMissingRequiredFile indicates a mandatory index file is absent.
	ErrCodeMissingRequiredFile ErrorCode = "MISSING_REQUIRED_FILE"
)

// Item load errors
const (
	// ErrCodeAudioSource indicates the audio source could not be opened, decoded or sliced.
	ErrCodeAudioSource ErrorCode = "AUDIO_SOURCE"
	// ErrCodeSpeakerNotIndexed indicates a segment references an utterance without a speaker.
	ErrCodeSpeakerNotIndexed ErrorCode = "SPEAKER_NOT_INDEXED"
)

// Collation errors
const (
	// ErrCodeShapeMismatch indicates inconsistent dimensionality across batch items.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Retry policy belongs to the caller; nothing raised by the core is retryable.
var retryableCodes = map[ErrorCode]bool{}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
