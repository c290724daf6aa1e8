package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors: bad or missing call material. Never retryable; the
// orchestrator advances to the next fallback stage.
const (
	// ErrCodeNoWordTimestamps indicates the transcript carries no time-aligned words.
	ErrCodeNoWordTimestamps ErrorCode = "NO_WORD_TIMESTAMPS"
	// ErrCodeAudioUnreadable indicates the call recording could not be read or decoded.
	ErrCodeAudioUnreadable ErrorCode = "AUDIO_UNREADABLE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Collaborator errors: the STT provider or the separation sidecar.
const (
	// ErrCodeProviderUnavailable indicates the STT provider could not be reached.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeProviderResponse indicates the STT provider returned an unusable response.
	ErrCodeProviderResponse ErrorCode = "PROVIDER_RESPONSE"
	// ErrCodeInsufficientSpeakers indicates provider diarization found fewer than two speakers.
	ErrCodeInsufficientSpeakers ErrorCode = "INSUFFICIENT_SPEAKERS"
	// ErrCodeSeparationFailed indicates the source-separation model did not produce stereo output.
	ErrCodeSeparationFailed ErrorCode = "SEPARATION_FAILED"
	// ErrCodeTimeout indicates a collaborator call timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderUnavailable: true,
	ErrCodeTimeout:             true,
}

// IsRetryableCode reports whether the given code marks a retryable condition.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
