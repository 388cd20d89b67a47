package cli

import (
	stderrors "errors"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All JSON output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Cause      string `json:"cause,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeSampleFailed   = "SAMPLE_FAILED"
	ErrCodeTerminal       = "TERMINAL"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
// A structured error anywhere in the chain supplies the message and suggestion.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var smErr *errors.Error
	if stderrors.As(err, &smErr) {
		out := &JSONError{
			Code:       mapErrorCode(err, smErr.Message),
			Message:    smErr.Message,
			Suggestion: smErr.Suggestion,
		}
		if smErr.Cause != nil {
			out.Cause = smErr.Cause.Error()
		}
		return out
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(err error, message string) string {
	switch {
	case errors.IsCode(err, errors.ErrConfig):
		if strings.Contains(strings.ToLower(message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.IsCode(err, errors.ErrSample):
		return ErrCodeSampleFailed
	case errors.IsCode(err, errors.ErrTerminal):
		return ErrCodeTerminal
	}
	return ErrCodeUnknown
}
