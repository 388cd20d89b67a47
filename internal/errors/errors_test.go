package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTerminal,
		ErrSample,
		ErrRender,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in config.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "terminal error",
			code:       ErrTerminal,
			message:    "Can't take over the terminal",
			suggestion: "Run sysmon from an interactive terminal",
		},
		{
			name:       "sample error",
			code:       ErrSample,
			message:    "No system metrics available",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check config.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check config.yaml syntax"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrRender, "Render failed", ""),
			expectedParts: []string{"Render failed"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Run 'sysmon config init'")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Failed to load config", wrapped.Message)
	assert.Equal(t, "Run 'sysmon config init'", wrapped.Suggestion)
	assert.Contains(t, wrapped.Error(), "file not found")
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrSample, "Sampling failed", "")

	assert.True(t, errors.Is(wrapped, cause))

	var smErr *Error
	require.True(t, errors.As(wrapped, &smErr))
	assert.Equal(t, ErrSample, smErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrTerminal))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("write /dev/tty: input/output error"),
		ErrTerminal,
		"Lost the terminal while drawing",
		"",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"))
	assert.Contains(t, lines[0], "Lost the terminal while drawing")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{"ExitError returns code", NewExitError(42), 42, true},
		{"ExitError with zero", NewExitError(0), 0, true},
		{"standard error returns false", errors.New("standard error"), 0, false},
		{"nil error returns false", nil, 0, false},
		{"structured Error returns false", New(ErrRender, "test", ""), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 1", NewExitError(1).Error())
}
