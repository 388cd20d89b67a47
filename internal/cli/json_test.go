package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	data := map[string]string{"key": "value"}
	require.NoError(t, WriteJSONSuccess(&buf, data))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
	assert.Contains(t, buf.String(), "\n  \"success\": true", "output is indented")
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer

	err := errors.WrapWithCode(stderrors.New("permission denied"), errors.ErrSample,
		"Couldn't read system metrics", "Check /proc")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeSampleFailed, env.Error.Code)
	assert.Equal(t, "Couldn't read system metrics", env.Error.Message)
	assert.Equal(t, "Check /proc", env.Error.Suggestion)
	assert.Equal(t, "permission denied", env.Error.Cause)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "'x' isn't a tab", ""), ErrCodeConfigInvalid},
		{"terminal", errors.New(errors.ErrTerminal, "Lost the terminal", ""), ErrCodeTerminal},
		{"render", errors.New(errors.ErrRender, "The monitor crashed", ""), ErrCodeUnknown},
		{"plain error", stderrors.New("boom"), ErrCodeUnknown},
		{"wrapped structured error", fmt.Errorf("snapshot: %w",
			errors.New(errors.ErrSample, "Couldn't read system metrics", "")), ErrCodeSampleFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_WrappedKeepsMessage(t *testing.T) {
	inner := errors.WrapWithCode(stderrors.New("no such file"), errors.ErrConfig,
		"Specified config file not found: /tmp/x.yaml", "Check the path")

	got := ErrorToJSON(fmt.Errorf("loading: %w", inner))

	require.NotNil(t, got)
	assert.Equal(t, ErrCodeConfigNotFound, got.Code)
	assert.Equal(t, "Specified config file not found: /tmp/x.yaml", got.Message)
	assert.Equal(t, "Check the path", got.Suggestion)
	assert.Equal(t, "no such file", got.Cause)
}
