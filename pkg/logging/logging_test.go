package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tmscope/pkg/logging"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.New(&buf, logging.Options{})
	logger.Debug().Msg("hidden")
	logger.Info().Str("k", "v").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug events are dropped without Debug")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))

	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.NotEmpty(t, entry["time"])
	assert.Contains(t, entry["caller"], "logging_test.go:")
	assert.Contains(t, entry["caller"], "github.com/walteh/tmscope/pkg/logging_test")
}

func TestNewDebug(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.New(&buf, logging.Options{Debug: true, Console: true})
	logger.Debug().Msg("walk")

	assert.Contains(t, buf.String(), "walk")
	assert.Contains(t, buf.String(), "logging_test.go:")
}

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPkg  string
		wantFunc string
	}{
		{
			name:     "plain function",
			input:    "github.com/walteh/tmscope/pkg/scope.Resolve",
			wantPkg:  "github.com/walteh/tmscope/pkg/scope",
			wantFunc: "Resolve",
		},
		{
			name:     "pointer method",
			input:    "github.com/walteh/tmscope/pkg/inspect.(*Model).Update",
			wantPkg:  "github.com/walteh/tmscope/pkg/inspect",
			wantFunc: "(*Model).Update",
		},
		{
			name:     "closure",
			input:    "main.run.func1",
			wantPkg:  "main",
			wantFunc: "run.func1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := logging.SplitFuncName(tt.input)
			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantFunc, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/scope:resolver.go:42", logging.FormatCaller("pkg/scope", "/src/pkg/scope/resolver.go", 42, false))
}
