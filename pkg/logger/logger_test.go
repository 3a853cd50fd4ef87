package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv_Table(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, LevelFromEnv(in), in)
	}
}

// Not parallel: flips the package-wide safe logging switch.
func TestSensitive_ScrubbedUnlessDisabled(t *testing.T) {
	defer SetSafeLogging(true)

	line := func() map[string]any {
		var buf bytes.Buffer
		NewJSONTo(&buf, slog.LevelInfo).Info("rotated", "seed", Sensitive("deadbeef"))
		out := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		return out
	}

	assert.Equal(t, "[scrubbed]", line()["seed"])

	SetSafeLogging(false)
	assert.Equal(t, "deadbeef", line()["seed"])
}
