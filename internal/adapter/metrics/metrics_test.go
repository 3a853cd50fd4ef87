package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
	"github.com/dayanaadylkhanova/intro-pow/internal/service/effort"
)

func TestObserve_CountsPerOutcome(t *testing.T) {
	t.Parallel()

	m := New(func() int { return 0 }, 8)
	m.Observe(entity.OutcomeValid)
	m.Observe(entity.OutcomeValid)
	m.Observe(entity.OutcomeReplayDetected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("replay_detected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("queue_full")))
	assert.Equal(t, len(entity.Outcomes()), testutil.CollectAndCount(m.Outcomes))
}

func TestSetEffort_OneHotMode(t *testing.T) {
	t.Parallel()

	m := New(func() int { return 0 }, 8)
	m.SetEffort(effort.State{Effort: 512, Mode: effort.Escalating})

	assert.Equal(t, 512.0, testutil.ToFloat64(m.Effort))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("escalating")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mode.WithLabelValues("idle")))

	m.SetEffort(effort.State{Effort: 0, Mode: effort.Idle})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mode.WithLabelValues("escalating")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("idle")))
}

func TestSeedRotated(t *testing.T) {
	t.Parallel()

	m := New(func() int { return 0 }, 8)
	m.SeedRotated(entity.Seed{ExpiresAt: time.Unix(1800000000, 0)})
	m.SeedRotated(entity.Seed{ExpiresAt: time.Unix(1800003600, 0)})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rotations))
	assert.Equal(t, 1800003600.0, testutil.ToFloat64(m.SeedExpiresAt))
}

func TestHandler_ExposesQueueDepth(t *testing.T) {
	t.Parallel()

	var depth atomic.Int64
	depth.Store(17)
	m := New(func() int { return int(depth.Load()) }, 64)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "intro_pow_admission_queue_depth 17"), text)
	assert.True(t, strings.Contains(text, "intro_pow_admission_queue_capacity 64"))
	assert.True(t, strings.Contains(text, `intro_pow_admission_outcomes_total{outcome="seed_expired"} 0`))
	assert.True(t, strings.Contains(text, "go_goroutines"))
}
