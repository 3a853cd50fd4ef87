package effort

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dayanaadylkhanova/intro-pow/pkg/logger"
)

func TestNewController_RejectsBadInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := NewMockSampler(ctrl)
	log := logger.Discard()

	bad := DefaultPolicy()
	bad.Growth = 0.5
	_, err := NewController(log, bad, time.Second, 10, s)
	require.Error(t, err)

	_, err = NewController(log, DefaultPolicy(), 0, 10, s)
	require.Error(t, err)

	_, err = NewController(log, DefaultPolicy(), time.Second, -1, s)
	require.Error(t, err)

	c, err := NewController(log, DefaultPolicy(), time.Second, 10, s)
	require.NoError(t, err)
	assert.Zero(t, c.Effort())
	assert.Equal(t, Idle, c.State().Mode)
}

func TestController_TickFollowsSampler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := NewMockSampler(ctrl)

	var changes, ticks []State
	c, err := NewController(logger.Discard(), DefaultPolicy(), time.Second, 100, s,
		WithOnChange(func(st State) { changes = append(changes, st) }),
		WithOnTick(func(st State) { ticks = append(ticks, st) }),
	)
	require.NoError(t, err)

	// the controller overwrites whatever target the sampler reports
	gomock.InOrder(
		s.EXPECT().Sample().Return(Metrics{QueueDepth: 500, TargetDepth: 9999}),
		s.EXPECT().Sample().Return(Metrics{QueueDepth: 500}),
		s.EXPECT().Sample().Return(Metrics{RejectedQueueFull: 3}),
		s.EXPECT().Sample().Return(Metrics{QueueDepth: 0}),
		s.EXPECT().Sample().Return(Metrics{QueueDepth: 0}),
	)

	st := c.Tick()
	assert.Equal(t, Escalating, st.Mode)
	assert.Equal(t, uint32(64), st.Effort)
	assert.Equal(t, 100, st.Last.TargetDepth)

	assert.Equal(t, uint32(128), c.Tick().Effort)
	assert.Equal(t, uint32(256), c.Tick().Effort)

	st = c.Tick()
	assert.Equal(t, Decaying, st.Mode)
	assert.Equal(t, uint32(128), st.Effort)
	assert.Equal(t, uint32(128), c.Effort())

	// held mode with a shrinking effort is still a change
	st = c.Tick()
	assert.Equal(t, uint32(64), st.Effort)

	assert.Len(t, ticks, 5)
	require.Len(t, changes, 5)
	assert.Equal(t, uint64(5), c.State().Interval)
}

func TestController_NoChangeHookWhenSteady(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := NewMockSampler(ctrl)
	s.EXPECT().Sample().Return(Metrics{}).Times(4)

	changed := 0
	c, err := NewController(logger.Discard(), DefaultPolicy(), time.Second, 100, s,
		WithOnChange(func(State) { changed++ }),
	)
	require.NoError(t, err)

	for range 4 {
		c.Tick()
	}
	assert.Zero(t, changed)
	assert.Zero(t, c.Effort())
}

func TestController_RunTicksUntilCancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := NewMockSampler(ctrl)
	s.EXPECT().Sample().Return(Metrics{QueueDepth: 10}).MinTimes(2)

	var ticks atomic.Int32
	c, err := NewController(logger.Discard(), DefaultPolicy(), 5*time.Millisecond, 1, s,
		WithOnTick(func(State) { ticks.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NotZero(t, c.Effort())
}
