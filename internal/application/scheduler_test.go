package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	clock *fakeClock
	at    []time.Time
}

func (r *countingRunner) RunOnce(context.Context) domain.RunResult {
	r.at = append(r.at, r.clock.Now())
	return domain.RunResult{}
}

func TestNextRun(t *testing.T) {
	t.Parallel()

	at := domain.TimeOfDay{Hour: 9, Minute: 0}
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 10, 20, 8, 15, 0, 0, time.UTC),
			want: time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly now rolls to tomorrow",
			now:  time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
			want: time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "already passed",
			now:  time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NextRun(tc.now, at))
		})
	}
}

func TestSchedulerRunsImmediatelyThenDaily(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock(testNow)
	// Starts at 08:15 and stops thirty hours of polling later.
	clock.onSleep = func(n int) {
		if n == 60*30 {
			cancel()
		}
	}
	rt, logs, _ := newTestRuntime(clock)
	runner := &countingRunner{clock: clock}
	scheduler := NewScheduler(rt, runner, domain.TimeOfDay{Hour: 9, Minute: 0})

	err := scheduler.Run(ctx)
	require.NoError(t, err)

	require.Len(t, runner.at, 3)
	assert.Equal(t, testNow, runner.at[0])
	assert.Equal(t, time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC), runner.at[1])
	assert.Equal(t, time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC), runner.at[2])

	assert.Equal(t, 1, logs.FilterMessage("Program started, running an immediate check-in...").Len())
	assert.Equal(t, 1, logs.FilterMessage("Scheduled daily check-in at 09:00").Len())
	assert.Equal(t, 1, logs.FilterMessage("Program stopped").Len())
}
