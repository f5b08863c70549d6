package application

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2025, time.October, 20, 8, 15, 0, 0, time.UTC)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	slept   []time.Duration
	onSleep func(n int)
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	n := len(c.slept)
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *fakeClock) sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}

type sequenceUserAgents struct {
	mu     sync.Mutex
	values []string
	next   int
}

func (s *sequenceUserAgents) UserAgent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ua := s.values[s.next%len(s.values)]
	s.next++
	return ua
}

type recordingObserver struct {
	attempts []domain.CheckInOutcome
	accounts []bool
	runs     []domain.RunResult
}

func (o *recordingObserver) ObserveAttempt(outcome domain.CheckInOutcome) {
	o.attempts = append(o.attempts, outcome)
}

func (o *recordingObserver) ObserveAccount(success bool) {
	o.accounts = append(o.accounts, success)
}

func (o *recordingObserver) ObserveRun(result domain.RunResult) {
	o.runs = append(o.runs, result)
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func newTestRuntime(clock *fakeClock) (*Runtime, *observer.ObservedLogs, *recordingObserver) {
	logger, logs := newObservedLogger()
	rec := &recordingObserver{}
	rt := &Runtime{
		Logger:     logger,
		Clock:      clock,
		Sleeper:    clock,
		UserAgents: &sequenceUserAgents{values: []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"}},
		Proxies:    NewProxyPool(nil, nil),
		Observer:   rec,
	}
	return rt, logs, rec
}

func testProfile() RequestProfile {
	return RequestProfile{
		BaseHeaders: map[string]string{
			"accept":       "application/json",
			"content-type": "application/json",
			"user-agent":   "static-agent",
		},
		SessionCookieName: "__Secure-authjs.session-token",
	}
}

func jwtWithClaims(t *testing.T, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	segment := strings.TrimRight(base64.StdEncoding.EncodeToString(payload), "=")
	return "eyJhbGciOiJIUzI1NiJ9." + segment + ".c2lnbmF0dXJl"
}
