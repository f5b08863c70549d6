package application

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"github.com/bnema/checkin-bot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenValidatorRejectsPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "your prefix", token: "your_session_token_here"},
		{name: "marker anywhere", token: "paste-SESSION_TOKEN-here"},
		{name: "your prefix without marker", token: "yourtoken"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rt, _, _ := newTestRuntime(newFakeClock(testNow))
			probe := mocks.NewMockSessionProbe(t)
			validator := NewTokenValidator(rt, testProfile(), probe)

			got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: tc.token})
			assert.False(t, got.Valid)
			assert.Equal(t, domain.TokenReasonPlaceholder, got.Reason)
		})
	}
}

func TestTokenValidatorAcceptsFutureExpiry(t *testing.T) {
	t.Parallel()

	rt, logs, _ := newTestRuntime(newFakeClock(testNow))
	validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
	token := jwtWithClaims(t, map[string]any{"exp": testNow.Add(5*time.Hour + 6*time.Minute).Unix()})

	got := validator.Assess(context.Background(), domain.Account{Name: "alice", SessionToken: token})

	assert.True(t, got.Valid)
	assert.Equal(t, domain.TokenReasonOK, got.Reason)
	assert.InDelta(t, 5.1, got.RemainingHours(), 0.05)
	assert.Equal(t, "token valid, remaining: 5.1 hours", got.Detail)
	assert.Equal(t, 1, logs.FilterMessage("Account alice token valid, remaining: 5.1 hours").Len())
}

func TestTokenValidatorHandlesExpiryScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		exp        any
		wantValid  bool
		wantReason domain.TokenReason
		wantYear   int
	}{
		{name: "never expires sentinel", exp: int64(9999999999), wantValid: true, wantReason: domain.TokenReasonOK, wantYear: 2286},
		{name: "fractional seconds", exp: float64(testNow.Add(2*time.Hour).Unix()) + 0.5, wantValid: true, wantReason: domain.TokenReasonOK, wantYear: 2025},
		{name: "milliseconds", exp: testNow.Add(2 * time.Hour).UnixMilli(), wantValid: true, wantReason: domain.TokenReasonFailOpen},
		{name: "far beyond range", exp: 1e30, wantValid: true, wantReason: domain.TokenReasonFailOpen},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rt, _, _ := newTestRuntime(newFakeClock(testNow))
			validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
			token := jwtWithClaims(t, map[string]any{"exp": tc.exp})

			got, needsProbe := validator.Inspect(domain.Account{Name: "a", SessionToken: token})
			assert.False(t, needsProbe)
			assert.Equal(t, tc.wantValid, got.Valid)
			assert.Equal(t, tc.wantReason, got.Reason)
			if tc.wantYear != 0 {
				assert.Equal(t, tc.wantYear, got.ExpiresAt.UTC().Year())
			}
		})
	}
}

func TestTokenValidatorTreatsNonObjectPayloadAsNoExpiry(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(newFakeClock(testNow))
	validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
	segment := strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(`["exp", 1]`)), "=")

	got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: "aaa." + segment + ".ccc"})
	assert.True(t, got.Valid)
	assert.Equal(t, domain.TokenReasonOK, got.Reason)
	assert.Equal(t, "token valid but no expiry info", got.Detail)
}

func TestTokenValidatorRejectsExpiringWithinMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		exp  time.Time
	}{
		{name: "already expired", exp: testNow.Add(-time.Hour)},
		{name: "inside margin", exp: testNow.Add(10 * time.Minute)},
		{name: "exactly at margin", exp: testNow.Add(30 * time.Minute)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rt, _, _ := newTestRuntime(newFakeClock(testNow))
			validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
			token := jwtWithClaims(t, map[string]any{"exp": tc.exp.Unix()})

			got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: token})
			assert.False(t, got.Valid)
			assert.Equal(t, domain.TokenReasonExpiring, got.Reason)
			assert.Equal(t, tc.exp.Unix(), got.ExpiresAt.Unix())
		})
	}
}

func TestTokenValidatorAcceptsTokenWithoutExpiry(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(newFakeClock(testNow))
	validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
	token := jwtWithClaims(t, map[string]any{"sub": "user-1"})

	got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: token})
	assert.True(t, got.Valid)
	assert.Equal(t, domain.TokenReasonOK, got.Reason)
	assert.Equal(t, "token valid but no expiry info", got.Detail)
	assert.True(t, got.ExpiresAt.IsZero())
}

func TestTokenValidatorFailsOpenOnUnreadableExpiry(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(newFakeClock(testNow))
	validator := NewTokenValidator(rt, testProfile(), mocks.NewMockSessionProbe(t))
	token := jwtWithClaims(t, map[string]any{"exp": "tomorrow"})

	got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: token})
	assert.True(t, got.Valid)
	assert.Equal(t, domain.TokenReasonFailOpen, got.Reason)
}

func TestTokenValidatorProbesOpaqueTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		resp       ports.Response
		err        error
		wantValid  bool
		wantReason domain.TokenReason
	}{
		{
			name:       "probe ok",
			token:      "opaque-session-value",
			resp:       ports.Response{StatusCode: http.StatusOK},
			wantValid:  true,
			wantReason: domain.TokenReasonOK,
		},
		{
			name:       "probe unauthorized",
			token:      "opaque-session-value",
			resp:       ports.Response{StatusCode: http.StatusUnauthorized},
			wantValid:  false,
			wantReason: domain.TokenReasonProbeFailed,
		},
		{
			name:       "probe transport error",
			token:      "opaque-session-value",
			err:        errors.New("dial tcp: connection refused"),
			wantValid:  true,
			wantReason: domain.TokenReasonFailOpen,
		},
		{
			name:       "undecodable middle segment",
			token:      "aaa.!!!notbase64!!!.ccc",
			resp:       ports.Response{StatusCode: http.StatusOK},
			wantValid:  true,
			wantReason: domain.TokenReasonOK,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rt, _, _ := newTestRuntime(newFakeClock(testNow))
			probe := mocks.NewMockSessionProbe(t)
			probe.EXPECT().
				ProbeSession(mock.Anything, mock.MatchedBy(func(req ports.Request) bool {
					return req.Headers["cookie"] == "__Secure-authjs.session-token="+tc.token
				})).
				Return(tc.resp, tc.err).
				Once()
			validator := NewTokenValidator(rt, testProfile(), probe)

			got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: tc.token})
			assert.Equal(t, tc.wantValid, got.Valid)
			assert.Equal(t, tc.wantReason, got.Reason)
		})
	}
}

func TestTokenValidatorFailsOpenOnProbePanic(t *testing.T) {
	t.Parallel()

	rt, logs, _ := newTestRuntime(newFakeClock(testNow))
	probe := mocks.NewMockSessionProbe(t)
	probe.EXPECT().ProbeSession(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, ports.Request) (ports.Response, error) {
			panic("boom")
		}).
		Once()
	validator := NewTokenValidator(rt, testProfile(), probe)

	got := validator.Assess(context.Background(), domain.Account{Name: "a", SessionToken: "opaque"})
	assert.True(t, got.Valid)
	assert.Equal(t, domain.TokenReasonFailOpen, got.Reason)
	assert.Contains(t, got.Detail, "boom")
	require.Equal(t, 1, logs.FilterMessageSnippet("error checking token").Len())
}

func TestTokenValidatorInspectDoesNotProbe(t *testing.T) {
	t.Parallel()

	rt, _, _ := newTestRuntime(newFakeClock(testNow))
	validator := NewTokenValidator(rt, testProfile(), nil)

	_, needsProbe := validator.Inspect(domain.Account{Name: "a", SessionToken: "opaque"})
	assert.True(t, needsProbe)

	got, needsProbe := validator.Inspect(domain.Account{Name: "a", SessionToken: ""})
	assert.False(t, needsProbe)
	assert.Equal(t, domain.TokenReasonPlaceholder, got.Reason)
}
