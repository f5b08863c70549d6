package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"go.uber.org/zap"
)

const (
	userDateLayout     = "2006-01-02"
	userAgentLogPrefix = 50
)

var alreadyCheckedInPhrases = []string{
	"Already checked in today",
	"already checked in today",
	"Already checked in",
	"already checked in",
}

type RetryPolicy struct {
	Times int
	Delay time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.Times < 1 {
		return 1
	}
	return p.Times
}

type CheckInExecutor struct {
	rt      *Runtime
	profile RequestProfile
	client  ports.CheckInClient
	retry   RetryPolicy
}

func NewCheckInExecutor(rt *Runtime, profile RequestProfile, client ports.CheckInClient, retry RetryPolicy) *CheckInExecutor {
	rt.applyDefaults()

	return &CheckInExecutor{
		rt:      rt,
		profile: profile,
		client:  client,
		retry:   retry,
	}
}

// Execute posts the check-in for one account. Only transport failures are retried,
// each time with a freshly drawn User-Agent and proxy.
func (e *CheckInExecutor) Execute(ctx context.Context, account domain.Account) domain.CheckInResult {
	logger := e.rt.Logger.With(zap.String("account", account.Name))
	total := e.retry.attempts()

	for attempt := 1; attempt <= total; attempt++ {
		req := e.rt.newRequest(e.profile, account)
		if attempt == 1 {
			logger.Info(fmt.Sprintf("Account %s starting check-in, User-Agent: %s..., %s",
				account.Label(), truncate(req.Headers[headerUserAgent], userAgentLogPrefix), proxyInfo(req.Proxy)))
		}

		userDate := e.rt.Clock.Now().Format(userDateLayout)
		resp, err := e.client.CheckIn(ctx, req, userDate)
		if err == nil {
			result := e.classify(logger, account, resp)
			result.Attempts = attempt
			e.rt.Observer.ObserveAttempt(result.Outcome)
			return result
		}

		if !errors.Is(err, domain.ErrTransport) {
			logger.Error(fmt.Sprintf("Unknown error during check-in for %s: %v", account.Name, err))
			e.rt.Observer.ObserveAttempt(domain.CheckInOutcomeError)
			return domain.CheckInResult{Outcome: domain.CheckInOutcomeError, Attempts: attempt, Err: err}
		}

		e.rt.Observer.ObserveAttempt(domain.CheckInOutcomeTransportFailed)
		if attempt == total || ctx.Err() != nil {
			logger.Error(fmt.Sprintf("Account %s request failed after %d retries: %v", account.Name, attempt, err))
			return domain.CheckInResult{Outcome: domain.CheckInOutcomeTransportFailed, Attempts: attempt, Err: err}
		}

		logger.Warn(fmt.Sprintf("Account %s attempt %d failed: %v, retrying in %s...",
			account.Name, attempt, err, e.retry.Delay))
		if sleepErr := e.rt.Sleeper.Sleep(ctx, e.retry.Delay); sleepErr != nil {
			return domain.CheckInResult{
				Outcome:  domain.CheckInOutcomeTransportFailed,
				Attempts: attempt,
				Err:      fmt.Errorf("wait before retry: %w", sleepErr),
			}
		}
	}

	return domain.CheckInResult{Outcome: domain.CheckInOutcomeTransportFailed, Attempts: total}
}

func (e *CheckInExecutor) classify(logger *zap.Logger, account domain.Account, resp ports.Response) domain.CheckInResult {
	text := responseText(resp.Body)
	result := domain.CheckInResult{StatusCode: resp.StatusCode, Body: text}

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("Account %s check-in failed, status: %d", account.Label(), resp.StatusCode))
		logger.Error("Response: " + string(resp.Body))
		result.Outcome = domain.CheckInOutcomeRejected
		return result
	}

	logger.Debug("Response text: " + text)
	if phrase, ok := alreadyCheckedIn(text); ok {
		logger.Debug("Detected already checked-in phrase: " + phrase)
		logger.Info(fmt.Sprintf("Account %s already manually checked in today", account.Label()))
		result.Outcome = domain.CheckInOutcomeAlreadyCheckedIn
	} else {
		logger.Info(fmt.Sprintf("Account %s check-in successful", account.Label()))
		result.Outcome = domain.CheckInOutcomeCheckedIn
	}
	logger.Info("Response content: " + text)

	return result
}

// responseText normalizes a JSON body through a decode/encode pass and falls back to the raw text.
func responseText(body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(decoded); err != nil {
		return string(body)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

func alreadyCheckedIn(text string) (string, bool) {
	for _, phrase := range alreadyCheckedInPhrases {
		if strings.Contains(text, phrase) {
			return phrase, true
		}
	}
	return "", false
}

func proxyInfo(proxy domain.Proxy) string {
	if proxy == "" {
		return "no proxy"
	}
	return "proxy: " + proxy.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
