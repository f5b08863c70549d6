package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultJitterMin = 2 * time.Second
	DefaultJitterMax = 5 * time.Second
)

type Assessor interface {
	Assess(ctx context.Context, account domain.Account) domain.TokenAssessment
}

type Executor interface {
	Execute(ctx context.Context, account domain.Account) domain.CheckInResult
}

type Runner struct {
	rt       *Runtime
	accounts []domain.Account
	assessor Assessor
	executor Executor
	jitter   func() time.Duration
	newRunID func() string
}

type RunnerOption func(*Runner)

func WithJitter(jitter func() time.Duration) RunnerOption {
	return func(r *Runner) {
		r.jitter = jitter
	}
}

func WithRunID(newRunID func() string) RunnerOption {
	return func(r *Runner) {
		r.newRunID = newRunID
	}
}

func NewRunner(rt *Runtime, accounts []domain.Account, assessor Assessor, executor Executor, opts ...RunnerOption) *Runner {
	rt.applyDefaults()

	r := &Runner{
		rt:       rt,
		accounts: append([]domain.Account(nil), accounts...),
		assessor: assessor,
		executor: executor,
		jitter:   func() time.Duration { return DefaultJitterMin },
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunOnce processes every account in load order and returns the aggregate.
// A cancelled context stops the pass between accounts.
func (r *Runner) RunOnce(ctx context.Context) domain.RunResult {
	result := domain.RunResult{
		RunID:         r.newRunID(),
		TotalAccounts: len(r.accounts),
		StartedAt:     r.rt.Clock.Now(),
	}
	logger := r.rt.Logger.With(zap.String("run_id", result.RunID))

	if len(r.accounts) == 0 {
		logger.Warn("No accounts found")
		result.FinishedAt = r.rt.Clock.Now()
		r.rt.Observer.ObserveRun(result)
		return result
	}

	logger.Info(fmt.Sprintf("Starting check-in for %d accounts", len(r.accounts)))

	for i, account := range r.accounts {
		if ctx.Err() != nil {
			logger.Warn("Check-in interrupted", zap.Int("remaining", len(r.accounts)-i))
			break
		}

		success := r.processAccount(ctx, logger, account)
		if success {
			result.SuccessCount++
		}
		r.rt.Observer.ObserveAccount(success)

		if i < len(r.accounts)-1 {
			if err := r.rt.Sleeper.Sleep(ctx, r.jitter()); err != nil {
				logger.Warn("Check-in interrupted", zap.Int("remaining", len(r.accounts)-i-1))
				break
			}
		}
	}

	result.FinishedAt = r.rt.Clock.Now()
	logger.Info(fmt.Sprintf("Check-in complete, success: %s", result.Summary()),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	r.rt.Observer.ObserveRun(result)

	return result
}

func (r *Runner) processAccount(ctx context.Context, logger *zap.Logger, account domain.Account) (success bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(fmt.Sprintf("Unknown error during check-in for %s: %v", account.Name, rec))
			success = false
		}
	}()

	assessment := r.assessor.Assess(ctx, account)
	if !assessment.Valid {
		logger.Warn(fmt.Sprintf("Account %s token invalid or expiring soon, skipping", account.Label()),
			zap.String("reason", string(assessment.Reason)))
		r.rt.Observer.ObserveAttempt(domain.CheckInOutcomeSkipped)
		return false
	}

	return r.executor.Execute(ctx, account).Success()
}

var _ Assessor = (*TokenValidator)(nil)
var _ Executor = (*CheckInExecutor)(nil)
