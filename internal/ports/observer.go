package ports

import "github.com/bnema/checkin-bot/internal/domain"

type RunObserver interface {
	ObserveAttempt(outcome domain.CheckInOutcome)
	ObserveAccount(success bool)
	ObserveRun(result domain.RunResult)
}

type NopObserver struct{}

func (NopObserver) ObserveAttempt(domain.CheckInOutcome) {}
func (NopObserver) ObserveAccount(bool)                  {}
func (NopObserver) ObserveRun(domain.RunResult)          {}
