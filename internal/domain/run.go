package domain

import (
	"fmt"
	"time"
)

type RunResult struct {
	RunID         string
	TotalAccounts int
	SuccessCount  int
	StartedAt     time.Time
	FinishedAt    time.Time
}

func (r RunResult) FailureCount() int {
	return r.TotalAccounts - r.SuccessCount
}

func (r RunResult) Summary() string {
	return fmt.Sprintf("%d/%d", r.SuccessCount, r.TotalAccounts)
}

type CheckInOutcome string

const (
	CheckInOutcomeCheckedIn        CheckInOutcome = "checked_in"
	CheckInOutcomeAlreadyCheckedIn CheckInOutcome = "already_checked_in"
	CheckInOutcomeRejected         CheckInOutcome = "rejected"
	CheckInOutcomeTransportFailed  CheckInOutcome = "transport_failed"
	CheckInOutcomeError            CheckInOutcome = "error"
	CheckInOutcomeSkipped          CheckInOutcome = "skipped"
)

type CheckInResult struct {
	Outcome    CheckInOutcome
	Attempts   int
	StatusCode int
	Body       string
	Err        error
}

func (r CheckInResult) Success() bool {
	return r.Outcome == CheckInOutcomeCheckedIn || r.Outcome == CheckInOutcomeAlreadyCheckedIn
}
