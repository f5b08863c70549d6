package domain

import "time"

type TokenReason string

const (
	TokenReasonPlaceholder TokenReason = "placeholder"
	TokenReasonExpiring    TokenReason = "expiring"
	TokenReasonProbeFailed TokenReason = "probe_failed"
	TokenReasonOK          TokenReason = "ok"
	// TokenReasonFailOpen is a usable verdict reached because validation itself errored.
	TokenReasonFailOpen TokenReason = "fail_open"
)

type TokenAssessment struct {
	Valid  bool
	Reason TokenReason
	Detail string
	// ExpiresAt is zero when the token carries no readable expiry.
	ExpiresAt time.Time
	Remaining time.Duration
}

func (a TokenAssessment) RemainingHours() float64 {
	return a.Remaining.Hours()
}
