package application

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"go.uber.org/zap"
)

const (
	DefaultExpiryMargin = 30 * time.Minute

	placeholderPrefix = "your"
	placeholderMarker = "session_token"
)

var (
	minExpiryUnix = float64(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxExpiryUnix = float64(time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix())
)

type TokenValidator struct {
	rt           *Runtime
	profile      RequestProfile
	probe        ports.SessionProbe
	expiryMargin time.Duration
}

func NewTokenValidator(rt *Runtime, profile RequestProfile, probe ports.SessionProbe) *TokenValidator {
	rt.applyDefaults()

	return &TokenValidator{
		rt:           rt,
		profile:      profile,
		probe:        probe,
		expiryMargin: DefaultExpiryMargin,
	}
}

// Assess returns a fresh verdict for the account's session token and logs its reason.
// Any failure of the validation machinery itself yields a usable verdict.
func (v *TokenValidator) Assess(ctx context.Context, account domain.Account) (assessment domain.TokenAssessment) {
	defer func() {
		if rec := recover(); rec != nil {
			assessment = failOpen(fmt.Sprintf("error checking token: %v", rec))
		}
		v.log(account, assessment)
	}()

	assessment, needsProbe := v.Inspect(account)
	if needsProbe {
		assessment = v.probeSession(ctx, account)
	}

	return assessment
}

// Inspect runs the offline checks. needsProbe reports that no verdict was reached
// without asking the service.
func (v *TokenValidator) Inspect(account domain.Account) (domain.TokenAssessment, bool) {
	token := account.SessionToken
	if isPlaceholder(token) {
		return domain.TokenAssessment{
			Valid:  false,
			Reason: domain.TokenReasonPlaceholder,
			Detail: "token is placeholder, please update real session_token",
		}, false
	}

	if strings.Count(token, ".") < 2 {
		return domain.TokenAssessment{}, true
	}

	claims, err := decodeClaims(strings.Split(token, ".")[1])
	if err != nil {
		return domain.TokenAssessment{}, true
	}

	rawExp, ok := claims["exp"]
	if !ok {
		return domain.TokenAssessment{
			Valid:  true,
			Reason: domain.TokenReasonOK,
			Detail: "token valid but no expiry info",
		}, false
	}

	exp, ok := rawExp.(float64)
	if !ok {
		return failOpen(fmt.Sprintf("unreadable exp claim %v", rawExp)), false
	}

	expiresAt, ok := expiryTime(exp)
	if !ok {
		return failOpen(fmt.Sprintf("exp claim %v out of range", rawExp)), false
	}

	now := v.rt.Clock.Now()
	if !expiresAt.After(now.Add(v.expiryMargin)) {
		return domain.TokenAssessment{
			Valid:     false,
			Reason:    domain.TokenReasonExpiring,
			Detail:    fmt.Sprintf("token will expire within %d minutes", int(v.expiryMargin.Minutes())),
			ExpiresAt: expiresAt,
			Remaining: expiresAt.Sub(now),
		}, false
	}

	remaining := expiresAt.Sub(now)
	return domain.TokenAssessment{
		Valid:     true,
		Reason:    domain.TokenReasonOK,
		Detail:    fmt.Sprintf("token valid, remaining: %.1f hours", remaining.Hours()),
		ExpiresAt: expiresAt,
		Remaining: remaining,
	}, false
}

func (v *TokenValidator) probeSession(ctx context.Context, account domain.Account) domain.TokenAssessment {
	if v.probe == nil {
		return failOpen("no session probe configured, assuming valid")
	}

	resp, err := v.probe.ProbeSession(ctx, v.rt.newRequest(v.profile, account))
	if err != nil {
		return failOpen(fmt.Sprintf("API test failed: %v, assuming valid", err))
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TokenAssessment{
			Valid:  false,
			Reason: domain.TokenReasonProbeFailed,
			Detail: fmt.Sprintf("token possibly invalid (status %d)", resp.StatusCode),
		}
	}

	return domain.TokenAssessment{
		Valid:  true,
		Reason: domain.TokenReasonOK,
		Detail: "token valid (API test)",
	}
}

func (v *TokenValidator) log(account domain.Account, a domain.TokenAssessment) {
	fields := []zap.Field{
		zap.String("account", account.Name),
		zap.String("reason", string(a.Reason)),
	}
	if !a.ExpiresAt.IsZero() {
		fields = append(fields, zap.Time("expires_at", a.ExpiresAt))
	}

	msg := "Account " + account.Name + " " + a.Detail
	if a.Valid && a.Reason == domain.TokenReasonOK {
		v.rt.Logger.Info(msg, fields...)
		return
	}
	v.rt.Logger.Warn(msg, fields...)
}

func isPlaceholder(token string) bool {
	return token == "" ||
		strings.HasPrefix(token, placeholderPrefix) ||
		strings.Contains(strings.ToLower(token), placeholderMarker)
}

func decodeClaims(segment string) (map[string]any, error) {
	if segment == "" {
		return nil, errors.New("empty payload segment")
	}
	if rem := len(segment) % 4; rem != 0 {
		segment += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		var urlErr error
		decoded, urlErr = base64.URLEncoding.DecodeString(segment)
		if urlErr != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}

	var payload any
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}

	// Any other JSON value is a readable payload without claims.
	claims, ok := payload.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}

	return claims, nil
}

// expiryTime converts a seconds-since-epoch claim; values outside years 1..9999 are rejected.
func expiryTime(exp float64) (time.Time, bool) {
	if math.IsNaN(exp) || exp < minExpiryUnix || exp > maxExpiryUnix {
		return time.Time{}, false
	}

	sec, frac := math.Modf(exp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), true
}

func failOpen(detail string) domain.TokenAssessment {
	return domain.TokenAssessment{
		Valid:  true,
		Reason: domain.TokenReasonFailOpen,
		Detail: detail,
	}
}
