package application

import (
	"strings"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"go.uber.org/zap"
)

const (
	headerUserAgent = "user-agent"
	headerCookie    = "cookie"
)

// Runtime is the process-wide context shared by every component of a pass.
type Runtime struct {
	Logger     *zap.Logger
	Clock      ports.Clock
	Sleeper    ports.Sleeper
	UserAgents ports.UserAgentSource
	Proxies    *ProxyPool
	Observer   ports.RunObserver
}

func (rt *Runtime) applyDefaults() {
	if rt.Logger == nil {
		rt.Logger = zap.NewNop()
	}
	if rt.Clock == nil {
		rt.Clock = ports.SystemClock{}
	}
	if rt.Sleeper == nil {
		rt.Sleeper = ports.SystemClock{}
	}
	if rt.Proxies == nil {
		rt.Proxies = NewProxyPool(nil, nil)
	}
	if rt.Observer == nil {
		rt.Observer = ports.NopObserver{}
	}
}

// RequestProfile is the static part of every outgoing request.
type RequestProfile struct {
	BaseHeaders       map[string]string
	SessionCookieName string
}

// newRequest picks a fresh User-Agent and proxy for one attempt.
func (rt *Runtime) newRequest(profile RequestProfile, account domain.Account) ports.Request {
	headers := make(map[string]string, len(profile.BaseHeaders)+2)
	for name, value := range profile.BaseHeaders {
		if strings.EqualFold(name, headerUserAgent) || strings.EqualFold(name, headerCookie) {
			continue
		}
		headers[name] = value
	}

	ua := ""
	if rt.UserAgents != nil {
		ua = rt.UserAgents.UserAgent()
	}
	if ua == "" {
		ua = profile.BaseHeaders[headerUserAgent]
	}
	if ua != "" {
		headers[headerUserAgent] = ua
	}
	headers[headerCookie] = account.CookieHeader(profile.SessionCookieName)

	return ports.Request{
		Headers: headers,
		Proxy:   rt.Proxies.Pick(),
	}
}

// UniformJitter returns durations drawn uniformly from [lo, hi].
func UniformJitter(lo, hi time.Duration, float64n func() float64) func() time.Duration {
	if hi < lo {
		lo, hi = hi, lo
	}

	return func() time.Duration {
		return lo + time.Duration(float64n()*float64(hi-lo))
	}
}
