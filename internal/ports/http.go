package ports

import (
	"context"

	"github.com/bnema/checkin-bot/internal/domain"
)

// Request carries the per-attempt randomized request surface.
type Request struct {
	Headers map[string]string
	// Proxy is empty when the request goes out directly.
	Proxy domain.Proxy
}

type Response struct {
	StatusCode int
	Body       []byte
}

type SessionProbe interface {
	ProbeSession(ctx context.Context, req Request) (Response, error)
}

type CheckInClient interface {
	CheckIn(ctx context.Context, req Request, userDate string) (Response, error)
}

type UserAgentSource interface {
	UserAgent() string
}
