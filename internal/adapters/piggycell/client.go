package piggycell

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultCheckInTimeout = 30 * time.Second
	DefaultProbeTimeout   = 10 * time.Second
)

// Client talks to the check-in service. Certificate verification is disabled for both endpoints.
type Client struct {
	CheckInURL     string
	ProbeURL       string
	CheckInTimeout time.Duration
	ProbeTimeout   time.Duration
	Logger         *zap.Logger
}

var (
	_ ports.SessionProbe  = (*Client)(nil)
	_ ports.CheckInClient = (*Client)(nil)
)

// checkInPayload mirrors the tRPC batch envelope: {"0":{"json":{"userDate":"YYYY-MM-DD"}}}.
type checkInPayload map[string]checkInEnvelope

type checkInEnvelope struct {
	JSON checkInInput `json:"json"`
}

type checkInInput struct {
	UserDate string `json:"userDate"`
}

func (c *Client) ProbeSession(ctx context.Context, req ports.Request) (ports.Response, error) {
	if c.ProbeURL == "" {
		return ports.Response{}, errors.New("probe url is required")
	}

	r, err := c.newRequest(ctx, req, durationOrDefault(c.ProbeTimeout, DefaultProbeTimeout))
	if err != nil {
		return ports.Response{}, err
	}

	resp, err := r.Get(c.ProbeURL)
	if err != nil {
		return ports.Response{}, fmt.Errorf("probe session: %w: %w", domain.ErrTransport, err)
	}

	return toResponse(resp), nil
}

func (c *Client) CheckIn(ctx context.Context, req ports.Request, userDate string) (ports.Response, error) {
	if c.CheckInURL == "" {
		return ports.Response{}, errors.New("check-in url is required")
	}
	if userDate == "" {
		return ports.Response{}, errors.New("user date is required")
	}

	r, err := c.newRequest(ctx, req, durationOrDefault(c.CheckInTimeout, DefaultCheckInTimeout))
	if err != nil {
		return ports.Response{}, err
	}

	payload := checkInPayload{"0": {JSON: checkInInput{UserDate: userDate}}}
	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.CheckInURL)
	if err != nil {
		return ports.Response{}, fmt.Errorf("post check-in: %w: %w", domain.ErrTransport, err)
	}

	return toResponse(resp), nil
}

func (c *Client) newRequest(ctx context.Context, req ports.Request, timeout time.Duration) (*resty.Request, error) {
	client := resty.New().
		SetTimeout(timeout).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}).
		SetHeaders(req.Headers)

	if c.Logger != nil {
		client.SetLogger(c.Logger.Sugar())
	}

	if req.Proxy != "" {
		if _, err := url.Parse(req.Proxy.String()); err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		client.SetProxy(req.Proxy.String())
	}

	return client.R().SetContext(ctx), nil
}

func toResponse(resp *resty.Response) ports.Response {
	return ports.Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
}

func durationOrDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
