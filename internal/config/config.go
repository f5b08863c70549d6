package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/spf13/viper"
)

const (
	DefaultDir   = "config"
	DirEnv       = "CHECKIN_CONFIG_DIR"
	envPrefix    = "CHECKIN"
	fileName     = "config.json"
	fileType     = "json"
	clockLayout  = "15:04"
	defaultProbe = "https://app.piggycell.io/api/trpc/user.me?batch=1"
)

const (
	keyLogLevel          = "log_level"
	keyRetryTimes        = "retry_times"
	keyRetryDelay        = "retry_delay"
	keySignInTime        = "sign_in_time"
	keyHeaders           = "headers"
	keyAPIURL            = "api_url"
	keyProbeURL          = "probe_url"
	keySessionCookieName = "session_cookie_name"
	keyAccountsFile      = "accounts_file"
	keyProxyFile         = "proxy_file"
	keyLogFile           = "log_file"
	keyMetricsAddr       = "metrics_addr"
	keyCheckInTimeout    = "checkin_timeout"
	keyProbeTimeout      = "probe_timeout"
)

var validLogLevels = map[string]struct{}{
	"DEBUG":    {},
	"INFO":     {},
	"WARN":     {},
	"WARNING":  {},
	"ERROR":    {},
	"CRITICAL": {},
}

func ParseClockTime(raw string) (domain.TimeOfDay, error) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return domain.TimeOfDay{}, fmt.Errorf("invalid time %q, want HH:MM", raw)
	}

	return domain.TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

type RunConfig struct {
	Dir               string
	LogLevel          string
	RetryTimes        int
	RetryDelay        time.Duration
	SignInTime        domain.TimeOfDay
	Headers           map[string]string
	APIURL            string
	ProbeURL          string
	SessionCookieName string
	AccountsFile      string
	ProxyFile         string
	LogFile           string
	MetricsAddr       string
	CheckInTimeout    time.Duration
	ProbeTimeout      time.Duration
}

// ResolveDir returns the config directory from the environment, falling back to DefaultDir.
func ResolveDir() string {
	if dir := strings.TrimSpace(os.Getenv(DirEnv)); dir != "" {
		return dir
	}
	return DefaultDir
}

func Load(v *viper.Viper, dir string) (RunConfig, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigFile(filepath.Join(dir, fileName))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return RunConfig{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := RunConfig{
		Dir:               dir,
		LogLevel:          strings.ToUpper(strings.TrimSpace(v.GetString(keyLogLevel))),
		RetryTimes:        v.GetInt(keyRetryTimes),
		RetryDelay:        seconds(v.GetFloat64(keyRetryDelay)),
		Headers:           normalizeHeaders(v.GetStringMapString(keyHeaders)),
		APIURL:            strings.TrimSpace(v.GetString(keyAPIURL)),
		ProbeURL:          strings.TrimSpace(v.GetString(keyProbeURL)),
		SessionCookieName: strings.TrimSpace(v.GetString(keySessionCookieName)),
		AccountsFile:      resolvePath(dir, v.GetString(keyAccountsFile)),
		ProxyFile:         resolvePath(dir, v.GetString(keyProxyFile)),
		LogFile:           resolvePath(dir, v.GetString(keyLogFile)),
		MetricsAddr:       strings.TrimSpace(v.GetString(keyMetricsAddr)),
		CheckInTimeout:    seconds(v.GetFloat64(keyCheckInTimeout)),
		ProbeTimeout:      seconds(v.GetFloat64(keyProbeTimeout)),
	}

	signIn, err := ParseClockTime(v.GetString(keySignInTime))
	if err != nil {
		return RunConfig{}, fmt.Errorf("%s: %w", keySignInTime, err)
	}
	cfg.SignInTime = signIn

	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}

	return cfg, nil
}

func (c RunConfig) Validate() error {
	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("%s: unsupported level %q", keyLogLevel, c.LogLevel)
	}
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if err := validateHTTPURL(c.APIURL); err != nil {
		return fmt.Errorf("%s: %w", keyAPIURL, err)
	}
	if err := validateHTTPURL(c.ProbeURL); err != nil {
		return fmt.Errorf("%s: %w", keyProbeURL, err)
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("%s is required", keySessionCookieName)
	}
	if c.RetryTimes < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keyRetryTimes, c.RetryTimes)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%s must not be negative", keyRetryDelay)
	}
	if c.CheckInTimeout <= 0 || c.ProbeTimeout <= 0 {
		return errors.New("request timeouts must be positive")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyLogLevel, "INFO")
	v.SetDefault(keyRetryTimes, 3)
	v.SetDefault(keyRetryDelay, 5)
	v.SetDefault(keySignInTime, "09:00")
	v.SetDefault(keyProbeURL, defaultProbe)
	v.SetDefault(keySessionCookieName, "__Secure-authjs.session-token")
	v.SetDefault(keyAccountsFile, "checkin-acc.json")
	v.SetDefault(keyProxyFile, "proxy.txt")
	v.SetDefault(keyLogFile, "bot.log")
	v.SetDefault(keyMetricsAddr, "")
	v.SetDefault(keyCheckInTimeout, 30)
	v.SetDefault(keyProbeTimeout, 10)
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("url host is required")
	}

	return nil
}

// normalizeHeaders drops empty names; viper already lowercases keys.
func normalizeHeaders(raw map[string]string) map[string]string {
	headers := make(map[string]string, len(raw))
	for name, value := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		headers[name] = value
	}

	return headers
}

func resolvePath(dir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
