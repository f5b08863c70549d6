package accountfile

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bnema/checkin-bot/internal/domain"
)

var supportedProxySchemes = map[string]struct{}{
	"http":    {},
	"https":   {},
	"socks5":  {},
	"socks5h": {},
}

// SkippedLine is a proxy line that could not be parsed.
type SkippedLine struct {
	Line   int
	Reason string
}

// LoadProxies reads one proxy URL per line; blank lines and lines starting with "#" are ignored.
func LoadProxies(path string) ([]domain.Proxy, []SkippedLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var proxies []domain.Proxy
	var skipped []SkippedLine
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		proxy, err := ParseProxy(line)
		if err != nil {
			skipped = append(skipped, SkippedLine{Line: lineNo, Reason: err.Error()})
			continue
		}
		proxies = append(proxies, proxy)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan proxy file: %w", err)
	}

	return proxies, skipped, nil
}

func ParseProxy(raw string) (domain.Proxy, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty proxy")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse proxy: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if _, ok := supportedProxySchemes[scheme]; !ok {
		return "", fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("proxy host is required")
	}

	return domain.Proxy(parsed.String()), nil
}
