package useragent

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/bnema/checkin-bot/internal/ports"
	"github.com/brianvoe/gofakeit/v6"
)

var fallbackPool = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Generator hands out a fresh desktop browser User-Agent per call.
type Generator struct {
	mu       sync.Mutex
	faker    *gofakeit.Faker
	generate func(*gofakeit.Faker) string
	fallback *rand.Rand
}

var _ ports.UserAgentSource = (*Generator)(nil)

func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker:    gofakeit.New(seed),
		generate: desktopUserAgent,
		fallback: rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) UserAgent() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ua := g.tryGenerate(); ua != "" {
		return ua
	}

	return fallbackPool[g.fallback.Intn(len(fallbackPool))]
}

// tryGenerate returns "" when the faker panics or yields a non-desktop value.
func (g *Generator) tryGenerate() (ua string) {
	defer func() {
		if recover() != nil {
			ua = ""
		}
	}()

	ua = strings.TrimSpace(g.generate(g.faker))
	if !strings.HasPrefix(ua, "Mozilla/") || strings.Contains(ua, "Mobile") {
		return ""
	}
	return ua
}

func desktopUserAgent(f *gofakeit.Faker) string {
	if f.Bool() {
		return f.ChromeUserAgent()
	}
	return f.FirefoxUserAgent()
}

// FallbackPool returns a copy of the built-in User-Agent list.
func FallbackPool() []string {
	return append([]string(nil), fallbackPool...)
}
