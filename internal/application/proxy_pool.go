package application

import "github.com/bnema/checkin-bot/internal/domain"

// ProxyPool selects a proxy uniformly at random per request, with no stickiness.
type ProxyPool struct {
	proxies []domain.Proxy
	intn    func(n int) int
}

func NewProxyPool(proxies []domain.Proxy, intn func(n int) int) *ProxyPool {
	if intn == nil {
		intn = func(int) int { return 0 }
	}

	return &ProxyPool{
		proxies: append([]domain.Proxy(nil), proxies...),
		intn:    intn,
	}
}

func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// Pick returns "" when the pool is empty.
func (p *ProxyPool) Pick() domain.Proxy {
	if len(p.proxies) == 0 {
		return ""
	}

	return p.proxies[p.intn(len(p.proxies))]
}
