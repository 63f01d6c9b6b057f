package middleware

import (
	"container/list"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dreschagin/ops-dashboard-simulator/internal/metrics"
)

const (
	maxTrackedClients = 10_000
	clientIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	ip       string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter holds rate limiters for each IP address.
// Clients are kept in LRU order; the least recently seen one is evicted
// once maxClients is reached.
type IPRateLimiter struct {
	limiters   map[string]*list.Element
	order      *list.List // front = most recently seen
	mu         sync.Mutex
	rps        rate.Limit
	burst      int
	maxClients int
	now        func() time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter
// rps: requests per second allowed per IP
// burst: maximum burst size
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters:   make(map[string]*list.Element),
		order:      list.New(),
		rps:        rate.Limit(rps),
		burst:      burst,
		maxClients: maxTrackedClients,
		now:        time.Now,
	}
}

// Allow reports whether a request from ip may proceed
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	i.evictIdleLocked(now.Add(-clientIdleTTL))

	el, ok := i.limiters[ip]
	if ok {
		i.order.MoveToFront(el)
	} else {
		for i.order.Len() >= i.maxClients {
			i.removeLocked(i.order.Back())
		}
		el = i.order.PushFront(&clientLimiter{ip: ip, limiter: rate.NewLimiter(i.rps, i.burst)})
		i.limiters[ip] = el
	}

	item := el.Value.(*clientLimiter)
	item.lastSeen = now

	return item.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.order.Len()
}

// evictIdleLocked снимает с хвоста клиентов, не появлявшихся с threshold
func (i *IPRateLimiter) evictIdleLocked(threshold time.Time) {
	for back := i.order.Back(); back != nil; back = i.order.Back() {
		if !back.Value.(*clientLimiter).lastSeen.Before(threshold) {
			return
		}
		i.removeLocked(back)
	}
}

func (i *IPRateLimiter) removeLocked(el *list.Element) {
	item := i.order.Remove(el).(*clientLimiter)
	delete(i.limiters, item.ip)
}

// RateLimit middleware limits requests per client address.
// A nil resolver uses RemoteAddr only.
func RateLimit(limiter *IPRateLimiter, ips *ClientIPResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ips.ClientIP(r)) {
				m.RateLimited()
				w.Header().Set("Retry-After", "1")
				WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPResolver определяет адрес клиента.
// X-Forwarded-For и X-Real-IP учитываются только для запросов от доверенных прокси.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver принимает CIDR или отдельные адреса доверенных прокси
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	trusted := make([]netip.Prefix, 0, len(proxies))
	for _, raw := range proxies {
		prefix, err := ParseProxy(raw)
		if err != nil {
			return nil, err
		}
		trusted = append(trusted, prefix)
	}
	return &ClientIPResolver{trusted: trusted}, nil
}

// ParseProxy разбирает "10.0.0.0/8" или "10.0.0.1"
func ParseProxy(raw string) (netip.Prefix, error) {
	raw = strings.TrimSpace(raw)
	if prefix, err := netip.ParsePrefix(raw); err == nil {
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid trusted proxy %q", raw)
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// ClientIP возвращает адрес клиента для запроса
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if c == nil || !c.isTrusted(remote) {
		return remote
	}

	// справа налево: первый адрес, не принадлежащий доверенным прокси
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		hops := strings.Split(forwardedFor, ",")
		for idx := len(hops) - 1; idx >= 0; idx-- {
			hop := strings.TrimSpace(hops[idx])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !c.isTrusted(hop) || idx == 0 {
				return hop
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if _, err := netip.ParseAddr(realIP); err == nil {
			return realIP
		}
	}

	return remote
}

func (c *ClientIPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
