package handlers

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. The table is dropped
// every hour so idle clients do not accumulate.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	proxies   []*net.IPNet
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter. Forwarding headers are only honoured when
// the peer address falls in one of trustedProxies (IPs or CIDRs); entries
// that parse as neither are ignored.
func NewRateLimiter(perSecond float64, burst int, trustedProxies ...string) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		proxies:   parseProxies(trustedProxies),
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// parseProxies turns IPs and CIDRs into networks, skipping invalid entries.
func parseProxies(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, e := range entries {
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		}
	}
	return nets
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now := l.now(); now.Sub(l.lastReset) > time.Hour {
		l.limiters = make(map[string]*rate.Limiter)
		l.lastReset = now
	}

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.get(ip).Allow() {
			loggerFrom(r).WithField("ip", ip).Warn("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			writeJSON(w, r, http.StatusTooManyRequests, envelope{Error: "Trop de requêtes, veuillez réessayer plus tard"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) trusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.proxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP is the peer address unless the peer is a trusted proxy. Behind
// one, the client is the right-most X-Forwarded-For hop that is not itself
// a trusted proxy.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !l.trusted(peer) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !l.trusted(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return peer
}
