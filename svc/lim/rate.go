// Package lim provides per-client token-bucket rate limiting for the
// HTTP surface.
package lim

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"slugbin/svc/util"
)

const (
	cleanupInterval = 5 * time.Minute
	limiterTTL      = 30 * time.Minute
)

type Limiter struct {
	rpm            int
	burst          int
	trustedProxies []string
	mu             sync.Mutex
	clients        map[string]*clientEntry
	quit           chan struct{}
	stopOnce       sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func New(rpm, burst int, trustedProxies []string) *Limiter {
	l := &Limiter{
		rpm:            rpm,
		burst:          burst,
		trustedProxies: trustedProxies,
		clients:        make(map[string]*clientEntry),
		quit:           make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.quit:
			return
		}
	}
}

func (l *Limiter) evictStale() {
	now := time.Now()
	l.mu.Lock()
	evicted := 0
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(l.clients, key)
			evicted++
		}
	}
	remaining := len(l.clients)
	l.mu.Unlock()
	if evicted > 0 {
		util.Debug().Int("evicted", evicted).Int("remaining", remaining).Msg("rate limiter cleanup")
	}
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

// Allow reports whether a request from r is within the per-client
// budget.
func (l *Limiter) Allow(r *http.Request) bool {
	key := GetRealIP(r, l.trustedProxies)
	if key == "" {
		key = "unknown"
	}
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.clients[key]
	if !ok {
		entry = &clientEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.burst),
		}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// GetRealIP returns the client IP, honoring forwarding headers only
// when the direct peer is a trusted proxy.
func GetRealIP(r *http.Request, trustedProxies []string) string {
	peer := remoteHost(r.RemoteAddr)
	if isTrustedProxy(peer, trustedProxies) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
		if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
			return strings.TrimSpace(xrip)
		}
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func isTrustedProxy(ip string, trusted []string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, t := range trusted {
		if strings.Contains(t, "/") {
			if _, cidr, err := net.ParseCIDR(t); err == nil && cidr.Contains(parsed) {
				return true
			}
		} else if t == ip {
			return true
		}
	}
	return false
}
