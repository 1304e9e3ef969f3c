package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"code.swapex.io/swapex/config/encoding"
)

var ErrRateLimited = errors.New("rate-limited")

type RateLimitConfig struct {
	CoolDown encoding.Duration `long:"cool-down" description:"minimum delay between two mutating requests of an ip, e.g. 1s, 1m30s"`

	AllowList []string `long:"allow-list" description:"a list of ip/subnets never rate-limited, e.g. 10.0.0.0/8, 127.0.0.1/32"`

	allowList []net.IPNet
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		CoolDown:  encoding.Duration{Duration: time.Second},
		AllowList: []string{},
	}
}

type RateLimit struct {
	cfg RateLimitConfig
	now func() time.Time
	// map of prefix+ip -> time until request can be allowed
	requests map[string]time.Time

	mu sync.Mutex
}

func NewRateLimit(ctx context.Context, cfg RateLimitConfig) (*RateLimit, error) {
	cfg.allowList = make([]net.IPNet, len(cfg.AllowList))
	for i, allowItem := range cfg.AllowList {
		_, ipnet, err := net.ParseCIDR(allowItem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse AllowList entry: %s", allowItem)
		}
		cfg.allowList[i] = *ipnet
	}
	r := &RateLimit{
		cfg:      cfg,
		now:      time.Now,
		requests: map[string]time.Time{},
	}
	go r.startCleanup(ctx)
	return r, nil
}

// NewRequest returns ErrRateLimited if ip already sent a request for
// prefix within the cool down. Each refused request extends the wait.
func (r *RateLimit) NewRequest(prefix, ip string) error {
	if r.cfg.CoolDown.Duration <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isAllowListed(ip) {
		return nil
	}

	now := r.now()
	identifier := prefix + " " + ip
	if until, ok := r.requests[identifier]; ok && now.Before(until) {
		until = until.Add(r.cfg.CoolDown.Duration)
		r.requests[identifier] = until
		return fmt.Errorf("%w (%s for %s) until %s", ErrRateLimited, prefix, ip, until.Format(time.RFC3339))
	}

	r.requests[identifier] = now.Add(r.cfg.CoolDown.Duration)
	return nil
}

func (r *RateLimit) isAllowListed(ip string) bool {
	netIP := net.ParseIP(ip)
	if netIP == nil {
		return false
	}
	for _, allowItem := range r.cfg.allowList {
		if allowItem.Contains(netIP) {
			return true
		}
	}
	return false
}

func (r *RateLimit) cleanup() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for identifier, until := range r.requests {
		if until.Before(now) {
			delete(r.requests, identifier)
		}
	}
}

func (r *RateLimit) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

// RemoteAddr returns the ip a request comes from, preferring the first
// X-Forwarded-For entry set by a reverse proxy.
func RemoteAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); len(fwd) > 0 {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
