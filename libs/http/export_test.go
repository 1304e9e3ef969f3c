package http

import "time"

func (r *RateLimit) SetNow(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

func (r *RateLimit) Cleanup() {
	r.cleanup()
}

func (r *RateLimit) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}
