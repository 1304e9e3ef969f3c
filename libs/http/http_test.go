package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"code.swapex.io/swapex/config/encoding"
	vghttp "code.swapex.io/swapex/libs/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl, err := vghttp.NewRateLimit(ctx, vghttp.RateLimitConfig{
		CoolDown:  encoding.Duration{Duration: 10 * time.Second},
		AllowList: []string{"10.0.0.0/8"},
	})
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	rl.SetNow(func() time.Time { return now })

	require.NoError(t, rl.NewRequest("swap", "1.2.3.4"))
	assert.ErrorIs(t, rl.NewRequest("swap", "1.2.3.4"), vghttp.ErrRateLimited)
	// other routes and other ips are tracked separately
	assert.NoError(t, rl.NewRequest("stake", "1.2.3.4"))
	assert.NoError(t, rl.NewRequest("swap", "4.3.2.1"))

	// every refused request pushes the deadline back by the cool down
	now = now.Add(15 * time.Second)
	assert.ErrorIs(t, rl.NewRequest("swap", "1.2.3.4"), vghttp.ErrRateLimited)
	now = now.Add(16 * time.Second)
	assert.NoError(t, rl.NewRequest("swap", "1.2.3.4"))

	for i := 0; i < 3; i++ {
		assert.NoError(t, rl.NewRequest("swap", "10.1.2.3"))
	}

	now = now.Add(time.Minute)
	rl.Cleanup()
	assert.Equal(t, 0, rl.Tracked())
}

func TestRateLimitInvalidAllowList(t *testing.T) {
	_, err := vghttp.NewRateLimit(context.Background(), vghttp.RateLimitConfig{
		AllowList: []string{"not-a-subnet"},
	})
	assert.Error(t, err)
}

func TestRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:4321"
	assert.Equal(t, "192.168.1.1", vghttp.RemoteAddr(req))

	req.Header.Set("X-Forwarded-For", "8.8.8.8, 192.168.1.1")
	assert.Equal(t, "8.8.8.8", vghttp.RemoteAddr(req))
}

func TestAllowedOrigin(t *testing.T) {
	assert.True(t, vghttp.AllowedOrigin(nil)("https://anything.io"))

	allowed := vghttp.AllowedOrigin([]string{"https://swapex.io"})
	assert.True(t, allowed("http://swapex.io"))
	assert.False(t, allowed("https://evil.io"))

	h := vghttp.CORSHandler(vghttp.CORSConfig{AllowedOrigins: []string{"https://swapex.io"}}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://swapex.io")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://swapex.io", rec.Header().Get("Access-Control-Allow-Origin"))
}
