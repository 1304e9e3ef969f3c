package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/protocol"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/gateway/client"
	"code.swapex.io/swapex/genesis"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alice = "0x1111111111111111111111111111111111111111"

func startGateway(t *testing.T) *client.Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := logging.NewTestLogger()

	loader, err := config.InitialiseLoader(t.TempDir())
	require.NoError(t, err)
	cfg := config.NewDefaultConfig()
	require.NoError(t, loader.Save(&cfg))
	watcher, err := config.NewWatcher(ctx, log, loader)
	require.NoError(t, err)

	state := genesis.DefaultState()
	p, err := protocol.New(ctx, watcher, log, "", &state, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Stop() })

	srv, err := gateway.New(ctx, log, gateway.NewDefaultConfig(), p, p.GetBroker())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.HTTPHandler())
	t.Cleanup(ts.Close)

	clt, err := client.New(ts.URL, client.WithRetries(0))
	require.NoError(t, err)
	return clt
}

func units(n uint64) *num.Uint {
	return num.UintZero().Mul(num.NewUint(n), num.NewUint(1000000000000000000))
}

func TestClientAgainstGateway(t *testing.T) {
	ctx := context.Background()
	clt := startGateway(t)

	info, err := clt.Pool(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CEL", info.Asset0)
	assert.Equal(t, units(10000).String(), info.Reserve0.String())

	q, err := clt.QuoteSwap(ctx, "CEL", units(10))
	require.NoError(t, err)
	assert.Equal(t, "49700547954784988936", q.Quote.String())

	rcpt, err := clt.FaucetWithdraw(ctx, "CEL", alice)
	require.NoError(t, err)
	assert.Equal(t, string(journal.StatusCommitted), rcpt.Status)

	_, err = clt.Swap(ctx, alice, "CEL", units(10))
	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.NotNil(t, apiErr.Receipt)
	assert.Equal(t, string(journal.StatusRejected), apiErr.Receipt.Status)

	_, err = clt.Approve(ctx, alice, "CEL", "*pool", units(10))
	require.NoError(t, err)
	rcpt, err = clt.Swap(ctx, alice, "CEL", units(10))
	require.NoError(t, err)
	assert.Equal(t, "swap", rcpt.Kind)

	bal, err := clt.Balance(ctx, "LUM", alice)
	require.NoError(t, err)
	assert.Equal(t, "49700547954784988936", bal.Balance.String())

	head, err := clt.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, rcpt.Height, head.Height)

	block, err := clt.Block(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "genesis", block.Kind)

	_, err = clt.Block(ctx, 1000)
	apiErr, ok = err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestGetIsRetriedOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"ledger closed"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"CEL","symbol":"CEL","decimals":18}]`))
	}))
	defer ts.Close()

	clt, err := client.New(ts.URL, client.WithRetries(5))
	require.NoError(t, err)
	assets, err := clt.Assets(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown asset"}`))
	}))
	defer ts.Close()

	clt, err := client.New(ts.URL, client.WithRetries(5))
	require.NoError(t, err)
	_, err = clt.Balance(context.Background(), "XYZ", alice)
	require.Error(t, err)
	assert.Equal(t, "unknown asset (404)", err.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/rewards/fund", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	clt, err := client.New(ts.URL, client.WithRetries(5))
	require.NoError(t, err)
	_, err = clt.FundRewards(context.Background(), alice, units(1), time.Minute)
	require.Error(t, err)
	assert.Equal(t, "Bad Gateway (502)", err.Error())
	assert.Equal(t, int32(1), calls.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "swapexcli", r.Header.Get("X-Client"))
		_, _ = w.Write([]byte(`[{"id":"CEL","symbol":"CEL","decimals":18}]`))
	}))
	defer ts.Close()

	var calls atomic.Int32
	base := ts.Client().Transport
	hc := &http.Client{
		Timeout: time.Second,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls.Add(1)
			r = r.Clone(r.Context())
			r.Header.Set("X-Client", "swapexcli")
			return base.RoundTrip(r)
		}),
	}

	clt, err := client.New(ts.URL, client.WithRetries(0), client.WithHTTPClient(hc))
	require.NoError(t, err)
	assets, err := clt.Assets(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewRejectsInvalidAddress(t *testing.T) {
	_, err := client.New("127.0.0.1:3008")
	assert.Error(t, err)
	_, err = client.New("http://127.0.0.1:3008")
	assert.NoError(t, err)
}
