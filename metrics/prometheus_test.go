package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupAndServe(t *testing.T) {
	require.NoError(t, metrics.Setup(metrics.NewDefaultConfig()))
	// registering twice is a no-op
	require.NoError(t, metrics.Setup(metrics.NewDefaultConfig()))

	metrics.TxCounterInc("swap", "committed")
	metrics.StartTx("swap")()
	metrics.LedgerHeightSet(42)
	metrics.PoolReserveSet("CEL", num.DecimalFromInt64(10000))
	metrics.TotalStakedSet(num.DecimalFromInt64(3))
	metrics.APIRequestAndTimeREST("GET /api/v1/pool", 0.1)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `swapex_tx_total{kind="swap",status="committed"} 1`)
	assert.Contains(t, out, `swapex_tx_duration_seconds_count{kind="swap"} 1`)
	assert.Contains(t, out, `swapex_tx_duration_seconds_bucket{kind="swap",le="+Inf"} 1`)
	assert.Contains(t, out, "swapex_ledger_height 42")
	assert.Contains(t, out, `swapex_pool_reserve{asset="CEL"} 10000`)
	assert.Contains(t, out, "swapex_rewards_total_staked 3")
	assert.Contains(t, out, `swapex_request_count_total{apiType="REST",requestType="GET /api/v1/pool"} 1`)
}

func TestAddInstrumentTypeMismatch(t *testing.T) {
	h, err := metrics.AddInstrument(metrics.Gauge, "test_gauge", metrics.Namespace("swapex_test"))
	require.NoError(t, err)
	_, err = h.Counter()
	assert.ErrorIs(t, err, metrics.ErrInstrumentTypeMismatch)
	_, err = h.Gauge()
	assert.NoError(t, err)
}

func TestAddHistogram(t *testing.T) {
	h, err := metrics.AddInstrument(
		metrics.Histogram,
		"test_latency_seconds",
		metrics.Namespace("swapex_test"),
		metrics.Buckets([]float64{0.1, 1}),
	)
	require.NoError(t, err)
	_, err = h.HistogramVec()
	assert.ErrorIs(t, err, metrics.ErrInstrumentTypeMismatch)
	hist, err := h.Histogram()
	require.NoError(t, err)
	hist.Observe(0.5)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `swapex_test_test_latency_seconds_bucket{le="0.1"} 0`)
	assert.Contains(t, string(body), `swapex_test_test_latency_seconds_bucket{le="1"} 1`)
}
