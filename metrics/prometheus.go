package metrics

import (
	"net/http"
	"sync"
	"time"

	"code.swapex.io/swapex/libs/num"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error

	txCounter   *prometheus.CounterVec
	txDuration  *prometheus.HistogramVec
	ledgerGauge prometheus.Gauge
	poolReserve *prometheus.GaugeVec
	stakedGauge prometheus.Gauge
	// Call counters for each request type per API
	apiRequestCallCounter *prometheus.CounterVec
	// Total time counters for each request type per API
	apiRequestTimeCounter *prometheus.CounterVec
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument  configure and register new metrics instrument
// this will, over time, be moved to use custom Registries, etc...
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	// apply options
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := opt.gauge()
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := opt.counter()
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Setup registers every instrument with the default registry. It is safe
// to call more than once, only the first call registers.
func Setup(conf Config) error {
	if !conf.Enabled {
		return nil
	}
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Handler serves the registered instruments in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func (i instrumentOpts) gauge() prometheus.GaugeOpts {
	return prometheus.GaugeOpts(i.opts)
}

func (i instrumentOpts) counter() prometheus.CounterOpts {
	return prometheus.CounterOpts(i.opts)
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:      i.opts.Name,
		Namespace: i.opts.Namespace,
		Help:      i.opts.Help,
		Buckets:   i.buckets,
	}
}

// Gauge returns a prometheus Gauge instrument
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// GaugeVec returns a prometheus GaugeVec instrument
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// Counter returns a prometheus Counter instrument
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

// Histogram returns a prometheus Histogram instrument
func (m mi) Histogram() (prometheus.Histogram, error) {
	if m.histogram == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogram, nil
}

// HistogramVec returns a prometheus HistogramVec instrument
func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Counter,
		"tx_total",
		Namespace("swapex"),
		Vectors("kind", "status"),
		Help("Number of operations submitted to the ledger"),
	)
	if err != nil {
		return err
	}
	tc, err := h.CounterVec()
	if err != nil {
		return err
	}
	txCounter = tc

	h, err = AddInstrument(
		Histogram,
		"tx_duration_seconds",
		Namespace("swapex"),
		Vectors("kind"),
		Buckets([]float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}),
		Help("Time spent executing each operation"),
	)
	if err != nil {
		return err
	}
	td, err := h.HistogramVec()
	if err != nil {
		return err
	}
	txDuration = td

	h, err = AddInstrument(
		Gauge,
		"ledger_height",
		Namespace("swapex"),
		Help("Height of the last journal block"),
	)
	if err != nil {
		return err
	}
	lg, err := h.Gauge()
	if err != nil {
		return err
	}
	ledgerGauge = lg

	// reserves are exported in whole units, precision loss is fine here
	h, err = AddInstrument(
		Gauge,
		"pool_reserve",
		Namespace("swapex"),
		Vectors("asset"),
		Help("Pool reserve of each asset"),
	)
	if err != nil {
		return err
	}
	pr, err := h.GaugeVec()
	if err != nil {
		return err
	}
	poolReserve = pr

	h, err = AddInstrument(
		Gauge,
		"rewards_total_staked",
		Namespace("swapex"),
		Help("Total amount staked in the reward engine"),
	)
	if err != nil {
		return err
	}
	sg, err := h.Gauge()
	if err != nil {
		return err
	}
	stakedGauge = sg

	//
	// API usage metrics start here
	//

	// Number of calls to each request type
	h, err = AddInstrument(
		Counter,
		"request_count_total",
		Namespace("swapex"),
		Vectors("apiType", "requestType"),
		Help("Count of API requests"),
	)
	if err != nil {
		return err
	}
	rc, err := h.CounterVec()
	if err != nil {
		return err
	}
	apiRequestCallCounter = rc

	// Total time for calls to each request type for each api type
	h, err = AddInstrument(
		Counter,
		"request_time_total",
		Namespace("swapex"),
		Vectors("apiType", "requestType"),
		Help("Total time spent in each API request"),
	)
	if err != nil {
		return err
	}
	rpac, err := h.CounterVec()
	if err != nil {
		return err
	}
	apiRequestTimeCounter = rpac

	return nil
}

// TxCounterInc counts a ledger operation by kind and outcome.
func TxCounterInc(kind, status string) {
	if txCounter == nil {
		return
	}
	txCounter.WithLabelValues(kind, status).Inc()
}

// StartTx measures the time spent executing an operation of the given kind.
func StartTx(kind string) func() {
	startTime := time.Now()
	return func() {
		if txDuration == nil {
			return
		}
		txDuration.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())
	}
}

// LedgerHeightSet updates the height of the journal.
func LedgerHeightSet(h uint64) {
	if ledgerGauge == nil {
		return
	}
	ledgerGauge.Set(float64(h))
}

// PoolReserveSet updates the reserve gauge of the given asset.
func PoolReserveSet(asset string, reserve num.Decimal) {
	if poolReserve == nil {
		return
	}
	f, _ := reserve.Float64()
	poolReserve.WithLabelValues(asset).Set(f)
}

// TotalStakedSet updates the staked gauge.
func TotalStakedSet(staked num.Decimal) {
	if stakedGauge == nil {
		return
	}
	f, _ := staked.Float64()
	stakedGauge.Set(f)
}

// APIRequestAndTimeREST updates the metrics for REST API calls
func APIRequestAndTimeREST(request string, time float64) {
	if apiRequestCallCounter == nil || apiRequestTimeCounter == nil {
		return
	}
	apiRequestCallCounter.WithLabelValues("REST", request).Inc()
	apiRequestTimeCounter.WithLabelValues("REST", request).Add(time)
}

// APIRequestAndTimeWS updates the metrics for websocket streams.
func APIRequestAndTimeWS(request string, startTime time.Time) {
	if apiRequestCallCounter == nil || apiRequestTimeCounter == nil {
		return
	}
	apiRequestCallCounter.WithLabelValues("WS", request).Inc()
	apiRequestTimeCounter.WithLabelValues("WS", request).Add(time.Since(startTime).Seconds())
}
