package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nandanugg/speedcam/module/core/domain"
)

// Collector bundles the tracker's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	FixesTotal       *prometheus.CounterVec
	WarningsTotal    *prometheus.CounterVec
	OverspeedTotal   *prometheus.CounterVec
	IndexErrorsTotal prometheus.Counter
	TickDuration     prometheus.Histogram
	NearestDistance  prometheus.Gauge
	WarnedHazards    prometheus.Gauge
}

// New registers the collector against reg, defaulting to the global registry
// when nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	fixes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "speedcam_fixes_total",
		Help: "Position fixes consumed by the tracker, labeled by result.",
	}, []string{"result"}), "speedcam_fixes_total")
	if err != nil {
		return nil, err
	}
	warnings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "speedcam_warnings_total",
		Help: "Hazard warnings emitted, labeled by tier.",
	}, []string{"tier"}), "speedcam_warnings_total")
	if err != nil {
		return nil, err
	}
	overspeed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "speedcam_speed_samples_total",
		Help: "Speed samples classified, labeled by overspeed tier.",
	}, []string{"tier"}), "speedcam_speed_samples_total")
	if err != nil {
		return nil, err
	}
	indexErrors, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "speedcam_index_errors_total",
		Help: "Hazard index queries that failed.",
	}), "speedcam_index_errors_total")
	if err != nil {
		return nil, err
	}
	tick, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "speedcam_tick_duration_seconds",
		Help:    "Time to process one position fix, including the index query.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "speedcam_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	nearest, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedcam_nearest_distance_meters",
		Help: "Distance to the nearest hazard in range, -1 when none.",
	}), "speedcam_nearest_distance_meters")
	if err != nil {
		return nil, err
	}
	warned, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speedcam_warned_hazards",
		Help: "Hazards currently in the warned set.",
	}), "speedcam_warned_hazards")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		FixesTotal:       fixes,
		WarningsTotal:    warnings,
		OverspeedTotal:   overspeed,
		IndexErrorsTotal: indexErrors,
		TickDuration:     tick,
		NearestDistance:  nearest,
		WarnedHazards:    warned,
	}, nil
}

func (c *Collector) FixProcessed(d time.Duration) {
	if c == nil {
		return
	}
	c.FixesTotal.WithLabelValues("processed").Inc()
	c.TickDuration.Observe(d.Seconds())
}

func (c *Collector) FixRejected(reason string) {
	if c == nil {
		return
	}
	c.FixesTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) Warned(tier domain.Tier) {
	if c == nil {
		return
	}
	c.WarningsTotal.WithLabelValues(tier.String()).Inc()
}

func (c *Collector) Nearest(distanceM *float64, warned int) {
	if c == nil {
		return
	}
	if distanceM == nil {
		c.NearestDistance.Set(-1)
	} else {
		c.NearestDistance.Set(*distanceM)
	}
	c.WarnedHazards.Set(float64(warned))
}

func (c *Collector) Overspeed(tier domain.OverspeedTier) {
	if c == nil {
		return
	}
	c.OverspeedTotal.WithLabelValues(tier.String()).Inc()
}

func (c *Collector) IndexError() {
	if c == nil {
		return
	}
	c.IndexErrorsTotal.Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
