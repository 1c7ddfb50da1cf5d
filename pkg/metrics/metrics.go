package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const namespace = "parking"

// Space gauge states.
const (
	StateOccupied  = "occupied"
	StateAvailable = "available"
)

// Recorder exports operation outcomes, fees and occupancy as Prometheus
// metrics. It satisfies sessions.Recorder.
type Recorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	fees       *prometheus.CounterVec
	spaces     *prometheus.GaugeVec
}

// NewRecorder registers the parking collectors on reg, or on the default
// registerer when reg is nil. Collectors that are already registered are
// reused, so several recorders may share one registry.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session operations by outcome code.",
		}, []string{"op", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Session operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		fees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_total",
			Help:      "Fees charged on completed sessions, in minor currency units.",
		}, []string{"vehicle_class"}),
		spaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spaces",
			Help:      "Parking spaces by class and state.",
		}, []string{"space_class", "state"}),
	}

	var err error
	if r.operations, err = register(reg, r.operations); err != nil {
		return nil, err
	}
	if r.latency, err = register(reg, r.latency); err != nil {
		return nil, err
	}
	if r.fees, err = register(reg, r.fees); err != nil {
		return nil, err
	}
	if r.spaces, err = register(reg, r.spaces); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Join(ErrRegister, err)
	}
	return c, nil
}

func (r *Recorder) Operation(op string, code parking.ErrorCode, elapsed time.Duration) {
	r.operations.WithLabelValues(op, string(code)).Inc()
	r.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (r *Recorder) Fee(class parking.VehicleClass, amount int64) {
	if amount <= 0 {
		return
	}
	r.fees.WithLabelValues(string(class)).Add(float64(amount))
}

// SetOccupancy replaces the space gauges with the per-class figures of an
// availability report.
func (r *Recorder) SetOccupancy(report parking.AvailabilityReport) {
	for _, class := range parking.SpaceClasses {
		stats := report.ByClass[class]
		r.spaces.WithLabelValues(string(class), StateOccupied).Set(float64(stats.Occupied))
		r.spaces.WithLabelValues(string(class), StateAvailable).Set(float64(stats.Available))
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
