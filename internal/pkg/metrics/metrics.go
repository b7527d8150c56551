package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the employee store and list views.
type Metrics struct {
	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
	Employees       prometheus.Gauge
	StoreListeners  prometheus.Gauge
	OpenViews       prometheus.Gauge
	ViewsReaped     prometheus.Counter
	NotifyDuration  prometheus.Histogram
}

// New registers every metric with reg. Use prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "directory_store_mutations_total",
			Help: "Total number of successful store mutations by operation",
		}, []string{"op"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "directory_store_persist_failures_total",
			Help: "Total number of mutations rejected because the durable write failed",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "directory_store_persist_duration_seconds",
			Help:    "Duration of full-collection durable writes",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Employees: f.NewGauge(prometheus.GaugeOpts{
			Name: "directory_store_employees",
			Help: "Number of employees currently in the store",
		}),
		StoreListeners: f.NewGauge(prometheus.GaugeOpts{
			Name: "directory_store_listeners",
			Help: "Number of active store subscribers",
		}),
		OpenViews: f.NewGauge(prometheus.GaugeOpts{
			Name: "directory_list_views_open",
			Help: "Number of open list views",
		}),
		ViewsReaped: f.NewCounter(prometheus.CounterOpts{
			Name: "directory_list_views_reaped_total",
			Help: "Total number of idle list views closed by the reaper",
		}),
		NotifyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "directory_store_notify_duration_seconds",
			Help:    "Duration of fanning one mutation out to every subscriber",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// IncMutation records a successful mutation of the given kind (add, update, delete).
func (m *Metrics) IncMutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) IncPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// ObservePersist records the duration of a durable write.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePersist(start time.Time) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveNotify(start time.Time) {
	if m == nil {
		return
	}
	m.NotifyDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetEmployees(n int) {
	if m == nil {
		return
	}
	m.Employees.Set(float64(n))
}

func (m *Metrics) SetStoreListeners(n int) {
	if m == nil {
		return
	}
	m.StoreListeners.Set(float64(n))
}

func (m *Metrics) SetOpenViews(n int) {
	if m == nil {
		return
	}
	m.OpenViews.Set(float64(n))
}

func (m *Metrics) AddViewsReaped(n int) {
	if m == nil {
		return
	}
	m.ViewsReaped.Add(float64(n))
}
