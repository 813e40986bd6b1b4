package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "turnos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
	)

	shopIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "intents_total",
			Help:      "Operator intents received, by intent and whether they changed the state",
		},
		[]string{"intent", "changed"},
	)

	shopSaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "save_failures_total",
			Help:      "Changes applied in memory that could not be persisted",
		},
	)

	shopQueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "queue_length",
			Help:      "Jobs waiting for the chair",
		},
	)

	shopParallelJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "parallel_jobs",
			Help:      "Services running in parallel",
		},
	)

	shopChairBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "chair_busy",
			Help:      "1 when a job is in the chair",
		},
	)

	shopOverageMinutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "overage_minutes",
			Help:      "Projected minutes past the end of the shift (negative when there is slack)",
		},
	)

	shopLevel = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "turnos",
			Subsystem: "shop",
			Name:      "projection_level",
			Help:      "1 for the current traffic-light level, 0 for the others",
		},
		[]string{"level"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDuration, httpInflight,
		shopIntentsTotal, shopSaveFailures,
		shopQueueLength, shopParallelJobs, shopChairBusy, shopOverageMinutes, shopLevel,
	)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the wrapper
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.Inc()
		defer httpInflight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)

		// the route pattern is only known once chi has routed the request
		path := routePatternOrPath(r)
		status := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// observeIntent counts an intent and any failure to persist it
func observeIntent(intent string, changed, saveFailed bool) {
	shopIntentsTotal.WithLabelValues(intent, strconv.FormatBool(changed)).Inc()
	if saveFailed {
		shopSaveFailures.Inc()
	}
}

// observeShop publishes the shape of the shop at the moment of p
func observeShop(st models.State, p projection.Projection) {
	shopQueueLength.Set(float64(len(st.Queue)))
	shopParallelJobs.Set(float64(len(st.Parallel)))
	if st.Active != nil {
		shopChairBusy.Set(1)
	} else {
		shopChairBusy.Set(0)
	}
	shopOverageMinutes.Set(float64(p.OverageMinutes))
	for _, level := range []projection.Level{projection.OnTime, projection.AtRisk, projection.Over} {
		v := 0.0
		if level == p.Level {
			v = 1
		}
		shopLevel.WithLabelValues(string(level)).Set(v)
	}
}
