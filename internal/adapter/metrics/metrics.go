// Package metrics exposes storefront activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niksmo/storefront/internal/core/port"
)

const namespace = "storefront"

var _ port.Metrics = (*Recorder)(nil)

// Recorder owns a registry, so several recorders can live in one process.
type Recorder struct {
	reg *prometheus.Registry

	catalogLoads    *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	wishlistToggles *prometheus.CounterVec
	missingProducts *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by result.",
		}, []string{"result"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Persisted cart mutations by operation.",
		}, []string{"op"}),
		wishlistToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wishlist_toggles_total",
			Help:      "Wishlist toggles by resulting action.",
		}, []string{"action"}),
		missingProducts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_products_total",
			Help:      "Stored ids that have no catalog product, by view.",
		}, []string{"view"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served.",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.catalogLoads,
		r.cartMutations,
		r.wishlistToggles,
		r.missingProducts,
		r.httpRequests,
		r.httpDuration,
		r.httpInFlight,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Recorder) CatalogLoaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.catalogLoads.WithLabelValues(result).Inc()
}

func (r *Recorder) CartMutated(op string) {
	r.cartMutations.WithLabelValues(op).Inc()
}

func (r *Recorder) WishlistToggled(added bool) {
	action := "removed"
	if added {
		action = "added"
	}
	r.wishlistToggles.WithLabelValues(action).Inc()
}

func (r *Recorder) MissingProduct(view string) {
	r.missingProducts.WithLabelValues(view).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests by the mux pattern that served them. It must
// wrap the [http.ServeMux] directly so the pattern is visible after the
// request is served.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		r.httpInFlight.Inc()
		defer r.httpInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, req)

		path := req.Pattern
		if path == "" {
			path = "unknown"
		}
		r.httpRequests.
			WithLabelValues(req.Method, path, strconv.Itoa(sw.statusCode)).
			Inc()
		r.httpDuration.
			WithLabelValues(req.Method, path).
			Observe(time.Since(start).Seconds())
	})
}

var _ port.Metrics = Nop{}

// Nop discards all observations.
type Nop struct{}

func (Nop) CatalogLoaded(error)   {}
func (Nop) CartMutated(string)    {}
func (Nop) WishlistToggled(bool)  {}
func (Nop) MissingProduct(string) {}
