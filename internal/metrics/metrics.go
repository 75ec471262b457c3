package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "prompt_agent"

// Metrics captures request, model invocation and job metrics.
type Metrics interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
	ObserveInvocation(provider, mode, status string, durationSeconds float64)
	IncJobsCompleted(pipeline, status string)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, string, float64)    {}
func (Noop) ObserveInvocation(string, string, string, float64) {}
func (Noop) IncJobsCompleted(string, string)                   {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	invocations    *prometheus.CounterVec
	invokeLatency  *prometheus.HistogramVec
	jobsCompleted  *prometheus.CounterVec
	once           sync.Once
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method/route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_invocations_total",
			Help:      "Model invocations by provider/mode/status",
		}, []string{"provider", "mode", "status"}),
		invokeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_invocation_duration_seconds",
			Help:      "Model invocation latency by provider/mode",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "mode"}),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Stream jobs completed by pipeline and status",
		}, []string{"pipeline", "status"}),
	}
	p.register()
	return p
}

func (p *Prom) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.requests, p.requestLatency, p.invocations, p.invokeLatency, p.jobsCompleted)
	})
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Inc()
	p.requestLatency.WithLabelValues(method, route).Observe(durationSeconds)
}

func (p *Prom) ObserveInvocation(provider, mode, status string, durationSeconds float64) {
	p.invocations.WithLabelValues(provider, mode, status).Inc()
	p.invokeLatency.WithLabelValues(provider, mode).Observe(durationSeconds)
}

func (p *Prom) IncJobsCompleted(pipeline, status string) {
	p.jobsCompleted.WithLabelValues(pipeline, status).Inc()
}

// Handler returns an HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
