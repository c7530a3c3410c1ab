package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	GenerationRequests *prometheus.CounterVec
	GeminiRequests     *prometheus.CounterVec
	GeminiLatency      *prometheus.HistogramVec
	QuotaRejections    prometheus.Counter
	FaqsCreated        *prometheus.CounterVec
	Exports            *prometheus.CounterVec
	Errors             *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			GenerationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faq_generation_requests_total",
				Help:      "FAQ generation requests by outcome.",
			}, []string{"outcome"}),
			GeminiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gemini_requests_total",
				Help:      "Total Gemini API requests by outcome.",
			}, []string{"status"}),
			GeminiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gemini_request_duration_seconds",
				Help:      "Latency distribution for Gemini API calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
			QuotaRejections: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quota_rejections_total",
				Help:      "Generation requests rejected by the daily quota.",
			}),
			FaqsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faqs_created_total",
				Help:      "FAQ records persisted, by style.",
			}, []string{"style"}),
			Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faq_exports_total",
				Help:      "FAQ document exports by format.",
			}, []string{"format"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.GenerationRequests,
			metricsInstance.GeminiRequests,
			metricsInstance.GeminiLatency,
			metricsInstance.QuotaRejections,
			metricsInstance.FaqsCreated,
			metricsInstance.Exports,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
