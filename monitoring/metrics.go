package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. They are served
// on /metrics when the HTTP transport is active; in stdio mode they are
// still collected, just not exposed.
type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	DetailsTotal      *prometheus.CounterVec
	ListingsExtracted prometheus.Counter
	OperationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kleinanzeigen_searches_total",
			Help: "The total number of search operations",
		}, []string{"status"}), // success, failure
		DetailsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kleinanzeigen_detail_fetches_total",
			Help: "The total number of detail fetch operations",
		}, []string{"status"}),
		ListingsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kleinanzeigen_listings_extracted_total",
			Help: "The total number of listing summaries extracted",
		}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kleinanzeigen_operation_duration_seconds",
			Help:    "Duration of scrape operations",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		}, []string{"operation"}),
	}
}

// ObserveSearch records one completed search operation.
func (m *Metrics) ObserveSearch(status string, listings int, elapsed time.Duration) {
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.ListingsExtracted.Add(float64(listings))
	m.OperationDuration.WithLabelValues("search").Observe(elapsed.Seconds())
}

// ObserveDetails records one completed detail fetch.
func (m *Metrics) ObserveDetails(status string, elapsed time.Duration) {
	m.DetailsTotal.WithLabelValues(status).Inc()
	m.OperationDuration.WithLabelValues("details").Observe(elapsed.Seconds())
}
