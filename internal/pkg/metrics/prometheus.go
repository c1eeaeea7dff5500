package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal    prometheus.Counter
	ItinerariesFound prometheus.Counter
	RecordsRejected  *prometheus.CounterVec
	CacheHits        prometheus.Counter
	SearchDuration   prometheus.Histogram
}

// NewMetrics creates new prometheus metrics registered on reg. A nil reg
// uses the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of itinerary searches",
		}),
		ItinerariesFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itineraries_found_total",
			Help:      "The total number of itineraries returned",
		}),
		RecordsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "The total number of flight records rejected",
		}, []string{"reason"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of searches served from cache",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken to answer a search",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
