package news

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// storeQueries counts service operations by outcome.
	storeQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pebble_news_store_queries_total",
		Help: "Total news store operations by operation and result",
	}, []string{"op", "result"})

	// storeQueryDuration tracks operation latency, store round trips included.
	storeQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pebble_news_store_query_duration_seconds",
		Help:    "News store operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeQueries.WithLabelValues(op, result).Inc()
	storeQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
