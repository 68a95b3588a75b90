package book

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_store_errors_total",
			Help: "Number of book operations that failed because the store errored",
		},
		[]string{"operation"},
	)
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_lookups_total",
			Help: "Number of Get lookups against the book cache",
		},
		[]string{"result"},
	)
)
