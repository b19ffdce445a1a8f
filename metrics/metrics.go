package metrics

import (
	"errors"
	"geohash-service/geohash"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geohash_operations_total",
		Help: "Geohash operations by operation and result.",
	}, []string{"operation", "result"})

	RegionCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geohash_region_cells",
		Help:    "Number of cells returned by region enumerations.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	RegionCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geohash_region_cache_total",
		Help: "Region cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

// Result labels an operation outcome. Expected geohash failures get their own label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, geohash.ErrEndOfMap):
		return "end_of_map"
	case errors.Is(err, geohash.ErrCellsLimitExceeded):
		return "cells_limit"
	case errors.Is(err, geohash.ErrInvalidPrecision),
		errors.Is(err, geohash.ErrInvalidSymbol),
		errors.Is(err, geohash.ErrInvalidDirection):
		return "invalid"
	}
	return "error"
}

// Observe counts one operation.
func Observe(operation string, err error) {
	Operations.WithLabelValues(operation, Result(err)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
