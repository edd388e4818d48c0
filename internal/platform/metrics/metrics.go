// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics provides Prometheus metrics for the knowledge base API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by route pattern, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "confkb",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration measures handler latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "confkb",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ArticleViewsTotal counts successful public reads by slug.
	ArticleViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "confkb",
			Name:      "article_views_total",
			Help:      "Total number of public article reads",
		},
	)

	// CacheRequestsTotal counts stats/tags cache lookups by key and result.
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "confkb",
			Name:      "cache_requests_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"key", "result"},
	)
)

// RecordView records one public article read.
func RecordView() {
	ArticleViewsTotal.Inc()
}

// RecordCache records a cache lookup. result is "hit", "miss" or "error".
func RecordCache(key, result string) {
	CacheRequestsTotal.WithLabelValues(key, result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by chi route pattern.
//
// The pattern is read after the handler ran, so it is only complete once
// routing has finished. Unmatched requests are labelled "unmatched".
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPRequestsTotal.WithLabelValues(route, request.Method, strconv.Itoa(recorder.status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, request.Method).Observe(time.Since(start).Seconds())
	})
}
