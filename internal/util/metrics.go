package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_processed_total",
		Help: "Total number of successfully committed sale transactions",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed orders",
	}, []string{"reason"})

	ItemsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "items_sold_total",
		Help: "Total quantity of items sold across all transactions",
	})

	StockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Total number of orders rejected for insufficient stock",
	})

	ListingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Total number of product listings created",
	})

	OrderProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_processing_latency_seconds",
		Help:    "Latency of order processing including the storage transaction",
		Buckets: prometheus.DefBuckets,
	})

	RevenueQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "revenue_query_latency_seconds",
		Help:    "Latency of monthly revenue queries",
		Buckets: prometheus.DefBuckets,
	})

	RevenueCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revenue_cache_hits_total",
		Help: "Total number of revenue queries served from cache",
	})

	RevenueCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revenue_cache_misses_total",
		Help: "Total number of revenue queries that hit the ledger",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
