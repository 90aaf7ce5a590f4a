// Package metrics exposes run counters for Prometheus scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinesSent counts log lines acknowledged by the collector.
	LinesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logship_lines_sent_total",
		Help: "The total number of log lines accepted by the collector",
	})

	// LinesFailed counts log lines that could not be delivered.
	LinesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logship_lines_failed_total",
		Help: "The total number of log lines that failed to send",
	})
)
