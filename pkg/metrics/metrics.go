// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for NSM device
// communication: exchange counters, latency histograms and device lifecycle
// counters.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all NSM metrics
	Namespace = "nsm"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// ExchangesTotal tracks request/response exchanges by operation and status.
	// Use RecordExchange to increment this counter with the appropriate labels.
	ExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exchanges_total",
			Help:      "Total number of NSM request/response exchanges by operation and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// ExchangeDuration tracks the duration of exchanges in seconds. Buckets
	// cover the sub-millisecond to multi-second range a blocking ioctl spans.
	ExchangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Duration of NSM exchanges in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{LabelOperation},
	)

	// DeviceOpensTotal tracks attempts to open the NSM character device.
	DeviceOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "device_opens_total",
			Help:      "Total number of NSM device open attempts by status",
		},
		[]string{LabelStatus},
	)

	// enabled controls whether metrics are recorded (1) or dropped (0)
	enabled int32 = 1
)

// RecordExchange records one request/response exchange with its duration in
// seconds and its outcome status.
func RecordExchange(operation, status string, duration float64) {
	if !IsEnabled() {
		return
	}
	ExchangesTotal.WithLabelValues(operation, status).Inc()
	ExchangeDuration.WithLabelValues(operation).Observe(duration)
}

// RecordDeviceOpen records one attempt to open the device.
func RecordDeviceOpen(status string) {
	if !IsEnabled() {
		return
	}
	DeviceOpensTotal.WithLabelValues(status).Inc()
}

// Enable enables metrics collection.
func Enable() {
	atomic.StoreInt32(&enabled, 1)
}

// Disable disables metrics collection.
func Disable() {
	atomic.StoreInt32(&enabled, 0)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return atomic.LoadInt32(&enabled) == 1
}
