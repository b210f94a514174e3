//go:build !ios && !android && (amd64 || arm64)

// Package metrics exports sfgo's resource counters to Prometheus.
package metrics

import (
	"fmt"

	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector reports live native objects, input stream traffic and loaded
// libraries. Values are read at scrape time.
type Collector struct {
	liveObjects      *prometheus.Desc
	openStreams      *prometheus.Desc
	streamBytes      *prometheus.Desc
	callbackFailures *prometheus.Desc
	libraryLoaded    *prometheus.Desc
}

// NewCollector returns a Collector; register it with a prometheus.Registerer.
func NewCollector() *Collector {
	return &Collector{
		liveObjects: prometheus.NewDesc("sfgo_native_objects_live",
			"Native CSFML objects created and not yet released", nil, nil),
		openStreams: prometheus.NewDesc("sfgo_input_streams_open",
			"Input streams registered with CSFML", nil, nil),
		streamBytes: prometheus.NewDesc("sfgo_input_stream_read_bytes_total",
			"Bytes CSFML read through input streams", nil, nil),
		callbackFailures: prometheus.NewDesc("sfgo_input_stream_callback_failures_total",
			"Input stream callbacks that reported failure to CSFML", nil, nil),
		libraryLoaded: prometheus.NewDesc("sfgo_library_loaded",
			"Whether a CSFML library is loaded (1) or not (0)", []string{"library"}, nil),
	}
}

// Register creates a Collector and registers it with reg.
func Register(reg prometheus.Registerer) (*Collector, error) {
	c := NewCollector()
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("failed to register sfgo metrics: %w", err)
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveObjects
	ch <- c.openStreams
	ch <- c.streamBytes
	ch <- c.callbackFailures
	ch <- c.libraryLoaded
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := system.CurrentStats()

	ch <- prometheus.MustNewConstMetric(c.liveObjects, prometheus.GaugeValue, float64(native.LiveBoxes()))
	ch <- prometheus.MustNewConstMetric(c.openStreams, prometheus.GaugeValue, float64(stats.Open))
	ch <- prometheus.MustNewConstMetric(c.streamBytes, prometheus.CounterValue, float64(stats.BytesRead))
	ch <- prometheus.MustNewConstMetric(c.callbackFailures, prometheus.CounterValue, float64(stats.CallbackFailures))

	for _, l := range []bindings.Library{bindings.System, bindings.Window, bindings.Graphics, bindings.Audio} {
		v := 0.0
		if bindings.Has(l) {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.libraryLoaded, prometheus.GaugeValue, v, l.String())
	}
}
