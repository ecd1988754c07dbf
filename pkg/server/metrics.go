/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncCompilations(endpoint, result string)
	ObserveCompileNS(endpoint string, t int64)
	ObserveOutputBytes(n int)
}

type metricsStore struct {
	registry     *prometheus.Registry
	Compilations *prometheus.CounterVec
	CompileNS    *prometheus.HistogramVec
	OutputBytes  prometheus.Histogram
}

var (
	EndpointLabel = "endpoint"
	ResultLabel   = "result"
)

const (
	ResultOk          = "ok"
	ResultSyntaxError = "syntax_error"
	ResultRunError    = "run_error"
	ResultInternal    = "internal_error"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(2*i*int(time.Microsecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ninecc_compilations",
			Help: "Compile requests by endpoint and outcome",
		}, []string{EndpointLabel, ResultLabel}),
		CompileNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ninecc_compile_ns",
			Help:    "Time spent compiling a single expression",
			Buckets: buckets,
		}, []string{EndpointLabel}),
		OutputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ninecc_output_bytes",
			Help:    "Size of the generated assembly",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10),
		}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncCompilations(endpoint, result string) {
	ms.Compilations.With(prometheus.Labels{EndpointLabel: endpoint, ResultLabel: result}).Inc()
}

func (ms *metricsStore) ObserveCompileNS(endpoint string, t int64) {
	ms.CompileNS.
		With(prometheus.Labels{EndpointLabel: endpoint}).
		Observe(float64(t))
}

func (ms *metricsStore) ObserveOutputBytes(n int) {
	ms.OutputBytes.Observe(float64(n))
}
