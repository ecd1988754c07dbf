/*
 * Copyright (c) 2022-2024, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"sync/atomic"

	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/prometheus/client_golang/prometheus"
)

// Totals accumulates the work done by every successful compile.
type Totals struct {
	Tokens       atomic.Int64
	Nodes        atomic.Int64
	Instructions atomic.Int64
}

func (t *Totals) Add(s compiler.Stats) {
	t.Tokens.Add(int64(s.Tokens))
	t.Nodes.Add(int64(s.Nodes))
	t.Instructions.Add(int64(s.Instructions))
}

type totalsCollector struct {
	totals *Totals

	tokens       *prometheus.Desc
	nodes        *prometheus.Desc
	instructions *prometheus.Desc
}

func NewTotalsCollector(t *Totals) prometheus.Collector {
	return &totalsCollector{
		totals: t,
		tokens: prometheus.NewDesc(
			"ninecc_tokens_total",
			"Number of tokens scanned by successful compiles.",
			nil, nil,
		),
		nodes: prometheus.NewDesc(
			"ninecc_ast_nodes_total",
			"Number of AST nodes built by successful compiles.",
			nil, nil,
		),
		instructions: prometheus.NewDesc(
			"ninecc_instructions_total",
			"Number of instructions emitted by successful compiles.",
			nil, nil,
		),
	}
}

// Describe implements Collector.
func (c *totalsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tokens
	ch <- c.nodes
	ch <- c.instructions
}

// Collect implements Collector.
func (c *totalsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.tokens, prometheus.CounterValue, float64(c.totals.Tokens.Load()))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.CounterValue, float64(c.totals.Nodes.Load()))
	ch <- prometheus.MustNewConstMetric(c.instructions, prometheus.CounterValue, float64(c.totals.Instructions.Load()))
}
