// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes recorded in the outcome label
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidPayment = "invalid_payment"
	OutcomeGasFailed      = "gas_service_failed"
	OutcomeGatewayFailed  = "gateway_failed"
	OutcomeConfigFailed   = "config_failed"
)

type EndpointMetrics struct {
	DispatchCount        *prometheus.CounterVec
	DispatchLatencyMS    *prometheus.HistogramVec
	RefundCount          *prometheus.CounterVec
	ReceiveCount         *prometheus.CounterVec
	RejectedReceiveCount prometheus.Counter
}

func NewEndpointMetrics(registerer prometheus.Registerer) *EndpointMetrics {
	m := EndpointMetrics{
		DispatchCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_count",
				Help: "Number of outbound dispatches by outcome",
			},
			[]string{"destination_chain", "outcome"},
		),
		DispatchLatencyMS: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_latency_ms",
				Help:    "Latency of an outbound dispatch in milliseconds, both external calls included",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"destination_chain"},
		),
		RefundCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gas_refund_count",
				Help: "Number of gas payments refunded after a failed gateway call",
			},
			[]string{"destination_chain", "result"},
		),
		ReceiveCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receive_count",
				Help: "Number of inbound messages recorded",
			},
			[]string{"source_chain"},
		),
		RejectedReceiveCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rejected_receive_count",
				Help: "Number of inbound messages rejected because of an untrusted caller",
			},
		),
	}

	registerer.MustRegister(m.DispatchCount)
	registerer.MustRegister(m.DispatchLatencyMS)
	registerer.MustRegister(m.RefundCount)
	registerer.MustRegister(m.ReceiveCount)
	registerer.MustRegister(m.RejectedReceiveCount)

	return &m
}

// ChainLabel renders an opaque chain name as a label value.
func ChainLabel(chain []byte) string {
	return strings.ToValidUTF8(string(chain), "?")
}
