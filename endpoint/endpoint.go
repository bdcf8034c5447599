// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

// Package endpoint implements a cross-chain call endpoint. Outbound, it pays
// the gas service and then hands the call to the gateway. Inbound, it keeps
// the last message delivered by the gateway.
package endpoint

import (
	"context"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/metrics"
	"github.com/luxfi/xcall/state"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures an Endpoint
type Config struct {
	Store     *state.Store
	Contracts Contracts
	// Metrics may be nil, in which case metrics are kept in a private
	// registry that is never exported.
	Metrics *metrics.EndpointMetrics

	// TrustedGateways restricts who may deliver inbound messages. Empty means
	// any caller is accepted and trust is left to the deployment.
	TrustedGateways []common.Address
}

// Endpoint serializes every dispatch and receive: a call runs to completion,
// external calls included, before the next one starts.
type Endpoint struct {
	log             log.Logger
	store           *state.Store
	contracts       Contracts
	metrics         *metrics.EndpointMetrics
	trustedGateways set.Set[common.Address]

	mu sync.RWMutex
}

// New creates a new endpoint
func New(logger log.Logger, cfg *Config) *Endpoint {
	endpointMetrics := cfg.Metrics
	if endpointMetrics == nil {
		endpointMetrics = metrics.NewEndpointMetrics(prometheus.NewRegistry())
	}
	return &Endpoint{
		log:             logger,
		store:           cfg.Store,
		contracts:       cfg.Contracts,
		metrics:         endpointMetrics,
		trustedGateways: set.Of(cfg.TrustedGateways...),
	}
}

// Initialize sets the gateway and gas service addresses. Deployment calls it
// once; calling it again overwrites both.
func (e *Endpoint) Initialize(ctx context.Context, gateway, gasReceiver common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Initialize(ctx, gateway, gasReceiver); err != nil {
		return err
	}
	e.log.Info("endpoint initialized",
		log.Stringer("gateway", gateway),
		log.Stringer("gasReceiver", gasReceiver),
	)
	return nil
}

// GatewayAddress returns the gateway address
func (e *Endpoint) GatewayAddress(ctx context.Context) (common.Address, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store.GatewayAddress(ctx)
}

// GasReceiverAddress returns the gas service address
func (e *Endpoint) GasReceiverAddress(ctx context.Context) (common.Address, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store.GasReceiverAddress(ctx)
}

// ReceivedMessage returns the last received message, or
// xcall.ErrUninitializedRead if nothing was received yet.
func (e *Endpoint) ReceivedMessage(ctx context.Context) (*xcall.ReceivedMessage, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store.ReceivedMessage(ctx)
}

// HealthCheck reports whether the state database is reachable
func (e *Endpoint) HealthCheck(ctx context.Context) error {
	return e.store.HealthCheck(ctx)
}
