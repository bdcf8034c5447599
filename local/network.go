// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package local runs the gas service and gateway in process, so an endpoint
// can be exercised without a chain.
package local

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall/endpoint"
)

var (
	_ endpoint.Contracts = (*Network)(nil)

	ErrNoContract = errors.New("no contract deployed at address")
)

// Network maps addresses to the services deployed on it
type Network struct {
	mu          sync.RWMutex
	gasServices map[common.Address]*GasService
	gateways    map[common.Address]*Gateway
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		gasServices: make(map[common.Address]*GasService),
		gateways:    make(map[common.Address]*Gateway),
	}
}

// DeployGasService deploys a gas service at address, replacing any previous one
func (n *Network) DeployGasService(address common.Address) *GasService {
	n.mu.Lock()
	defer n.mu.Unlock()

	gasService := NewGasService(address)
	n.gasServices[address] = gasService
	return gasService
}

// DeployGateway deploys a gateway at address, replacing any previous one
func (n *Network) DeployGateway(address common.Address) *Gateway {
	n.mu.Lock()
	defer n.mu.Unlock()

	gateway := NewGateway(address)
	n.gateways[address] = gateway
	return gateway
}

func (n *Network) GasService(address common.Address) (endpoint.GasService, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	gasService, ok := n.gasServices[address]
	if !ok {
		return nil, fmt.Errorf("%w: gas service %s", ErrNoContract, address)
	}
	return gasService, nil
}

func (n *Network) Gateway(address common.Address) (endpoint.Gateway, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	gateway, ok := n.gateways[address]
	if !ok {
		return nil, fmt.Errorf("%w: gateway %s", ErrNoContract, address)
	}
	return gateway, nil
}
