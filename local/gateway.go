// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package local

import (
	"context"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/endpoint"
)

var _ endpoint.Gateway = (*Gateway)(nil)

// ContractCall is the event a gateway emits for relayers
type ContractCall struct {
	DestinationChain           []byte
	DestinationContractAddress []byte
	PayloadHash                common.Hash
	Payload                    []byte
}

// Gateway is an in-process gateway that records contract calls in order
type Gateway struct {
	mu      sync.Mutex
	address common.Address
	calls   []ContractCall
	failure error
}

// NewGateway creates a gateway deployed at address
func NewGateway(address common.Address) *Gateway {
	return &Gateway{address: address}
}

// Address returns where the gateway is deployed
func (g *Gateway) Address() common.Address {
	return g.address
}

// SetFailure makes every following call fail with err. A nil err clears it.
func (g *Gateway) SetFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failure = err
}

func (g *Gateway) CallContract(
	_ context.Context,
	destinationChain []byte,
	destinationContractAddress []byte,
	payload []byte,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failure != nil {
		return g.failure
	}
	g.calls = append(g.calls, ContractCall{
		DestinationChain:           common.CopyBytes(destinationChain),
		DestinationContractAddress: common.CopyBytes(destinationContractAddress),
		PayloadHash:                common.Hash(xcall.ComputeHash256Array(payload)),
		Payload:                    common.CopyBytes(payload),
	})
	return nil
}

// ContractCalls returns the recorded calls, oldest first
func (g *Gateway) ContractCalls() []ContractCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	calls := make([]ContractCall, len(g.calls))
	copy(calls, g.calls)
	return calls
}
