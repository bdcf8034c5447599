// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

// Package evm binds the endpoint to AxelarGasService and AxelarGateway
// contracts on an EVM chain.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall/cache"
	"github.com/luxfi/xcall/endpoint"
)

const proxyCacheSize = 16

var (
	_ endpoint.Contracts  = (*Contracts)(nil)
	_ endpoint.GasService = (*gasService)(nil)
	_ endpoint.Gateway    = (*gateway)(nil)

	errNoGasPaidEvent = errors.New("gas service emitted no event")
)

// Contracts binds proxies that send transactions from the client's account.
// Proxies are reused per address.
type Contracts struct {
	tx          transactor
	gasServices *cache.LRUCache[common.Address, endpoint.GasService]
	gateways    *cache.LRUCache[common.Address, endpoint.Gateway]
}

// NewContracts creates proxies sending through client
func NewContracts(client *Client) *Contracts {
	return newContracts(client)
}

func newContracts(tx transactor) *Contracts {
	return &Contracts{
		tx:          tx,
		gasServices: cache.NewLRUCache[common.Address, endpoint.GasService](proxyCacheSize),
		gateways:    cache.NewLRUCache[common.Address, endpoint.Gateway](proxyCacheSize),
	}
}

func (c *Contracts) GasService(address common.Address) (endpoint.GasService, error) {
	return c.gasServices.Get(address, func(address common.Address) (endpoint.GasService, error) {
		if address == (common.Address{}) {
			return nil, errors.New("gas service address is zero")
		}
		return &gasService{address: address, tx: c.tx}, nil
	})
}

func (c *Contracts) Gateway(address common.Address) (endpoint.Gateway, error) {
	return c.gateways.Get(address, func(address common.Address) (endpoint.Gateway, error) {
		if address == (common.Address{}) {
			return nil, errors.New("gateway address is zero")
		}
		return &gateway{address: address, tx: c.tx}, nil
	})
}

type gasService struct {
	address common.Address
	tx      transactor
}

// PayNativeGasForContractCall pays on behalf of the client's account, which is
// also the account calling the gateway.
func (g *gasService) PayNativeGasForContractCall(
	ctx context.Context,
	destinationChain []byte,
	destinationAddress []byte,
	payload []byte,
	refundAddress common.Address,
	amount *uint256.Int,
) (*endpoint.GasReceipt, error) {
	receipt, err := g.tx.transact(
		ctx,
		g.address,
		gasServiceABI,
		amount.ToBig(),
		payNativeGasMethod,
		g.tx.sender(),
		string(destinationChain),
		string(destinationAddress),
		payload,
		refundAddress,
	)
	if err != nil {
		return nil, err
	}

	for _, l := range receipt.Logs {
		if l.Address == g.address {
			return &endpoint.GasReceipt{
				TxHash:        receipt.TxHash,
				LogIndex:      uint64(l.Index),
				RefundAddress: refundAddress,
				Amount:        new(uint256.Int).Set(amount),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errNoGasPaidEvent, receipt.TxHash)
}

// Refund requires the client's account to be the gas service collector.
func (g *gasService) Refund(ctx context.Context, receipt *endpoint.GasReceipt) error {
	_, err := g.tx.transact(
		ctx,
		g.address,
		gasServiceABI,
		nil,
		refundMethod,
		[32]byte(receipt.TxHash),
		new(big.Int).SetUint64(receipt.LogIndex),
		receipt.RefundAddress,
		common.Address{}, // native token
		receipt.Amount.ToBig(),
	)
	return err
}

type gateway struct {
	address common.Address
	tx      transactor
}

func (g *gateway) CallContract(
	ctx context.Context,
	destinationChain []byte,
	destinationContractAddress []byte,
	payload []byte,
) error {
	_, err := g.tx.transact(
		ctx,
		g.address,
		gatewayABI,
		nil,
		callContractMethod,
		string(destinationChain),
		string(destinationContractAddress),
		payload,
	)
	return err
}
