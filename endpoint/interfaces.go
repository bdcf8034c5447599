// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package endpoint

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// GasService accounts for the fee of executing a relayed call on the
// destination chain.
type GasService interface {
	// PayNativeGasForContractCall registers amount against the
	// (destinationChain, destinationAddress, payload) tuple. Excess or unused
	// gas is refunded to refundAddress.
	PayNativeGasForContractCall(
		ctx context.Context,
		destinationChain []byte,
		destinationAddress []byte,
		payload []byte,
		refundAddress common.Address,
		amount *uint256.Int,
	) (*GasReceipt, error)

	// Refund returns the payment identified by receipt to its refund address
	Refund(ctx context.Context, receipt *GasReceipt) error
}

// Gateway records a cross-chain call so that relayers can execute it on the
// destination chain.
type Gateway interface {
	CallContract(
		ctx context.Context,
		destinationChain []byte,
		destinationContractAddress []byte,
		payload []byte,
	) error
}

// Contracts binds service proxies to the addresses held by the endpoint
type Contracts interface {
	GasService(address common.Address) (GasService, error)
	Gateway(address common.Address) (Gateway, error)
}

// GasReceipt identifies one gas payment
type GasReceipt struct {
	// TxHash and LogIndex locate the payment event emitted by the gas service
	TxHash        common.Hash
	LogIndex      uint64
	RefundAddress common.Address
	Amount        *uint256.Int
}
