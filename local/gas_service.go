// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/endpoint"
)

var (
	_ endpoint.GasService = (*GasService)(nil)

	ErrUnknownPayment  = errors.New("unknown gas payment")
	ErrAlreadyRefunded = errors.New("gas payment already refunded")
)

// GasPayment is one entry of the gas service ledger
type GasPayment struct {
	Receipt            endpoint.GasReceipt
	DestinationChain   []byte
	DestinationAddress []byte
	Payload            []byte
	Refunded           bool
}

// GasService is an in-process gas service. It keeps every payment and the
// refunds credited to each refund address.
type GasService struct {
	mu       sync.Mutex
	address  common.Address
	payments []*GasPayment
	balance  *uint256.Int
	refunds  map[common.Address]*uint256.Int
	failure  error
}

// NewGasService creates a gas service deployed at address
func NewGasService(address common.Address) *GasService {
	return &GasService{
		address: address,
		balance: new(uint256.Int),
		refunds: make(map[common.Address]*uint256.Int),
	}
}

// Address returns where the gas service is deployed
func (g *GasService) Address() common.Address {
	return g.address
}

// SetFailure makes every following payment fail with err. A nil err clears it.
func (g *GasService) SetFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failure = err
}

func (g *GasService) PayNativeGasForContractCall(
	_ context.Context,
	destinationChain []byte,
	destinationAddress []byte,
	payload []byte,
	refundAddress common.Address,
	amount *uint256.Int,
) (*endpoint.GasReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failure != nil {
		return nil, g.failure
	}
	if amount == nil || amount.IsZero() {
		return nil, errors.New("nothing received")
	}

	index := uint64(len(g.payments))
	payment := &GasPayment{
		Receipt: endpoint.GasReceipt{
			TxHash:        paymentHash(g.address, index, payload),
			LogIndex:      index,
			RefundAddress: refundAddress,
			Amount:        new(uint256.Int).Set(amount),
		},
		DestinationChain:   common.CopyBytes(destinationChain),
		DestinationAddress: common.CopyBytes(destinationAddress),
		Payload:            common.CopyBytes(payload),
	}
	g.payments = append(g.payments, payment)
	g.balance.Add(g.balance, amount)

	receipt := payment.Receipt
	return &receipt, nil
}

func (g *GasService) Refund(_ context.Context, receipt *endpoint.GasReceipt) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if receipt.LogIndex >= uint64(len(g.payments)) {
		return fmt.Errorf("%w: %s", ErrUnknownPayment, receipt.TxHash)
	}
	payment := g.payments[receipt.LogIndex]
	if payment.Receipt.TxHash != receipt.TxHash {
		return fmt.Errorf("%w: %s", ErrUnknownPayment, receipt.TxHash)
	}
	if payment.Refunded {
		return fmt.Errorf("%w: %s", ErrAlreadyRefunded, receipt.TxHash)
	}

	payment.Refunded = true
	amount := payment.Receipt.Amount
	g.balance.Sub(g.balance, amount)

	credited, ok := g.refunds[payment.Receipt.RefundAddress]
	if !ok {
		credited = new(uint256.Int)
		g.refunds[payment.Receipt.RefundAddress] = credited
	}
	credited.Add(credited, amount)
	return nil
}

// Balance returns the gas held for payments that were not refunded
func (g *GasService) Balance() *uint256.Int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return new(uint256.Int).Set(g.balance)
}

// Refunded returns the total refunded to address
func (g *GasService) Refunded(address common.Address) *uint256.Int {
	g.mu.Lock()
	defer g.mu.Unlock()

	credited, ok := g.refunds[address]
	if !ok {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(credited)
}

// Payments returns the payments that are still held, oldest first
func (g *GasService) Payments() []GasPayment {
	g.mu.Lock()
	defer g.mu.Unlock()

	held := make([]GasPayment, 0, len(g.payments))
	for _, payment := range g.payments {
		if !payment.Refunded {
			held = append(held, *payment)
		}
	}
	return held
}

// paymentHash stands in for the hash of the paying transaction
func paymentHash(gasService common.Address, index uint64, payload []byte) common.Hash {
	b := make([]byte, 0, common.AddressLength+8+len(payload))
	b = append(b, gasService.Bytes()...)
	b = append(b, uint256.NewInt(index).Bytes()...)
	b = append(b, payload...)
	return common.Hash(xcall.ComputeHash256Array(b))
}
