// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists the endpoint's three named slots: the gateway
// address, the gas service address and the last received message.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall"
)

// Slot names. Each slot holds exactly one value and is overwritten in place.
const (
	ReceivedValueKey      = "received_value"
	GatewayAddressKey     = "gateway_address"
	GasReceiverAddressKey = "gas_receiver_address"
)

// Store reads and writes the endpoint slots on top of a Database
type Store struct {
	db Database
}

// NewStore creates a new store backed by db
func NewStore(db Database) *Store {
	return &Store{db: db}
}

// Initialize writes both configuration addresses unconditionally, in a
// single batch: either both are set or neither changes. It is meant to run
// once at deployment; a second call overwrites the first.
func (s *Store) Initialize(ctx context.Context, gateway, gasReceiver common.Address) error {
	err := s.db.PutAll(ctx, map[string][]byte{
		GatewayAddressKey:     gateway.Bytes(),
		GasReceiverAddressKey: gasReceiver.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("failed to write %s and %s: %w", GatewayAddressKey, GasReceiverAddressKey, err)
	}
	return nil
}

// GatewayAddress returns the gateway address set at initialization
func (s *Store) GatewayAddress(ctx context.Context) (common.Address, error) {
	return s.getAddress(ctx, GatewayAddressKey)
}

// GasReceiverAddress returns the gas service address set at initialization
func (s *Store) GasReceiverAddress(ctx context.Context) (common.Address, error) {
	return s.getAddress(ctx, GasReceiverAddressKey)
}

func (s *Store) getAddress(ctx context.Context, key string) (common.Address, error) {
	b, err := s.db.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return common.Address{}, fmt.Errorf("%w: %s not set", xcall.ErrNotInitialized, key)
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(b) != common.AddressLength {
		return common.Address{}, fmt.Errorf("corrupt %s: expected %d bytes, got %d", key, common.AddressLength, len(b))
	}
	return common.BytesToAddress(b), nil
}

// SetReceivedMessage replaces the received message slot
func (s *Store) SetReceivedMessage(ctx context.Context, msg *xcall.ReceivedMessage) error {
	b, err := msg.Bytes()
	if err != nil {
		return err
	}
	if err := s.db.Put(ctx, ReceivedValueKey, b); err != nil {
		return fmt.Errorf("failed to write %s: %w", ReceivedValueKey, err)
	}
	return nil
}

// ReceivedMessage returns the last received message
func (s *Store) ReceivedMessage(ctx context.Context) (*xcall.ReceivedMessage, error) {
	b, err := s.db.Get(ctx, ReceivedValueKey)
	if errors.Is(err, ErrNotFound) {
		return nil, xcall.ErrUninitializedRead
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ReceivedValueKey, err)
	}
	return xcall.ParseReceivedMessage(b)
}

// HealthCheck reports whether the underlying database is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}
