// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"sync"

	"github.com/luxfi/geth/common"
)

// ErrNotFound is returned by a Database when a key has never been written
var ErrNotFound = errors.New("not found")

// Database is the key/value store holding the endpoint's named slots.
// Put overwrites in place; there is no versioning.
type Database interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutAll writes every pair or none of them.
	PutAll(ctx context.Context, values map[string][]byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}

var _ Database = (*MemoryDatabase)(nil)

// MemoryDatabase is an in-memory implementation of Database
type MemoryDatabase struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryDatabase creates a new memory database
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		data: make(map[string][]byte),
	}
}

func (db *MemoryDatabase) Get(_ context.Context, key string) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	value, ok := db.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return common.CopyBytes(value), nil
}

func (db *MemoryDatabase) Put(_ context.Context, key string, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.data[key] = common.CopyBytes(value)
	return nil
}

func (db *MemoryDatabase) PutAll(_ context.Context, values map[string][]byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for key, value := range values {
		db.data[key] = common.CopyBytes(value)
	}
	return nil
}

func (*MemoryDatabase) HealthCheck(context.Context) error {
	return nil
}

func (*MemoryDatabase) Close() error {
	return nil
}
