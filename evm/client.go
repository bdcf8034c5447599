// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/ethclient"
	"github.com/luxfi/log"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/utils"
)

const defaultTxInclusionTimeout = 30 * time.Second

var errTxReverted = errors.New("transaction reverted")

// Backend is what the client needs from a node: sending transactions and
// waiting for their receipts.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// ClientConfig configures the account and node used to reach the contracts
type ClientConfig struct {
	RPCURL            string
	PrivateKey        string
	ConnectionTimeout time.Duration
	InclusionTimeout  time.Duration
}

// transactor sends one contract transaction and waits until it is included
type transactor interface {
	transact(
		ctx context.Context,
		to common.Address,
		contractABI abi.ABI,
		value *big.Int,
		method string,
		args ...interface{},
	) (*types.Receipt, error)
	sender() common.Address
}

var _ transactor = (*Client)(nil)

// Client signs transactions with a single account. Callers serialize its use;
// nonces are taken from the pending state on every transaction.
type Client struct {
	log              log.Logger
	backend          Backend
	opts             *bind.TransactOpts
	inclusionTimeout time.Duration
}

// Dial connects to the node at cfg.RPCURL, retrying until
// cfg.ConnectionTimeout elapses.
func Dial(ctx context.Context, logger log.Logger, cfg *ClientConfig) (*Client, *ethclient.Client, error) {
	var client *ethclient.Client
	var chainID *big.Int
	err := utils.WithRetriesTimeout(logger, func() error {
		c, err := ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return err
		}
		id, err := c.ChainID(ctx)
		if err != nil {
			c.Close()
			return err
		}
		client, chainID = c, id
		return nil
	}, cfg.ConnectionTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.RPCURL, err)
	}

	c, err := NewClient(logger, client, chainID, cfg)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return c, client, nil
}

// NewClient creates a client sending transactions through backend
func NewClient(logger log.Logger, backend Backend, chainID *big.Int, cfg *ClientConfig) (*Client, error) {
	key, err := crypto.HexToECDSA(xcall.SanitizeHexString(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid account private key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	inclusionTimeout := cfg.InclusionTimeout
	if inclusionTimeout == 0 {
		inclusionTimeout = defaultTxInclusionTimeout
	}

	logger.Info("initialized evm client",
		log.Stringer("chainID", chainID),
		log.Stringer("account", opts.From),
	)
	return &Client{
		log:              logger,
		backend:          backend,
		opts:             opts,
		inclusionTimeout: inclusionTimeout,
	}, nil
}

func (c *Client) sender() common.Address {
	return c.opts.From
}

func (c *Client) transact(
	ctx context.Context,
	to common.Address,
	contractABI abi.ABI,
	value *big.Int,
	method string,
	args ...interface{},
) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.inclusionTimeout)
	defer cancel()

	opts := *c.opts
	opts.Context = ctx
	opts.Value = value

	contract := bind.NewBoundContract(to, contractABI, c.backend, c.backend, c.backend)
	tx, err := contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s %s: %w", method, tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s %s", errTxReverted, method, tx.Hash())
	}

	c.log.Debug("transaction included",
		log.String("method", method),
		log.Stringer("txHash", tx.Hash()),
		log.Stringer("to", to),
	)
	return receipt, nil
}
