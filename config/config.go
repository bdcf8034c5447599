// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/xcall"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	ModeLocal = "local"
	ModeEVM   = "evm"
)

const (
	defaultLogLevel                        = "info"
	defaultAPIPort                         = uint16(8080)
	defaultMetricsPort                     = uint16(8081)
	defaultStorageLocation                 = StorageMemory
	defaultMode                            = ModeLocal
	defaultInitialConnectionTimeoutSeconds = uint64(300)
	defaultTxInclusionTimeoutSeconds       = uint64(30)
)

var errPortsOverlap = errors.New("api port and metrics port must differ")

// Config is the endpoint service configuration. Call Validate before using
// the getters.
type Config struct {
	LogLevel                        string   `mapstructure:"log-level" json:"log-level"`
	APIPort                         uint16   `mapstructure:"api-port" json:"api-port"`
	MetricsPort                     uint16   `mapstructure:"metrics-port" json:"metrics-port"`
	GatewayAddress                  string   `mapstructure:"gateway-address" json:"gateway-address"`
	GasServiceAddress               string   `mapstructure:"gas-service-address" json:"gas-service-address"`
	TrustedGateways                 []string `mapstructure:"trusted-gateways" json:"trusted-gateways"`
	StorageLocation                 string   `mapstructure:"storage-location" json:"storage-location"`
	RedisURL                        string   `mapstructure:"redis-url" json:"redis-url"`
	Mode                            string   `mapstructure:"mode" json:"mode"`
	RPCURL                          string   `mapstructure:"rpc-url" json:"rpc-url"`
	AccountPrivateKey               string   `mapstructure:"account-private-key" json:"-"`
	InitialConnectionTimeoutSeconds uint64   `mapstructure:"initial-connection-timeout-seconds" json:"initial-connection-timeout-seconds"`
	TxInclusionTimeoutSeconds       uint64   `mapstructure:"tx-inclusion-timeout-seconds" json:"tx-inclusion-timeout-seconds"`

	// Parsed in Validate
	logLevel          slog.Level
	gatewayAddress    common.Address
	gasServiceAddress common.Address
	trustedGateways   []common.Address
}

func (c *Config) Validate() error {
	if err := c.logLevel.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid %s: %w", LogLevelKey, err)
	}
	if c.APIPort == c.MetricsPort {
		return errPortsOverlap
	}

	var err error
	if c.gatewayAddress, err = xcall.ParseAddress(c.GatewayAddress); err != nil {
		return fmt.Errorf("invalid %s: %w", GatewayAddressKey, err)
	}
	if c.gasServiceAddress, err = xcall.ParseAddress(c.GasServiceAddress); err != nil {
		return fmt.Errorf("invalid %s: %w", GasServiceAddressKey, err)
	}
	c.trustedGateways = make([]common.Address, 0, len(c.TrustedGateways))
	for _, s := range c.TrustedGateways {
		addr, err := xcall.ParseAddress(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", TrustedGatewaysKey, err)
		}
		c.trustedGateways = append(c.trustedGateways, addr)
	}

	switch c.StorageLocation {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s is required with %s %q", RedisURLKey, StorageLocationKey, StorageRedis)
		}
	default:
		return fmt.Errorf("invalid %s %q", StorageLocationKey, c.StorageLocation)
	}

	switch c.Mode {
	case ModeLocal:
	case ModeEVM:
		if c.RPCURL == "" {
			return fmt.Errorf("%s is required with %s %q", RPCURLKey, ModeKey, ModeEVM)
		}
		if c.AccountPrivateKey == "" {
			return fmt.Errorf("%s is required with %s %q", AccountPrivateKeyKey, ModeKey, ModeEVM)
		}
	default:
		return fmt.Errorf("invalid %s %q", ModeKey, c.Mode)
	}
	return nil
}

func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

func (c *Config) GetGatewayAddress() common.Address {
	return c.gatewayAddress
}

func (c *Config) GetGasServiceAddress() common.Address {
	return c.gasServiceAddress
}

func (c *Config) GetTrustedGateways() []common.Address {
	return c.trustedGateways
}

func (c *Config) GetInitialConnectionTimeout() time.Duration {
	return time.Duration(c.InitialConnectionTimeoutSeconds) * time.Second
}

func (c *Config) GetTxInclusionTimeout() time.Duration {
	return time.Duration(c.TxInclusionTimeoutSeconds) * time.Second
}
