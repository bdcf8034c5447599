// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Environment variable keys
	ConfigFileEnvKey = "CONFIG_FILE"

	// Top-level configuration keys
	LogLevelKey                        = "log-level"
	APIPortKey                         = "api-port"
	MetricsPortKey                     = "metrics-port"
	GatewayAddressKey                  = "gateway-address"
	GasServiceAddressKey               = "gas-service-address"
	TrustedGatewaysKey                 = "trusted-gateways"
	StorageLocationKey                 = "storage-location"
	RedisURLKey                        = "redis-url"
	ModeKey                            = "mode"
	RPCURLKey                          = "rpc-url"
	AccountPrivateKeyKey               = "account-private-key"
	InitialConnectionTimeoutSecondsKey = "initial-connection-timeout-seconds"
	TxInclusionTimeoutSecondsKey       = "tx-inclusion-timeout-seconds"
)
