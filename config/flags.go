// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("xcall", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "Specifies the JSON config file")
	fs.BoolP(VersionKey, "", false, "Display version and exit")
	fs.BoolP(HelpKey, "", false, "Display help text and exit")

	fs.String(LogLevelKey, defaultLogLevel, "Log level: debug, info, warn or error")
	fs.Uint16(APIPortKey, defaultAPIPort, "Port the endpoint API is served on")
	fs.Uint16(MetricsPortKey, defaultMetricsPort, "Port metrics are served on")
	fs.String(GatewayAddressKey, "", "Address of the gateway contract")
	fs.String(GasServiceAddressKey, "", "Address of the gas service contract")
	fs.StringSlice(TrustedGatewaysKey, nil, "Callers allowed to deliver inbound messages. Empty accepts any caller")
	fs.String(StorageLocationKey, defaultStorageLocation, "Where endpoint state is kept: memory or redis")
	fs.String(RedisURLKey, "", "Redis URL, required with redis storage")
	fs.String(ModeKey, defaultMode, "Contracts to bind: local (in-process) or evm")
	fs.String(RPCURLKey, "", "EVM RPC URL, required in evm mode")
	fs.String(AccountPrivateKeyKey, "", "Hex encoded key of the account sending transactions in evm mode")
	fs.Uint64(
		InitialConnectionTimeoutSecondsKey,
		defaultInitialConnectionTimeoutSeconds,
		"Seconds to keep retrying the first connection to the RPC node or redis",
	)
	fs.Uint64(TxInclusionTimeoutSecondsKey, defaultTxInclusionTimeoutSeconds, "Seconds to wait for a transaction to be included")
	return fs
}

// DisplayUsageText displays the help text to the console
func DisplayUsageText() {
	usageText := `
Usage: xcall serve [OPTIONS]
xcall serves a cross-chain call endpoint.

Options:
%s
Every option may also be set in the config file or through the environment,
upper case with dashes replaced by underscores (e.g. API_PORT).
`
	fmt.Fprintf(os.Stderr, usageText, BuildFlagSet().FlagUsages())
}
