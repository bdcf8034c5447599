// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package evm

import (
	"strings"

	"github.com/luxfi/geth/accounts/abi"
)

// Methods of AxelarGasService and AxelarGateway called by the endpoint
const (
	payNativeGasMethod = "payNativeGasForContractCall"
	refundMethod       = "refund"
	callContractMethod = "callContract"
)

const gasServiceABIJSON = `[
	{
		"type": "function",
		"name": "payNativeGasForContractCall",
		"stateMutability": "payable",
		"inputs": [
			{"name": "sender", "type": "address"},
			{"name": "destinationChain", "type": "string"},
			{"name": "destinationAddress", "type": "string"},
			{"name": "payload", "type": "bytes"},
			{"name": "refundAddress", "type": "address"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "refund",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "txHash", "type": "bytes32"},
			{"name": "logIndex", "type": "uint256"},
			{"name": "receiver", "type": "address"},
			{"name": "token", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": []
	}
]`

const gatewayABIJSON = `[
	{
		"type": "function",
		"name": "callContract",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "destinationChain", "type": "string"},
			{"name": "contractAddress", "type": "string"},
			{"name": "payload", "type": "bytes"}
		],
		"outputs": []
	}
]`

var (
	gasServiceABI = mustParseABI(gasServiceABIJSON)
	gatewayABI    = mustParseABI(gatewayABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
