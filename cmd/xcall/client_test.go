// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/luxfi/xcall/api"
	"github.com/luxfi/xcall/endpoint"
	"github.com/luxfi/xcall/local"
	"github.com/luxfi/xcall/metrics"
	"github.com/luxfi/xcall/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestClientCommands(t *testing.T) {
	require := require.New(t)

	gatewayAddr := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	gasAddr := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	callerAddr := common.HexToAddress("0x00000000000000000000000000000000000000c3")

	network := local.NewNetwork()
	gasService := network.DeployGasService(gasAddr)
	gateway := network.DeployGateway(gatewayAddr)
	e := endpoint.New(log.NewNoOpLogger(), &endpoint.Config{
		Store:     state.NewStore(state.NewMemoryDatabase()),
		Contracts: network,
		Metrics:   metrics.NewEndpointMetrics(prometheus.NewRegistry()),
	})
	require.NoError(e.Initialize(context.Background(), gatewayAddr, gasAddr))

	mux := http.NewServeMux()
	api.HandleRequests(mux, log.NewNoOpLogger(), e)
	server := httptest.NewServer(mux)
	defer server.Close()

	run := func(args ...string) error {
		rootCmd.SetArgs(append(args, "--"+apiURLFlag, server.URL))
		return rootCmd.Execute()
	}

	require.ErrorContains(run("message"), "no message received yet")

	require.NoError(run(
		"dispatch",
		"--destination-chain", "ethereum",
		"--destination-address", "0xABC",
		"--payload", "0x6869",
		"--payment", "100",
		"--caller", callerAddr.Hex(),
	))
	require.Len(gateway.ContractCalls(), 1)
	require.Equal(uint64(100), gasService.Balance().Uint64())

	require.ErrorContains(run(
		"dispatch",
		"--destination-chain", "ethereum",
		"--destination-address", "0xABC",
		"--payment", "0",
		"--caller", callerAddr.Hex(),
	), "gas payment is required")

	require.NoError(run(
		"receive",
		"--caller", gatewayAddr.Hex(),
		"--source-chain", "polygon",
		"--source-address", "0xDEF",
		"--payload", "0x01",
	))
	require.NoError(run("message"))

	msg, err := e.ReceivedMessage(context.Background())
	require.NoError(err)
	require.Equal([]byte("polygon"), msg.SourceChain)
	require.Equal([]byte{0x01}, msg.Payload)
}
