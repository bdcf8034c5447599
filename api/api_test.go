// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/endpoint"
	"github.com/luxfi/xcall/local"
	"github.com/luxfi/xcall/metrics"
	"github.com/luxfi/xcall/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var (
	gatewayAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	gasAddr     = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	callerAddr  = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

type testServer struct {
	mux        *http.ServeMux
	gasService *local.GasService
	gateway    *local.Gateway
}

func newTestServer(t *testing.T, trusted ...common.Address) *testServer {
	network := local.NewNetwork()
	gasService := network.DeployGasService(gasAddr)
	gateway := network.DeployGateway(gatewayAddr)

	e := endpoint.New(log.NewNoOpLogger(), &endpoint.Config{
		Store:           state.NewStore(state.NewMemoryDatabase()),
		Contracts:       network,
		Metrics:         metrics.NewEndpointMetrics(prometheus.NewRegistry()),
		TrustedGateways: trusted,
	})
	require.NoError(t, e.Initialize(context.Background(), gatewayAddr, gasAddr))

	mux := http.NewServeMux()
	HandleRequests(mux, log.NewNoOpLogger(), e)
	return &testServer{mux: mux, gasService: gasService, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestDispatch(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, DispatchPath, DispatchRequest{
		DestinationChain:   "ethereum",
		DestinationAddress: "0xABC",
		Payload:            "0x6869",
		Payment:            "100",
		Caller:             callerAddr.Hex(),
	})
	require.Equal(http.StatusOK, rec.Code)

	var resp DispatchResponse
	require.NoError(json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(resp.DispatchID)

	calls := s.gateway.ContractCalls()
	require.Len(calls, 1)
	require.Equal([]byte("ethereum"), calls[0].DestinationChain)
	require.Equal([]byte("hi"), calls[0].Payload)
	require.Equal(uint64(100), s.gasService.Balance().Uint64())
}

func TestDispatchErrors(t *testing.T) {
	valid := func() DispatchRequest {
		return DispatchRequest{
			DestinationChain:   "ethereum",
			DestinationAddress: "0xABC",
			Payload:            "6869",
			Payment:            "0x64",
			Caller:             callerAddr.Hex(),
		}
	}

	tests := []struct {
		name   string
		modify func(*DispatchRequest)
		code   int
	}{
		{
			name:   "missing payment",
			modify: func(r *DispatchRequest) { r.Payment = "" },
			code:   http.StatusBadRequest,
		},
		{
			name:   "zero payment",
			modify: func(r *DispatchRequest) { r.Payment = "0" },
			code:   http.StatusBadRequest,
		},
		{
			name:   "bad payment",
			modify: func(r *DispatchRequest) { r.Payment = "lots" },
			code:   http.StatusBadRequest,
		},
		{
			name:   "bad payload",
			modify: func(r *DispatchRequest) { r.Payload = "0xzz" },
			code:   http.StatusBadRequest,
		},
		{
			name:   "bad caller",
			modify: func(r *DispatchRequest) { r.Caller = "alice" },
			code:   http.StatusBadRequest,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newTestServer(t)
			req := valid()
			test.modify(&req)

			rec := s.do(t, http.MethodPost, DispatchPath, req)
			require.Equal(t, test.code, rec.Code)
			require.NotEmpty(t, decodeError(t, rec))
			require.Empty(t, s.gateway.ContractCalls())
			require.Empty(t, s.gasService.Payments())
		})
	}
}

func TestDispatchGatewayFailure(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t)
	s.gateway.SetFailure(errors.New("halted"))

	rec := s.do(t, http.MethodPost, DispatchPath, DispatchRequest{
		DestinationChain:   "ethereum",
		DestinationAddress: "0xABC",
		Payment:            "100",
		Caller:             callerAddr.Hex(),
	})
	require.Equal(http.StatusBadGateway, rec.Code)
	require.Contains(decodeError(t, rec), "halted")
	require.Equal(uint64(100), s.gasService.Refunded(callerAddr).Uint64())
}

func TestExecuteAndReceivedMessage(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, ReceivedMessagePath, nil)
	require.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, ExecutePath, ExecuteRequest{
		Caller:        gatewayAddr.Hex(),
		SourceChain:   "polygon",
		SourceAddress: "0xDEF",
		Payload:       "0x776f726c64",
	})
	require.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, ReceivedMessagePath, nil)
	require.Equal(http.StatusOK, rec.Code)
	var resp ReceivedMessageResponse
	require.NoError(json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(ReceivedMessageResponse{
		SourceChain:   "polygon",
		SourceAddress: "0xDEF",
		Payload:       "0x776f726c64",
	}, resp)
}

func TestExecuteLargePayload(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t)

	payload := "0x" + strings.Repeat("ab", 300*xcall.KiB)
	rec := s.do(t, http.MethodPost, ExecutePath, ExecuteRequest{
		Caller:        gatewayAddr.Hex(),
		SourceChain:   "polygon",
		SourceAddress: "0xDEF",
		Payload:       payload,
	})
	require.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, ReceivedMessagePath, nil)
	require.Equal(http.StatusOK, rec.Code)
	var resp ReceivedMessageResponse
	require.NoError(json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(payload, resp.Payload)
}

func TestRequestBodyTooLarge(t *testing.T) {
	tests := []struct {
		path string
		body interface{}
	}{
		{
			path: ExecutePath,
			body: ExecuteRequest{
				Caller:  gatewayAddr.Hex(),
				Payload: strings.Repeat("00", MaxRequestBodySize),
			},
		},
		{
			path: DispatchPath,
			body: DispatchRequest{
				Payment: "100",
				Caller:  callerAddr.Hex(),
				Payload: strings.Repeat("00", MaxRequestBodySize),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, http.MethodPost, test.path, test.body)
			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			require.Empty(t, s.gateway.ContractCalls())

			rec = s.do(t, http.MethodGet, ReceivedMessagePath, nil)
			require.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestExecuteUntrustedCaller(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t, gatewayAddr)

	rec := s.do(t, http.MethodPost, ExecutePath, ExecuteRequest{
		Caller:        callerAddr.Hex(),
		SourceChain:   "polygon",
		SourceAddress: "0xDEF",
	})
	require.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, ReceivedMessagePath, nil)
	require.Equal(http.StatusNotFound, rec.Code)
}

func TestConfig(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, ConfigPath, nil)
	require.Equal(http.StatusOK, rec.Code)
	var resp ConfigResponse
	require.NoError(json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(gatewayAddr.Hex(), resp.GatewayAddress)
	require.Equal(gasAddr.Hex(), resp.GasServiceAddress)
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, DispatchPath, bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
