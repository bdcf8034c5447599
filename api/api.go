// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/log"
	"github.com/luxfi/xcall"
)

const (
	DispatchPath        = "/dispatch"
	ExecutePath         = "/execute"
	ReceivedMessagePath = "/received-message"
	ConfigPath          = "/config"

	// MaxRequestBodySize bounds POST bodies. Payloads are hex encoded, so
	// the largest payload accepted is about half of it.
	MaxRequestBodySize = 4 << 20
)

// Endpoint is the endpoint served by the API
type Endpoint interface {
	Dispatch(ctx context.Context, req *xcall.DispatchRequest) error
	Receive(ctx context.Context, caller common.Address, msg *xcall.ReceivedMessage) error
	ReceivedMessage(ctx context.Context) (*xcall.ReceivedMessage, error)
	GatewayAddress(ctx context.Context) (common.Address, error)
	GasReceiverAddress(ctx context.Context) (common.Address, error)
}

// Sends a contract call to another chain.
type DispatchRequest struct {
	DestinationChain   string `json:"destination-chain"`
	DestinationAddress string `json:"destination-address"`
	// hex-encoded payload, optionally prefixed with "0x".
	Payload string `json:"payload"`
	// Native amount paid to the gas service, decimal or "0x" prefixed hex.
	Payment string `json:"payment"`
	// Account the payment is refunded to if the call cannot be handed over.
	Caller string `json:"caller"`
}

type DispatchResponse struct {
	DispatchID string `json:"dispatch-id"`
}

// Delivers a message from another chain. Caller is the gateway delivering it.
type ExecuteRequest struct {
	Caller        string `json:"caller"`
	SourceChain   string `json:"source-chain"`
	SourceAddress string `json:"source-address"`
	// hex-encoded payload, optionally prefixed with "0x".
	Payload string `json:"payload"`
}

type ReceivedMessageResponse struct {
	SourceChain   string `json:"source-chain"`
	SourceAddress string `json:"source-address"`
	Payload       string `json:"payload"`
}

type ConfigResponse struct {
	GatewayAddress    string `json:"gateway-address"`
	GasServiceAddress string `json:"gas-service-address"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleRequests registers the endpoint routes on mux
func HandleRequests(mux *http.ServeMux, logger log.Logger, endpoint Endpoint) {
	mux.Handle("POST "+DispatchPath, dispatchHandler(logger, endpoint))
	mux.Handle("POST "+ExecutePath, executeHandler(logger, endpoint))
	mux.Handle("GET "+ReceivedMessagePath, receivedMessageHandler(logger, endpoint))
	mux.Handle("GET "+ConfigPath, configHandler(logger, endpoint))
}

func writeJSONError(
	logger log.Logger,
	w http.ResponseWriter,
	httpStatusCode int,
	errorMsg string,
) {
	resp, err := json.Marshal(
		ErrorResponse{
			Error: errorMsg,
		},
	)
	if err != nil {
		msg := "Error marshalling JSON error response"
		logger.Error(msg, log.Err(err))
		resp = []byte(msg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)

	_, err = w.Write(resp)
	if err != nil {
		logger.Error("Error writing error response", log.Err(err))
	}
}

// writeEndpointError responds with the status code err maps to
func writeEndpointError(logger log.Logger, w http.ResponseWriter, err error) {
	xerr := xcall.ToError(err)
	writeJSONError(logger, w, int(xerr.Code), xerr.Message)
}

func writeJSON(logger log.Logger, w http.ResponseWriter, v interface{}) {
	resp, err := json.Marshal(v)
	if err != nil {
		msg := "Failed to marshal response"
		logger.Error(msg, log.Err(err))
		writeJSONError(logger, w, http.StatusInternalServerError, msg)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		logger.Error("Error writing response", log.Err(err))
	}
}

// decodeRequest decodes a JSON body of at most MaxRequestBodySize bytes into
// req, writing the error response when it cannot.
func decodeRequest(logger log.Logger, w http.ResponseWriter, r *http.Request, req interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	err := json.NewDecoder(body).Decode(req)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		msg := "Request body too large"
		logger.Warn(msg, log.Err(err))
		writeJSONError(logger, w, http.StatusRequestEntityTooLarge, msg)
		return false
	}
	msg := "Could not decode request body"
	logger.Warn(msg, log.Err(err))
	writeJSONError(logger, w, http.StatusBadRequest, msg)
	return false
}

func dispatchHandler(logger log.Logger, endpoint Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req DispatchRequest
		if !decodeRequest(logger, w, r, &req) {
			return
		}

		payload, err := xcall.DecodeHex(req.Payload)
		if err != nil {
			msg := "Could not decode payload"
			logger.Warn(msg, log.String("payload", req.Payload), log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, msg)
			return
		}
		caller, err := xcall.ParseAddress(req.Caller)
		if err != nil {
			msg := "Invalid caller"
			logger.Warn(msg, log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, msg)
			return
		}
		// A missing payment is left to the endpoint to reject.
		var payment *uint256.Int
		if req.Payment != "" {
			payment, err = xcall.ParseAmount(req.Payment)
			if err != nil {
				msg := "Invalid payment"
				logger.Warn(msg, log.Err(err))
				writeJSONError(logger, w, http.StatusBadRequest, msg)
				return
			}
		}

		dispatch := xcall.NewDispatchRequest(
			[]byte(req.DestinationChain),
			[]byte(req.DestinationAddress),
			payload,
			payment,
			caller,
		)
		if err := endpoint.Dispatch(r.Context(), dispatch); err != nil {
			logger.Warn("Dispatch failed", log.Err(err))
			writeEndpointError(logger, w, err)
			return
		}
		writeJSON(logger, w, DispatchResponse{DispatchID: dispatch.ID().String()})
	})
}

func executeHandler(logger log.Logger, endpoint Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ExecuteRequest
		if !decodeRequest(logger, w, r, &req) {
			return
		}

		payload, err := xcall.DecodeHex(req.Payload)
		if err != nil {
			msg := "Could not decode payload"
			logger.Warn(msg, log.String("payload", req.Payload), log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, msg)
			return
		}
		caller, err := xcall.ParseAddress(req.Caller)
		if err != nil {
			msg := "Invalid caller"
			logger.Warn(msg, log.Err(err))
			writeJSONError(logger, w, http.StatusBadRequest, msg)
			return
		}

		msg := xcall.NewReceivedMessage([]byte(req.SourceChain), []byte(req.SourceAddress), payload)
		if err := endpoint.Receive(r.Context(), caller, msg); err != nil {
			logger.Warn("Receive failed", log.Err(err))
			writeEndpointError(logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func receivedMessageHandler(logger log.Logger, endpoint Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg, err := endpoint.ReceivedMessage(r.Context())
		if err != nil {
			writeEndpointError(logger, w, err)
			return
		}
		writeJSON(logger, w, ReceivedMessageResponse{
			SourceChain:   string(msg.SourceChain),
			SourceAddress: string(msg.SourceAddress),
			Payload:       hexutil.Encode(msg.Payload),
		})
	})
}

func configHandler(logger log.Logger, endpoint Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gateway, err := endpoint.GatewayAddress(r.Context())
		if err != nil {
			writeEndpointError(logger, w, err)
			return
		}
		gasService, err := endpoint.GasReceiverAddress(r.Context())
		if err != nil {
			writeEndpointError(logger, w, err)
			return
		}
		writeJSON(logger, w, ConfigResponse{
			GatewayAddress:    gateway.Hex(),
			GasServiceAddress: gasService.Hex(),
		})
	})
}
