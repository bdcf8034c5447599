// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package endpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/metrics"
	"go.uber.org/multierr"
)

// Dispatch pays the gas service with the attached payment and then hands the
// call to the gateway, in that order.
//
// Either both calls succeed or the dispatch has no lasting effect: a gateway
// failure after a successful gas payment is compensated by refunding the
// payment to req.Caller. If that refund fails too, the returned error wraps
// both xcall.ErrExternalCall and xcall.ErrRefundFailed.
func (e *Endpoint) Dispatch(ctx context.Context, req *xcall.DispatchRequest) error {
	chainLabel := metrics.ChainLabel(req.DestinationChain)
	if !req.HasPayment() {
		e.metrics.DispatchCount.WithLabelValues(chainLabel, metrics.OutcomeInvalidPayment).Inc()
		return xcall.ErrInvalidPayment
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	startTime := time.Now()
	dispatchID := req.ID()

	gasService, gateway, err := e.bind(ctx)
	if err != nil {
		e.metrics.DispatchCount.WithLabelValues(chainLabel, metrics.OutcomeConfigFailed).Inc()
		return err
	}

	receipt, err := gasService.PayNativeGasForContractCall(
		ctx,
		req.DestinationChain,
		req.DestinationAddress,
		req.Payload,
		req.Caller,
		req.Payment,
	)
	if err != nil {
		e.log.Warn("gas payment failed",
			log.Stringer("dispatchID", dispatchID),
			log.Err(err),
		)
		e.metrics.DispatchCount.WithLabelValues(chainLabel, metrics.OutcomeGasFailed).Inc()
		return fmt.Errorf("%w: gas service: %w", xcall.ErrExternalCall, err)
	}

	if err := gateway.CallContract(ctx, req.DestinationChain, req.DestinationAddress, req.Payload); err != nil {
		e.log.Warn("gateway call failed, refunding gas payment",
			log.Stringer("dispatchID", dispatchID),
			log.Stringer("txHash", receipt.TxHash),
			log.Err(err),
		)
		e.metrics.DispatchCount.WithLabelValues(chainLabel, metrics.OutcomeGatewayFailed).Inc()
		callErr := fmt.Errorf("%w: gateway: %w", xcall.ErrExternalCall, err)
		return multierr.Append(callErr, e.refund(ctx, chainLabel, dispatchID.String(), gasService, receipt))
	}

	e.metrics.DispatchCount.WithLabelValues(chainLabel, metrics.OutcomeSuccess).Inc()
	e.metrics.DispatchLatencyMS.WithLabelValues(chainLabel).Observe(float64(time.Since(startTime).Milliseconds()))
	e.log.Debug("dispatched contract call",
		log.Stringer("dispatchID", dispatchID),
		log.Stringer("caller", req.Caller),
		log.Stringer("payment", req.Payment),
	)
	return nil
}

// bind resolves both proxies before any external call is issued, so a
// configuration problem never leaves a payment behind.
func (e *Endpoint) bind(ctx context.Context) (GasService, Gateway, error) {
	gasAddress, err := e.store.GasReceiverAddress(ctx)
	if err != nil {
		return nil, nil, err
	}
	gatewayAddress, err := e.store.GatewayAddress(ctx)
	if err != nil {
		return nil, nil, err
	}
	gasService, err := e.contracts.GasService(gasAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind gas service at %s: %w", gasAddress, err)
	}
	gateway, err := e.contracts.Gateway(gatewayAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind gateway at %s: %w", gatewayAddress, err)
	}
	return gasService, gateway, nil
}

// refund undoes a gas payment whose gateway call failed. The caller's context
// may already be cancelled at this point; the refund must still be attempted.
func (e *Endpoint) refund(
	ctx context.Context,
	chainLabel string,
	dispatchID string,
	gasService GasService,
	receipt *GasReceipt,
) error {
	if err := gasService.Refund(context.WithoutCancel(ctx), receipt); err != nil {
		e.log.Error("gas payment could not be refunded",
			log.String("dispatchID", dispatchID),
			log.Stringer("txHash", receipt.TxHash),
			log.Stringer("refundAddress", receipt.RefundAddress),
			log.Err(err),
		)
		e.metrics.RefundCount.WithLabelValues(chainLabel, "failed").Inc()
		return fmt.Errorf("%w: %w", xcall.ErrRefundFailed, err)
	}
	e.metrics.RefundCount.WithLabelValues(chainLabel, "refunded").Inc()
	return nil
}
