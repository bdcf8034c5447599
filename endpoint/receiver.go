// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package endpoint

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/luxfi/xcall"
	"github.com/luxfi/xcall/metrics"
)

var errNilMessage = errors.New("received message is nil")

// Receive records msg as the last received message, replacing the previous
// one. The message content is not validated; the gateway is trusted to have
// done so, and its size is not bounded. Callers are only checked when trusted
// gateways are configured.
func (e *Endpoint) Receive(ctx context.Context, caller common.Address, msg *xcall.ReceivedMessage) error {
	if msg == nil {
		return errNilMessage
	}
	if e.trustedGateways.Len() > 0 && !e.trustedGateways.Contains(caller) {
		e.metrics.RejectedReceiveCount.Inc()
		return fmt.Errorf("%w: %s", xcall.ErrUnauthorizedCaller, caller)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.store.SetReceivedMessage(ctx, msg.Copy()); err != nil {
		return err
	}

	e.metrics.ReceiveCount.WithLabelValues(metrics.ChainLabel(msg.SourceChain)).Inc()
	e.log.Debug("received message",
		log.String("sourceChain", metrics.ChainLabel(msg.SourceChain)),
		log.Stringer("caller", caller),
	)
	return nil
}
