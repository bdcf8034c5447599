// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xcall holds the records exchanged by a cross-chain call endpoint:
// outbound dispatch requests and the inbound message it keeps.
package xcall

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

const CodecVersion = 0

// DispatchRequest is one outbound call: a destination descriptor, the
// application payload and the native payment attached by the caller.
// It is never persisted.
type DispatchRequest struct {
	DestinationChain   []byte
	DestinationAddress []byte
	Payload            []byte
	Payment            *uint256.Int
	Caller             common.Address
}

// NewDispatchRequest copies the opaque byte strings so later mutation by the
// caller cannot leak into an in-flight dispatch.
func NewDispatchRequest(
	destinationChain, destinationAddress, payload []byte,
	payment *uint256.Int,
	caller common.Address,
) *DispatchRequest {
	req := &DispatchRequest{
		DestinationChain:   common.CopyBytes(destinationChain),
		DestinationAddress: common.CopyBytes(destinationAddress),
		Payload:            common.CopyBytes(payload),
		Caller:             caller,
	}
	if payment != nil {
		req.Payment = new(uint256.Int).Set(payment)
	}
	return req
}

// HasPayment reports whether the attached payment is strictly positive.
func (r *DispatchRequest) HasPayment() bool {
	return r.Payment != nil && !r.Payment.IsZero()
}

// PaymentOrZero never returns nil.
func (r *DispatchRequest) PaymentOrZero() *uint256.Int {
	if r.Payment == nil {
		return new(uint256.Int)
	}
	return r.Payment
}

// dispatchRecord is the RLP layout hashed into a dispatch ID
type dispatchRecord struct {
	DestinationChain   []byte
	DestinationAddress []byte
	Payload            []byte
	Payment            *uint256.Int
	Caller             common.Address
}

// ID returns the hash of the request. It is used to correlate log lines and
// metrics of one dispatch; it is not a replay guard.
func (r *DispatchRequest) ID() ids.ID {
	b, err := Codec.Marshal(CodecVersion, &dispatchRecord{
		DestinationChain:   r.DestinationChain,
		DestinationAddress: r.DestinationAddress,
		Payload:            r.Payload,
		Payment:            r.PaymentOrZero(),
		Caller:             r.Caller,
	})
	if err != nil {
		return ids.Empty
	}
	return ids.ID(ComputeHash256Array(b))
}

// ReceivedMessage is the inbound message recorded by the endpoint. Only the
// latest one is kept.
type ReceivedMessage struct {
	SourceChain   []byte
	SourceAddress []byte
	Payload       []byte
}

// NewReceivedMessage creates a received message from copies of the given
// byte strings.
func NewReceivedMessage(sourceChain, sourceAddress, payload []byte) *ReceivedMessage {
	return &ReceivedMessage{
		SourceChain:   common.CopyBytes(sourceChain),
		SourceAddress: common.CopyBytes(sourceAddress),
		Payload:       common.CopyBytes(payload),
	}
}

// Bytes returns the persisted representation of the message. The size of
// the message is not bounded.
func (m *ReceivedMessage) Bytes() ([]byte, error) {
	b, err := Codec.Marshal(CodecVersion, m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal received message: %w", err)
	}
	return b, nil
}

// Copy returns a deep copy of the message
func (m *ReceivedMessage) Copy() *ReceivedMessage {
	return NewReceivedMessage(m.SourceChain, m.SourceAddress, m.Payload)
}

// Equal returns true if two messages are equal
func (m *ReceivedMessage) Equal(other *ReceivedMessage) bool {
	if m == nil || other == nil {
		return m == other
	}
	return bytes.Equal(m.SourceChain, other.SourceChain) &&
		bytes.Equal(m.SourceAddress, other.SourceAddress) &&
		bytes.Equal(m.Payload, other.Payload)
}

// ParseReceivedMessage parses a message from its persisted representation
func ParseReceivedMessage(b []byte) (*ReceivedMessage, error) {
	msg := &ReceivedMessage{}
	if _, err := Codec.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal received message: %w", err)
	}
	return msg, nil
}
