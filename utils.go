// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package xcall

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// KiB is 1024 bytes
const KiB = 1024

// ComputeHash256Array computes SHA256 hash
func ComputeHash256Array(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// SanitizeHexString strips an optional 0x prefix
func SanitizeHexString(hexStr string) string {
	return strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
}

// DecodeHex decodes a hex string, with or without a 0x prefix
func DecodeHex(hexStr string) ([]byte, error) {
	return hex.DecodeString(SanitizeHexString(hexStr))
}

// ParseAddress parses a hex encoded 20 byte address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a native amount given in decimal or 0x prefixed hex
func ParseAmount(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		amount, err := uint256.FromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return amount, nil
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
