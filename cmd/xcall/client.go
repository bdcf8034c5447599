// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luxfi/xcall/api"
	"github.com/spf13/cobra"
)

const (
	apiURLFlag     = "api-url"
	defaultAPIURL  = "http://localhost:8080"
	requestTimeout = 2 * time.Minute
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Send a contract call to another chain",
	Long:  `Pay the gas service and hand a contract call to the gateway through a running endpoint.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		req := api.DispatchRequest{}
		req.DestinationChain, _ = flags.GetString("destination-chain")
		req.DestinationAddress, _ = flags.GetString("destination-address")
		req.Payload, _ = flags.GetString("payload")
		req.Payment, _ = flags.GetString("payment")
		req.Caller, _ = flags.GetString("caller")

		var resp api.DispatchResponse
		if err := call(cmd, http.MethodPost, api.DispatchPath, req, &resp); err != nil {
			return err
		}
		fmt.Printf("Dispatched: %s\n", resp.DispatchID)
		return nil
	},
}

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Deliver a message from another chain",
	Long:  `Deliver a message to a running endpoint as the gateway would.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		req := api.ExecuteRequest{}
		req.Caller, _ = flags.GetString("caller")
		req.SourceChain, _ = flags.GetString("source-chain")
		req.SourceAddress, _ = flags.GetString("source-address")
		req.Payload, _ = flags.GetString("payload")

		if err := call(cmd, http.MethodPost, api.ExecutePath, req, nil); err != nil {
			return err
		}
		fmt.Println("Message delivered")
		return nil
	},
}

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Show the last received message",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var resp api.ReceivedMessageResponse
		if err := call(cmd, http.MethodGet, api.ReceivedMessagePath, nil, &resp); err != nil {
			return err
		}
		fmt.Printf("Last received message:\n")
		fmt.Printf("  Source Chain: %s\n", resp.SourceChain)
		fmt.Printf("  Source Address: %s\n", resp.SourceAddress)
		fmt.Printf("  Payload: %s\n", resp.Payload)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{dispatchCmd, receiveCmd, messageCmd} {
		cmd.Flags().String(apiURLFlag, defaultAPIURL, "URL of the endpoint API")
	}

	dispatchCmd.Flags().String("destination-chain", "", "Destination chain name")
	dispatchCmd.Flags().String("destination-address", "", "Destination contract address")
	dispatchCmd.Flags().String("payload", "", "Payload (hex)")
	dispatchCmd.Flags().String("payment", "", "Gas payment, decimal or 0x prefixed hex")
	dispatchCmd.Flags().String("caller", "", "Account refunded if the call cannot be handed over")
	_ = dispatchCmd.MarkFlagRequired("destination-chain")
	_ = dispatchCmd.MarkFlagRequired("destination-address")
	_ = dispatchCmd.MarkFlagRequired("caller")

	receiveCmd.Flags().String("caller", "", "Gateway delivering the message")
	receiveCmd.Flags().String("source-chain", "", "Source chain name")
	receiveCmd.Flags().String("source-address", "", "Source contract address")
	receiveCmd.Flags().String("payload", "", "Payload (hex)")
	_ = receiveCmd.MarkFlagRequired("caller")
}

// call sends body to the endpoint API and decodes the response into out,
// unless out is nil.
func call(cmd *cobra.Command, method, path string, body, out interface{}) error {
	apiURL, err := cmd.Flags().GetString(apiURLFlag)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimSuffix(apiURL, "/")+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("endpoint returned %s", resp.Status)
		}
		return fmt.Errorf("endpoint returned %s: %s", resp.Status, errResp.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
