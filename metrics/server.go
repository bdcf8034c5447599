// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistries creates a shared registry and one registerer per prefix,
// each registering its metrics under "<prefix>_".
func NewRegistries(prefixes []string) (*prometheus.Registry, map[string]prometheus.Registerer) {
	registry := prometheus.NewRegistry()
	registerers := make(map[string]prometheus.Registerer, len(prefixes))
	for _, prefix := range prefixes {
		registerers[prefix] = prometheus.WrapRegistererWithPrefix(prefix+"_", registry)
	}
	return registry, registerers
}

// Serve exposes gatherer on /metrics at port until ctx is done.
func Serve(ctx context.Context, logger log.Logger, port uint16, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("starting metrics server", log.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}
