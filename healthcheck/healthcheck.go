// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
)

const (
	HealthPath = "/health"

	checkTimeout = 5 * time.Second
)

func HandleHealthCheckRequest(mux *http.ServeMux, checkFunc func(context.Context) error) {
	healthChecker := health.NewChecker(
		health.WithCheck(health.Check{
			Name:    "xcall-state",
			Timeout: checkTimeout,
			Check:   checkFunc,
		}),
	)

	mux.Handle(HealthPath, health.NewHandler(healthChecker))
}
