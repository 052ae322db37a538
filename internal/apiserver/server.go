// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package apiserver serves the block endpoint and the metrics of the
// service over HTTP.
package apiserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = loggo.GetLogger("ddosblock.apiserver")

// Paths the block handler is served on.
const (
	RootPath  = "/"
	BlockPath = "/ddosblock"

	MetricsPath = "/metrics"
)

// Config holds the dependencies of the HTTP server.
type Config struct {
	Blocker Blocker
	Metrics *Collector

	// Gatherer is served on MetricsPath.
	Gatherer prometheus.Gatherer

	Clock clock.Clock

	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Validate returns an error if the config cannot be used to make a server.
func (config Config) Validate() error {
	if config.Blocker == nil {
		return errors.NotValidf("nil Blocker")
	}
	if config.Metrics == nil {
		return errors.NotValidf("nil Metrics")
	}
	if config.Gatherer == nil {
		return errors.NotValidf("nil Gatherer")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.ListenAddress == "" {
		return errors.NotValidf("empty ListenAddress")
	}
	return nil
}

// NewRouter returns the handler for every route of the service.
func NewRouter(config Config) http.Handler {
	block := NewBlockHandler(config.Blocker, config.Metrics, config.Clock)

	router := mux.NewRouter()
	router.Handle(RootPath, block).Methods(http.MethodPost)
	router.Handle(BlockPath, block).Methods(http.MethodPost)
	router.Handle(MetricsPath, promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// NewServer returns an http.Server for the service. The caller starts it.
func NewServer(config Config) (*http.Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &http.Server{
		Addr:         config.ListenAddress,
		Handler:      NewRouter(config),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}, nil
}
