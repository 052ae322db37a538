// Copyright 2014 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"google.golang.org/api/appengine/v1"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
)

// ConnectionConfig holds what is needed to connect to the Google APIs.
type ConnectionConfig struct {
	// ProjectID is the project whose firewall is managed. It is also the
	// App Engine application id.
	ProjectID string

	// Clock is used while waiting for compute operations to finish.
	Clock clock.Clock

	// Options are passed to every API client, typically the credentials.
	Options []option.ClientOption
}

// Validate returns an error if the config cannot be used to connect.
func (cfg ConnectionConfig) Validate() error {
	if cfg.ProjectID == "" {
		return errors.NotValidf("empty ProjectID")
	}
	if cfg.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Connection provides methods for interacting with the Compute Engine
// firewall and the App Engine ingress firewall of a single project. The
// methods are limited to those needed to block addresses.
type Connection struct {
	compute   *compute.Service
	appengine *appengine.APIService

	projectID string
	clock     clock.Clock
}

// Connect opens connections to the Compute Engine and App Engine admin
// APIs. No request is made until a method is called.
func Connect(ctx context.Context, cfg ConnectionConfig) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	computeService, err := compute.NewService(ctx, cfg.Options...)
	if err != nil {
		return nil, errors.Annotate(err, "connecting to compute API")
	}
	appengineService, err := appengine.NewService(ctx, cfg.Options...)
	if err != nil {
		return nil, errors.Annotate(err, "connecting to appengine API")
	}
	return &Connection{
		compute:   computeService,
		appengine: appengineService,
		projectID: cfg.ProjectID,
		clock:     cfg.Clock,
	}, nil
}

// ProjectID returns the project the connection manages.
func (c *Connection) ProjectID() string {
	return c.projectID
}
