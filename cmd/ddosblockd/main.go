// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command ddosblockd serves the block endpoint, adding the addresses it is
// sent to the project's firewall.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/api/option"

	"github.com/juju/ddosblock/internal/apiserver"
	"github.com/juju/ddosblock/internal/blocker"
	"github.com/juju/ddosblock/internal/config"
	"github.com/juju/ddosblock/internal/provider/google"
)

var logger = loggo.GetLogger("ddosblock.cmd.ddosblockd")

const (
	// exitErr is returned when the service fails.
	exitErr = 1
	// exitUsage is returned when the command line is invalid.
	exitUsage = 2
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	configFile    string
	listen        string
	loggingConfig string
}

func parseArgs(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := gnuflag.NewFlagSet("ddosblockd", gnuflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&f.listen, "listen", "", "address to listen on, overriding the config")
	fs.StringVar(&f.loggingConfig, "logging-config", "", "logging levels, overriding the config")
	if err := fs.Parse(true, args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, errors.Errorf("unrecognized args: %q", fs.Args())
	}
	return f, nil
}

// loadConfig reads the config named by f and applies the flag overrides.
func loadConfig(f flags) (*config.Config, error) {
	cfg, err := config.Read(f.configFile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if f.listen != "" {
		cfg.ListenAddress = f.listen
	}
	if f.loggingConfig != "" {
		cfg.LoggingConfig = f.loggingConfig
	}
	return cfg, errors.Trace(cfg.Validate())
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	f, err := parseArgs(args, stderr)
	if err == gnuflag.ErrHelp {
		return 0
	} else if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}
	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}
	if err := loggo.ConfigureLoggers(cfg.LoggingConfig); err != nil {
		fmt.Fprintf(stderr, "ERROR invalid logging config %q: %v\n", cfg.LoggingConfig, err)
		return exitUsage
	}
	if err := serve(ctx, cfg); err != nil {
		logger.Errorf("%v", err)
		return exitErr
	}
	return 0
}

// newBlocker connects to the project's admin APIs and returns a Blocker
// using them.
func newBlocker(ctx context.Context, cfg *config.Config) (*blocker.Blocker, string, error) {
	creds, err := google.Credentials(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, "", errors.Trace(err)
	}
	projectID, err := google.ProjectID(cfg.ProjectID, creds)
	if err != nil {
		return nil, "", errors.Trace(err)
	}
	conn, err := google.Connect(ctx, google.ConnectionConfig{
		ProjectID: projectID,
		Clock:     clock.WallClock,
		Options:   []option.ClientOption{option.WithCredentials(creds)},
	})
	if err != nil {
		return nil, "", errors.Trace(err)
	}

	blockerConfig := blockerConfig(cfg)
	blockerConfig.Firewalls = conn
	blockerConfig.Ingress = conn
	b, err := blocker.New(blockerConfig)
	if err != nil {
		return nil, "", errors.Trace(err)
	}
	return b, conn.ProjectID(), nil
}

func blockerConfig(cfg *config.Config) blocker.Config {
	config := blocker.DefaultConfig()
	config.Clock = clock.WallClock
	config.Logger = loggo.GetLogger("ddosblock.blocker")
	config.RuleName = cfg.RuleName
	config.Network = cfg.Network
	config.RuleDescription = cfg.RuleDescription
	config.IngressDescription = cfg.IngressDescription
	config.PriorityPolicy = cfg.IngressPriority
	config.NormalizeSourceRanges = cfg.NormalizeSourceRanges
	config.Retry = blocker.RetryStrategy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
		MaxDelay: cfg.RetryMaxDelay,
	}
	return config
}

func serve(ctx context.Context, cfg *config.Config) error {
	b, projectID, err := newBlocker(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}

	metrics := apiserver.NewMetricsCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		metrics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := apiserver.NewServer(apiserver.Config{
		Blocker:       b,
		Metrics:       metrics,
		Gatherer:      registry,
		Clock:         clock.WallClock,
		ListenAddress: cfg.ListenAddress,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
	})
	if err != nil {
		return errors.Trace(err)
	}

	served := make(chan error, 1)
	go func() {
		served <- srv.ListenAndServe()
	}()
	logger.Infof("blocking for project %q on %s", projectID, cfg.ListenAddress)

	select {
	case err := <-served:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Annotate(err, "serving")
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Annotate(srv.Shutdown(shutdownCtx), "shutting down")
}
