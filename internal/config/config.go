// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config reads the settings of the blocking service from an
// optional YAML file and the environment.
package config

import (
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v2"

	"github.com/juju/ddosblock/core/firewall"
)

const (
	ListenAddressKey         = "listen-address"
	ProjectKey               = "project"
	CredentialsFileKey       = "credentials-file"
	RuleNameKey              = "rule-name"
	NetworkKey               = "network"
	RuleDescriptionKey       = "rule-description"
	IngressDescriptionKey    = "ingress-description"
	IngressPriorityKey       = "ingress-priority"
	NormalizeSourceRangesKey = "normalize-source-ranges"
	RetryAttemptsKey         = "retry-attempts"
	RetryDelayKey            = "retry-delay"
	RetryMaxDelayKey         = "retry-max-delay"
	ReadTimeoutKey           = "read-timeout"
	WriteTimeoutKey          = "write-timeout"
	LoggingConfigKey         = "logging-config"
)

// Environment variables read by FromEnvironment.
const (
	// PortEnvVar is set by the serverless platforms to the port to listen on.
	PortEnvVar = "PORT"

	// CredentialsEnvVar names a service account key file.
	CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"

	// ProjectEnvVar names the project to manage.
	ProjectEnvVar = "GCLOUD_PROJECT"
)

var configFields = schema.Fields{
	ListenAddressKey:         schema.String(),
	ProjectKey:               schema.String(),
	CredentialsFileKey:       schema.String(),
	RuleNameKey:              schema.String(),
	NetworkKey:               schema.String(),
	RuleDescriptionKey:       schema.String(),
	IngressDescriptionKey:    schema.String(),
	IngressPriorityKey:       schema.OneOf(schema.Const(string(firewall.PriorityPositional)), schema.Const(string(firewall.PriorityMax))),
	NormalizeSourceRangesKey: schema.Bool(),
	RetryAttemptsKey:         schema.ForceInt(),
	RetryDelayKey:            schema.TimeDuration(),
	RetryMaxDelayKey:         schema.TimeDuration(),
	ReadTimeoutKey:           schema.TimeDuration(),
	WriteTimeoutKey:          schema.TimeDuration(),
	LoggingConfigKey:         schema.String(),
}

var configDefaults = schema.Defaults{
	ListenAddressKey:         ":8080",
	ProjectKey:               "",
	CredentialsFileKey:       "",
	RuleNameKey:              firewall.DefaultRuleName,
	NetworkKey:               firewall.DefaultNetwork,
	RuleDescriptionKey:       firewall.DefaultRuleDescription,
	IngressDescriptionKey:    firewall.DefaultIngressDescription,
	IngressPriorityKey:       string(firewall.PriorityPositional),
	NormalizeSourceRangesKey: false,
	RetryAttemptsKey:         5,
	RetryDelayKey:            "2s",
	RetryMaxDelayKey:         "10s",
	ReadTimeoutKey:           "30s",
	WriteTimeoutKey:          "5m",
	LoggingConfigKey:         "<root>=INFO",
}

// Config holds the validated settings of the service.
type Config struct {
	ListenAddress   string
	ProjectID       string
	CredentialsFile string

	RuleName              string
	Network               string
	RuleDescription       string
	IngressDescription    string
	IngressPriority       firewall.PriorityPolicy
	NormalizeSourceRanges bool

	RetryAttempts int
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	LoggingConfig string
}

// New validates attrs, fills in defaults for the missing keys and returns
// the resulting Config. Unknown keys are rejected.
func New(attrs map[string]interface{}) (*Config, error) {
	for key := range attrs {
		if _, ok := configFields[key]; !ok {
			return nil, errors.NotValidf("unknown config key %q", key)
		}
	}
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	coerced, err := schema.FieldMap(configFields, configDefaults).Coerce(attrs, nil)
	if err != nil {
		return nil, errors.NewNotValid(err, "invalid config")
	}
	v := coerced.(map[string]interface{})

	cfg := &Config{
		ListenAddress:         v[ListenAddressKey].(string),
		ProjectID:             v[ProjectKey].(string),
		CredentialsFile:       v[CredentialsFileKey].(string),
		RuleName:              v[RuleNameKey].(string),
		Network:               v[NetworkKey].(string),
		RuleDescription:       v[RuleDescriptionKey].(string),
		IngressDescription:    v[IngressDescriptionKey].(string),
		IngressPriority:       firewall.PriorityPolicy(v[IngressPriorityKey].(string)),
		NormalizeSourceRanges: v[NormalizeSourceRangesKey].(bool),
		RetryAttempts:         v[RetryAttemptsKey].(int),
		RetryDelay:            v[RetryDelayKey].(time.Duration),
		RetryMaxDelay:         v[RetryMaxDelayKey].(time.Duration),
		ReadTimeout:           v[ReadTimeoutKey].(time.Duration),
		WriteTimeout:          v[WriteTimeoutKey].(time.Duration),
		LoggingConfig:         v[LoggingConfigKey].(string),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

// Validate checks the values that the schema cannot.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return errors.NotValidf("empty %s", ListenAddressKey)
	}
	if c.RuleName == "" {
		return errors.NotValidf("empty %s", RuleNameKey)
	}
	if c.Network == "" {
		return errors.NotValidf("empty %s", NetworkKey)
	}
	if c.RetryAttempts < 1 {
		return errors.NotValidf("%s %d", RetryAttemptsKey, c.RetryAttempts)
	}
	if c.RetryDelay <= 0 {
		return errors.NotValidf("%s %v", RetryDelayKey, c.RetryDelay)
	}
	if c.RetryMaxDelay < c.RetryDelay {
		return errors.NotValidf("%s %v less than %s %v", RetryMaxDelayKey, c.RetryMaxDelay, RetryDelayKey, c.RetryDelay)
	}
	return nil
}

// Read loads the YAML file at path, overlays the environment and returns
// the resulting Config. An empty path reads the environment only.
func Read(path string) (*Config, error) {
	attrs := map[string]interface{}{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Annotatef(err, "reading config file %q", path)
		}
		if err := yaml.Unmarshal(data, &attrs); err != nil {
			return nil, errors.Annotatef(err, "parsing config file %q", path)
		}
	}
	for key, value := range FromEnvironment() {
		attrs[key] = value
	}
	cfg, err := New(attrs)
	if err != nil {
		return nil, errors.Annotatef(err, "loading config")
	}
	return cfg, nil
}

// FromEnvironment returns the config attributes set through environment
// variables.
func FromEnvironment() map[string]interface{} {
	attrs := map[string]interface{}{}
	if port := os.Getenv(PortEnvVar); port != "" {
		attrs[ListenAddressKey] = ":" + port
	}
	if creds := os.Getenv(CredentialsEnvVar); creds != "" {
		attrs[CredentialsFileKey] = creds
	}
	if project := os.Getenv(ProjectEnvVar); project != "" {
		attrs[ProjectKey] = project
	}
	return attrs
}
