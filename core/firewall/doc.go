// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package firewall holds the provider-neutral model of the rules used to
// block addresses: the network-layer firewall rule that accumulates blocked
// source ranges, and the application-layer ingress rules that are appended
// one per blocked address.
//
// Nothing in here talks to a cloud API; the provider packages convert to and
// from these values.
package firewall
