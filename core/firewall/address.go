// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package firewall

import (
	"net"
	"strings"

	"github.com/juju/errors"
)

// IPv4MappedPrefix starts the textual form of an IPv4-mapped IPv6 address,
// as reported for IPv4 clients by dual-stack listeners.
const IPv4MappedPrefix = "::ffff:"

// HostCIDR returns the single-host IPv4 range for ip. The address is not
// inspected; callers validate it first.
func HostCIDR(ip string) string {
	return ip + "/32"
}

// IngressSourceRange returns the source range used in an ingress rule for
// ip. An IPv4-mapped address has its prefix removed and becomes a /32.
// Anything else is returned as given, unless normalize is set, in which case
// a bare address gets a /32 (IPv4) or /128 (IPv6) prefix length.
func IngressSourceRange(ip string, normalize bool) string {
	if strings.HasPrefix(ip, IPv4MappedPrefix) {
		return HostCIDR(strings.TrimPrefix(ip, IPv4MappedPrefix))
	}
	if !normalize || strings.Contains(ip, "/") {
		return ip
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if parsed.To4() != nil {
		return HostCIDR(ip)
	}
	return ip + "/128"
}

// ValidateAddress checks that ip is an IP address, optionally with a prefix
// length.
func ValidateAddress(ip string) error {
	if ip == "" {
		return errors.NotValidf("empty IP address")
	}
	if strings.Contains(ip, "/") {
		if _, _, err := net.ParseCIDR(ip); err != nil {
			return errors.NotValidf("IP address %q", ip)
		}
		return nil
	}
	if net.ParseIP(ip) == nil {
		return errors.NotValidf("IP address %q", ip)
	}
	return nil
}

// ValidateHostAddress checks that ip is a single IPv4 address, or an
// IPv4-mapped IPv6 address, without a prefix length.
func ValidateHostAddress(ip string) error {
	if err := ValidateAddress(ip); err != nil {
		return errors.Trace(err)
	}
	if strings.Contains(ip, "/") {
		return errors.NotValidf("prefix length in host address %q", ip)
	}
	if net.ParseIP(ip).To4() == nil {
		return errors.NotValidf("non IPv4 host address %q", ip)
	}
	return nil
}

// ValidateIngressAddress checks that ip is an IP address or range, and that
// an IPv4-mapped address is a single IPv4 host.
func ValidateIngressAddress(ip string) error {
	if err := ValidateAddress(ip); err != nil {
		return errors.Trace(err)
	}
	if !strings.HasPrefix(ip, IPv4MappedPrefix) {
		return nil
	}
	mapped := strings.TrimPrefix(ip, IPv4MappedPrefix)
	if strings.Contains(mapped, "/") || net.ParseIP(mapped).To4() == nil {
		return errors.NotValidf("IPv4-mapped address %q", ip)
	}
	return nil
}
