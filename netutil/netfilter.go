// Package netutil hardens the outbound network paths of the host: SSRF
// validation and DNS pinning for blob fetches, retrying transport, response
// size limiting, URL hygiene, and TLS defaults.
package netutil

import (
	"net"
	"strings"
)

// ValidationResult is the outcome of an address validation.
type ValidationResult struct {
	Allowed bool
	Reason  string
}

type netfilterConfig struct {
	resolveDNS     bool
	blockPrivate   bool
	blockLocalhost bool
}

func defaultNetfilterConfig() netfilterConfig {
	return netfilterConfig{
		resolveDNS:     true,
		blockPrivate:   true,
		blockLocalhost: true,
	}
}

// NetfilterOption configures ValidateAddress.
type NetfilterOption func(*netfilterConfig)

// WithResolveDNS controls whether hostnames are resolved before validation.
// Callers that pin DNS themselves pass false and validate the resolved IP.
func WithResolveDNS(resolve bool) NetfilterOption {
	return func(c *netfilterConfig) {
		c.resolveDNS = resolve
	}
}

// WithBlockPrivate controls whether private and reserved ranges are blocked.
func WithBlockPrivate(block bool) NetfilterOption {
	return func(c *netfilterConfig) {
		c.blockPrivate = block
	}
}

// WithBlockLocalhost controls whether loopback addresses are blocked.
func WithBlockLocalhost(block bool) NetfilterOption {
	return func(c *netfilterConfig) {
		c.blockLocalhost = block
	}
}

// ValidateAddress checks a host, host:port, or IP against SSRF rules.
// Hostnames that cannot be resolved (or with DNS resolution disabled) pass
// validation; the dialer validates the pinned IP separately.
func ValidateAddress(addr string, opts ...NetfilterOption) ValidationResult {
	cfg := defaultNetfilterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	if cfg.blockLocalhost && strings.EqualFold(host, "localhost") {
		return ValidationResult{Reason: "localhost is blocked"}
	}

	ip := net.ParseIP(host)
	if ip == nil {
		if !cfg.resolveDNS {
			return ValidationResult{Allowed: true}
		}
		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			return ValidationResult{Reason: "hostname did not resolve"}
		}
		ip = ips[0]
	}

	return validateIP(ip, cfg)
}

func validateIP(ip net.IP, cfg netfilterConfig) ValidationResult {
	if cfg.blockLocalhost && ip.IsLoopback() {
		return ValidationResult{Reason: "loopback address is blocked"}
	}

	if cfg.blockPrivate {
		switch {
		case ip.IsUnspecified():
			return ValidationResult{Reason: "unspecified address is blocked"}
		case ip.IsPrivate():
			return ValidationResult{Reason: "private address is blocked"}
		case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
			return ValidationResult{Reason: "link-local address is blocked"}
		}
	}

	return ValidationResult{Allowed: true}
}
