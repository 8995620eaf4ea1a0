// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the collaborator configuration structs consumed by
// Reactor.New: network, API server, and storage. None of these are loaded
// from disk by this package — on-disk config loading is an external
// collaborator's concern (see spec.md §1) — but each carries the
// validation and sensible-default conventions used throughout the reactor.
package config

import (
	"errors"
	"time"
)

var (
	// ErrNoListenAddrs is returned when a NetworkConfig names no listen
	// address at all.
	ErrNoListenAddrs = errors.New("network config: at least one listen address is required")
	// ErrInvalidPeerLimit is returned when MaxPeers is not positive.
	ErrInvalidPeerLimit = errors.New("network config: max peers must be >= 1")
	// ErrNoAPIListenAddr is returned when an APIConfig names no listen
	// address.
	ErrNoAPIListenAddr = errors.New("api config: listen address is required")
	// ErrNoStoragePath is returned when a StorageConfig names no path.
	ErrNoStoragePath = errors.New("storage config: path is required")
)

// NetworkConfig configures the small-network collaborator: listening
// address(es), peer limits, and the TLS identity used to authenticate this
// node to its peers.
type NetworkConfig struct {
	// ListenAddrs are the addresses the network collaborator listens on.
	ListenAddrs []string
	// MaxPeers bounds the number of simultaneously connected peers.
	MaxPeers int
	// TLSIdentityPath points at the node's TLS certificate/key pair used to
	// authenticate to peers. Loading and validating the certificate itself
	// is the network collaborator's concern, not this package's.
	TLSIdentityPath string
	// HandshakeTimeout is the time limit for a peer connection attempt.
	// network.Component does not read it: Connect records a peer at once,
	// with no handshake that could be timed out.
	HandshakeTimeout time.Duration
}

// Validate checks NetworkConfig invariants the reactor relies on before
// constructing the network collaborator.
func (c NetworkConfig) Validate() error {
	if len(c.ListenAddrs) == 0 {
		return ErrNoListenAddrs
	}
	if c.MaxPeers < 1 {
		return ErrInvalidPeerLimit
	}
	return nil
}

// DefaultNetworkConfig returns sensible defaults for local development.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ListenAddrs:      []string{"0.0.0.0:9651"},
		MaxPeers:         128,
		HandshakeTimeout: 10 * time.Second,
	}
}

// APIConfig configures the API-server collaborator: listening address and
// request limits.
type APIConfig struct {
	// ListenAddr is the address the API collaborator's HTTP listener binds.
	ListenAddr string
	// MaxRequestBytes bounds the size of an inbound request body.
	MaxRequestBytes int64
	// RequestTimeout bounds how long a single request may take end to end.
	RequestTimeout time.Duration
}

// Validate checks APIConfig invariants the reactor relies on before
// constructing the API collaborator.
func (c APIConfig) Validate() error {
	if c.ListenAddr == "" {
		return ErrNoAPIListenAddr
	}
	return nil
}

// DefaultAPIConfig returns sensible defaults for local development.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		ListenAddr:      "127.0.0.1:9650",
		MaxRequestBytes: 1 << 20, // 1 MiB
		RequestTimeout:  30 * time.Second,
	}
}

// Deps bundles the three collaborator configs the validator reactor needs
// to construct itself, the same "one struct per set of sibling
// dependencies" shape the teacher uses to hand a runtime its logger,
// metrics gatherer, and chain-lookup collaborators together.
type Deps struct {
	Network NetworkConfig
	API     APIConfig
	Storage StorageConfig
}

// Validate checks every embedded config in turn, returning the first
// failure.
func (d Deps) Validate() error {
	if err := d.Network.Validate(); err != nil {
		return err
	}
	if err := d.API.Validate(); err != nil {
		return err
	}
	if err := d.Storage.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultDeps returns Deps built from each collaborator's own defaults.
func DefaultDeps() Deps {
	return Deps{
		Network: DefaultNetworkConfig(),
		API:     DefaultAPIConfig(),
		Storage: DefaultStorageConfig(),
	}
}
