// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"

	"github.com/luxfi/log"
)

const (
	// DefaultMaxBlockStoreSize defaults to 450 GiB, mirroring the reactor's
	// original on-disk sizing convention.
	DefaultMaxBlockStoreSize uint64 = 483_183_820_800
	// DefaultMaxDeployStoreSize defaults to 300 GiB.
	DefaultMaxDeployStoreSize uint64 = 322_122_547_200

	// osPageSize is assumed rather than queried: unlike the original
	// implementation (which shells out to sysconf(_SC_PAGESIZE)), Go has no
	// portable equivalent in the example pack's dependency set, and 4096 is
	// the page size on every platform this reactor targets. This is the one
	// spot in the config package that is intentionally stdlib-only: no
	// library in the example pack wraps sysconf.
	osPageSize = 4096
)

// StorageConfig configures the storage collaborator: root path and the
// maximum size of the block store and deploy store it maintains.
type StorageConfig struct {
	// Path is the folder any files the storage collaborator creates or
	// reads will live under. It is created, along with any required
	// parents, if it doesn't already exist.
	Path string
	// MaxBlockStoreSize bounds the block store's on-disk size. Should be a
	// whole multiple of the OS page size; CheckSizes warns otherwise.
	MaxBlockStoreSize uint64
	// MaxDeployStoreSize bounds the deploy store's on-disk size. Should be
	// a whole multiple of the OS page size; CheckSizes warns otherwise.
	MaxDeployStoreSize uint64
}

// Validate checks StorageConfig invariants the reactor relies on before
// constructing the storage collaborator.
func (c StorageConfig) Validate() error {
	if c.Path == "" {
		return ErrNoStoragePath
	}
	return nil
}

// CheckSizes logs a warning, via logger, for any max store size that is not
// a whole multiple of the OS page size. This mirrors the original
// implementation's check_sizes: storage size of events is not itself a
// correctness issue, so this is advisory only.
func (c StorageConfig) CheckSizes(logger log.Logger) {
	if c.MaxBlockStoreSize%osPageSize != 0 {
		logger.Warn("max block store size is not a multiple of the system page size",
			"size", c.MaxBlockStoreSize, "page_size", osPageSize)
	}
	if c.MaxDeployStoreSize%osPageSize != 0 {
		logger.Warn("max deploy store size is not a multiple of the system page size",
			"size", c.MaxDeployStoreSize, "page_size", osPageSize)
	}
}

// DefaultStorageConfig returns a StorageConfig rooted under the user's
// cache directory, with the original implementation's default store sizes.
func DefaultStorageConfig() StorageConfig {
	root, err := os.UserCacheDir()
	if err != nil {
		root = "."
	}
	return StorageConfig{
		Path:               filepath.Join(root, "lux-validator"),
		MaxBlockStoreSize:  DefaultMaxBlockStoreSize,
		MaxDeployStoreSize: DefaultMaxDeployStoreSize,
	}
}
