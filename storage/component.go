// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage is the storage collaborator: a pair of key/value stores
// (block store, deploy store) backed by github.com/luxfi/database, reporting
// put/get completion as events.StorageEvent values. Durability guarantees of
// the underlying database are out of scope for this package — see
// spec.md §1's Non-goals.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/luxfi/database"
	"github.com/luxfi/log"
	"github.com/luxfi/reactor/api/metrics"
	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	blockStoreName  = "block"
	deployStoreName = "deploy"
)

// Component is the storage collaborator's state: the block store and the
// deploy store.
type Component struct {
	cfg    config.StorageConfig
	log    log.Logger
	handle queue.Handle[events.Event]

	blocks  database.Database
	deploys database.Database

	blockMetrics  metrics.StoreMetrics
	deployMetrics metrics.StoreMetrics
}

// New constructs the storage collaborator over already-opened block and
// deploy databases. Opening the databases themselves (picking an engine and
// the files it uses) is left to the caller so that this package stays
// engine-agnostic. New creates cfg.Path, along with any missing parents, and
// fails if it cannot; it also runs cfg's size-warning check.
func New(cfg config.StorageConfig, logger log.Logger, handle queue.Handle[events.Event], registerer prometheus.Registerer, blocks, deploys database.Database) (*Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}
	cfg.CheckSizes(logger)

	blockMetrics, err := metrics.NewStoreMetrics("storage_block", registerer)
	if err != nil {
		return nil, err
	}
	deployMetrics, err := metrics.NewStoreMetrics("storage_deploy", registerer)
	if err != nil {
		return nil, err
	}

	return &Component{
		cfg:           cfg,
		log:           logger,
		handle:        handle,
		blocks:        blocks,
		deploys:       deploys,
		blockMetrics:  blockMetrics,
		deployMetrics: deployMetrics,
	}, nil
}

// Put writes value under key in store ("block" or "deploy") and schedules a
// StoragePutComplete event.
func (c *Component) Put(ctx context.Context, store string, key, value []byte) error {
	db, m, err := c.storeFor(store)
	if err != nil {
		return err
	}
	err = db.Put(key, value)
	m.Puts().Inc()
	c.handle.Schedule(ctx, events.FromStorage(&events.StorageEvent{
		Op:    events.StoragePutComplete,
		Store: store,
		Key:   key,
		Err:   err,
	}), queue.Regular)
	return err
}

// Get reads key from store and schedules a StorageGetComplete or
// StorageGetMiss event depending on whether it was found.
func (c *Component) Get(ctx context.Context, store string, key []byte) ([]byte, error) {
	db, m, err := c.storeFor(store)
	if err != nil {
		return nil, err
	}

	value, err := db.Get(key)
	m.Gets().Inc()
	switch {
	case err == nil:
		c.handle.Schedule(ctx, events.FromStorage(&events.StorageEvent{
			Op:    events.StorageGetComplete,
			Store: store,
			Key:   key,
			Value: value,
		}), queue.Regular)
		return value, nil
	case errors.Is(err, database.ErrNotFound):
		m.Misses().Inc()
		c.handle.Schedule(ctx, events.FromStorage(&events.StorageEvent{
			Op:    events.StorageGetMiss,
			Store: store,
			Key:   key,
		}), queue.Regular)
		return nil, nil
	default:
		return nil, err
	}
}

func (c *Component) storeFor(store string) (database.Database, metrics.StoreMetrics, error) {
	switch store {
	case blockStoreName:
		return c.blocks, c.blockMetrics, nil
	case deployStoreName:
		return c.deploys, c.deployMetrics, nil
	default:
		return nil, nil, errors.New("storage: unknown store " + store)
	}
}
