// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/reactor"
	"github.com/luxfi/reactor/validatorreactor"
)

var logger = log.NewNoOpLogger()

func main() {
	listenAddrs := flag.String("listen-addrs", "0.0.0.0:9651", "comma-separated network listen addresses")
	maxPeers := flag.Int("max-peers", 128, "maximum number of simultaneously connected peers")
	apiAddr := flag.String("api-addr", "127.0.0.1:9650", "API server listen address")
	storagePath := flag.String("storage-path", "", "root path for the storage collaborator (empty uses the OS cache directory)")
	flag.Parse()

	deps := config.DefaultDeps()
	deps.Network.ListenAddrs = strings.Split(*listenAddrs, ",")
	deps.Network.MaxPeers = *maxPeers
	deps.API.ListenAddr = *apiAddr
	if *storagePath != "" {
		deps.Storage.Path = *storagePath
	}

	registerer := prometheus.NewRegistry()

	cfg := validatorreactor.Config{
		Deps:       deps,
		Sender:     nil,
		Blocks:     memdb.New(),
		Deploys:    memdb.New(),
		Registerer: registerer,
		Logger:     logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		logger.Info("received shutdown signal")
		close(shutdown)
	}()

	logger.Info("starting validator reactor",
		"listen_addrs", deps.Network.ListenAddrs,
		"api_addr", deps.API.ListenAddr,
		"storage_path", deps.Storage.Path)

	if err := reactor.Run[events.Event](ctx, logger, registerer, validatorreactor.NewConstructor(cfg), shutdown); err != nil {
		logger.Crit("reactor exited with error", "error", err)
		os.Exit(1)
	}
}

