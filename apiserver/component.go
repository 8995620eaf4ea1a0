// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package apiserver is the API collaborator: an HTTP listener that turns
// inbound requests into events.APIEvent values and replies once the
// reactor's dispatch loop has produced a response. Routing and request
// bodies beyond the opaque envelope are an external concern — see
// spec.md §1's Non-goals.
package apiserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/luxfi/reactor/api"
	"github.com/luxfi/reactor/api/health"
	"github.com/luxfi/reactor/api/metrics"
	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
)

// Component is the API collaborator's state: the HTTP listener and the
// table of requests awaiting a reply.
type Component struct {
	cfg    config.APIConfig
	log    log.Logger
	handle queue.Handle[events.Event]
	server *http.Server

	mu      sync.Mutex
	pending map[string]chan response
}

type response struct {
	statusCode int
	body       *anypb.Any
}

// New constructs the API collaborator. It does not start listening — the
// caller is expected to invoke Serve from the effect the reactor schedules
// at construction time, matching the network collaborator's convention of
// not opening sockets inside New. gatherer, if non-nil, is registered under
// the name "reactor" and served at /metrics; a nil gatherer simply omits
// the endpoint.
func New(cfg config.APIConfig, logger log.Logger, handle queue.Handle[events.Event], gatherer prometheus.Gatherer) (*Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Component{
		cfg:     cfg,
		log:     logger,
		handle:  handle,
		pending: make(map[string]chan response),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handleRequest)
	mux.HandleFunc("/health", c.handleHealth)
	if gatherer != nil {
		multi := metrics.NewMultiGatherer()
		if err := multi.Register("reactor", gatherer); err != nil {
			return nil, fmt.Errorf("register metrics gatherer: %w", err)
		}
		mux.Handle("/metrics", promhttp.HandlerFor(multi, promhttp.HandlerOpts{}))
	}
	c.server = &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        mux,
		ReadTimeout:    cfg.RequestTimeout,
		WriteTimeout:   cfg.RequestTimeout,
		MaxHeaderBytes: 1 << 16,
	}
	return c, nil
}

// Serve runs the HTTP listener until ctx is cancelled. Intended to be
// invoked from the effect returned alongside New.
func (c *Component) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (c *Component) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = api.WriteSuccess(w, health.Report{Healthy: true})
}

// handleRequest turns an inbound HTTP request into an APIRequestReceived
// event and blocks until Respond delivers the corresponding reply, or the
// configured request timeout elapses.
func (c *Component) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.cfg.RequestTimeout)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, c.cfg.MaxRequestBytes))
	if err != nil {
		_ = api.WriteError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	requestID := uuid.NewString()
	wait := make(chan response, 1)
	c.mu.Lock()
	c.pending[requestID] = wait
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, requestID)
		c.mu.Unlock()
	}()

	c.handle.Schedule(ctx, events.FromAPI(&events.APIEvent{
		Op:        events.APIRequestReceived,
		RequestID: requestID,
		Method:    r.Method,
		Path:      r.URL.Path,
		Body:      &anypb.Any{Value: body},
	}), queue.APIRequest)

	select {
	case resp := <-wait:
		var payload json.RawMessage
		if resp.body != nil {
			payload = resp.body.GetValue()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.statusCode)
		if len(payload) > 0 {
			_, _ = w.Write(payload)
		}
	case <-ctx.Done():
		_ = api.WriteError(w, http.StatusGatewayTimeout, fmt.Errorf("api: request %s timed out", requestID))
	}
}

// Respond delivers the reactor's reply for requestID, unblocking the HTTP
// handler that is waiting on it, and schedules an APIResponseSent event.
// Called from the effect DispatchEvent returns for an APIRequestReceived
// event.
func (c *Component) Respond(ctx context.Context, requestID string, statusCode int, body *anypb.Any) {
	c.mu.Lock()
	wait, ok := c.pending[requestID]
	c.mu.Unlock()
	if ok {
		wait <- response{statusCode: statusCode, body: body}
	}

	c.handle.Schedule(ctx, events.FromAPI(&events.APIEvent{
		Op:         events.APIResponseSent,
		RequestID:  requestID,
		StatusCode: statusCode,
		Body:       body,
	}), queue.APIRequest)
}
