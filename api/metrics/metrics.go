// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registerer is an interface for registering prometheus metrics
type Registerer interface {
	prometheus.Registerer
}

// Registry is an interface for prometheus registry
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRegistry creates a new prometheus registry
func NewRegistry() Registry {
	return prometheus.NewRegistry()
}

// MultiGatherer is a prometheus gatherer that can gather metrics from multiple sources
type MultiGatherer interface {
	prometheus.Gatherer
	
	// Register adds a new gatherer to this multi-gatherer
	Register(string, prometheus.Gatherer) error
}

// multiGatherer implements MultiGatherer
type multiGatherer struct {
	gatherers map[string]prometheus.Gatherer
}

// NewMultiGatherer creates a new multi-gatherer
func NewMultiGatherer() MultiGatherer {
	return &multiGatherer{
		gatherers: make(map[string]prometheus.Gatherer),
	}
}

// Register adds a new gatherer
func (mg *multiGatherer) Register(name string, gatherer prometheus.Gatherer) error {
	mg.gatherers[name] = gatherer
	return nil
}

// Gather implements prometheus.Gatherer
func (mg *multiGatherer) Gather() ([]*dto.MetricFamily, error) {
	var result []*dto.MetricFamily
	for _, g := range mg.gatherers {
		metrics, err := g.Gather()
		if err != nil {
			return nil, err
		}
		result = append(result, metrics...)
	}
	return result, nil
}

// StoreMetrics is the interface for storage-collaborator metrics: puts,
// gets, and misses against a single named store.
type StoreMetrics interface {
	// Puts tracks completed Put calls.
	Puts() prometheus.Counter

	// Gets tracks completed Get calls, hit or miss.
	Gets() prometheus.Counter

	// Misses tracks Get calls that found no value for the key.
	Misses() prometheus.Counter
}

// NewStoreMetrics creates a new StoreMetrics instance under namespace,
// registering its counters with registerer.
func NewStoreMetrics(namespace string, registerer prometheus.Registerer) (StoreMetrics, error) {
	m := &storeMetrics{
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puts",
			Help:      "Number of completed put operations",
		}),
		gets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gets",
			Help:      "Number of completed get operations",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses",
			Help:      "Number of get operations that found no value",
		}),
	}

	if err := registerer.Register(m.puts); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.gets); err != nil {
		return nil, err
	}
	if err := registerer.Register(m.misses); err != nil {
		return nil, err
	}

	return m, nil
}

type storeMetrics struct {
	puts   prometheus.Counter
	gets   prometheus.Counter
	misses prometheus.Counter
}

func (m *storeMetrics) Puts() prometheus.Counter {
	return m.puts
}

func (m *storeMetrics) Gets() prometheus.Counter {
	return m.gets
}

func (m *storeMetrics) Misses() prometheus.Counter {
	return m.misses
}