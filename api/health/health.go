// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

// Report is the JSON body apiserver's /health endpoint writes.
type Report struct {
	// Healthy is true if the service is healthy.
	Healthy bool `json:"healthy"`
}
