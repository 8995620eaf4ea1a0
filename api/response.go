// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every apiserver HTTP handler writes.
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is the JSON shape of a failed Response's error field.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as status's JSON body. WriteError and WriteSuccess are
// the package's only exported entry points.
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a failure Response with the given HTTP status.
func WriteError(w http.ResponseWriter, status int, err error) error {
	return writeJSON(w, status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: err.Error(),
		},
	})
}

// WriteSuccess writes result as a successful Response with HTTP 200.
func WriteSuccess(w http.ResponseWriter, result interface{}) error {
	return writeJSON(w, http.StatusOK, Response{
		Success: true,
		Result:  result,
	})
}
