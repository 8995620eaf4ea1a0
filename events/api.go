// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"fmt"

	"google.golang.org/protobuf/types/known/anypb"
)

// APIOp enumerates the operations the API collaborator reports.
type APIOp uint8

const (
	APIRequestReceived APIOp = iota
	APIResponseSent
)

func (op APIOp) String() string {
	switch op {
	case APIRequestReceived:
		return "request-received"
	case APIResponseSent:
		return "response-sent"
	default:
		return "unknown"
	}
}

// APIEvent is the API collaborator's sub-event type: HTTP request received,
// response sent. The request/response bodies are carried as an opaque
// *anypb.Any so the reactor core never needs to know a concrete wire
// format — that framing belongs entirely to the API collaborator.
type APIEvent struct {
	Op         APIOp
	RequestID  string
	Method     string
	Path       string
	Body       *anypb.Any
	StatusCode int // set only for APIResponseSent
}

func (e *APIEvent) String() string {
	return fmt.Sprintf("api.%s[id=%s %s %s]", e.Op, e.RequestID, e.Method, e.Path)
}
