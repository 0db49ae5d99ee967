package core

import (
	"context"
	"encoding/json"
)

// ResponseSchema asks the oracle for a strict JSON object. Providers that
// support structured output pass the schema on the wire; the rest fall back
// to a JSON-only instruction. Validation always happens on our side.
type ResponseSchema struct {
	Name   string
	Schema json.RawMessage
}

type CompletionRequest struct {
	Messages  []Message
	Schema    *ResponseSchema
	MaxTokens int
}

// Oracle is the boundary to the external language model. It is consulted as
// a black box; any malformed reply is the caller's problem to reject.
type Oracle interface {
	Complete(ctx context.Context, req CompletionRequest) (Message, error)
}
