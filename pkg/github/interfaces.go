package github

import (
	"context"
	"encoding/json"
)

// Caller issues a single authenticated request against the labels API.
// A nil body with a nil error means the server answered 204 No Content.
type Caller interface {
	Call(ctx context.Context, req *Request) (json.RawMessage, error)
}

// Request describes one API call. Path is relative to the API base URL.
type Request struct {
	Method string
	Path   string
	Body   interface{}
}

// CallerFactory builds the Caller used for one run
type CallerFactory func(creds Credentials) (Caller, error)
