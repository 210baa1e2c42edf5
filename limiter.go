package fortunegram

import (
	"context"
	"time"
)

// Request asks a strategy whether Key may spend one more request out of Limit
// within the trailing Duration.
type Request struct {
	Key      string
	Limit    uint64
	Duration time.Duration
}

// State represents the result of rate limiting.
type State int64

const (
	Deny State = iota
	Allow
)

// State strings for HTTP headers
var stateStrings = map[State]string{
	Allow: "Allow",
	Deny:  "Deny",
}

func (s State) String() string {
	return stateStrings[s]
}

// Result is the outcome of a rate limit check.
//
// TotalRequests counts the requests inside the window after the decision.
// ExpiresAt is the moment the oldest counted request leaves the window.
type Result struct {
	State         State
	TotalRequests uint64
	ExpiresAt     time.Time
}

// Strategy checks and records a request in one step. A denied request is
// never recorded, so rejected attempts do not use up quota.
type Strategy interface {
	Execute(ctx context.Context, r *Request) (*Result, error)
}
