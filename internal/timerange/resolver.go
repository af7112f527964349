package timerange

import (
	"errors"
	"fmt"
	"time"
)

// Canonical tokens the interpreter is allowed to emit.
const (
	TokenToday     = "today"
	TokenYesterday = "yesterday"
	TokenLastHour  = "last_hour"
	TokenLast24h   = "last_24h"
	TokenAllTime   = "all_time"
)

// ErrUnrecognizedToken is returned for unknown tokens under FallbackReject.
var ErrUnrecognizedToken = errors.New("unrecognized time range token")

// FallbackPolicy decides what an unrecognized non-empty token resolves to.
type FallbackPolicy int

const (
	// FallbackLastHour resolves unknown tokens to the last hour. Recency is
	// the less surprising default for operational questions.
	FallbackLastHour FallbackPolicy = iota
	// FallbackReject refuses unknown tokens with ErrUnrecognizedToken.
	FallbackReject
)

// ParseFallbackPolicy maps the config value onto a policy. Unknown values
// get the last-hour bias.
func ParseFallbackPolicy(s string) FallbackPolicy {
	if s == "reject" {
		return FallbackReject
	}
	return FallbackLastHour
}

// Resolved is an absolute half-open interval [From, To). Token is the
// effective token after any fallback, so the formatter and link builder
// always describe the range that was actually applied.
type Resolved struct {
	Token string
	From  time.Time
	To    time.Time
}

// Resolver turns canonical tokens into absolute bounds against an injected
// clock in a fixed reference location. Ambient process-local time is never
// consulted, so "today" means the same thing on every host.
type Resolver struct {
	loc    *time.Location
	policy FallbackPolicy
	now    func() time.Time
}

func NewResolver(timezone string, policy FallbackPolicy, now func() time.Time) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reference timezone %q: %w", timezone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{loc: loc, policy: policy, now: now}, nil
}

// Resolve maps a canonical token to absolute bounds. Empty and "all_time"
// tokens mean no time constraint and return nil. Calendar tokens use
// midnight boundaries in the reference location.
func (r *Resolver) Resolve(token string) (*Resolved, error) {
	now := r.now().In(r.loc)

	switch token {
	case "", TokenAllTime:
		return nil, nil
	case TokenToday:
		start := midnight(now)
		return &Resolved{Token: token, From: start, To: start.AddDate(0, 0, 1)}, nil
	case TokenYesterday:
		end := midnight(now)
		return &Resolved{Token: token, From: end.AddDate(0, 0, -1), To: end}, nil
	case TokenLastHour:
		return &Resolved{Token: token, From: now.Add(-time.Hour), To: now}, nil
	case TokenLast24h:
		return &Resolved{Token: token, From: now.Add(-24 * time.Hour), To: now}, nil
	default:
		if r.policy == FallbackReject {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedToken, token)
		}
		return &Resolved{Token: TokenLastHour, From: now.Add(-time.Hour), To: now}, nil
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
