// Package ratelimit enforces per-client request budgets, shared through
// Redis when available and in process otherwise.
package ratelimit

import (
	"context"
	"time"
)

// Rule is a named budget of Limit requests per Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	API    = Rule{Name: "api", Limit: 100, Window: time.Minute}
	Auth   = Rule{Name: "auth", Limit: 5, Window: 15 * time.Minute}
	Strict = Rule{Name: "strict", Limit: 10, Window: time.Minute}
)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter records one request for key under rule and reports whether it
// fits the budget. A backend failure is returned as an error.
type Limiter interface {
	Allow(ctx context.Context, rule Rule, key string) (Result, error)
}
