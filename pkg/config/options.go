package config

import (
	"github.com/hashicorp/go-hclog"
)

// KeyMatch selects how host attribute keywords are recognized.
type KeyMatch int

const (
	// MatchExact dispatches on the exact left-hand side of key=value.
	MatchExact KeyMatch = iota
	// MatchPrefix recognizes a keyword when the token merely starts with it,
	// so cpubudget=1 sets cpu. Older topology files rely on this.
	MatchPrefix
)

func (m KeyMatch) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "exact"
}

// Option configures parsing.
type Option func(*options)

type options struct {
	keyMatch KeyMatch
	logger   hclog.Logger
}

// WithKeyMatch sets the host keyword matching mode.
func WithKeyMatch(m KeyMatch) Option {
	return func(o *options) { o.keyMatch = m }
}

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		keyMatch: MatchExact,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
