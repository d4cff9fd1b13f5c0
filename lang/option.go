package lang

import (
	"context"

	"github.com/ardnew/dash/log"
)

// DefaultMaxDepth is the default maximum nesting depth of blocks,
// parenthesized expressions, and prefix operators accepted by the parser.
const DefaultMaxDepth = 256

// MaxOperatorDepth bounds the number of binary operators along any path from
// an expression to its innermost operand, counting operators of enclosing
// chains through parentheses and call arguments. Deeper expressions fail to
// parse with a [*ParseError].
const MaxOperatorDepth = 1 << 16

// DefaultMaxCallDepth is the default maximum depth of nested function calls
// before evaluation fails with a [*StackOverflowError].
const DefaultMaxCallDepth = 10000

// CallDepthLimit is the largest call depth [WithMaxCallDepth] accepts. Deeper
// recursion would exhaust the goroutine stack before the interpreter could
// report a [*StackOverflowError].
const CallDepthLimit = 1 << 16

// options holds parse and evaluation settings.
type options struct {
	logger       log.Logger
	checkpoint   func(context.Context) error
	maxDepth     int
	maxCallDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum syntactic nesting depth. Values below 1 are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithMaxCallDepth sets the maximum function call depth. Values below 1 are
// ignored, and values above [CallDepthLimit] are clamped to it.
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxCallDepth = min(depth, CallDepthLimit)
		}
	}
}

// WithCheckpoint installs a hook invoked before each top-level statement.
// A non-nil error from the hook aborts evaluation and is returned as is.
func WithCheckpoint(fn func(context.Context) error) Option {
	return func(o *options) {
		o.checkpoint = fn
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// makeOptions applies opts over the defaults.
func makeOptions(opts ...Option) options {
	o := options{
		maxDepth:     DefaultMaxDepth,
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
