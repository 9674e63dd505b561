package logging

import (
	"strings"
)

// Field names used for unwrapped error reporting.
const (
	fieldErrorChain   = "error_chain"
	fieldErrorRoot    = "error_root"
	fieldErrorHistory = "error_history"
)

// maxErrorChainDepth caps how far buildErrorChain walks a wrapped error.
// Cyclic chains terminate here instead of spinning.
const maxErrorChainDepth = 32

type causer interface {
	Cause() error
}

type unwrapper interface {
	Unwrap() error
}

// buildErrorChain collects the message of err and of every error wrapped
// beneath it, outermost first. Both Cause and Unwrap style wrapping are
// followed. Consecutive duplicate messages collapse, so pkg/errors
// wrappers that stack a message and a stack trace report once.
func buildErrorChain(err error) []string {
	if err == nil {
		return nil
	}
	chain := make([]string, 0, 4)
	for depth := 0; err != nil && depth < maxErrorChainDepth; depth++ {
		msg := err.Error()
		if len(chain) == 0 || chain[len(chain)-1] != msg {
			chain = append(chain, msg)
		}
		err = nextError(err)
	}
	return chain
}

// nextError steps one level down a wrapped error, preferring pkg/errors
// Cause over the standard library Unwrap.
func nextError(err error) error {
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}

// joinChain renders a chain as a single arrow separated string.
func joinChain(chain []string) string {
	return strings.Join(chain, " -> ")
}
