package levelset

import "errors"

// ConfigurationError signals a malformed construction-time argument: a
// Gaussian kernel too large to fit in the packed integer representation, an
// unimplemented speed-field method, or a missing required input.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "levelset: configuration error: " + e.Reason }

// DomainError signals that the problem itself is degenerate rather than
// misconfigured — in particular a Chan-Vese initialization mask that is
// entirely foreground or entirely background, which would require dividing
// by a zero pixel count.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string { return "levelset: domain error: " + e.Reason }

// InvariantViolation is returned by the debug consistency check when phi,
// Lin or Lout have diverged from the I1-I4 invariants in spec.md §3. It is
// always fatal to the engine that produced it.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return "levelset: invariant violation: " + e.Reason }

// ErrNotImplemented is returned by the speed-field factory for the EDGE
// method, which is enumerated but has no implementation, per spec.md §6.
// It is a *ConfigurationError, so errors.As matches it as one.
var ErrNotImplemented error = &ConfigurationError{Reason: "speed field method not implemented"}

// ErrCancelled is returned by Engine.Run when the caller's cancellation
// probe reports true between sub-iterations. It is a recoverable outcome,
// not a crash: the segmentation output must not be read when this is
// returned.
var ErrCancelled = errors.New("levelset: segmentation cancelled")
