package parfor

import "errors"

const Namespace = "parfor"

var (
	ErrInvalidConfig  = errors.New(Namespace + ": invalid configuration")
	ErrNilBody        = errors.New(Namespace + ": loop body must not be nil")
	ErrNilSource      = errors.New(Namespace + ": source sequence must not be nil")
	ErrInvalidRange   = errors.New(Namespace + ": invalid range progression")
	ErrItemPanicked   = errors.New(Namespace + ": item execution panicked")
	ErrSubmit         = errors.New(Namespace + ": cannot submit invocation to pool")
	ErrTimeout        = errors.New(Namespace + ": wait timed out")
	ErrNotInvoked     = errors.New(Namespace + ": call was not invoked")
	ErrAlreadyInvoked = errors.New(Namespace + ": call was already invoked")
)
