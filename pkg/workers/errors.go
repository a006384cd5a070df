package workers

import "errors"

var (
	// ErrPoolClosed indicates the pool no longer accepts tasks.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrAlreadyStarted indicates Start was called more than once.
	ErrAlreadyStarted = errors.New("worker pool already started")
)
