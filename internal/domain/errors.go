package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrOutOfRange  = errors.New("duration out of range")
	ErrUnsupported = errors.New("unsupported on this host")
	ErrClosed      = errors.New("closed")
)
