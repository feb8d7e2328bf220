package core

import "errors"

// Errors reported by the brightness engine and the interactive dialogs
var (
	ErrInvalidFeeder  = errors.New("invalid feeder")
	ErrInvalidTier    = errors.New("invalid brightness tier")
	ErrInvalidRelay   = errors.New("invalid relay")
	ErrValueRange     = errors.New("compare value out of range")
	ErrUnknownCommand = errors.New("unknown command")
	ErrDuplicateCmd   = errors.New("command already registered")
)
