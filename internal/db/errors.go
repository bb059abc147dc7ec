package db

import "errors"

// Sentinel errors for cache backend operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrClosed      = errors.New("db: store closed")
)

// Op constants name the failing operation for error context.
// Network backends use the Valkey/Redis command names.
const (
	OpPing  = "PING"
	OpGet   = "GET"
	OpSet   = "SET"
	OpDel   = "DEL"
	OpRead  = "READ"
	OpWrite = "WRITE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
