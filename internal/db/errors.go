package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants name the driver command for error context.
const (
	OpPing      = "ping"
	OpFind      = "find"
	OpFindOne   = "findOne"
	OpUpdateOne = "updateOne"
	OpDecode    = "decode"
	OpGet       = "GET"
	OpSet       = "SET"
	OpMGet      = "MGET"
	OpScan      = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
