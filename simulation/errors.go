package simulation

import (
	"errors"
	"fmt"
)

var (
	ErrHashMismatch      = errors.New("stored hash does not match block contents")
	ErrBrokenLink        = errors.New("previous hash does not match prior block")
	ErrIndexOutOfRange   = errors.New("block index out of range")
	ErrReplicaOutOfRange = errors.New("replica index out of range")
	ErrUnknownHasher     = errors.New("unknown hasher")
)

// IntegrityError reports the first block that failed validation.
type IntegrityError struct {
	Index uint64
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d invalid: %v", e.Index, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
