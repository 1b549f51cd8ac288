package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrNilParam indicates a required collaborator was not configured.
	ErrNilParam = errors.New("chain: required parameter is nil")

	// ErrInvalidConfig indicates a builder or reader configuration is unusable.
	ErrInvalidConfig = errors.New("chain: invalid configuration")

	// ErrInvalidRequest indicates a chain build request is malformed.
	ErrInvalidRequest = errors.New("chain: invalid request")

	// ErrNoAddress indicates no address was given and none could be derived.
	ErrNoAddress = errors.New("chain: no address available")

	// ErrInvalidTxID indicates a transaction id is not 64 hex characters.
	ErrInvalidTxID = errors.New("chain: invalid txid")

	// ErrRecordNotFound indicates no output of a transaction carries a record.
	ErrRecordNotFound = errors.New("chain: no metanet record in transaction outputs")

	// ErrBrokenLink indicates a record does not link to its parent.
	ErrBrokenLink = errors.New("chain: broken link")

	// ErrDepthExceeded indicates a walk reached its depth limit before the root.
	ErrDepthExceeded = errors.New("chain: walk depth exceeded")
)

// NodeError reports the chain position at which a build stopped.
type NodeError struct {
	Index int
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("chain: node %d: %v", e.Index, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// OutputError reports the output whose payload failed to decode.
type OutputError struct {
	Index int
	Err   error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("chain: output %d: %v", e.Index, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
