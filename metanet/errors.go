package metanet

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("metanet: required parameter is nil")

	// ErrInvalidRecord indicates a record is missing a required field.
	ErrInvalidRecord = errors.New("metanet: invalid record")

	// ErrRootInvariant indicates exactly one of parent_txid and index_parent is NULL.
	ErrRootInvariant = errors.New("metanet: parent_txid and index_parent disagree on root status")

	// ErrIndexParentMismatch indicates index_parent is not the identity hash of (address, parent_txid).
	ErrIndexParentMismatch = errors.New("metanet: index_parent does not match identity hash")

	// ErrInvalidPayload indicates a subprotocol payload cannot be decoded into its registered type.
	ErrInvalidPayload = errors.New("metanet: invalid subprotocol payload")
)
