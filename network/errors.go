package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not connect to the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the node rejected the RPC credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the node rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrFundingFailed indicates the node wallet could not fund a transaction.
	ErrFundingFailed = errors.New("network: funding failed")

	// ErrSigningIncomplete indicates the node wallet could not sign every input.
	ErrSigningIncomplete = errors.New("network: signing incomplete")

	// ErrNoWalletAddress indicates the node wallet has no address for the account.
	ErrNoWalletAddress = errors.New("network: wallet has no address")

	// ErrUnknownNetwork indicates the network has no preset and no explicit RPC URL.
	ErrUnknownNetwork = errors.New("network: unknown network")
)
