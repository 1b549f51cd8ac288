package journal

import "errors"

var (
	// ErrLinkNotFound indicates the journal has no entry for a txid.
	ErrLinkNotFound = errors.New("journal: link not found")

	// ErrChainNotFound indicates the journal has no chain with a root txid.
	ErrChainNotFound = errors.New("journal: chain not found")

	// ErrDuplicateLink indicates a txid is already recorded.
	ErrDuplicateLink = errors.New("journal: duplicate link")

	// ErrIndexConflict indicates a chain position is already taken by another txid.
	ErrIndexConflict = errors.New("journal: chain index already recorded")

	// ErrInvalidLink indicates a link is missing its txid or root.
	ErrInvalidLink = errors.New("journal: invalid link")
)
