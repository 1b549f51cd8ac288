package tx

import "errors"

var (
	// ErrInvalidPayload indicates the payload is empty.
	ErrInvalidPayload = errors.New("tx: invalid payload")

	// ErrSizeLimitExceeded indicates framed data does not fit in a data-carrier output.
	ErrSizeLimitExceeded = errors.New("tx: data-carrier size limit exceeded")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrInvalidTx indicates raw transaction bytes cannot be parsed.
	ErrInvalidTx = errors.New("tx: invalid transaction")
)
