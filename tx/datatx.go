package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/transaction"
)

// BuildDataTx constructs an unsigned transaction with no inputs and one
// zero-value OP_RETURN output carrying data. Inputs and change are left
// for the node wallet to add when it funds the transaction.
func BuildDataTx(data []byte) (*transaction.Transaction, error) {
	if err := CheckSize(data); err != nil {
		return nil, err
	}
	s, err := BuildOPReturnScript(data)
	if err != nil {
		return nil, err
	}

	sdkTx := transaction.NewTransaction()
	sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
		Satoshis:      0,
		LockingScript: s,
	})
	return sdkTx, nil
}

// OutputScripts parses a raw transaction and returns its output locking
// scripts in output order.
func OutputScripts(rawTx []byte) ([][]byte, error) {
	if len(rawTx) == 0 {
		return nil, fmt.Errorf("%w: empty raw tx", ErrInvalidTx)
	}
	sdkTx, err := transaction.NewTransactionFromBytes(rawTx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}

	scripts := make([][]byte, len(sdkTx.Outputs))
	for i, out := range sdkTx.Outputs {
		if out.LockingScript != nil {
			scripts[i] = out.LockingScript.Bytes()
		}
	}
	return scripts, nil
}
