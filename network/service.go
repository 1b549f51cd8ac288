package network

import "context"

// ChainService reads and submits transactions.
type ChainService interface {
	// GetRawTx returns the raw transaction bytes for the given txid.
	GetRawTx(ctx context.Context, txid string) ([]byte, error)

	// GetTxStatus returns the confirmation status of a transaction.
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)

	// GetBestBlockHeight returns the height of the current chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)

	// BroadcastTx submits a raw transaction hex to the network and returns the txid.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// WalletService is the node wallet that funds and signs data transactions.
type WalletService interface {
	// GetAccountAddress returns the first address of a wallet account.
	GetAccountAddress(ctx context.Context, account string) (string, error)

	// FundRawTransaction adds inputs and a change output paying changeAddress.
	FundRawTransaction(ctx context.Context, rawTxHex, changeAddress string) (*FundResult, error)

	// SignRawTransaction signs every input with wallet keys and returns the signed hex.
	SignRawTransaction(ctx context.Context, rawTxHex string) (string, error)
}

// NodeService is a full node with a wallet, as used to build chains.
type NodeService interface {
	ChainService
	WalletService
}

// TxStatus represents the confirmation status of a transaction.
type TxStatus struct {
	Confirmed     bool   `json:"confirmed"`
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
	BlockHeight   uint64 `json:"block_height"`
}

// FundResult is a funded but unsigned transaction.
type FundResult struct {
	Hex       string `json:"hex"`
	Fee       uint64 `json:"fee"` // satoshis
	ChangePos int    `json:"change_pos"`
}
