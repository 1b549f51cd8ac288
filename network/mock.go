package network

import "context"

// MockNodeService is a test double for NodeService.
// All function fields must be set before the corresponding method is called.
type MockNodeService struct {
	GetRawTxFn           func(ctx context.Context, txid string) ([]byte, error)
	GetTxStatusFn        func(ctx context.Context, txid string) (*TxStatus, error)
	GetBestBlockHeightFn func(ctx context.Context) (uint64, error)
	BroadcastTxFn        func(ctx context.Context, rawTxHex string) (string, error)
	GetAccountAddressFn  func(ctx context.Context, account string) (string, error)
	FundRawTransactionFn func(ctx context.Context, rawTxHex, changeAddress string) (*FundResult, error)
	SignRawTransactionFn func(ctx context.Context, rawTxHex string) (string, error)
}

var _ NodeService = (*MockNodeService)(nil)

func (m *MockNodeService) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	return m.GetRawTxFn(ctx, txid)
}
func (m *MockNodeService) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
func (m *MockNodeService) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	return m.GetBestBlockHeightFn(ctx)
}
func (m *MockNodeService) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}
func (m *MockNodeService) GetAccountAddress(ctx context.Context, account string) (string, error) {
	return m.GetAccountAddressFn(ctx, account)
}
func (m *MockNodeService) FundRawTransaction(ctx context.Context, rawTxHex, changeAddress string) (*FundResult, error) {
	return m.FundRawTransactionFn(ctx, rawTxHex, changeAddress)
}
func (m *MockNodeService) SignRawTransaction(ctx context.Context, rawTxHex string) (string, error) {
	return m.SignRawTransactionFn(ctx, rawTxHex)
}
