package network

import (
	"context"
	"fmt"
	"strings"
)

// GetAccountAddress returns the first address the node wallet holds for account.
// It calls `getaddressesbyaccount "account"`; an empty list is ErrNoWalletAddress.
func (c *RPCClient) GetAccountAddress(ctx context.Context, account string) (string, error) {
	var addrs []string
	if err := c.Call(ctx, "getaddressesbyaccount", []interface{}{account}, &addrs); err != nil {
		return "", err
	}
	if len(addrs) == 0 || addrs[0] == "" {
		return "", fmt.Errorf("%w: account %q", ErrNoWalletAddress, account)
	}
	return addrs[0], nil
}

// fundResult maps the JSON fields returned by fundrawtransaction.
type fundResult struct {
	Hex       string  `json:"hex"`
	Fee       float64 `json:"fee"`
	ChangePos int     `json:"changepos"`
}

// FundRawTransaction asks the node wallet to add inputs and a change output.
// It calls `fundrawtransaction "hex" {"changeAddress": addr}`. When changeAddress
// is empty the wallet picks its own change address. Errors wrap ErrFundingFailed.
func (c *RPCClient) FundRawTransaction(ctx context.Context, rawTxHex, changeAddress string) (*FundResult, error) {
	params := []interface{}{rawTxHex}
	if changeAddress != "" {
		params = append(params, map[string]interface{}{"changeAddress": changeAddress})
	}
	var result fundResult
	if err := c.Call(ctx, "fundrawtransaction", params, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFundingFailed, err)
	}
	if result.Hex == "" {
		return nil, fmt.Errorf("%w: fundrawtransaction returned no hex", ErrInvalidResponse)
	}
	log.Tracef("Funded transaction: fee %v BTC, change at %d", result.Fee, result.ChangePos)
	return &FundResult{
		Hex:       result.Hex,
		Fee:       btcToSat(result.Fee),
		ChangePos: result.ChangePos,
	}, nil
}

// signResult maps the JSON fields returned by signrawtransaction.
type signResult struct {
	Hex      string `json:"hex"`
	Complete bool   `json:"complete"`
	Errors   []struct {
		TxID  string `json:"txid"`
		Vout  uint32 `json:"vout"`
		Error string `json:"error"`
	} `json:"errors"`
}

// SignRawTransaction signs a funded transaction with the node wallet's keys.
// It calls `signrawtransaction "hex"` and returns ErrSigningIncomplete unless
// the node reports every input signed.
func (c *RPCClient) SignRawTransaction(ctx context.Context, rawTxHex string) (string, error) {
	var result signResult
	if err := c.Call(ctx, "signrawtransaction", []interface{}{rawTxHex}, &result); err != nil {
		return "", err
	}
	if !result.Complete {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, fmt.Sprintf("%s:%d: %s", e.TxID, e.Vout, e.Error))
		}
		return "", fmt.Errorf("%w: %s", ErrSigningIncomplete, strings.Join(msgs, "; "))
	}
	if result.Hex == "" {
		return "", fmt.Errorf("%w: signrawtransaction returned no hex", ErrInvalidResponse)
	}
	return result.Hex, nil
}
