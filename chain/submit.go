package chain

import (
	"context"
	"fmt"

	"github.com/bitfsorg/metachain/network"
	"github.com/bitfsorg/metachain/tx"
)

// RPCSubmitter publishes records through a node whose wallet pays the fee.
// The unsigned data transaction is built locally; the node funds it, signs
// it and broadcasts it.
type RPCSubmitter struct {
	node network.NodeService
}

var (
	_ Submitter     = (*RPCSubmitter)(nil)
	_ AddressSource = (*RPCSubmitter)(nil)
)

// NewRPCSubmitter returns a submitter backed by node. The wallet's default
// account supplies the address when a build request has none.
func NewRPCSubmitter(node network.NodeService) *RPCSubmitter {
	return &RPCSubmitter{node: node}
}

// DefaultAddress returns the first address of the node wallet's default account.
func (s *RPCSubmitter) DefaultAddress(ctx context.Context) (string, error) {
	return s.node.GetAccountAddress(ctx, "")
}

// Submit builds a zero-value data-carrier transaction for data, has the
// node fund it with change to changeAddress, sign it and broadcast it.
func (s *RPCSubmitter) Submit(ctx context.Context, data []byte, changeAddress string) (string, error) {
	sdkTx, err := tx.BuildDataTx(data)
	if err != nil {
		return "", err
	}

	funded, err := s.node.FundRawTransaction(ctx, sdkTx.Hex(), changeAddress)
	if err != nil {
		return "", err
	}
	log.Debugf("Funded data transaction, fee %d sat", funded.Fee)

	signed, err := s.node.SignRawTransaction(ctx, funded.Hex)
	if err != nil {
		return "", err
	}

	txid, err := s.node.BroadcastTx(ctx, signed)
	if err != nil {
		return "", err
	}
	if err := ValidateTxID(txid); err != nil {
		return "", fmt.Errorf("broadcast: %w", err)
	}
	return txid, nil
}
