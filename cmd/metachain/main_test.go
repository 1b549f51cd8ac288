package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/metachain/config"
	"github.com/bitfsorg/metachain/network"
)

const walletAddress = "mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn"

// fakeNode is a wallet node whose funding and signing are no-ops and
// whose broadcasts land in an in-memory mempool.
type fakeNode struct {
	*network.MockNodeService
	txs       map[string][]byte
	changes   []string
	resolved  network.RPCConfig
	fundError error
	mined     map[string]*network.TxStatus
	tip       uint64
}

func newFakeNode() *fakeNode {
	n := &fakeNode{
		txs:   make(map[string][]byte),
		mined: make(map[string]*network.TxStatus),
		tip:   800000,
	}
	n.MockNodeService = &network.MockNodeService{
		GetAccountAddressFn: func(context.Context, string) (string, error) {
			return walletAddress, nil
		},
		FundRawTransactionFn: func(_ context.Context, rawTxHex, changeAddress string) (*network.FundResult, error) {
			if n.fundError != nil {
				return nil, n.fundError
			}
			n.changes = append(n.changes, changeAddress)
			return &network.FundResult{Hex: rawTxHex, Fee: 200, ChangePos: -1}, nil
		},
		SignRawTransactionFn: func(_ context.Context, rawTxHex string) (string, error) {
			return rawTxHex, nil
		},
		BroadcastTxFn: func(_ context.Context, rawTxHex string) (string, error) {
			sdkTx, err := transaction.NewTransactionFromHex(rawTxHex)
			if err != nil {
				return "", err
			}
			txid := sdkTx.TxID().String()
			n.txs[txid], _ = hex.DecodeString(rawTxHex)
			return txid, nil
		},
		GetRawTxFn: func(_ context.Context, txid string) ([]byte, error) {
			raw, ok := n.txs[txid]
			if !ok {
				return nil, fmt.Errorf("%w: %s", network.ErrTxNotFound, txid)
			}
			return raw, nil
		},
		GetTxStatusFn: func(_ context.Context, txid string) (*network.TxStatus, error) {
			if st, ok := n.mined[txid]; ok {
				return st, nil
			}
			if _, ok := n.txs[txid]; !ok {
				return nil, fmt.Errorf("%w: %s", network.ErrTxNotFound, txid)
			}
			return &network.TxStatus{}, nil
		},
		GetBestBlockHeightFn: func(context.Context) (uint64, error) {
			return n.tip, nil
		},
	}
	return n
}

// run executes the CLI against node with a fresh command tree.
func run(t *testing.T, dataDir string, node *fakeNode, args ...string) (string, error) {
	t.Helper()
	a := &app{
		newNode: func(cfg network.RPCConfig) network.NodeService {
			node.resolved = cfg
			return node
		},
	}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--datadir", dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// builtTxIDs returns the txids printed by the build command, in order.
func builtTxIDs(out string) (txids []string, root string) {
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		if fields[0] == "root" {
			root = fields[1]
		} else {
			txids = append(txids, fields[1])
		}
	}
	return txids, root
}

func TestBuildReadWalk(t *testing.T) {
	dir := t.TempDir()
	node := newFakeNode()

	out, err := run(t, dir, node, "build", "-n", "3", "-e", "msgpack", "--attachments", "2")
	require.NoError(t, err)
	txids, root := builtTxIDs(out)
	require.Len(t, txids, 3)
	assert.Equal(t, txids[0], root)
	assert.Equal(t, []string{walletAddress, walletAddress, walletAddress}, node.changes)

	out, err = run(t, dir, node, "read", txids[1], "-e", "msgpack")
	require.NoError(t, err)
	assert.Contains(t, out, "address:      "+walletAddress)
	assert.Contains(t, out, "parent_txid:  "+txids[0])
	assert.Contains(t, out, "encoding:     msgpack")

	assert.Contains(t, out, "confirmations: 0")
	assert.Contains(t, out, "block:        unconfirmed")
	assert.Contains(t, out, "tip height:   800000")

	node.mined[root] = &network.TxStatus{
		Confirmed:     true,
		Confirmations: 6,
		BlockHash:     strings.Repeat("00", 32),
		BlockHeight:   799995,
	}
	out, err = run(t, dir, node, "read", txids[0], "-e", "auto")
	require.NoError(t, err)
	assert.Contains(t, out, "index_parent: NULL")
	assert.Contains(t, out, "encoding:     msgpack")
	assert.Contains(t, out, "confirmations: 6")
	assert.Contains(t, out, "block:        "+strings.Repeat("00", 32)+" at 799995")

	out, err = run(t, dir, node, "walk", txids[2], "-e", "msgpack")
	require.NoError(t, err)
	assert.Contains(t, out, "root reached after 3 nodes")
	assert.Contains(t, out, "2 "+root)
	assert.Contains(t, out, " msgpack 6\n")
	assert.Contains(t, out, "0 "+txids[2])
}

func TestReadWrongEncodingFails(t *testing.T) {
	dir := t.TempDir()
	node := newFakeNode()
	out, err := run(t, dir, node, "build", "-e", "cbor")
	require.NoError(t, err)
	_, root := builtTxIDs(out)

	_, err = run(t, dir, node, "read", root, "-e", "bson")
	assert.Error(t, err)
}

func TestReadUnknownTx(t *testing.T) {
	_, err := run(t, t.TempDir(), newFakeNode(), "read", strings.Repeat("ab", 32))
	assert.ErrorIs(t, err, network.ErrTxNotFound)

	_, err = run(t, t.TempDir(), newFakeNode(), "read", "xyz")
	assert.Error(t, err)
}

func TestBuildStopsOnWalletFailure(t *testing.T) {
	dir := t.TempDir()
	node := newFakeNode()
	node.fundError = fmt.Errorf("%w: Insufficient funds", network.ErrFundingFailed)

	_, err := run(t, dir, node, "build", "-n", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, network.ErrFundingFailed)
	assert.Contains(t, err.Error(), "node 0")
	assert.Empty(t, node.txs)
}

func TestBuildRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, newFakeNode(), "build", "-n", "0")
	assert.Error(t, err)

	_, err = run(t, dir, newFakeNode(), "build", "-a", "not-an-address")
	assert.ErrorContains(t, err, "invalid address")

	_, err = run(t, dir, newFakeNode(), "build", "-e", "json")
	assert.ErrorIs(t, err, config.ErrInvalidEncoding)

	node := newFakeNode()
	_, err = run(t, dir, node, "build", "-e", "auto")
	assert.ErrorContains(t, err, "only valid for read and walk")
	assert.Empty(t, node.txs)
}

func TestBuildResumeAndJournal(t *testing.T) {
	dir := t.TempDir()
	node := newFakeNode()

	out, err := run(t, dir, node, "build", "-n", "2", "--attachments", "0")
	require.NoError(t, err)
	first, root := builtTxIDs(out)

	out, err = run(t, dir, node, "build", "-n", "2", "--attachments", "0", "--resume", root)
	require.NoError(t, err)
	more, resumedRoot := builtTxIDs(out)
	require.Len(t, more, 2)
	assert.Equal(t, root, resumedRoot)
	assert.True(t, strings.HasPrefix(out, "2 "), "indices continue from the tip")

	out, err = run(t, dir, node, "walk", more[1])
	require.NoError(t, err)
	assert.Contains(t, out, "root reached after 4 nodes")

	out, err = run(t, dir, node, "journal")
	require.NoError(t, err)
	assert.Contains(t, out, root)
	assert.Contains(t, out, more[1])

	out, err = run(t, dir, node, "journal", root)
	require.NoError(t, err)
	for _, txid := range append(first, more...) {
		assert.Contains(t, out, txid)
	}

	_, err = run(t, dir, node, "build", "--resume", root, "-e", "bson")
	assert.ErrorContains(t, err, "was built with cbor")
}

func TestNetworkSelection(t *testing.T) {
	dir := t.TempDir()
	node := newFakeNode()
	t.Setenv(network.EnvRPCURL, "")

	_, err := run(t, dir, node, "build", "--mainnet", "-u", "alice", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8332", node.resolved.URL)
	assert.Equal(t, "alice", node.resolved.User)
	assert.Equal(t, "mainnet", node.resolved.Network)

	_, err = run(t, dir, node, "build", "--rpc-url", "http://node:18332")
	require.NoError(t, err)
	assert.Equal(t, "http://node:18332", node.resolved.URL)
	assert.Equal(t, "testnet", node.resolved.Network)
}

func TestConfigFileDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Encoding = "bson"
	cfg.Network = "regtest"
	cfg.RPCUser = "fromfile"
	require.NoError(t, config.SaveConfig(config.ConfigPath(dir), cfg))

	node := newFakeNode()
	t.Setenv(network.EnvRPCUser, "")
	out, err := run(t, dir, node, "build")
	require.NoError(t, err)
	assert.Equal(t, "regtest", node.resolved.Network)
	assert.Equal(t, "fromfile", node.resolved.User)

	txids, root := builtTxIDs(out)
	assert.Len(t, txids, defaultBuildCount)
	out, err = run(t, dir, node, "read", root)
	require.NoError(t, err)
	assert.Contains(t, out, "encoding:     bson")
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "metachain.log")
	t.Cleanup(closeLogRotator)

	_, err := run(t, dir, newFakeNode(), "build", "--loglevel", "debug", "--logfile", logFile)
	require.NoError(t, err)
	closeLogRotator()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CHAN")
}
