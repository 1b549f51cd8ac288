package chain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/metachain/codec"
	"github.com/bitfsorg/metachain/metanet"
	"github.com/bitfsorg/metachain/network"
	"github.com/bitfsorg/metachain/tx"
)

func framedScript(t *testing.T, f codec.Family, r *metanet.Record) []byte {
	t.Helper()
	encoded, err := metanet.Encode(codec.MustNew(f), r)
	require.NoError(t, err)
	s, err := tx.BuildOPReturnScript(tx.Frame(encoded))
	require.NoError(t, err)
	return s.Bytes()
}

func p2pkhLike() []byte {
	s := []byte{script.OpDUP, script.OpHASH160, 0x14}
	s = append(s, make([]byte, 20)...)
	return append(s, script.OpEQUALVERIFY, script.OpCHECKSIG)
}

func TestNewReaderRequiresCodec(t *testing.T) {
	_, err := NewReader(ReaderConfig{})
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = NewReader(ReaderConfig{AutoDetect: true})
	assert.NoError(t, err)
}

func TestReadOutputsSkipsForeignScripts(t *testing.T) {
	rec, err := metanet.NewRecord(testAddress, "deadbeef", seeded(1))
	require.NoError(t, err)

	notMeta, err := tx.BuildOPReturnScript([]byte("hello world"))
	require.NoError(t, err)

	scripts := [][]byte{
		p2pkhLike(),
		nil,
		notMeta.Bytes(),
		framedScript(t, codec.CBOR, rec),
		p2pkhLike(),
	}
	found, err := testReader(t, codec.CBOR, nil).ReadOutputs(scripts)
	require.NoError(t, err)
	assert.Equal(t, 3, found.OutputIndex)
	assert.Equal(t, rec, found.Record)
	assert.Equal(t, codec.CBOR, found.Family)
}

func TestReadOutputsFirstMatchWins(t *testing.T) {
	first, err := metanet.NewRecord("1First", "", seeded(1))
	require.NoError(t, err)
	second, err := metanet.NewRecord("1Second", "", seeded(2))
	require.NoError(t, err)

	found, err := testReader(t, codec.MsgPack, nil).ReadOutputs([][]byte{
		framedScript(t, codec.MsgPack, first),
		framedScript(t, codec.MsgPack, second),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, found.OutputIndex)
	assert.Equal(t, "1First", found.Record.Address)
}

func TestReadOutputsNotFound(t *testing.T) {
	r := testReader(t, codec.CBOR, nil)
	_, err := r.ReadOutputs(nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = r.ReadOutputs([][]byte{p2pkhLike(), {script.OpRETURN}})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestReadOutputsFamilyMismatchFailsAtDecode(t *testing.T) {
	rec, err := metanet.NewRecord(testAddress, "", seeded(1))
	require.NoError(t, err)

	_, err = testReader(t, codec.BSON, nil).ReadOutputs([][]byte{
		p2pkhLike(),
		framedScript(t, codec.CBOR, rec),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrDecode)
	assert.NotErrorIs(t, err, ErrRecordNotFound)

	var outErr *OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, 1, outErr.Index)
}

func TestReadOutputsAutoDetect(t *testing.T) {
	rec, err := metanet.NewRecord(testAddress, "deadbeef", seeded(1))
	require.NoError(t, err)

	r, err := NewReader(ReaderConfig{AutoDetect: true})
	require.NoError(t, err)
	for _, f := range codec.Families {
		found, err := r.ReadOutputs([][]byte{framedScript(t, f, rec)})
		require.NoError(t, err, f)
		assert.Equal(t, f, found.Family)
		assert.Equal(t, rec, found.Record)
	}
}

func TestReadTx(t *testing.T) {
	ledger := newMemChain()
	rec, err := metanet.NewRecord(testAddress, "", seeded(1))
	require.NoError(t, err)
	txid := ledger.put(t, codec.MustNew(codec.CBOR), rec)

	found, err := testReader(t, codec.CBOR, ledger).ReadTx(context.Background(), txid)
	require.NoError(t, err)
	assert.Equal(t, rec, found.Record)
	assert.Equal(t, 0, found.OutputIndex)
}

func TestReadTxErrors(t *testing.T) {
	ledger := newMemChain()
	r := testReader(t, codec.CBOR, ledger)

	_, err := r.ReadTx(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidTxID)

	_, err = r.ReadTx(context.Background(), strings.Repeat("zz", 32))
	assert.ErrorIs(t, err, ErrInvalidTxID)

	_, err = r.ReadTx(context.Background(), strings.Repeat("ab", 32))
	assert.ErrorIs(t, err, network.ErrTxNotFound)

	noFetcher := testReader(t, codec.CBOR, nil)
	_, err = noFetcher.ReadTx(context.Background(), strings.Repeat("ab", 32))
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestReadTxWithoutRecord(t *testing.T) {
	ledger := newMemChain()
	txid, err := ledger.Submit(context.Background(), []byte("not a record"), testAddress)
	require.NoError(t, err)

	_, err = testReader(t, codec.CBOR, ledger).ReadTx(context.Background(), txid)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Contains(t, err.Error(), txid)
}

// ---------------------------------------------------------------------------
// Walk
// ---------------------------------------------------------------------------

func TestWalkDetectsBrokenLink(t *testing.T) {
	ledger := newMemChain()
	c := codec.MustNew(codec.CBOR)

	root, err := metanet.NewRecord(testAddress, "", seeded(1))
	require.NoError(t, err)
	rootTx := ledger.put(t, c, root)

	child, err := metanet.NewRecord(testAddress, rootTx, seeded(2))
	require.NoError(t, err)
	child.Attributes.IndexParent = metanet.HashIdentity("1Someone", rootTx)
	childTx := ledger.put(t, c, child)

	hops, err := testReader(t, codec.CBOR, ledger).Walk(context.Background(), childTx, 0)
	assert.ErrorIs(t, err, ErrBrokenLink)
	assert.ErrorIs(t, err, metanet.ErrIndexParentMismatch)
	assert.Empty(t, hops)
}

func TestWalkDepthLimit(t *testing.T) {
	ledger := newMemChain()
	b := testBuilder(t, codec.CBOR, nil, 0, ledger)
	links, err := b.BuildChain(context.Background(), ChainRequest{Address: testAddress, Count: 3})
	require.NoError(t, err)

	hops, err := testReader(t, codec.CBOR, ledger).Walk(context.Background(), links[2].TxID, 2)
	assert.ErrorIs(t, err, ErrDepthExceeded)
	assert.Len(t, hops, 2)
}

func TestWalkMissingParent(t *testing.T) {
	ledger := newMemChain()
	orphan, err := metanet.NewRecord(testAddress, strings.Repeat("cd", 32), seeded(1))
	require.NoError(t, err)
	txid := ledger.put(t, codec.MustNew(codec.CBOR), orphan)

	hops, err := testReader(t, codec.CBOR, ledger).Walk(context.Background(), txid, 0)
	assert.ErrorIs(t, err, network.ErrTxNotFound)
	require.Len(t, hops, 1)
	assert.Equal(t, txid, hops[0].TxID)
}

func TestWalkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testReader(t, codec.CBOR, newMemChain()).Walk(ctx, strings.Repeat("ab", 32), 0)
	assert.True(t, errors.Is(err, context.Canceled))
}
