package chain

import (
	"context"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/metachain/codec"
	"github.com/bitfsorg/metachain/metanet"
	"github.com/bitfsorg/metachain/tx"
)

// DefaultWalkDepth bounds Walk when no depth is given.
const DefaultWalkDepth = 10000

// txidHexLen is the length of a hex-encoded transaction id.
const txidHexLen = 2 * chainhash.HashSize

// TxFetcher returns raw transactions by id.
type TxFetcher interface {
	GetRawTx(ctx context.Context, txid string) ([]byte, error)
}

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	// Codec must be the family the chain was built with. It is ignored
	// when AutoDetect is set.
	Codec codec.Codec

	// AutoDetect tries every codec family on each payload.
	AutoDetect bool

	// Fetcher supplies transactions to ReadTx and Walk.
	Fetcher TxFetcher
}

// Reader extracts records from transactions.
type Reader struct {
	cfg ReaderConfig
}

// NewReader validates cfg and returns a Reader.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	if cfg.Codec == nil && !cfg.AutoDetect {
		return nil, fmt.Errorf("%w: codec", ErrNilParam)
	}
	return &Reader{cfg: cfg}, nil
}

// Found is a record located in a transaction.
type Found struct {
	Record      *metanet.Record
	OutputIndex int
	Family      codec.Family
}

// ReadOutputs decodes the record in the first output script carrying the
// meta flag. Scripts without the flag are skipped. It returns
// ErrRecordNotFound if no script carries one, and an *OutputError if the
// first flagged payload does not decode.
func (r *Reader) ReadOutputs(scripts [][]byte) (*Found, error) {
	for i, s := range scripts {
		payload, ok := tx.ExtractPayload(s)
		if !ok {
			continue
		}
		rec, family, err := r.decode(payload)
		if err != nil {
			return nil, &OutputError{Index: i, Err: err}
		}
		return &Found{Record: rec, OutputIndex: i, Family: family}, nil
	}
	return nil, ErrRecordNotFound
}

func (r *Reader) decode(payload []byte) (*metanet.Record, codec.Family, error) {
	if r.cfg.AutoDetect {
		return metanet.DecodeAny(payload)
	}
	rec, err := metanet.Decode(r.cfg.Codec, payload)
	if err != nil {
		return nil, "", err
	}
	return rec, r.cfg.Codec.Family(), nil
}

// ReadTx fetches txid and returns the record it carries.
func (r *Reader) ReadTx(ctx context.Context, txid string) (*Found, error) {
	if r.cfg.Fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher", ErrNilParam)
	}
	if err := ValidateTxID(txid); err != nil {
		return nil, err
	}
	raw, err := r.cfg.Fetcher.GetRawTx(ctx, txid)
	if err != nil {
		return nil, err
	}
	scripts, err := tx.OutputScripts(raw)
	if err != nil {
		return nil, err
	}
	found, err := r.ReadOutputs(scripts)
	if err != nil {
		return nil, fmt.Errorf("tx %s: %w", txid, err)
	}
	return found, nil
}

// Hop is one record visited by Walk.
type Hop struct {
	TxID string
	*Found
}

// Walk reads txid and follows parent_txid links until it reaches a root
// node, verifying that each record's index_parent matches its parent.
// Hops are returned child first. A maxDepth of zero or less means
// DefaultWalkDepth. On failure the hops read so far are returned with
// the error.
func (r *Reader) Walk(ctx context.Context, txid string, maxDepth int) ([]Hop, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultWalkDepth
	}
	var hops []Hop
	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return hops, err
		}
		if len(hops) == maxDepth {
			return hops, fmt.Errorf("%w: %d hops without reaching the root", ErrDepthExceeded, maxDepth)
		}
		if _, ok := seen[txid]; ok {
			return hops, fmt.Errorf("%w: cycle at %s", ErrBrokenLink, txid)
		}
		seen[txid] = struct{}{}

		found, err := r.ReadTx(ctx, txid)
		if err != nil {
			return hops, err
		}
		if err := metanet.VerifyLink(found.Record); err != nil {
			return hops, fmt.Errorf("%w: tx %s: %w", ErrBrokenLink, txid, err)
		}
		hops = append(hops, Hop{TxID: txid, Found: found})
		log.Debugf("Walk %d: %s name=%s", len(hops), txid, found.Record.Attributes.Name)

		if found.Record.IsRoot() {
			return hops, nil
		}
		txid = found.Record.ParentTxID
	}
}

// ValidateTxID checks that txid is a 64-character hex transaction id.
func ValidateTxID(txid string) error {
	if len(txid) != txidHexLen {
		return fmt.Errorf("%w: %q", ErrInvalidTxID, txid)
	}
	if _, err := chainhash.NewHashFromHex(txid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return nil
}
