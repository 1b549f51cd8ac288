// Package chain builds and reads linked chains of Metanet records. A
// Builder turns records into framed data-carrier payloads and hands them
// to a Submitter one at a time; a Reader locates and decodes the record
// carried by a transaction and can follow parent links back to the root.
package chain

import (
	"context"
	"fmt"

	"github.com/bitfsorg/metachain/codec"
	"github.com/bitfsorg/metachain/metanet"
	"github.com/bitfsorg/metachain/tx"
)

// DefaultAttachments is the number of generator draws made per node.
const DefaultAttachments = 5

// Submitter turns framed record bytes into a broadcast transaction.
type Submitter interface {
	// Submit publishes data in a data-carrier output, sending any change
	// to changeAddress, and returns the new transaction id.
	Submit(ctx context.Context, data []byte, changeAddress string) (string, error)
}

// AddressSource is implemented by submitters that can supply an address
// when a build request does not name one.
type AddressSource interface {
	DefaultAddress(ctx context.Context) (string, error)
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	// Codec serializes records.
	Codec codec.Codec

	// Rand drives node names, generator selection and generator output.
	Rand metanet.Rand

	// Pool is drawn from uniformly. Nil entries are no-op draws.
	Pool []metanet.Generator

	// Attachments is the number of draws from Pool per node.
	Attachments int

	// Submitter publishes framed records. Only BuildChain needs it.
	Submitter Submitter
}

// DefaultBuilderConfig returns a configuration using the cbor family,
// crypto-backed randomness and the default generator pool.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Codec:       codec.MustNew(codec.CBOR),
		Rand:        metanet.CryptoRand(),
		Pool:        metanet.DefaultPool(),
		Attachments: DefaultAttachments,
	}
}

// Builder assembles records and submits them as a chain.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder validates cfg and returns a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Codec == nil {
		return nil, fmt.Errorf("%w: codec", ErrNilParam)
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("%w: rand", ErrNilParam)
	}
	if cfg.Attachments < 0 {
		return nil, fmt.Errorf("%w: attachments must be >= 0, got %d", ErrInvalidConfig, cfg.Attachments)
	}
	if cfg.Attachments > 0 && len(cfg.Pool) == 0 {
		return nil, fmt.Errorf("%w: empty generator pool", ErrInvalidConfig)
	}
	return &Builder{cfg: cfg}, nil
}

// Family returns the codec family records are encoded with.
func (b *Builder) Family() codec.Family { return b.cfg.Codec.Family() }

// NewNode creates the record for one chain position and attaches the
// payloads produced by Attachments random draws from the pool.
func (b *Builder) NewNode(address, parentTxID string) (*metanet.Record, error) {
	r, err := metanet.NewRecord(address, parentTxID, b.cfg.Rand)
	if err != nil {
		return nil, err
	}
	for i := 0; i < b.cfg.Attachments; i++ {
		g := b.cfg.Pool[b.cfg.Rand.Intn(len(b.cfg.Pool))]
		if g == nil {
			continue
		}
		p, err := g.Generate(b.cfg.Rand)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i, err)
		}
		r.Attach(p)
	}
	return r, nil
}

// Assembly is a record ready for submission.
type Assembly struct {
	Record  *metanet.Record
	Encoded []byte
	Framed  []byte
}

// Assemble builds, encodes and frames the record for one chain position.
// Framed output that would not fit in a data-carrier output fails with
// tx.ErrSizeLimitExceeded.
func (b *Builder) Assemble(address, parentTxID string) (*Assembly, error) {
	r, err := b.NewNode(address, parentTxID)
	if err != nil {
		return nil, err
	}
	return b.AssembleRecord(r)
}

// AssembleRecord encodes and frames an existing record.
func (b *Builder) AssembleRecord(r *metanet.Record) (*Assembly, error) {
	encoded, err := metanet.Encode(b.cfg.Codec, r)
	if err != nil {
		return nil, err
	}
	framed := tx.Frame(encoded)
	if err := tx.CheckSize(framed); err != nil {
		return nil, err
	}
	return &Assembly{Record: r, Encoded: encoded, Framed: framed}, nil
}

// Link describes one submitted chain position.
type Link struct {
	Index        int          `cbor:"index"`
	TxID         string       `cbor:"txid"`
	ParentTxID   string       `cbor:"parent_txid"`
	RootTxID     string       `cbor:"root_txid"`
	Address      string       `cbor:"address"`
	Name         string       `cbor:"name"`
	Subprotocols int          `cbor:"subprotocols"`
	Size         int          `cbor:"size"`
	Family       codec.Family `cbor:"family"`
}

// ChainRequest describes a chain to build or extend.
type ChainRequest struct {
	// Address controls every node. When empty it is taken from the
	// Submitter if it implements AddressSource.
	Address string

	// Count is the number of nodes to add.
	Count int

	// ParentTxID extends an existing chain from this tip. Empty starts a
	// new chain with a root node.
	ParentTxID string

	// RootTxID and StartIndex describe the existing chain when extending.
	RootTxID   string
	StartIndex int

	// OnLink, if set, observes each link after it is submitted. A non-nil
	// error stops the build.
	OnLink func(Link) error
}

// BuildChain submits req.Count nodes in order, each one the child of the
// transaction returned for the previous node. It stops at the first
// failure, returning the links submitted so far and a *NodeError naming
// the failed position. Size checks run before anything is submitted for
// that node.
func (b *Builder) BuildChain(ctx context.Context, req ChainRequest) ([]Link, error) {
	if b.cfg.Submitter == nil {
		return nil, fmt.Errorf("%w: submitter", ErrNilParam)
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, req.Count)
	}
	if req.ParentTxID != "" && req.RootTxID == "" {
		return nil, fmt.Errorf("%w: extending a chain requires its root txid", ErrInvalidRequest)
	}

	address := req.Address
	if address == "" {
		src, ok := b.cfg.Submitter.(AddressSource)
		if !ok {
			return nil, ErrNoAddress
		}
		var err error
		if address, err = src.DefaultAddress(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoAddress, err)
		}
	}

	parent, root := req.ParentTxID, req.RootTxID
	links := make([]Link, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		idx := req.StartIndex + i
		if err := ctx.Err(); err != nil {
			return links, &NodeError{Index: idx, Err: err}
		}

		a, err := b.Assemble(address, parent)
		if err != nil {
			return links, &NodeError{Index: idx, Err: err}
		}
		txid, err := b.cfg.Submitter.Submit(ctx, a.Framed, address)
		if err != nil {
			return links, &NodeError{Index: idx, Err: err}
		}
		if root == "" {
			root = txid
		}

		link := Link{
			Index:        idx,
			TxID:         txid,
			ParentTxID:   a.Record.ParentTxID,
			RootTxID:     root,
			Address:      address,
			Name:         a.Record.Attributes.Name,
			Subprotocols: len(a.Record.Subprotocols),
			Size:         len(a.Framed),
			Family:       b.cfg.Codec.Family(),
		}
		links = append(links, link)
		log.Infof("Node %d: %s (parent %s, %d subprotocols, %d bytes)",
			idx, txid, link.ParentTxID, link.Subprotocols, link.Size)

		if req.OnLink != nil {
			if err := req.OnLink(link); err != nil {
				return links, &NodeError{Index: idx, Err: err}
			}
		}
		parent = txid
	}
	return links, nil
}
