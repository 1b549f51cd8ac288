// Package metanet models the node records linked together on chain: the
// record layout, the identity hash tying a node to its parent, the
// subprotocol payloads a node can carry, and record (de)serialization.
package metanet

import "fmt"

const (
	// Null is the sentinel stored in parent_txid and index_parent of a root node.
	Null = "NULL"

	// NameLen is the length of a node's random name attribute.
	NameLen = 5

	// nameAlphabet matches the ASCII letter set node names are drawn from.
	nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Attributes holds the internal attributes of a node.
type Attributes struct {
	Name        string `cbor:"name" msgpack:"name" bson:"name"`
	IndexParent string `cbor:"index_parent" msgpack:"index_parent" bson:"index_parent"`
}

// Record is one link of the chain as stored in a data-carrier output.
type Record struct {
	Address      string     `cbor:"address" msgpack:"address" bson:"address"`
	ParentTxID   string     `cbor:"parent_txid" msgpack:"parent_txid" bson:"parent_txid"`
	Attributes   Attributes `cbor:"attributes" msgpack:"attributes" bson:"attributes"`
	Subprotocols []Payload  `cbor:"subprotocols" msgpack:"subprotocols" bson:"subprotocols"`
}

// NewRecord creates a record for address whose parent is parentTxID.
// An empty parentTxID or Null creates a root node. The name attribute is
// drawn from rnd and, for non-root nodes, index_parent is the identity
// hash of (address, parentTxID).
func NewRecord(address, parentTxID string, rnd Rand) (*Record, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidRecord)
	}
	if rnd == nil {
		return nil, fmt.Errorf("%w: rand", ErrNilParam)
	}
	if parentTxID == "" {
		parentTxID = Null
	}

	r := &Record{
		Address:    address,
		ParentTxID: parentTxID,
		Attributes: Attributes{
			Name:        RandomName(rnd),
			IndexParent: Null,
		},
		Subprotocols: []Payload{},
	}
	if parentTxID != Null {
		r.Attributes.IndexParent = HashIdentity(address, parentTxID)
	}
	return r, nil
}

// RandomName returns NameLen letters drawn from rnd.
func RandomName(rnd Rand) string {
	b := make([]byte, NameLen)
	for i := range b {
		b[i] = nameAlphabet[rnd.Intn(len(nameAlphabet))]
	}
	return string(b)
}

// IsRoot returns true if this node has no parent.
func (r *Record) IsRoot() bool {
	return r.ParentTxID == Null
}

// Attach appends a subprotocol payload. Order of attachment is preserved
// on the wire.
func (r *Record) Attach(p Payload) {
	r.Subprotocols = append(r.Subprotocols, p)
}

// Validate checks the structural invariants of a record: a non-empty
// address and parent fields that agree on whether the node is a root.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	if r.Address == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidRecord)
	}
	if r.ParentTxID == "" {
		return fmt.Errorf("%w: empty parent_txid", ErrInvalidRecord)
	}
	if r.IsRoot() != (r.Attributes.IndexParent == Null) {
		return fmt.Errorf("%w: parent_txid=%q index_parent=%q",
			ErrRootInvariant, r.ParentTxID, r.Attributes.IndexParent)
	}
	return nil
}
