package metanet

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/metachain/codec"
)

// wireRecord is the encoded shape of a Record. Subprotocols are held as
// []interface{} so every codec dispatches on the concrete payload type.
type wireRecord struct {
	Address      string        `cbor:"address" msgpack:"address" bson:"address"`
	ParentTxID   string        `cbor:"parent_txid" msgpack:"parent_txid" bson:"parent_txid"`
	Attributes   Attributes    `cbor:"attributes" msgpack:"attributes" bson:"attributes"`
	Subprotocols []interface{} `cbor:"subprotocols" msgpack:"subprotocols" bson:"subprotocols"`
}

// envelope is the first decoding pass: subprotocols stay as field maps
// until their protocol_id selects a concrete type.
type envelope struct {
	Address      string                   `cbor:"address" msgpack:"address" bson:"address"`
	ParentTxID   string                   `cbor:"parent_txid" msgpack:"parent_txid" bson:"parent_txid"`
	Attributes   Attributes               `cbor:"attributes" msgpack:"attributes" bson:"attributes"`
	Subprotocols []map[string]interface{} `cbor:"subprotocols" msgpack:"subprotocols" bson:"subprotocols"`
}

// Encode serializes a record with c.
func Encode(c codec.Codec, r *Record) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: codec", ErrNilParam)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: record", ErrNilParam)
	}

	w := wireRecord{
		Address:      r.Address,
		ParentTxID:   r.ParentTxID,
		Attributes:   r.Attributes,
		Subprotocols: make([]interface{}, 0, len(r.Subprotocols)),
	}
	for i, p := range r.Subprotocols {
		if p == nil {
			return nil, fmt.Errorf("%w: subprotocol[%d]", ErrNilParam, i)
		}
		if g, ok := p.(Generic); ok {
			w.Subprotocols = append(w.Subprotocols, codec.FieldMap(g))
			continue
		}
		w.Subprotocols = append(w.Subprotocols, p)
	}
	return c.Marshal(w)
}

// Decode deserializes a record encoded with c. Subprotocols with a
// registered protocol_id and exactly that type's keys decode into the
// concrete type, others into Generic. Codec failures wrap codec.ErrDecode.
func Decode(c codec.Codec, data []byte) (*Record, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: codec", ErrNilParam)
	}

	var env envelope
	if err := c.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	r := &Record{
		Address:      env.Address,
		ParentTxID:   env.ParentTxID,
		Attributes:   env.Attributes,
		Subprotocols: make([]Payload, 0, len(env.Subprotocols)),
	}
	for i, fields := range env.Subprotocols {
		p, err := decodePayload(c, fields)
		if err != nil {
			return nil, fmt.Errorf("subprotocol[%d]: %w", i, err)
		}
		r.Subprotocols = append(r.Subprotocols, p)
	}
	return r, nil
}

func decodePayload(c codec.Codec, fields map[string]interface{}) (Payload, error) {
	id, _ := fields["protocol_id"].(string)
	p := newPayload(id)
	if p == nil {
		return Generic(codec.PlainMap(fields)), nil
	}

	// A payload whose key set differs from the registered type's stays
	// Generic so no key is dropped or invented.
	keys, err := wireKeys(c, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, id, err)
	}
	if !sameKeys(keys, fields) {
		return Generic(codec.PlainMap(fields)), nil
	}

	// Re-encode the field map with the same codec so the typed decode sees
	// exactly the wire representation of each value.
	raw, err := c.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, id, err)
	}
	if err := c.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, id, err)
	}
	return p, nil
}

// wireKeys returns the keys p encodes with under c.
func wireKeys(c codec.Codec, p Payload) (map[string]interface{}, error) {
	raw, err := c.Marshal(p)
	if err != nil {
		return nil, err
	}
	var keys map[string]interface{}
	if err := c.Unmarshal(raw, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func sameKeys(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// DecodeAny tries every codec family in codec.Families order and returns
// the first decoding that yields a valid record, with the family used.
// It is for readers that were not told which family a chain uses.
func DecodeAny(data []byte) (*Record, codec.Family, error) {
	var errs []error
	for _, f := range codec.Families {
		c, err := codec.New(f)
		if err != nil {
			return nil, "", err
		}
		r, err := Decode(c, data)
		if err == nil {
			err = r.Validate()
		}
		if err == nil {
			return r, f, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", f, err))
	}
	return nil, "", fmt.Errorf("%w: no encoding family matched: %w", codec.ErrDecode, errors.Join(errs...))
}
