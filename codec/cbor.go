package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborCodec encodes with fxamacker/cbor. Struct fields are written in
// declaration order so the bytes match what other Metanet tooling emits
// for the same record.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (*cborCodec, error) {
	enc, err := cbor.EncOptions{}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("codec: cbor encode mode: %w", err)
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("codec: cbor decode mode: %w", err)
	}
	return &cborCodec{enc: enc, dec: dec}, nil
}

func (c *cborCodec) Family() Family { return CBOR }

func (c *cborCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: cbor: %w", ErrEncode, err)
	}
	return data, nil
}

func (c *cborCodec) Unmarshal(data []byte, v interface{}) error {
	if err := c.dec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: cbor: %w", ErrDecode, err)
	}
	return nil
}
