package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type msgpackCodec struct{}

func (msgpackCodec) Family() Family { return MsgPack }

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: msgpack: %w", ErrEncode, err)
	}
	return data, nil
}

// Unmarshal rejects trailing bytes after the first value, which
// msgpack.Unmarshal would otherwise ignore.
func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: msgpack: %w", ErrDecode, err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: msgpack: %d trailing bytes", ErrDecode, r.Len())
	}
	return nil
}
