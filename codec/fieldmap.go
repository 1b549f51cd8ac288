package codec

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldMap is a string-keyed map that every family encodes with its keys
// in ascending order, so equal maps always produce equal bytes. Nested
// maps and slices are ordered the same way.
type FieldMap map[string]interface{}

func (m FieldMap) keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ordered wraps every nested map[string]interface{} in v as a FieldMap.
func ordered(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return FieldMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = ordered(e)
		}
		return out
	default:
		return v
	}
}

// MarshalCBOR writes a definite-length map head followed by the pairs.
func (m FieldMap) MarshalCBOR() ([]byte, error) {
	out := cborMapHead(len(m))
	for _, k := range m.keys() {
		kb, err := cbor.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := cbor.Marshal(ordered(m[k]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out = append(out, kb...)
		out = append(out, vb...)
	}
	return out, nil
}

// cborMapHead encodes the head of a major type 5 item of n pairs.
func cborMapHead(n int) []byte {
	const major = 0xa0
	switch {
	case n < 24:
		return []byte{major | byte(n)}
	case n <= 0xff:
		return []byte{major | 24, byte(n)}
	case n <= 0xffff:
		b := []byte{major | 25, 0, 0}
		binary.BigEndian.PutUint16(b[1:], uint16(n))
		return b
	default:
		b := []byte{major | 26, 0, 0, 0, 0}
		binary.BigEndian.PutUint32(b[1:], uint32(n))
		return b
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (m FieldMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, k := range m.keys() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(ordered(m[k])); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// MarshalBSON implements bson.Marshaler.
func (m FieldMap) MarshalBSON() ([]byte, error) {
	d := make(bson.D, 0, len(m))
	for _, k := range m.keys() {
		d = append(d, bson.E{Key: k, Value: ordered(m[k])})
	}
	return bson.Marshal(d)
}

// Plain converts decoded field values to the types cbor and msgpack
// already produce: bson documents become map[string]interface{}, arrays
// []interface{} and generic binary []byte. Other values are returned as is.
func Plain(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case primitive.M:
		return Plain(map[string]interface{}(t))
	case primitive.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = Plain(e.Value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case primitive.A:
		return Plain([]interface{}(t))
	case primitive.Binary:
		if t.Subtype == 0x00 {
			return t.Data
		}
		return t
	default:
		return v
	}
}

// PlainMap applies Plain to every value of m.
func PlainMap(m map[string]interface{}) map[string]interface{} {
	return Plain(m).(map[string]interface{})
}
