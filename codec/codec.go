// Package codec provides the self-describing binary encodings a Metanet
// node record can be carried in. The family is chosen at deployment time;
// nothing in the encoded bytes identifies which family produced them.
package codec

import (
	"fmt"
	"strings"
)

// Family names one of the interchangeable binary map/array encodings.
type Family string

const (
	// CBOR is RFC 8949 Concise Binary Object Representation.
	CBOR Family = "cbor"
	// BSON is the MongoDB binary document format.
	BSON Family = "bson"
	// MsgPack is MessagePack.
	MsgPack Family = "msgpack"
)

// Families lists every supported family in the order candidate decoding
// attempts them. BSON goes last since its length-prefixed documents are
// the least likely to be mistaken for another family.
var Families = []Family{CBOR, MsgPack, BSON}

// String returns the family name.
func (f Family) String() string { return string(f) }

// ParseFamily converts a case-insensitive family name into a Family.
func ParseFamily(name string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(name))); f {
	case CBOR, BSON, MsgPack:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
}

// Codec serializes values to and from a single encoding family.
//
// Implementations encode Go structs using their family-specific struct
// tags and decode nested maps as map[string]interface{}.
type Codec interface {
	// Family reports which encoding this codec produces.
	Family() Family

	// Marshal serializes v. Errors wrap ErrEncode.
	Marshal(v interface{}) ([]byte, error)

	// Unmarshal deserializes data into v. Errors wrap ErrDecode.
	Unmarshal(data []byte, v interface{}) error
}

// New returns the codec for the given family.
func New(f Family) (Codec, error) {
	switch f {
	case CBOR:
		return newCBORCodec()
	case BSON:
		return bsonCodec{}, nil
	case MsgPack:
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, string(f))
	}
}

// MustNew is like New but panics on an unknown family. It is intended for
// package-level variables built from the Family constants.
func MustNew(f Family) Codec {
	c, err := New(f)
	if err != nil {
		panic(err)
	}
	return c
}
