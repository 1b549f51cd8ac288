package codec

import "errors"

var (
	// ErrUnknownFamily indicates the encoding family name is not recognized.
	ErrUnknownFamily = errors.New("codec: unknown encoding family (must be \"cbor\", \"bson\", or \"msgpack\")")

	// ErrEncode indicates a value could not be serialized.
	ErrEncode = errors.New("codec: encode failed")

	// ErrDecode indicates the bytes are not valid for the selected family.
	ErrDecode = errors.New("codec: decode failed")
)
