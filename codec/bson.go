package codec

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec encodes with the MongoDB driver's bson package. BSON requires
// a document at the top level, so only structs and maps can be marshaled.
type bsonCodec struct{}

func (bsonCodec) Family() Family { return BSON }

func (bsonCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: bson: %w", ErrEncode, err)
	}
	return data, nil
}

func (bsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := bson.Raw(data).Validate(); err != nil {
		return fmt.Errorf("%w: bson: %w", ErrDecode, err)
	}
	if err := bson.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: bson: %w", ErrDecode, err)
	}
	return nil
}
