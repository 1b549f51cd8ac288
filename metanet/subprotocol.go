package metanet

import "sync"

// Protocol identifiers of the built-in subprotocols.
const (
	MediaProtocolID      = "MediaProtocolID"
	PastebinProtocolID   = "PastebinProtocolID"
	RandomDataProtocolID = "RandomDataProtocolID"
)

// Payload is an application-defined blob attached to a node. Every
// payload encodes as a map carrying a "protocol_id" key.
type Payload interface {
	ProtocolID() string
}

// Media carries a binary media file.
type Media struct {
	ID       string `cbor:"protocol_id" msgpack:"protocol_id" bson:"protocol_id"`
	MimeType string `cbor:"mime-type" msgpack:"mime-type" bson:"mime-type"`
	Filename string `cbor:"filename" msgpack:"filename" bson:"filename"`
	Artist   string `cbor:"artist" msgpack:"artist" bson:"artist"`
	Content  []byte `cbor:"content" msgpack:"content" bson:"content"`
}

// ProtocolID implements Payload.
func (m *Media) ProtocolID() string { return m.ID }

// Pastebin carries a UTF-8 text snippet. Title and Contents are kept as
// raw bytes so no text re-encoding happens on the way through a codec.
type Pastebin struct {
	ID          string   `cbor:"protocol_id" msgpack:"protocol_id" bson:"protocol_id"`
	Title       []byte   `cbor:"title" msgpack:"title" bson:"title"`
	Tags        []string `cbor:"tags" msgpack:"tags" bson:"tags"`
	ContentType string   `cbor:"content-type" msgpack:"content-type" bson:"content-type"`
	Charset     string   `cbor:"charset" msgpack:"charset" bson:"charset"`
	Contents    []byte   `cbor:"contents" msgpack:"contents" bson:"contents"`
}

// ProtocolID implements Payload.
func (p *Pastebin) ProtocolID() string { return p.ID }

// RandomData carries opaque binary data.
type RandomData struct {
	ID          string   `cbor:"protocol_id" msgpack:"protocol_id" bson:"protocol_id"`
	Tags        []string `cbor:"tags" msgpack:"tags" bson:"tags"`
	ContentType string   `cbor:"content-type" msgpack:"content-type" bson:"content-type"`
	Data        []byte   `cbor:"data" msgpack:"data" bson:"data"`
}

// ProtocolID implements Payload.
func (d *RandomData) ProtocolID() string { return d.ID }

// Generic holds a payload whose protocol_id has no registered type, or
// whose keys differ from the registered type's. Decoded values are plain
// Go types ([]byte, []interface{}, map[string]interface{}) whatever the
// family. Keys are encoded in sorted order.
type Generic map[string]interface{}

// ProtocolID implements Payload. It is empty when the key is missing or
// not a string.
func (g Generic) ProtocolID() string {
	id, _ := g["protocol_id"].(string)
	return id
}

var (
	payloadMu    sync.RWMutex
	payloadTypes = map[string]func() Payload{
		MediaProtocolID:      func() Payload { return &Media{} },
		PastebinProtocolID:   func() Payload { return &Pastebin{} },
		RandomDataProtocolID: func() Payload { return &RandomData{} },
	}
)

// RegisterPayload registers a factory for a protocol_id so that Decode
// produces the concrete type instead of Generic. The factory must return
// a pointer the codecs can decode into. Registering an existing id
// replaces it.
func RegisterPayload(protocolID string, factory func() Payload) {
	payloadMu.Lock()
	defer payloadMu.Unlock()
	payloadTypes[protocolID] = factory
}

// newPayload returns an empty payload for protocolID, or nil if none is registered.
func newPayload(protocolID string) Payload {
	payloadMu.RLock()
	defer payloadMu.RUnlock()
	factory, ok := payloadTypes[protocolID]
	if !ok {
		return nil
	}
	return factory()
}
