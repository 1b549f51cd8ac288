package tx

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	framed := Frame([]byte{0x01, 0x02})
	assert.Equal(t, []byte("meta\x01\x02"), framed)
	assert.Equal(t, []byte(MetaFlag), MetaFlagBytes)
	assert.Equal(t, MetaFlagBytes, Frame(nil))
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(make([]byte, MaxDataCarrierSize-1)))
	assert.ErrorIs(t, CheckSize(make([]byte, MaxDataCarrierSize)), ErrSizeLimitExceeded)
	assert.ErrorIs(t, CheckSize(make([]byte, MaxDataCarrierSize+1)), ErrSizeLimitExceeded)
}

func TestBuildOPReturnScriptEmpty(t *testing.T) {
	_, err := BuildOPReturnScript(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

// Each push style puts the flag at a different offset inside the window.
func TestExtractPayloadPushStyles(t *testing.T) {
	tests := []struct {
		name       string
		payloadLen int
		flagOffset int
		pushOp     byte
	}{
		{"direct push", 10, 2, 0x0e},
		{"OP_PUSHDATA1", 200, 3, script.OpPUSHDATA1},
		{"OP_PUSHDATA2", 1000, 4, script.OpPUSHDATA2},
		{"OP_PUSHDATA4", 70000, 6, script.OpPUSHDATA4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte{0xab}, tt.payloadLen)
			s, err := BuildOPReturnScript(Frame(payload))
			require.NoError(t, err)

			raw := s.Bytes()
			assert.Equal(t, byte(script.OpRETURN), raw[0])
			assert.Equal(t, tt.pushOp, raw[1])
			assert.Equal(t, MetaFlagBytes, raw[tt.flagOffset:tt.flagOffset+4])

			got, ok := ExtractPayload(raw)
			require.True(t, ok)
			assert.Equal(t, payload, got)
		})
	}
}

func TestExtractPayloadEveryOffsetInWindow(t *testing.T) {
	payload := []byte("0123456789")
	for offset := FlagScanStart; offset <= FlagScanEnd; offset++ {
		s := append([]byte{script.OpRETURN}, bytes.Repeat([]byte{0x00}, offset-1)...)
		s = append(s, MetaFlagBytes...)
		s = append(s, payload...)

		got, ok := ExtractPayload(s)
		require.True(t, ok, "offset %d", offset)
		assert.Equal(t, payload, got, "offset %d", offset)
	}
}

// A 1-byte length prefix behind OP_PUSHDATA1 places the flag at offset 3.
func TestExtractPayloadOffsetThree(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := []byte{script.OpRETURN, script.OpPUSHDATA1, byte(len(MetaFlagBytes) + len(payload))}
	s = append(s, MetaFlagBytes...)
	s = append(s, payload...)

	got, ok := ExtractPayload(s)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestExtractPayloadSkips(t *testing.T) {
	flagged := func(prefix []byte) []byte {
		s := append([]byte{}, prefix...)
		s = append(s, MetaFlagBytes...)
		return append(s, 0x01, 0x02)
	}

	tests := []struct {
		name   string
		script []byte
	}{
		{"empty", nil},
		{"OP_RETURN only", []byte{script.OpRETURN}},
		{"not OP_RETURN", flagged([]byte{script.OpDUP, 0x0e})},
		{"OP_FALSE OP_RETURN", flagged([]byte{script.Op0, script.OpRETURN, 0x0e})},
		{"flag at offset 1", flagged([]byte{script.OpRETURN})},
		{"flag at offset 7", flagged([]byte{script.OpRETURN, 0, 0, 0, 0, 0, 0})},
		{"different flag", append([]byte{script.OpRETURN, 0x0e}, []byte("metx0123")...)},
		{"truncated flag", []byte{script.OpRETURN, 0x04, 'm', 'e', 't'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPayload(tt.script)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestExtractPayloadEmptyAfterFlag(t *testing.T) {
	got, ok := ExtractPayload(append([]byte{script.OpRETURN, 0x04}, MetaFlagBytes...))
	assert.True(t, ok)
	assert.Empty(t, got)
}
