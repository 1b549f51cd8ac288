// Package tx frames Metanet records into data-carrier (OP_RETURN) outputs
// and recovers them from output scripts.
package tx

import (
	"bytes"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// Metanet protocol constants.
var (
	// MetaFlagBytes is the Metanet protocol flag: "meta" in ASCII.
	MetaFlagBytes = []byte{0x6d, 0x65, 0x74, 0x61}
)

const (
	// MetaFlag is the string representation of the Metanet flag.
	MetaFlag = "meta"

	// MaxDataCarrierSize is the host's ceiling for data carried by one
	// output. Framed data must be strictly smaller.
	MaxDataCarrierSize = 100000

	// FlagScanStart and FlagScanEnd bound (inclusively) the script offsets
	// searched for MetaFlag.
	FlagScanStart = 2
	FlagScanEnd   = 6
)

// Frame prefixes an encoded record with MetaFlag.
func Frame(encoded []byte) []byte {
	framed := make([]byte, 0, len(MetaFlagBytes)+len(encoded))
	framed = append(framed, MetaFlagBytes...)
	return append(framed, encoded...)
}

// CheckSize returns ErrSizeLimitExceeded unless framed fits in a
// data-carrier output.
func CheckSize(framed []byte) error {
	if len(framed) >= MaxDataCarrierSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrSizeLimitExceeded, len(framed), MaxDataCarrierSize-1)
	}
	return nil
}

// BuildOPReturnScript creates an "OP_RETURN <data>" script with data in a
// single minimal push. This is the layout ExtractPayload reads back.
func BuildOPReturnScript(data []byte) (*script.Script, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPayload
	}
	s := &script.Script{}
	*s = append(*s, script.OpRETURN)
	if err := s.AppendPushData(data); err != nil {
		return nil, fmt.Errorf("%w: OP_RETURN push data: %w", ErrScriptBuild, err)
	}
	return s, nil
}

// ExtractPayload returns the bytes following MetaFlag in an output script,
// or ok=false if the script does not carry a Metanet record.
//
// The script must start with OP_RETURN. MetaFlag is then looked for at
// offsets FlagScanStart..FlagScanEnd, which is where it lands behind a
// direct push (offset 2), OP_PUSHDATA1 (3), OP_PUSHDATA2 (4) or
// OP_PUSHDATA4 (6). This is not a script parser: a flag pushed any other
// way, for instance behind OP_FALSE OP_RETURN, is not found. The window
// must stay as it is to read chains already published.
//
// The returned slice aliases s.
func ExtractPayload(s []byte) (payload []byte, ok bool) {
	if len(s) == 0 || s[0] != script.OpRETURN {
		return nil, false
	}
	for pos := FlagScanStart; pos <= FlagScanEnd; pos++ {
		end := pos + len(MetaFlagBytes)
		if end > len(s) {
			break
		}
		if bytes.Equal(s[pos:end], MetaFlagBytes) {
			return s[end:], true
		}
	}
	return nil, false
}
