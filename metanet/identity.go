package metanet

import (
	"encoding/hex"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// HashIdentity links a node to its parent: the lowercase hex of
// SHA256(SHA256(address || parentTxID)) over the UTF-8 bytes, with no
// separator between the two strings.
func HashIdentity(address, parentTxID string) string {
	return hex.EncodeToString(bsvhash.Sha256d([]byte(address + parentTxID)))
}

// VerifyLink checks that a record's index_parent is the identity hash of
// its address and parent. Root nodes only need to satisfy the root
// invariant.
func VerifyLink(r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.IsRoot() {
		return nil
	}
	if want := HashIdentity(r.Address, r.ParentTxID); r.Attributes.IndexParent != want {
		return fmt.Errorf("%w: got %s, want %s", ErrIndexParentMismatch, r.Attributes.IndexParent, want)
	}
	return nil
}
