package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bitfsorg/metachain/chain"
	"github.com/bitfsorg/metachain/metanet"
	"github.com/bitfsorg/metachain/network"
)

// printFound writes a decoded record in a human-readable layout.
func printFound(w io.Writer, txid string, f *chain.Found) {
	r := f.Record
	fmt.Fprintf(w, "txid:         %s\n", txid)
	fmt.Fprintf(w, "output:       %d\n", f.OutputIndex)
	fmt.Fprintf(w, "encoding:     %s\n", f.Family)
	fmt.Fprintf(w, "address:      %s\n", r.Address)
	fmt.Fprintf(w, "parent_txid:  %s\n", r.ParentTxID)
	fmt.Fprintf(w, "name:         %s\n", r.Attributes.Name)
	fmt.Fprintf(w, "index_parent: %s\n", r.Attributes.IndexParent)
	fmt.Fprintf(w, "subprotocols: %d\n", len(r.Subprotocols))
	for i, p := range r.Subprotocols {
		fmt.Fprintf(w, "  [%d] %s\n", i, describePayload(p))
	}
}

// printStatus writes where a transaction sits relative to the chain tip.
func printStatus(w io.Writer, status *network.TxStatus, tip uint64) {
	fmt.Fprintf(w, "confirmations: %d\n", status.Confirmations)
	if status.Confirmed {
		fmt.Fprintf(w, "block:        %s at %d\n", status.BlockHash, status.BlockHeight)
	} else {
		fmt.Fprintf(w, "block:        unconfirmed\n")
	}
	fmt.Fprintf(w, "tip height:   %d\n", tip)
}

func describePayload(p metanet.Payload) string {
	switch v := p.(type) {
	case *metanet.Media:
		return fmt.Sprintf("%s %s %q by %s, %d bytes", v.ID, v.MimeType, v.Filename, v.Artist, len(v.Content))
	case *metanet.Pastebin:
		return fmt.Sprintf("%s %q [%s] %s: %q", v.ID, v.Title, strings.Join(v.Tags, ","), v.ContentType, v.Contents)
	case *metanet.RandomData:
		return fmt.Sprintf("%s [%s] %s, %d bytes", v.ID, strings.Join(v.Tags, ","), v.ContentType, len(v.Data))
	case metanet.Generic:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("%s fields: %s", v.ProtocolID(), strings.Join(keys, ", "))
	default:
		return p.ProtocolID()
	}
}
