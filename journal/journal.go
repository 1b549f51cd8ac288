// Package journal records the links of chains built locally so that an
// interrupted build can be resumed from its tip.
package journal

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/metachain/chain"
	"github.com/bitfsorg/metachain/codec"
)

// DefaultFileName is the journal file name inside the data directory.
const DefaultFileName = "journal.db"

var (
	bucketLinks  = []byte("links")
	bucketChains = []byte("chains")
)

// Journal wraps a bbolt database of submitted links. Links are keyed by
// txid; each chain is a nested bucket under its root txid mapping chain
// index to txid.
type Journal struct {
	db    *bbolt.DB
	codec codec.Codec
}

// ChainSummary describes one recorded chain.
type ChainSummary struct {
	RootTxID string
	Links    int
	Tip      *chain.Link
}

// Open opens or creates the journal at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLinks, bucketChains} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create buckets: %w", err)
	}

	log.Debugf("Opened journal %s", dbPath)
	return &Journal{db: db, codec: codec.MustNew(codec.CBOR)}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// indexKey encodes a chain index as a big-endian key for sorted storage.
func indexKey(i int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(i))
	return k
}

// PutLink records a submitted link under its txid and chain position.
func (j *Journal) PutLink(l chain.Link) error {
	if l.TxID == "" || l.RootTxID == "" || l.Index < 0 {
		return fmt.Errorf("%w: txid=%q root=%q index=%d", ErrInvalidLink, l.TxID, l.RootTxID, l.Index)
	}
	data, err := j.codec.Marshal(l)
	if err != nil {
		return fmt.Errorf("journal: encode link: %w", err)
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		links := tx.Bucket(bucketLinks)
		if links.Get([]byte(l.TxID)) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateLink, l.TxID)
		}
		chainBucket, err := tx.Bucket(bucketChains).CreateBucketIfNotExists([]byte(l.RootTxID))
		if err != nil {
			return fmt.Errorf("journal: create chain bucket: %w", err)
		}
		key := indexKey(l.Index)
		if existing := chainBucket.Get(key); existing != nil {
			return fmt.Errorf("%w: %s index %d is %s", ErrIndexConflict, l.RootTxID, l.Index, existing)
		}

		if err := links.Put([]byte(l.TxID), data); err != nil {
			return fmt.Errorf("journal: put link: %w", err)
		}
		if err := chainBucket.Put(key, []byte(l.TxID)); err != nil {
			return fmt.Errorf("journal: put chain index: %w", err)
		}
		log.Tracef("Recorded link %d of %s: %s", l.Index, l.RootTxID, l.TxID)
		return nil
	})
}

// GetLink returns the link recorded for txid.
func (j *Journal) GetLink(txid string) (*chain.Link, error) {
	var link chain.Link
	err := j.db.View(func(tx *bbolt.Tx) error {
		return j.getLink(tx, []byte(txid), &link)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (j *Journal) getLink(tx *bbolt.Tx, txid []byte, link *chain.Link) error {
	data := tx.Bucket(bucketLinks).Get(txid)
	if data == nil {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, txid)
	}
	if err := j.codec.Unmarshal(data, link); err != nil {
		return fmt.Errorf("journal: decode link %s: %w", txid, err)
	}
	return nil
}

// Links returns the links of the chain rooted at root, in index order.
func (j *Journal) Links(root string) ([]chain.Link, error) {
	var links []chain.Link
	err := j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChains).Bucket([]byte(root))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrChainNotFound, root)
		}
		return b.ForEach(func(_, txid []byte) error {
			var link chain.Link
			if err := j.getLink(tx, txid, &link); err != nil {
				return err
			}
			links = append(links, link)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Tip returns the link with the greatest index in the chain rooted at root.
func (j *Journal) Tip(root string) (*chain.Link, error) {
	var link chain.Link
	err := j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChains).Bucket([]byte(root))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrChainNotFound, root)
		}
		k, txid := b.Cursor().Last()
		if k == nil {
			return fmt.Errorf("%w: %s", ErrChainNotFound, root)
		}
		return j.getLink(tx, txid, &link)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Chains summarizes every recorded chain, ordered by root txid.
func (j *Journal) Chains() ([]ChainSummary, error) {
	var out []ChainSummary
	err := j.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChains).ForEachBucket(func(root []byte) error {
			b := tx.Bucket(bucketChains).Bucket(root)
			summary := ChainSummary{RootTxID: string(root), Links: b.Stats().KeyN}
			if _, txid := b.Cursor().Last(); txid != nil {
				var tip chain.Link
				if err := j.getLink(tx, txid, &tip); err != nil {
					return err
				}
				summary.Tip = &tip
			}
			out = append(out, summary)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resume returns the request fields that continue the chain containing
// txid from its current tip.
func (j *Journal) Resume(txid string) (chain.ChainRequest, error) {
	link, err := j.GetLink(txid)
	if err != nil {
		return chain.ChainRequest{}, err
	}
	tip, err := j.Tip(link.RootTxID)
	if err != nil {
		return chain.ChainRequest{}, err
	}
	return chain.ChainRequest{
		Address:    tip.Address,
		ParentTxID: tip.TxID,
		RootTxID:   tip.RootTxID,
		StartIndex: tip.Index + 1,
	}, nil
}

// Recorder returns a callback for chain.ChainRequest.OnLink that records
// every submitted link.
func (j *Journal) Recorder() func(chain.Link) error {
	return j.PutLink
}
