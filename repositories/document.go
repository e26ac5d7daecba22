package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// Documents are stored as BSON values under "{collection}:..." keys.
// Ordered collections embed a 19-digit zero padded UnixNano timestamp so
// that a prefix scan returns them in creation order:
//
//	chat:{team}:{ts}:{id}
//	msg:{chat}:{ts}:{id}
//	ann:{team}:{ts}:{id}
//
// Secondary indexes live under "idx:" and point at the primary key.

const maxConflictRetries = 5

var errNotFound = stderrors.New("document not found")

func orderedKey(collection, parent string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%019d:%s", collection, parent, at.UnixNano(), id))
}

func prefixKey(collection, parent string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", collection, parent))
}

func indexKey(parts ...string) []byte {
	key := "idx"
	for _, p := range parts {
		key += ":" + p
	}
	return []byte(key)
}

func putDocument(txn *badger.Txn, key []byte, doc any) error {
	bytes, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, bytes)
}

func getDocument(txn *badger.Txn, key []byte, doc any) error {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return bson.Unmarshal(val, doc)
	})
}

// getIndexed follows a secondary index to the primary key and decodes it.
func getIndexed(txn *badger.Txn, index []byte, doc any) ([]byte, error) {
	item, err := txn.Get(index)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	primary, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return primary, getDocument(txn, primary, doc)
}

// scanPrefix calls fn with every value under prefix, in key order.
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(key, val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		if err := item.Value(func(val []byte) error {
			return fn(key, val)
		}); err != nil {
			return err
		}
	}
	return nil
}

// scanKeys is scanPrefix without values, for index lookups.
func scanKeys(txn *badger.Txn, prefix []byte) [][]byte {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// update runs fn in a read-write transaction and retries when another
// writer touched the same keys first. Set-union and set-difference writes
// (reactions, read receipts, members) stay commutative this way.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func fromNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func toNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
