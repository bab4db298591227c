package checkpoint

import (
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"go.etcd.io/bbolt"
)

var checkpointBucket = []byte("checkpoint")

var (
	heightKey = []byte("height")
	hashKey   = []byte("hash")
)

// BoltStore is a Store backed by a single-file, single-writer bbolt
// database, the natural fit for a record this small that must survive
// process restarts.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path and
// ensures the checkpoint bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(checkpointBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create checkpoint bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Load implements Store.
func (s *BoltStore) Load() (uint32, chainhash.Hash, error) {
	var (
		height uint32
		hash   chainhash.Hash
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(checkpointBucket)
		if bucket == nil {
			return fmt.Errorf("checkpoint bucket not found")
		}

		heightBytes := bucket.Get(heightKey)
		hashBytes := bucket.Get(hashKey)

		if heightBytes == nil || hashBytes == nil {
			return fmt.Errorf("no checkpoint stored")
		}

		height = binary.LittleEndian.Uint32(heightBytes)

		copy(hash[:], hashBytes)

		return nil
	})
	if err != nil {
		return 0, chainhash.Hash{}, err
	}

	return height, hash, nil
}

// Save implements Store.
func (s *BoltStore) Save(height uint32, hash chainhash.Hash) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(checkpointBucket)
		if bucket == nil {
			return fmt.Errorf("checkpoint bucket not found")
		}

		heightBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(heightBytes, height)

		if err := bucket.Put(heightKey, heightBytes); err != nil {
			return err
		}

		return bucket.Put(hashKey, hash[:])
	})
}
