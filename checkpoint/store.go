// Package checkpoint persists the (height, last-block-hash) tuple a session
// resumes sync from, so a restart doesn't walk the header chain from genesis.
package checkpoint

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"go.uber.org/zap"
)

// Store loads and saves the single checkpoint tuple a session tracks.
// Implementations are expected to be safe for use by one session at a time;
// this client never shares a store across concurrent peers.
type Store interface {
	Load() (height uint32, hash chainhash.Hash, err error)
	Save(height uint32, hash chainhash.Hash) error
}

// GenesisHeight and GenesisHash describe the compiled-in, genesis-era
// checkpoint a session seeds from when no store entry exists. The value
// is Dogecoin mainnet's genesis block, matching the bundled network
// profile in wire/protocol.go.
const GenesisHeight uint32 = 0

// GenesisHash is Dogecoin mainnet's genesis block hash
// (1a91e3dace36e2be3bf030a65679fe821aa1d6ef92e7c9902eb318182c355691 in
// display order), byte-reversed into the internal little-endian
// chainhash.Hash representation.
var GenesisHash = chainhash.Hash{
	0x91, 0x56, 0x35, 0x2c, 0x18, 0x18, 0xb3, 0x2e,
	0x90, 0xc9, 0xe7, 0x92, 0xef, 0xd6, 0xa1, 0x1a,
	0x82, 0xfe, 0x79, 0x56, 0xa6, 0x30, 0xf0, 0x3b,
	0xbe, 0xe2, 0x36, 0xce, 0xda, 0xe3, 0x91, 0x1a,
}

// LoadOrGenesis calls store.Load, falling back to the compiled-in genesis
// checkpoint and logging the cause whenever the store reports an error.
// Per the error handling taxonomy, a checkpoint-store error is treated as a
// fresh start rather than propagated to the caller.
func LoadOrGenesis(store Store, log *zap.SugaredLogger) (uint32, chainhash.Hash) {
	height, hash, err := store.Load()
	if err != nil {
		log.Infow("checkpoint store empty or unreadable, seeding genesis",
			"error", err)

		return GenesisHeight, GenesisHash
	}

	return height, hash
}
