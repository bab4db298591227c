// Package session holds the per-connection mutable record a peer state
// machine drives: run flag, sync-completed flag, current tip height, last
// header block hash, outstanding ping nonce, and a reusable send buffer.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/chainwatch/spvpeer/checkpoint"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// minSendBufCap is the minimum reusable send-buffer capacity, large enough
// to hold a version message plus header without reallocating mid-session.
const minSendBufCap = 3096

// State is one peer connection's mutable record. The peer state machine is
// its sole logical owner; a small field subset is shared between the reader
// goroutine and the driver (the reader writes Height, Synced,
// LastHeadersHash and Run; the driver writes PingNonce, which the reader's
// pong handler reads), so each is guarded for cross-goroutine visibility
// rather than left as a bare field.
type State struct {
	// Run is cleared from any goroutine to signal the session should stop.
	Run atomic.Bool

	// Synced is set once header sync has exhausted the peer's tip.
	Synced atomic.Bool

	// Height is the current chain tip height as observed via headers/inv.
	Height atomic.Uint32

	// PingNonce is the nonce of the outstanding ping awaiting a pong.
	PingNonce atomic.Uint64

	// ID correlates this session's log lines across reconnects.
	ID uuid.UUID

	// Log is a logger pre-tagged with ID.
	Log *zap.SugaredLogger

	hashMu          sync.RWMutex
	lastHeadersHash chainhash.Hash

	sendMu  sync.Mutex
	SendBuf []byte

	store checkpoint.Store
}

// New seeds a State from store, falling back to the compiled-in genesis
// checkpoint when the store is empty or errors.
func New(store checkpoint.Store, log *zap.SugaredLogger) *State {
	id := uuid.New()

	taggedLog := log.With("session", id.String())

	height, hash := checkpoint.LoadOrGenesis(store, taggedLog)

	s := &State{
		ID:      id,
		Log:     taggedLog,
		SendBuf: make([]byte, 0, minSendBufCap),
		store:   store,
	}

	s.Height.Store(height)
	s.lastHeadersHash = hash
	s.Run.Store(true)

	return s
}

// LastHeadersHash returns the most recently recorded header-chain locator.
func (s *State) LastHeadersHash() chainhash.Hash {
	s.hashMu.RLock()
	defer s.hashMu.RUnlock()

	return s.lastHeadersHash
}

// SetLastHeadersHash updates the header-chain locator.
func (s *State) SetLastHeadersHash(hash chainhash.Hash) {
	s.hashMu.Lock()
	defer s.hashMu.Unlock()

	s.lastHeadersHash = hash
}

// Persist writes the current (height, last-headers-hash) tuple to the
// checkpoint store. Store errors are logged, not propagated: losing a
// checkpoint write costs a longer resync on next start, never correctness.
func (s *State) Persist() {
	height := s.Height.Load()
	hash := s.LastHeadersHash()

	if err := s.store.Save(height, hash); err != nil {
		s.Log.Warnw("checkpoint save failed", "error", err, "height", height)
	}
}

// Send runs fn while holding the connection-scoped send mutex, serialising
// every write to the socket behind a single mutual-exclusion point: the
// buffer/connection is exclusively held for the duration of one send.
func (s *State) Send(fn func() error) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	return fn()
}
