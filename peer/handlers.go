package peer

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/chainwatch/spvpeer/bloom"
	"github.com/chainwatch/spvpeer/wire"
)

// handlers dispatches a decoded message by command string to the function
// that applies its effect to the peer's state machine. A command absent
// from this table is drained and logged by readOne rather than treated as
// fatal.
var handlers = map[string]func(*Peer, wire.Message) (bool, error){
	wire.CmdVersion:     handleVersion,
	wire.CmdVerAck:      handleVerAck,
	wire.CmdHeaders:     handleHeaders,
	wire.CmdInv:         handleInv,
	wire.CmdPing:        handlePing,
	wire.CmdPong:        handlePong,
	wire.CmdTx:          handleTx,
	wire.CmdMerkleBlock: handleMerkleBlock,
	wire.CmdBlock:       handleIgnore,
	wire.CmdAddr:        handleIgnore,
	wire.CmdGetAddr:     handleIgnore,
	wire.CmdFeeFilter:   handleIgnore,
	wire.CmdSendHeaders: handleIgnore,
	wire.CmdSendcmpct:   handleIgnore,
	wire.CmdNotFound:    handleIgnore,
	wire.CmdReject:      handleReject,
	wire.CmdMemPool:     handleIgnore,
	wire.CmdGetBlocks:   handleIgnore,
	wire.CmdGetHeaders:  handleIgnore,
	wire.CmdGetData:     handleIgnore,
	wire.CmdFilterLoad:  handleIgnore,
	wire.CmdFilterAdd:   handleIgnore,
	wire.CmdFilterClear: handleIgnore,
}

// handleIgnore acknowledges receipt of a recognised but inert command: the
// catalogue names it only so readOne doesn't treat it as unknown.
func handleIgnore(p *Peer, msg wire.Message) (bool, error) {
	p.session.Log.Debugw("recognised command ignored", "command", msg.Command())
	return true, nil
}

// handleReject logs the remote peer's rejection of a message this client
// sent. It never tears the session down; a reject is informational.
func handleReject(p *Peer, msg wire.Message) (bool, error) {
	r, ok := msg.(*wire.MsgReject)
	if !ok {
		return true, nil
	}

	p.session.Log.Warnw("peer rejected message",
		"command", r.Cmd, "code", r.Code, "reason", r.Reason)

	return true, nil
}

// handleVersion validates the remote's advertised height against this
// session's checkpoint. A peer claiming a tip behind the local checkpoint
// cannot serve a useful header sync and the connection is torn down.
func handleVersion(p *Peer, msg wire.Message) (bool, error) {
	v, ok := msg.(*wire.MsgVersion)
	if !ok {
		return false, fmt.Errorf("handleVersion: unexpected type %T", msg)
	}

	switch p.getState() {
	case stateVersionSent:
		localHeight := p.session.Height.Load()
		if v.LastBlock >= 0 && uint32(v.LastBlock) < localHeight { //nolint:gosec // non-negative checked above
			return false, fmt.Errorf("stale peer: advertised height %d below local checkpoint %d",
				v.LastBlock, localHeight)
		}

		p.setState(stateVersionReceived)

		return true, nil
	default:
		p.session.Log.Debugw("stray version message ignored", "state", p.getState())
		return true, nil
	}
}

// handleVerAck completes the handshake: it answers with this side's own
// verack, then immediately requests headers from the session's last known
// locator to begin header sync.
func handleVerAck(p *Peer, _ wire.Message) (bool, error) {
	if p.getState() != stateVersionReceived {
		p.session.Log.Debugw("duplicate verack ignored", "state", p.getState())
		return true, nil
	}

	if err := p.send(wire.NewMsgVerAck()); err != nil {
		return false, err
	}

	p.setState(stateHandshakeDone)

	if err := p.requestHeaders(); err != nil {
		return false, err
	}

	p.setState(stateSyncingHeaders)

	return true, nil
}

// requestHeaders sends a getheaders message built from the session's
// current locator. Headers sync uses a single-hash locator rather than the
// usual logarithmic-stride list, an accepted simplification recorded in
// DESIGN.md.
func (p *Peer) requestHeaders() error {
	getheaders := wire.NewMsgGetHeaders()
	getheaders.ProtocolVersion = p.pver

	hash := p.session.LastHeadersHash()
	if err := getheaders.AddBlockLocatorHash(&hash); err != nil {
		return err
	}

	return p.send(getheaders)
}

// handleHeaders folds a batch of headers into the session's height and
// locator, re-requesting the next batch until the peer returns an empty
// headers message, which marks the header chain as caught up.
func handleHeaders(p *Peer, msg wire.Message) (bool, error) {
	h, ok := msg.(*wire.MsgHeaders)
	if !ok {
		return false, fmt.Errorf("handleHeaders: unexpected type %T", msg)
	}

	if p.getState() != stateSyncingHeaders {
		p.session.Log.Debugw("stray headers message ignored", "state", p.getState())
		return true, nil
	}

	if len(h.Headers) == 0 {
		return true, p.finishHeaderSync()
	}

	for _, hdr := range h.Headers {
		if hdr.PrevBlock == p.genesisHash {
			p.session.Height.Store(0)
		}

		p.session.Height.Add(1)
	}

	currentHeight.Set(float64(p.session.Height.Load()))

	last := h.Headers[len(h.Headers)-1]
	p.session.SetLastHeadersHash(last.BlockHash())

	return true, p.requestHeaders()
}

// finishHeaderSync runs once header sync exhausts the peer's tip: it
// persists the checkpoint, installs the watch-list Bloom filter, primes the
// mempool, and marks the session synced.
func (p *Peer) finishHeaderSync() error {
	p.session.Persist()

	if err := p.installBloomFilter(); err != nil {
		return err
	}

	if err := p.send(wire.NewMsgMemPool()); err != nil {
		return err
	}

	p.session.Synced.Store(true)
	syncCompleted.Set(1)
	p.setState(stateSynced)

	return nil
}

// installBloomFilter builds a BIP37 filter sized for the watched hash set
// and sends it as a filterload message.
func (p *Peer) installBloomFilter() error {
	tweak, err := wire.RandomUint64()
	if err != nil {
		return err
	}

	elements := uint32(len(p.watchedHashes)) //nolint:gosec // bounded by config
	if elements < bloomTargetElements {
		elements = bloomTargetElements
	}

	filter := bloom.New(elements, bloomFalsePositiveRate, uint32(tweak)) //nolint:gosec // truncation intentional

	for _, h := range p.watchedHashes {
		filter.Add(h)
	}

	p.filter = filter

	bits, hashFuncs, filterTweak := filter.Serialize()

	return p.send(wire.NewMsgFilterLoad(bits, hashFuncs, filterTweak, wire.BloomUpdateAll))
}

// handleInv processes a mixed batch of block/transaction announcements.
// Block entries advance the session's height and locator; transaction
// entries trigger a rate-limited, deduplicated getdata request.
func handleInv(p *Peer, msg wire.Message) (bool, error) {
	inv, ok := msg.(*wire.MsgInv)
	if !ok {
		return false, fmt.Errorf("handleInv: unexpected type %T", msg)
	}

	var (
		sawBlock  bool
		lastBlock chainhash.Hash
		wanted    = wire.NewMsgGetData()
	)

	for _, iv := range inv.InvList {
		switch iv.Type {
		case wire.InvTypeBlock, wire.InvTypeWitnessBlock, wire.InvTypeFilteredBlock, wire.InvTypeFilteredWitnessBlock:
			sawBlock = true
			lastBlock = iv.Hash
			p.session.Height.Add(1)

		case wire.InvTypeTx, wire.InvTypeWitnessTx:
			if p.alreadyRequested(iv.Hash) {
				continue
			}

			if err := wanted.AddInvVect(iv); err != nil {
				p.session.Log.Warnw("getdata batch full, dropping remaining entries", "error", err)
				continue
			}
		}
	}

	if sawBlock {
		currentHeight.Set(float64(p.session.Height.Load()))
		p.session.SetLastHeadersHash(lastBlock)
		p.session.Persist()
	}

	if len(wanted.InvList) == 0 {
		return true, nil
	}

	if !p.limiter.Allow() {
		p.session.Log.Debugw("getdata rate limit reached, dropping this batch")
		return true, nil
	}

	return true, p.send(wanted)
}

// alreadyRequested reports whether hash has already been requested within
// invDedupTTL, marking it seen as a side effect when it has not.
func (p *Peer) alreadyRequested(hash chainhash.Hash) bool {
	key := hash.String()

	if _, err := p.seen.Get(key); err == nil {
		return true
	}

	_ = p.seen.Set(key, nil)

	return false
}

// handlePing answers a liveness check with the matching pong nonce.
func handlePing(p *Peer, msg wire.Message) (bool, error) {
	ping, ok := msg.(*wire.MsgPing)
	if !ok {
		return false, fmt.Errorf("handlePing: unexpected type %T", msg)
	}

	return true, p.send(wire.NewMsgPong(ping.Nonce))
}

// handlePong confirms the outstanding ping this session sent was answered.
// A mismatched nonce means the remote side answered a ping we never sent,
// or lost track of ours; either way the session state can't be trusted.
func handlePong(p *Peer, msg wire.Message) (bool, error) {
	pong, ok := msg.(*wire.MsgPong)
	if !ok {
		return false, fmt.Errorf("handlePong: unexpected type %T", msg)
	}

	if want := p.session.PingNonce.Load(); pong.Nonce != want {
		return false, fmt.Errorf("handlePong: nonce mismatch: got %d, want %d",
			pong.Nonce, want)
	}

	return true, nil
}

// handleTx hands a matched transaction to the configured presenter.
func handleTx(p *Peer, msg wire.Message) (bool, error) {
	tx, ok := msg.(*wire.MsgTx)
	if !ok {
		return false, fmt.Errorf("handleTx: unexpected type %T", msg)
	}

	if p.presenter != nil {
		p.presenter.Present(tx.TxHash(), tx.Raw)
	}

	return true, nil
}

// handleMerkleBlock checks the partial merkle proof's implied root against
// the enclosed header and surfaces every matched hash to the presenter. It
// never validates proof-of-work or transaction scripts, both explicit
// Non-goals.
func handleMerkleBlock(p *Peer, msg wire.Message) (bool, error) {
	mb, ok := msg.(*wire.MsgMerkleBlock)
	if !ok {
		return false, fmt.Errorf("handleMerkleBlock: unexpected type %T", msg)
	}

	if mb.MerkleRoot() != mb.Header.MerkleRoot {
		p.session.Log.Warnw("merkle block proof root mismatch, discarding", "header", mb.Header.BlockHash())
		return true, nil
	}

	for _, hash := range mb.MatchedHashes() {
		if p.presenter != nil {
			p.presenter.Present(hash, nil)
		}
	}

	return true, nil
}
