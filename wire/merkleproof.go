// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// merkleProofWalker replays the BIP37 partial merkle tree traversal used by
// both Verify and MatchedHashes: depth-first, consuming one flag bit per
// visited node, and one hash at every leaf and at every node whose flag bit
// is clear.
type merkleProofWalker struct {
	msg      *MsgMerkleBlock
	numTx    uint32
	hashUsed int
	bitUsed  int
	matched  []chainhash.Hash
}

func (w *merkleProofWalker) bit() bool {
	if w.bitUsed/8 >= len(w.msg.Flags) {
		return false
	}

	b := w.msg.Flags[w.bitUsed/8]&(1<<(uint(w.bitUsed)%8)) != 0
	w.bitUsed++

	return b
}

func (w *merkleProofWalker) nextHash() chainhash.Hash {
	if w.hashUsed >= len(w.msg.Hashes) {
		return chainhash.Hash{}
	}

	h := *w.msg.Hashes[w.hashUsed]
	w.hashUsed++

	return h
}

// traverse walks the tree of the given height (0 = leaf row) rooted at pos,
// returning the hash at that node.
func (w *merkleProofWalker) traverse(height uint, pos uint32) chainhash.Hash {
	parentOfMatch := w.bit()

	if height == 0 || !parentOfMatch {
		hash := w.nextHash()
		if height == 0 && parentOfMatch {
			w.matched = append(w.matched, hash)
		}

		return hash
	}

	left := w.traverse(height-1, pos*2)

	var right chainhash.Hash

	// If the row above has an odd number of nodes, the last node is
	// duplicated to pair with itself.
	if w.treeWidth(height-1) > pos*2+1 {
		right = w.traverse(height-1, pos*2+1)
	} else {
		right = left
	}

	return doubleHashConcat(left, right)
}

func (w *merkleProofWalker) treeWidth(height uint) uint32 {
	return (w.numTx + (1 << height) - 1) >> height
}

func doubleHashConcat(left, right chainhash.Hash) chainhash.Hash {
	buf := make([]byte, 0, chainhash.HashSize*2)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)

	return chainhash.DoubleHashH(buf)
}

func (msg *MsgMerkleBlock) treeHeight() uint {
	height := uint(0)
	for (uint32(1) << height) < msg.Transactions { //nolint:gosec // bounded by block size
		height++
	}

	return height
}

// MerkleRoot recomputes the merkle root implied by the proof's hash list and
// flag bits, walking the partial tree exactly as a full node would when
// building the merkleblock response.
func (msg *MsgMerkleBlock) MerkleRoot() chainhash.Hash {
	if msg.Transactions == 0 {
		return chainhash.Hash{}
	}

	w := &merkleProofWalker{msg: msg, numTx: msg.Transactions}

	return w.traverse(msg.treeHeight(), 0)
}

// MatchedHashes returns every transaction hash the proof marks as matched,
// in left-to-right leaf order.
func (msg *MsgMerkleBlock) MatchedHashes() []chainhash.Hash {
	if msg.Transactions == 0 {
		return nil
	}

	w := &merkleProofWalker{msg: msg, numTx: msg.Transactions}
	w.traverse(msg.treeHeight(), 0)

	return w.matched
}

// Verify reports whether hash is among the transactions this proof marks as
// matched AND whether the proof's implied merkle root equals the header's
// MerkleRoot. This is an SPV-correct inclusion check: it does not validate
// the block's proof-of-work or any transaction script, both of which stay
// explicit Non-goals for this client.
func (msg *MsgMerkleBlock) Verify(hash chainhash.Hash) bool {
	if msg.MerkleRoot() != msg.Header.MerkleRoot {
		return false
	}

	for _, h := range msg.MatchedHashes() {
		if h == hash {
			return true
		}
	}

	return false
}
