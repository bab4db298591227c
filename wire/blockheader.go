// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// BlockHeaderLen is the number of bytes in a block header: version 4 +
// prevBlock 32 + merkleRoot 32 + timestamp 4 + bits 4 + nonce 4.
const BlockHeaderLen = 80

// BlockHeader defines information about a block and is used in the bitcoin
// block (MsgBlock) and headers (MsgHeaders) messages.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created. This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer

	_ = writeBlockHeader(&buf, 0, h)

	return chainhash.DoubleHashH(buf.Bytes())
}

// NewBlockHeader returns a new BlockHeader using the provided version, previous
// block hash, merkle root hash, difficulty bits, and nonce used to generate
// the block with defaults for the remaining fields.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits, nonce uint32,
) *BlockHeader {
	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// readBlockHeader reads a block header from r. See BlockHeaderLen for the
// exact number of bytes consumed.
func readBlockHeader(r io.Reader, _ uint32, bh *BlockHeader) error {
	var timestamp uint32

	if err := readElements(r, &bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		&timestamp, &bh.Bits, &bh.Nonce); err != nil {
		return err
	}

	bh.Timestamp = time.Unix(int64(timestamp), 0)

	return nil
}

// writeBlockHeader serializes the 80-byte block header to w.
// BlockHeader.BsvEncode delegates to it; neither writes the transaction
// count that follows the header in the bitcoin block/headers messages.
func writeBlockHeader(w io.Writer, _ uint32, bh *BlockHeader) error {
	return writeElements(w, bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		timeToUnix(bh.Timestamp), bh.Bits, bh.Nonce)
}

// BsvEncode encodes a block header to w using the bitcoin protocol encoding.
func (h *BlockHeader) BsvEncode(w io.Writer, pver uint32, _ MessageEncoding) error {
	return writeBlockHeader(w, pver, h)
}

// Bsvdecode decodes a block header from r using the bitcoin protocol
// encoding.
func (h *BlockHeader) Bsvdecode(r io.Reader, pver uint32, _ MessageEncoding) error {
	return readBlockHeader(r, pver, h)
}
