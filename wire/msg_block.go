// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// MaxBlockPayload is the maximum bytes a block message can be in bytes.
// This client never requests full blocks (it works from headers and merkle
// proofs per the BIP37 path), but the type is kept so a presenter or a
// future full-block path has somewhere to land.
const MaxBlockPayload = 32 * 1024 * 1024

// MsgBlock implements the Message interface and represents a bitcoin block
// message. Transaction bodies are kept as opaque raw bytes rather than
// parsed, matching MsgTx — block validation (PoW/difficulty, script
// execution) stays a Non-goal for this SPV client.
type MsgBlock struct {
	Header       BlockHeader
	TransactionsRaw []byte
}

// BlockHash returns the block identifier hash for the message's header.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgBlock) Bsvdecode(r io.Reader, pver uint32, _ MessageEncoding) error {
	if err := readBlockHeader(r, pver, &msg.Header); err != nil {
		return err
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxBlockPayload+1))
	if err != nil {
		return err
	}

	if len(raw) > MaxBlockPayload {
		return messageError("MsgBlock.Bsvdecode", "block payload exceeds max size")
	}

	msg.TransactionsRaw = raw

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgBlock) BsvEncode(w io.Writer, pver uint32, _ MessageEncoding) error {
	if err := writeBlockHeader(w, pver, &msg.Header); err != nil {
		return err
	}

	_, err := w.Write(msg.TransactionsRaw)

	return err
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgBlock) Command() string {
	return CmdBlock
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgBlock) MaxPayloadLength(_ uint32) uint64 {
	return MaxBlockPayload
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	var buf bytes.Buffer
	_ = msg.BsvEncode(&buf, ProtocolVersion, BaseEncoding)

	return buf.Len()
}

// NewMsgBlock returns a new bitcoin block message wrapping the given header.
// TransactionsRaw is left empty.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header: *header,
	}
}
