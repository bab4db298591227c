// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// MaxTxPayload is the maximum bytes a transaction can be in bytes.
const MaxTxPayload = 32 * 1024 * 1024

// MsgTx implements the Message interface and represents a bitcoin tx
// message. Full transaction construction, signing, and script evaluation
// remain out of scope for this client; the raw serialised transaction is
// kept verbatim in Raw so a presenter collaborator can relay or display it,
// with Version and LockTime peeked out cheaply since both sit at a fixed
// offset from the start and end of the encoding respectively.
type MsgTx struct {
	Version  int32
	LockTime uint32
	Raw      []byte
}

// TxHash returns the double sha256 hash of the serialised transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(msg.Raw)
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation. The whole payload
// is retained verbatim in Raw; Version is peeked from the first four bytes
// and LockTime from the last four, both of which are fixed regardless of
// the number of inputs/outputs/witness data in between.
func (msg *MsgTx) Bsvdecode(r io.Reader, _ uint32, _ MessageEncoding) error {
	raw, err := io.ReadAll(io.LimitReader(r, MaxTxPayload+1))
	if err != nil {
		return err
	}

	if len(raw) > MaxTxPayload {
		return messageError("MsgTx.Bsvdecode", "transaction payload exceeds max size")
	}

	if len(raw) < 8 {
		return messageError("MsgTx.Bsvdecode", "transaction payload too short")
	}

	msg.Raw = raw
	msg.Version = int32(littleEndian.Uint32(raw[0:4])) //nolint:gosec // conversion
	msg.LockTime = littleEndian.Uint32(raw[len(raw)-4:])

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgTx) BsvEncode(w io.Writer, _ uint32, _ MessageEncoding) error {
	_, err := w.Write(msg.Raw)
	return err
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgTx) Command() string {
	return CmdTx
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgTx) MaxPayloadLength(_ uint32) uint64 {
	return MaxTxPayload
}

// NewMsgTx returns a new bitcoin tx message wrapping the given raw,
// already-serialised transaction bytes.
func NewMsgTx(raw []byte) *MsgTx {
	msg := &MsgTx{Raw: raw}

	if len(raw) >= 8 {
		msg.Version = int32(littleEndian.Uint32(raw[0:4])) //nolint:gosec // conversion
		msg.LockTime = littleEndian.Uint32(raw[len(raw)-4:])
	}

	return msg
}
