// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgPing implements the Message interface and represents a bitcoin ping
// message.
//
// For protocol versions at or before BIP0031Version the message has no
// payload and is used to verify a connection is still valid. Peers
// negotiating a later protocol version include a nonce in the message so the
// response pong can be matched up with the originating ping.
type MsgPing struct {
	// Unique value associated with message that is used to identify
	// specific ping message.
	Nonce uint64
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgPing) Bsvdecode(r io.Reader, pver uint32, _ MessageEncoding) error {
	if pver > BIP0031Version {
		return readElement(r, &msg.Nonce)
	}

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgPing) BsvEncode(w io.Writer, pver uint32, _ MessageEncoding) error {
	if pver > BIP0031Version {
		return writeElement(w, msg.Nonce)
	}

	return nil
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgPing) Command() string {
	return CmdPing
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgPing) MaxPayloadLength(pver uint32) uint64 {
	if pver > BIP0031Version {
		return 8
	}

	return 0
}

// NewMsgPing returns a new bitcoin ping message that conforms to the Message
// interface.  See MsgPing for details.
func NewMsgPing(nonce uint64) *MsgPing {
	return &MsgPing{
		Nonce: nonce,
	}
}
