// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgSendcmpct implements the Message interface and represents a bitcoin
// sendcmpct message, used to negotiate compact block relay with a peer.
// This SPV client never sends one (it works from headers and merkle proofs,
// never full blocks); it decodes the message from peers that advertise it,
// and the peer package ignores it.
type MsgSendcmpct struct {
	SendCmpct bool
	Version   uint64
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgSendcmpct) Bsvdecode(r io.Reader, _ uint32, _ MessageEncoding) error {
	if err := readElement(r, &msg.SendCmpct); err != nil {
		return err
	}

	return readElement(r, &msg.Version)
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgSendcmpct) BsvEncode(w io.Writer, _ uint32, _ MessageEncoding) error {
	if err := writeElement(w, msg.SendCmpct); err != nil {
		return err
	}

	return writeElement(w, msg.Version)
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgSendcmpct) Command() string {
	return CmdSendcmpct
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgSendcmpct) MaxPayloadLength(_ uint32) uint64 {
	return 9
}

// NewMsgSendcmpct returns a new bitcoin sendcmpct message that conforms to
// the Message interface, defaulting to compact block relay version 1.
func NewMsgSendcmpct(sendCmpct bool) *MsgSendcmpct {
	return &MsgSendcmpct{
		SendCmpct: sendCmpct,
		Version:   1,
	}
}
