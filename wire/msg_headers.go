// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxBlockHeadersPerMsg is the maximum number of block headers that can be
// in a single bitcoin headers message.
const MaxBlockHeadersPerMsg = 2000

// MsgHeaders implements the Message interface and represents a bitcoin
// headers message. It is used to deliver block header information in
// response to a getheaders message.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader adds a new block header to the message.
func (msg *MsgHeaders) AddBlockHeader(bh *BlockHeader) error {
	if len(msg.Headers)+1 > MaxBlockHeadersPerMsg {
		str := fmt.Sprintf("too many block headers in message [max %v]",
			MaxBlockHeadersPerMsg)
		return messageError("MsgHeaders.AddBlockHeader", str)
	}

	msg.Headers = append(msg.Headers, bh)

	return nil
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgHeaders) Bsvdecode(r io.Reader, pver uint32, _ MessageEncoding) error {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	if count > MaxBlockHeadersPerMsg {
		str := fmt.Sprintf("too many headers for message [count %v, max %v]",
			count, MaxBlockHeadersPerMsg)
		return messageError("MsgHeaders.Bsvdecode", str)
	}

	headers := make([]BlockHeader, count)
	msg.Headers = make([]*BlockHeader, 0, count)

	for i := uint64(0); i < count; i++ {
		bh := &headers[i]

		if err := readBlockHeader(r, pver, bh); err != nil {
			return err
		}

		// Each serialised header is followed by a transaction count
		// varint which is always zero for a headers-only response;
		// it's read and discarded here to stay on the wire boundary.
		txCount, err := ReadVarInt(r, pver)
		if err != nil {
			return err
		}

		if txCount != 0 {
			str := fmt.Sprintf("block headers may not have a transaction count "+
				"[count %v]", txCount)
			return messageError("MsgHeaders.Bsvdecode", str)
		}

		_ = msg.AddBlockHeader(bh)
	}

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgHeaders) BsvEncode(w io.Writer, pver uint32, _ MessageEncoding) error {
	count := len(msg.Headers)
	if count > MaxBlockHeadersPerMsg {
		str := fmt.Sprintf("too many headers for message [count %v, max %v]",
			count, MaxBlockHeadersPerMsg)
		return messageError("MsgHeaders.BsvEncode", str)
	}

	if err := WriteVarInt(w, pver, uint64(count)); err != nil {
		return err
	}

	for _, bh := range msg.Headers {
		if err := writeBlockHeader(w, pver, bh); err != nil {
			return err
		}

		if err := WriteVarInt(w, pver, 0); err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgHeaders) Command() string {
	return CmdHeaders
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgHeaders) MaxPayloadLength(_ uint32) uint64 {
	// Num headers (varInt) + max allowed headers (header length + 1 byte
	// for the trailing zero transaction count).
	return MaxVarIntPayload + ((BlockHeaderLen + 1) * MaxBlockHeadersPerMsg)
}

// NewMsgHeaders returns a new bitcoin headers message that conforms to the
// Message interface. See MsgHeaders for details.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{
		Headers: make([]*BlockHeader, 0, MaxBlockHeadersPerMsg),
	}
}
