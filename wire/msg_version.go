// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in
// a version message.
const MaxUserAgentLen = 256

// DefaultUserAgent is used for the user agent string if one is not
// explicitly set on a version message.
const DefaultUserAgent = "/spvpeer:0.1.0/"

// MsgVersion implements the Message interface and represents a bitcoin
// version message. It is used for a peer to advertise itself as soon as an
// outbound connection is made and is the first message received from a
// remote peer accepting an inbound connection.
//
// Use the AddUserAgent function to build the user agent string according to
// the form suggested by BIP0014.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion int32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated, truncated to one second precision.
	Timestamp time.Time

	// Address of the remote peer.
	AddrYou NetAddress

	// Address of the local peer.
	AddrMe NetAddress

	// Unique value associated with message that is used to detect self
	// connections.
	Nonce uint64

	// The user agent that generated messsage. This is a encoded as a
	// varString on the wire. This has a max length of MaxUserAgentLen.
	UserAgent string

	// Last block seen by the generator of the version message.
	LastBlock int32

	// Don't announce transactions to peer.
	DisableRelayTx bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// AddUserAgent adds a user agent component, which follows the form
// detailed in BIP0014, to the user agent string for the version message.
func (msg *MsgVersion) AddUserAgent(name, version string, comments ...string) error {
	newUserAgent := fmt.Sprintf("%s:%s", name, version)
	if len(comments) != 0 {
		newUserAgent = fmt.Sprintf("%s(%s)", newUserAgent, strings.Join(comments, "; "))
	}

	newUserAgent = fmt.Sprintf("%s%s/", msg.UserAgent, newUserAgent)
	if len(newUserAgent) > MaxUserAgentLen {
		str := fmt.Sprintf("user agent too long [len %v, max %v]",
			len(newUserAgent), MaxUserAgentLen)
		return messageError("MsgVersion.AddUserAgent", str)
	}

	msg.UserAgent = newUserAgent

	return nil
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgVersion) Bsvdecode(r io.Reader, _ uint32, _ MessageEncoding) error {
	var pver uint32

	if err := readElement(r, &pver); err != nil {
		return err
	}

	msg.ProtocolVersion = int32(pver) //nolint:gosec // conversion

	if err := readElement(r, &msg.Services); err != nil {
		return err
	}

	var timestamp int64
	if err := readElement(r, &timestamp); err != nil {
		return err
	}

	msg.Timestamp = time.Unix(timestamp, 0)

	if err := readNetAddress(r, 0, &msg.AddrYou, false); err != nil {
		return err
	}

	// The next fields are only present from version 106 onward, which
	// every modern peer negotiates; this client never speaks to older
	// peers so they're read unconditionally.
	if err := readNetAddress(r, 0, &msg.AddrMe, false); err != nil {
		return err
	}

	if err := readElement(r, &msg.Nonce); err != nil {
		return err
	}

	userAgent, err := ReadVarString(r, pver)
	if err != nil {
		return err
	}

	if len(userAgent) > MaxUserAgentLen {
		str := fmt.Sprintf("user agent too long [len %v, max %v]",
			len(userAgent), MaxUserAgentLen)
		return messageError("MsgVersion.Bsvdecode", str)
	}

	msg.UserAgent = userAgent

	if err := readElement(r, &msg.LastBlock); err != nil {
		return err
	}

	// There is no relay transactions field prior to BIP0037Version.
	// Relay transactions (should we relay) if the field is absent.
	msg.DisableRelayTx = false

	var relayTx bool

	err = readElement(r, &relayTx)
	if err == nil {
		msg.DisableRelayTx = !relayTx
	}

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BsvEncode(w io.Writer, _ uint32, _ MessageEncoding) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}

	if err := writeElement(w, msg.Services); err != nil {
		return err
	}

	if err := writeElement(w, msg.Timestamp.Unix()); err != nil {
		return err
	}

	if err := writeNetAddress(w, 0, &msg.AddrYou, false); err != nil {
		return err
	}

	if err := writeNetAddress(w, 0, &msg.AddrMe, false); err != nil {
		return err
	}

	if err := writeElement(w, msg.Nonce); err != nil {
		return err
	}

	if err := WriteVarString(w, 0, msg.UserAgent); err != nil {
		return err
	}

	if err := writeElement(w, msg.LastBlock); err != nil {
		return err
	}

	return writeElement(w, !msg.DisableRelayTx)
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgVersion) MaxPayloadLength(_ uint32) uint64 {
	// Protocol version 4 bytes + services 8 bytes + timestamp 8 bytes +
	// remote and local net addresses + nonce 8 bytes + length of user
	// agent (varInt) + max allowed user agent length + last block 4
	// bytes + relay transactions flag 1 byte.
	return 33 + (maxNetAddressPayload(0) * 2) + MaxVarIntPayload + MaxUserAgentLen
}

// NewMsgVersion returns a new bitcoin version message that conforms to the
// Message interface using the passed parameters and defaults for the
// remaining fields.
func NewMsgVersion(me, you *NetAddress, nonce uint64, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion), //nolint:gosec // conversion
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		LastBlock:       lastBlock,
		DisableRelayTx:  false,
	}
}
