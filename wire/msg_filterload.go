// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// BloomUpdateType specifies how the bloom filter is updated as matching
// transactions are found by a peer once it has been loaded.
type BloomUpdateType uint8

const (
	// BloomUpdateNone indicates the filter is not adjusted when a match is
	// found.
	BloomUpdateNone BloomUpdateType = 0

	// BloomUpdateAll indicates the filter is updated by inserting the
	// serialized outpoint of any matched transaction outputs.
	BloomUpdateAll BloomUpdateType = 1

	// BloomUpdateP2PubkeyOnly indicates the filter is updated similarly to
	// BloomUpdateAll, except it only applies to outputs that pay a public
	// key.
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// MaxFilterLoadFilterSize is the maximum size in bytes a filter may be.
const MaxFilterLoadFilterSize = 36000

// MaxFilterLoadHashFuncs is the maximum number of hash functions a filter
// load message may hold.
const MaxFilterLoadHashFuncs = 50

// MsgFilterLoad implements the Message interface and represents a bitcoin
// filterload message which is used to reset a Bloom filter.
//
// This message was not added until protocol version BIP0037Version.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgFilterLoad) Bsvdecode(r io.Reader, pver uint32, _ MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterload message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterLoad.Bsvdecode", str)
	}

	var err error

	msg.Filter, err = ReadVarBytes(r, pver, MaxFilterLoadFilterSize, "filterload filter size")
	if err != nil {
		return err
	}

	if err := readElement(r, &msg.HashFuncs); err != nil {
		return err
	}

	if err := readElement(r, &msg.Tweak); err != nil {
		return err
	}

	var flags uint8

	if err := readElement(r, &flags); err != nil {
		return err
	}

	msg.Flags = BloomUpdateType(flags)

	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		str := fmt.Sprintf("too many filter hash functions for message "+
			"[count %v, max %v]", msg.HashFuncs, MaxFilterLoadHashFuncs)
		return messageError("MsgFilterLoad.Bsvdecode", str)
	}

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgFilterLoad) BsvEncode(w io.Writer, pver uint32, _ MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterload message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterLoad.BsvEncode", str)
	}

	size := len(msg.Filter)
	if size > MaxFilterLoadFilterSize {
		str := fmt.Sprintf("filterload filter size too large for message "+
			"[size %v, max %v]", size, MaxFilterLoadFilterSize)
		return messageError("MsgFilterLoad.BsvEncode", str)
	}

	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		str := fmt.Sprintf("too many filter hash functions for message "+
			"[count %v, max %v]", msg.HashFuncs, MaxFilterLoadHashFuncs)
		return messageError("MsgFilterLoad.BsvEncode", str)
	}

	if err := WriteVarBytes(w, pver, msg.Filter); err != nil {
		return err
	}

	if err := writeElement(w, msg.HashFuncs); err != nil {
		return err
	}

	if err := writeElement(w, msg.Tweak); err != nil {
		return err
	}

	return writeElement(w, uint8(msg.Flags))
}

// Command returns the protocol command string for the message.  This is part
// of the Message interface implementation.
func (msg *MsgFilterLoad) Command() string {
	return CmdFilterLoad
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.  This is part of the Message interface implementation.
func (msg *MsgFilterLoad) MaxPayloadLength(_ uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxFilterLoadFilterSize)) +
		MaxFilterLoadFilterSize + 4 + 4 + 1
}

// NewMsgFilterLoad returns a new bitcoin filterload message that conforms to
// the Message interface. See MsgFilterLoad for details.
func NewMsgFilterLoad(filter []byte, hashFuncs, tweak uint32, flags BloomUpdateType) *MsgFilterLoad {
	return &MsgFilterLoad{
		Filter:    filter,
		HashFuncs: hashFuncs,
		Tweak:     tweak,
		Flags:     flags,
	}
}
