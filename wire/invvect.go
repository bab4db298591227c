// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// InvType represents the allowed types of inventory vectors as defined in
// the bitcoin protocol.
type InvType uint32

// InvWitnessFlag denotes that the inventory vector type is requesting,
// or sending a version which includes witness data.
const InvWitnessFlag = 1 << 30

// These constants define the various supported inventory vector types.
const (
	InvTypeError            InvType = 0
	InvTypeTx               InvType = 1
	InvTypeBlock            InvType = 2
	InvTypeFilteredBlock    InvType = 3
	InvTypeCmpctBlock       InvType = 4
	InvTypeWitnessBlock     InvType = InvTypeBlock | InvWitnessFlag
	InvTypeWitnessTx        InvType = InvTypeTx | InvWitnessFlag
	InvTypeFilteredWitnessBlock InvType = InvTypeFilteredBlock | InvWitnessFlag
)

// ivStrings is a map of InvType values back to their constant names for
// pretty printing.
var ivStrings = map[InvType]string{
	InvTypeError:                "ERROR",
	InvTypeTx:                   "MSG_TX",
	InvTypeBlock:                "MSG_BLOCK",
	InvTypeFilteredBlock:        "MSG_FILTERED_BLOCK",
	InvTypeCmpctBlock:           "MSG_CMPCT_BLOCK",
	InvTypeWitnessBlock:         "MSG_WITNESS_BLOCK",
	InvTypeWitnessTx:            "MSG_WITNESS_TX",
	InvTypeFilteredWitnessBlock: "MSG_FILTERED_WITNESS_BLOCK",
}

// String returns the InvType in human-readable form.
func (invtype InvType) String() string {
	if s, ok := ivStrings[invtype]; ok {
		return s
	}

	return fmt.Sprintf("Unknown InvType (%d)", uint32(invtype))
}

// MaxInvPerMsg is the maximum number of inventory vectors that can be in a
// single bitcoin inv, getdata, or notfound message.
const MaxInvPerMsg = 50000

// maxInvVectPayload is the maximum payload size for an inventory vector.
const maxInvVectPayload = 4 + chainhash.HashSize

// defaultInvListAlloc is the default size used for the initial allocation
// of InvVect and hash related slices. It's used to reduce the allocation
// rate for small message sizes.
const defaultInvListAlloc = 1000

// InvVect defines a bitcoin inventory vector which is used to describe data,
// as specified by the Type field, that a peer wants, has, or does not have
// to another peer.
type InvVect struct {
	Type InvType         // Type of data
	Hash chainhash.Hash // Hash of the data
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{
		Type: typ,
		Hash: *hash,
	}
}

// readInvVect reads an encoded InvVect from r depending on the protocol
// version.
func readInvVect(r io.Reader, _ uint32, iv *InvVect) error {
	return readElements(r, &iv.Type, &iv.Hash)
}

// writeInvVect serializes an InvVect to w depending on the protocol
// version.
func writeInvVect(w io.Writer, _ uint32, iv *InvVect) error {
	return writeElements(w, iv.Type, &iv.Hash)
}
