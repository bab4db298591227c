// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// ProtocolVersion is the latest protocol version this package supports.
const ProtocolVersion uint32 = 70015

// Protocol versions gating optional message fields/commands, preserved from
// the upstream Bitcoin wire history this codec descends from.
const (
	// MultipleAddressVersion is the protocol version which added multiple
	// addresses per message (pver >= MultipleAddressVersion).
	MultipleAddressVersion uint32 = 209

	// NetAddressTimeVersion is the protocol version which added the
	// timestamp field to NetAddress.
	NetAddressTimeVersion uint32 = 31402

	// BIP0031Version is the protocol version AFTER which a ping/pong
	// message was introduced for better handling of persistent TCP
	// connections.
	BIP0031Version uint32 = 60000

	// BIP0035Version is the protocol version which added the mempool
	// command.
	BIP0035Version uint32 = 60002

	// BIP0037Version is the protocol version which added the Bloom
	// filter related commands (filterload, filteradd, filterclear,
	// merkleblock).
	BIP0037Version uint32 = 70001

	// FeeFilterVersion is the protocol version which added a new
	// feefilter message.
	FeeFilterVersion uint32 = 70013

	// SendHeadersVersion is the protocol version which added a new
	// sendheaders message.
	SendHeadersVersion uint32 = 70012
)

// ServiceFlag identifies the services supported by a bitcoin peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork is a flag used to indicate a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeGetUTXO is a flag used to indicate a peer supports the
	// getutxos and utxos commands (BIP0064).
	SFNodeGetUTXO

	// SFNodeBloom is a flag used to indicate a peer supports Bloom
	// filtering.
	SFNodeBloom

	// SFNodeWitness is a flag used to indicate a peer supports segregated
	// witness.
	SFNodeWitness

	// SFNodeXthin is a flag used to indicate a peer supports xthin blocks.
	SFNodeXthin

	// SFNodeBitcoinCash is a flag used to indicate a peer is on the
	// Bitcoin Cash chain.
	SFNodeBitcoinCash

	// SFNodeGraphene is a flag used to indicate a peer supports graphene
	// blocks.
	SFNodeGraphene

	// SFNodeWeakBlocks is a flag used to indicate a peer supports weak
	// blocks.
	SFNodeWeakBlocks

	// SFNodeCF is a flag used to indicate a peer supports committed
	// filters (BIP0157).
	SFNodeCF

	// SFNodeXThinner is a flag used to indicate a peer supports xthinner
	// blocks.
	SFNodeXThinner

	// SFNodeNetworkLimited is a flag used to indicate a peer is a
	// pruned, limited-history node (BIP0159).
	SFNodeNetworkLimited
)

// serviceFlagStrings maps service flags to human-readable names.
var serviceFlagStrings = map[ServiceFlag]string{
	SFNodeNetwork:         "SFNodeNetwork",
	SFNodeGetUTXO:         "SFNodeGetUTXO",
	SFNodeBloom:           "SFNodeBloom",
	SFNodeWitness:         "SFNodeWitness",
	SFNodeXthin:           "SFNodeXthin",
	SFNodeBitcoinCash:     "SFNodeBitcoinCash",
	SFNodeGraphene:        "SFNodeGraphene",
	SFNodeWeakBlocks:      "SFNodeWeakBlocks",
	SFNodeCF:              "SFNodeCF",
	SFNodeXThinner:        "SFNodeXThinner",
	SFNodeNetworkLimited:  "SFNodeNetworkLimited",
}

// orderedSFFlags is the above map's keys in declaration order, so String
// output is stable.
var orderedSFFlags = []ServiceFlag{
	SFNodeNetwork, SFNodeGetUTXO, SFNodeBloom, SFNodeWitness, SFNodeXthin,
	SFNodeBitcoinCash, SFNodeGraphene, SFNodeWeakBlocks, SFNodeCF,
	SFNodeXThinner, SFNodeNetworkLimited,
}

// String returns the ServiceFlag in human-readable form.
func (f ServiceFlag) String() string {
	if f == 0 {
		return "0x0"
	}

	s := ""
	remaining := f

	for _, flag := range orderedSFFlags {
		if remaining&flag == flag {
			s += serviceFlagStrings[flag] + "|"
			remaining ^= flag
		}
	}

	s = strings.TrimSuffix(s, "|")

	if remaining != 0 {
		s += fmt.Sprintf("|0x%x", uint64(remaining))
	}

	return strings.TrimPrefix(s, "|")
}

// BitcoinNet represents which bitcoin network a message belongs to.
type BitcoinNet uint32

const (
	// MainNet represents the main bitcoin network.
	MainNet BitcoinNet = 0xf9beb4d9

	// TestNet represents the test network.
	TestNet BitcoinNet = 0x0b110907

	// RegTestNet represents the regression test network.
	RegTestNet BitcoinNet = 0xfabfb5da

	// DogeMainNet is the magic used by the Dogecoin main network. The
	// wire codec itself is network-agnostic; this constant exists so
	// callers deploying against Dogecoin (this client's default target,
	// see resolveNetwork in cmd/spvpeer) don't need to invent their own
	// value.
	DogeMainNet BitcoinNet = 0xc0c0c0c0

	// DogeTestNet is the magic used by the Dogecoin test network.
	DogeTestNet BitcoinNet = 0xfcc1b7dc
)

// bsvNetStrings maps bitcoin networks to human-readable names.
var bsvNetStrings = map[BitcoinNet]string{
	MainNet:     "MainNet",
	TestNet:     "TestNet",
	RegTestNet:  "RegTest",
	DogeMainNet: "DogeMainNet",
	DogeTestNet: "DogeTestNet",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bsvNetStrings[n]; ok {
		return s
	}

	return "Unknown BitcoinNet (" + strconv.FormatUint(uint64(n), 10) + ")"
}
