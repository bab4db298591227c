// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"
	"time"
)

// maxNetAddressPayload returns the max payload size for a bitcoin NetAddress
// based on the protocol version.
func maxNetAddressPayload(pver uint32) uint64 {
	// Services 8 bytes + ip 16 bytes + port 2 bytes.
	plen := uint64(26)

	// NetAddressTimeVersion added a timestamp field.
	if pver >= NetAddressTimeVersion {
		// Timestamp 4 bytes.
		plen += 4
	}

	return plen
}

// NetAddress defines information about a peer on the network including the
// time it was last seen, the services it supports, its IP address, and port.
type NetAddress struct {
	// Timestamp the peer connection was established. This is only
	// encoded as part of the version 1 network address message and
	// negotiated protocol versions at or after NetAddressTimeVersion.
	Timestamp time.Time

	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// IP address of the peer. Always 16 bytes, IPv4 addresses stored as
	// an IPv4-mapped IPv6 address.
	IP net.IP

	// Port the peer is using. This is encoded in big endian on the wire
	// which differs from most everything else.
	Port uint16
}

// HasService returns whether the specified service is supported by the
// address.
func (na *NetAddress) HasService(service ServiceFlag) bool {
	return na.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (na *NetAddress) AddService(service ServiceFlag) {
	na.Services |= service
}

// NewNetAddress returns a new NetAddress using the provided TCP address and
// supported services with defaults for the remaining fields.
func NewNetAddress(addr *net.TCPAddr, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Timestamp: time.Now(),
		Services:  services,
		IP:        addr.IP,
		Port:      uint16(addr.Port), //nolint:gosec // TCP ports fit in uint16
	}
}

// readNetAddress reads a bitcoin NetAddress from r depending on the protocol
// version and whether or not the timestamp is included per ts, which is
// false for NetAddress in the version message and true for NetAddress in
// all other messages.
func readNetAddress(r io.Reader, pver uint32, na *NetAddress, ts bool) error {
	var ip [16]byte

	// NOTE: The bitcoin protocol uses a uint32 for the timestamp so it will
	// stop working somewhere around 2106. Also timestamp wasn't added until
	// protocol version >= NetAddressTimeVersion.
	if ts && pver >= NetAddressTimeVersion {
		var timestamp uint32
		if err := readElement(r, &timestamp); err != nil {
			return err
		}

		na.Timestamp = time.Unix(int64(timestamp), 0)
	}

	if err := readElement(r, &na.Services); err != nil {
		return err
	}

	if err := readElement(r, &ip); err != nil {
		return err
	}

	var port uint16
	if err := readElementBigEndian(r, &port); err != nil {
		return err
	}

	*na = NetAddress{
		Timestamp: na.Timestamp,
		Services:  na.Services,
		IP:        net.IP(ip[:]),
		Port:      port,
	}

	return nil
}

// writeNetAddress serializes a NetAddress to w depending on the protocol
// version and whether or not the timestamp is included per ts, which is
// false for NetAddress in the version message and true for NetAddress in
// all other messages.
func writeNetAddress(w io.Writer, pver uint32, na *NetAddress, ts bool) error {
	if ts && pver >= NetAddressTimeVersion {
		if err := writeElement(w, timeToUnix(na.Timestamp)); err != nil {
			return err
		}
	}

	if err := writeElement(w, na.Services); err != nil {
		return err
	}

	var ip [16]byte
	if v4 := na.IP.To4(); v4 != nil {
		copy(ip[:], net.IPv4(v4[0], v4[1], v4[2], v4[3]).To16())
	} else if na.IP != nil {
		copy(ip[:], na.IP.To16())
	}

	if err := writeElement(w, ip); err != nil {
		return err
	}

	return writeElementBigEndian(w, na.Port)
}

// readElementBigEndian reads a big endian uint16 from r, used solely for the
// NetAddress port field which is the one exception to the wire's otherwise
// uniform little-endian encoding.
func readElementBigEndian(r io.Reader, port *uint16) error {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}

	*port = uint16(b[0])<<8 | uint16(b[1])

	return nil
}

// writeElementBigEndian writes port to w in big endian form.
func writeElementBigEndian(w io.Writer, port uint16) error {
	b := [2]byte{byte(port >> 8), byte(port)}
	_, err := w.Write(b[:])

	return err
}
