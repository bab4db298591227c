// Package bloom implements a BIP37 Bloom filter: the construction a peer's
// filterload message installs on the remote side so it only relays
// transactions and merkle proofs touching a watched set of data elements.
package bloom

import (
	"math"

	"github.com/spaolacci/murmur3"
)

const (
	// ln2Squared is used in the standard BIP37 bit-array sizing formula.
	ln2Squared = 0.4804530139182014246671025263266649717305529515945455

	ln2 = 0.6931471805599453094172321214581765680755001343602552

	// maxFilterBits caps the filter at the same size wire.MaxFilterLoadFilterSize
	// enforces on encode, so a filter built here always fits on the wire.
	maxFilterBits = 36000 * 8

	// maxHashFuncs mirrors wire.MaxFilterLoadHashFuncs.
	maxHashFuncs = 50
)

// Filter is a BIP37 Bloom filter under construction. It is not safe for
// concurrent use; a peer builds one filter once header sync completes, feeds
// Serialize's output to wire.NewMsgFilterLoad, and keeps the filter on the
// Peer.
type Filter struct {
	bits       []byte
	nHashFuncs uint32
	tweak      uint32
}

// New returns a Filter sized for elements entries at the given false-positive
// rate, tweaked with the given per-filter nonce so two filters with the same
// contents don't produce identical bit patterns on the wire.
func New(elements uint32, falsePositiveRate float64, tweak uint32) *Filter {
	numBits := uint32(-1 * float64(elements) * math.Log(falsePositiveRate) / ln2Squared) //nolint:gosec // bounded below
	if numBits > maxFilterBits {
		numBits = maxFilterBits
	}

	numBytes := (numBits + 7) / 8
	if numBytes == 0 {
		numBytes = 1
	}

	nHashFuncs := uint32(float64(numBytes*8) / float64(elements) * ln2) //nolint:gosec // bounded below
	if nHashFuncs > maxHashFuncs {
		nHashFuncs = maxHashFuncs
	}

	if nHashFuncs < 1 {
		nHashFuncs = 1
	}

	return &Filter{
		bits:       make([]byte, numBytes),
		nHashFuncs: nHashFuncs,
		tweak:      tweak,
	}
}

// hash rotates the seed per BIP37: hash(i) = murmur3_32(tweak + i*0xFBA4C795, data).
func (f *Filter) hash(i uint32, data []byte) uint32 {
	seed := i*0xfba4c795 + f.tweak
	return murmur3.Sum32WithSeed(data, seed)
}

// Add inserts data into the filter, setting one bit per hash function.
func (f *Filter) Add(data []byte) {
	for i := uint32(0); i < f.nHashFuncs; i++ {
		idx := f.hash(i, data) % uint32(len(f.bits)*8) //nolint:gosec // filter size bounded above
		f.bits[idx/8] |= 1 << (idx % 8)
	}
}

// Matches reports whether data may be a member of the filter. Like any
// Bloom filter this can false-positive but never false-negatives.
func (f *Filter) Matches(data []byte) bool {
	for i := uint32(0); i < f.nHashFuncs; i++ {
		idx := f.hash(i, data) % uint32(len(f.bits)*8) //nolint:gosec // filter size bounded above
		if f.bits[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}

	return true
}

// Serialize returns the bit array, hash function count, and tweak needed to
// populate a wire.MsgFilterLoad.
func (f *Filter) Serialize() (bits []byte, nHashFuncs uint32, tweak uint32) {
	out := make([]byte, len(f.bits))
	copy(out, f.bits)

	return out, f.nHashFuncs, f.tweak
}
