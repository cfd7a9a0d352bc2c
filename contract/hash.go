package contract

import "github.com/ethereum/go-ethereum/common"

// Identifier hashing: byte-wise FNV-1a over the input fields (multi-byte
// fields big-endian) run through the murmur3 64-bit finalizer, truncated to
// 32 bits. Identifiers force the low bit on so zero stays reserved for
// "no id".

const (
	fnvOffset uint64 = 0xcbf29ce484222325
	fnvPrime  uint64 = 0x100000001b3
)

type idHasher struct {
	h uint64
}

func newIDHasher() idHasher {
	return idHasher{h: fnvOffset}
}

func (d *idHasher) byte(b byte) {
	d.h ^= uint64(b)
	d.h *= fnvPrime
}

func (d *idHasher) bytes(bs []byte) {
	for _, b := range bs {
		d.byte(b)
	}
}

func (d *idHasher) u32(v uint32) {
	d.byte(byte(v >> 24))
	d.byte(byte(v >> 16))
	d.byte(byte(v >> 8))
	d.byte(byte(v))
}

// sum finalizes with murmur3 fmix64 and truncates.
func (d *idHasher) sum() uint32 {
	h := d.h
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return uint32(h)
}

// sumID is sum with the low bit forced on, keeping zero unreachable.
func (d *idHasher) sumID() uint32 {
	return d.sum() | 1
}

// HashProposal derives a proposal identifier from the proposer, the
// description hash, the creation time and the proposal slot.
func HashProposal(proposer common.Address, descHash, now uint32, nonce uint8) uint32 {
	d := newIDHasher()
	d.bytes(proposer[:])
	d.u32(descHash)
	d.u32(now)
	d.byte(nonce)
	return d.sumID()
}

// HashOperation derives a timelock operation identifier from the proposal it
// executes, the scheduling time and the operation slot.
func HashOperation(proposalID, now uint32, nonce uint8) uint32 {
	d := newIDHasher()
	d.u32(proposalID)
	d.u32(now)
	d.byte(nonce)
	return d.sumID()
}

// HashMessage digests arbitrary bytes with the same construction, without
// the reserved-zero adjustment.
func HashMessage(msg []byte) uint32 {
	d := newIDHasher()
	d.bytes(msg)
	return d.sum()
}
