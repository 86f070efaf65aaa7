package wotsp

import (
	"encoding/binary"
	"io"
)

// Value of the type field for addresses of WOTS+ key pairs.
const ADDR_TYPE_OTS = 0

// Address used to diversify the hashes.  See fInto().
//
// The first 20 bytes (layer, tree, type and OTS index) are set by
// whatever scheme places the WOTS+ key pair in a tree.  This package
// never interprets them.  The last 12 bytes hold the chain, hash and
// keymask fields, which are set while walking the chains.
type Address [32]byte

// Returns an address filled with bytes read from rand.
func NewAddress(rand io.Reader) (addr Address, err Error) {
	if _, err2 := io.ReadFull(rand, addr[:]); err2 != nil {
		return addr, wrapErrorf(err2, "rand.Read()")
	}
	return
}

func (addr *Address) SetLayer(layer uint32) {
	binary.BigEndian.PutUint32(addr[0:4], layer)
}

func (addr *Address) SetTree(tree uint64) {
	binary.BigEndian.PutUint64(addr[4:12], tree)
}

func (addr *Address) SetType(typ uint32) {
	binary.BigEndian.PutUint32(addr[12:16], typ)
}

func (addr *Address) SetOTS(ots uint32) {
	binary.BigEndian.PutUint32(addr[16:20], ots)
}

func (addr *Address) SetChain(chain uint32) {
	binary.BigEndian.PutUint32(addr[20:24], chain)
}

func (addr *Address) SetHash(hash uint32) {
	binary.BigEndian.PutUint32(addr[24:28], hash)
}

func (addr *Address) SetKeyAndMask(keyAndMask uint32) {
	binary.BigEndian.PutUint32(addr[28:32], keyAndMask)
}

func (addr *Address) Layer() uint32 { return binary.BigEndian.Uint32(addr[0:4]) }
func (addr *Address) Tree() uint64  { return binary.BigEndian.Uint64(addr[4:12]) }
func (addr *Address) Type() uint32  { return binary.BigEndian.Uint32(addr[12:16]) }
func (addr *Address) OTS() uint32   { return binary.BigEndian.Uint32(addr[16:20]) }
func (addr *Address) Chain() uint32 { return binary.BigEndian.Uint32(addr[20:24]) }
func (addr *Address) Hash() uint32  { return binary.BigEndian.Uint32(addr[24:28]) }

func (addr *Address) KeyAndMask() uint32 {
	return binary.BigEndian.Uint32(addr[28:32])
}

// Copies the layer and tree fields of other into addr.
func (addr *Address) SetSubTreeFrom(other Address) {
	copy(addr[0:12], other[0:12])
}
