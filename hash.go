package wotsp

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/templexxx/xorsimd"
	"golang.org/x/crypto/sha3"
)

const (
	HASH_PADDING_F   = 0
	HASH_PADDING_PRF = 3
)

// Computes the underlying N-byte hash of in and writes it to out.
func (ctx *Context) hashInto(in, out []byte) {
	if ctx.p.Func == SHA2 {
		if ctx.p.N == 32 {
			ret := sha256.Sum256(in)
			copy(out, ret[:])
		} else { // N == 64
			ret := sha512.Sum512(in)
			copy(out, ret[:])
		}
	} else { // SHAKE
		if ctx.p.N == 32 {
			sha3.ShakeSum128(out[:32], in)
		} else { // N == 64
			sha3.ShakeSum256(out[:64], in)
		}
	}
}

// Compute PRF(key, in) and write it to out.
// in must be 32 bytes and key must be N bytes.
func (ctx *Context) prfInto(pad scratchPad, key, in, out []byte) {
	buf := pad.prfBuf()
	encodeUint64Into(HASH_PADDING_PRF, buf[:ctx.p.N])
	copy(buf[ctx.p.N:], key)
	copy(buf[ctx.p.N*2:], in)
	ctx.hashInto(buf, out)
}

// Compute the keyed hash F(key, in) and write it to out.
// Both key and in must be N bytes.
func (ctx *Context) hashFInto(pad scratchPad, key, in, out []byte) {
	buf := pad.fBuf()
	encodeUint64Into(HASH_PADDING_F, buf[:ctx.p.N])
	copy(buf[ctx.p.N:], key)
	copy(buf[ctx.p.N*2:], in)
	ctx.hashInto(buf, out)
}

// Compute a single step of a WOTS+ chain: F(key, in XOR bitmask) where
// the key and bitmask are derived from pubSeed and addr.
// in and out may be the same slice.
func (ctx *Context) fInto(pad scratchPad, in, pubSeed []byte,
	addr Address, out []byte) {
	key := pad.keyBuf()
	bitmask := pad.maskBuf()
	addr.SetKeyAndMask(0)
	ctx.prfInto(pad, pubSeed, addr[:], key)
	addr.SetKeyAndMask(1)
	ctx.prfInto(pad, pubSeed, addr[:], bitmask)
	xorsimd.Bytes(bitmask, in[:ctx.p.N], bitmask)
	ctx.hashFInto(pad, key, bitmask, out)
}
