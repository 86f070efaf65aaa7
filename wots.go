package wotsp

// Converts a message into positions on the WOTS+ chains, which
// are called "chain lengths".
func (ctx *Context) wotsChainLengths(msg []byte) []uint8 {
	ret := make([]uint8, ctx.wotsLen)

	// compute the chain lengths for the message itself
	ctx.toBaseW(msg, ret[:ctx.wotsLen1])

	// compute the checksum
	var csum uint32 = 0
	for i := 0; i < int(ctx.wotsLen1); i++ {
		csum += uint32(ctx.p.WotsW) - 1 - uint32(ret[i])
	}

	// make sure the padding zero bits end up as the least significant bits
	csum = csum << ctx.wotsCsumShift

	// put checksum in buffer
	ctx.toBaseW(
		encodeUint64(uint64(csum), int(ctx.wotsCsumBytes)),
		ret[ctx.wotsLen1:])
	return ret
}

// Converts the given array of bytes into base w for the WOTS+ one-time
// signature scheme.  Only works if LogW divides into 8.
func (ctx *Context) toBaseW(input []byte, output []uint8) {
	var in uint32 = 0
	var out uint32 = 0
	var total uint8
	var bits uint8

	for consumed := 0; consumed < len(output); consumed++ {
		if bits == 0 {
			total = input[in]
			in++
			bits = 8
		}
		bits -= ctx.wotsLogW
		output[out] = uint8(uint16(total>>bits) & (ctx.p.WotsW - 1))
		out++
	}
}

// Compute the (start + steps)th value in the WOTS+ chain, given
// the start'th value in the chain.  Steps past w-1 are skipped.
// addr should have its chain field set.  in and out may be the same slice.
func (ctx *Context) wotsGenChainInto(pad scratchPad, in []byte,
	start, steps uint16, pubSeed []byte, addr Address, out []byte) {
	copy(out, in[:ctx.p.N])
	var i uint16
	for i = start; i < (start+steps) && (i < ctx.p.WotsW); i++ {
		addr.SetHash(uint32(i))
		ctx.fInto(pad, out, pubSeed, addr, out)
	}
}

// Derives the secret starting value of the given chain from the seed.
func (ctx *Context) wotsSkInto(pad scratchPad, seed []byte, addr Address,
	chain uint32, out []byte) {
	if ctx.p.KeyDerivation == AddressDerivation {
		addr.SetChain(chain)
		addr.SetHash(0)
		addr.SetKeyAndMask(0)
		ctx.prfInto(pad, seed, addr[:], out)
		return
	}
	ctr := pad.ctrBuf()
	encodeUint64Into(uint64(chain), ctr)
	ctx.prfInto(pad, seed, ctr, out)
}

// Returns the slice of buf that holds the given chain.
func (ctx *Context) chainSlice(buf []byte, chain uint32) []byte {
	return buf[ctx.p.N*chain : ctx.p.N*(chain+1)]
}

// Generate a WOTS+ public key from secret key seed.
func (ctx *Context) wotsPkGenInto(seed, pubSeed []byte, addr Address,
	out []byte) {
	ctx.forEachChain(func(pad scratchPad, i uint32) {
		chainAddr := addr
		chainAddr.SetChain(i)
		sk := pad.wotsSkBuf()
		ctx.wotsSkInto(pad, seed, addr, i, sk)
		ctx.wotsGenChainInto(pad, sk, 0, ctx.p.WotsW-1, pubSeed,
			chainAddr, ctx.chainSlice(out, i))
	})
}

// Create a WOTS+ signature of a n-byte message
func (ctx *Context) wotsSignInto(msg, seed, pubSeed []byte, addr Address,
	out []byte) {
	lengths := ctx.wotsChainLengths(msg)
	ctx.forEachChain(func(pad scratchPad, i uint32) {
		chainAddr := addr
		chainAddr.SetChain(i)
		sk := pad.wotsSkBuf()
		ctx.wotsSkInto(pad, seed, addr, i, sk)
		ctx.wotsGenChainInto(pad, sk, 0, uint16(lengths[i]), pubSeed,
			chainAddr, ctx.chainSlice(out, i))
	})
}

// Computes the public key from a message and its WOTS+ signature.
func (ctx *Context) wotsPkFromSigInto(sig, msg, pubSeed []byte,
	addr Address, out []byte) {
	lengths := ctx.wotsChainLengths(msg)
	ctx.forEachChain(func(pad scratchPad, i uint32) {
		chainAddr := addr
		chainAddr.SetChain(i)
		ctx.wotsGenChainInto(pad, ctx.chainSlice(sig, i),
			uint16(lengths[i]), ctx.p.WotsW-1-uint16(lengths[i]),
			pubSeed, chainAddr, ctx.chainSlice(out, i))
	})
}

func (ctx *Context) wotsPkGen(seed, pubSeed []byte, addr Address) []byte {
	ret := make([]byte, ctx.wotsSigBytes)
	ctx.wotsPkGenInto(seed, pubSeed, addr, ret)
	return ret
}

func (ctx *Context) wotsSign(msg, seed, pubSeed []byte, addr Address) []byte {
	ret := make([]byte, ctx.wotsSigBytes)
	ctx.wotsSignInto(msg, seed, pubSeed, addr, ret)
	return ret
}

func (ctx *Context) wotsPkFromSig(sig, msg, pubSeed []byte,
	addr Address) []byte {
	ret := make([]byte, ctx.wotsSigBytes)
	ctx.wotsPkFromSigInto(sig, msg, pubSeed, addr, ret)
	return ret
}
