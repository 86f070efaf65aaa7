// Go implementation of the WOTS+ one-time signature scheme as described
// in RFC 8391 (https://tools.ietf.org/html/rfc8391#section-3).
//
// A WOTS+ key pair may be used to sign a single message.  Signing a second
// message with the same key pair allows forgeries.
package wotsp

// Contains majority of the API

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"sync/atomic"

	"github.com/bwesterb/byteswriter"
)

// WOTS+ instance.
// Create one using NewContextFromName, NewContextFromOid or NewContext.
type Context struct {
	// Number of worker goroutines ("threads") to use for computing the
	// chains of a single key or signature.  Will use the number of CPUs
	// if set to 0.
	Threads int

	p             Params // parameters.
	wotsLogW      uint8  // logarithm of the Winternitz parameter
	wotsLen1      uint32 // WOTS+ chains for message
	wotsLen2      uint32 // WOTS+ chains for checksum
	wotsLen       uint32 // total number of WOTS+ chains
	wotsSigBytes  uint32 // length of WOTS+ signature
	wotsCsumBytes uint32 // length of the encoded checksum
	wotsCsumShift uint32 // left shift of the checksum before encoding

	oid  uint32 // OID of this configuration, if it has any
	name string // name of algorithm, if it has any
}

// WOTS+ secret key, before expansion: a seed and the address of
// the key pair.
type SecretKey struct {
	ctx  *Context
	seed []byte
	addr Address
	used int32 // set to 1 once the key has signed a message
}

// WOTS+ public key
type PublicKey struct {
	ctx     *Context
	chains  []byte // the ends of the len chains
	pubSeed []byte
	addr    Address
}

// WOTS+ signature
type Signature struct {
	ctx     *Context
	chains  []byte // a value somewhere on each of the len chains
	pubSeed []byte
	addr    Address
}

func defaultRand(rnd io.Reader) io.Reader {
	if rnd == nil {
		return rand.Reader
	}
	return rnd
}

// Returns a fresh N-byte seed read from rnd.  If rnd is nil, crypto/rand
// is used.
func (ctx *Context) NewSeed(rnd io.Reader) ([]byte, Error) {
	seed := make([]byte, ctx.p.N)
	if _, err := io.ReadFull(defaultRand(rnd), seed); err != nil {
		return nil, wrapErrorf(err, "rand.Read()")
	}
	return seed, nil
}

// Creates a secret key from the given N-byte seed and the address
// of the key pair.
func (ctx *Context) NewSecretKey(seed []byte, addr Address) (
	*SecretKey, Error) {
	if err := ctx.checkLength("seed", seed); err != nil {
		return nil, err
	}
	sk := SecretKey{
		ctx:  ctx,
		seed: make([]byte, ctx.p.N),
		addr: addr,
	}
	copy(sk.seed, seed)
	return &sk, nil
}

// Creates a secret key with random seed and address read from rnd.
// If rnd is nil, crypto/rand is used.
func (ctx *Context) GenerateSecretKey(rnd io.Reader) (*SecretKey, Error) {
	rnd = defaultRand(rnd)
	seed, err := ctx.NewSeed(rnd)
	if err != nil {
		return nil, err
	}
	addr, err := NewAddress(rnd)
	if err != nil {
		return nil, err
	}
	return ctx.NewSecretKey(seed, addr)
}

// Generates a secret key and a public seed using rnd and returns
// them together with the matching public key.  If rnd is nil,
// crypto/rand is used.
func (ctx *Context) GenerateKeyPair(rnd io.Reader) (
	*SecretKey, *PublicKey, Error) {
	rnd = defaultRand(rnd)
	sk, err := ctx.GenerateSecretKey(rnd)
	if err != nil {
		return nil, nil, err
	}
	pubSeed, err := ctx.NewSeed(rnd)
	if err != nil {
		return nil, nil, err
	}
	pk, err := sk.PublicKey(pubSeed)
	if err != nil {
		return nil, nil, err
	}
	return sk, pk, nil
}

// Computes the public key belonging to this secret key and the given
// N-byte public seed.
func (sk *SecretKey) PublicKey(pubSeed []byte) (*PublicKey, Error) {
	ctx := sk.ctx
	if err := ctx.checkLength("pubSeed", pubSeed); err != nil {
		return nil, err
	}
	pk := PublicKey{
		ctx:     ctx,
		chains:  make([]byte, ctx.wotsSigBytes),
		pubSeed: append([]byte(nil), pubSeed...),
		addr:    sk.addr,
	}
	ctx.wotsPkGenInto(sk.seed, pk.pubSeed, sk.addr, pk.chains)
	return &pk, nil
}

// Signs the given N-byte message.
//
// A secret key can only sign once: later calls return an error.
func (sk *SecretKey) Sign(pubSeed, msg []byte) (*Signature, Error) {
	ctx := sk.ctx
	if err := ctx.checkLength("pubSeed", pubSeed); err != nil {
		return nil, err
	}
	if err := ctx.checkLength("message", msg); err != nil {
		return nil, err
	}
	if !atomic.CompareAndSwapInt32(&sk.used, 0, 1) {
		log.Logf("wotsp: refused to sign with a used secret key")
		return nil, errorf("This secret key has already signed a message")
	}
	sig := Signature{
		ctx:     ctx,
		chains:  make([]byte, ctx.wotsSigBytes),
		pubSeed: append([]byte(nil), pubSeed...),
		addr:    sk.addr,
	}
	ctx.wotsSignInto(msg, sk.seed, sig.pubSeed, sk.addr, sig.chains)
	return &sig, nil
}

// Returns whether this secret key has signed a message.
func (sk *SecretKey) Used() bool {
	return atomic.LoadInt32(&sk.used) == 1
}

// Returns a copy of the secret seed.
func (sk *SecretKey) Seed() []byte      { return append([]byte(nil), sk.seed...) }
func (sk *SecretKey) Address() Address  { return sk.addr }
func (sk *SecretKey) Context() *Context { return sk.ctx }

// Computes the public key that would have created this signature on
// the given N-byte message.  Compare it to a trusted public key, or
// use PublicKey.Verify() instead.
func (sig *Signature) PublicKey(msg []byte) (*PublicKey, Error) {
	ctx := sig.ctx
	if err := ctx.checkLength("message", msg); err != nil {
		return nil, err
	}
	pk := PublicKey{
		ctx:     ctx,
		chains:  make([]byte, ctx.wotsSigBytes),
		pubSeed: sig.pubSeed,
		addr:    sig.addr,
	}
	ctx.wotsPkFromSigInto(sig.chains, msg, sig.pubSeed, sig.addr, pk.chains)
	return &pk, nil
}

// Check whether the sig is a valid signature of this public key
// for the given message.  The signature must carry the public seed
// and address of the public key.
func (pk *PublicKey) Verify(sig *Signature, msg []byte) (bool, Error) {
	if sig == nil {
		return false, errorf("No signature")
	}
	if sig.ctx.p != pk.ctx.p {
		return false, errorf("Signature and public key have different parameters")
	}
	ok := subtle.ConstantTimeCompare(sig.pubSeed, pk.pubSeed)
	ok &= subtle.ConstantTimeCompare(sig.addr[:], pk.addr[:])
	if ok != 1 {
		log.Logf("wotsp: signature is for another public seed or address")
		err := errorf("Signature was made for another public seed or address")
		err.invalid = true
		return false, err
	}
	rxPk, err := sig.PublicKey(msg)
	if err != nil {
		return false, err
	}
	if subtle.ConstantTimeCompare(rxPk.chains, pk.chains) != 1 {
		log.Logf("wotsp: signature does not match public key")
		err := errorf("Invalid signature")
		err.invalid = true
		return false, err
	}
	return true, nil
}

// Returns whether both public keys are equal: same parameters, chains,
// public seed and address.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk.ctx.p != other.ctx.p {
		return false
	}
	ok := subtle.ConstantTimeCompare(pk.chains, other.chains)
	ok &= subtle.ConstantTimeCompare(pk.pubSeed, other.pubSeed)
	ok &= subtle.ConstantTimeCompare(pk.addr[:], other.addr[:])
	return ok == 1
}

// Returns a copy of the end of the given chain.
func (pk *PublicKey) Chain(i uint32) []byte {
	return append([]byte(nil), pk.ctx.chainSlice(pk.chains, i)...)
}

// Returns a copy of the given chain value of the signature.
func (sig *Signature) Chain(i uint32) []byte {
	return append([]byte(nil), sig.ctx.chainSlice(sig.chains, i)...)
}

func (pk *PublicKey) PubSeed() []byte    { return append([]byte(nil), pk.pubSeed...) }
func (pk *PublicKey) Address() Address   { return pk.addr }
func (pk *PublicKey) Context() *Context  { return pk.ctx }
func (sig *Signature) PubSeed() []byte   { return append([]byte(nil), sig.pubSeed...) }
func (sig *Signature) Address() Address  { return sig.addr }
func (sig *Signature) Context() *Context { return sig.ctx }

// Returns a copy of the len concatenated chain values, without public
// seed and address.
func (pk *PublicKey) Bytes() []byte { return append([]byte(nil), pk.chains...) }

// Returns a copy of the len concatenated chain values, without public
// seed and address.
func (sig *Signature) Bytes() []byte { return append([]byte(nil), sig.chains...) }

// Returns the chains followed by the public seed and the address.
// Will never return an error.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.ctx.marshalChains(pk.chains, pk.pubSeed, pk.addr)
}

// Returns the chains followed by the public seed and the address.
// Will never return an error.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	return sig.ctx.marshalChains(sig.chains, sig.pubSeed, sig.addr)
}

// Parses a public key as written by PublicKey.MarshalBinary().
func (ctx *Context) UnmarshalPublicKey(buf []byte) (*PublicKey, Error) {
	chains, pubSeed, addr, err := ctx.unmarshalChains(buf)
	if err != nil {
		return nil, err
	}
	return &PublicKey{ctx: ctx, chains: chains, pubSeed: pubSeed, addr: addr}, nil
}

// Parses a signature as written by Signature.MarshalBinary().
func (ctx *Context) UnmarshalSignature(buf []byte) (*Signature, Error) {
	chains, pubSeed, addr, err := ctx.unmarshalChains(buf)
	if err != nil {
		return nil, err
	}
	return &Signature{ctx: ctx, chains: chains, pubSeed: pubSeed, addr: addr}, nil
}

func (ctx *Context) marshalChains(chains, pubSeed []byte, addr Address) (
	[]byte, error) {
	ret := make([]byte, ctx.p.MarshaledSize())
	w := byteswriter.NewWriter(ret)
	for _, part := range [][]byte{chains, pubSeed, addr[:]} {
		if _, err := w.Write(part); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (ctx *Context) unmarshalChains(buf []byte) (
	chains, pubSeed []byte, addr Address, err Error) {
	if uint32(len(buf)) != ctx.p.MarshaledSize() {
		err = errorf("Expected %d bytes, got %d",
			ctx.p.MarshaledSize(), len(buf))
		return
	}
	chains = make([]byte, ctx.wotsSigBytes)
	pubSeed = make([]byte, ctx.p.N)
	copy(chains, buf)
	copy(pubSeed, buf[ctx.wotsSigBytes:])
	copy(addr[:], buf[ctx.wotsSigBytes+ctx.p.N:])
	return
}

func (ctx *Context) checkLength(what string, buf []byte) Error {
	if uint32(len(buf)) != ctx.p.N {
		return errorf("%s should have length %d, not %d",
			what, ctx.p.N, len(buf))
	}
	return nil
}

// Returns the name of the WOTS+ instance and an empty string if it has
// no name.
func (ctx *Context) Name() string { return ctx.name }

// Returns the Oid of the WOTS+ instance and 0 if it has no Oid.
func (ctx *Context) Oid() uint32 { return ctx.oid }

// Get parameters of a WOTS+ instance
func (ctx *Context) Params() Params { return ctx.p }

// Returns the number of chains, len.
func (ctx *Context) Len() uint32 { return ctx.wotsLen }

// Returns the size of signatures of this WOTS+ instance, without the
// public seed and address.
func (ctx *Context) SignatureSize() uint32 { return ctx.wotsSigBytes }
