package wotsp

import (
	"fmt"
	"math/bits"

	"github.com/hashicorp/go-multierror"
)

type HashFunc uint8

const (
	SHA2  HashFunc = 0
	SHAKE HashFunc = 1
)

// How the secret starting value of each chain is derived from the seed.
type KeyDerivation uint8

const (
	// sk_i = PRF(seed, toByte(i, 32)), as in expand_seed of RFC 8391.
	CounterDerivation KeyDerivation = 0

	// sk_i = PRF(seed, addr) where addr is the address of the key pair
	// with its chain field set to i and hash and keymask set to 0.
	AddressDerivation KeyDerivation = 1
)

// Parameters of a WOTS+ instance
type Params struct {
	Func HashFunc // which hash function to use
	N    uint32   // security parameter: length of hashes, seeds and messages

	// Winternitz parameter.  Only 4, 16 and 256 are supported.
	WotsW uint16

	KeyDerivation KeyDerivation
}

// Entry in the registry of algorithms
type regEntry struct {
	name   string // name, eg. WOTSP-SHA2_256
	oid    uint32 // oid of the algorithm
	params Params // parameters of the algorithm
}

// Registry of named WOTS+ algorithms
var registry []regEntry = []regEntry{
	{"WOTSP-SHA2_256", 0x00000001, Params{SHA2, 32, 16, CounterDerivation}},
	{"WOTSP-SHA2_512", 0x00000002, Params{SHA2, 64, 16, CounterDerivation}},
	{"WOTSP-SHAKE_256", 0x00000003, Params{SHAKE, 32, 16, CounterDerivation}},
	{"WOTSP-SHAKE_512", 0x00000004, Params{SHAKE, 64, 16, CounterDerivation}},
}

var registryNameLut map[string]regEntry
var registryOidLut map[uint32]regEntry

// Initializes algorithm lookup tables.
func init() {
	registryNameLut = make(map[string]regEntry)
	registryOidLut = make(map[uint32]regEntry)
	for _, entry := range registry {
		registryNameLut[entry.name] = entry
		registryOidLut[entry.oid] = entry
	}
}

// Returns parameters for the named WOTS+ instance (and nil if there is no
// such algorithm).
func ParamsFromName(name string) *Params {
	entry, ok := registryNameLut[name]
	if !ok {
		return nil
	}
	params := entry.params
	return &params
}

// Looks up the name and oid of these parameters.  Returns an empty
// string and 0 if they are not a named instance.
func (params *Params) LookupNameAndOid() (string, uint32) {
	for _, entry := range registry {
		if entry.params == *params {
			return entry.name, entry.oid
		}
	}
	return "", 0
}

// List all named WOTS+ instances
func ListNames() (names []string) {
	names = make([]string, len(registry))
	for i, entry := range registry {
		names[i] = entry.name
	}
	return
}

// Checks whether these parameters describe a supported WOTS+ instance.
// All problems are reported, not just the first.
func (params *Params) Validate() error {
	var result *multierror.Error
	if params.Func != SHA2 && params.Func != SHAKE {
		result = multierror.Append(result,
			fmt.Errorf("unknown hash function %d", params.Func))
	}
	if params.N != 32 && params.N != 64 {
		result = multierror.Append(result,
			fmt.Errorf("N must be 32 or 64, not %d", params.N))
	}
	if params.WotsW != 4 && params.WotsW != 16 && params.WotsW != 256 {
		result = multierror.Append(result,
			fmt.Errorf("WotsW must be 4, 16 or 256, not %d", params.WotsW))
	}
	if params.KeyDerivation != CounterDerivation &&
		params.KeyDerivation != AddressDerivation {
		result = multierror.Append(result,
			fmt.Errorf("unknown key derivation %d", params.KeyDerivation))
	}
	return result.ErrorOrNil()
}

// Returns the 2log of the Winternitz parameter
func (params *Params) WotsLogW() uint8 {
	return uint8(bits.Len16(params.WotsW) - 1)
}

// Returns the number of main WOTS+ chains: ceil(8N / logW).
// Returns 0 if the parameters are invalid.
func (params *Params) WotsLen1() uint32 {
	if params.Validate() != nil {
		return 0
	}
	logW := uint32(params.WotsLogW())
	return (8*params.N + logW - 1) / logW
}

// Returns the number of WOTS+ checksum chains:
// floor(log2(len1 * (w - 1)) / logW) + 1
// Returns 0 if the parameters are invalid.
func (params *Params) WotsLen2() uint32 {
	if params.Validate() != nil {
		return 0
	}
	maxCsum := params.WotsLen1() * (uint32(params.WotsW) - 1)
	return uint32(bits.Len32(maxCsum)-1)/uint32(params.WotsLogW()) + 1
}

// Returns the total number of WOTS+ chains
func (params *Params) WotsLen() uint32 {
	return params.WotsLen1() + params.WotsLen2()
}

// Returns the size of a WOTS+ signature or public key without
// the public seed and address.
func (params *Params) WotsSignatureSize() uint32 {
	return params.WotsLen() * params.N
}

// Returns the size of a WOTS+ signature or public key as written
// by MarshalBinary().
func (params *Params) MarshaledSize() uint32 {
	return params.WotsSignatureSize() + params.N + 32
}

// Returns a four byte representation of the parameters:
// hash function, key derivation, N and the 2log of WotsW.
func (params *Params) MarshalBinary() ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return []byte{
		byte(params.Func),
		byte(params.KeyDerivation),
		byte(params.N),
		params.WotsLogW(),
	}, nil
}

func (params *Params) UnmarshalBinary(buf []byte) error {
	if len(buf) != 4 {
		return fmt.Errorf("params should be 4 bytes, not %d", len(buf))
	}
	if buf[3] >= 16 {
		return fmt.Errorf("2log of WotsW is too large: %d", buf[3])
	}
	var p2 Params
	p2.Func = HashFunc(buf[0])
	p2.KeyDerivation = KeyDerivation(buf[1])
	p2.N = uint32(buf[2])
	p2.WotsW = 1 << buf[3]
	if err := p2.Validate(); err != nil {
		return err
	}
	*params = p2
	return nil
}

// Return new context for the given WOTS+ oid (and nil if it's unknown).
func NewContextFromOid(oid uint32) *Context {
	entry, ok := registryOidLut[oid]
	if !ok {
		return nil
	}
	ctx, _ := NewContext(entry.params)
	return ctx
}

// Return new context for the given WOTS+ algorithm name (and nil if the
// algorithm name is unknown).
func NewContextFromName(name string) *Context {
	params := ParamsFromName(name)
	if params == nil {
		return nil
	}
	ctx, _ := NewContext(*params)
	return ctx
}

// Creates a new context.
func NewContext(params Params) (ctx *Context, err Error) {
	if err2 := params.Validate(); err2 != nil {
		return nil, wrapErrorf(err2, "invalid WOTS+ parameters")
	}

	ctx = new(Context)
	ctx.p = params
	ctx.wotsLogW = params.WotsLogW()
	ctx.wotsLen1 = params.WotsLen1()
	ctx.wotsLen2 = params.WotsLen2()
	ctx.wotsLen = params.WotsLen()
	ctx.wotsSigBytes = params.WotsSignatureSize()
	ctx.wotsCsumBytes = (ctx.wotsLen2*uint32(ctx.wotsLogW) + 7) / 8
	ctx.wotsCsumShift = (8 - (ctx.wotsLen2*uint32(ctx.wotsLogW))%8) % 8

	name, oid := params.LookupNameAndOid()
	ctx.name = name
	ctx.oid = oid
	return
}
