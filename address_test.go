package wotsp

import (
	"bytes"
	"errors"
	"testing"
)

func TestAddressFieldOffsets(t *testing.T) {
	var addr Address
	addr.SetChain(0x01020304)
	addr.SetHash(0x05060708)
	addr.SetKeyAndMask(0x090a0b0c)
	expect := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if !bytes.Equal(addr[20:], expect) {
		t.Fatalf("chain, hash and keymask encoded as %x", addr[20:])
	}
	if !bytes.Equal(addr[:20], make([]byte, 20)) {
		t.Fatalf("prefix was touched: %x", addr[:20])
	}
}

func TestAddressFieldIsolation(t *testing.T) {
	var addr Address
	for i := range addr {
		addr[i] = byte(0xa0 + i)
	}
	orig := addr

	check := func(what string, lo, hi int) {
		for i := range addr {
			if i >= lo && i < hi {
				continue
			}
			if addr[i] != orig[i] {
				t.Fatalf("%s changed byte %d", what, i)
			}
		}
		copy(orig[lo:hi], addr[lo:hi])
	}

	addr.SetChain(0xffffffff)
	check("SetChain", 20, 24)
	addr.SetHash(0)
	check("SetHash", 24, 28)
	addr.SetKeyAndMask(1)
	check("SetKeyAndMask", 28, 32)

	if addr.Chain() != 0xffffffff || addr.Hash() != 0 || addr.KeyAndMask() != 1 {
		t.Fatalf("getters return %d %d %d", addr.Chain(), addr.Hash(),
			addr.KeyAndMask())
	}
}

func TestAddressPrefix(t *testing.T) {
	var addr Address
	addr.SetLayer(3)
	addr.SetTree(0x0102030405060708)
	addr.SetType(ADDR_TYPE_OTS)
	addr.SetOTS(17)
	addr.SetChain(66)

	if addr.Layer() != 3 || addr.Tree() != 0x0102030405060708 ||
		addr.Type() != ADDR_TYPE_OTS || addr.OTS() != 17 || addr.Chain() != 66 {
		t.Fatalf("unexpected fields in %x", addr[:])
	}
	if !bytes.Equal(addr[4:12], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("tree encoded as %x", addr[4:12])
	}

	var other Address
	other.SetChain(5)
	other.SetSubTreeFrom(addr)
	if other.Layer() != 3 || other.Tree() != addr.Tree() ||
		other.Type() != 0 || other.Chain() != 5 {
		t.Fatalf("SetSubTreeFrom copied too much or too little: %x", other[:])
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("no entropy")
}

func TestNewAddress(t *testing.T) {
	addr, err := NewAddress(bytes.NewReader(bytes.Repeat([]byte{7}, 32)))
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	if !bytes.Equal(addr[:], bytes.Repeat([]byte{7}, 32)) {
		t.Fatalf("NewAddress did not use the random source")
	}

	_, err = NewAddress(bytes.NewReader(make([]byte, 31)))
	if err == nil {
		t.Fatalf("NewAddress accepted a short read")
	}
	_, err = NewAddress(failingReader{})
	if err == nil || err.Inner() == nil {
		t.Fatalf("NewAddress should wrap the reader's error")
	}
}
