package wotsp

import (
	"bytes"
	"sync"
	"testing"
)

func TestForEachChainVisitsAll(t *testing.T) {
	for _, threads := range []int{0, 1, 2, 3, 16, 1000} {
		ctx := NewContextFromName("WOTSP-SHA2_512")
		ctx.Threads = threads
		visits := make([]int, ctx.wotsLen)
		var mux sync.Mutex
		ctx.forEachChain(func(pad scratchPad, i uint32) {
			mux.Lock()
			visits[i]++
			mux.Unlock()
		})
		for i, v := range visits {
			if v != 1 {
				t.Fatalf("Threads=%d: chain %d visited %d times", threads, i, v)
			}
		}
	}
}

func TestThreadsGiveSameResult(t *testing.T) {
	SetLogger(t)
	defer SetLogger(nil)

	for _, name := range ListNames() {
		ctx := NewContextFromName(name)
		seed := make([]byte, ctx.p.N)
		pubSeed := make([]byte, ctx.p.N)
		msg := make([]byte, ctx.p.N)
		for i := 0; i < int(ctx.p.N); i++ {
			seed[i] = byte(i)
			pubSeed[i] = byte(2 * i)
			msg[i] = byte(3 * i)
		}
		addr := testAddress()

		ctx.Threads = 1
		pk1 := ctx.wotsPkGen(seed, pubSeed, addr)
		sig1 := ctx.wotsSign(msg, seed, pubSeed, addr)
		rx1 := ctx.wotsPkFromSig(sig1, msg, pubSeed, addr)

		ctx.Threads = 5
		pk2 := ctx.wotsPkGen(seed, pubSeed, addr)
		sig2 := ctx.wotsSign(msg, seed, pubSeed, addr)
		rx2 := ctx.wotsPkFromSig(sig2, msg, pubSeed, addr)

		if !bytes.Equal(pk1, pk2) || !bytes.Equal(sig1, sig2) ||
			!bytes.Equal(rx1, rx2) {
			t.Fatalf("%s: results depend on the number of threads", name)
		}
		if !bytes.Equal(rx1, pk1) {
			t.Fatalf("%s: verification failed", name)
		}
	}
}

// Independent key pairs share nothing but the Context.
func TestIndependentKeysInParallel(t *testing.T) {
	ctx := NewContextFromName("WOTSP-SHA2_256")
	ctx.Threads = 2
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for k := 0; k < 16; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			seed := bytes.Repeat([]byte{byte(k)}, 32)
			var addr Address
			addr.SetOTS(uint32(k))
			sk, _ := ctx.NewSecretKey(seed, addr)
			pk, _ := sk.PublicKey(seed)
			sig, err := sk.Sign(seed, seed)
			if err != nil {
				errs <- err.Error()
				return
			}
			if ok, _ := pk.Verify(sig, seed); !ok {
				errs <- "signature did not verify"
			}
		}(k)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
