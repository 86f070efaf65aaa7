package wotsp

import (
	"runtime"
	"sync"
)

// A scratchpad used by a single goroutine to avoid memory allocation.
type scratchPad struct {
	buf []byte
	n   uint32
}

func (pad scratchPad) fBuf() []byte {
	return pad.buf[:3*pad.n]
}

func (pad scratchPad) prfBuf() []byte {
	return pad.buf[3*pad.n : 5*pad.n+32]
}

func (pad scratchPad) keyBuf() []byte {
	return pad.buf[5*pad.n+32 : 6*pad.n+32]
}

func (pad scratchPad) maskBuf() []byte {
	return pad.buf[6*pad.n+32 : 7*pad.n+32]
}

func (pad scratchPad) wotsSkBuf() []byte {
	return pad.buf[7*pad.n+32 : 8*pad.n+32]
}

func (pad scratchPad) ctrBuf() []byte {
	return pad.buf[8*pad.n+32 : 8*pad.n+64]
}

func (ctx *Context) newScratchPad() scratchPad {
	n := ctx.p.N
	return scratchPad{
		buf: make([]byte, 8*n+64),
		n:   n,
	}
}

// Number of chains a worker claims at a time.
const chainsPerBatch = 8

// Calls f once for each of the WOTS+ chains 0, ..., len-1.  The calls
// are spread over ctx.Threads goroutines, each with its own scratchpad.
// f must only write to state that belongs to its chain.
func (ctx *Context) forEachChain(f func(pad scratchPad, chain uint32)) {
	threads := ctx.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	maxThreads := int((ctx.wotsLen + chainsPerBatch - 1) / chainsPerBatch)
	if threads > maxThreads {
		threads = maxThreads
	}

	if threads <= 1 {
		pad := ctx.newScratchPad()
		var i uint32
		for i = 0; i < ctx.wotsLen; i++ {
			f(pad, i)
		}
		return
	}

	// The code below does exactly the same as the loop above,
	// but then in parallel.
	log.Logf("wotsp: computing %d chains on %d goroutines",
		ctx.wotsLen, threads)
	wg := &sync.WaitGroup{}
	mux := &sync.Mutex{}
	var idx uint32
	wg.Add(threads)
	for t := 0; t < threads; t++ {
		go func() {
			defer wg.Done()
			pad := ctx.newScratchPad()
			var ourIdx uint32
			for {
				mux.Lock()
				ourIdx = idx
				idx += chainsPerBatch
				mux.Unlock()
				if ourIdx >= ctx.wotsLen {
					break
				}
				ourEnd := ourIdx + chainsPerBatch
				if ourEnd > ctx.wotsLen {
					ourEnd = ctx.wotsLen
				}
				for ; ourIdx < ourEnd; ourIdx++ {
					f(pad, ourIdx)
				}
			}
		}()
	}

	wg.Wait() // wait for all workers to finish
}
