// Package parallel provides the data-parallel lane runner used by the
// elementwise kernels. Within one call all lanes are independent; For
// returns only after every lane function has completed.
package parallel

import (
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is the target platform's cache line width, taken from the
// padding type x/sys/cpu sizes per architecture.
const cacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum lanes per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	// Keep each worker's slice at least a cache line wide so neighboring
	// workers never share a line of the output buffer.
	chunk := max(64, cacheLineSize)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: chunk,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is
// too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForChunks executes f(start, end) over contiguous lane ranges. Kernels
// that keep per-task scratch (big-integer masks, scalar copies) use this
// form so the scratch is allocated once per worker rather than per lane.
func ForChunks(n int, f func(start, end int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		if n > 0 {
			f(0, n)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
