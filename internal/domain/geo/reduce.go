package geo

import (
	"math"
	"sync"
	"sync/atomic"
)

// minParallelItems is the range size below which MinOver folds on the calling goroutine.
const minParallelItems = 64

// MinOver returns min(f(0), ..., f(n-1)), or +Inf for an empty range.
//
// With workers > 1 the indices are handed out through a shared counter; every worker folds a
// private minimum and the partial minima are combined once all workers have returned. min is
// commutative for non-NaN values, so the result matches the sequential fold exactly.
func MinOver(n, workers int, f func(i int) float64) float64 {
	if workers <= 1 || n < minParallelItems {
		return sequentialMin(n, f)
	}
	if workers > n {
		workers = n
	}

	var (
		next    atomic.Int64
		wg      sync.WaitGroup
		partial = make([]float64, workers)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := math.Inf(1)
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					break
				}
				local = math.Min(local, f(i))
			}
			partial[w] = local
		}(w)
	}
	wg.Wait()

	result := math.Inf(1)
	for _, m := range partial {
		result = math.Min(result, m)
	}
	return result
}

func sequentialMin(n int, f func(i int) float64) float64 {
	result := math.Inf(1)
	for i := 0; i < n; i++ {
		result = math.Min(result, f(i))
	}
	return result
}
