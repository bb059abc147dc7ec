package geo

import (
	"math"
	"testing"
)

func TestMinOver_Empty(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		if got := MinOver(0, workers, func(int) float64 { return 0 }); !math.IsInf(got, 1) {
			t.Errorf("workers=%d: want +Inf, got %v", workers, got)
		}
	}
}

func TestMinOver_VisitsEveryIndex(t *testing.T) {
	const n = 10_000
	values := make([]float64, n)
	for i := range values {
		values[i] = float64((i*7919)%n) + 1
	}
	values[6421] = -3.5

	for _, workers := range []int{1, 2, 4, 16} {
		got := MinOver(n, workers, func(i int) float64 { return values[i] })
		if got != -3.5 {
			t.Errorf("workers=%d: want -3.5, got %v", workers, got)
		}
	}
}

func TestMinOver_SmallRangeRunsSequentially(t *testing.T) {
	calls := make([]int, 5)
	got := MinOver(len(calls), 8, func(i int) float64 {
		calls[i]++
		return float64(10 - i)
	})
	if got != 6 {
		t.Fatalf("want 6, got %v", got)
	}
	for i, c := range calls {
		if c != 1 {
			t.Fatalf("index %d evaluated %d times", i, c)
		}
	}
}
