package geo

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewPolyLine_OnePoint(t *testing.T) {
	_, err := NewPolyLine([]Point{{0, 1}})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints, got %v", err)
	}
}

func TestNewPolyLine_Empty(t *testing.T) {
	_, err := NewPolyLine(nil)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints, got %v", err)
	}
}

func TestNewPolyLine_TwoPoints(t *testing.T) {
	pl, err := NewPolyLine([]Point{{0, 1}, {0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pl.Len() != 1 {
		t.Fatalf("want 1 segment, got %d", pl.Len())
	}
}

func TestNewPolyLine_RepeatedPoint(t *testing.T) {
	_, err := NewPolyLine([]Point{{0, 1}, {0, 1}, {2, 2}})
	if !errors.Is(err, ErrDegenerateSegment) {
		t.Fatalf("want ErrDegenerateSegment, got %v", err)
	}
}

func TestPolyLine_DistanceTo(t *testing.T) {
	pl, err := NewPolyLine([]Point{{0, 1}, {0, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := pl.DistanceTo(Point{X: -0.5, Y: 0.5}); !almost(d, 0.5, 1e-10) {
		t.Fatalf("want 0.5, got %v", d)
	}
}

func TestPolyLine_DistanceTo_Idempotent(t *testing.T) {
	pl, err := NewPolyLine([]Point{{0, 1}, {0, 0}, {1, 0}, {3, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := Point{X: 1.7, Y: -0.3}
	first := pl.DistanceTo(p)
	for i := 0; i < 10; i++ {
		if got := pl.DistanceTo(p); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("call %d returned %v, first call %v", i, got, first)
		}
		if got := pl.DistanceToParallel(p, 4); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("parallel call %d returned %v, first call %v", i, got, first)
		}
	}
}

func TestPolyLine_Vertices(t *testing.T) {
	in := []Point{{0, 1}, {0, 0}, {1, 0}, {5, 5}}
	pl, err := NewPolyLine(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := pl.Vertices()
	if len(got) != len(in) {
		t.Fatalf("want %d vertices, got %d", len(in), len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("vertex %d: want %s got %s", i, in[i], got[i])
		}
	}
	got[0] = Point{X: 99, Y: 99}
	if pl.Vertices()[0] != in[0] {
		t.Fatal("vertices slice aliases the polyline")
	}
}

func TestPolyLine_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, 500)
	x, y := 0.0, 0.0
	for i := range points {
		x += 1 + rng.Float64()*50
		y += rng.Float64()*100 - 50
		points[i] = Point{X: x, Y: y}
	}
	pl, err := NewPolyLine(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		p := Point{X: rng.Float64() * x, Y: rng.Float64()*2000 - 1000}
		seq := pl.DistanceTo(p)
		for _, workers := range []int{2, 3, 8, 1000} {
			if par := pl.DistanceToParallel(p, workers); math.Float64bits(par) != math.Float64bits(seq) {
				t.Fatalf("workers=%d point=%s: parallel %v != sequential %v", workers, p, par, seq)
			}
		}
	}
}
