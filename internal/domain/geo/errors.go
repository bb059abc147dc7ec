package geo

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a shape construction failure.
type Kind string

const (
	// KindDegenerateSegment: segment endpoints closer than Tolerance.
	KindDegenerateSegment Kind = "degenerate_segment"
	// KindInsufficientPoints: too few points for the requested shape.
	KindInsufficientPoints Kind = "insufficient_points"
	// KindDegenerateShape: three polygon points where first == last.
	KindDegenerateShape Kind = "degenerate_shape"
	// KindDiscontinuousChain: adjacent segments do not share an endpoint.
	KindDiscontinuousChain Kind = "discontinuous_chain"
	// KindUnclosedLoop: the last polygon segment does not end at the first one's start.
	KindUnclosedLoop Kind = "unclosed_loop"
)

// Sentinel errors, one per Kind. Use errors.Is to check.
var (
	ErrDegenerateSegment  = errors.New("degenerate segment")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDegenerateShape    = errors.New("degenerate shape")
	ErrDiscontinuousChain = errors.New("discontinuous chain")
	ErrUnclosedLoop       = errors.New("unclosed loop")
)

var sentinels = map[Kind]error{
	KindDegenerateSegment:  ErrDegenerateSegment,
	KindInsufficientPoints: ErrInsufficientPoints,
	KindDegenerateShape:    ErrDegenerateShape,
	KindDiscontinuousChain: ErrDiscontinuousChain,
	KindUnclosedLoop:       ErrUnclosedLoop,
}

// Error is a construction failure carrying the offending coordinates.
type Error struct {
	Kind   Kind
	Msg    string
	Points []Point
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(sentinels[e.Kind].Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Points) > 0 {
		b.WriteString(" (points:")
		for _, p := range e.Points {
			b.WriteString(" ")
			b.WriteString(p.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return sentinels[e.Kind] }

func newError(kind Kind, points []Point, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Points: points}
}
