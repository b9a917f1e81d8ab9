package pipeline

import (
	"math"

	"github.com/thruflo/curvr/internal/radius"
)

// Inputs is a snapshot of the two calculator inputs in millimeters.
// A nil field means no value.
type Inputs struct {
	Measured   *float64
	PipeRadius *float64
}

func (in Inputs) clone() Inputs {
	return Inputs{Measured: copyFloat(in.Measured), PipeRadius: copyFloat(in.PipeRadius)}
}

// Result holds the derived radii. Both are nil when the inputs cannot
// produce a curve.
type Result struct {
	Inner *float64 // at the pipe's centerline
	Outer *float64 // at the point of measurement
}

// Present reports whether the result carries values.
func (r Result) Present() bool {
	return r.Inner != nil && r.Outer != nil
}

// Derive computes the result for a committed snapshot. A missing or zero
// measurement (an infinite radius) or a missing pipe radius gives an absent
// result, as does any input that makes a radius non-finite, e.g. a
// measurement that overflowed to ±Inf.
func Derive(in Inputs) Result {
	if in.Measured == nil || in.PipeRadius == nil || *in.Measured == 0 {
		return Result{}
	}

	outer := radius.OuterRadius(*in.Measured, radius.ChordDistanceMM)
	inner := outer - *in.PipeRadius
	if !isFinite(outer) || !isFinite(inner) {
		return Result{}
	}
	return Result{Inner: &inner, Outer: &outer}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
