// Package radius computes the radius of a bent pipe from a sagitta reading.
//
// The sagitta is the perpendicular deviation of the pipe from a straight
// chord between two fixed measurement points. With the chord length L and
// the sagitta s, the radius of the circle through both points and the apex is
//
//	R = (4s² + L²) / (8s)
//
// The reading is taken on the outside surface of the pipe, so R is the
// radius at the point of measurement. Subtracting the pipe's own
// cross-section radius gives the radius at the pipe's centerline.
package radius

import "time"

const (
	// ChordDistanceMM is the distance between the two measurement points.
	ChordDistanceMM = 200.0

	// DefaultPipeRadiusMM is the cross-section radius of the standard pipe.
	DefaultPipeRadiusMM = 11.0

	// SettleTime is how long input must stay unchanged before it is used.
	SettleTime = 300 * time.Millisecond
)

// OuterRadius returns the radius at the measurement surface for the given
// sagitta and chord length. sagitta must be nonzero; callers guard it.
func OuterRadius(sagitta, chord float64) float64 {
	return (4*sagitta*sagitta + chord*chord) / (8 * sagitta)
}

// InnerRadius returns the centerline radius: the outer radius minus the
// pipe's cross-section radius.
func InnerRadius(sagitta, chord, pipeRadius float64) float64 {
	return OuterRadius(sagitta, chord) - pipeRadius
}
