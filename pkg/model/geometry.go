package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate in millimeters.
type Point = r2.Vec

// Segment is a straight line on a board layer.
type Segment struct {
	Start Point
	End   Point
	Width float64
	Layer string
}

// Arc is a three-point arc (start, mid on the arc, end) as KiCad stores them.
type Arc struct {
	Start Point
	Mid   Point
	End   Point
	Width float64
	Layer string
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// ArcFromCenter converts an IPC-2581 center+sweep arc into the start/mid/end
// form KiCad uses.
func ArcFromCenter(start, center Point, sweepDeg, width float64, layer string) Arc {
	radius := Distance(start, center)
	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	sweep := DegToRad(sweepDeg)

	endAngle := startAngle + sweep
	midAngle := startAngle + sweep/2.0

	return Arc{
		Start: start,
		Mid: Point{
			X: center.X + radius*math.Cos(midAngle),
			Y: center.Y + radius*math.Sin(midAngle),
		},
		End: Point{
			X: center.X + radius*math.Cos(endAngle),
			Y: center.Y + radius*math.Sin(endAngle),
		},
		Width: width,
		Layer: layer,
	}
}

// RotatePoint rotates pt around origin by angleDeg counter-clockwise.
func RotatePoint(pt, origin Point, angleDeg float64) Point {
	return r2.Rotate(pt, DegToRad(angleDeg), origin)
}

// FlipY converts between the IPC-2581 coordinate system (Y up) and the KiCad
// coordinate system (Y down).
func FlipY(pt Point) Point { return Point{X: pt.X, Y: -pt.Y} }
