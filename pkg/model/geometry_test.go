package model

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Point
		want float64
	}{
		{Point{X: 0, Y: 0}, Point{X: 3, Y: 4}, 5},
		{Point{X: -1, Y: -1}, Point{X: -1, Y: -1}, 0},
		{Point{X: 1.5, Y: 0}, Point{X: -1.5, Y: 0}, 3},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestRotatePoint(t *testing.T) {
	cases := []struct {
		pt, origin Point
		deg        float64
		want       Point
	}{
		{Point{X: 1, Y: 0}, Point{}, 90, Point{X: 0, Y: 1}},
		{Point{X: 1, Y: 0}, Point{}, 180, Point{X: -1, Y: 0}},
		{Point{X: 1, Y: 0}, Point{}, -90, Point{X: 0, Y: -1}},
		{Point{X: 2, Y: 1}, Point{X: 1, Y: 1}, 90, Point{X: 1, Y: 2}},
		{Point{X: 5, Y: -3}, Point{X: 5, Y: -3}, 37, Point{X: 5, Y: -3}},
	}
	for _, c := range cases {
		got := RotatePoint(c.pt, c.origin, c.deg)
		if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
			t.Errorf("RotatePoint(%v, %v, %v) = %v, want %v",
				c.pt, c.origin, c.deg, got, c.want)
		}
	}
}

func TestArcFromCenter(t *testing.T) {
	// Quarter circle from (1,0) around the origin, counter-clockwise.
	arc := ArcFromCenter(Point{X: 1, Y: 0}, Point{}, 90, 0.2, "F.Cu")

	if math.Abs(arc.End.X) > 1e-9 || math.Abs(arc.End.Y-1) > 1e-9 {
		t.Errorf("arc end = %v, want (0, 1)", arc.End)
	}
	s := math.Sqrt2 / 2
	if math.Abs(arc.Mid.X-s) > 1e-9 || math.Abs(arc.Mid.Y-s) > 1e-9 {
		t.Errorf("arc mid = %v, want (%v, %v)", arc.Mid, s, s)
	}
	if arc.Width != 0.2 || arc.Layer != "F.Cu" {
		t.Errorf("arc width/layer = %v/%s", arc.Width, arc.Layer)
	}
}
