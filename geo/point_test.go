package geo

import (
	"math"
	"testing"
)

func TestNormalizeLng(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{-179.99999999998232, -179.99999999998232},
		{190, -170},
		{-190, 170},
		{540, 180},
		{-540, 180},
		{-202.83, 157.17},
		{720, 0},
	}
	for _, tt := range tests {
		if got := NormalizeLng(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLng(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReduceDelta(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{10, 10},
		{180, 180},
		{-180, 180},
		{261.48, -98.52},
		{-261.48, 98.52},
	}
	for _, tt := range tests {
		if got := ReduceDelta(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ReduceDelta(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{Lat: 90, Lng: 500}).Valid() {
		t.Error("expected valid point")
	}
	for _, p := range []Point{{Lat: 90.1}, {Lat: -91}, {Lat: math.NaN()}, {Lng: math.Inf(1)}} {
		if p.Valid() {
			t.Errorf("expected %+v to be invalid", p)
		}
	}
}

func TestPoleAndSeam(t *testing.T) {
	if !IsPole(-90) || !IsPole(89.9999999) || IsPole(89.99) {
		t.Error("IsPole mismatch")
	}
	if !OnAntimeridian(180) || !OnAntimeridian(-180) || OnAntimeridian(179.9999) {
		t.Error("OnAntimeridian mismatch")
	}
}

func TestCloneAndNear(t *testing.T) {
	m := MultiLine{{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, {{Lat: 5, Lng: 6}}}
	c := m.Clone()
	c[0][0].Lat = 100
	if m[0][0].Lat != 1 {
		t.Error("Clone shares memory with source")
	}
	if m.Near(c, Epsilon) {
		t.Error("expected modified clone to differ")
	}
	c[0][0].Lat = 1 + Epsilon/2
	if !m.Near(c, Epsilon) {
		t.Error("expected clone within tolerance")
	}
	if m.Vertices() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.Vertices())
	}
	if Line(nil).Clone() != nil {
		t.Error("expected nil clone of nil line")
	}
}

func TestDistance(t *testing.T) {
	berlin := Point{Lat: 52.5, Lng: 13.35}
	seattle := Point{Lat: 47.56, Lng: -122.33}
	d := Distance(berlin, seattle)
	if d < 8000 || d > 8200 {
		t.Errorf("unexpected Berlin-Seattle distance %f km", d)
	}
	if Distance(berlin, berlin) != 0 {
		t.Error("expected zero distance")
	}
	if !WithinRange(berlin, seattle, 8200) || WithinRange(berlin, seattle, 8000) {
		t.Error("WithinRange mismatch")
	}
	line := Line{berlin, seattle, berlin}
	if math.Abs(line.Length()-2*d) > 1e-9 {
		t.Errorf("expected length %f, got %f", 2*d, line.Length())
	}
}
