package geometry

import (
	"testing"

	"goshotdesigner/internal/domain"
)

func TestRectBasics(t *testing.T) {
	r := R(10, 20, 100, 50)
	if r.Min() != (Pt{10, 20}) || r.Max() != (Pt{110, 70}) {
		t.Fatalf("min/max wrong: %+v %+v", r.Min(), r.Max())
	}
	if r.Center() != (Pt{60, 45}) {
		t.Fatalf("center wrong: %+v", r.Center())
	}
	in := r.Inset(5, 10)
	if in != R(15, 30, 90, 30) {
		t.Fatalf("unexpected inset: %+v", in)
	}
	if !r.Contains(Pt{10, 20}) || r.Contains(Pt{111, 20}) {
		t.Fatalf("contains wrong")
	}
	iv := r.Intersect(R(50, 0, 100, 100))
	if iv != R(50, 20, 60, 50) {
		t.Fatalf("unexpected intersect: %+v", iv)
	}
	if !R(0, 0, 10, 10).Intersect(R(20, 20, 5, 5)).Empty() {
		t.Fatalf("disjoint intersect not empty")
	}
}

func TestUnitRectIn(t *testing.T) {
	u := domain.UnitRect{X: 0.1, Y: 0.2, W: 0.5, H: 0.25}
	got := UnitRectIn(u, R(100, 200, 1000, 400))
	if got != R(200, 280, 500, 100) {
		t.Fatalf("unexpected resolved rect: %+v", got)
	}
}

func TestAlignRectAllAnchors(t *testing.T) {
	anchor := Pt{100, 200}
	sz := Size{W: 40, H: 20}
	cases := []struct {
		align domain.FrameAlignment
		want  Rect
	}{
		{domain.AlignTopLeading, R(100, 200, 40, 20)},
		{domain.AlignTop, R(80, 200, 40, 20)},
		{domain.AlignTopTrailing, R(60, 200, 40, 20)},
		{domain.AlignLeading, R(100, 190, 40, 20)},
		{domain.AlignCenter, R(80, 190, 40, 20)},
		{domain.AlignTrailing, R(60, 190, 40, 20)},
		{domain.AlignBottomLeading, R(100, 180, 40, 20)},
		{domain.AlignBottom, R(80, 180, 40, 20)},
		{domain.AlignBottomTrailing, R(60, 180, 40, 20)},
	}
	for _, tc := range cases {
		if got := AlignRect(anchor, sz, tc.align); got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.align, got, tc.want)
		}
	}
}

func TestAspectFitAndFill(t *testing.T) {
	bounds := R(0, 0, 200, 100)

	fit := AspectFitRect(Size{W: 100, H: 100}, bounds)
	if fit != R(50, 0, 100, 100) {
		t.Fatalf("fit: %+v", fit)
	}

	fill := AspectFillRect(Size{W: 100, H: 100}, bounds)
	if fill != R(0, -50, 200, 200) {
		t.Fatalf("fill: %+v", fill)
	}

	// Degenerate content collapses to the bounds origin instead of NaN.
	if got := AspectFitRect(Size{}, bounds); got.W != 0 || got.X != 0 {
		t.Fatalf("degenerate fit: %+v", got)
	}
}

func TestFloatRound(t *testing.T) {
	if FloatRound(3.14159, 2) != 3.14 {
		t.Fatalf("round failed")
	}
	if FloatRound(2.5, 0) != 3 {
		t.Fatalf("half up failed")
	}
	if FloatRound(1.23, -1) != 1.23 {
		t.Fatalf("negative places must pass through")
	}
}
