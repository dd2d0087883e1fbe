/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry holds the pure layout math of the compositor: device
// bezel scaling, caption rect resolution, font scaling and image tiling.
// Everything is stateless and resolution-agnostic so interactive previews
// and exports run through identical code paths.
package geometry

import (
	"math"

	"goshotdesigner/internal/domain"
)

// Pt is a 2D point in pixels.
type Pt struct{ X, Y float64 }

// Size is a width/height pair in pixels.
type Size struct{ W, H float64 }

// Positive reports whether both dimensions are strictly positive.
func (s Size) Positive() bool { return s.W > 0 && s.H > 0 }

// SizeOf converts a model size.
func SizeOf(s domain.Size) Size { return Size{W: s.W, H: s.H} }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt     { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt     { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt  { return Pt{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Size() Size  { return Size{W: r.W, H: r.H} }
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Offset returns the rectangle translated by dx,dy.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect clips r to o; an empty result has non-positive extent.
func (r Rect) Intersect(o Rect) Rect {
	minX := math.Max(r.X, o.X)
	minY := math.Max(r.Y, o.Y)
	maxX := math.Min(r.X+r.W, o.X+o.W)
	maxY := math.Min(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// UnitRectIn resolves a ratio rect against concrete bounds.
func UnitRectIn(u domain.UnitRect, bounds Rect) Rect {
	return Rect{
		X: bounds.X + u.X*bounds.W,
		Y: bounds.Y + u.Y*bounds.H,
		W: u.W * bounds.W,
		H: u.H * bounds.H,
	}
}

// AlignRect places a box of the given size so that the anchor sits at the
// alignment's reference point of the box. The mapping is independent of the
// target resolution, which is what keeps preview and export layouts in
// agreement after scaling.
func AlignRect(anchor Pt, sz Size, align domain.FrameAlignment) Rect {
	x := anchor.X
	switch align {
	case domain.AlignTop, domain.AlignCenter, domain.AlignBottom:
		x -= sz.W / 2
	case domain.AlignTopTrailing, domain.AlignTrailing, domain.AlignBottomTrailing:
		x -= sz.W
	}
	y := anchor.Y
	switch align {
	case domain.AlignLeading, domain.AlignCenter, domain.AlignTrailing:
		y -= sz.H / 2
	case domain.AlignBottomLeading, domain.AlignBottom, domain.AlignBottomTrailing:
		y -= sz.H
	}
	return Rect{X: x, Y: y, W: sz.W, H: sz.H}
}

// AspectFitRect scales content proportionally to fit inside bounds,
// centered.
func AspectFitRect(content Size, bounds Rect) Rect {
	if !content.Positive() || bounds.Empty() {
		return Rect{X: bounds.X, Y: bounds.Y}
	}
	s := math.Min(bounds.W/content.W, bounds.H/content.H)
	w, h := content.W*s, content.H*s
	return Rect{X: bounds.X + (bounds.W-w)/2, Y: bounds.Y + (bounds.H-h)/2, W: w, H: h}
}

// AspectFillRect scales content proportionally to cover bounds completely,
// centered; overflow is expected to be clipped by the caller.
func AspectFillRect(content Size, bounds Rect) Rect {
	if !content.Positive() || bounds.Empty() {
		return Rect{X: bounds.X, Y: bounds.Y}
	}
	s := math.Max(bounds.W/content.W, bounds.H/content.H)
	w, h := content.W*s, content.H*s
	return Rect{X: bounds.X + (bounds.W-w)/2, Y: bounds.Y + (bounds.H-h)/2, W: w, H: h}
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
