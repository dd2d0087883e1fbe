/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"goshotdesigner/internal/compose"
	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	"goshotdesigner/internal/geometry"
	"goshotdesigner/internal/textlayout"
)

// screenWell is the display area fill under the screenshot. It shows when a
// page has no screenshot imported and at the edges of panned content.
var screenWell = color.NRGBA{R: 5, G: 5, B: 8, A: 255}

// Renderer rasterizes resolved compositions with gg. It holds the font
// provider and layouter so measurement during drawing matches measurement
// during layout exactly.
type Renderer struct {
	fonts  textlayout.Provider
	layout textlayout.Layouter
}

// New builds a renderer over the given font provider. A nil provider gets
// the system provider with the bundled faces.
func New(fonts textlayout.Provider) *Renderer {
	if fonts == nil {
		fonts = textlayout.NewSystemProvider(nil)
	}
	return &Renderer{fonts: fonts, layout: textlayout.NewWordWrap(fonts)}
}

// Rasterize draws the composition's layers in order onto a fresh bitmap.
// The context is checked between layers; a cancelled export returns the
// context error with no partial image.
func (r *Renderer) Rasterize(ctx context.Context, comp *compose.Composition) (image.Image, error) {
	if comp == nil {
		return nil, errs.New(errs.CodeRender, "nil composition")
	}
	w := int(math.Round(comp.Size.W))
	h := int(math.Round(comp.Size.H))
	if w <= 0 || h <= 0 {
		return nil, errs.New(errs.CodeRender, "composition size %vx%v not positive", comp.Size.W, comp.Size.H)
	}
	dc := gg.NewContext(w, h)
	for i, layer := range comp.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch l := layer.(type) {
		case compose.BackgroundLayer:
			r.drawBackground(dc, &l)
		case compose.DeviceLayer:
			r.drawDevice(dc, &l)
		case compose.TextLayer:
			if err := r.drawText(dc, &l); err != nil {
				return nil, err
			}
		default:
			return nil, errs.New(errs.CodeRender, "layer %d: unknown kind %q", i, layer.Kind())
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) drawBackground(dc *gg.Context, layer *compose.BackgroundLayer) {
	b := layer.Bounds
	switch {
	case layer.Solid != nil:
		dc.SetColor(nrgba(layer.Solid.Color))
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
	case layer.Gradient != nil:
		g := layer.Gradient
		if len(g.Stops) == 0 {
			return
		}
		// A zero-length axis cannot define a ramp; the last stop wins, the
		// same color the ramp would converge to.
		if g.Start == g.End {
			dc.SetColor(nrgba(g.Stops[len(g.Stops)-1].Color))
			dc.DrawRectangle(b.X, b.Y, b.W, b.H)
			dc.Fill()
			return
		}
		grad := gg.NewLinearGradient(g.Start.X, g.Start.Y, g.End.X, g.End.Y)
		for _, s := range g.Stops {
			grad.AddColorStop(s.Location, nrgba(s.Color))
		}
		dc.SetFillStyle(grad)
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
	case layer.Image != nil:
		placed := placeBackgroundImage(layer.Image, b)
		if placed == nil {
			return
		}
		if op := clamp01(layer.Image.Opacity); op < 1 {
			base := imaging.New(placed.Bounds().Dx(), placed.Bounds().Dy(), color.NRGBA{})
			placed = imaging.Overlay(base, placed, image.Point{}, op)
		}
		dc.DrawImage(placed, int(math.Round(b.X)), int(math.Round(b.Y)))
	}
}

// placeBackgroundImage builds the bounds-sized bitmap for an image fill:
// resampled with Lanczos and positioned per the tiling mode.
func placeBackgroundImage(fill *compose.ImageFill, bounds geometry.Rect) *image.NRGBA {
	if fill.Source == nil || bounds.Empty() {
		return nil
	}
	w := int(math.Round(bounds.W))
	h := int(math.Round(bounds.H))
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := imaging.New(w, h, color.NRGBA{})
	sb := fill.Source.Bounds()
	content := geometry.Size{W: float64(sb.Dx()), H: float64(sb.Dy())}
	local := geometry.R(0, 0, float64(w), float64(h))

	switch fill.Mode {
	case domain.TileStretch:
		resized := imaging.Resize(fill.Source, w, h, imaging.Lanczos)
		draw.Draw(dst, dst.Bounds(), resized, image.Point{}, draw.Over)
	case domain.TileRepeat:
		plan := fill.Tile
		if !plan.AspectFit && (plan.Columns <= 0 || plan.Rows <= 0) {
			plan, _ = geometry.TileLayout(content, local.Size())
		}
		if plan.AspectFit {
			placeInto(dst, fill.Source, geometry.AspectFitRect(content, local))
			break
		}
		tw, th := sb.Dx(), sb.Dy()
		for row := 0; row < plan.Rows; row++ {
			for col := 0; col < plan.Columns; col++ {
				at := image.Rect(col*tw, row*th, col*tw+tw, row*th+th)
				draw.Draw(dst, at, fill.Source, sb.Min, draw.Over)
			}
		}
	case domain.TileAspectFit:
		placeInto(dst, fill.Source, geometry.AspectFitRect(content, local))
	case domain.TileAspectFill:
		placeInto(dst, fill.Source, geometry.AspectFillRect(content, local))
	}
	return dst
}

// placeInto resamples src to the placement rect and draws it; draw.Draw
// clips placements that overflow the destination.
func placeInto(dst *image.NRGBA, src image.Image, at geometry.Rect) {
	w := int(math.Round(at.W))
	h := int(math.Round(at.H))
	if w <= 0 || h <= 0 {
		return
	}
	resized := imaging.Resize(src, w, h, imaging.Lanczos)
	x := int(math.Round(at.X))
	y := int(math.Round(at.Y))
	draw.Draw(dst, image.Rect(x, y, x+w, y+h), resized, image.Point{}, draw.Over)
}

func (r *Renderer) drawDevice(dc *gg.Context, layer *compose.DeviceLayer) {
	b := layer.Bounds
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, layer.Frame.CornerRadius)
	dc.SetColor(nrgba(layer.Body))
	dc.FillPreserve()
	dc.SetLineWidth(layer.Frame.BorderWidth)
	dc.SetColor(shade(layer.Body, 0.55))
	dc.Stroke()

	s := layer.Screen
	dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, layer.ScreenRadius)
	dc.SetColor(screenWell)
	dc.Fill()

	if layer.Screenshot == nil {
		return
	}
	dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, layer.ScreenRadius)
	dc.Clip()
	sb := layer.Screenshot.Bounds()
	content := geometry.Size{W: float64(sb.Dx()), H: float64(sb.Dy())}
	zoom := layer.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	place := geometry.AspectFillRect(content, s)
	place = scaleRectAbout(place, s.Center(), zoom).Offset(layer.Pan.X, layer.Pan.Y)
	w := int(math.Round(place.W))
	h := int(math.Round(place.H))
	if w > 0 && h > 0 {
		resized := imaging.Resize(layer.Screenshot, w, h, imaging.Lanczos)
		dc.DrawImage(resized, int(math.Round(place.X)), int(math.Round(place.Y)))
	}
	dc.ResetClip()
}

func (r *Renderer) drawText(dc *gg.Context, layer *compose.TextLayer) error {
	wrapW := 0.0
	if layer.Frame.HasWidth {
		wrapW = layer.Frame.Width - layer.Padding.Leading - layer.Padding.Trailing
		if wrapW < 0 {
			wrapW = 0
		}
	}
	box, err := r.layout.Layout(layer.Font, layer.Text, wrapW)
	if err != nil {
		return errs.Wrap(errs.CodeRender, err, "layout caption")
	}
	intrinsic := geometry.Size{
		W: box.Width + layer.Padding.Leading + layer.Padding.Trailing,
		H: box.Height + layer.Padding.Top + layer.Padding.Bottom,
	}
	rect := layer.Frame.Resolve(intrinsic, layer.FrameAlign)

	scale := layer.Scale
	if scale <= 0 {
		scale = 1
	}
	if layer.Rotation != 0 || scale != 1 {
		c := rect.Center()
		dc.Push()
		defer dc.Pop()
		if layer.Rotation != 0 {
			dc.RotateAbout(gg.Radians(layer.Rotation), c.X, c.Y)
		}
		if scale != 1 {
			dc.ScaleAbout(scale, scale, c.X, c.Y)
		}
	}

	if layer.Shadow.Opacity > 0 {
		sr := rect.Offset(layer.Shadow.Offset.X, layer.Shadow.Offset.Y)
		if layer.Shadow.Radius > 0 {
			sr = sr.Inset(-layer.Shadow.Radius/2, -layer.Shadow.Radius/2)
		}
		dc.SetColor(withOpacity(layer.Shadow.Color, layer.Shadow.Opacity))
		dc.DrawRectangle(sr.X, sr.Y, sr.W, sr.H)
		dc.Fill()
	}
	if layer.FillOpacity > 0 {
		dc.SetColor(withOpacity(layer.Fill, layer.FillOpacity))
		dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
		dc.Fill()
	}
	if layer.BorderWidth > 0 {
		dc.SetColor(nrgba(layer.BorderColor))
		dc.SetLineWidth(layer.BorderWidth)
		dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
		dc.Stroke()
	}

	if len(box.Lines) == 0 {
		return nil
	}
	face, met := r.fonts.Resolve(layer.Font)
	dc.SetFontFace(face)
	dc.SetColor(nrgba(layer.Color))
	content := geometry.R(
		rect.X+layer.Padding.Leading,
		rect.Y+layer.Padding.Top,
		rect.W-layer.Padding.Leading-layer.Padding.Trailing,
		rect.H-layer.Padding.Top-layer.Padding.Bottom,
	)
	y := content.Y + met.Ascent
	for _, ln := range box.Lines {
		x := content.X
		switch layer.TextAlign {
		case domain.TextAlignCenter:
			x = content.X + (content.W-ln.Width)/2
		case domain.TextAlignTrailing:
			x = content.X + content.W - ln.Width
		}
		if ln.Text != "" {
			dc.DrawString(ln.Text, x, y)
		}
		y += met.LineAdvance()
	}
	return nil
}

// scaleRectAbout scales a rect uniformly about a pivot point.
func scaleRectAbout(r geometry.Rect, pivot geometry.Pt, s float64) geometry.Rect {
	return geometry.Rect{
		X: pivot.X + (r.X-pivot.X)*s,
		Y: pivot.Y + (r.Y-pivot.Y)*s,
		W: r.W * s,
		H: r.H * s,
	}
}

func nrgba(c domain.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// withOpacity multiplies the color's own alpha by an opacity in [0,1].
func withOpacity(c domain.Color, op float64) color.NRGBA {
	a := clamp01(op) * float64(c.A)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a))}
}

// shade multiplies the RGB channels, keeping alpha. f < 1 darkens.
func shade(c domain.Color, f float64) color.NRGBA {
	mul := func(v uint8) uint8 {
		x := float64(v) * f
		if x > 255 {
			x = 255
		}
		if x < 0 {
			x = 0
		}
		return uint8(math.Round(x))
	}
	return color.NRGBA{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
