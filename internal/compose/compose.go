/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose turns one immutable page snapshot into an ordered list of
// fully resolved draw layers and drives the rasterize, encode, write
// sequence through external collaborators. It never touches the store, so
// exports run safely off the editing context.
package compose

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	"goshotdesigner/internal/geometry"
	"goshotdesigner/internal/textlayout"
)

// aspectEpsilon bounds the tolerated difference between target and canvas
// aspect ratios. Layout is resolved in canvas space and scaled uniformly by
// height, so a mismatched aspect would crop or letterbox silently.
const aspectEpsilon = 1e-6

// ResolvePage resolves a page at the target pixel size. Layer order is one
// background layer, one device layer (absent for a no-frame page), then one
// text layer per caption in stored z-order. The page snapshot is read only.
func ResolvePage(page domain.Page, target domain.Size) (*Composition, error) {
	if !target.Positive() {
		return nil, errs.New(errs.CodeGeometry, "export size %vx%v not positive", target.W, target.H)
	}
	if !page.Canvas.Positive() {
		return nil, errs.New(errs.CodeGeometry, "page canvas %vx%v not positive", page.Canvas.W, page.Canvas.H)
	}
	if math.Abs(target.W/target.H-page.Canvas.W/page.Canvas.H) > aspectEpsilon {
		return nil, errs.New(errs.CodeGeometry, "export size %vx%v does not match canvas aspect %vx%v",
			target.W, target.H, page.Canvas.W, page.Canvas.H)
	}
	scale := target.H / page.Canvas.H

	comp := &Composition{PageID: page.ID, Size: target, Scale: scale}
	bounds := geometry.R(0, 0, target.W, target.H)

	bg, err := resolveBackground(page.Background, bounds)
	if err != nil {
		return nil, err
	}
	comp.Layers = append(comp.Layers, *bg)

	if page.DeviceFrame != domain.FrameNone {
		dev, err := resolveDevice(page, target, scale)
		if err != nil {
			return nil, err
		}
		comp.Layers = append(comp.Layers, *dev)
	}

	if len(page.Texts) > 0 {
		// Captions are authored against TextReferenceHeight; their pixel
		// attributes scale with the bezel height they render next to.
		f, err := geometry.FontScaleFactor(page.DeviceHeight*scale, domain.TextReferenceHeight)
		if err != nil {
			return nil, err
		}
		for _, el := range page.Texts {
			layer, err := resolveText(el, target, f)
			if err != nil {
				return nil, err
			}
			comp.Layers = append(comp.Layers, *layer)
		}
	}
	return comp, nil
}

func resolveBackground(style domain.BackgroundStyle, bounds geometry.Rect) (*BackgroundLayer, error) {
	if err := style.Validate(); err != nil {
		return nil, errs.Wrap(errs.CodeModel, err, "background style")
	}
	layer := &BackgroundLayer{Bounds: bounds}
	switch style.Kind {
	case domain.BackgroundSolid:
		layer.Solid = &SolidFill{Color: style.Solid.Color}
	case domain.BackgroundGradient:
		g := style.Gradient
		layer.Gradient = &GradientFill{
			Start: geometry.Pt{X: bounds.X + g.Start.X*bounds.W, Y: bounds.Y + g.Start.Y*bounds.H},
			End:   geometry.Pt{X: bounds.X + g.End.X*bounds.W, Y: bounds.Y + g.End.Y*bounds.H},
			Stops: append([]domain.GradientStop(nil), g.Stops...),
		}
	case domain.BackgroundImage:
		img, err := decodeImage(style.Image.Data, "background image")
		if err != nil {
			return nil, err
		}
		fill := &ImageFill{Source: img, Mode: style.Image.Mode, Opacity: style.Image.Opacity}
		if style.Image.Mode == domain.TileRepeat {
			b := img.Bounds()
			plan, err := geometry.TileLayout(
				geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())},
				bounds.Size(),
			)
			if err != nil {
				return nil, err
			}
			fill.Tile = plan
		}
		layer.Image = fill
	}
	return layer, nil
}

func resolveDevice(page domain.Page, target domain.Size, scale float64) (*DeviceLayer, error) {
	heightPx := page.DeviceHeight * scale
	fg, err := geometry.DeviceFrameGeometry(page.DeviceFrame, heightPx)
	if err != nil {
		return nil, err
	}
	preset, _ := domain.FramePresetFor(page.DeviceFrame)

	center := geometry.Pt{
		X: target.W/2 + page.DeviceOffset.X*scale,
		Y: target.H/2 + page.DeviceOffset.Y*scale,
	}
	bezel := geometry.R(center.X-fg.Width/2, center.Y-fg.Height/2, fg.Width, fg.Height)

	layer := &DeviceLayer{
		Frame:        fg,
		Bounds:       bezel,
		Screen:       geometry.UnitRectIn(preset.Screen, bezel),
		ScreenRadius: preset.ScreenRadius * geometry.FrameScale(heightPx),
		Body:         preset.Body,
		Pan:          geometry.Pt{X: page.ImagePan.X * scale, Y: page.ImagePan.Y * scale},
		Zoom:         page.ImageZoom,
	}
	if layer.Zoom <= 0 {
		layer.Zoom = 1
	}
	if len(page.Screenshot) > 0 {
		img, err := decodeImage(page.Screenshot, "screenshot")
		if err != nil {
			return nil, err
		}
		layer.Screenshot = img
	}
	return layer, nil
}

func resolveText(el domain.TextElement, target domain.Size, f float64) (*TextLayer, error) {
	scaled := el
	scaled.Offset.X *= f
	scaled.Offset.Y *= f
	frame, err := geometry.ElementRect(scaled, target)
	if err != nil {
		return nil, err
	}
	layer := &TextLayer{
		Text:       el.Text,
		Font:       textlayout.FontSpec{Family: el.FontFamily, SizePx: el.FontSize * f},
		Color:      el.Color,
		TextAlign:  el.TextAlign,
		FrameAlign: el.FrameAlign,
		Frame:      frame,
		Padding: domain.Insets{
			Top:      el.Padding.Top * f,
			Leading:  el.Padding.Leading * f,
			Bottom:   el.Padding.Bottom * f,
			Trailing: el.Padding.Trailing * f,
		},
		Fill:        el.Fill,
		FillOpacity: el.FillOpacity,
		BorderColor: el.BorderColor,
		BorderWidth: el.BorderWidth * f,
		Rotation:    el.Rotation,
		Scale:       el.Scale,
		Shadow: ShadowSpec{
			Color:   el.Shadow.Color,
			Opacity: el.Shadow.Opacity,
			Radius:  el.Shadow.Radius * f,
			Offset:  geometry.Pt{X: el.Shadow.Offset.X * f, Y: el.Shadow.Offset.Y * f},
		},
	}
	if layer.Scale == 0 {
		layer.Scale = 1
	}
	return layer, nil
}

func decodeImage(data []byte, what string) (image.Image, error) {
	if len(data) == 0 {
		return nil, errs.New(errs.CodeDecode, "%s is empty", what)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.CodeDecode, err, "decode %s", what)
	}
	return img, nil
}
