/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"image"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/geometry"
	"goshotdesigner/internal/textlayout"
)

// Draw layers. A Composition carries them fully resolved: absolute pixel
// rects, decoded images, scaled font sizes. The rasterizer consumes them in
// order without reaching back into the page model.

// Layer is the closed set of draw instructions a composition can contain:
// BackgroundLayer, DeviceLayer, TextLayer.
type Layer interface {
	Kind() string
}

// BackgroundLayer fills the destination bounds. Exactly one of Solid,
// Gradient or Image is set, mirroring the style union it was resolved from.
type BackgroundLayer struct {
	Bounds   geometry.Rect
	Solid    *SolidFill
	Gradient *GradientFill
	Image    *ImageFill
}

func (BackgroundLayer) Kind() string { return "background" }

type SolidFill struct {
	Color domain.Color
}

// GradientFill is a linear ramp with its unit points already resolved to
// destination pixels.
type GradientFill struct {
	Start geometry.Pt
	End   geometry.Pt
	Stops []domain.GradientStop
}

// ImageFill places a decoded background image per its tiling mode. Tile
// holds the grid plan when Mode is tile (or the aspect-fit fallback for a
// degenerate source).
type ImageFill struct {
	Source  image.Image
	Mode    domain.TilingMode
	Opacity float64
	Tile    geometry.TilePlan
}

// DeviceLayer positions the bezel and the screenshot inside its screen area.
// Screen and ScreenRadius are in destination pixels, derived from the
// preset's unit rect so they scale with the bezel. Screenshot is nil when
// the page has none imported; the bezel still renders.
type DeviceLayer struct {
	Frame        geometry.FrameGeometry
	Bounds       geometry.Rect
	Screen       geometry.Rect
	ScreenRadius float64
	Body         domain.Color
	Screenshot   image.Image
	Pan          geometry.Pt
	Zoom         float64
}

func (DeviceLayer) Kind() string { return "device" }

// TextLayer is one caption with every pixel attribute scaled to the
// destination. Frame keeps intrinsic dimensions open for the renderer to
// fill in after measuring; Scale and Rotation are carried for the renderer
// to apply as a transform about the resolved box center.
type TextLayer struct {
	Text        string
	Font        textlayout.FontSpec
	Color       domain.Color
	TextAlign   domain.TextAlignment
	FrameAlign  domain.FrameAlignment
	Frame       geometry.ElementFrame
	Padding     domain.Insets
	Fill        domain.Color
	FillOpacity float64
	BorderColor domain.Color
	BorderWidth float64
	Rotation    float64 // degrees
	Scale       float64
	Shadow      ShadowSpec
}

func (TextLayer) Kind() string { return "text" }

// ShadowSpec is a caption drop shadow in destination pixels.
type ShadowSpec struct {
	Color   domain.Color
	Opacity float64
	Radius  float64
	Offset  geometry.Pt
}

// Composition is one page resolved at one destination size: the ordered
// layer list (background, optional device, captions in stored z-order).
type Composition struct {
	PageID string
	Size   domain.Size
	Scale  float64 // destination px per canvas px
	Layers []Layer
}
