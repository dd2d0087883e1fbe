/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

// ElementFrame is a caption's placement resolved against one canvas: the
// absolute anchor point plus the fixed box dimensions, where present.
// Dimensions without a ratio stay intrinsic and are filled in by Resolve
// once the renderer has measured the content.
type ElementFrame struct {
	Anchor    Pt
	Width     float64
	Height    float64
	HasWidth  bool
	HasHeight bool
}

// ElementRect maps a caption's normalized position and optional ratio
// dimensions into canvas pixels: anchor = position*canvas + offset, width =
// widthRatio*canvas.W when set (height analogous), intrinsic otherwise.
func ElementRect(el domain.TextElement, canvas domain.Size) (ElementFrame, error) {
	if !canvas.Positive() {
		return ElementFrame{}, errs.New(errs.CodeGeometry, "canvas %vx%v not positive", canvas.W, canvas.H)
	}
	f := ElementFrame{
		Anchor: Pt{
			X: el.Position.X*canvas.W + el.Offset.X,
			Y: el.Position.Y*canvas.H + el.Offset.Y,
		},
	}
	if el.WidthRatio != nil {
		f.Width = *el.WidthRatio * canvas.W
		f.HasWidth = true
	}
	if el.HeightRatio != nil {
		f.Height = *el.HeightRatio * canvas.H
		f.HasHeight = true
	}
	return f, nil
}

// Resolve produces the final box from the frame and the measured intrinsic
// content size, positioned against the anchor by the frame alignment.
func (f ElementFrame) Resolve(intrinsic Size, align domain.FrameAlignment) Rect {
	sz := intrinsic
	if f.HasWidth {
		sz.W = f.Width
	}
	if f.HasHeight {
		sz.H = f.Height
	}
	return AlignRect(f.Anchor, sz, align)
}

// FontScaleFactor converts between the reference height captions were
// authored at and the resolved bezel height they render next to. It
// multiplies rendered font sizes and pixel offsets so captions stay
// proportionate at any export resolution.
func FontScaleFactor(actualDeviceHeight, referenceDeviceHeight float64) (float64, error) {
	if actualDeviceHeight <= 0 {
		return 0, errs.New(errs.CodeGeometry, "device height %v not positive", actualDeviceHeight)
	}
	if referenceDeviceHeight <= 0 {
		return 0, errs.New(errs.CodeGeometry, "reference height %v not positive", referenceDeviceHeight)
	}
	return actualDeviceHeight / referenceDeviceHeight, nil
}
