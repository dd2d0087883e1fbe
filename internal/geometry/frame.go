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

// FrameGeometry is a device bezel resolved to a concrete pixel height.
type FrameGeometry struct {
	Width        float64
	Height       float64
	CornerRadius float64
	BorderWidth  float64
}

// FrameScale is the proportional factor between a target bezel height and
// the reference height preset nominals are stated at.
func FrameScale(targetHeight float64) float64 {
	return targetHeight / domain.FrameReferenceHeight
}

// DeviceFrameGeometry scales a preset's nominal metrics to targetHeight.
// Width follows the nominal aspect ratio; corner radius scales linearly;
// border width scales linearly but is kept within [1, 0.05*targetHeight] as
// a cosmetic guard against degenerate bezels at extreme sizes.
func DeviceFrameGeometry(t domain.DeviceFrameType, targetHeight float64) (FrameGeometry, error) {
	if targetHeight <= 0 {
		return FrameGeometry{}, errs.New(errs.CodeGeometry, "device target height %v not positive", targetHeight)
	}
	preset, ok := domain.FramePresetFor(t)
	if !ok {
		return FrameGeometry{}, errs.New(errs.CodeGeometry, "frame %q has no bezel geometry", t)
	}
	s := FrameScale(targetHeight)
	bw := preset.BorderWidth * s
	if hi := 0.05 * targetHeight; bw > hi {
		bw = hi
	}
	if bw < 1 {
		bw = 1
	}
	return FrameGeometry{
		Width:        targetHeight * preset.AspectRatio,
		Height:       targetHeight,
		CornerRadius: preset.CornerRadius * s,
		BorderWidth:  bw,
	}, nil
}
