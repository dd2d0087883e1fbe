/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// FrameReferenceHeight is the bezel height all preset nominals are stated
// at. Scaling a preset to another target height multiplies its nominal
// corner radius, border width and screen radius by target/reference.
const FrameReferenceHeight = 800.0

// TextReferenceHeight is the interactive bezel height captions are authored
// against. Rendered font sizes and pixel offsets scale by
// actualDeviceHeight / TextReferenceHeight.
const TextReferenceHeight = 400.0

// DeviceFrameType selects a bezel preset for a page. The set is closed:
// every value resolves to a known preset, and FrameNone means the page
// renders without a device layer.
type DeviceFrameType string

const (
	FrameNone        DeviceFrameType = "none"
	FrameIPhoneSE    DeviceFrameType = "iphoneSE"
	FrameIPhone15Pro DeviceFrameType = "iphone15Pro"
	FrameIPadPro13   DeviceFrameType = "ipadPro13"
	FramePixel9      DeviceFrameType = "pixel9"
)

// Valid reports whether the frame type is a known variant.
func (t DeviceFrameType) Valid() bool {
	switch t {
	case FrameNone, FrameIPhoneSE, FrameIPhone15Pro, FrameIPadPro13, FramePixel9:
		return true
	}
	return false
}

// FramePreset holds the nominal bezel metrics of one device, stated at
// FrameReferenceHeight. Screen is the display area as a ratio of the bezel
// bounds, so it scales with the bezel.
type FramePreset struct {
	Name         string
	AspectRatio  float64 // bezel width / height
	CornerRadius float64
	BorderWidth  float64
	Screen       UnitRect
	ScreenRadius float64
	Body         Color
}

// FramePresetFor resolves a frame type to its preset. FrameNone (and only
// FrameNone among valid values) has no preset.
func FramePresetFor(t DeviceFrameType) (FramePreset, bool) {
	switch t {
	case FrameIPhoneSE:
		return FramePreset{
			Name:         "iPhone SE",
			AspectRatio:  0.486,
			CornerRadius: 46,
			BorderWidth:  12,
			Screen:       UnitRect{X: 0.065, Y: 0.16, W: 0.87, H: 0.68},
			ScreenRadius: 2,
			Body:         Color{R: 40, G: 40, B: 42, A: 255},
		}, true
	case FrameIPhone15Pro:
		return FramePreset{
			Name:         "iPhone 15 Pro",
			AspectRatio:  0.482,
			CornerRadius: 64,
			BorderWidth:  10,
			Screen:       UnitRect{X: 0.031, Y: 0.015, W: 0.938, H: 0.97},
			ScreenRadius: 55,
			Body:         Color{R: 54, G: 52, B: 57, A: 255},
		}, true
	case FrameIPadPro13:
		return FramePreset{
			Name:         "iPad Pro 13",
			AspectRatio:  0.765,
			CornerRadius: 28,
			BorderWidth:  12,
			Screen:       UnitRect{X: 0.035, Y: 0.027, W: 0.93, H: 0.946},
			ScreenRadius: 14,
			Body:         Color{R: 32, G: 32, B: 34, A: 255},
		}, true
	case FramePixel9:
		return FramePreset{
			Name:         "Pixel 9",
			AspectRatio:  0.471,
			CornerRadius: 44,
			BorderWidth:  10,
			Screen:       UnitRect{X: 0.03, Y: 0.018, W: 0.94, H: 0.964},
			ScreenRadius: 36,
			Body:         Color{R: 28, G: 30, B: 33, A: 255},
		}, true
	default:
		return FramePreset{}, false
	}
}

// KnownDeviceFrames lists every frame type in stable order, FrameNone first.
func KnownDeviceFrames() []DeviceFrameType {
	return []DeviceFrameType{FrameNone, FrameIPhoneSE, FrameIPhone15Pro, FrameIPadPro13, FramePixel9}
}

// DisplayName returns the preset name, or "No Frame" for FrameNone.
func (t DeviceFrameType) DisplayName() string {
	if p, ok := FramePresetFor(t); ok {
		return p.Name
	}
	if t == FrameNone {
		return "No Frame"
	}
	return string(t)
}
