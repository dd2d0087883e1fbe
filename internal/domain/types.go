/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for screenshot mockup projects: a
// Project of ordered Pages, each composing a background, a device bezel with
// the imported screenshot, and styled text captions. The model is a plain
// value graph; all mutation goes through the store package so that every
// change is captured as an undoable snapshot pair.

// Project is the top-level document. One project file holds N pages.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Pages        []Page `json:"pages"`
	ActivePageID string `json:"activePageId,omitempty"`
}

// Page is one screenshot composition at one canvas size. Texts are kept in
// z-order: the last element draws topmost.
type Page struct {
	ID           string          `json:"id"`
	Name         string          `json:"name,omitempty"`
	Screenshot   []byte          `json:"screenshot,omitempty"`
	Texts        []TextElement   `json:"texts"`
	Background   BackgroundStyle `json:"background"`
	DeviceFrame  DeviceFrameType `json:"deviceFrame"`
	DeviceOffset Point           `json:"deviceOffset"`
	DeviceHeight float64         `json:"deviceHeight"`
	ImagePan     Point           `json:"imagePan"`
	ImageZoom    float64         `json:"imageZoom"`
	Canvas       Size            `json:"canvas"`
}

// TextElement is a positioned, styled caption. Position is a normalized
// anchor (conventionally in [0,1], never clamped in storage); Offset adds
// pixels on top. WidthRatio/HeightRatio, when set, size the box as a ratio
// of the canvas; absent means intrinsic sizing.
type TextElement struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	FontFamily  string         `json:"fontFamily"`
	FontSize    float64        `json:"fontSize"`
	Color       Color          `json:"color"`
	TextAlign   TextAlignment  `json:"textAlign"`
	FrameAlign  FrameAlignment `json:"frameAlign"`
	Position    Point          `json:"position"`
	Offset      Point          `json:"offset"`
	WidthRatio  *float64       `json:"widthRatio,omitempty"`
	HeightRatio *float64       `json:"heightRatio,omitempty"`
	Padding     Insets         `json:"padding"`
	Fill        Color          `json:"fill"`
	FillOpacity float64        `json:"fillOpacity"`
	BorderColor Color          `json:"borderColor"`
	BorderWidth float64        `json:"borderWidth"`
	Rotation    float64        `json:"rotation"` // degrees, clockwise
	Scale       float64        `json:"scale"`
	Shadow      Shadow         `json:"shadow"`
}

// Shadow parameterizes a caption drop shadow.
type Shadow struct {
	Color   Color   `json:"color"`
	Opacity float64 `json:"opacity"`
	Radius  float64 `json:"radius"`
	Offset  Point   `json:"offset"`
}

// TextAlignment positions lines of text within the caption box.
type TextAlignment string

const (
	TextAlignLeading  TextAlignment = "leading"
	TextAlignCenter   TextAlignment = "center"
	TextAlignTrailing TextAlignment = "trailing"
)

// Valid reports whether the alignment is a known variant.
func (a TextAlignment) Valid() bool {
	switch a {
	case TextAlignLeading, TextAlignCenter, TextAlignTrailing:
		return true
	}
	return false
}

// FrameAlignment resolves a caption box against its anchor point.
type FrameAlignment string

const (
	AlignTopLeading     FrameAlignment = "topLeading"
	AlignTop            FrameAlignment = "top"
	AlignTopTrailing    FrameAlignment = "topTrailing"
	AlignLeading        FrameAlignment = "leading"
	AlignCenter         FrameAlignment = "center"
	AlignTrailing       FrameAlignment = "trailing"
	AlignBottomLeading  FrameAlignment = "bottomLeading"
	AlignBottom         FrameAlignment = "bottom"
	AlignBottomTrailing FrameAlignment = "bottomTrailing"
)

// Valid reports whether the alignment is a known variant.
func (a FrameAlignment) Valid() bool {
	switch a {
	case AlignTopLeading, AlignTop, AlignTopTrailing,
		AlignLeading, AlignCenter, AlignTrailing,
		AlignBottomLeading, AlignBottom, AlignBottomTrailing:
		return true
	}
	return false
}

// Geometry and color primitives shared across the model.

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Positive reports whether both dimensions are strictly positive.
func (s Size) Positive() bool { return s.W > 0 && s.H > 0 }

type Insets struct {
	Top      float64 `json:"top"`
	Leading  float64 `json:"leading"`
	Bottom   float64 `json:"bottom"`
	Trailing float64 `json:"trailing"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// UnitRect is a rectangle expressed as ratios of some enclosing bounds.
type UnitRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}
