/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"fmt"
)

// BackgroundKind discriminates the closed BackgroundStyle union.
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Valid reports whether the kind is a known variant.
func (k BackgroundKind) Valid() bool {
	switch k {
	case BackgroundSolid, BackgroundGradient, BackgroundImage:
		return true
	}
	return false
}

// TilingMode selects how a background image fills the canvas.
type TilingMode string

const (
	TileStretch    TilingMode = "stretch"
	TileRepeat     TilingMode = "tile"
	TileAspectFit  TilingMode = "aspectFit"
	TileAspectFill TilingMode = "aspectFill"
)

// Valid reports whether the mode is a known variant.
func (m TilingMode) Valid() bool {
	switch m {
	case TileStretch, TileRepeat, TileAspectFit, TileAspectFill:
		return true
	}
	return false
}

// BackgroundStyle is a closed tagged union: exactly the payload matching
// Kind is set. Construct values through Solid, GradientOf or ImageOf;
// consumers switch on Kind exhaustively.
type BackgroundStyle struct {
	Kind     BackgroundKind      `json:"kind"`
	Solid    *SolidBackground    `json:"solid,omitempty"`
	Gradient *GradientBackground `json:"gradient,omitempty"`
	Image    *ImageBackground    `json:"image,omitempty"`
}

type SolidBackground struct {
	Color Color `json:"color"`
}

// GradientStop pairs a color with its location along the gradient axis.
type GradientStop struct {
	Color    Color   `json:"color"`
	Location float64 `json:"location"` // 0..1
}

// GradientBackground is a linear ramp between two unit points of the
// destination bounds.
type GradientBackground struct {
	Stops []GradientStop `json:"stops"`
	Start Point          `json:"start"` // unit point, (0,0) top-left
	End   Point          `json:"end"`
}

type ImageBackground struct {
	Data    []byte     `json:"data,omitempty"`
	Mode    TilingMode `json:"mode"`
	Opacity float64    `json:"opacity"`
}

// SolidOf builds a solid background.
func SolidOf(c Color) BackgroundStyle {
	return BackgroundStyle{Kind: BackgroundSolid, Solid: &SolidBackground{Color: c}}
}

// GradientOf builds a gradient background from explicit stops.
func GradientOf(stops []GradientStop, start, end Point) BackgroundStyle {
	return BackgroundStyle{Kind: BackgroundGradient, Gradient: &GradientBackground{Stops: stops, Start: start, End: end}}
}

// EvenStops spreads colors evenly over [0,1] in the given order.
func EvenStops(colors ...Color) []GradientStop {
	stops := make([]GradientStop, len(colors))
	for i, c := range colors {
		loc := 0.0
		if len(colors) > 1 {
			loc = float64(i) / float64(len(colors)-1)
		}
		stops[i] = GradientStop{Color: c, Location: loc}
	}
	return stops
}

// ImageOf builds an image background.
func ImageOf(data []byte, mode TilingMode, opacity float64) BackgroundStyle {
	return BackgroundStyle{Kind: BackgroundImage, Image: &ImageBackground{Data: data, Mode: mode, Opacity: opacity}}
}

// Validate checks the union shape: a known kind, exactly the matching
// payload present, and payload fields within range.
func (b BackgroundStyle) Validate() error {
	if !b.Kind.Valid() {
		return fmt.Errorf("unknown background kind %q", b.Kind)
	}
	set := 0
	if b.Solid != nil {
		set++
	}
	if b.Gradient != nil {
		set++
	}
	if b.Image != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("background %q must carry exactly one payload, has %d", b.Kind, set)
	}
	switch b.Kind {
	case BackgroundSolid:
		if b.Solid == nil {
			return fmt.Errorf("background solid payload missing")
		}
	case BackgroundGradient:
		g := b.Gradient
		if g == nil {
			return fmt.Errorf("background gradient payload missing")
		}
		if len(g.Stops) < 2 {
			return fmt.Errorf("gradient needs at least 2 stops, has %d", len(g.Stops))
		}
		prev := 0.0
		for i, s := range g.Stops {
			if s.Location < 0 || s.Location > 1 {
				return fmt.Errorf("gradient stop %d location %v outside [0,1]", i, s.Location)
			}
			if s.Location < prev {
				return fmt.Errorf("gradient stop %d location %v not ordered", i, s.Location)
			}
			prev = s.Location
		}
	case BackgroundImage:
		img := b.Image
		if img == nil {
			return fmt.Errorf("background image payload missing")
		}
		if !img.Mode.Valid() {
			return fmt.Errorf("unknown tiling mode %q", img.Mode)
		}
		if img.Opacity < 0 || img.Opacity > 1 {
			return fmt.Errorf("image opacity %v outside [0,1]", img.Opacity)
		}
	}
	return nil
}

// UnmarshalJSON decodes and rejects unknown variants immediately, so a
// future file format surfaces as a load-time error instead of a silently
// coerced style.
func (b *BackgroundStyle) UnmarshalJSON(data []byte) error {
	type raw BackgroundStyle
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*b = BackgroundStyle(r)
	return b.Validate()
}

// Clone deep-copies the union including image bytes. Nilness of slices is
// preserved exactly so clones stay structurally equal to their source.
func (b BackgroundStyle) Clone() BackgroundStyle {
	out := BackgroundStyle{Kind: b.Kind}
	if b.Solid != nil {
		s := *b.Solid
		out.Solid = &s
	}
	if b.Gradient != nil {
		g := GradientBackground{Start: b.Gradient.Start, End: b.Gradient.End}
		g.Stops = cloneSlice(b.Gradient.Stops)
		out.Gradient = &g
	}
	if b.Image != nil {
		img := ImageBackground{Mode: b.Image.Mode, Opacity: b.Image.Opacity}
		img.Data = cloneBytes(b.Image.Data)
		out.Image = &img
	}
	return out
}
