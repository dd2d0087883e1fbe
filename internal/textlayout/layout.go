/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Caption measurement and line breaking behind deterministic interfaces.
// Captions are single-style runs (one family, one size per element), so a
// layout works on plain text rather than styled spans.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font. SizePx is the resolved on-canvas
// pixel size; callers apply any device scaling before building the FontSpec.
type FontSpec struct {
	Family string
	SizePx float64
	Weight int // 100..900, 0 means regular
	Italic bool
}

// Metrics provides face metrics in pixels.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineAdvance is the baseline-to-baseline distance.
func (m Metrics) LineAdvance() float64 { return m.Ascent + m.Descent + m.LineGap }

// Line is a single laid-out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out caption text. Height covers the ink
// extent: n*(ascent+descent) plus the gaps between lines, no trailing gap.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face. Resolution never fails;
// providers fall through to a bundled face so rendering stays total.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line breaking and measurement.
type Layouter interface {
	Layout(spec FontSpec, text string, maxWidth float64) (TextBox, error)
}

// BasicProvider resolves every spec to x/image's fixed 7x13 face. Used as
// the terminal fallback and for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(face font.Face) Metrics {
	m := face.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// WordWrapLayouter breaks greedily on spaces. Explicit newlines always
// break; a word longer than maxWidth gets a line of its own rather than
// being split mid-word. maxWidth <= 0 disables wrapping.
type WordWrapLayouter struct {
	Provider Provider
}

func NewWordWrap(provider Provider) *WordWrapLayouter {
	return &WordWrapLayouter{Provider: provider}
}

func (l *WordWrapLayouter) Layout(spec FontSpec, text string, maxWidth float64) (TextBox, error) {
	provider := l.Provider
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	box := TextBox{Metrics: met}
	if text == "" {
		return box, nil
	}
	d := &font.Drawer{Face: face}
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			box.Lines = append(box.Lines, Line{})
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			cand := cur + " " + w
			if maxWidth > 0 && advance(d, cand) > maxWidth {
				box.Lines = append(box.Lines, Line{Text: cur, Width: advance(d, cur)})
				cur = w
				continue
			}
			cur = cand
		}
		box.Lines = append(box.Lines, Line{Text: cur, Width: advance(d, cur)})
	}
	for _, ln := range box.Lines {
		if ln.Width > box.Width {
			box.Width = ln.Width
		}
	}
	n := float64(len(box.Lines))
	box.Height = n*(met.Ascent+met.Descent) + (n-1)*met.LineGap
	return box, nil
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s) >> 6) // fixed.Int26_6 to whole px
}

// Measure returns the unwrapped single-line extent of text.
func Measure(provider Provider, spec FontSpec, text string) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	d := &font.Drawer{Face: face}
	return advance(d, text), met.Ascent + met.Descent
}
