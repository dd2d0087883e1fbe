/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/uuid"
)

// DefaultCanvas is the canvas size new pages start with (6.1" phone
// portrait export resolution).
var DefaultCanvas = Size{W: 1170, H: 2532}

// DefaultDeviceHeightRatio sizes a new page's bezel relative to its canvas.
const DefaultDeviceHeightRatio = 0.72

// NewProject creates a project with exactly one default page, which starts
// active.
func NewProject(name string) Project {
	page := NewPage()
	return Project{
		ID:           uuid.NewString(),
		Name:         name,
		Pages:        []Page{page},
		ActivePageID: page.ID,
	}
}

// NewPage creates a page with default field values: default canvas, a plain
// dark solid background, the default bezel centered at 72% canvas height,
// no screenshot, no captions.
func NewPage() Page {
	return Page{
		ID:           uuid.NewString(),
		Texts:        []TextElement{},
		Background:   SolidOf(RGB(24, 26, 32)),
		DeviceFrame:  FrameIPhone15Pro,
		DeviceHeight: math.Round(DefaultCanvas.H * DefaultDeviceHeightRatio),
		ImageZoom:    1,
		Canvas:       DefaultCanvas,
	}
}

// NewTextElement creates a caption with default styling, centered near the
// top of the page. Sizes are authored against TextReferenceHeight.
func NewTextElement(text string) TextElement {
	return TextElement{
		ID:         uuid.NewString(),
		Text:       text,
		FontFamily: "Helvetica",
		FontSize:   28,
		Color:      RGB(255, 255, 255),
		TextAlign:  TextAlignCenter,
		FrameAlign: AlignCenter,
		Position:   Point{X: 0.5, Y: 0.12},
		Scale:      1,
	}
}

// PageIndex returns the position of the page with the given id, or -1.
func (p Project) PageIndex(id string) int {
	for i := range p.Pages {
		if p.Pages[i].ID == id {
			return i
		}
	}
	return -1
}

// PageByID returns the page with the given id.
func (p *Project) PageByID(id string) (*Page, bool) {
	if i := p.PageIndex(id); i >= 0 {
		return &p.Pages[i], true
	}
	return nil, false
}

// ActivePage resolves the active page. A stale ActivePageID falls back to
// the first page instead of failing the lookup; nil only when the project
// has no pages at all.
func (p *Project) ActivePage() *Page {
	if len(p.Pages) == 0 {
		return nil
	}
	if pg, ok := p.PageByID(p.ActivePageID); ok {
		return pg
	}
	return &p.Pages[0]
}

// ElementIndex returns the z-position of the caption with the given id,
// or -1.
func (pg Page) ElementIndex(id string) int {
	for i := range pg.Texts {
		if pg.Texts[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the whole value graph. Mutating the clone never affects
// the source; nilness of slices is preserved so the clone stays structurally
// equal to its source.
func (p Project) Clone() Project {
	out := p
	if p.Pages != nil {
		out.Pages = make([]Page, len(p.Pages))
		for i := range p.Pages {
			out.Pages[i] = p.Pages[i].Clone()
		}
	}
	return out
}

// Clone deep-copies one page.
func (pg Page) Clone() Page {
	out := pg
	out.Screenshot = cloneBytes(pg.Screenshot)
	if pg.Texts != nil {
		out.Texts = make([]TextElement, len(pg.Texts))
		for i := range pg.Texts {
			out.Texts[i] = pg.Texts[i].Clone()
		}
	}
	out.Background = pg.Background.Clone()
	return out
}

// Clone deep-copies one caption.
func (t TextElement) Clone() TextElement {
	out := t
	if t.WidthRatio != nil {
		w := *t.WidthRatio
		out.WidthRatio = &w
	}
	if t.HeightRatio != nil {
		h := *t.HeightRatio
		out.HeightRatio = &h
	}
	return out
}

// Equal reports structural equality of two projects. Undo no-op detection
// and the round-trip law are defined in terms of this.
func (p Project) Equal(other Project) bool {
	return reflect.DeepEqual(p, other)
}

// Validate checks the structural invariants: positive canvas and bezel
// height, unique page ids, a resolvable ActivePageID, and known variants in
// every closed union. Loading rejects files that fail this.
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project id empty")
	}
	seen := make(map[string]struct{}, len(p.Pages))
	for i := range p.Pages {
		pg := &p.Pages[i]
		if pg.ID == "" {
			return fmt.Errorf("page %d id empty", i)
		}
		if _, dup := seen[pg.ID]; dup {
			return fmt.Errorf("duplicate page id %q", pg.ID)
		}
		seen[pg.ID] = struct{}{}
		if !pg.Canvas.Positive() {
			return fmt.Errorf("page %q canvas %vx%v not positive", pg.ID, pg.Canvas.W, pg.Canvas.H)
		}
		if pg.DeviceHeight <= 0 {
			return fmt.Errorf("page %q device height %v not positive", pg.ID, pg.DeviceHeight)
		}
		if !pg.DeviceFrame.Valid() {
			return fmt.Errorf("page %q unknown device frame %q", pg.ID, pg.DeviceFrame)
		}
		if err := pg.Background.Validate(); err != nil {
			return fmt.Errorf("page %q: %w", pg.ID, err)
		}
		for j := range pg.Texts {
			el := &pg.Texts[j]
			if el.ID == "" {
				return fmt.Errorf("page %q caption %d id empty", pg.ID, j)
			}
			if !el.TextAlign.Valid() {
				return fmt.Errorf("caption %q unknown text alignment %q", el.ID, el.TextAlign)
			}
			if !el.FrameAlign.Valid() {
				return fmt.Errorf("caption %q unknown frame alignment %q", el.ID, el.FrameAlign)
			}
		}
	}
	if p.ActivePageID != "" && p.PageIndex(p.ActivePageID) < 0 {
		return fmt.Errorf("activePageId %q references no page", p.ActivePageID)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
