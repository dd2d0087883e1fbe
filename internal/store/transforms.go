/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import "goshotdesigner/internal/domain"

// The canonical transform catalog. Hosts compose edits from these instead of
// poking at project fields, so every mutation flows through Apply and its
// snapshot capture. Transforms that cannot locate their target id return the
// project unchanged, which Apply treats as a no-op.
//
// Values closed over by a transform are cloned before they enter the
// project, so a caller mutating its own copy afterwards cannot reach into
// history snapshots.

// AddPage appends the given page and makes it active. Callers construct the
// page first (domain.NewPage) so they know its id.
func AddPage(page domain.Page) Transform {
	pg := page.Clone()
	return func(p domain.Project) domain.Project {
		p.Pages = append(p.Pages, pg.Clone())
		p.ActivePageID = pg.ID
		return p
	}
}

// RemovePage deletes the page with the given id. If it was active, the first
// remaining page becomes active, or none when the project is left empty.
func RemovePage(id string) Transform {
	return func(p domain.Project) domain.Project {
		i := p.PageIndex(id)
		if i < 0 {
			return p
		}
		p.Pages = append(p.Pages[:i], p.Pages[i+1:]...)
		if p.ActivePageID == id {
			p.ActivePageID = ""
			if len(p.Pages) > 0 {
				p.ActivePageID = p.Pages[0].ID
			}
		}
		return p
	}
}

// SelectPage makes the page with the given id active. Unknown ids and
// re-selecting the active page leave the project unchanged.
func SelectPage(id string) Transform {
	return func(p domain.Project) domain.Project {
		if p.PageIndex(id) >= 0 {
			p.ActivePageID = id
		}
		return p
	}
}

// MovePage reorders the page with the given id to position to, clamped to
// the valid index range.
func MovePage(id string, to int) Transform {
	return func(p domain.Project) domain.Project {
		i := p.PageIndex(id)
		if i < 0 {
			return p
		}
		if to < 0 {
			to = 0
		}
		if max := len(p.Pages) - 1; to > max {
			to = max
		}
		pg := p.Pages[i]
		p.Pages = append(p.Pages[:i], p.Pages[i+1:]...)
		p.Pages = append(p.Pages[:to], append([]domain.Page{pg}, p.Pages[to:]...)...)
		return p
	}
}

// RenamePage sets the page display name.
func RenamePage(id, name string) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.Name = name
	})
}

// SetCanvas sets the page output canvas size.
func SetCanvas(id string, canvas domain.Size) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.Canvas = canvas
	})
}

// SetScreenshot replaces the page screenshot bytes (nil clears) and resets
// pan and zoom, since a fresh import starts centered at natural scale.
func SetScreenshot(id string, data []byte) Transform {
	buf := append([]byte(nil), data...)
	return withPage(id, func(pg *domain.Page) {
		pg.Screenshot = append([]byte(nil), buf...)
		pg.ImagePan = domain.Point{}
		pg.ImageZoom = 1
	})
}

// SetBackground replaces the page background style.
func SetBackground(id string, bg domain.BackgroundStyle) Transform {
	b := bg.Clone()
	return withPage(id, func(pg *domain.Page) {
		pg.Background = b.Clone()
	})
}

// SetDeviceFrame switches the page bezel variant.
func SetDeviceFrame(id string, frame domain.DeviceFrameType) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.DeviceFrame = frame
	})
}

// SetDeviceOffset positions the bezel center relative to the canvas center.
func SetDeviceOffset(id string, off domain.Point) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.DeviceOffset = off
	})
}

// SetDeviceHeight sets the bezel target height in canvas pixels.
func SetDeviceHeight(id string, h float64) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.DeviceHeight = h
	})
}

// SetImagePan offsets the screenshot within the device screen.
func SetImagePan(id string, pan domain.Point) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.ImagePan = pan
	})
}

// SetImageZoom scales the screenshot within the device screen.
func SetImageZoom(id string, zoom float64) Transform {
	return withPage(id, func(pg *domain.Page) {
		pg.ImageZoom = zoom
	})
}

// AddText appends a caption to the page; the last element draws topmost.
func AddText(pageID string, el domain.TextElement) Transform {
	e := el.Clone()
	return withPage(pageID, func(pg *domain.Page) {
		pg.Texts = append(pg.Texts, e.Clone())
	})
}

// RemoveText deletes the caption with the given id from the page.
func RemoveText(pageID, elementID string) Transform {
	return withPage(pageID, func(pg *domain.Page) {
		i := pg.ElementIndex(elementID)
		if i < 0 {
			return
		}
		pg.Texts = append(pg.Texts[:i], pg.Texts[i+1:]...)
	})
}

// MoveText reorders a caption to position to in the draw order, clamped to
// the valid index range.
func MoveText(pageID, elementID string, to int) Transform {
	return withPage(pageID, func(pg *domain.Page) {
		i := pg.ElementIndex(elementID)
		if i < 0 {
			return
		}
		if to < 0 {
			to = 0
		}
		if max := len(pg.Texts) - 1; to > max {
			to = max
		}
		el := pg.Texts[i]
		pg.Texts = append(pg.Texts[:i], pg.Texts[i+1:]...)
		pg.Texts = append(pg.Texts[:to], append([]domain.TextElement{el}, pg.Texts[to:]...)...)
	})
}

// UpdateText applies fn to the caption with the given id. fn must be
// deterministic; it receives the element inside the store's private clone.
func UpdateText(pageID, elementID string, fn func(*domain.TextElement)) Transform {
	return withPage(pageID, func(pg *domain.Page) {
		if i := pg.ElementIndex(elementID); i >= 0 {
			fn(&pg.Texts[i])
		}
	})
}

// withPage lifts a page mutation into a project transform; unknown page ids
// leave the project unchanged.
func withPage(id string, fn func(*domain.Page)) Transform {
	return func(p domain.Project) domain.Project {
		if i := p.PageIndex(id); i >= 0 {
			fn(&p.Pages[i])
		}
		return p
	}
}
