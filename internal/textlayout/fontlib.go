/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// BundledFamily is the font family shipped with the binary. It renders any
// caption whose requested family cannot be found on the host.
const BundledFamily = "Go"

// FontLibrary stores parsed OpenType fonts mapped by family/weight/italic.
// Weight and italic flags are the only supported variation axes.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)}
}

// DefaultLibrary returns a library preloaded with the bundled Go faces
// (regular, bold, italic) so rendering works on hosts without any
// discoverable system fonts.
func DefaultLibrary() *FontLibrary {
	fl := NewFontLibrary()
	// The bundled TTFs always parse; ignore the impossible error paths.
	_ = fl.LoadBytes(BundledFamily, 400, false, goregular.TTF)
	_ = fl.LoadBytes(BundledFamily, 700, false, gobold.TTF)
	_ = fl.LoadBytes(BundledFamily, 400, true, goitalic.TTF)
	return fl
}

// LoadBytes parses font data and registers it under family/weight/italic.
func (fl *FontLibrary) LoadBytes(family string, weight int, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.fonts[fontKey{family: family, weight: normalWeight(weight), italic: italic}] = f
	return nil
}

// LoadTTF loads a font file into the library under family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.LoadBytes(family, weight, italic, data)
}

// Has reports whether any face is registered for the family.
func (fl *FontLibrary) Has(family string) bool {
	for k := range fl.fonts {
		if k.family == family {
			return true
		}
	}
	return false
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	if f, ok := fl.fonts[fontKey{family: spec.Family, weight: normalWeight(spec.Weight), italic: spec.Italic}]; ok {
		return f
	}
	// Same family, any variation, before giving up.
	for k, f := range fl.fonts {
		if k.family == spec.Family {
			return f
		}
	}
	return nil
}

func normalWeight(w int) int {
	if w <= 0 {
		return 400
	}
	return w
}

// SystemProvider resolves FontSpec against a library, then the host's font
// directories via findfont, then the bundled Go faces, and finally the
// Fallback provider (BasicProvider when nil). Discovered files are cached in
// the library, so each family hits the disk walk at most once.
type SystemProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider

	misses map[string]struct{}
}

// NewSystemProvider returns a provider over the given library (DefaultLibrary
// when nil).
func NewSystemProvider(lib *FontLibrary) *SystemProvider {
	if lib == nil {
		lib = DefaultLibrary()
	}
	return &SystemProvider{Lib: lib}
}

func (p *SystemProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePx <= 0 {
		spec.SizePx = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if p.Lib == nil {
		p.Lib = NewFontLibrary()
	}

	if f := p.Lib.find(spec); f != nil {
		if face, met, ok := newFace(f, spec.SizePx, dpi); ok {
			return face, met
		}
	}
	if spec.Family != "" && !p.missed(spec.Family) {
		if path := locateFontFile(spec.Family); path != "" {
			if err := p.Lib.LoadTTF(spec.Family, spec.Weight, spec.Italic, path); err == nil {
				if f := p.Lib.find(spec); f != nil {
					if face, met, ok := newFace(f, spec.SizePx, dpi); ok {
						return face, met
					}
				}
			}
		}
		p.recordMiss(spec.Family)
	}
	if spec.Family != BundledFamily {
		bundled := spec
		bundled.Family = BundledFamily
		if f := p.Lib.find(bundled); f != nil {
			if face, met, ok := newFace(f, spec.SizePx, dpi); ok {
				return face, met
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

func newFace(f *opentype.Font, sizePx, dpi float64) (font.Face, Metrics, bool) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePx, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, Metrics{}, false
	}
	return face, metricsOf(face), true
}

// locateFontFile asks findfont for a file matching the family name. Only
// plain OpenType containers are usable; collections (.ttc) are skipped.
func locateFontFile(family string) string {
	for _, query := range []string{family + ".ttf", family + ".otf", family} {
		path, err := findfont.Find(query)
		if err != nil {
			continue
		}
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf") {
			return path
		}
	}
	return ""
}

func (p *SystemProvider) missed(family string) bool {
	_, ok := p.misses[family]
	return ok
}

func (p *SystemProvider) recordMiss(family string) {
	if p.misses == nil {
		p.misses = make(map[string]struct{})
	}
	p.misses[family] = struct{}{}
}
