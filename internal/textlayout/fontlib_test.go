/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestDefaultLibraryBundledFaces(t *testing.T) {
	fl := DefaultLibrary()
	if !fl.Has(BundledFamily) {
		t.Fatalf("bundled family %q missing", BundledFamily)
	}
	for _, spec := range []FontSpec{
		{Family: BundledFamily, Weight: 400},
		{Family: BundledFamily, Weight: 700},
		{Family: BundledFamily, Weight: 400, Italic: true},
	} {
		if fl.find(spec) == nil {
			t.Errorf("find(%+v) = nil", spec)
		}
	}
}

func TestFontLibraryFamilyFallback(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadBytes("Sans", 700, false, goregular.TTF); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	// Exact variation missing, same family present.
	if fl.find(FontSpec{Family: "Sans", Weight: 400}) == nil {
		t.Fatalf("expected same-family fallback for unmatched weight")
	}
	if fl.find(FontSpec{Family: "Serif"}) != nil {
		t.Fatalf("unknown family resolved")
	}
}

func TestFontLibraryRejectsGarbage(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadBytes("Broken", 400, false, []byte("not a font")); err == nil {
		t.Fatalf("expected parse error for garbage font data")
	}
	if fl.Has("Broken") {
		t.Fatalf("garbage font registered anyway")
	}
}

func TestSystemProviderBundledFallback(t *testing.T) {
	p := NewSystemProvider(nil)
	face, met := p.Resolve(FontSpec{Family: "no-such-family-xyzzy", SizePx: 48})
	if face == nil {
		t.Fatalf("Resolve returned nil face")
	}
	// The bundled face at 48px stands well clear of the 7x13 bitmap fallback.
	if met.Ascent <= 13 {
		t.Fatalf("ascent = %v, want a scaled outline face, not the bitmap fallback", met.Ascent)
	}
	if !p.missed("no-such-family-xyzzy") {
		t.Fatalf("family miss not cached")
	}
}

func TestSystemProviderBasicFallbackWithoutLibrary(t *testing.T) {
	p := &SystemProvider{Lib: NewFontLibrary()}
	face, met := p.Resolve(FontSpec{Family: "no-such-family-xyzzy", SizePx: 30})
	if face == nil {
		t.Fatalf("Resolve returned nil face")
	}
	if met.Ascent != 11 || met.Descent != 2 {
		t.Fatalf("metrics = %+v, want the 7x13 bitmap fallback", met)
	}
}
