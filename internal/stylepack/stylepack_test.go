/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"strings"
	"testing"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

func TestLoadEmbeddedPack(t *testing.T) {
	lib, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	names := lib.BackgroundNames()
	for _, want := range []string{"midnight", "ocean", "paper", "slate"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("embedded pack missing background %q (have %v)", want, names)
		}
	}

	bg, err := lib.Background("midnight")
	if err != nil {
		t.Fatalf("Background(midnight): %v", err)
	}
	if bg.Kind != domain.BackgroundGradient || bg.Gradient == nil {
		t.Fatalf("midnight should be a gradient, got %+v", bg)
	}
	if len(bg.Gradient.Stops) != 2 {
		t.Fatalf("midnight stops = %d, want 2", len(bg.Gradient.Stops))
	}
	if bg.Gradient.Start.X != 0.5 || bg.Gradient.End.Y != 1 {
		t.Fatalf("midnight axis = %+v..%+v", bg.Gradient.Start, bg.Gradient.End)
	}

	solid, err := lib.Background("paper")
	if err != nil {
		t.Fatalf("Background(paper): %v", err)
	}
	if solid.Kind != domain.BackgroundSolid || solid.Solid == nil {
		t.Fatalf("paper should be solid, got %+v", solid)
	}
	if solid.Solid.Color != (domain.Color{R: 0xf6, G: 0xf1, B: 0xe7, A: 0xff}) {
		t.Fatalf("paper color = %+v", solid.Solid.Color)
	}

	cs, err := lib.Caption("headline")
	if err != nil {
		t.Fatalf("Caption(headline): %v", err)
	}
	if cs.FontSize != 34 || cs.TextAlign != domain.TextAlignCenter {
		t.Fatalf("headline preset = %+v", cs)
	}
	if cs.Shadow.Opacity != 0.35 || cs.Shadow.Radius != 4 {
		t.Fatalf("headline shadow = %+v", cs.Shadow)
	}
}

func TestDefaultBackgroundExists(t *testing.T) {
	lib, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if _, err := lib.Background(DefaultBackground); err != nil {
		t.Fatalf("default background %q missing: %v", DefaultBackground, err)
	}
}

func TestUnknownNamesAreConfigErrors(t *testing.T) {
	lib, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	_, err = lib.Background("plasma")
	if !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
	if !strings.Contains(err.Error(), "plasma") {
		t.Fatalf("error should name the style: %v", err)
	}
	_, err = lib.Caption("shouty")
	if !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
}

func TestApplyCaptionStyle(t *testing.T) {
	lib, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cs, err := lib.Caption("badge")
	if err != nil {
		t.Fatalf("Caption(badge): %v", err)
	}

	el := domain.NewTextElement("Save 20%")
	el.Position = domain.Point{X: 0.5, Y: 0.9}
	before := el

	ApplyCaptionStyle(&el, cs)

	if el.Text != before.Text || el.ID != before.ID || el.Position != before.Position {
		t.Fatalf("style must not touch text, id or anchor")
	}
	if el.FontSize != 14 || el.FillOpacity != 1 {
		t.Fatalf("badge style not applied: %+v", el)
	}
	if el.Fill != (domain.Color{R: 0xff, G: 0xd1, B: 0x66, A: 0xff}) {
		t.Fatalf("badge fill = %+v", el.Fill)
	}
	if el.Padding.Leading != 12 || el.Padding.Top != 6 {
		t.Fatalf("badge padding = %+v", el.Padding)
	}

	// nil element must not panic
	ApplyCaptionStyle(nil, cs)
}

func TestParseHexForms(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Color
	}{
		{"#fff", domain.Color{R: 255, G: 255, B: 255, A: 255}},
		{"#102030", domain.Color{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#10203080", domain.Color{R: 0x10, G: 0x20, B: 0x30, A: 0x80}},
		{"  #000000  ", domain.Color{A: 255}},
	}
	for _, tc := range cases {
		got, err := parseHex(tc.in)
		if err != nil {
			t.Fatalf("parseHex(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parseHex(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "#12345", "#zzzzzz"} {
		if _, err := parseHex(bad); err == nil {
			t.Fatalf("parseHex(%q) should fail", bad)
		}
	}
}
