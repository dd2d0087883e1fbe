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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

func writePack(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir pack dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
}

func TestUserPackShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "brand.yaml", `
backgrounds:
  midnight:
    kind: solid
    color: "#000000"
  brand:
    kind: gradient
    colors: ["#ff0000", "#00ff00"]
captions:
  headline:
    fontFamily: Go
    fontSize: 120
    color: "#ff00ff"
`)

	lib, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	// user definition wins over the embedded one
	bg, err := lib.Background("midnight")
	if err != nil {
		t.Fatalf("Background(midnight): %v", err)
	}
	if bg.Kind != domain.BackgroundSolid {
		t.Fatalf("user pack should shadow embedded midnight, got %+v", bg)
	}

	// new names merge in
	if _, err := lib.Background("brand"); err != nil {
		t.Fatalf("Background(brand): %v", err)
	}

	// untouched embedded names survive
	if _, err := lib.Background("paper"); err != nil {
		t.Fatalf("Background(paper): %v", err)
	}

	cs, err := lib.Caption("headline")
	if err != nil {
		t.Fatalf("Caption(headline): %v", err)
	}
	if cs.FontSize != 120 {
		t.Fatalf("user headline should win, got %+v", cs)
	}
	// embedded captions not named in the user pack remain
	if _, err := lib.Caption("subtitle"); err != nil {
		t.Fatalf("Caption(subtitle): %v", err)
	}
}

func TestLaterPacksWinByFileName(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "10-first.yaml", `
backgrounds:
  accent:
    kind: solid
    color: "#111111"
`)
	writePack(t, dir, "20-second.yaml", `
backgrounds:
  accent:
    kind: solid
    color: "#222222"
`)

	lib, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	bg, err := lib.Background("accent")
	if err != nil {
		t.Fatalf("Background(accent): %v", err)
	}
	if bg.Solid == nil || bg.Solid.Color.R != 0x22 {
		t.Fatalf("later pack should win, got %+v", bg)
	}
}

func TestBadGradientFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "broken.yaml", `
backgrounds:
  wild:
    kind: gradient
    stops:
      - {color: "#000000", location: 0.0}
      - {color: "#ffffff", location: 2.0}
`)

	_, err := LoadFrom(dir)
	if !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.yaml") || !strings.Contains(err.Error(), "wild") {
		t.Fatalf("error should name pack and entry: %v", err)
	}
}

func TestBadCaptionFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "broken.yaml", `
captions:
  ghost:
    fontFamily: Go
    fontSize: 0
`)
	if _, err := LoadFrom(dir); !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error for zero font size, got %v", err)
	}

	writePack(t, dir, "broken.yaml", `
captions:
  loud:
    fontFamily: Go
    fontSize: 12
    fillOpacity: 1.5
`)
	if _, err := LoadFrom(dir); !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error for opacity out of range, got %v", err)
	}
}

func TestImageBackgroundsRejectedInPacks(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "img.yaml", `
backgrounds:
  photo:
    kind: image
`)
	if _, err := LoadFrom(dir); !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("expected CONFIG error for image kind, got %v", err)
	}
}

func TestMissingUserDirLoadsEmbeddedOnly(t *testing.T) {
	lib, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(lib.BackgroundNames()) == 0 || len(lib.CaptionNames()) == 0 {
		t.Fatalf("embedded pack should still load")
	}
}

func TestNonYAMLFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "notes.txt", "not a pack")
	writePack(t, dir, "extra.yml", `
backgrounds:
  extra:
    kind: solid
    color: "#123456"
`)

	lib, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if _, err := lib.Background("extra"); err != nil {
		t.Fatalf("yml pack should load: %v", err)
	}
}
