/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestResolvePageLayerOrder(t *testing.T) {
	page := domain.NewPage()
	page.Background = domain.GradientOf(
		domain.EvenStops(domain.RGB(10, 20, 30), domain.RGB(200, 210, 220)),
		domain.Point{X: 0, Y: 0}, domain.Point{X: 1, Y: 1},
	)
	page.Screenshot = pngBytes(t, 4, 8)
	page.Texts = append(page.Texts, domain.NewTextElement("Hi"), domain.NewTextElement("Two"))

	comp, err := ResolvePage(page, page.Canvas)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	if comp.Scale != 1 {
		t.Fatalf("scale = %v, want 1", comp.Scale)
	}
	kinds := make([]string, 0, len(comp.Layers))
	for _, l := range comp.Layers {
		kinds = append(kinds, l.Kind())
	}
	want := []string{"background", "device", "text", "text"}
	if len(kinds) != len(want) {
		t.Fatalf("layer kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("layer kinds = %v, want %v", kinds, want)
		}
	}

	bg := comp.Layers[0].(BackgroundLayer)
	if bg.Gradient == nil {
		t.Fatalf("background layer missing gradient fill")
	}
	if bg.Gradient.End.X != page.Canvas.W || bg.Gradient.End.Y != page.Canvas.H {
		t.Fatalf("gradient end = %+v, want canvas corner", bg.Gradient.End)
	}

	dev := comp.Layers[1].(DeviceLayer)
	if dev.Frame.Height != page.DeviceHeight {
		t.Fatalf("bezel height = %v, want configured %v", dev.Frame.Height, page.DeviceHeight)
	}
	if dev.Screenshot == nil {
		t.Fatalf("screenshot missing from device layer")
	}
	if dev.Zoom != 1 {
		t.Fatalf("zoom = %v, want default 1", dev.Zoom)
	}
	wantCenterX := page.Canvas.W / 2
	if got := dev.Bounds.Center().X; got != wantCenterX {
		t.Fatalf("bezel center x = %v, want %v", got, wantCenterX)
	}
	if dev.Screen.X < dev.Bounds.X || dev.Screen.Max().Y > dev.Bounds.Max().Y {
		t.Fatalf("screen area %+v escapes bezel %+v", dev.Screen, dev.Bounds)
	}

	f := page.DeviceHeight / domain.TextReferenceHeight
	txt := comp.Layers[2].(TextLayer)
	if txt.Text != "Hi" {
		t.Fatalf("first caption = %q, want stored order", txt.Text)
	}
	if want := 28 * f; txt.Font.SizePx != want {
		t.Fatalf("font px = %v, want %v", txt.Font.SizePx, want)
	}
	if want := 0.5 * page.Canvas.W; txt.Frame.Anchor.X != want {
		t.Fatalf("anchor x = %v, want %v", txt.Frame.Anchor.X, want)
	}
}

func TestResolvePageUniformScaling(t *testing.T) {
	page := domain.NewPage()
	page.DeviceOffset = domain.Point{X: 10, Y: -20}
	page.ImagePan = domain.Point{X: 7, Y: -3}
	el := domain.NewTextElement("scaled")
	el.Offset = domain.Point{X: 3, Y: 5}
	page.Texts = append(page.Texts, el)

	target := domain.Size{W: page.Canvas.W * 2, H: page.Canvas.H * 2}
	comp, err := ResolvePage(page, target)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	if comp.Scale != 2 {
		t.Fatalf("scale = %v, want 2", comp.Scale)
	}

	dev := comp.Layers[1].(DeviceLayer)
	if want := page.DeviceHeight * 2; dev.Frame.Height != want {
		t.Fatalf("bezel height = %v, want %v", dev.Frame.Height, want)
	}
	if dev.Pan.X != 14 || dev.Pan.Y != -6 {
		t.Fatalf("pan = %+v, want (14,-6)", dev.Pan)
	}
	c := dev.Bounds.Center()
	if c.X != target.W/2+20 || c.Y != target.H/2-40 {
		t.Fatalf("bezel center = %+v, want offset scaled by 2", c)
	}

	f := page.DeviceHeight * 2 / domain.TextReferenceHeight
	txt := comp.Layers[2].(TextLayer)
	if want := 0.5*target.W + 3*f; txt.Frame.Anchor.X != want {
		t.Fatalf("anchor x = %v, want %v", txt.Frame.Anchor.X, want)
	}
	if want := 28 * f; txt.Font.SizePx != want {
		t.Fatalf("font px = %v, want %v", txt.Font.SizePx, want)
	}
}

func TestResolvePageNoFrame(t *testing.T) {
	page := domain.NewPage()
	page.DeviceFrame = domain.FrameNone
	page.Texts = append(page.Texts, domain.NewTextElement("solo"))

	comp, err := ResolvePage(page, page.Canvas)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	if len(comp.Layers) != 2 {
		t.Fatalf("layer count = %d, want background + text only", len(comp.Layers))
	}
	if comp.Layers[1].Kind() != "text" {
		t.Fatalf("second layer = %q, want text", comp.Layers[1].Kind())
	}
	// Captions still scale against the configured device height.
	txt := comp.Layers[1].(TextLayer)
	if want := 28 * page.DeviceHeight / domain.TextReferenceHeight; txt.Font.SizePx != want {
		t.Fatalf("font px = %v, want %v", txt.Font.SizePx, want)
	}
}

func TestResolvePageRejections(t *testing.T) {
	valid := domain.NewPage()
	badCanvas := domain.NewPage()
	badCanvas.Canvas = domain.Size{}
	badHeight := domain.NewPage()
	badHeight.DeviceHeight = 0

	cases := []struct {
		name   string
		page   domain.Page
		target domain.Size
	}{
		{"zero target", valid, domain.Size{}},
		{"negative target", valid, domain.Size{W: -10, H: 20}},
		{"aspect mismatch", valid, domain.Size{W: 1000, H: 1000}},
		{"zero canvas", badCanvas, domain.Size{W: 100, H: 100}},
		{"zero device height", badHeight, badHeight.Canvas},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ResolvePage(c.page, c.target); !errs.Is(err, errs.CodeGeometry) {
				t.Fatalf("error = %v, want geometry code", err)
			}
		})
	}
}

func TestResolvePageTiledBackground(t *testing.T) {
	page := domain.NewPage()
	page.Canvas = domain.Size{W: 100, H: 200}
	page.DeviceHeight = 50
	page.Background = domain.ImageOf(pngBytes(t, 30, 30), domain.TileRepeat, 0.8)

	comp, err := ResolvePage(page, page.Canvas)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	bg := comp.Layers[0].(BackgroundLayer)
	if bg.Image == nil {
		t.Fatalf("background layer missing image fill")
	}
	if bg.Image.Opacity != 0.8 {
		t.Fatalf("opacity = %v, want 0.8", bg.Image.Opacity)
	}
	if bg.Image.Tile.Columns != 4 || bg.Image.Tile.Rows != 7 {
		t.Fatalf("tile plan = %+v, want 4x7", bg.Image.Tile)
	}
}

func TestResolvePageDecodeFailures(t *testing.T) {
	bgJunk := domain.NewPage()
	bgJunk.Background = domain.ImageOf([]byte("junk"), domain.TileStretch, 1)

	bgEmpty := domain.NewPage()
	bgEmpty.Background = domain.ImageOf(nil, domain.TileStretch, 1)

	shotJunk := domain.NewPage()
	shotJunk.Screenshot = []byte("junk")

	for _, c := range []struct {
		name string
		page domain.Page
	}{
		{"garbage background bytes", bgJunk},
		{"empty background bytes", bgEmpty},
		{"garbage screenshot bytes", shotJunk},
	} {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ResolvePage(c.page, c.page.Canvas); !errs.Is(err, errs.CodeDecode) {
				t.Fatalf("error = %v, want decode code", err)
			}
		})
	}
}

func TestResolvePageInvalidBackgroundUnion(t *testing.T) {
	page := domain.NewPage()
	page.Background = domain.BackgroundStyle{Kind: "plaid"}
	if _, err := ResolvePage(page, page.Canvas); !errs.Is(err, errs.CodeModel) {
		t.Fatalf("error = %v, want model code", err)
	}
}
