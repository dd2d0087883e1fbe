/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"goshotdesigner/internal/errs"
)

func testBitmap() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(20 * x), G: uint8(30 * y), B: 99, A: 255})
		}
	}
	return img
}

func TestPNGEncoderRoundtrip(t *testing.T) {
	data, err := PNGEncoder{}.Encode(context.Background(), testBitmap())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("missing PNG signature")
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Fatalf("decoded size %dx%d", b.Dx(), b.Dy())
	}
}

func TestJPEGEncoderRoundtrip(t *testing.T) {
	data, err := JPEGEncoder{Quality: 80}.Encode(context.Background(), testBitmap())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatalf("missing JPEG signature")
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Fatalf("decoded size %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncoderForFormats(t *testing.T) {
	if enc, err := EncoderFor("", 0); err != nil {
		t.Fatalf("empty format: %v", err)
	} else if _, ok := enc.(PNGEncoder); !ok {
		t.Fatalf("empty format encoder = %T", enc)
	}
	if enc, err := EncoderFor("PNG", 0); err != nil {
		t.Fatalf("PNG: %v", err)
	} else if _, ok := enc.(PNGEncoder); !ok {
		t.Fatalf("PNG encoder = %T", enc)
	}
	enc, err := EncoderFor("jpeg", 75)
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	je, ok := enc.(JPEGEncoder)
	if !ok {
		t.Fatalf("jpeg encoder = %T", enc)
	}
	if je.Quality != 75 {
		t.Fatalf("quality = %d", je.Quality)
	}

	if _, err := EncoderFor("webp", 0); !errs.Is(err, errs.CodeEncode) {
		t.Fatalf("unknown format err = %v", err)
	}
}

func TestEncodersHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (PNGEncoder{}).Encode(ctx, testBitmap()); err == nil {
		t.Fatalf("png encoder ignored cancellation")
	}
	if _, err := (JPEGEncoder{}).Encode(ctx, testBitmap()); err == nil {
		t.Fatalf("jpeg encoder ignored cancellation")
	}
}
