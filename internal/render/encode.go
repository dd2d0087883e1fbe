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
	"image/jpeg"
	"image/png"
	"strings"

	"goshotdesigner/internal/compose"
	"goshotdesigner/internal/errs"
)

// DefaultJPEGQuality applies when a JPEGEncoder is built without an explicit
// quality setting.
const DefaultJPEGQuality = 90

// PNGEncoder encodes lossless PNG, the default export format.
type PNGEncoder struct{}

func (PNGEncoder) Encode(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGEncoder encodes JPEG at the given quality. Quality outside 1..100
// falls back to DefaultJPEGQuality.
type JPEGEncoder struct {
	Quality int
}

func (e JPEGEncoder) Encode(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := e.Quality
	if q <= 0 || q > 100 {
		q = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncoderFor maps a format name to an encoder. The empty string means PNG.
func EncoderFor(format string, quality int) (compose.Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "png":
		return PNGEncoder{}, nil
	case "jpg", "jpeg":
		return JPEGEncoder{Quality: quality}, nil
	}
	return nil, errs.New(errs.CodeEncode, "unknown export format %q", format)
}
