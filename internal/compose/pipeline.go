/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"context"
	"image"
	"log/slog"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	applog "goshotdesigner/internal/log"
)

// State tracks an export job through the pipeline.
type State int

const (
	StateIdle State = iota
	StateLayoutResolved
	StateRasterized
	StateEncoded
	StateWritten
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLayoutResolved:
		return "layout-resolved"
	case StateRasterized:
		return "rasterized"
	case StateEncoded:
		return "encoded"
	case StateWritten:
		return "written"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Rasterizer turns a resolved composition into a bitmap. Implementations
// may honor ctx between layers; this is the cooperative cancellation
// boundary for long exports.
type Rasterizer interface {
	Rasterize(ctx context.Context, comp *Composition) (image.Image, error)
}

// Encoder turns a bitmap into encoded file bytes.
type Encoder interface {
	Encode(ctx context.Context, img image.Image) ([]byte, error)
}

// Writer persists encoded bytes to a path. Implementations must be atomic:
// either the full file appears or nothing does.
type Writer interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// Job is the outcome of one page export. On failure State is StateFailed
// and Err carries the typed reason; no output file exists.
type Job struct {
	PageID string
	Path   string
	State  State
	Err    error
}

// Pipeline drives resolve, rasterize, encode, write for single pages. A
// failure at any step aborts the remaining steps; the write runs only after
// a complete encode, so no partial file is ever left behind.
type Pipeline struct {
	raster Rasterizer
	enc    Encoder
	out    Writer
	log    *slog.Logger
}

// NewPipeline wires the three collaborators. All are required.
func NewPipeline(r Rasterizer, e Encoder, w Writer) *Pipeline {
	return &Pipeline{raster: r, enc: e, out: w, log: applog.WithComponent("export")}
}

// Export renders one page snapshot at the target size and writes it to path.
// The returned job reports the terminal state; err is nil exactly when the
// state is StateWritten.
func (p *Pipeline) Export(ctx context.Context, page domain.Page, target domain.Size, path string) (*Job, error) {
	job := &Job{PageID: page.ID, Path: path, State: StateIdle}

	comp, err := ResolvePage(page, target)
	if err != nil {
		return p.fail(job, err)
	}
	job.State = StateLayoutResolved

	img, err := p.raster.Rasterize(ctx, comp)
	if err != nil {
		return p.fail(job, errs.Wrap(errs.CodeRender, err, "rasterize page %s", page.ID))
	}
	job.State = StateRasterized

	data, err := p.enc.Encode(ctx, img)
	if err != nil {
		return p.fail(job, errs.Wrap(errs.CodeEncode, err, "encode page %s", page.ID))
	}
	job.State = StateEncoded

	if err := p.out.WriteFile(ctx, path, data); err != nil {
		return p.fail(job, errs.Wrap(errs.CodeWrite, err, "write %s", path))
	}
	job.State = StateWritten

	p.log.Info("page exported",
		slog.String("page", page.ID),
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return job, nil
}

func (p *Pipeline) fail(job *Job, err error) (*Job, error) {
	job.State = StateFailed
	job.Err = err
	p.log.Warn("export failed",
		slog.String("page", job.PageID),
		slog.String("path", job.Path),
		slog.String("error", err.Error()))
	return job, err
}
