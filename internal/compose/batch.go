/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

// BatchOptions controls a multi-page export run.
//
// Path semantics: one file per page named page-NN.<ext> in OutDir. Bundle
// additionally packs the outputs into <project>-screens.zip in OutDir once
// every page succeeded.
type BatchOptions struct {
	Pages  []int       // 1-based page numbers; empty means all pages
	Size   domain.Size // target pixel size; zero means each page's own canvas
	Format string      // output extension: png (default) or jpeg; must match the pipeline's encoder
	OutDir string
	Bundle bool
}

// PageResult is the outcome of one page within a batch.
type PageResult struct {
	Number int // 1-based
	PageID string
	Path   string
	Err    error
}

// ExportPages exports the selected pages through the pipeline, continuing
// past per-page failures. Per-page outcomes land in the results; the error
// return covers run-level failures (bad selection, output dir, bundling).
func ExportPages(ctx context.Context, p *Pipeline, project domain.Project, opts BatchOptions) ([]PageResult, error) {
	if len(project.Pages) == 0 {
		return nil, errs.New(errs.CodeModel, "project has no pages")
	}
	nums, err := pageNumbers(len(project.Pages), opts.Pages)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(strings.TrimSpace(opts.Format))
	switch ext {
	case "":
		ext = "png"
	case "jpeg", "jpg":
		// one spelling on disk regardless of how the format was given
		ext = "jpg"
	case "png":
	default:
		return nil, errs.New(errs.CodeEncode, "unknown export format %q", opts.Format)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.CodeWrite, err, "ensure out dir %s", opts.OutDir)
	}

	results := make([]PageResult, 0, len(nums))
	failed := false
	for _, n := range nums {
		page := project.Pages[n-1]
		target := opts.Size
		if !target.Positive() {
			target = page.Canvas
		}
		path := filepath.Join(opts.OutDir, fmt.Sprintf("page-%02d.%s", n, ext))
		if _, err := p.Export(ctx, page, target, path); err != nil {
			failed = true
			results = append(results, PageResult{Number: n, PageID: page.ID, Path: path, Err: err})
			continue
		}
		results = append(results, PageResult{Number: n, PageID: page.ID, Path: path})
	}

	if opts.Bundle && !failed {
		if err := bundleOutputs(project.Name, results, opts.OutDir); err != nil {
			return results, err
		}
	}
	return results, nil
}

// pageNumbers expands an empty selection to all pages and validates an
// explicit one, preserving its order.
func pageNumbers(total int, sel []int) ([]int, error) {
	if len(sel) == 0 {
		nums := make([]int, total)
		for i := range nums {
			nums[i] = i + 1
		}
		return nums, nil
	}
	nums := make([]int, 0, len(sel))
	for _, n := range sel {
		if n < 1 || n > total {
			return nil, errs.New(errs.CodeModel, "page %d out of range 1..%d", n, total)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// bundleOutputs zips the exported files, store-only since the payloads are
// already compressed image data. Entries keep result order.
func bundleOutputs(projectName string, results []PageResult, outDir string) error {
	path := filepath.Join(outDir, bundleFileName(projectName))
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.CodeWrite, err, "create bundle %s", path)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, r := range results {
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return errs.Wrap(errs.CodeWrite, err, "bundle read %s", r.Path)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.Base(r.Path), Method: zip.Store})
		if err != nil {
			return errs.Wrap(errs.CodeWrite, err, "bundle add %s", r.Path)
		}
		if _, err := w.Write(data); err != nil {
			return errs.Wrap(errs.CodeWrite, err, "bundle write %s", r.Path)
		}
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(errs.CodeWrite, err, "close bundle %s", path)
	}
	return nil
}

func bundleFileName(projectName string) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "mockups"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		case ' ':
			return '-'
		}
		return r
	}, name)
	return name + "-screens.zip"
}
