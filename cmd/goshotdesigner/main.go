/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goshotdesigner/internal/compose"
	"goshotdesigner/internal/config"
	"goshotdesigner/internal/crash"
	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	applog "goshotdesigner/internal/log"
	"goshotdesigner/internal/render"
	"goshotdesigner/internal/storage"
	"goshotdesigner/internal/store"
	"goshotdesigner/internal/storyboard"
	"goshotdesigner/internal/stylepack"
	"goshotdesigner/internal/telemetry"
	"goshotdesigner/internal/version"
)

func usage() {
	fmt.Println("GoShotDesigner — app store screenshot mockups")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goshotdesigner version|-v|--version                  Show version")
	fmt.Println("  goshotdesigner init <dir> [name]                     Create a new project at <dir>")
	fmt.Println("  goshotdesigner open <dir>                            Open project at <dir> and print summary")
	fmt.Println("  goshotdesigner export <dir> [--out dir] [--size WxH|preset]")
	fmt.Println("                 [--format png|jpeg] [--pages 1,3] [--bundle]")
	fmt.Println("                                                       Render pages to image files")
	fmt.Println("  goshotdesigner search <dir> <query>                  Full-text search captions and page names")
	fmt.Println("  goshotdesigner snapshot <dir>                        Save a manual autosave snapshot to the index")
	fmt.Println("  goshotdesigner import <dir> [storyboard.txt]        Apply a plain-text caption storyboard")
	fmt.Println("                                                       (default <dir>/storyboard.txt)")
	fmt.Println("  goshotdesigner set-background <dir> <page> <style>   Apply a named background preset")
	fmt.Println()
	fmt.Printf("Size presets: %s\n", strings.Join(compose.SizePresetNames(), ", "))
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	// recover directly in the deferred closure; ph is bound later by each command
	defer func() {
		if r := recover(); r != nil {
			crash.Report(r, ph)
		}
	}()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GoShotDesigner — app store screenshot mockups")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			abs, _ := filepath.Abs(dir)
			name := filepath.Base(abs)
			if len(args) >= 4 {
				name = args[3]
			}
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			proj := domain.NewProject(name)
			if lib, err := stylepack.Load(); err == nil {
				if bg, err := lib.Background(stylepack.DefaultBackground); err == nil {
					proj.Pages[0].Background = bg
				}
			}
			h, err := storage.InitProject(abs, proj)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h
			telemetry.Event("project_init", nil)
			telemetry.Flush(context.Background())
			fmt.Println("Created project at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h
			captions := 0
			for i := range h.Project.Pages {
				captions += len(h.Project.Pages[i].Texts)
			}
			fmt.Printf("Opened project: %s\n", h.Project.Name)
			fmt.Printf("Pages: %d\n", len(h.Project.Pages))
			fmt.Printf("Captions: %d\n", captions)
			if pg, ok := h.Project.PageByID(h.Project.ActivePageID); ok {
				name := pg.Name
				if name == "" {
					name = pg.ID
				}
				fmt.Printf("Active page: %s\n", name)
			}
			fmt.Println("Root:", h.Root)
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])

			cfg, err := config.Load()
			if err != nil {
				l.Warn("config load failed, using defaults", slog.Any("err", err))
				cfg = config.Defaults()
			}
			fs := flag.NewFlagSet("export", flag.ExitOnError)
			outFlag := fs.String("out", "", "output directory (default <dir>/exports)")
			sizeFlag := fs.String("size", "", "target size, WxH or preset name (default from config)")
			formatFlag := fs.String("format", "", "png or jpeg (default from config)")
			pagesFlag := fs.String("pages", "", "comma-separated 1-based page numbers (default all)")
			bundleFlag := fs.Bool("bundle", false, "zip the outputs after a full success")
			_ = fs.Parse(args[3:])

			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h

			sizeArg := *sizeFlag
			if sizeArg == "" {
				sizeArg = cfg.Export.SizePreset
			}
			size, err := compose.ParseSizeArg(sizeArg)
			if err != nil {
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(2)
			}
			format := *formatFlag
			if format == "" {
				format = cfg.Export.Format
			}
			enc, err := render.EncoderFor(format, cfg.Export.JPEGQuality)
			if err != nil {
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(2)
			}
			pages, err := parsePagesArg(*pagesFlag)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			outDir := *outFlag
			if outDir == "" {
				outDir = filepath.Join(abs, "exports")
			}

			l.Info("export", slog.String("root", abs), slog.String("out", outDir), slog.String("format", format))
			pipe := compose.NewPipeline(render.New(nil), enc, render.AtomicWriter{})
			ctx := context.Background()
			results, err := compose.ExportPages(ctx, pipe, h.Project, compose.BatchOptions{
				Pages:  pages,
				Size:   size,
				Format: format,
				OutDir: outDir,
				Bundle: *bundleFlag,
			})
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Printf("page %d FAILED: %s\n", r.Number, errs.UserMessage(r.Err))
					continue
				}
				fmt.Printf("page %d -> %s\n", r.Number, r.Path)
			}
			telemetry.Event("export_done", map[string]any{"pages": len(results), "failed": failed})
			telemetry.Flush(ctx)
			if failed > 0 {
				os.Exit(1)
			}
			if *bundleFlag {
				fmt.Println("Bundled outputs in", outDir)
			}
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			query := strings.Join(args[3:], " ")
			l.Info("search", slog.String("root", abs), slog.String("query", query))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h
			ctx := context.Background()
			// the sidecar index is disposable; recover or backfill it before querying
			if rebuilt, err := storage.DetectAndRebuildIndex(ctx, abs, h.Project); err != nil {
				l.Warn("index recovery failed", slog.Any("err", err))
			} else if rebuilt {
				l.Info("index rebuilt", slog.String("root", abs))
			}
			if err := storage.BuildIndexIfEmpty(ctx, abs, h.Project); err != nil {
				l.Warn("index backfill failed", slog.Any("err", err))
			}
			results, err := storage.SearchCaptions(ctx, abs, query)
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return
			}
			for _, r := range results {
				if r.PageNo > 0 {
					fmt.Printf("[page %d] %s: %s\n", r.PageNo, r.Type, r.Snippet)
				} else {
					fmt.Printf("[-] %s: %s\n", r.Type, r.Snippet)
				}
			}
			return
		case "snapshot":
			if len(args) < 3 {
				fmt.Println("snapshot requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h
			blob, err := json.Marshal(h.Project)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx := context.Background()
			if err := storage.SaveSnapshot(ctx, h, blob, time.Now()); err != nil {
				l.Error("snapshot failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			snaps, err := storage.ListSnapshots(ctx, h, 0)
			if err != nil {
				fmt.Println("Snapshot saved.")
				return
			}
			fmt.Printf("Snapshot saved (%d total", len(snaps))
			if len(snaps) > 0 {
				fmt.Printf(", latest %s", snaps[0].TS.Format(time.RFC3339))
			}
			fmt.Println(")")
			return
		case "import":
			if len(args) < 3 {
				fmt.Println("import requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h

			var text string
			external := len(args) >= 4
			if external {
				b, err := os.ReadFile(args[3])
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				text = string(b)
			} else {
				text, err = storage.ReadStoryboard(h)
				if err != nil {
					fmt.Println("Error:", errs.UserMessage(err))
					os.Exit(1)
				}
				if text == "" {
					fmt.Println("no storyboard at", storage.StoryboardFilePath(h))
					os.Exit(2)
				}
			}
			sb := storyboard.Parse(strings.NewReader(text))
			for _, p := range sb.Problems {
				fmt.Printf("warning: line %d: %s\n", p.Line, p.Message)
			}

			lib, err := stylepack.Load()
			if err != nil {
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			st := store.New(h.Project)
			pagesAdded, captionsAdded, err := storyboard.Apply(st, sb, lib)
			if err != nil {
				l.Error("storyboard apply failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			h.Project = st.Current()
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ctx := context.Background()
			if err := storage.ReindexProject(ctx, h); err != nil {
				l.Warn("reindex after import failed", slog.Any("err", err))
			}
			if external {
				// keep the applied pass at the project root for review and re-import
				if err := storage.WriteStoryboard(h, text); err != nil {
					l.Warn("keep storyboard copy failed", slog.Any("err", err))
				}
			}
			fmt.Printf("Imported storyboard: %d pages added, %d captions added\n", pagesAdded, captionsAdded)
			return
		case "set-background":
			if len(args) < 5 {
				fmt.Println("set-background requires <dir>, <page> and <style>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			pageNo, err := strconv.Atoi(args[3])
			if err != nil || pageNo < 1 {
				fmt.Printf("bad page number %q\n", args[3])
				os.Exit(2)
			}
			styleName := args[4]

			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			ph = h
			if pageNo > len(h.Project.Pages) {
				fmt.Printf("page %d out of range 1..%d\n", pageNo, len(h.Project.Pages))
				os.Exit(2)
			}
			lib, err := stylepack.Load()
			if err != nil {
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			bg, err := lib.Background(styleName)
			if err != nil {
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(2)
			}
			st := store.New(h.Project)
			st.Apply("Set Background", store.SetBackground(h.Project.Pages[pageNo-1].ID, bg))
			h.Project = st.Current()
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", errs.UserMessage(err))
				os.Exit(1)
			}
			fmt.Printf("Applied background %q to page %d\n", styleName, pageNo)
			return
		default:
			fmt.Printf("unknown command %q\n", args[1])
			usage()
			os.Exit(2)
		}
	}

	usage()
}

// parsePagesArg turns "1,3" into []int{1, 3}; empty selects all pages.
func parsePagesArg(arg string) ([]int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad page number %q", p)
		}
		nums = append(nums, n)
	}
	return nums, nil
}
