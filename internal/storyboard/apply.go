/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storyboard

import (
	"errors"
	"log/slog"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	applog "goshotdesigner/internal/log"
	"goshotdesigner/internal/store"
	"goshotdesigner/internal/stylepack"
)

// Apply replays the storyboard into the store: existing pages are matched by
// name in order, missing pages are appended, captions are appended per page.
// Every mutation goes through the transform catalog, so the import is
// undoable step by step.
//
// Style names are resolved up front; an unknown style aborts before any
// mutation.
func Apply(st *store.Store, sb Storyboard, styles *stylepack.Library) (pagesAdded, captionsAdded int, err error) {
	if st == nil {
		return 0, 0, errors.New("nil store")
	}
	l := applog.WithComponent("storyboard")

	resolved := map[string]stylepack.CaptionStyle{}
	for _, pg := range sb.Pages {
		for _, c := range pg.Captions {
			if c.Style == "" {
				continue
			}
			if _, ok := resolved[c.Style]; ok {
				continue
			}
			if styles == nil {
				return 0, 0, errs.New(errs.CodeConfig, "caption style %q requested but no style pack loaded", c.Style)
			}
			cs, err := styles.Caption(c.Style)
			if err != nil {
				return 0, 0, err
			}
			resolved[c.Style] = cs
		}
	}

	proj := st.Current()
	used := make([]bool, len(proj.Pages))

	for _, pg := range sb.Pages {
		pageID := ""
		for i := range proj.Pages {
			if !used[i] && proj.Pages[i].Name == pg.Name {
				used[i] = true
				pageID = proj.Pages[i].ID
				break
			}
		}
		if pageID == "" {
			np := domain.NewPage()
			np.Name = pg.Name
			st.Apply("Add Page", store.AddPage(np))
			pageID = np.ID
			pagesAdded++
		}

		for _, c := range pg.Captions {
			el := domain.NewTextElement(c.Text)
			el.Position = domain.Point{X: 0.5, Y: captionAnchors[c.Position]}
			if c.Style != "" {
				cs := resolved[c.Style]
				stylepack.ApplyCaptionStyle(&el, cs)
			}
			st.Apply("Add Caption", store.AddText(pageID, el))
			captionsAdded++
		}
	}

	l.Info("storyboard applied",
		slog.Int("pages_added", pagesAdded),
		slog.Int("captions_added", captionsAdded),
		slog.Int("problems", len(sb.Problems)),
	)
	return pagesAdded, captionsAdded, nil
}
