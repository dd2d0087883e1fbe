/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"strings"
	"testing"

	"goshotdesigner/internal/domain"
)

func searchFixture(t *testing.T) (string, *ProjectHandle) {
	t.Helper()
	root := t.TempDir()
	proj := domain.NewProject("Fitness App")
	proj.Pages[0].Name = "Hero"
	proj.Pages[0].Texts = append(proj.Pages[0].Texts, domain.NewTextElement("Track your workouts"))
	second := domain.NewPage()
	second.Name = "Social"
	second.Texts = append(second.Texts, domain.NewTextElement("Share with friends"))
	proj.Pages = append(proj.Pages, second)

	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	if err := ReindexProject(testCtx(t), ph); err != nil {
		t.Fatalf("ReindexProject: %v", err)
	}
	return root, ph
}

func TestSearchCaptionsFindsText(t *testing.T) {
	root, ph := searchFixture(t)
	ctx := testCtx(t)

	results, err := SearchCaptions(ctx, root, "workouts")
	if err != nil {
		t.Fatalf("SearchCaptions: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Type != "caption" {
		t.Fatalf("type = %q", r.Type)
	}
	if r.PageNo != 1 {
		t.Fatalf("page_no = %d, want 1", r.PageNo)
	}
	if r.PageID != ph.Project.Pages[0].ID {
		t.Fatalf("page_id = %q", r.PageID)
	}
	if r.ElementID != ph.Project.Pages[0].Texts[0].ID {
		t.Fatalf("element_id = %q", r.ElementID)
	}
	if !strings.Contains(r.Snippet, "[workouts]") {
		t.Fatalf("snippet missing highlight markers: %q", r.Snippet)
	}
}

func TestSearchCaptionsMatchesPageNames(t *testing.T) {
	root, _ := searchFixture(t)
	results, err := SearchCaptions(testCtx(t), root, "Social")
	if err != nil {
		t.Fatalf("SearchCaptions: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Type != "page_name" {
		t.Fatalf("type = %q, want page_name", results[0].Type)
	}
	if results[0].PageNo != 2 {
		t.Fatalf("page_no = %d, want 2", results[0].PageNo)
	}
}

func TestSearchPageRangeFilter(t *testing.T) {
	root, _ := searchFixture(t)
	results, err := Search(testCtx(t), root, SearchQuery{
		Types:    []string{"caption"},
		PageFrom: 2,
		PageTo:   2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Snippet, "Share with friends") {
		t.Fatalf("wrong row in range: %q", results[0].Snippet)
	}
}

func TestSearchEmptyTextScansAll(t *testing.T) {
	root, _ := searchFixture(t)
	results, err := Search(testCtx(t), root, SearchQuery{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// project_name + 2 page names + 2 captions
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	// Ordered by page number; the project-level row has no page.
	if results[0].Type != "project_name" {
		t.Fatalf("first row type = %q, want project_name", results[0].Type)
	}
	for i := 1; i < len(results); i++ {
		if results[i].PageNo < results[i-1].PageNo {
			t.Fatalf("results not ordered by page at %d", i)
		}
	}
}

func TestSearchLimitAndOffset(t *testing.T) {
	root, _ := searchFixture(t)
	ctx := testCtx(t)

	page1, err := Search(ctx, root, SearchQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Search limit: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(page1))
	}
	page2, err := Search(ctx, root, SearchQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Search offset: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("offset page rows = %d, want 2", len(page2))
	}
	if page1[0].DocID == page2[0].DocID {
		t.Fatalf("offset did not advance the window")
	}
}

func TestSearchNoMatches(t *testing.T) {
	root, _ := searchFixture(t)
	results, err := SearchCaptions(testCtx(t), root, "zeppelin")
	if err != nil {
		t.Fatalf("SearchCaptions: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no matches, got %d", len(results))
	}
}
