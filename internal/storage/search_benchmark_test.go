/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"fmt"
	"testing"

	"goshotdesigner/internal/domain"
)

func benchProject(pages int) domain.Project {
	proj := domain.NewProject("Bench")
	for len(proj.Pages) < pages {
		proj.Pages = append(proj.Pages, domain.NewPage())
	}
	for i := range proj.Pages {
		pg := &proj.Pages[i]
		pg.Name = fmt.Sprintf("Page %d", i+1)
		pg.Texts = append(pg.Texts,
			domain.NewTextElement(fmt.Sprintf("Track activity number %d with precision", i)),
			domain.NewTextElement(fmt.Sprintf("Caption %d about sharing and syncing", i)),
		)
	}
	return proj
}

func BenchmarkSearchFTS(b *testing.B) {
	root := b.TempDir()
	ph, err := InitProject(root, benchProject(100))
	if err != nil {
		b.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	if err := ReindexProject(ctx, ph); err != nil {
		b.Fatalf("ReindexProject: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results, err := SearchCaptions(ctx, root, "sharing")
		if err != nil {
			b.Fatalf("SearchCaptions: %v", err)
		}
		if len(results) == 0 {
			b.Fatalf("expected matches")
		}
	}
}

func BenchmarkReindexProject(b *testing.B) {
	root := b.TempDir()
	ph, err := InitProject(root, benchProject(50))
	if err != nil {
		b.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ReindexProject(ctx, ph); err != nil {
			b.Fatalf("ReindexProject: %v", err)
		}
	}
}
