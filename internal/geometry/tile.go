/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math"

	"goshotdesigner/internal/errs"
)

// TilePlan describes how an image tiles a destination: a grid anchored at
// the top-left corner, clipped to the destination bounds. AspectFit marks
// the degenerate-intrinsic-size fallback, where a single fitted placement
// replaces the grid.
type TilePlan struct {
	Columns   int
	Rows      int
	AspectFit bool
}

// TileLayout computes the tile grid covering dest with intrinsic-sized
// tiles: columns = ceil(dest.W/intrinsic.W), rows analogous. A zero
// intrinsic dimension falls back to aspect-fit placement instead of
// dividing by zero.
func TileLayout(intrinsic, dest Size) (TilePlan, error) {
	if !dest.Positive() {
		return TilePlan{}, errs.New(errs.CodeGeometry, "tile destination %vx%v not positive", dest.W, dest.H)
	}
	if intrinsic.W <= 0 || intrinsic.H <= 0 {
		return TilePlan{AspectFit: true}, nil
	}
	return TilePlan{
		Columns: int(math.Ceil(dest.W / intrinsic.W)),
		Rows:    int(math.Ceil(dest.H / intrinsic.H)),
	}, nil
}
