/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"strconv"
	"strings"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

// PresetCanvas exports each page at its own canvas size.
const PresetCanvas = "canvas"

// SizeForPreset resolves a named export size to store listing pixel targets.
// The canvas preset returns a zero size, which batch export expands to each
// page's own canvas.
func SizeForPreset(name string) (domain.Size, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "iphone-6.9":
		return domain.Size{W: 1320, H: 2868}, nil
	case "iphone-6.5":
		return domain.Size{W: 1242, H: 2688}, nil
	case "ipad-12.9":
		return domain.Size{W: 2048, H: 2732}, nil
	case "android-phone":
		return domain.Size{W: 1080, H: 1920}, nil
	case PresetCanvas:
		return domain.Size{}, nil
	}
	return domain.Size{}, errs.New(errs.CodeGeometry, "unknown size preset %q", name)
}

// SizePresetNames lists the accepted preset names for host help text.
func SizePresetNames() []string {
	return []string{"iphone-6.9", "iphone-6.5", "ipad-12.9", "android-phone", PresetCanvas}
}

// ParseSizeArg accepts either a preset name or an explicit WxH pixel pair
// ("1290x2796"). An empty argument means the canvas size.
func ParseSizeArg(arg string) (domain.Size, error) {
	s := strings.TrimSpace(arg)
	if s == "" {
		return domain.Size{}, nil
	}
	if w, h, ok := parseWxH(s); ok {
		return domain.Size{W: w, H: h}, nil
	}
	return SizeForPreset(s)
}

func parseWxH(s string) (float64, float64, bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
