/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storyboard parses a plain-text caption draft and applies it to a
// project. The format is line-oriented so a caption pass can be written in
// any editor:
//
//	# Hero                      page heading ("Page: Hero" also works)
//	TOP: Track every run        caption anchored at a named position
//	CENTER style(headline): Fast.
//	  Really fast.              indented lines continue the caption
//	; draft note                comment, ignored
//
// Positions are TOP, UPPER, CENTER, LOWER and BOTTOM. Unknown line shapes
// are collected as Problems, never fatal.
package storyboard

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Storyboard is the parsed draft: pages of captions plus anything the
// parser could not classify.
type Storyboard struct {
	Pages    []Page
	Problems []Problem
}

// Page groups the captions under one heading.
type Page struct {
	Name     string
	Captions []Caption
}

// Caption is one caption line. Position holds the anchor word (upper-cased);
// Style optionally names a caption preset.
type Caption struct {
	Position string
	Style    string
	Text     string
	LineNo   int // 1-based starting line number in the source
}

// Problem is a non-fatal parse complaint with position context.
type Problem struct {
	Line    int
	Message string
}

// captionAnchors maps position words to the normalized anchor y; x is
// always 0.5.
var captionAnchors = map[string]float64{
	"TOP":    0.06,
	"UPPER":  0.16,
	"CENTER": 0.5,
	"LOWER":  0.84,
	"BOTTOM": 0.94,
}

// Parse reads a storyboard text. It never fails on content: malformed lines
// become Problems and a read error is reported as a Problem on the last
// visited line.
func Parse(r io.Reader) Storyboard {
	var sb Storyboard

	// Patterns
	rePage := regexp.MustCompile(`^#+\s*(.*)$`)
	rePageAlt := regexp.MustCompile(`^(?i)Page:\s*(.+)$`)
	reCaption := regexp.MustCompile(`^(?i)(TOP|UPPER|CENTER|LOWER|BOTTOM)\s*(?:style\(\s*([A-Za-z0-9_\-]+)\s*\))?\s*:\s*(.*)$`)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	current := Page{}
	started := false
	var lastCaption *Caption

	flushPage := func() {
		if strings.TrimSpace(current.Name) != "" || len(current.Captions) > 0 {
			sb.Pages = append(sb.Pages, current)
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		// Continuation line (indented) -> append to previous caption
		if (strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")) && lastCaption != nil {
			cont := strings.TrimSpace(line)
			if cont != "" {
				if lastCaption.Text == "" {
					lastCaption.Text = cont
				} else {
					lastCaption.Text += "\n" + cont
				}
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			lastCaption = nil
			continue
		}

		// Comment
		if strings.HasPrefix(trim, ";") {
			lastCaption = nil
			continue
		}

		// Page heading
		if m := rePage.FindStringSubmatch(trim); m != nil {
			flushPage()
			current = Page{Name: strings.TrimSpace(m[1])}
			started = true
			lastCaption = nil
			continue
		}
		if m := rePageAlt.FindStringSubmatch(trim); m != nil {
			flushPage()
			current = Page{Name: strings.TrimSpace(m[1])}
			started = true
			lastCaption = nil
			continue
		}

		// Caption line
		if m := reCaption.FindStringSubmatch(trim); m != nil {
			if !started {
				// captions before any heading go to an implicit page
				current = Page{Name: "Untitled"}
				started = true
			}
			c := Caption{
				Position: strings.ToUpper(m[1]),
				Style:    strings.ToLower(strings.TrimSpace(m[2])),
				Text:     strings.TrimSpace(m[3]),
				LineNo:   lineNo,
			}
			current.Captions = append(current.Captions, c)
			lastCaption = &current.Captions[len(current.Captions)-1]
			continue
		}

		sb.Problems = append(sb.Problems, Problem{Line: lineNo, Message: fmt.Sprintf("unrecognized line %q", trim)})
		lastCaption = nil
	}
	flushPage()

	if err := scanner.Err(); err != nil {
		sb.Problems = append(sb.Problems, Problem{Line: lineNo, Message: err.Error()})
	}
	return sb
}
