/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"

	"goshotdesigner/internal/errs"
)

// StoryboardFileName is the default storyboard draft kept at the project root.
// The storyboard is a plain text caption pass editable outside the app; the
// import command replays it onto the project.
const StoryboardFileName = "storyboard.txt"

// StoryboardFilePath returns the canonical storyboard path for the handle,
// or "" for a nil handle.
func StoryboardFilePath(ph *ProjectHandle) string {
	if ph == nil {
		return ""
	}
	return filepath.Join(ph.Root, StoryboardFileName)
}

// ReadStoryboard returns the storyboard text, or "" when the file is missing.
func ReadStoryboard(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(StoryboardFilePath(ph))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errs.Wrap(errs.CodeStorage, err, "read storyboard")
	}
	return string(b), nil
}

// WriteStoryboard replaces the storyboard text, flushed to disk.
func WriteStoryboard(ph *ProjectHandle, text string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if err := writeFileSync(StoryboardFilePath(ph), []byte(text)); err != nil {
		return errs.Wrap(errs.CodeStorage, err, "write storyboard")
	}
	return nil
}
