/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package errs defines the typed failure taxonomy shared by the document
// model, the geometry engine and the export pipeline. Failures carry a
// machine-readable code so hosts can dispatch on the category while the
// message stays human-readable.
package errs

import (
	"errors"
	"fmt"
)

// Code categorizes a failure.
type Code string

const (
	// CodeModel marks invalid structural references inside a project
	// (stale ids, duplicate ids, unknown union variants reached at runtime).
	CodeModel Code = "MODEL"
	// CodeGeometry marks rejected geometry inputs such as non-positive
	// canvas sizes or target heights.
	CodeGeometry Code = "GEOMETRY"
	// CodeDecode marks undecodable screenshot or background image bytes and
	// malformed project files.
	CodeDecode Code = "DECODE"
	// CodeRender, CodeEncode and CodeWrite mark failures of the respective
	// export collaborators.
	CodeRender Code = "RENDER"
	CodeEncode Code = "ENCODE"
	CodeWrite  Code = "WRITE"
	// CodeStorage marks project file and sidecar index failures.
	CodeStorage Code = "STORAGE"
	// CodeConfig marks invalid configuration and style pack content.
	CodeConfig Code = "CONFIG"
)

// Error is a categorized error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code from an error chain, or "" for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for display;
// untyped errors pass through unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
