/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"goshotdesigner/internal/errs"
)

// The manifest schema ships inside the binary so validation needs no
// install-time assets.
//
//go:embed mockup.schema.json
var manifestSchemaBytes []byte

// ManifestSchema returns a copy of the embedded manifest JSON schema.
func ManifestSchema() []byte {
	out := make([]byte, len(manifestSchemaBytes))
	copy(out, manifestSchemaBytes)
	return out
}

// ValidateManifestBytes checks raw manifest bytes against the embedded
// schema. Violations are reported as one decode-coded error naming every
// offending field.
func ValidateManifestBytes(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(manifestSchemaBytes)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return errs.Wrap(errs.CodeDecode, err, "validate manifest")
	}
	if !result.Valid() {
		var b strings.Builder
		for i, e := range result.Errors() {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(e.String())
		}
		return errs.New(errs.CodeDecode, "manifest schema: %s", b.String())
	}
	return nil
}
