/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
)

const (
	ManifestFileName = "mockup.json"
	// SidecarDirName holds everything derived or ephemeral: the index
	// database, manifest backups, crash reports.
	SidecarDirName = ".gsd"
	BackupsDirName = "backups"

	// keepBackups is how many timestamped manifest backups Save retains.
	keepBackups = 5
)

// Standard subfolders scaffolded for every project.
var standardSubDirs = []string{
	"screenshots",
	"backgrounds",
	"exports",
	SidecarDirName,
}

// ProjectHandle keeps track of the project state loaded/saved from disk.
// Root is the project directory containing mockup.json and subfolders.
// Project holds the in-memory representation of the manifest.
type ProjectHandle struct {
	Root         string
	ManifestPath string
	Project      domain.Project
}

// BackupsDir returns the manifest backup directory under the sidecar dir.
func BackupsDir(root string) string {
	return filepath.Join(root, SidecarDirName, BackupsDirName)
}

// InitProject creates a new project directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, writes the manifest transactionally, and
// initializes the sidecar index.
func InitProject(root string, proj domain.Project) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errs.New(errs.CodeStorage, "root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.Wrap(errs.CodeStorage, err, "create project root")
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, errs.Wrap(errs.CodeStorage, err, "create subdir %s", d)
		}
	}

	ph := &ProjectHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Project:      proj,
	}
	if err := Save(ph); err != nil {
		return nil, err
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return nil, err
	}
	_ = db.Close()
	return ph, nil
}

// Open loads an existing project from the given root directory. The manifest
// is validated against the embedded schema before decoding; if it cannot be
// read, validated, or parsed, the newest readable backup is used instead.
func Open(root string) (*ProjectHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		proj, berr := openFromBackups(root)
		if berr != nil {
			return nil, errs.Wrap(errs.CodeStorage, err, "open manifest (backup attempt: %v)", berr)
		}
		return &ProjectHandle{Root: root, ManifestPath: mpath, Project: *proj}, nil
	}
	p, derr := decodeManifest(b)
	if derr != nil {
		proj, berr := openFromBackups(root)
		if berr != nil {
			return nil, errs.Wrap(errs.CodeDecode, derr, "parse manifest (backup attempt: %v)", berr)
		}
		return &ProjectHandle{Root: root, ManifestPath: mpath, Project: *proj}, nil
	}
	return &ProjectHandle{Root: root, ManifestPath: mpath, Project: p}, nil
}

// decodeManifest validates manifest bytes against the embedded schema,
// unmarshals them, and checks the structural invariants of the model.
func decodeManifest(b []byte) (domain.Project, error) {
	if err := ValidateManifestBytes(b); err != nil {
		return domain.Project{}, err
	}
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Project{}, errs.Wrap(errs.CodeDecode, err, "unmarshal manifest")
	}
	if err := p.Validate(); err != nil {
		return domain.Project{}, errs.Wrap(errs.CodeDecode, err, "invalid manifest")
	}
	return p, nil
}

// Save writes the current ProjectHandle.Project to disk with transactional semantics
// and a timestamped backup of the previous manifest (if present). At most
// keepBackups backups are retained, newest first.
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if ph.Root == "" || ph.ManifestPath == "" {
		return errors.New("invalid ProjectHandle: missing paths")
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return errs.Wrap(errs.CodeStorage, err, "marshal manifest")
	}
	data = append(data, '\n')

	bdir := BackupsDir(ph.Root)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return errs.Wrap(errs.CodeStorage, err, "ensure backups dir")
	}

	// If a current manifest exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(ph.ManifestPath); statErr == nil {
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, backupStamp())
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(ph.ManifestPath, bpath); cerr != nil {
			return errs.Wrap(errs.CodeStorage, cerr, "backup current manifest")
		}
		if perr := pruneBackups(bdir); perr != nil {
			return perr
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(ph.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return errs.Wrap(errs.CodeStorage, werr, "write temp manifest")
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(ph.ManifestPath); err == nil {
		_ = os.Remove(ph.ManifestPath)
	}
	if rerr := os.Rename(temp, ph.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return errs.Wrap(errs.CodeStorage, rerr, "replace manifest")
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(ph *ProjectHandle, newRoot string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if newRoot == "" {
		return errs.New(errs.CodeStorage, "new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return errs.Wrap(errs.CodeStorage, err, "create new root")
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return errs.Wrap(errs.CodeStorage, err, "create subdir %s", d)
		}
	}
	ph.Root = newRoot
	ph.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(ph)
}

// AutosaveCrashSnapshot writes the in-memory project to a standalone JSON file
// in the backups directory. It is called from the crash handler, so it must
// not depend on the manifest or the index being in a usable state.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	data, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return "", errs.Wrap(errs.CodeStorage, err, "marshal autosave snapshot")
	}
	data = append(data, '\n')
	bdir := BackupsDir(ph.Root)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", errs.Wrap(errs.CodeStorage, err, "ensure backups dir")
	}
	path := filepath.Join(bdir, fmt.Sprintf("%s.autosave-%s.json", ManifestFileName, backupStamp()))
	if err := writeFileSync(path, data); err != nil {
		return "", errs.Wrap(errs.CodeStorage, err, "write autosave snapshot")
	}
	return path, nil
}

// backupStamp formats timestamps so lexicographic order equals age order.
// Nanoseconds keep saves within the same second from colliding.
func backupStamp() string {
	return time.Now().UTC().Format("20060102-150405.000000000")
}

// pruneBackups keeps the newest keepBackups manifest backups and removes the rest.
func pruneBackups(bdir string) error {
	names, err := backupNames(bdir)
	if err != nil {
		return errs.Wrap(errs.CodeStorage, err, "list backups")
	}
	if len(names) <= keepBackups {
		return nil
	}
	sort.Strings(names) // timestamp in name yields lexicographic order
	for _, name := range names[:len(names)-keepBackups] {
		if rerr := os.Remove(filepath.Join(bdir, name)); rerr != nil {
			return errs.Wrap(errs.CodeStorage, rerr, "prune backup %s", name)
		}
	}
	return nil
}

// backupNames lists manifest backup file names in bdir, unordered.
func backupNames(bdir string) ([]string, error) {
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			names = append(names, name)
		}
	}
	return names, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromBackups tries timestamped backups newest first and returns the
// first one that decodes cleanly.
func openFromBackups(root string) (*domain.Project, error) {
	bdir := BackupsDir(root)
	names, err := backupNames(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	var lastErr error
	for _, name := range names {
		b, rerr := os.ReadFile(filepath.Join(bdir, name))
		if rerr != nil {
			lastErr = rerr
			continue
		}
		p, derr := decodeManifest(b)
		if derr != nil {
			lastErr = derr
			continue
		}
		return &p, nil
	}
	return nil, fmt.Errorf("no readable backup: %w", lastErr)
}
