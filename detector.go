// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package wrobuild

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/strutil"
)

// ChangeDetector tells a build pass what changed since the last successful
// pass.
type ChangeDetector interface {
	// DescriptorModified returns true if the group descriptor or the
	// project descriptor changed.
	DescriptorModified(ctx context.Context) (bool, error)

	// ChangedFiles returns the sorted, slash-separated paths of the
	// changed files, relative to the source directory.
	ChangedFiles(ctx context.Context) ([]string, error)
}

// committer is implemented by change detectors that remember the state of
// the last successful pass.
type committer interface {
	Commit() error
}

// StatDetector detects changes by comparing the size, modification time
// and mode of files against a snapshot saved by the last successful pass.
// Without a previous snapshot, every file is changed and the descriptors
// are modified.
type StatDetector struct {
	srcDir      string
	descriptors []string
	skip        string          // Prefix of snapshot files, never reported.
	outDirs     map[string]bool // Output directories, never walked.
	store       snapshotStore

	scanned bool
	prev    *snapshot
	cur     *snapshot
}

// NewStatDetector creates a change detector for the build configuration.
// The snapshot is kept in c.Snapshot: a SQLite database when the file name
// ends with .db, .sqlite or .sqlite3, a JSON file otherwise, and only in
// memory when empty.
func NewStatDetector(c *Config) (*StatDetector, error) {
	store, err := openSnapshotStore(c.Snapshot)
	if err != nil {
		return nil, errcode.Annotate(err, "open snapshot")
	}

	var descriptors []string
	for _, f := range []string{c.Model, c.Descriptor} {
		if f != "" {
			descriptors = append(descriptors, f)
		}
	}

	d := &StatDetector{
		srcDir:      c.Src,
		descriptors: descriptors,
		store:       store,
		outDirs:     make(map[string]bool),
	}
	for _, dir := range []string{c.Out, c.JSOut, c.CSSOut} {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			store.close()
			return nil, errcode.Annotatef(err, "output path %q", dir)
		}
		d.outDirs[abs] = true
	}
	if c.Snapshot != "" {
		abs, err := filepath.Abs(c.Snapshot)
		if err != nil {
			store.close()
			return nil, errcode.Annotate(err, "snapshot path")
		}
		d.skip = abs
	}
	return d, nil
}

func (d *StatDetector) skipped(p string) bool {
	if d.skip == "" {
		return false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	// Also covers sqlite journal files next to the database.
	return strings.HasPrefix(abs, d.skip)
}

// isOutDir tells if dir is one of the bundle output directories. Bundles
// written into the source tree are not source changes.
func (d *StatDetector) isOutDir(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return d.outDirs[abs]
}

func (d *StatDetector) scan(ctx context.Context) error {
	if d.scanned {
		return nil
	}

	prev, err := d.store.load()
	if err != nil {
		return errcode.Annotate(err, "load snapshot")
	}

	cur := newSnapshot()
	walk := func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if p != d.srcDir && d.isOutDir(p) {
				return fs.SkipDir
			}
			return nil
		}
		if d.skipped(p) {
			return nil
		}
		rel, err := filepath.Rel(d.srcDir, p)
		if err != nil {
			return errcode.Annotatef(err, "relative path of %q", p)
		}
		info, err := entry.Info()
		if err != nil {
			return errcode.Annotatef(err, "stat %q", p)
		}
		name := filepath.ToSlash(rel)
		cur.Files[name] = fileStatFromInfo(name, info)
		return nil
	}
	if err := filepath.WalkDir(d.srcDir, walk); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errcode.Annotatef(err, "scan %q", d.srcDir)
	}

	for _, f := range d.descriptors {
		stat, err := newFileStat(f, f)
		if err != nil {
			if errcode.IsNotFound(err) {
				continue
			}
			return errcode.Annotatef(err, "stat descriptor %q", f)
		}
		cur.Descriptors[f] = stat
	}

	d.prev = prev
	d.cur = cur
	d.scanned = true
	return nil
}

func changedStats(prev, cur map[string]*fileStat) map[string]bool {
	changed := make(map[string]bool)
	for name, stat := range cur {
		if !sameFileStat(prev[name], stat) {
			changed[name] = true
		}
	}
	for name := range prev {
		if _, ok := cur[name]; !ok {
			changed[name] = true // deleted
		}
	}
	return changed
}

// DescriptorModified returns true if any descriptor file was added, removed
// or changed since the last snapshot.
func (d *StatDetector) DescriptorModified(ctx context.Context) (bool, error) {
	if err := d.scan(ctx); err != nil {
		return false, err
	}
	if d.prev == nil {
		return true, nil
	}
	return len(changedStats(d.prev.Descriptors, d.cur.Descriptors)) > 0, nil
}

// ChangedFiles returns the source files added, removed or changed since the
// last snapshot.
func (d *StatDetector) ChangedFiles(ctx context.Context) ([]string, error) {
	if err := d.scan(ctx); err != nil {
		return nil, err
	}
	var prev map[string]*fileStat
	if d.prev != nil {
		prev = d.prev.Files
	}
	return strutil.SortedList(changedStats(prev, d.cur.Files)), nil
}

// Commit saves the scanned state as the snapshot for the next pass. It
// scans first if nothing was scanned yet.
func (d *StatDetector) Commit() error {
	if err := d.scan(context.Background()); err != nil {
		return err
	}
	if err := d.store.save(d.cur); err != nil {
		return errcode.Annotate(err, "save snapshot")
	}
	return nil
}

// Close releases the snapshot store.
func (d *StatDetector) Close() error { return d.store.close() }
