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
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonutil"
	"shanhu.io/misc/osutil"
)

// snapshot records the stats of the source files and the descriptor files
// at the end of the last successful pass.
type snapshot struct {
	Files       map[string]*fileStat
	Descriptors map[string]*fileStat `json:",omitempty"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		Files:       make(map[string]*fileStat),
		Descriptors: make(map[string]*fileStat),
	}
}

type snapshotStore interface {
	// load returns nil when there is no snapshot saved yet.
	load() (*snapshot, error)
	save(s *snapshot) error
	close() error
}

// memStore keeps the snapshot in memory. Used when no snapshot file is
// configured, so each detector instance starts with a full build.
type memStore struct {
	s *snapshot
}

func (m *memStore) load() (*snapshot, error) { return m.s, nil }

func (m *memStore) save(s *snapshot) error {
	m.s = s
	return nil
}

func (m *memStore) close() error { return nil }

type jsonStore struct {
	file string
}

func (j *jsonStore) load() (*snapshot, error) {
	exist, err := osutil.IsRegular(j.file)
	if err != nil {
		return nil, errcode.Annotatef(err, "check snapshot %q", j.file)
	}
	if !exist {
		return nil, nil
	}

	s := newSnapshot()
	if err := jsonutil.ReadFile(j.file, s); err != nil {
		return nil, errcode.Annotatef(err, "read snapshot %q", j.file)
	}
	if s.Files == nil {
		s.Files = make(map[string]*fileStat)
	}
	if s.Descriptors == nil {
		s.Descriptors = make(map[string]*fileStat)
	}
	return s, nil
}

func (j *jsonStore) save(s *snapshot) error {
	if err := os.MkdirAll(filepath.Dir(j.file), 0755); err != nil {
		return errcode.Annotate(err, "make snapshot dir")
	}
	return jsonutil.WriteFile(j.file, s)
}

func (j *jsonStore) close() error { return nil }

func isSqliteFile(f string) bool {
	switch filepath.Ext(f) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func openSnapshotStore(f string) (snapshotStore, error) {
	if f == "" {
		return new(memStore), nil
	}
	if isSqliteFile(f) {
		s, err := openSqliteStore(f)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return &jsonStore{file: f}, nil
}
