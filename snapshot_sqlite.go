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
	"database/sql"
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"

	_ "modernc.org/sqlite" // sqlite driver
)

const (
	kindFile       = "f"
	kindDescriptor = "d"
)

type sqliteStore struct {
	db *sql.DB
}

func openSqliteStore(f string) (*sqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
		return nil, errcode.Annotate(err, "make snapshot dir")
	}
	db, err := sql.Open("sqlite", f)
	if err != nil {
		return nil, errcode.Annotate(err, "open sqlite")
	}
	for _, q := range []string{
		`create table if not exists files (
			kind text not null,
			name text not null,
			size integer not null,
			mtime integer not null,
			mode integer not null,
			primary key (kind, name)
		)`,
		`create table if not exists meta (
			key text primary key,
			value text not null
		)`,
	} {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, errcode.Annotate(err, "create tables")
		}
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) close() error { return s.db.Close() }

func (s *sqliteStore) load() (*snapshot, error) {
	var saved string
	row := s.db.QueryRow(`select value from meta where key='saved'`)
	if err := row.Scan(&saved); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errcode.Annotate(err, "read meta")
	}

	rows, err := s.db.Query(
		`select kind, name, size, mtime, mode from files`,
	)
	if err != nil {
		return nil, errcode.Annotate(err, "query files")
	}
	defer rows.Close()

	snap := newSnapshot()
	for rows.Next() {
		var kind string
		stat := new(fileStat)
		if err := rows.Scan(
			&kind, &stat.Name, &stat.Size, &stat.ModTimestamp, &stat.Mode,
		); err != nil {
			return nil, errcode.Annotate(err, "scan row")
		}
		switch kind {
		case kindFile:
			snap.Files[stat.Name] = stat
		case kindDescriptor:
			snap.Descriptors[stat.Name] = stat
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errcode.Annotate(err, "iterate rows")
	}
	return snap, nil
}

func (s *sqliteStore) save(snap *snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errcode.Annotate(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`delete from files`); err != nil {
		return errcode.Annotate(err, "clear files")
	}
	stmt, err := tx.Prepare(
		`insert into files (kind, name, size, mtime, mode)
		values (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errcode.Annotate(err, "prepare insert")
	}
	defer stmt.Close()

	insert := func(kind string, m map[string]*fileStat) error {
		for name, stat := range m {
			if _, err := stmt.Exec(
				kind, name, stat.Size, stat.ModTimestamp, stat.Mode,
			); err != nil {
				return errcode.Annotatef(err, "insert %q", name)
			}
		}
		return nil
	}
	if err := insert(kindFile, snap.Files); err != nil {
		return err
	}
	if err := insert(kindDescriptor, snap.Descriptors); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`insert or replace into meta (key, value) values ('saved', 'true')`,
	); err != nil {
		return errcode.Annotate(err, "write meta")
	}
	return tx.Commit()
}
