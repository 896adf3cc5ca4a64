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
	"fmt"
	"strings"

	"shanhu.io/text/lexing"
)

// MalformedModelError is returned when a group descriptor cannot be parsed.
// No model is produced.
type MalformedModelError struct {
	File string
	Errs []*lexing.Error
}

func (e *MalformedModelError) Error() string {
	if len(e.Errs) == 0 {
		return fmt.Sprintf("malformed model %q", e.File)
	}
	first := e.Errs[0]
	msg := first.Err.Error()
	if first.Pos != nil {
		msg = fmt.Sprintf("%s: %s", first.Pos, msg)
	}
	if n := len(e.Errs); n > 1 {
		return fmt.Sprintf(
			"malformed model %q: %s (and %d more)", e.File, msg, n-1,
		)
	}
	return fmt.Sprintf("malformed model %q: %s", e.File, msg)
}

func malformed(file string, errs []*lexing.Error) error {
	return &MalformedModelError{File: file, Errs: errs}
}

// GroupNotFoundError is returned when a group name, either a build target
// or the subject of a group reference, is not declared in the model.
type GroupNotFoundError struct {
	Name string

	// From is the group holding the reference, empty for a direct
	// lookup.
	From string
}

func (e *GroupNotFoundError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("group %q not found", e.Name)
	}
	return fmt.Sprintf(
		"group %q not found, referenced by %q", e.Name, e.From,
	)
}

// CyclicGroupReferenceError is returned when resolving a group reaches a
// group that is still being resolved. Cycle lists the resolution path,
// starting and ending with the same group.
type CyclicGroupReferenceError struct {
	Cycle []string
}

func (e *CyclicGroupReferenceError) Error() string {
	return fmt.Sprintf(
		"cyclic group reference: %s", strings.Join(e.Cycle, " -> "),
	)
}

// ChangeDetectionError is returned when the set of changed files cannot be
// determined. A pass never assumes "no changes" on failure.
type ChangeDetectionError struct {
	Err error
}

func (e *ChangeDetectionError) Error() string {
	return "detect changes: " + e.Err.Error()
}

func (e *ChangeDetectionError) Unwrap() error { return e.Err }

// OutputWriteError is returned when an output artifact of a target cannot
// be produced, including failures reading one of its input files.
type OutputWriteError struct {
	Target string
	Path   string // Output file, or the input file that failed to read.
	Err    error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf(
		"target %q: write %q: %s", e.Target, e.Path, e.Err,
	)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
