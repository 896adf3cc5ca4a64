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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Separators written after each file in a bundle.
const (
	jsSeparator  = ";\n"
	cssSeparator = "\n"
)

// writeBundle concatenates the files into dest, each followed by sep. It
// returns the hex sha256 of the written content.
func writeBundle(
	e *env, target, dest string, files []string, sep string,
) (string, error) {
	fail := func(p string, err error) (string, error) {
		return "", &OutputWriteError{Target: target, Path: p, Err: err}
	}

	if err := prepareOut(dest); err != nil {
		return fail(dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fail(dest, err)
	}
	defer out.Close()

	h := sha256.New()
	w := io.MultiWriter(h, out)

	copyFile := func(f string) error {
		in, err := os.Open(f)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	}

	for _, f := range files {
		p := e.src(f)
		if err := copyFile(p); err != nil {
			return fail(p, err)
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return fail(dest, err)
		}
	}

	if err := out.Close(); err != nil {
		return fail(dest, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
