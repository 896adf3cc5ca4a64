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
	"path"
	"path/filepath"
)

type env struct {
	srcDir string
	outDir string
	jsDir  string
	cssDir string
}

func newEnv(c *Config) *env {
	e := &env{
		srcDir: c.Src,
		outDir: c.Out,
		jsDir:  c.JSOut,
		cssDir: c.CSSOut,
	}
	if e.jsDir == "" {
		e.jsDir = e.outDir
	}
	if e.cssDir == "" {
		e.cssDir = e.outDir
	}
	return e
}

// src returns the file path of a source file. Resolved paths are rooted at
// the source directory, with or without a leading slash.
func (e *env) src(ps ...string) string {
	if len(ps) == 0 {
		return e.srcDir
	}
	p := path.Join(ps...)
	return filepath.Join(e.srcDir, filepath.FromSlash(p))
}

func (e *env) jsOut(target string) string {
	return filepath.Join(e.jsDir, target+".js")
}

func (e *env) cssOut(target string) string {
	return filepath.Join(e.cssDir, target+".css")
}

func prepareOut(p string) error {
	return os.MkdirAll(filepath.Dir(p), 0755)
}
