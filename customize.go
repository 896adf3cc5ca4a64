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
	"path/filepath"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
)

// Layout describes the deployment layout of a web application project.
// When the project is packaged as a war and has an overlay folder for web
// resources, output directories under the default web application
// directory are moved into the overlay folder.
type Layout struct {
	Packaging string // Only "war" is customized.
	BuildDir  string // Build output directory, like "target".
	FinalName string // Name of the web application directory in BuildDir.

	// Overlay folder for web resources, like
	// "target/m2e-wtp/web-resources". Must exist to be used.
	OverlayDir string
}

const packagingWar = "war"

// remapDir returns the overlay path of dir, or an empty string when dir is
// not under prefix.
func remapDir(dir, prefix, overlay string) (string, error) {
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(prefix, abs)
	if err != nil {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", nil
	}
	return filepath.Join(overlay, rel), nil
}

// customize moves the output directories of e into the overlay folder of
// the layout, when applicable.
func customize(e *env, layout *Layout) (*env, error) {
	if layout == nil || layout.Packaging != packagingWar {
		return e, nil
	}
	if layout.OverlayDir == "" || layout.BuildDir == "" {
		return e, nil
	}
	ok, err := osutil.IsDir(layout.OverlayDir)
	if err != nil {
		return nil, errcode.Annotate(err, "check overlay dir")
	}
	if !ok {
		return e, nil
	}

	buildDir, err := filepath.Abs(layout.BuildDir)
	if err != nil {
		return nil, errcode.Annotate(err, "build dir")
	}
	overlay, err := filepath.Abs(layout.OverlayDir)
	if err != nil {
		return nil, errcode.Annotate(err, "overlay dir")
	}
	prefix := filepath.Join(buildDir, layout.FinalName)

	ret := *e
	for _, dir := range []*string{&ret.outDir, &ret.jsDir, &ret.cssDir} {
		p, err := remapDir(*dir, prefix, overlay)
		if err != nil {
			return nil, errcode.Annotatef(err, "remap %q", *dir)
		}
		if p != "" {
			*dir = p
		}
	}
	return &ret, nil
}
