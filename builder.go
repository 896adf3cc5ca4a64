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
	"log"
	"path"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/idutil"
)

type triState int

const (
	stateUnknown triState = iota
	stateTrue
	stateFalse
)

// Result reports what a build pass did.
type Result struct {
	// NoChange is true when nothing changed and no target was looked at.
	NoChange bool

	Regenerated []string // Targets whose bundles were written.
	Skipped     []string // Targets left untouched.
}

// Builder runs one incremental build pass. The group model and the change
// information are loaded at most once and kept for the pass; create a new
// Builder for every pass.
type Builder struct {
	env      *env
	config   *Config
	targets  []string
	detector ChangeDetector

	ran bool

	model      *Model
	modelLoads int

	descriptorModified triState
	changed            []string
	changedLoaded      bool
}

// NewBuilder creates a builder for a build pass with the given
// configuration and change detector.
func NewBuilder(config *Config, detector ChangeDetector) *Builder {
	return &Builder{
		env:      newEnv(config),
		config:   config,
		targets:  config.TargetList(),
		detector: detector,
	}
}

// Model returns the group model of the pass, reading the descriptor on first
// use.
func (b *Builder) Model() (*Model, error) {
	if b.model != nil {
		return b.model, nil
	}
	m, err := ReadModel(b.config.Model)
	if err != nil {
		return nil, err
	}
	b.modelLoads++
	b.model = m
	return m, nil
}

func (b *Builder) isDescriptorModified(ctx context.Context) (bool, error) {
	if b.descriptorModified == stateUnknown {
		modified, err := b.detector.DescriptorModified(ctx)
		if err != nil {
			return false, &ChangeDetectionError{Err: err}
		}
		if modified {
			b.descriptorModified = stateTrue
		} else {
			b.descriptorModified = stateFalse
		}
	}
	return b.descriptorModified == stateTrue, nil
}

func (b *Builder) changedFiles(ctx context.Context) ([]string, error) {
	if !b.changedLoaded {
		files, err := b.detector.ChangedFiles(ctx)
		if err != nil {
			return nil, &ChangeDetectionError{Err: err}
		}
		b.changed = files
		b.changedLoaded = true
	}
	return b.changed, nil
}

func (b *Builder) changeDetected(ctx context.Context) (bool, error) {
	modified, err := b.isDescriptorModified(ctx)
	if err != nil {
		return false, err
	}
	if modified {
		return true, nil
	}
	files, err := b.changedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// rootedPath normalizes a path to the slash-rooted form used to compare
// changed files with resolved group files.
func rootedPath(p string) string {
	return path.Join("/", strings.ReplaceAll(p, `\`, "/"))
}

func (b *Builder) targetChanged(
	ctx context.Context, js, css []string,
) (bool, error) {
	files, err := b.changedFiles(ctx)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, nil
	}

	set := make(map[string]bool)
	for _, f := range js {
		set[rootedPath(f)] = true
	}
	for _, f := range css {
		set[rootedPath(f)] = true
	}
	for _, f := range files {
		if set[rootedPath(f)] {
			return true, nil
		}
	}
	return false, nil
}

func (b *Builder) regenerate(e *env, target string, js, css []string) error {
	for _, out := range []struct {
		dest  string
		files []string
		sep   string
	}{
		{e.cssOut(target), css, cssSeparator},
		{e.jsOut(target), js, jsSeparator},
	} {
		sum, err := writeBundle(e, target, out.dest, out.files, out.sep)
		if err != nil {
			return err
		}
		log.Printf("write %s (%s)", out.dest, idutil.Short(sum))
	}
	return nil
}

func (b *Builder) buildTarget(
	ctx context.Context, e *env, target string,
) (bool, error) {
	m, err := b.Model()
	if err != nil {
		return false, err
	}
	g, ok := m.Group(target)
	if !ok {
		return false, &GroupNotFoundError{Name: target}
	}
	js, err := g.JS()
	if err != nil {
		return false, err
	}
	css, err := g.CSS()
	if err != nil {
		return false, err
	}

	rebuild, err := b.isDescriptorModified(ctx)
	if err != nil {
		return false, err
	}
	if !rebuild {
		changed, err := b.targetChanged(ctx, js, css)
		if err != nil {
			return false, err
		}
		rebuild = changed
	}
	if !rebuild {
		return false, nil
	}

	log.Printf("build %s", target)
	if err := b.regenerate(e, target, js, css); err != nil {
		return false, err
	}
	return true, nil
}

// Build runs the build pass. Targets are processed in order; the first
// error aborts the pass. When the pass succeeds and the change detector
// keeps snapshots, the snapshot is committed.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if b.ran {
		return nil, errcode.Internalf("builder already ran a pass")
	}
	b.ran = true

	changed, err := b.changeDetected(ctx)
	if err != nil {
		return nil, err
	}
	if !changed {
		log.Printf("no change")
		return &Result{NoChange: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := customize(b.env, b.config.Layout)
	if err != nil {
		return nil, errcode.Annotate(err, "customize output dirs")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := new(Result)
	for _, target := range b.targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		built, err := b.buildTarget(ctx, e, target)
		if err != nil {
			return nil, err
		}
		if built {
			res.Regenerated = append(res.Regenerated, target)
		} else {
			log.Printf("%s is up to date", target)
			res.Skipped = append(res.Skipped, target)
		}
	}

	if c, ok := b.detector.(committer); ok {
		if err := c.Commit(); err != nil {
			return nil, errcode.Annotate(err, "commit snapshot")
		}
	}
	return res, nil
}
