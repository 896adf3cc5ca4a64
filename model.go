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
	"sort"
)

// Model is a set of groups, keyed by name.
type Model struct {
	file   string
	groups map[string]*Group
}

func newModel(file string) *Model {
	return &Model{
		file:   file,
		groups: make(map[string]*Group),
	}
}

// NewModel creates a model from groups given as name and element lists. It
// is mostly useful for building models in code rather than from a
// descriptor file.
func NewModel(groups map[string][]Element) *Model {
	m := newModel("")
	for name, elems := range groups {
		g := m.declare(name)
		for _, e := range elems {
			g.add(e)
		}
	}
	return m
}

// declare registers a new empty group under name, replacing any previous
// group with the same name. The group is filled through the returned
// handle, so references to it may appear before it is declared.
func (m *Model) declare(name string) *Group {
	g := &Group{name: name, model: m}
	m.groups[name] = g
	return g
}

// File returns the descriptor file the model was read from.
func (m *Model) File() string { return m.file }

// Group returns the group of the given name.
func (m *Model) Group(name string) (*Group, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// Names returns the sorted names of all groups.
func (m *Model) Names() []string {
	var names []string
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Model) mustGroup(name string) (*Group, error) {
	g, ok := m.groups[name]
	if !ok {
		return nil, &GroupNotFoundError{Name: name}
	}
	return g, nil
}

// JS returns the resolved javascript file list of the named group.
func (m *Model) JS(name string) ([]string, error) {
	g, err := m.mustGroup(name)
	if err != nil {
		return nil, err
	}
	return g.JS()
}

// CSS returns the resolved stylesheet file list of the named group.
func (m *Model) CSS(name string) ([]string, error) {
	g, err := m.mustGroup(name)
	if err != nil {
		return nil, err
	}
	return g.CSS()
}

func (m *Model) resolve(g *Group, t *resolveTracer) (*resolution, error) {
	if g.res != nil {
		return g.res, g.res.err
	}

	if !t.push(g.name) {
		return nil, &CyclicGroupReferenceError{Cycle: t.cycle(g.name)}
	}
	defer t.pop()

	res := &resolution{}
	js := newPathSet()
	css := newPathSet()

	for _, e := range g.elems {
		switch e.Kind {
		case ElementJS:
			js.add(e.Value)
		case ElementCSS:
			css.add(e.Value)
		case ElementGroupRef:
			ref, ok := m.groups[e.Value]
			if !ok {
				res.err = &GroupNotFoundError{Name: e.Value, From: g.name}
				break
			}
			sub, err := m.resolve(ref, t)
			if err != nil {
				res.err = err
				break
			}
			js.addAll(sub.js)
			css.addAll(sub.css)
		}
		if res.err != nil {
			break
		}
	}

	if res.err == nil {
		res.js = js.list
		res.css = css.list
	}
	g.res = res
	g.resolveCount++
	return res, res.err
}

// ReadModel reads a group descriptor file. Files ending with ".jsonx" are
// read as jsonx series of group declarations; all others as XML.
func ReadModel(f string) (*Model, error) {
	if filepath.Ext(f) == ".jsonx" {
		return readJSONXModel(f)
	}
	return readXMLModel(f)
}
