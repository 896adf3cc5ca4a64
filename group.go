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

// pathSet is an insertion-ordered set of strings. The first occurrence of a
// string decides its position.
type pathSet struct {
	list []string
	m    map[string]bool
}

func newPathSet() *pathSet {
	return &pathSet{m: make(map[string]bool)}
}

func (s *pathSet) add(p string) {
	if s.m[p] {
		return
	}
	s.m[p] = true
	s.list = append(s.list, p)
}

func (s *pathSet) addAll(ps []string) {
	for _, p := range ps {
		s.add(p)
	}
}

type resolution struct {
	js  []string
	css []string
	err error
}

// Group is a named and ordered list of resource references. Its file lists
// are resolved on first read and cached for the life of the group.
type Group struct {
	name  string
	elems []Element
	model *Model

	res *resolution

	// Number of times the file lists were computed. Never more than one.
	resolveCount int
}

// Name returns the name of the group.
func (g *Group) Name() string { return g.name }

// Elements returns a copy of the elements in declaration order.
func (g *Group) Elements() []Element {
	return append([]Element(nil), g.elems...)
}

func (g *Group) add(e Element) { g.elems = append(g.elems, e) }

// JS returns the deduplicated javascript file list of the group, in
// depth-first declaration order with referenced groups inlined.
func (g *Group) JS() ([]string, error) {
	res, err := g.model.resolve(g, newResolveTracer())
	if err != nil {
		return nil, err
	}
	return append([]string(nil), res.js...), nil
}

// CSS returns the deduplicated stylesheet file list of the group, in
// depth-first declaration order with referenced groups inlined.
func (g *Group) CSS() ([]string, error) {
	res, err := g.model.resolve(g, newResolveTracer())
	if err != nil {
		return nil, err
	}
	return append([]string(nil), res.css...), nil
}
