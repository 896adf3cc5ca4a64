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
)

// ElementKind is the kind of a resource reference.
type ElementKind int

// Kinds of resource references.
const (
	ElementJS ElementKind = iota
	ElementCSS
	ElementGroupRef
)

var elementKindNames = map[ElementKind]string{
	ElementJS:       "js",
	ElementCSS:      "css",
	ElementGroupRef: "group-ref",
}

func (k ElementKind) String() string {
	if s, ok := elementKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// Element is a resource reference inside a group: a javascript file, a
// stylesheet file, or a reference to another group by name. Elements are
// values and never change after construction.
type Element struct {
	Kind  ElementKind
	Value string // file path or group name
}

// JSFile makes a javascript file reference.
func JSFile(p string) Element { return Element{Kind: ElementJS, Value: p} }

// CSSFile makes a stylesheet file reference.
func CSSFile(p string) Element { return Element{Kind: ElementCSS, Value: p} }

// GroupRef makes a reference to the group of the given name. The referenced
// group is looked up when resolving, not when the reference is made.
func GroupRef(name string) Element {
	return Element{Kind: ElementGroupRef, Value: name}
}

func (e Element) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Value)
}
