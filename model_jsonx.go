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
	"strings"

	"shanhu.io/misc/jsonx"
	"shanhu.io/text/lexing"
)

const ruleGroup = "group"

func makeGroupFileNode(t string) interface{} {
	switch t {
	case ruleGroup:
		return new(GroupDecl)
	}
	return nil
}

func readJSONXModel(f string) (*Model, error) {
	decls, errs := jsonx.ReadSeriesFile(f, makeGroupFileNode)
	if errs != nil {
		return nil, malformed(f, errs)
	}

	m := newModel(f)
	errList := lexing.NewErrorList()

	for _, d := range decls {
		decl, ok := d.V.(*GroupDecl)
		if !ok {
			errList.Errorf(d.Pos, "unknown type: %q", d.Type)
			continue
		}
		name := strings.TrimSpace(decl.Name)
		if name == "" {
			errList.Errorf(d.Pos, "group has no name")
			continue
		}

		g := m.declare(name)
		for i, item := range decl.Items {
			if item == nil {
				errList.Errorf(d.Pos, "group %q item %d is empty", name, i)
				continue
			}
			e, ok := item.element()
			if !ok {
				errList.Errorf(
					d.Pos, "group %q item %d must set exactly one of "+
						"JS, CSS and Ref", name, i,
				)
				continue
			}
			g.add(e)
		}
	}

	if errs := errList.Errs(); errs != nil {
		return nil, malformed(f, errs)
	}
	return m, nil
}
