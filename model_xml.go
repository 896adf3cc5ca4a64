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
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Element names of the XML group descriptor.
const (
	xmlGroups   = "groups"
	xmlGroup    = "group"
	xmlJS       = "js"
	xmlCSS      = "css"
	xmlGroupRef = "group-ref"
)

var xmlElementKinds = map[string]ElementKind{
	xmlJS:       ElementJS,
	xmlCSS:      ElementCSS,
	xmlGroupRef: ElementGroupRef,
}

type xmlParser struct {
	file string
	src  []byte
	dec  *xml.Decoder
}

func (p *xmlParser) pos(offset int64) *lexing.Pos {
	if offset > int64(len(p.src)) {
		offset = int64(len(p.src))
	}
	before := p.src[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := len(before) - bytes.LastIndexByte(before, '\n')
	return &lexing.Pos{File: p.file, Line: line, Col: col}
}

func (p *xmlParser) fail(offset int64, f string, args ...interface{}) error {
	err := &lexing.Error{
		Pos: p.pos(offset),
		Err: fmt.Errorf(f, args...),
	}
	return malformed(p.file, []*lexing.Error{err})
}

// text reads the character data of the element just started, until its
// end. Nested elements are not allowed.
func (p *xmlParser) text(name string) (string, error) {
	var buf bytes.Buffer
	for {
		offset := p.dec.InputOffset()
		tok, err := p.dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", p.fail(offset, "unexpected end in <%s>", name)
			}
			return "", p.fail(offset, "%s", err)
		}
		switch tok := tok.(type) {
		case xml.CharData:
			buf.Write(tok)
		case xml.StartElement:
			return "", p.fail(
				offset, "unexpected <%s> in <%s>", tok.Name.Local, name,
			)
		case xml.EndElement:
			return strings.TrimSpace(buf.String()), nil
		}
	}
}

func groupName(start xml.StartElement) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == "name" {
			return attr.Value, true
		}
	}
	return "", false
}

func (p *xmlParser) parse() (*Model, error) {
	m := newModel(p.file)
	var cur *Group

	for {
		offset := p.dec.InputOffset()
		tok, err := p.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, p.fail(offset, "%s", err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			name := tok.Name.Local
			switch name {
			case xmlGroups:
			case xmlGroup:
				gname, ok := groupName(tok)
				if !ok || gname == "" {
					return nil, p.fail(offset, "group has no name")
				}
				cur = m.declare(gname)
			default:
				kind, ok := xmlElementKinds[name]
				if !ok {
					return nil, p.fail(offset, "unknown element <%s>", name)
				}
				if cur == nil {
					return nil, p.fail(
						offset, "<%s> outside of a group", name,
					)
				}
				v, err := p.text(name)
				if err != nil {
					return nil, err
				}
				cur.add(Element{Kind: kind, Value: v})
			}
		case xml.EndElement:
			if tok.Name.Local == xmlGroup {
				cur = nil
			}
		}
	}
	return m, nil
}

// ParseXMLModel parses an XML group descriptor. The file name is only used
// for error positions.
func ParseXMLModel(file string, r io.Reader) (*Model, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errcode.Annotate(err, "read model")
	}
	p := &xmlParser{
		file: file,
		src:  src,
		dec:  xml.NewDecoder(bytes.NewReader(src)),
	}
	return p.parse()
}

func readXMLModel(f string) (*Model, error) {
	file, err := os.Open(f)
	if err != nil {
		return nil, errcode.Annotatef(err, "open model %q", f)
	}
	defer file.Close()
	return ParseXMLModel(f, file)
}
