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

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonx"
)

// Config provides the configuration of a build pass.
type Config struct {
	Src    string // Source directory; resolved paths are rooted here.
	Out    string // Default output directory.
	JSOut  string `json:",omitempty"` // Output directory of js bundles.
	CSSOut string `json:",omitempty"` // Output directory of css bundles.

	// Group descriptor file, XML or jsonx.
	Model string

	// Optional project descriptor file. A change to it, like a change to
	// the group descriptor, regenerates all targets.
	Descriptor string `json:",omitempty"`

	// Comma separated names of the groups to build.
	Targets string

	// File that keeps the source tree snapshot between passes.
	Snapshot string `json:",omitempty"`

	Layout *Layout `json:",omitempty"`
}

// TargetList returns the names of the target groups, in order.
func (c *Config) TargetList() []string {
	return ParseTargets(c.Targets)
}

// ParseTargets splits a comma separated target list. Names are trimmed and
// empty names are dropped.
func ParseTargets(s string) []string {
	var ret []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		ret = append(ret, t)
	}
	return ret
}

// ReadConfig reads a build configuration in jsonx format.
func ReadConfig(f string) (*Config, error) {
	c := new(Config)
	if err := jsonx.ReadFile(f, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Params provides named parameter values of a build, such as plugin
// configuration entries in a host build tool.
type Params interface {
	Param(name string) (string, bool)
}

// MapParams is a Params backed by a map.
type MapParams map[string]string

// Param returns the value of the parameter of the given name.
func (m MapParams) Param(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Parameter names understood by ConfigFromParams.
const (
	ParamSrc        = "contextFolder"
	ParamOut        = "destinationFolder"
	ParamJSOut      = "jsDestinationFolder"
	ParamCSSOut     = "cssDestinationFolder"
	ParamTargets    = "targetGroups"
	ParamModel      = "wroFile"
	ParamDescriptor = "descriptor"
	ParamSnapshot   = "snapshot"
)

// ConfigFromParams builds a configuration from named parameters. The source
// folder, the model file and the target groups are required.
func ConfigFromParams(p Params) (*Config, error) {
	c := new(Config)
	fields := []struct {
		name     string
		v        *string
		required bool
	}{
		{ParamSrc, &c.Src, true},
		{ParamOut, &c.Out, false},
		{ParamJSOut, &c.JSOut, false},
		{ParamCSSOut, &c.CSSOut, false},
		{ParamTargets, &c.Targets, true},
		{ParamModel, &c.Model, true},
		{ParamDescriptor, &c.Descriptor, false},
		{ParamSnapshot, &c.Snapshot, false},
	}
	for _, f := range fields {
		v, ok := p.Param(f.name)
		if !ok && f.required {
			return nil, errcode.InvalidArgf("parameter %q missing", f.name)
		}
		*f.v = v
	}
	return c, nil
}
