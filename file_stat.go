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

	"shanhu.io/misc/errcode"
)

type fileStat struct {
	Name         string
	Size         int64
	ModTimestamp int64
	Mode         uint32
}

func newFileStat(f, name string) (*fileStat, error) {
	info, err := os.Lstat(f)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("%s not found", name)
		}
		return nil, err
	}
	return fileStatFromInfo(name, info), nil
}

func fileStatFromInfo(name string, info os.FileInfo) *fileStat {
	return &fileStat{
		Name:         name,
		Size:         info.Size(),
		ModTimestamp: info.ModTime().UnixNano(),
		Mode:         uint32(info.Mode()),
	}
}

func sameFileStat(a, b *fileStat) bool {
	if a == nil || b == nil {
		return a == b
	}
	same := a.Size == b.Size
	same = same && a.ModTimestamp == b.ModTimestamp
	same = same && a.Mode == b.Mode
	return same
}
