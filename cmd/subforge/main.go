// Copyright 2020-2021 The Subforge Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command subforge is a thin CLI over the subforge library: parse a file
// and report its errors/warnings, convert between formats, or guess a
// file's format. All the actual work happens in the root package and
// pkg/convert; this binary is argument parsing and file I/O only.
package main

func main() {
	Execute()
}
