/*
Copyright (C) 2026  SQ Contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package server

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePathRejectsTraversal(t *testing.T) {
	cases := []string{"../etc/passwd", "a/b", `a\b`, "..", "foo/../../bar"}
	for _, p := range cases {
		if _, err := ResolvePath("/tmp/tenant", p); err == nil {
			t.Errorf("ResolvePath(%q): expected sandbox violation, got none", p)
		}
	}
}

func TestResolvePathStaysWithinDataDir(t *testing.T) {
	dataDir := "/tmp/tenant-a"
	resolved, err := ResolvePath(dataDir, "myphext")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	absDir, _ := filepath.Abs(dataDir)
	if !strings.HasPrefix(resolved, absDir) {
		t.Fatalf("resolved path %q escapes data dir %q", resolved, absDir)
	}
}

func TestResolvePathWithoutDataDir(t *testing.T) {
	resolved, err := ResolvePath("", "myphext")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if resolved != "myphext.phext" {
		t.Fatalf("got %q", resolved)
	}
}
