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
	"errors"
	"path/filepath"
	"strings"
)

// ErrSandboxViolation is returned by ResolvePath when p escapes the
// tenant's data directory (spec §4.G step 5 / §8 property 6).
var ErrSandboxViolation = errors.New("server: sandbox violation")

// ResolvePath turns the query parameter p (a phext name) into the file
// path it names, sandboxed beneath dataDir when one is configured.
// p must not contain "..", "/" or "\" — any of those is rejected
// outright, regardless of where dataDir would ultimately place the
// result, matching spec §4.G step 5's literal wording rather than
// relying solely on a post-hoc path comparison.
func ResolvePath(dataDir, p string) (string, error) {
	if strings.Contains(p, "..") || strings.ContainsAny(p, "/\\") {
		return "", ErrSandboxViolation
	}
	if dataDir == "" {
		return p + ".phext", nil
	}
	resolved := filepath.Join(dataDir, p+".phext")
	// belt-and-braces: confirm the resolved path still lies within
	// dataDir once symlink-free joining and cleaning is accounted for.
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", ErrSandboxViolation
	}
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return "", ErrSandboxViolation
	}
	if absResolved != absDir && !strings.HasPrefix(absResolved, absDir+string(filepath.Separator)) {
		return "", ErrSandboxViolation
	}
	return resolved, nil
}
