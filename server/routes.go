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

import "github.com/sqdb/sq/dispatch"

// route describes one entry of the table in spec §6.
type route struct {
	method  string
	path    string
	command dispatch.Command
}

// routes is the REST surface, all under /api/v2/.
var routes = []route{
	{"GET", "/api/v2/load", dispatch.Load},
	{"GET", "/api/v2/select", dispatch.Select},
	{"GET", "/api/v2/status", dispatch.Status},
	{"GET", "/api/v2/checksum", dispatch.Checksum},
	{"GET", "/api/v2/toc", dispatch.TOC},
	{"GET", "/api/v2/get", dispatch.Get},
	{"GET", "/api/v2/version", dispatch.Version},
	{"GET", "/api/v2/json-export", dispatch.JSONExport},
	{"GET", "/api/v2/insert", dispatch.Insert},
	{"POST", "/api/v2/insert", dispatch.Insert},
	{"GET", "/api/v2/update", dispatch.Update},
	{"POST", "/api/v2/update", dispatch.Update},
	{"GET", "/api/v2/delete", dispatch.Delete},
	{"GET", "/api/v2/delta", dispatch.Delta},
	{"POST", "/api/v2/delta", dispatch.Delta},
	{"POST", "/api/v2/where", dispatch.Where},
}

// matchRoute finds the command bound to (method, path), or !ok on miss
// (spec §4.G step 6: "Unknown routes 404").
func matchRoute(method, path string) (dispatch.Command, bool) {
	for _, r := range routes {
		if r.method == method && r.path == path {
			return r.command, true
		}
	}
	return "", false
}
