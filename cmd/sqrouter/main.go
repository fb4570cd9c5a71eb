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

// Command sqrouter is the front-proxy binary (spec §4.I): it listens
// on one public port and forwards each request to the per-tenant sqd
// backend bound to its bearer token.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sqdb/sq/router"
)

func main() {
	var (
		addr = flag.String("addr", "0.0.0.0:443", "public listen address")
	)
	flag.Parse()
	configPath := flag.Arg(0)
	if configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: sqrouter [-addr host:port] <config.json>")
		os.Exit(2)
	}

	fmt.Print(`sq router Copyright (C) 2026  SQ Contributors
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	tenants, err := router.LoadConfig(configPath)
	if err != nil {
		slog.Error("sqrouter: failed to load config", "path", configPath, "err", err)
		os.Exit(1)
	}

	r := router.New(tenants)
	if err := r.Serve(*addr); err != nil {
		slog.Error("sqrouter: server stopped", "err", err)
		os.Exit(1)
	}
}
