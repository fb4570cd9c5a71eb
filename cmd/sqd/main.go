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

// Command sqd is the REST daemon: one Engine behind an http.Server,
// optionally fronted by a multi-tenant token map (spec §4.G/§4.H).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dc0d/onexit"

	"github.com/sqdb/sq/server"
	"github.com/sqdb/sq/tenant"
)

func main() {
	var (
		addr       = flag.String("addr", "0.0.0.0:1337", "listen address")
		dataDir    = flag.String("data-dir", ".", "sandbox root when no tenant map resolves one")
		key        = flag.String("key", "", "static bearer token required when no -tenants map is given")
		tenantsCfg = flag.String("tenants", "", "path to a tenant config JSON file (enables multi-tenant auth)")
	)
	flag.Parse()

	fmt.Print(`sq Copyright (C) 2026  SQ Contributors
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	var resolver *tenant.Resolver
	if *tenantsCfg != "" {
		r, err := tenant.Load(*tenantsCfg)
		if err != nil {
			slog.Error("sqd: failed to load tenant config", "path", *tenantsCfg, "err", err)
			os.Exit(1)
		}
		resolver = r
		if stop, err := r.WatchForChanges(*tenantsCfg); err != nil {
			slog.Warn("sqd: tenant config hot-reload disabled", "err", err)
		} else {
			onexit.Register(func() { stop() })
		}
	} else {
		resolver = &tenant.Resolver{}
	}

	engine := server.NewEngine()
	srv := server.NewServer(engine, resolver, *key, *dataDir)

	httpServer := &http.Server{
		Addr:           *addr,
		Handler:        srv,
		ReadTimeout:    server.ConnectionTimeout,
		WriteTimeout:   server.ConnectionTimeout,
		MaxHeaderBytes: server.MaxHeaderBytes,
	}
	srv.OnShutdown = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}

	onexit.Register(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("sqd: shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		slog.Error("sqd: failed to listen", "addr", *addr, "err", err)
		os.Exit(1)
	}
	capped := &server.HeaderCapListener{Listener: ln, MaxBytes: server.MaxHeaderBytes}

	slog.Info("sqd: listening", "addr", *addr, "data_dir", *dataDir, "multi_tenant", *tenantsCfg != "")
	if err := httpServer.Serve(capped); err != nil && err != http.ErrServerClosed {
		slog.Error("sqd: server stopped", "err", err)
		os.Exit(1)
	}
}
