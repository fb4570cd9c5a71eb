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

// Package router implements the front-proxy (spec §4.I): a single
// public listener that reads a bearer token off each incoming request
// and forwards the raw bytes to the backend sqd instance that token is
// bound to. It is a direct descendant of
// original_source/src/router.rs's run_router, rebuilt on net.Listener
// with sync/atomic replacing the Rust RwLock<HashMap> and log/slog
// replacing println!/eprintln!.
package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrentConnections bounds the number of connections the router
// proxies at once, the same ceiling the backend server enforces on
// admission (spec §5), so a connection storm can't outrun the router
// any more than it could outrun a single sqd instance.
const MaxConcurrentConnections = 512

// MaxHeaderSize bounds the buffered request header, matching
// original_source/src/router.rs's MAX_HEADER_SIZE.
const MaxHeaderSize = 16 * 1024

// Timeout bounds every read/write on both the client and backend leg.
const Timeout = 30 * time.Second

// TenantConfig binds one auth token to a backend port and its data dir
// (data dir is carried through for parity with the backend's own
// tenant map; the router itself never touches the filesystem).
type TenantConfig struct {
	Token   string `json:"token"`
	Port    int    `json:"port"`
	DataDir string `json:"data_dir"`
}

// fileFormat mirrors router.rs's RouterConfig.
type fileFormat struct {
	Tenants []TenantConfig `json:"tenants"`
}

// Router holds the token->backend-port table, hot-swappable via
// atomic.Pointer the same way tenant.Resolver swaps its map.
type Router struct {
	ports atomic.Pointer[map[string]int]
}

// LoadConfig parses a router config file, rejecting duplicate tokens
// up front exactly as router.rs's load_router_config does.
func LoadConfig(path string) ([]TenantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("router: read %s: %w", path, err)
	}
	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("router: parse %s: %w", path, err)
	}
	seen := make(map[string]bool, len(parsed.Tenants))
	for _, t := range parsed.Tenants {
		if seen[t.Token] {
			return nil, fmt.Errorf("router: duplicate token in config: %s", t.Token)
		}
		seen[t.Token] = true
	}
	return parsed.Tenants, nil
}

// New builds a Router from a parsed tenant list.
func New(tenants []TenantConfig) *Router {
	r := &Router{}
	m := make(map[string]int, len(tenants))
	for _, t := range tenants {
		m[t.Token] = t.Port
	}
	r.ports.Store(&m)
	return r
}

// Reload atomically swaps in a new tenant list.
func (r *Router) Reload(tenants []TenantConfig) {
	m := make(map[string]int, len(tenants))
	for _, t := range tenants {
		m[t.Token] = t.Port
	}
	r.ports.Store(&m)
}

// backendPort resolves a token to its backend port.
func (r *Router) backendPort(token string) (int, bool) {
	m := r.ports.Load()
	if m == nil {
		return 0, false
	}
	p, ok := (*m)[token]
	return p, ok
}

// Count reports how many tenants are currently routed.
func (r *Router) Count() int {
	m := r.ports.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// Serve accepts connections on listenAddr and proxies each to its
// token's backend. It returns only if listening fails; accept errors
// are logged and the loop keeps accepting.
func (r *Router) Serve(listenAddr string) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("router: listen %s: %w", listenAddr, err)
	}
	defer ln.Close()

	slog.Info("router: listening", "addr", listenAddr, "tenants", r.Count())

	var g errgroup.Group
	g.SetLimit(MaxConcurrentConnections)

	var connID uint64
	for {
		conn, err := ln.Accept()
		if err != nil {
			slog.Warn("router: accept error", "err", err)
			continue
		}
		connID++
		id := connID
		g.Go(func() error {
			r.handle(conn, id)
			return nil
		})
	}
}

func (r *Router) handle(conn net.Conn, connID uint64) {
	defer conn.Close()
	log := slog.With("conn", connID, "remote", conn.RemoteAddr().String())

	_ = conn.SetDeadline(time.Now().Add(Timeout))

	header, err := readHTTPHeader(conn)
	if err != nil {
		log.Warn("router: failed to read header", "err", err)
		sendError(conn, 400, "Bad Request")
		return
	}

	token, ok := extractAuthToken(header)
	if !ok {
		log.Warn("router: no Authorization header")
		sendError(conn, 401, "Unauthorized - No token provided")
		return
	}

	port, ok := r.backendPort(token)
	if !ok {
		log.Warn("router: invalid token", "token", redactToken(token))
		sendError(conn, 401, "Unauthorized - Invalid token")
		return
	}

	log.Info("router: routing", "backend_port", port)
	if err := proxyRequest(conn, port, header); err != nil {
		log.Warn("router: proxy error", "err", err)
		sendError(conn, 502, "Bad Gateway")
	}
}

func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
