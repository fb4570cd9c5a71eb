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

// Package tenant implements the multi-tenant resolver (spec §4.H): a
// token->tenant map loaded from JSON, immutable for the life of the
// process except for hot reload driven by fsnotify watching the config
// file on disk (an enrichment over the original single-shot config.rs
// loader, grounded in the teacher's use of fsnotify to watch schema
// directories in storage/).
package tenant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Config is one tenant's entry in the resolver map.
type Config struct {
	Name    string `json:"name"`
	DataDir string `json:"data_dir"`
}

// fileFormat mirrors original_source/src/config.rs's ServerConfig: a
// single JSON object with a "tenants" map keyed by API token.
type fileFormat struct {
	Tenants map[string]Config `json:"tenants"`
}

// Resolver is an immutable (modulo hot reload) token->tenant lookup.
type Resolver struct {
	tenants atomic.Pointer[map[string]Config]
}

// Load reads and parses a tenant config file. Unlike
// original_source/src/router.rs's loader (which rejects the whole
// config on a duplicate token), spec.md's tenant map is keyed by
// token, so the JSON object itself cannot carry duplicate keys; this
// loader instead mkdir -p's every data dir on load (spec §4.H),
// logging and continuing past any one directory's failure rather than
// aborting the whole resolver.
func Load(path string) (*Resolver, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	r := &Resolver{}
	r.install(cfg)
	return r, nil
}

func parseFile(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tenant: read %s: %w", path, err)
	}
	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("tenant: parse %s: %w", path, err)
	}
	return parsed.Tenants, nil
}

func (r *Resolver) install(cfg map[string]Config) {
	for token, t := range cfg {
		if t.DataDir == "" {
			continue
		}
		if err := os.MkdirAll(t.DataDir, 0750); err != nil {
			slog.Warn("tenant: could not create data dir", "token", redactToken(token), "tenant", t.Name, "dir", t.DataDir, "err", err)
		}
	}
	r.tenants.Store(&cfg)
}

// Lookup resolves a bearer token to its tenant config. ok is false if
// no tenant map is configured or the token is unknown.
func (r *Resolver) Lookup(token string) (Config, bool) {
	m := r.tenants.Load()
	if m == nil {
		return Config{}, false
	}
	c, ok := (*m)[token]
	return c, ok
}

// Configured reports whether a tenant map is loaded at all. The server
// treats an unconfigured resolver as "auth is open" (spec §4.G step 4).
func (r *Resolver) Configured() bool {
	if r == nil {
		return false
	}
	m := r.tenants.Load()
	return m != nil
}

// WatchForChanges reloads the resolver whenever path changes on disk,
// logging and keeping the previous map on a parse failure so a bad
// edit never drops live tenants. The returned stop func closes the
// underlying watcher.
func (r *Resolver) WatchForChanges(path string) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tenant: watch %s: %w", path, err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("tenant: watch %s: %w", path, err)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := parseFile(path)
				if err != nil {
					slog.Warn("tenant: reload failed, keeping previous config", "path", path, "err", err)
					continue
				}
				r.install(cfg)
				slog.Info("tenant: config reloaded", "path", path, "tenants", len(cfg))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("tenant: watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
