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

package tenant

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tenants.json")
	dataDir := filepath.Join(dir, "tenant-a")
	writeConfig(t, path, `{"tenants":{"tok-a":{"name":"alpha","data_dir":"`+dataDir+`"}}}`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !r.Configured() {
		t.Fatal("expected Configured() true after Load")
	}
	cfg, ok := r.Lookup("tok-a")
	if !ok || cfg.Name != "alpha" {
		t.Fatalf("got cfg=%+v ok=%v", cfg, ok)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Fatalf("expected data dir to be created: %v", err)
	}
	if _, ok := r.Lookup("unknown"); ok {
		t.Fatal("expected unknown token to miss")
	}
}

func TestUnconfiguredResolverIsOpen(t *testing.T) {
	var r Resolver
	if r.Configured() {
		t.Fatal("zero-value resolver should report unconfigured")
	}
	if _, ok := r.Lookup("anything"); ok {
		t.Fatal("unconfigured resolver should never resolve a token")
	}
}

func TestNilResolverIsUnconfigured(t *testing.T) {
	var r *Resolver
	if r.Configured() {
		t.Fatal("nil resolver should report unconfigured")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tenants.json")
	writeConfig(t, path, `{not valid json`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWatchForChangesReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tenants.json")
	dataDirA := filepath.Join(dir, "a")
	dataDirB := filepath.Join(dir, "b")
	writeConfig(t, path, `{"tenants":{"tok-a":{"name":"alpha","data_dir":"`+dataDirA+`"}}}`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stop, err := r.WatchForChanges(path)
	if err != nil {
		t.Fatalf("WatchForChanges: %v", err)
	}
	defer stop()

	writeConfig(t, path, `{"tenants":{"tok-b":{"name":"beta","data_dir":"`+dataDirB+`"}}}`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := r.Lookup("tok-b"); ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected resolver to pick up reloaded config within timeout")
}
