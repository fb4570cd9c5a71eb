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

package router

import (
	"os"
	"testing"
)

func TestExtractAuthTokenStripsBearerPrefix(t *testing.T) {
	header := "GET / HTTP/1.1\r\nHost: x\r\nAuthorization: Bearer abc123\r\n\r\n"
	token, ok := extractAuthToken(header)
	if !ok || token != "abc123" {
		t.Fatalf("got %q, %v", token, ok)
	}
}

func TestExtractAuthTokenWithoutBearer(t *testing.T) {
	header := "GET / HTTP/1.1\r\nAuthorization: raw-token\r\n\r\n"
	token, ok := extractAuthToken(header)
	if !ok || token != "raw-token" {
		t.Fatalf("got %q, %v", token, ok)
	}
}

func TestExtractAuthTokenMissing(t *testing.T) {
	header := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	if _, ok := extractAuthToken(header); ok {
		t.Fatal("expected no token")
	}
}

func TestExtractContentLength(t *testing.T) {
	header := "POST / HTTP/1.1\r\nContent-Length: 42\r\n\r\n"
	if got := extractContentLength(header); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestExtractContentLengthDefaultsToZero(t *testing.T) {
	header := "GET / HTTP/1.1\r\n\r\n"
	if got := extractContentLength(header); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestLoadConfigRejectsDuplicateTokens(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/router.json"
	writeFile(t, path, `{"tenants":[{"token":"dup","port":9001,"data_dir":"/a"},{"token":"dup","port":9002,"data_dir":"/b"}]}`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected duplicate-token error")
	}
}

func TestLoadConfigAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/router.json"
	writeFile(t, path, `{"tenants":[{"token":"tok-a","port":9001,"data_dir":"/a"}]}`)

	tenants, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	r := New(tenants)
	port, ok := r.backendPort("tok-a")
	if !ok || port != 9001 {
		t.Fatalf("got port=%d ok=%v", port, ok)
	}
	if _, ok := r.backendPort("missing"); ok {
		t.Fatal("expected unknown token to miss")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
