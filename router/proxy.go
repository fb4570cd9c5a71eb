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
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// readHTTPHeader reads from conn up to and including the first
// "\r\n\r\n", the same scan original_source/src/router.rs's
// read_http_header performs, bounded by MaxHeaderSize.
func readHTTPHeader(conn net.Conn) (string, error) {
	buf := make([]byte, MaxHeaderSize)
	total := 0
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			if total+n > MaxHeaderSize {
				return "", fmt.Errorf("router: header too large")
			}
			total += copy(buf[total:], chunk[:n])
			if idx := strings.Index(string(buf[:total]), "\r\n\r\n"); idx >= 0 {
				return string(buf[:idx+4]), nil
			}
		}
		if err != nil {
			return "", fmt.Errorf("router: connection closed before header complete: %w", err)
		}
	}
}

// extractAuthToken pulls the bearer token out of a raw header blob,
// exactly as router.rs's extract_auth_token does: a case-insensitive
// line-by-line scan for "authorization:", stripping a "Bearer " prefix.
func extractAuthToken(header string) (string, bool) {
	for _, line := range strings.Split(header, "\r\n") {
		if !strings.HasPrefix(strings.ToLower(line), "authorization:") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		if strings.HasPrefix(strings.ToLower(value), "bearer ") {
			return strings.TrimSpace(value[7:]), true
		}
		return value, true
	}
	return "", false
}

// extractContentLength mirrors router.rs's extract_content_length.
func extractContentLength(header string) int {
	for _, line := range strings.Split(header, "\r\n") {
		if !strings.HasPrefix(strings.ToLower(line), "content-length:") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// proxyRequest forwards header and exactly Content-Length body bytes
// from client to the backend on 127.0.0.1:port, then streams the
// backend's response back to client until EOF.
func proxyRequest(client net.Conn, port int, header string) error {
	backend, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), Timeout)
	if err != nil {
		return fmt.Errorf("router: dial backend: %w", err)
	}
	defer backend.Close()
	_ = backend.SetDeadline(time.Now().Add(Timeout))

	if _, err := backend.Write([]byte(header)); err != nil {
		return fmt.Errorf("router: forward header: %w", err)
	}

	if remaining := extractContentLength(header); remaining > 0 {
		if _, err := io.CopyN(backend, client, int64(remaining)); err != nil {
			return fmt.Errorf("router: forward body: %w", err)
		}
	}

	if _, err := io.Copy(client, backend); err != nil && err != io.EOF {
		return fmt.Errorf("router: forward response: %w", err)
	}
	return nil
}

// sendError writes a minimal JSON error response directly to conn,
// mirroring router.rs's send_error.
func sendError(conn net.Conn, code int, message string) {
	reason := map[int]string{
		400: "Bad Request",
		401: "Unauthorized",
		404: "Not Found",
		500: "Internal Server Error",
		502: "Bad Gateway",
	}[code]
	if reason == "" {
		reason = "Error"
	}
	body := fmt.Sprintf(`{"error": %q}`, message)
	response := fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%s",
		code, reason, len(body), body)
	_, _ = conn.Write([]byte(response))
}
