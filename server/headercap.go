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
	"bytes"
	"fmt"
	"net"
	"time"
)

// HeaderCapListener wraps a net.Listener so every accepted connection's
// request header is capped at MaxBytes before net/http ever parses it.
// net/http.Server's own MaxHeaderBytes rejects an oversized header with
// 431, but spec §4.G step 2 / §7 require 400 ("Malformed request
// (header too large, ...): 400, close."). This intercepts the raw
// bytes the same way router/proxy.go's readHTTPHeader does for the
// front-proxy, writes the 400 itself, and closes the connection before
// net/http gets a chance to apply its own 431 response.
type HeaderCapListener struct {
	net.Listener
	MaxBytes int
}

// Accept wraps the underlying listener's Accept, capping the header of
// every returned connection and silently re-accepting past connections
// it has already rejected and closed.
func (l *HeaderCapListener) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}
		wrapped, ok := capHeader(c, l.MaxBytes)
		if !ok {
			continue
		}
		return wrapped, nil
	}
}

// capHeader reads from c until it has buffered a complete header
// ("\r\n\r\n"), an error, or more than max bytes. On overflow it writes
// an explicit 400 response, closes c, and returns ok=false so the
// caller moves on to the next connection. Otherwise it returns a conn
// that replays the buffered bytes before falling through to c's own
// Read, so net/http parses the request normally.
func capHeader(c net.Conn, max int) (net.Conn, bool) {
	_ = c.SetReadDeadline(time.Now().Add(ConnectionTimeout))
	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := c.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if buf.Len() > max {
				writeHeaderTooLarge(c)
				c.Close()
				return nil, false
			}
			if bytes.Contains(buf.Bytes(), []byte("\r\n\r\n")) {
				break
			}
		}
		if err != nil {
			break
		}
	}
	_ = c.SetReadDeadline(time.Time{})
	return &prefaceConn{Conn: c, preface: buf.Bytes()}, true
}

// writeHeaderTooLarge writes a minimal, framing-correct 400 response
// directly to the raw connection, mirroring router/proxy.go's
// sendError for the same "respond then close" shape.
func writeHeaderTooLarge(c net.Conn) {
	body := "request header too large"
	resp := fmt.Sprintf("HTTP/1.1 400 Bad Request\r\nContent-Type: text/plain; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		len(body), body)
	_, _ = c.Write([]byte(resp))
}

// prefaceConn replays already-consumed bytes before delegating further
// reads to the wrapped conn, so the header-capping scan above doesn't
// lose the bytes it had to read in order to find "\r\n\r\n".
type prefaceConn struct {
	net.Conn
	preface []byte
	read    int
}

func (p *prefaceConn) Read(b []byte) (int, error) {
	if p.read < len(p.preface) {
		n := copy(b, p.preface[p.read:])
		p.read += n
		return n, nil
	}
	return p.Conn.Read(b)
}
