// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http1

import (
	"strconv"

	"github.com/packetd/webwire/buffer/ascii"
	"github.com/packetd/webwire/httpmsg"
	"github.com/packetd/webwire/wireerr"
)

// findCRLF scans b for the line terminator: "\r" must be followed by "\n",
// but a bare "\n" is also accepted, a deliberate leniency matching common
// practice. Returns the index of the first terminator byte and its width
// (1 for bare LF, 2 for CRLF), or -1 if no terminator is present yet.
func findCRLF(b []byte) (idx int, width int) {
	for i, c := range b {
		switch c {
		case '\n':
			return i, 1
		case '\r':
			if i+1 >= len(b) {
				return -1, 0
			}
			if b[i+1] != '\n' {
				return i, -1 // signals a bare CR not followed by LF
			}
			return i, 2
		}
	}
	return -1, 0
}

// skipLeadingCRLF consumes any number of leading blank lines — RFC 7230
// §3.5 recommends tolerating a leading CRLF some clients send after a
// prior message's body.
func skipLeadingCRLF(b []byte) int {
	i := 0
	for i < len(b) {
		if b[i] == '\n' {
			i++
			continue
		}
		if b[i] == '\r' && i+1 < len(b) && b[i+1] == '\n' {
			i += 2
			continue
		}
		break
	}
	return i
}

// requestLine holds the parsed first line of an HTTP request.
type requestLine struct {
	Method  Method
	Target  string
	Version httpmsg.Version
}

// parseRequestLine parses "METHOD SP TARGET SP VERSION CRLF", returning the
// number of bytes consumed (including the terminator) or wireerr.ErrPartial
// if the line is not yet complete.
func parseRequestLine(b []byte, opt Options) (requestLine, int, error) {
	skip := skipLeadingCRLF(b)
	rest := b[skip:]

	idx, width := findCRLF(rest)
	if idx == -1 {
		if opt.MaxRequestLineBytes > 0 && len(rest) > opt.MaxRequestLineBytes {
			return requestLine{}, 0, errToken("request line exceeds %d bytes", opt.MaxRequestLineBytes)
		}
		return requestLine{}, 0, wireerr.ErrPartial
	}
	if width == -1 {
		return requestLine{}, 0, errNewLine("bare CR not followed by LF")
	}
	line := rest[:idx]

	methodEnd := ascii.ScanToken(line)
	if methodEnd == 0 || methodEnd >= len(line) || line[methodEnd] != ' ' {
		return requestLine{}, 0, errMethod("malformed method token")
	}
	method := ParseMethod(string(line[:methodEnd]))

	targetStart := methodEnd + 1
	sp := indexByte(line[targetStart:], ' ')
	if sp == -1 {
		return requestLine{}, 0, errToken("malformed request line: missing target/version separator")
	}
	target := string(line[targetStart : targetStart+sp])
	if target == "" {
		return requestLine{}, 0, errToken("empty request target")
	}

	versionStart := targetStart + sp + 1
	version, err := parseVersion(line[versionStart:])
	if err != nil {
		return requestLine{}, 0, err
	}

	return requestLine{Method: method, Target: target, Version: version}, skip + idx + width, nil
}

// statusLine holds the parsed first line of an HTTP response.
type statusLine struct {
	Version    httpmsg.Version
	StatusCode int
	Reason     string
}

// parseStatusLine parses "VERSION SP STATUS-CODE SP REASON-PHRASE CRLF".
func parseStatusLine(b []byte, opt Options) (statusLine, int, error) {
	skip := skipLeadingCRLF(b)
	rest := b[skip:]

	idx, width := findCRLF(rest)
	if idx == -1 {
		if opt.MaxRequestLineBytes > 0 && len(rest) > opt.MaxRequestLineBytes {
			return statusLine{}, 0, errStatus("status line exceeds %d bytes", opt.MaxRequestLineBytes)
		}
		return statusLine{}, 0, wireerr.ErrPartial
	}
	if width == -1 {
		return statusLine{}, 0, errNewLine("bare CR not followed by LF")
	}
	line := rest[:idx]

	sp := indexByte(line, ' ')
	if sp == -1 {
		return statusLine{}, 0, errStatus("malformed status line: missing version separator")
	}
	version, err := parseVersion(line[:sp])
	if err != nil {
		return statusLine{}, 0, err
	}

	codeStart := sp + 1
	sp2 := indexByte(line[codeStart:], ' ')
	var codeText, reason string
	if sp2 == -1 {
		codeText = string(line[codeStart:])
	} else {
		codeText = string(line[codeStart : codeStart+sp2])
		reason = string(line[codeStart+sp2+1:])
	}
	if len(codeText) != 3 {
		return statusLine{}, 0, errInvalidStatusCode("status code %q must be exactly 3 digits", codeText)
	}
	code, err := strconv.Atoi(codeText)
	if err != nil || code < 100 || code > 599 {
		return statusLine{}, 0, errInvalidStatusCode("invalid status code %q", codeText)
	}

	return statusLine{Version: version, StatusCode: code, Reason: reason}, skip + idx + width, nil
}

// parseVersion parses the literal "HTTP/1.0" or "HTTP/1.1".
func parseVersion(b []byte) (httpmsg.Version, error) {
	switch string(b) {
	case "HTTP/1.1":
		return httpmsg.Version11, nil
	case "HTTP/1.0":
		return httpmsg.Version10, nil
	default:
		return httpmsg.Version{}, errVersion("unsupported HTTP version %q", string(b))
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
