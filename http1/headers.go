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
	"github.com/packetd/webwire/buffer/ascii"
	"github.com/packetd/webwire/httpmsg"
	"github.com/packetd/webwire/wireerr"
)

// parseHeaders parses zero or more "HEADER-NAME ':' OWS HEADER-VALUE CRLF"
// lines terminated by a blank line. Returns the header
// map and the number of bytes consumed including the terminating blank
// line, or wireerr.ErrPartial if the header block is not yet complete.
func parseHeaders(b []byte, opt Options) (*httpmsg.HeaderMap, int, error) {
	headers := httpmsg.NewHeaderMap()
	pos := 0
	count := 0

	for {
		idx, width := findCRLF(b[pos:])
		if idx == -1 {
			if opt.MaxHeaderBytes > 0 && pos > opt.MaxHeaderBytes {
				return nil, 0, errHeaderValue("header block exceeds %d bytes", opt.MaxHeaderBytes)
			}
			return nil, 0, wireerr.ErrPartial
		}
		if width == -1 {
			return nil, 0, errNewLine("bare CR not followed by LF in header block")
		}

		line := b[pos : pos+idx]
		if len(line) == 0 {
			// Blank line: end of header block.
			return headers, pos + idx + width, nil
		}

		nameEnd := ascii.ScanToken(line)
		if nameEnd == 0 || nameEnd >= len(line) || line[nameEnd] != ':' {
			return nil, 0, errHeaderName("malformed header name in %q", string(line))
		}
		name := string(line[:nameEnd])

		value := line[nameEnd+1:]
		value = trimOWS(value)
		if ascii.ScanHeaderValue(value) != len(value) {
			return nil, 0, errHeaderValue("invalid byte in header value for %q", name)
		}

		count++
		if opt.MaxHeaderCount > 0 && count > opt.MaxHeaderCount {
			return nil, 0, errHeaderName("header count exceeds %d", opt.MaxHeaderCount)
		}
		headers.Add(httpmsg.NewHeaderName(name), string(value))

		pos += idx + width
		if opt.MaxHeaderBytes > 0 && pos > opt.MaxHeaderBytes {
			return nil, 0, errHeaderValue("header block exceeds %d bytes", opt.MaxHeaderBytes)
		}
	}
}

// trimOWS trims the optional leading/trailing whitespace (space or tab)
// RFC 7230 §3.2 permits around a header field value.
func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}
