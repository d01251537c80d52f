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
	"github.com/packetd/webwire/httpmsg"
	"github.com/packetd/webwire/wireerr"
)

// Framing identifies how a message body's length is determined.
type Framing int

const (
	// FramingNone means the message has no body (e.g. a request with
	// neither Transfer-Encoding nor Content-Length).
	FramingNone Framing = iota
	// FramingContentLength means the body is exactly N bytes.
	FramingContentLength
	// FramingChunked means the body is chunk-framed per RFC 7230 §4.1.
	FramingChunked
	// FramingReadToClose means the body runs until the connection
	// closes; only valid for responses.
	FramingReadToClose
)

// DetermineFraming inspects the parsed headers and picks the body framing:
// chunked takes priority over Content-Length, which
// takes priority over "no body" (requests) / "read to close" (responses).
func DetermineFraming(headers *httpmsg.HeaderMap, isRequest bool) (Framing, int64) {
	if headers.IsChunked() {
		return FramingChunked, 0
	}
	if n, ok := headers.ContentLength(); ok {
		return FramingContentLength, n
	}
	if isRequest {
		return FramingNone, 0
	}
	return FramingReadToClose, 0
}

// parseChunkedBody decodes a chunked body per RFC 7230 §4.1.
// It returns the decoded payload (chunk-size/CRLF framing stripped) and
// the number of raw bytes consumed, or wireerr.ErrPartial if the body is
// not yet complete.
func parseChunkedBody(b []byte, maxBodySize int) ([]byte, int, error) {
	var out []byte
	pos := 0

	for {
		idx, width := findCRLF(b[pos:])
		if idx == -1 {
			return nil, 0, wireerr.ErrPartial
		}
		if width == -1 {
			return nil, 0, errNewLine("bare CR not followed by LF in chunk size")
		}
		sizeLine := b[pos : pos+idx]
		// Strip any chunk-ext after ';', per RFC 7230 §4.1.1.
		if semi := indexByte(sizeLine, ';'); semi != -1 {
			sizeLine = sizeLine[:semi]
		}
		size, err := parseHexUint(sizeLine)
		if err != nil {
			return nil, 0, errToken("invalid chunk size: %v", err)
		}
		pos += idx + width

		if size == 0 {
			// last-chunk: optional trailer-section, then a final CRLF.
			for {
				tidx, twidth := findCRLF(b[pos:])
				if tidx == -1 {
					return nil, 0, wireerr.ErrPartial
				}
				if twidth == -1 {
					return nil, 0, errNewLine("bare CR not followed by LF in trailer")
				}
				if tidx == 0 {
					pos += twidth
					return out, pos, nil
				}
				pos += tidx + twidth
			}
		}

		end := pos + int(size)
		if end+2 > len(b) {
			return nil, 0, wireerr.ErrPartial
		}
		if maxBodySize > 0 && len(out)+int(size) > maxBodySize {
			return nil, 0, errToken("chunked body exceeds %d bytes", maxBodySize)
		}
		out = append(out, b[pos:end]...)
		pos = end
		if b[pos] != '\r' || pos+1 >= len(b) || b[pos+1] != '\n' {
			return nil, 0, errNewLine("chunk data not followed by CRLF")
		}
		pos += 2
	}
}

// parseHexUint parses a hexadecimal chunk-size, capped at 16 digits.
func parseHexUint(v []byte) (uint64, error) {
	if len(v) == 0 {
		return 0, errToken("empty chunk size")
	}
	var n uint64
	for i, b := range v {
		var digit uint64
		switch {
		case b >= '0' && b <= '9':
			digit = uint64(b - '0')
		case b >= 'a' && b <= 'f':
			digit = uint64(b-'a') + 10
		case b >= 'A' && b <= 'F':
			digit = uint64(b-'A') + 10
		default:
			return 0, errToken("invalid hex digit %q in chunk size", b)
		}
		if i == 16 {
			return 0, errToken("chunk size too large")
		}
		n = n<<4 | digit
	}
	return n, nil
}
