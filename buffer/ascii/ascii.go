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

// Package ascii holds the RFC 7230 byte-class tables (token, header-name,
// header-value, hex nibble) shared by the url and http1 packages, exposed
// as a single non-retreating scanner.
package ascii

// tokenTable mirrors RFC 7230 3.2.6's tchar set:
//
//	tchar = "!" / "#" / "$" / "%" / "&" / "'" / "*" / "+" / "-" / "." /
//	        "^" / "_" / "`" / "|" / "~" / DIGIT / ALPHA
var tokenTable [256]bool

// headerValueTable additionally allows horizontal tab and space, per
// RFC 7230 3.2's field-content grammar (obs-text bytes 0x80-0xFF are also
// permitted so proxies can forward opaque Latin-1/binary values unmodified).
var headerValueTable [256]bool

func init() {
	const tchars = "!#$%&'*+-.^_`|~"
	for c := '0'; c <= '9'; c++ {
		tokenTable[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		tokenTable[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		tokenTable[c] = true
	}
	for _, c := range tchars {
		tokenTable[c] = true
	}

	for i := 0; i < 256; i++ {
		headerValueTable[i] = tokenTable[i]
	}
	headerValueTable[' '] = true
	headerValueTable['\t'] = true
	for i := 0x21; i <= 0x7e; i++ {
		headerValueTable[i] = true
	}
	for i := 0x80; i <= 0xff; i++ {
		headerValueTable[i] = true
	}
}

// IsTokenByte reports whether b is a valid RFC 7230 tchar.
func IsTokenByte(b byte) bool {
	return tokenTable[b]
}

// IsHeaderValueByte reports whether b may appear in a header field value.
func IsHeaderValueByte(b byte) bool {
	return headerValueTable[b]
}

// ScanToken returns the length of the longest token prefix of b, stopping
// (without consuming) at the first non-token byte. The scan never retreats:
// callers never need to back up past a byte already classified.
func ScanToken(b []byte) int {
	for i, c := range b {
		if !tokenTable[c] {
			return i
		}
	}
	return len(b)
}

// ScanHeaderValue returns the length of the longest header-value-byte
// prefix of b.
func ScanHeaderValue(b []byte) int {
	for i, c := range b {
		if !headerValueTable[c] {
			return i
		}
	}
	return len(b)
}

// hexVal maps an ASCII hex digit to its nibble value, or -1 if not hex.
var hexVal [256]int8

func init() {
	for i := range hexVal {
		hexVal[i] = -1
	}
	for c := '0'; c <= '9'; c++ {
		hexVal[c] = int8(c - '0')
	}
	for c := 'a'; c <= 'f'; c++ {
		hexVal[c] = int8(c-'a') + 10
	}
	for c := 'A'; c <= 'F'; c++ {
		hexVal[c] = int8(c-'A') + 10
	}
}

// HexNibble returns the value of an ASCII hex digit and whether b was valid
// hex.
func HexNibble(b byte) (int8, bool) {
	v := hexVal[b]
	return v, v >= 0
}

// IsUnreserved reports whether b is in the URL unreserved set:
// alphanumerics plus "-._~&:?/", a permissive superset of RFC 3986's
// unreserved set retained for merge/serialize round-trip parity with
// already-percent-decoded path/query segments.
func IsUnreserved(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	}
	switch b {
	case '-', '.', '_', '~', '&', ':', '?', '/':
		return true
	}
	return false
}
