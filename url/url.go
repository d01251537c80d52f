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

// Package url implements parsing and rendering for the URL grammar
// [scheme "://" [userinfo "@"] host [":" port]] path ["?" query], with
// percent-encoding and default-port assignment/omission.
package url

import (
	"strconv"
	"strings"

	"github.com/packetd/webwire/buffer/ascii"
	"github.com/packetd/webwire/wireerr"
)

const subsystem = "url"

// Scheme is a closed set of known URL schemes plus an Extension escape
// hatch for anything else.
type Scheme struct {
	kind      schemeKind
	extension string
}

type schemeKind int

const (
	SchemeNone schemeKind = iota
	SchemeHTTP
	SchemeHTTPS
	SchemeWS
	SchemeWSS
	SchemeFTP
	SchemeExtension
)

var schemeNames = map[schemeKind]string{
	SchemeNone:  "",
	SchemeHTTP:  "http",
	SchemeHTTPS: "https",
	SchemeWS:    "ws",
	SchemeWSS:   "wss",
	SchemeFTP:   "ftp",
}

// Kind reports the scheme's kind.
func (s Scheme) Kind() schemeKind { return s.kind }

// String returns the scheme's canonical textual form.
func (s Scheme) String() string {
	if s.kind == SchemeExtension {
		return s.extension
	}
	return schemeNames[s.kind]
}

// DefaultPort returns the scheme's default port and whether one exists:
// http/ws 80, https/wss 443, ftp 21.
func (s Scheme) DefaultPort() (uint16, bool) {
	switch s.kind {
	case SchemeHTTP, SchemeWS:
		return 80, true
	case SchemeHTTPS, SchemeWSS:
		return 443, true
	case SchemeFTP:
		return 21, true
	}
	return 0, false
}

func parseScheme(s string) Scheme {
	switch strings.ToLower(s) {
	case "http":
		return Scheme{kind: SchemeHTTP}
	case "https":
		return Scheme{kind: SchemeHTTPS}
	case "ws":
		return Scheme{kind: SchemeWS}
	case "wss":
		return Scheme{kind: SchemeWSS}
	case "ftp":
		return Scheme{kind: SchemeFTP}
	default:
		return Scheme{kind: SchemeExtension, extension: s}
	}
}

// URL holds the parsed or constructed pieces of a request target.
type URL struct {
	Scheme   Scheme
	Username *string
	Password *string
	Domain   *string
	Port     *uint16
	Path     string
	Query    *string
}

// New returns a URL with the default path "/" and no scheme.
func New() *URL {
	path := "/"
	return &URL{Path: path}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Parse scans raw in a single pass: an optional "scheme://" when the first
// byte is alphabetic, a tentative authority segment reclassified as
// userinfo+host when '@' appears, host/port split at the first ':' after
// the host starts (a second ':' before the path is rejected), then path
// until '?' and query to the end.
func Parse(raw []byte) (*URL, error) {
	if len(raw) == 0 {
		return nil, errInvalid("empty url")
	}

	i := 0
	var scheme Scheme
	hasDomain := true
	isFirstSlash := false

	if isAlpha(raw[0]) {
		schemeEnd := ascii.ScanToken(raw)
		if schemeEnd == 0 {
			return nil, errInvalid("empty scheme")
		}
		scheme = parseScheme(string(raw[:schemeEnd]))
		i = schemeEnd
		if i+2 >= len(raw) || raw[i] != ':' || raw[i+1] != '/' || raw[i+2] != '/' {
			return nil, errInvalid("scheme not followed by ://")
		}
		i += 3
	} else if raw[0] == '/' {
		isFirstSlash = true
		hasDomain = false
	} else {
		return nil, errInvalid("url must start with a scheme or '/'")
	}

	segStart := i
	var usernameRaw, passwordRaw, domainRaw, portRaw, pathRaw, queryRaw []byte
	haveUsername, havePassword, haveDomain, havePort, havePath, haveQuery := false, false, false, false, false, false

	for {
		if i >= len(raw) {
			switch {
			case havePath:
				queryRaw, haveQuery = raw[segStart:i], true
			case haveDomain:
				if !isFirstSlash {
					portRaw, havePort = raw[segStart:i], true
				} else {
					pathRaw, havePath = raw[segStart:i], true
				}
			default:
				if hasDomain {
					domainRaw, haveDomain = raw[segStart:i], true
				} else {
					pathRaw, havePath = raw[segStart:i], true
				}
			}
			break
		}

		b := raw[i]
		switch b {
		case ':':
			if !isFirstSlash {
				if haveDomain {
					return nil, errInvalid("unexpected ':' after domain")
				}
				domainRaw, haveDomain = raw[segStart:i], true
				i++
				segStart = i
				continue
			}
		case '@':
			if !haveDomain {
				return nil, errInvalid("unexpected '@' without preceding userinfo")
			}
			usernameRaw, haveUsername = domainRaw, haveDomain
			haveDomain, domainRaw = false, nil
			passwordRaw, havePassword = raw[segStart:i], true
			i++
			segStart = i
			continue
		case '/':
			if !isFirstSlash {
				if !haveDomain {
					domainRaw, haveDomain = raw[segStart:i], true
				} else {
					portRaw, havePort = raw[segStart:i], true
				}
				isFirstSlash = true
				// the leading '/' belongs to the path segment, not the
				// domain/port segment just captured above.
				segStart = i
			}
		case '?':
			if !isFirstSlash && !haveDomain && hasDomain {
				domainRaw, haveDomain = raw[segStart:i], true
			}
			if !havePath {
				pathRaw, havePath = raw[segStart:i], true
				i++
				segStart = i
				continue
			}
		default:
			if !ascii.IsTokenByte(b) && !isURLTokenExtra(b) {
				return nil, errInvalid("invalid byte in url")
			}
		}
		i++
	}

	u := New()
	u.Scheme = scheme

	if haveUsername {
		s, err := percentDecodeSegment(usernameRaw)
		if err != nil {
			return nil, err
		}
		u.Username = &s
	}
	if havePassword {
		s, err := percentDecodeSegment(passwordRaw)
		if err != nil {
			return nil, err
		}
		u.Password = &s
	}
	if haveDomain {
		s, err := percentDecodeSegment(domainRaw)
		if err != nil {
			return nil, err
		}
		u.Domain = &s
	}
	if havePort {
		s, err := percentDecodeSegment(portRaw)
		if err != nil {
			return nil, err
		}
		if s != "" {
			p, perr := strconv.ParseUint(s, 10, 16)
			if perr != nil {
				return nil, errInvalid("invalid port %q", s)
			}
			p16 := uint16(p)
			u.Port = &p16
		}
	}
	if havePath {
		s, err := percentDecodeSegment(pathRaw)
		if err != nil {
			return nil, err
		}
		if s == "" {
			s = "/"
		}
		u.Path = s
	}
	if haveQuery {
		s, err := percentDecodeSegment(queryRaw)
		if err != nil {
			return nil, err
		}
		u.Query = &s
	}

	if u.Port == nil {
		if dp, ok := u.Scheme.DefaultPort(); ok {
			u.Port = &dp
		} else {
			zero := uint16(0)
			u.Port = &zero
		}
	}

	return u, nil
}

// isURLTokenExtra allows the small set of bytes permitted inside
// authority/path/query segments beyond RFC 7230's tchar set, including
// non-ASCII bytes forwarded opaquely.
func isURLTokenExtra(b byte) bool {
	switch {
	case b >= 0x80:
		return true
	}
	switch b {
	case '%', '.', '-', '_', '~', '=', ',', ';':
		return true
	}
	return false
}

// percentDecodeSegment decodes %HH escapes within a single already-sliced
// segment (userinfo/host/path/query).
func percentDecodeSegment(b []byte) (string, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '%' {
			out = append(out, b[i])
			continue
		}
		if i+2 >= len(b) {
			return "", errCodeInvalid("truncated percent escape")
		}
		hi, ok1 := ascii.HexNibble(b[i+1])
		lo, ok2 := ascii.HexNibble(b[i+2])
		if !ok1 || !ok2 {
			return "", errCodeInvalid("invalid percent escape")
		}
		out = append(out, byte(hi)*16+byte(lo))
		i += 2
	}
	return string(out), nil
}

// Merge overwrites each of u's fields with other's where other carries a
// non-default value.
func (u *URL) Merge(other *URL) {
	if other.Scheme.kind != SchemeNone && u.Scheme != other.Scheme {
		u.Scheme = other.Scheme
	}
	if other.Path != "/" && u.Path != other.Path {
		u.Path = other.Path
	}
	if other.Username != nil {
		u.Username = other.Username
	}
	if other.Password != nil {
		u.Password = other.Password
	}
	if other.Domain != nil {
		u.Domain = other.Domain
	}
	if other.Port != nil && *other.Port != 0 {
		u.Port = other.Port
	}
	if other.Query != nil {
		u.Query = other.Query
	}
}

// Encode percent-encodes any byte outside the unreserved set
// (alphanumerics and "-._~&:?/"), emitting uppercase %HH.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ascii.IsUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperHex(c >> 4))
			b.WriteByte(upperHex(c & 0x0f))
		}
	}
	return b.String()
}

func upperHex(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}

// Decode percent-decodes an already-encoded string, returning
// wireerr.KindURLCodeInvalid on a malformed escape.
func Decode(s string) (string, error) {
	return percentDecodeSegment([]byte(s))
}

// Authority renders "domain[:port]", omitting the port when it equals the
// scheme's default.
func (u *URL) Authority() string {
	if u.Domain == nil {
		return ""
	}
	if u.Port == nil || u.Scheme.kind == SchemeNone {
		return *u.Domain
	}
	if dp, ok := u.Scheme.DefaultPort(); ok && dp == *u.Port {
		return *u.Domain
	}
	return *u.Domain + ":" + strconv.Itoa(int(*u.Port))
}

// String renders the URL back into its wire form; the output re-parses to
// an equal URL.
func (u *URL) String() string {
	var b strings.Builder
	if u.Scheme.kind != SchemeNone {
		b.WriteString(u.Scheme.String())
		b.WriteString("://")
	}
	if u.Username != nil || u.Password != nil {
		user, pass := "", ""
		if u.Username != nil {
			user = *u.Username
		}
		if u.Password != nil {
			pass = *u.Password
		}
		b.WriteString(Encode(user))
		b.WriteByte(':')
		b.WriteString(Encode(pass))
		b.WriteByte('@')
	}
	if u.Domain != nil {
		b.WriteString(*u.Domain)
	}
	if u.Scheme.kind != SchemeNone && u.Port != nil {
		if dp, ok := u.Scheme.DefaultPort(); !ok || dp != *u.Port {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(int(*u.Port)))
		}
	}
	b.WriteString(Encode(u.Path))
	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(Encode(*u.Query))
	}
	return b.String()
}

func errInvalid(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindURLInvalid, format, args...)
}

func errCodeInvalid(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindURLCodeInvalid, format, args...)
}
