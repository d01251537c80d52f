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
	"github.com/packetd/webwire/url"
	"github.com/packetd/webwire/wireerr"
)

// ParseRequest parses a full HTTP/1.x request (request-line, headers, and
// body) from b, returning the decoded request, the number of bytes
// consumed, and wireerr.ErrPartial if b does not yet hold a complete
// message — the caller refills and retries.
func ParseRequest(b []byte, opt Options) (*httpmsg.Request[[]byte], int, error) {
	rl, n, err := parseRequestLine(b, opt)
	if err != nil {
		return nil, 0, err
	}

	headers, hn, err := parseHeaders(b[n:], opt)
	if err != nil {
		return nil, 0, err
	}
	n += hn

	framing, length := DetermineFraming(headers, true)
	body, bn, err := readBody(b[n:], framing, length, opt.MaxBodySize)
	if err != nil {
		return nil, 0, err
	}
	n += bn

	req := &httpmsg.Request[[]byte]{
		Method:  rl.Method.String(),
		Target:  rl.Target,
		Version: rl.Version,
		Header:  headers,
		Body:    body,
	}
	return req, n, nil
}

// ParseResponse parses a full HTTP/1.x response analogously to ParseRequest.
// A FramingReadToClose response is only considered complete when the
// caller signals end-of-stream via atEOF; until then it returns
// wireerr.ErrPartial so more data can be appended.
func ParseResponse(b []byte, opt Options, atEOF bool) (*httpmsg.Response[[]byte], int, error) {
	sl, n, err := parseStatusLine(b, opt)
	if err != nil {
		return nil, 0, err
	}

	headers, hn, err := parseHeaders(b[n:], opt)
	if err != nil {
		return nil, 0, err
	}
	n += hn

	framing, length := DetermineFraming(headers, false)
	if noResponseBody(sl.StatusCode) {
		framing, length = FramingNone, 0
	}

	var body []byte
	var bn int
	if framing == FramingReadToClose {
		if !atEOF {
			return nil, 0, wireerr.ErrPartial
		}
		body = append([]byte(nil), b[n:]...)
		bn = len(body)
	} else {
		body, bn, err = readBody(b[n:], framing, length, opt.MaxBodySize)
		if err != nil {
			return nil, 0, err
		}
	}
	n += bn

	reason := sl.Reason
	if reason == "" {
		reason = httpmsg.ReasonPhrase(sl.StatusCode)
	}
	resp := &httpmsg.Response[[]byte]{
		Version:    sl.Version,
		StatusCode: sl.StatusCode,
		Reason:     reason,
		Header:     headers,
		Body:       body,
	}
	return resp, n, nil
}

// noResponseBody reports whether status code implies no body regardless of
// framing headers, per RFC 7230 §3.3.3 items 1-2 (1xx, 204, 304).
func noResponseBody(status int) bool {
	if status >= 100 && status < 200 {
		return true
	}
	return status == 204 || status == 304
}

func readBody(b []byte, framing Framing, length int64, maxBodySize int) ([]byte, int, error) {
	switch framing {
	case FramingNone:
		return nil, 0, nil
	case FramingContentLength:
		if maxBodySize > 0 && length > int64(maxBodySize) {
			return nil, 0, errToken("content-length %d exceeds max body size %d", length, maxBodySize)
		}
		if int64(len(b)) < length {
			return nil, 0, wireerr.ErrPartial
		}
		return append([]byte(nil), b[:length]...), int(length), nil
	case FramingChunked:
		return parseChunkedBody(b, maxBodySize)
	default:
		return nil, 0, nil
	}
}

// IsKeepAlive reports whether the connection should remain open after this
// message: HTTP/1.1 defaults to keep-alive unless
// "Connection: close" is present; HTTP/1.0 defaults to close unless
// "Connection: keep-alive" is present.
func IsKeepAlive(version httpmsg.Version, headers *httpmsg.HeaderMap) bool {
	if version == httpmsg.Version11 {
		return !headers.IsConnectionClose()
	}
	if v, ok := headers.Get(httpmsg.HeaderConnection); ok {
		return equalFoldASCII(v, "keep-alive")
	}
	return false
}

func equalFoldASCII(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		a, b := s[i], t[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// ParseTarget parses a request target as an absolute-URI when it begins
// with a scheme, or as a relative path otherwise.
func ParseTarget(target string) (*url.URL, error) {
	if len(target) > 0 && (target[0] == '/' || target[0] == '*') {
		u := url.New()
		if target != "*" {
			if idx := indexByte([]byte(target), '?'); idx != -1 {
				path, err := url.Decode(target[:idx])
				if err != nil {
					return nil, err
				}
				query, err := url.Decode(target[idx+1:])
				if err != nil {
					return nil, err
				}
				u.Path = path
				u.Query = &query
				return u, nil
			}
			path, err := url.Decode(target)
			if err != nil {
				return nil, err
			}
			u.Path = path
		} else {
			u.Path = target
		}
		return u, nil
	}
	return url.Parse([]byte(target))
}
