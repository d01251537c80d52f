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

	"github.com/packetd/webwire/httpmsg"
)

// SerializeRequest appends the wire form of req to dst: the request line,
// each header in insertion order, a blank line, then the body.
func SerializeRequest(dst []byte, req *httpmsg.Request[[]byte]) []byte {
	dst = append(dst, req.Method...)
	dst = append(dst, ' ')
	dst = append(dst, req.Target...)
	dst = append(dst, ' ')
	dst = append(dst, req.Version.String()...)
	dst = append(dst, '\r', '\n')
	dst = appendHeaders(dst, req.Header)
	dst = append(dst, req.Body...)
	return dst
}

// SerializeResponse appends the wire form of resp to dst, deriving the
// reason phrase from the status-code table when resp.Reason is empty.
func SerializeResponse(dst []byte, resp *httpmsg.Response[[]byte]) []byte {
	dst = append(dst, resp.Version.String()...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(resp.StatusCode), 10)
	dst = append(dst, ' ')
	reason := resp.Reason
	if reason == "" {
		reason = httpmsg.ReasonPhrase(resp.StatusCode)
	}
	dst = append(dst, reason...)
	dst = append(dst, '\r', '\n')
	dst = appendHeaders(dst, resp.Header)
	dst = append(dst, resp.Body...)
	return dst
}

func appendHeaders(dst []byte, headers *httpmsg.HeaderMap) []byte {
	headers.Range(func(name httpmsg.HeaderName, value string) bool {
		dst = append(dst, name.String()...)
		dst = append(dst, ':', ' ')
		dst = append(dst, value...)
		dst = append(dst, '\r', '\n')
		return true
	})
	dst = append(dst, '\r', '\n')
	return dst
}
