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

	"github.com/packetd/webwire/buffer"
	"github.com/packetd/webwire/httpmsg"
)

// ReadRequest parses one request out of r. On success the consumed bytes
// are committed via MarkCommit so a connection buffer can reclaim them; on
// wireerr.ErrPartial nothing is consumed and the caller appends more bytes
// to the same buffer and retries.
func ReadRequest(r buffer.Reader, opt Options) (*httpmsg.Request[[]byte], error) {
	req, n, err := ParseRequest(r.Chunk(), opt)
	if err != nil {
		return nil, err
	}
	if err := r.Advance(n); err != nil {
		return nil, err
	}
	r.MarkCommit()
	return req, nil
}

// ReadResponse parses one response out of r, analogously to ReadRequest.
func ReadResponse(r buffer.Reader, opt Options, atEOF bool) (*httpmsg.Response[[]byte], error) {
	resp, n, err := ParseResponse(r.Chunk(), opt, atEOF)
	if err != nil {
		return nil, err
	}
	if err := r.Advance(n); err != nil {
		return nil, err
	}
	r.MarkCommit()
	return resp, nil
}

// WriteRequest serializes req into w: request line, headers in insertion
// order, blank line, body.
func WriteRequest(w buffer.Writer, req *httpmsg.Request[[]byte]) {
	w.PutSlice([]byte(req.Method))
	w.PutU8(' ')
	w.PutSlice([]byte(req.Target))
	w.PutU8(' ')
	w.PutSlice([]byte(req.Version.String()))
	putCRLF(w)
	writeHeaders(w, req.Header)
	w.PutSlice(req.Body)
}

// WriteResponse serializes resp into w, deriving the reason phrase from
// the status-code table when resp.Reason is empty.
func WriteResponse(w buffer.Writer, resp *httpmsg.Response[[]byte]) {
	reason := resp.Reason
	if reason == "" {
		reason = httpmsg.ReasonPhrase(resp.StatusCode)
	}
	w.PutSlice([]byte(resp.Version.String()))
	w.PutU8(' ')
	w.PutSlice([]byte(strconv.Itoa(resp.StatusCode)))
	w.PutU8(' ')
	w.PutSlice([]byte(reason))
	putCRLF(w)
	writeHeaders(w, resp.Header)
	w.PutSlice(resp.Body)
}

func writeHeaders(w buffer.Writer, headers *httpmsg.HeaderMap) {
	headers.Range(func(name httpmsg.HeaderName, value string) bool {
		w.PutSlice([]byte(name.String()))
		w.PutU8(':')
		w.PutU8(' ')
		w.PutSlice([]byte(value))
		putCRLF(w)
		return true
	})
	putCRLF(w)
}

func putCRLF(w buffer.Writer) {
	w.PutU8('\r')
	w.PutU8('\n')
}
