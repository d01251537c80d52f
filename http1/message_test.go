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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/webwire/httpmsg"
	"github.com/packetd/webwire/wireerr"
)

func TestParseRequestMinimalGet(t *testing.T) {
	raw := []byte("GET /index.html HTTP/1.1\r\nHost: example.domain\r\n\r\n")
	req, n, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/index.html", req.Target)
	assert.Equal(t, httpmsg.Version11, req.Version)
	host, ok := req.Header.Get(httpmsg.HeaderHost)
	require.True(t, ok)
	assert.Equal(t, "example.domain", host)
	assert.Empty(t, req.Body)
}

func TestParseRequestPartialThenComplete(t *testing.T) {
	partial := []byte("GET /index.html HTTP/1.1\r\nHost")
	_, _, err := ParseRequest(partial, DefaultOptions())
	require.ErrorIs(t, err, wireerr.ErrPartial)

	full := append(append([]byte{}, partial...), []byte(": x\r\n\r\n")...)
	req, n, err := ParseRequest(full, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(full), n)
	host, _ := req.Header.Get(httpmsg.HeaderHost)
	assert.Equal(t, "x", host)
}

func TestParseRequestContentLengthBody(t *testing.T) {
	raw := []byte("POST /submit HTTP/1.1\r\nHost: a\r\nContent-Length: 5\r\n\r\nhello")
	req, n, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, []byte("hello"), req.Body)
}

func TestParseRequestContentLengthBodyPartial(t *testing.T) {
	raw := []byte("POST /submit HTTP/1.1\r\nHost: a\r\nContent-Length: 5\r\n\r\nhel")
	_, _, err := ParseRequest(raw, DefaultOptions())
	require.ErrorIs(t, err, wireerr.ErrPartial)
}

func TestParseRequestChunkedBody(t *testing.T) {
	raw := []byte("POST /submit HTTP/1.1\r\nHost: a\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n")
	req, n, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, []byte("Wikipedia"), req.Body)
}

func TestParseRequestExtensionMethod(t *testing.T) {
	raw := []byte("FROBNICATE /x HTTP/1.1\r\nHost: a\r\n\r\n")
	req, _, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "FROBNICATE", req.Method)
}

func TestParseRequestBareLFLeniency(t *testing.T) {
	raw := []byte("GET / HTTP/1.1\nHost: a\n\n")
	req, n, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, "GET", req.Method)
}

func TestParseResponseWithContentLength(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi")
	resp, n, err := ParseResponse(raw, DefaultOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason)
	assert.Equal(t, []byte("hi"), resp.Body)
}

func TestParseResponseReadToClose(t *testing.T) {
	raw := []byte("HTTP/1.0 200 OK\r\n\r\nall the rest of the bytes")
	_, _, err := ParseResponse(raw, DefaultOptions(), false)
	require.ErrorIs(t, err, wireerr.ErrPartial)

	resp, n, err := ParseResponse(raw, DefaultOptions(), true)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, []byte("all the rest of the bytes"), resp.Body)
}

func TestParseResponseNoBodyFor204(t *testing.T) {
	raw := []byte("HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n")
	resp, n, err := ParseResponse(raw, DefaultOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Empty(t, resp.Body)
}

func TestParseResponseDerivesReasonWhenAbsent(t *testing.T) {
	raw := []byte("HTTP/1.1 404 \r\nContent-Length: 0\r\n\r\n")
	resp, _, err := ParseResponse(raw, DefaultOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, "Not Found", resp.Reason)
}

func TestIsKeepAlive(t *testing.T) {
	h11Default := httpmsg.NewHeaderMap()
	assert.True(t, IsKeepAlive(httpmsg.Version11, h11Default))

	h11Close := httpmsg.NewHeaderMap()
	h11Close.Add(httpmsg.HeaderConnection, "close")
	assert.False(t, IsKeepAlive(httpmsg.Version11, h11Close))

	h10Default := httpmsg.NewHeaderMap()
	assert.False(t, IsKeepAlive(httpmsg.Version10, h10Default))

	h10Keepalive := httpmsg.NewHeaderMap()
	h10Keepalive.Add(httpmsg.HeaderConnection, "keep-alive")
	assert.True(t, IsKeepAlive(httpmsg.Version10, h10Keepalive))
}

func TestSerializeRequestRoundTrip(t *testing.T) {
	raw := []byte("GET /index.html HTTP/1.1\r\nHost: example.domain\r\n\r\n")
	req, _, err := ParseRequest(raw, DefaultOptions())
	require.NoError(t, err)

	out := SerializeRequest(nil, req)
	req2, n, err := ParseRequest(out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(out), n)
	assert.Equal(t, req.Method, req2.Method)
	assert.Equal(t, req.Target, req2.Target)
}

func TestSerializeResponseRoundTrip(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi")
	resp, _, err := ParseResponse(raw, DefaultOptions(), false)
	require.NoError(t, err)

	out := SerializeResponse(nil, resp)
	resp2, n, err := ParseResponse(out, DefaultOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, len(out), n)
	assert.Equal(t, resp.StatusCode, resp2.StatusCode)
	assert.Equal(t, resp.Body, resp2.Body)
}

func TestParseTargetRelativePath(t *testing.T) {
	u, err := ParseTarget("/search?q=go")
	require.NoError(t, err)
	assert.Equal(t, "/search", u.Path)
	require.NotNil(t, u.Query)
	assert.Equal(t, "q=go", *u.Query)
}

func TestParseTargetAbsoluteURI(t *testing.T) {
	u, err := ParseTarget("http://example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme.String())
	assert.Equal(t, "/path", u.Path)
}
