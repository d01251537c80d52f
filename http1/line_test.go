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

func TestParseRequestLineBasic(t *testing.T) {
	rl, n, err := parseRequestLine([]byte("GET /a HTTP/1.1\r\nmore"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, "GET", rl.Method.String())
	assert.Equal(t, "/a", rl.Target)
	assert.Equal(t, httpmsg.Version11, rl.Version)
}

func TestParseRequestLineSkipsLeadingBlankLines(t *testing.T) {
	rl, _, err := parseRequestLine([]byte("\r\n\r\nGET / HTTP/1.1\r\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "GET", rl.Method.String())
}

func TestParseRequestLineRejectsBareCR(t *testing.T) {
	_, _, err := parseRequestLine([]byte("GET / HTTP/1.1\rX"), DefaultOptions())
	require.Error(t, err)
	assert.NotErrorIs(t, err, wireerr.ErrPartial)
}

func TestParseRequestLineRejectsUnsupportedVersion(t *testing.T) {
	_, _, err := parseRequestLine([]byte("GET / HTTP/2.0\r\n"), DefaultOptions())
	require.Error(t, err)
}

func TestParseStatusLineBasic(t *testing.T) {
	sl, n, err := parseStatusLine([]byte("HTTP/1.1 200 OK\r\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, 200, sl.StatusCode)
	assert.Equal(t, "OK", sl.Reason)
}

func TestParseHeadersBasic(t *testing.T) {
	headers, n, err := parseHeaders([]byte("Host: a\r\nX-Test:  spaced  \r\n\r\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	host, _ := headers.Get(httpmsg.HeaderHost)
	assert.Equal(t, "a", host)
	x, _ := headers.Get(httpmsg.NewHeaderName("X-Test"))
	assert.Equal(t, "spaced", x)
}

func TestParseHeadersPartial(t *testing.T) {
	_, _, err := parseHeaders([]byte("Host: a\r\nX-T"), DefaultOptions())
	require.ErrorIs(t, err, wireerr.ErrPartial)
}

func TestParseHeadersRejectsMalformedName(t *testing.T) {
	_, _, err := parseHeaders([]byte("Ho st: a\r\n\r\n"), DefaultOptions())
	require.Error(t, err)
}

func TestParseHeadersRepeatedNamesPreserveOrder(t *testing.T) {
	headers, _, err := parseHeaders([]byte("Set-Cookie: a=1\r\nSet-Cookie: b=2\r\n\r\n"), DefaultOptions())
	require.NoError(t, err)
	vals := headers.Values(httpmsg.HeaderSetCookie)
	assert.Equal(t, []string{"a=1", "b=2"}, vals)
}
