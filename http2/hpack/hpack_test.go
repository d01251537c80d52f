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

package hpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/webwire/logger"
)

// TestDecodeBlockFirstRequest is RFC 7541 C.4.1: a Huffman-coded first
// request block referencing static-table entries plus one new literal.
func TestDecodeBlockFirstRequest(t *testing.T) {
	block := []byte{
		0x82, 0x86, 0x84, 0x41, 0x8c,
		0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff,
	}
	dec := NewDecoder(Options{})
	fields, err := dec.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{
		{":method", "GET"},
		{":scheme", "http"},
		{":path", "/"},
		{":authority", "www.example.com"},
	}, fields)
	assert.Equal(t, 1, dec.dyn.Len())
}

// TestDecodeBlockRequestSequence chains RFC 7541 C.4.1 through C.4.3: the
// second and third blocks only decode correctly against the dynamic-table
// state the earlier blocks left behind.
func TestDecodeBlockRequestSequence(t *testing.T) {
	dec := NewDecoder(Options{})

	first := []byte{
		0x82, 0x86, 0x84, 0x41, 0x8c,
		0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff,
	}
	fields, err := dec.DecodeBlock(first)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{
		{":method", "GET"},
		{":scheme", "http"},
		{":path", "/"},
		{":authority", "www.example.com"},
	}, fields)

	second := []byte{
		0x82, 0x86, 0x84, 0xbe, 0x58, 0x86,
		0xa8, 0xeb, 0x10, 0x64, 0x9c, 0xbf,
	}
	fields, err = dec.DecodeBlock(second)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{
		{":method", "GET"},
		{":scheme", "http"},
		{":path", "/"},
		{":authority", "www.example.com"},
		{"cache-control", "no-cache"},
	}, fields)

	third := []byte{
		0x82, 0x87, 0x85, 0xbf, 0x40, 0x88,
		0x25, 0xa8, 0x49, 0xe9, 0x5b, 0xa9, 0x7d, 0x7f,
		0x89, 0x25, 0xa8, 0x49, 0xe9, 0x5b, 0xb8, 0xe8, 0xb4, 0xbf,
	}
	fields, err = dec.DecodeBlock(third)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{
		{":method", "GET"},
		{":scheme", "https"},
		{":path", "/index.html"},
		{":authority", "www.example.com"},
		{"custom-key", "custom-value"},
	}, fields)
	assert.Equal(t, 3, dec.dyn.Len())
}

// TestDecodeBlockLiteralWithoutHuffman is RFC 7541 C.2.1.
func TestDecodeBlockLiteralWithoutHuffman(t *testing.T) {
	block := []byte{
		0x40,
		0x0a, 'c', 'u', 's', 't', 'o', 'm', '-', 'k', 'e', 'y',
		0x0d, 'c', 'u', 's', 't', 'o', 'm', '-', 'h', 'e', 'a', 'd', 'e', 'r',
	}
	dec := NewDecoder(Options{})
	fields, err := dec.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{{"custom-key", "custom-header"}}, fields)
}

func TestDecodeBlockIndexedHeaderFieldZero(t *testing.T) {
	dec := NewDecoder(Options{})
	_, err := dec.DecodeBlock([]byte{0x80})
	require.Error(t, err)
}

func TestDecodeBlockSizeUpdateAfterHeaderIsRejected(t *testing.T) {
	dec := NewDecoder(Options{})
	block := []byte{0x82, 0x20} // indexed :method GET, then a size update
	_, err := dec.DecodeBlock(block)
	require.Error(t, err)
}

func TestDecodeBlockSizeUpdateFirstIsAccepted(t *testing.T) {
	dec := NewDecoder(Options{})
	block := []byte{0x3f, 0x61, 0x82} // size update to 128, then :method GET
	fields, err := dec.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, []HeaderField{{":method", "GET"}}, fields)
	assert.Equal(t, 128, dec.dyn.MaxSize())
}

// TestDecodeBlockSizeUpdateLoggedByCaller demonstrates the call-site
// logging pattern: the decoder itself never logs on its hot path, so a
// caller watching for dynamic-table resizes reads DynamicTableSize after
// each DecodeBlock and logs through logger.
func TestDecodeBlockSizeUpdateLoggedByCaller(t *testing.T) {
	dec := NewDecoder(Options{})
	before := dec.DynamicTableSize()
	block := []byte{0x3f, 0x61, 0x82}
	_, err := dec.DecodeBlock(block)
	require.NoError(t, err)
	after := dec.DynamicTableSize()
	if after != before {
		logger.Infof("hpack dynamic table resized: %d -> %d bytes", before, after)
	}
	assert.Equal(t, 0, before)
	assert.Equal(t, 0, after) // a size update and an indexed field insert nothing into the dynamic table
}

func TestDecodeBlockHeaderListTooBig(t *testing.T) {
	dec := NewDecoder(Options{MaxHeaderListSize: 10})
	block := []byte{
		0x40,
		0x0a, 'c', 'u', 's', 't', 'o', 'm', '-', 'k', 'e', 'y',
		0x0d, 'c', 'u', 's', 't', 'o', 'm', '-', 'h', 'e', 'a', 'd', 'e', 'r',
	}
	_, err := dec.DecodeBlock(block)
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	headers := []HeaderField{
		{":method", "GET"},
		{":scheme", "https"},
		{":path", "/index.html"},
		{":authority", "example.org"},
		{"x-custom", "some-fairly-long-value-to-exercise-huffman-choice"},
	}
	enc := NewEncoder(Options{})
	block := enc.EncodeBlock(headers)

	dec := NewDecoder(Options{})
	got, err := dec.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, headers, got)
}

func TestEncodeDecodeRoundTripReusesDynamicTable(t *testing.T) {
	enc := NewEncoder(Options{})
	dec := NewDecoder(Options{})

	first := []HeaderField{{"x-trace-id", "abc123"}}
	second := []HeaderField{{"x-trace-id", "abc123"}}

	b1 := enc.EncodeBlock(first)
	got1, err := dec.DecodeBlock(b1)
	require.NoError(t, err)
	assert.Equal(t, first, got1)

	b2 := enc.EncodeBlock(second)
	// the second block should be a single indexed byte once entered into
	// both sides' dynamic tables.
	assert.Len(t, b2, 1)
	got2, err := dec.DecodeBlock(b2)
	require.NoError(t, err)
	assert.Equal(t, second, got2)
}
