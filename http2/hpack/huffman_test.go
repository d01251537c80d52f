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
)

func TestHuffmanDecodeKnownVector(t *testing.T) {
	// RFC 7541 C.4.1's Huffman-coded "www.example.com".
	encoded := []byte{0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff}
	decoded, err := HuffmanDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", string(decoded))
}

func TestHuffmanEncodeDecodeRoundTrip(t *testing.T) {
	samples := []string{
		"",
		"a",
		"www.example.com",
		"no-cache",
		"custom-key",
		"The quick brown fox jumps over the lazy dog 1234567890!",
	}
	for _, s := range samples {
		enc := HuffmanEncode([]byte(s))
		dec, err := HuffmanDecode(enc)
		require.NoError(t, err)
		assert.Equal(t, s, string(dec))
	}
}

func TestHuffmanDecodeInvalidPadding(t *testing.T) {
	// A single octet whose low bits are not all 1 cannot be valid padding.
	_, err := HuffmanDecode([]byte{0x00})
	require.Error(t, err)
}
