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

package ascii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"whole token", "GET", 3},
		{"stops at space", "GET /", 3},
		{"stops at colon", "Host:", 4},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScanToken([]byte(tt.input)))
		})
	}
}

func TestHexNibble(t *testing.T) {
	tests := []struct {
		name    string
		in      byte
		want    int8
		wantOK  bool
	}{
		{"digit", '7', 7, true},
		{"lower", 'a', 10, true},
		{"upper", 'F', 15, true},
		{"invalid", 'z', -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := HexNibble(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestIsUnreserved(t *testing.T) {
	assert.True(t, IsUnreserved('a'))
	assert.True(t, IsUnreserved('-'))
	assert.False(t, IsUnreserved('%'))
	assert.False(t, IsUnreserved(' '))
}
