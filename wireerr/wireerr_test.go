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

package wireerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndIs(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"token", KindToken},
		{"header name", KindHeaderName},
		{"hpack integer too large", KindIntegerValueTooLarge},
		{"ws protocol error", KindProtocolError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("http1", tt.kind, "boom %d", 1)
			assert.True(t, Is(err, tt.kind))
			assert.False(t, Is(err, KindUnknown))
			assert.Contains(t, err.Error(), "boom 1")
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := New("buffer", KindShort, "not enough bytes")
	wrapped := Wrap("http2/frame", KindShort, base, "reading frame header")
	assert.True(t, Is(wrapped, KindShort))
	assert.Contains(t, wrapped.Error(), "reading frame header")
}

func TestErrPartialIsSingleton(t *testing.T) {
	assert.True(t, Is(ErrPartial, Partial))
	assert.Equal(t, "partial", Partial.String())
}
