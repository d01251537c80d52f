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

package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/webwire/buffer"
	"github.com/packetd/webwire/wireerr"
)

func TestReadFrameFromBuffer(t *testing.T) {
	payload := []byte("The quick brown fox jumps over the lazy dog")
	m := buffer.NewMutable()
	defer m.Close()
	m.Write([]byte{0x81, 0x2B})
	m.Write(payload)

	f, err := ReadFrame(m, false)
	require.NoError(t, err)
	assert.True(t, f.Finished)
	assert.Equal(t, OpcodeText, f.Opcode)
	assert.Equal(t, payload, f.Data)
	assert.Equal(t, 0, m.Remaining())
}

func TestReadFrameMaskMismatch(t *testing.T) {
	m := buffer.NewMutable()
	defer m.Close()
	m.Write([]byte{0x81, 0x03, 'a', 'b', 'c'}) // unmasked frame

	_, err := ReadFrame(m, true) // server expects a masked client frame
	require.Error(t, err)
	assert.True(t, wireerr.Is(err, wireerr.KindProtocolError))
}

func TestWriteFrameMaskedRoundTrip(t *testing.T) {
	mask := [4]byte{0x37, 0xfa, 0x21, 0x3d}
	m := buffer.NewMutable()
	defer m.Close()
	in := DataFrame{Finished: true, Opcode: OpcodeText, Data: []byte("Hello")}
	require.NoError(t, WriteFrame(m, in, &mask))

	out, err := ReadFrame(m, true)
	require.NoError(t, err)
	assert.Equal(t, in.Data, out.Data)
	assert.Equal(t, OpcodeText, out.Opcode)
}

func TestReadMessagePartialConsumesNothing(t *testing.T) {
	full := buffer.NewMutable()
	defer full.Close()
	require.NoError(t, WriteFrame(full, DataFrame{Finished: false, Opcode: OpcodeText, Data: []byte("Hel")}, nil))
	require.NoError(t, WriteFrame(full, DataFrame{Finished: true, Opcode: OpcodeContinuation, Data: []byte("lo")}, nil))
	wire := full.Chunk()

	m := buffer.NewMutable()
	defer m.Close()
	// Only the first fragment buffered: the whole read must report Partial
	// and leave the fragment in place.
	m.Write(wire[:5])
	_, err := ReadMessage(m, false)
	require.ErrorIs(t, err, wireerr.ErrPartial)
	assert.Equal(t, 5, m.Remaining())

	m.Write(wire[5:])
	msg, err := ReadMessage(m, false)
	require.NoError(t, err)
	assert.True(t, msg.IsText())
	assert.Equal(t, []byte("Hello"), msg.Data)
	assert.Equal(t, 0, m.Remaining())
}

func TestReadMessageControlFrame(t *testing.T) {
	m := buffer.NewMutable()
	defer m.Close()
	require.NoError(t, WriteFrame(m, DataFrame{Finished: true, Opcode: OpcodePing, Data: []byte("hi")}, nil))

	msg, err := ReadMessage(m, false)
	require.NoError(t, err)
	assert.True(t, msg.IsPing())
	assert.Equal(t, []byte("hi"), msg.Data)
}

func TestWriteMessageCloseWithReason(t *testing.T) {
	m := buffer.NewMutable()
	defer m.Close()
	msg := NewCloseMessageWithReason(CloseNormal, "bye")
	require.NoError(t, WriteMessage(m, msg, nil))

	out, err := ReadMessage(m, false)
	require.NoError(t, err)
	cd, ok := out.CloseData()
	require.True(t, ok)
	assert.Equal(t, CloseNormal, cd.Code)
	assert.Equal(t, "bye", cd.Reason)
}
