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
)

func TestAssembleMessageSingleFrame(t *testing.T) {
	frames := []DataFrame{{Finished: true, Opcode: OpcodeText, Data: []byte("hi")}}
	m, err := AssembleMessage(frames)
	require.NoError(t, err)
	assert.True(t, m.IsText())
	assert.True(t, m.IsData())
	assert.False(t, m.IsControl())
	assert.Equal(t, "hi", string(m.Data))
}

func TestAssembleMessageFragmented(t *testing.T) {
	frames := []DataFrame{
		{Finished: false, Opcode: OpcodeText, Data: []byte("hel")},
		{Finished: false, Opcode: OpcodeContinuation, Data: []byte("l")},
		{Finished: true, Opcode: OpcodeContinuation, Data: []byte("o")},
	}
	m, err := AssembleMessage(frames)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(m.Data))
}

func TestAssembleMessageRejectsNonContinuationAfterFirst(t *testing.T) {
	frames := []DataFrame{
		{Finished: false, Opcode: OpcodeText, Data: []byte("a")},
		{Finished: true, Opcode: OpcodeText, Data: []byte("b")},
	}
	_, err := AssembleMessage(frames)
	require.Error(t, err)
}

func TestAssembleMessageRejectsInvalidUTF8(t *testing.T) {
	frames := []DataFrame{{Finished: true, Opcode: OpcodeText, Data: []byte{0xff, 0xfe}}}
	_, err := AssembleMessage(frames)
	require.Error(t, err)
}

func TestMessagePredicates(t *testing.T) {
	assert.True(t, NewPingMessage(nil).IsPing())
	assert.True(t, NewPongMessage(nil).IsPong())
	assert.True(t, NewCloseMessage().IsClose())
	assert.True(t, NewCloseMessage().IsControl())
	assert.True(t, NewBinaryMessage(nil).IsBinary())
}

func TestMessageCloseData(t *testing.T) {
	m := NewCloseMessageWithReason(CloseNormal, "bye")
	cd, ok := m.CloseData()
	require.True(t, ok)
	assert.Equal(t, CloseNormal, cd.Code)
	assert.Equal(t, "bye", cd.Reason)
}

func TestMessageCloseDataAbsentWhenNotClose(t *testing.T) {
	m := NewTextMessage("hi")
	_, ok := m.CloseData()
	assert.False(t, ok)
}

func TestMessageToFrameRoundTrip(t *testing.T) {
	m := NewTextMessage("round trip")
	f := m.ToFrame()
	assert.True(t, f.Finished)
	assert.Equal(t, OpcodeText, f.Opcode)
	assert.Equal(t, []byte("round trip"), f.Data)
}
