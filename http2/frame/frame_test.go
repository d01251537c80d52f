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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/webwire/logger"
	"github.com/packetd/webwire/wireerr"
)

func TestParseHeaderRoundTrip(t *testing.T) {
	h := Header{Length: 42, Kind: KindHeaders, Flags: FlagEndHeaders, StreamID: 13}
	buf := make([]byte, HeaderLength)
	PutHeader(buf, h)
	got, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestParseHeaderPartial(t *testing.T) {
	_, err := ParseHeader([]byte{1, 2, 3})
	require.ErrorIs(t, err, wireerr.ErrPartial)
}

func TestParseSettingsAck(t *testing.T) {
	header := Header{Length: 0, Kind: KindSettings, Flags: FlagAck, StreamID: 0}
	f, err := Parse(header, nil, 0)
	require.NoError(t, err)
	sp, ok := f.Payload.(SettingsPayload)
	require.True(t, ok)
	assert.Empty(t, sp.Settings)
}

func TestParseSettingsEntries(t *testing.T) {
	payload := []byte{
		0x00, 0x03, 0x00, 0x00, 0x00, 0x64, // max-concurrent-streams = 100
		0x00, 0x04, 0x00, 0x0f, 0x00, 0x00, // initial-window-size
	}
	header := Header{Length: uint32(len(payload)), Kind: KindSettings}
	f, err := Parse(header, payload, 0)
	require.NoError(t, err)
	sp := f.Payload.(SettingsPayload)
	require.Len(t, sp.Settings, 2)
	assert.Equal(t, SettingMaxConcurrentStreams, sp.Settings[0].ID)
	assert.Equal(t, uint32(100), sp.Settings[0].Value)
}

func TestParseSettingsRejectsBadLength(t *testing.T) {
	header := Header{Length: 5, Kind: KindSettings}
	_, err := Parse(header, make([]byte, 5), 0)
	require.Error(t, err)
}

func TestParseSettingsRejectsInvalidValue(t *testing.T) {
	payload := []byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x02} // enable-push = 2
	header := Header{Length: uint32(len(payload)), Kind: KindSettings}
	_, err := Parse(header, payload, 0)
	require.Error(t, err)
	// Parse itself never logs; a caller building a connection on top of
	// this package is the one that would report a frame-level protocol
	// violation like this one.
	if err != nil {
		logger.Errorf("rejected SETTINGS frame on stream %d: %v", header.StreamID, err)
	}
}

func TestParseDataWithPadding(t *testing.T) {
	// pad_len=2, 3 bytes of data, 2 bytes of padding.
	payload := []byte{0x02, 'a', 'b', 'c', 0x00, 0x00}
	header := Header{Length: uint32(len(payload)), Kind: KindData, Flags: FlagPadded, StreamID: 1}
	f, err := Parse(header, payload, 0)
	require.NoError(t, err)
	d := f.Payload.(Data)
	assert.Equal(t, []byte("abc"), d.Data)
}

func TestParseDataRequiresStreamID(t *testing.T) {
	header := Header{Length: 3, Kind: KindData, StreamID: 0}
	_, err := Parse(header, []byte("abc"), 0)
	require.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	payload := make([]byte, 5)
	payload[0] = 0x80 // exclusive bit
	payload[1], payload[2], payload[3] = 0, 0, 5
	payload[4] = 16
	header := Header{Length: 5, Kind: KindPriority, StreamID: 3}
	f, err := Parse(header, payload, 0)
	require.NoError(t, err)
	p := f.Payload.(PriorityPayload)
	assert.True(t, p.Exclusive)
	assert.Equal(t, uint32(5), p.DependencyStreamID)
	assert.Equal(t, uint8(16), p.Weight)
}

func TestParsePriorityRejectsSelfDependency(t *testing.T) {
	payload := make([]byte, 5)
	payload[3] = 7
	header := Header{Length: 5, Kind: KindPriority, StreamID: 7}
	_, err := Parse(header, payload, 0)
	require.Error(t, err)
}

func TestParseWindowUpdateRejectsZero(t *testing.T) {
	header := Header{Length: 4, Kind: KindWindowUpdate, StreamID: 1}
	_, err := Parse(header, make([]byte, 4), 0)
	require.Error(t, err)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	f := &Frame{
		Header:  Header{Kind: KindGoAway, StreamID: 0},
		Payload: GoAwayPayload{LastStreamID: 9, ErrorCode: 1, DebugData: []byte("bye")},
	}
	raw, err := Marshal(f)
	require.NoError(t, err)

	header, err := ParseHeader(raw[:HeaderLength])
	require.NoError(t, err)
	got, err := Parse(header, raw[HeaderLength:], 0)
	require.NoError(t, err)
	assert.Equal(t, f.Payload, got.Payload)
}

func TestBadFrameSize(t *testing.T) {
	header := Header{Length: DefaultMaxFrameSize + 1, Kind: KindData, StreamID: 1}
	_, err := Parse(header, make([]byte, header.Length), 0)
	require.Error(t, err)
}
