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
	"github.com/hashicorp/go-multierror"

	"github.com/packetd/webwire/wireerr"
)

const (
	maxInitialWindowSize uint32 = 1<<31 - 1
	minMaxFrameSize      uint32 = 16384
	maxMaxFrameSize      uint32 = 16777215
)

// SettingsAck builds the empty SETTINGS frame with the ACK flag a peer
// sends after applying a received Settings frame (RFC 7540 §6.5.3).
func SettingsAck() *Frame {
	return &Frame{
		Header:  Header{Kind: KindSettings, Flags: FlagAck},
		Payload: SettingsPayload{},
	}
}

// NewSettings builds an unacknowledged SETTINGS frame carrying settings.
func NewSettings(settings []Setting) *Frame {
	return &Frame{
		Header:  Header{Kind: KindSettings},
		Payload: SettingsPayload{Settings: settings},
	}
}

// NewGoAway builds the GOAWAY frame a caller emits on a connection-level
// protocol violation before aborting the connection.
func NewGoAway(lastStreamID, errorCode uint32, debugData []byte) *Frame {
	return &Frame{
		Header: Header{Kind: KindGoAway},
		Payload: GoAwayPayload{
			LastStreamID: lastStreamID & streamIDMask,
			ErrorCode:    errorCode,
			DebugData:    debugData,
		},
	}
}

// Connection error codes carried by RST_STREAM and GOAWAY (RFC 7540 §7).
const (
	ErrCodeNo                 uint32 = 0x0
	ErrCodeProtocol           uint32 = 0x1
	ErrCodeInternal           uint32 = 0x2
	ErrCodeFlowControl        uint32 = 0x3
	ErrCodeSettingsTimeout    uint32 = 0x4
	ErrCodeStreamClosed       uint32 = 0x5
	ErrCodeFrameSize          uint32 = 0x6
	ErrCodeRefusedStream      uint32 = 0x7
	ErrCodeCancel             uint32 = 0x8
	ErrCodeCompression        uint32 = 0x9
	ErrCodeConnect            uint32 = 0xa
	ErrCodeEnhanceYourCalm    uint32 = 0xb
	ErrCodeInadequateSecurity uint32 = 0xc
	ErrCodeHTTP11Required     uint32 = 0xd
)

// ValidateSettings checks every recognized setting's value range,
// batching every violation found into a single
// *multierror.Error instead of stopping at the first one — useful for a
// diagnostics tool reporting everything wrong with a captured Settings
// frame at once. Unknown ids are ignored, matching the streaming decode
// path in parseSettings.
func ValidateSettings(settings []Setting) error {
	var merr *multierror.Error
	for _, s := range settings {
		if err := validateSetting(s); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

func validateSetting(s Setting) error {
	switch s.ID {
	case SettingEnablePush, SettingEnableConnectProtocol:
		if s.Value > 1 {
			return wireerr.New(subsystem, wireerr.KindInvalidSettingValue, "setting %d must be 0 or 1, got %d", s.ID, s.Value)
		}
	case SettingInitialWindowSize:
		if s.Value > maxInitialWindowSize {
			return wireerr.New(subsystem, wireerr.KindInvalidSettingValue, "initial window size %d exceeds %d", s.Value, maxInitialWindowSize)
		}
	case SettingMaxFrameSize:
		if s.Value < minMaxFrameSize || s.Value > maxMaxFrameSize {
			return wireerr.New(subsystem, wireerr.KindInvalidSettingValue, "max frame size %d out of range [%d, %d]", s.Value, minMaxFrameSize, maxMaxFrameSize)
		}
	case SettingHeaderTableSize, SettingMaxConcurrentStreams, SettingMaxHeaderListSize:
		// unrestricted u32 values.
	default:
		// unknown ids are ignored per RFC 7540 §6.5.2.
	}
	return nil
}
