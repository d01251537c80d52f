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
	"encoding/binary"

	"github.com/packetd/webwire/wireerr"
)

// Parse decodes a complete frame: the header plus exactly header.Length
// payload bytes. peerMaxFrameSize is the negotiated
// SETTINGS_MAX_FRAME_SIZE; pass 0 to use DefaultMaxFrameSize.
func Parse(header Header, payload []byte, peerMaxFrameSize uint32) (*Frame, error) {
	if peerMaxFrameSize == 0 {
		peerMaxFrameSize = DefaultMaxFrameSize
	}
	if header.Length > peerMaxFrameSize {
		return nil, wireerr.New(subsystem, wireerr.KindBadFrameSize, "frame length %d exceeds max %d", header.Length, peerMaxFrameSize)
	}
	if uint32(len(payload)) != header.Length {
		return nil, wireerr.ErrPartial
	}

	switch header.Kind {
	case KindData:
		return parseData(header, payload)
	case KindHeaders:
		return parseHeaders(header, payload)
	case KindPriority:
		return parsePriority(header, payload)
	case KindResetStream:
		return parseResetStream(header, payload)
	case KindSettings:
		return parseSettings(header, payload)
	case KindPushPromise:
		return parsePushPromise(header, payload)
	case KindPing:
		return parsePing(header, payload)
	case KindGoAway:
		return parseGoAway(header, payload)
	case KindWindowUpdate:
		return parseWindowUpdate(header, payload)
	case KindContinuation:
		return parseContinuation(header, payload)
	default:
		return &Frame{Header: header, Payload: UnknownPayload{Data: payload}}, nil
	}
}

// trimPadding strips PADDED-flag padding from payload for the frame kinds
// that support it (Data, Headers, PushPromise).
func trimPadding(header Header, payload []byte) ([]byte, error) {
	if !header.Flags.Has(FlagPadded) {
		return payload, nil
	}
	if len(payload) == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindTooMuchPadding, "PADDED flag set with empty payload")
	}
	padLen := int(payload[0])
	rest := payload[1:]
	if padLen >= len(rest)+1 {
		return nil, wireerr.New(subsystem, wireerr.KindTooMuchPadding, "pad length %d not less than frame length", padLen)
	}
	if padLen > len(rest) {
		return nil, wireerr.New(subsystem, wireerr.KindTooMuchPadding, "pad length %d exceeds remaining payload", padLen)
	}
	return rest[:len(rest)-padLen], nil
}

func parseData(header Header, payload []byte) (*Frame, error) {
	if header.StreamID == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "DATA frame requires nonzero stream id")
	}
	body, err := trimPadding(header, payload)
	if err != nil {
		return nil, err
	}
	return &Frame{Header: header, Payload: Data{Data: body}}, nil
}

func parseHeaders(header Header, payload []byte) (*Frame, error) {
	if header.StreamID == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "HEADERS frame requires nonzero stream id")
	}
	body, err := trimPadding(header, payload)
	if err != nil {
		return nil, err
	}

	hp := HeadersPayload{}
	if header.Flags.Has(FlagPriority) {
		if len(body) < 5 {
			return nil, wireerr.New(subsystem, wireerr.KindPayloadLengthTooShort, "HEADERS priority fields truncated")
		}
		raw := binary.BigEndian.Uint32(body[:4])
		hp.HasPriority = true
		hp.Exclusive = raw&0x80000000 != 0
		hp.DependencyStreamID = raw & streamIDMask
		hp.Weight = body[4]
		body = body[5:]
	}
	hp.HeaderBlockFragment = body
	return &Frame{Header: header, Payload: hp}, nil
}

func parsePriority(header Header, payload []byte) (*Frame, error) {
	if header.Length != 5 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "PRIORITY frame length must be 5, got %d", header.Length)
	}
	raw := binary.BigEndian.Uint32(payload[:4])
	dep := raw & streamIDMask
	if dep == header.StreamID {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidDependencyID, "PRIORITY frame depends on itself")
	}
	return &Frame{Header: header, Payload: PriorityPayload{
		Exclusive:          raw&0x80000000 != 0,
		DependencyStreamID: dep,
		Weight:             payload[4],
	}}, nil
}

func parseResetStream(header Header, payload []byte) (*Frame, error) {
	if header.Length != 4 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "RST_STREAM frame length must be 4, got %d", header.Length)
	}
	if header.StreamID == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "RST_STREAM frame requires nonzero stream id")
	}
	return &Frame{Header: header, Payload: ResetStream{ErrorCode: binary.BigEndian.Uint32(payload)}}, nil
}

func parseSettings(header Header, payload []byte) (*Frame, error) {
	if header.StreamID != 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "SETTINGS frame requires stream id 0")
	}
	if header.Flags.Has(FlagAck) {
		if header.Length != 0 {
			return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "SETTINGS ACK must carry no payload")
		}
		return &Frame{Header: header, Payload: SettingsPayload{}}, nil
	}
	if header.Length%6 != 0 {
		return nil, wireerr.New(subsystem, wireerr.KindPartialSettingLength, "SETTINGS payload length %d not a multiple of 6", header.Length)
	}
	settings := make([]Setting, 0, len(payload)/6)
	for i := 0; i+6 <= len(payload); i += 6 {
		settings = append(settings, Setting{
			ID:    binary.BigEndian.Uint16(payload[i : i+2]),
			Value: binary.BigEndian.Uint32(payload[i+2 : i+6]),
		})
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return &Frame{Header: header, Payload: SettingsPayload{Settings: settings}}, nil
}

func parsePushPromise(header Header, payload []byte) (*Frame, error) {
	if header.StreamID == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "PUSH_PROMISE frame requires nonzero stream id")
	}
	body, err := trimPadding(header, payload)
	if err != nil {
		return nil, err
	}
	if len(body) < 4 {
		return nil, wireerr.New(subsystem, wireerr.KindPayloadLengthTooShort, "PUSH_PROMISE promised stream id truncated")
	}
	promised := binary.BigEndian.Uint32(body[:4]) & streamIDMask
	return &Frame{Header: header, Payload: PushPromisePayload{
		PromisedStreamID:    promised,
		HeaderBlockFragment: body[4:],
	}}, nil
}

func parsePing(header Header, payload []byte) (*Frame, error) {
	if header.Length != 8 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "PING frame length must be 8, got %d", header.Length)
	}
	if header.StreamID != 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "PING frame requires stream id 0")
	}
	var p Ping
	copy(p.Data[:], payload)
	return &Frame{Header: header, Payload: p}, nil
}

func parseGoAway(header Header, payload []byte) (*Frame, error) {
	if header.Length < 8 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "GOAWAY frame length must be at least 8, got %d", header.Length)
	}
	if header.StreamID != 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "GOAWAY frame requires stream id 0")
	}
	return &Frame{Header: header, Payload: GoAwayPayload{
		LastStreamID: binary.BigEndian.Uint32(payload[:4]) & streamIDMask,
		ErrorCode:    binary.BigEndian.Uint32(payload[4:8]),
		DebugData:    payload[8:],
	}}, nil
}

func parseWindowUpdate(header Header, payload []byte) (*Frame, error) {
	if header.Length != 4 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidPayloadLength, "WINDOW_UPDATE frame length must be 4, got %d", header.Length)
	}
	increment := binary.BigEndian.Uint32(payload) & streamIDMask
	if increment == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidWindowUpdateValue, "WINDOW_UPDATE increment must not be 0")
	}
	return &Frame{Header: header, Payload: WindowUpdate{Increment: increment}}, nil
}

func parseContinuation(header Header, payload []byte) (*Frame, error) {
	if header.StreamID == 0 {
		return nil, wireerr.New(subsystem, wireerr.KindInvalidStreamID, "CONTINUATION frame requires nonzero stream id")
	}
	return &Frame{Header: header, Payload: ContinuationPayload{HeaderBlockFragment: payload}}, nil
}
