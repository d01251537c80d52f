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

// Marshal serializes f into a complete wire frame (9-byte header followed
// by the encoded payload), setting Header.Length from the encoded payload
// size.
func Marshal(f *Frame) ([]byte, error) {
	body, err := marshalPayload(f.Header.Kind, f.Payload)
	if err != nil {
		return nil, err
	}
	f.Header.Length = uint32(len(body))

	out := make([]byte, HeaderLength+len(body))
	PutHeader(out, f.Header)
	copy(out[HeaderLength:], body)
	return out, nil
}

func marshalPayload(kind Kind, payload any) ([]byte, error) {
	switch p := payload.(type) {
	case Data:
		return p.Data, nil
	case HeadersPayload:
		return marshalHeaders(p), nil
	case PriorityPayload:
		return marshalPriority(p), nil
	case ResetStream:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, p.ErrorCode)
		return b, nil
	case SettingsPayload:
		b := make([]byte, 0, len(p.Settings)*6)
		for _, s := range p.Settings {
			var e [6]byte
			binary.BigEndian.PutUint16(e[:2], s.ID)
			binary.BigEndian.PutUint32(e[2:], s.Value)
			b = append(b, e[:]...)
		}
		return b, nil
	case PushPromisePayload:
		b := make([]byte, 4+len(p.HeaderBlockFragment))
		binary.BigEndian.PutUint32(b, p.PromisedStreamID&streamIDMask)
		copy(b[4:], p.HeaderBlockFragment)
		return b, nil
	case Ping:
		b := make([]byte, 8)
		copy(b, p.Data[:])
		return b, nil
	case GoAwayPayload:
		b := make([]byte, 8+len(p.DebugData))
		binary.BigEndian.PutUint32(b[0:4], p.LastStreamID&streamIDMask)
		binary.BigEndian.PutUint32(b[4:8], p.ErrorCode)
		copy(b[8:], p.DebugData)
		return b, nil
	case WindowUpdate:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, p.Increment&streamIDMask)
		return b, nil
	case ContinuationPayload:
		return p.HeaderBlockFragment, nil
	case UnknownPayload:
		return p.Data, nil
	default:
		return nil, wireerr.New(subsystem, wireerr.KindBadKind, "unsupported payload type for kind %d", kind)
	}
}

func marshalHeaders(p HeadersPayload) []byte {
	prefix := 0
	if p.HasPriority {
		prefix = 5
	}
	b := make([]byte, prefix+len(p.HeaderBlockFragment))
	if p.HasPriority {
		dep := p.DependencyStreamID & streamIDMask
		if p.Exclusive {
			dep |= 0x80000000
		}
		binary.BigEndian.PutUint32(b[:4], dep)
		b[4] = p.Weight
	}
	copy(b[prefix:], p.HeaderBlockFragment)
	return b
}

func marshalPriority(p PriorityPayload) []byte {
	b := make([]byte, 5)
	dep := p.DependencyStreamID & streamIDMask
	if p.Exclusive {
		dep |= 0x80000000
	}
	binary.BigEndian.PutUint32(b[:4], dep)
	b[4] = p.Weight
	return b
}
