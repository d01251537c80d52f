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
	"encoding/binary"
	"unicode/utf8"

	"github.com/packetd/webwire/wireerr"
)

const (
	payloadLen16Bit = 126
	payloadLen64Bit = 127
)

// ParseFrame decodes a single WebSocket frame from b, returning the frame
// and the number of bytes consumed. If b does not yet hold a complete
// frame, it returns wireerr.ErrPartial so the caller can refill and retry,
// matching the resumable-parse contract used throughout this module.
func ParseFrame(b []byte) (DataFrame, int, error) {
	if len(b) < 2 {
		return DataFrame{}, 0, wireerr.ErrPartial
	}

	first, second := b[0], b[1]
	f := DataFrame{
		Finished: first&0x80 != 0,
		RSV1:     first&0x40 != 0,
		RSV2:     first&0x20 != 0,
		RSV3:     first&0x10 != 0,
		Opcode:   Opcode(first & 0x0f),
	}
	if !isKnownOpcode(f.Opcode) {
		return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindDataFrameError, "unknown opcode 0x%x", f.Opcode)
	}
	if f.reservedSet() {
		return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindProtocolError, "reserved bits must be zero")
	}
	if f.Opcode.IsControl() && !f.Finished {
		return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindProtocolError, "control frames must not be fragmented")
	}

	masked := second&0x80 != 0
	payloadLen := uint64(second & 0x7f)

	off := 2
	switch payloadLen {
	case payloadLen16Bit:
		if len(b) < off+2 {
			return DataFrame{}, 0, wireerr.ErrPartial
		}
		payloadLen = uint64(binary.BigEndian.Uint16(b[off:]))
		if payloadLen <= 125 {
			return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindDataFrameError, "16-bit length %d must exceed 125", payloadLen)
		}
		off += 2
	case payloadLen64Bit:
		if len(b) < off+8 {
			return DataFrame{}, 0, wireerr.ErrPartial
		}
		payloadLen = binary.BigEndian.Uint64(b[off:])
		if payloadLen&(1<<63) != 0 {
			return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindProtocolError, "payload length high bit must be zero")
		}
		if payloadLen <= 0xffff {
			return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindDataFrameError, "64-bit length %d must exceed 65535", payloadLen)
		}
		off += 8
	}

	if f.Opcode.IsControl() && payloadLen > maxControlPayload {
		return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindProtocolError, "control frame payload exceeds %d bytes", maxControlPayload)
	}

	var mask [4]byte
	if masked {
		if len(b) < off+4 {
			return DataFrame{}, 0, wireerr.ErrPartial
		}
		copy(mask[:], b[off:off+4])
		off += 4
	}

	total := off + int(payloadLen)
	if len(b) < total {
		return DataFrame{}, 0, wireerr.ErrPartial
	}

	data := make([]byte, payloadLen)
	copy(data, b[off:total])
	if masked {
		applyMask(data, mask)
	}
	f.Data = data

	if f.Opcode == OpcodeText && f.Finished && !utf8.Valid(data) {
		return DataFrame{}, 0, wireerr.New(subsystem, wireerr.KindProtocolError, "text frame payload is not valid UTF-8")
	}

	return f, total, nil
}

// PutFrame appends f's wire encoding to dst. When mask is non-nil, the
// payload is masked with it and the MASK bit is set, matching a client's
// obligation under RFC 6455 §5.3; servers pass mask == nil.
func PutFrame(dst []byte, f DataFrame, mask *[4]byte) ([]byte, error) {
	if f.Opcode.IsControl() && len(f.Data) > maxControlPayload {
		return nil, wireerr.New(subsystem, wireerr.KindProtocolError, "control frame payload exceeds %d bytes", maxControlPayload)
	}

	var first byte
	if f.Finished {
		first |= 0x80
	}
	if f.RSV1 {
		first |= 0x40
	}
	if f.RSV2 {
		first |= 0x20
	}
	if f.RSV3 {
		first |= 0x10
	}
	first |= byte(f.Opcode) & 0x0f

	var second byte
	if mask != nil {
		second |= 0x80
	}

	n := len(f.Data)
	switch {
	case n <= 125:
		second |= byte(n)
		dst = append(dst, first, second)
	case n <= 0xffff:
		second |= payloadLen16Bit
		dst = append(dst, first, second)
		var ext [2]byte
		binary.BigEndian.PutUint16(ext[:], uint16(n))
		dst = append(dst, ext[:]...)
	default:
		second |= payloadLen64Bit
		dst = append(dst, first, second)
		var ext [8]byte
		binary.BigEndian.PutUint64(ext[:], uint64(n))
		dst = append(dst, ext[:]...)
	}

	if mask != nil {
		dst = append(dst, mask[:]...)
		payload := make([]byte, n)
		copy(payload, f.Data)
		applyMask(payload, *mask)
		dst = append(dst, payload...)
	} else {
		dst = append(dst, f.Data...)
	}
	return dst, nil
}
