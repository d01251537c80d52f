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

	"github.com/packetd/webwire/buffer"
	"github.com/packetd/webwire/wireerr"
)

// ReadFrame decodes one WebSocket frame from r. shouldBeMasked asserts the
// peer's masking obligation: a server passes true (clients must mask), a
// client passes false. On success the consumed region is committed via
// MarkCommit; on wireerr.ErrPartial nothing is consumed and the caller
// refills r and retries.
func ReadFrame(r buffer.Reader, shouldBeMasked bool) (DataFrame, error) {
	f, n, err := ParseFrame(r.Chunk())
	if err != nil {
		return DataFrame{}, err
	}
	masked := r.Chunk()[1]&0x80 != 0
	if masked != shouldBeMasked {
		return DataFrame{}, wireerr.New(subsystem, wireerr.KindProtocolError, "frame masking does not match peer role")
	}
	if err := r.Advance(n); err != nil {
		return DataFrame{}, err
	}
	r.MarkCommit()
	return f, nil
}

// WriteFrame serializes f into w through the writer primitives, masking
// the payload with mask when non-nil (a client's obligation under RFC 6455
// §5.3); servers pass mask == nil.
func WriteFrame(w buffer.Writer, f DataFrame, mask *[4]byte) error {
	if f.Opcode.IsControl() && len(f.Data) > maxControlPayload {
		return wireerr.New(subsystem, wireerr.KindProtocolError, "control frame payload exceeds %d bytes", maxControlPayload)
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
	w.PutU8(first)

	var second byte
	if mask != nil {
		second |= 0x80
	}
	n := len(f.Data)
	switch {
	case n <= 125:
		w.PutU8(second | byte(n))
	case n <= 0xffff:
		w.PutU8(second | payloadLen16Bit)
		w.PutU16(uint16(n))
	default:
		w.PutU8(second | payloadLen64Bit)
		w.PutU64(uint64(n))
	}

	if mask == nil {
		w.PutSlice(f.Data)
		return nil
	}
	w.PutSlice(mask[:])
	payload := make([]byte, n)
	copy(payload, f.Data)
	applyMask(payload, *mask)
	w.PutSlice(payload)
	return nil
}

// WriteMessage serializes m as a single finished frame into w, masking it
// when mask is non-nil.
func WriteMessage(w buffer.Writer, m Message, mask *[4]byte) error {
	return WriteFrame(w, m.ToFrame(), mask)
}

// ReadMessage parses frames from r until a message completes (FIN set),
// then assembles them. The read is atomic: bytes are only consumed once a
// whole message is buffered, so wireerr.ErrPartial leaves r untouched for
// a refill-and-retry. A control frame at the start of the buffer is
// returned on its own; a control frame interleaved inside a fragmented
// message is rejected here — a caller that needs RFC 6455 §5.4 interleave
// drives ReadFrame and AssembleMessage itself.
func ReadMessage(r buffer.Reader, shouldBeMasked bool) (Message, error) {
	chunk := r.Chunk()
	var frames []DataFrame
	off := 0
	for {
		f, n, err := ParseFrame(chunk[off:])
		if err != nil {
			return Message{}, err
		}
		if (chunk[off+1]&0x80 != 0) != shouldBeMasked {
			return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "frame masking does not match peer role")
		}
		off += n
		if f.Opcode.IsControl() {
			if len(frames) > 0 {
				return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "control frame interleaved in fragmented message")
			}
			frames = []DataFrame{f}
		} else {
			frames = append(frames, f)
			if !f.Finished {
				continue
			}
		}
		msg, err := AssembleMessage(frames)
		if err != nil {
			return Message{}, err
		}
		if err := r.Advance(off); err != nil {
			return Message{}, err
		}
		r.MarkCommit()
		return msg, nil
	}
}

// PutCloseCode appends a close payload (big-endian status code plus UTF-8
// reason) to dst, the inverse of Message.CloseData.
func PutCloseCode(dst []byte, code CloseCode, reason string) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(code))
	dst = append(dst, b[:]...)
	return append(dst, reason...)
}
