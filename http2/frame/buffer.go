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
	"github.com/packetd/webwire/buffer"
	"github.com/packetd/webwire/wireerr"
)

// ReadHeader decodes a frame header from r, consuming exactly HeaderLength
// bytes. When fewer bytes are buffered it returns wireerr.ErrPartial
// without consuming anything, so the caller can refill r and retry.
func ReadHeader(r buffer.Reader) (Header, error) {
	raw, err := r.Peek(HeaderLength)
	if err != nil {
		return Header{}, err
	}
	h, err := ParseHeader(raw)
	if err != nil {
		return Header{}, err
	}
	if err := r.Advance(HeaderLength); err != nil {
		return Header{}, err
	}
	return h, nil
}

// ReadFrame decodes one complete frame (header plus payload) from r. On
// success the consumed region is committed via MarkCommit so a long-lived
// connection buffer can reclaim it; on wireerr.ErrPartial nothing is
// consumed. The payload bytes are copied out of r, so the returned Frame
// stays valid after the buffer is refilled.
func ReadFrame(r buffer.Reader, peerMaxFrameSize uint32) (*Frame, error) {
	raw, err := r.Peek(HeaderLength)
	if err != nil {
		return nil, err
	}
	h, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	if peerMaxFrameSize == 0 {
		peerMaxFrameSize = DefaultMaxFrameSize
	}
	if h.Length > peerMaxFrameSize {
		return nil, wireerr.New(subsystem, wireerr.KindBadFrameSize, "frame length %d exceeds max %d", h.Length, peerMaxFrameSize)
	}

	total := HeaderLength + int(h.Length)
	whole, err := r.Peek(total)
	if err != nil {
		return nil, err
	}
	payload := append([]byte(nil), whole[HeaderLength:]...)

	f, err := Parse(h, payload, peerMaxFrameSize)
	if err != nil {
		return nil, err
	}
	if err := r.Advance(total); err != nil {
		return nil, err
	}
	r.MarkCommit()
	return f, nil
}

// WriteHeader encodes h into w through the writer primitives: the 24-bit
// length, kind and flags octets, then the 31-bit stream id.
func WriteHeader(w buffer.Writer, h Header) {
	w.PutU8(byte(h.Length >> 16))
	w.PutU8(byte(h.Length >> 8))
	w.PutU8(byte(h.Length))
	w.PutU8(byte(h.Kind))
	w.PutU8(byte(h.Flags))
	w.PutU32(h.StreamID & streamIDMask)
}

// WriteFrame serializes f into w, setting f.Header.Length from the encoded
// payload size the same way Marshal does.
func WriteFrame(w buffer.Writer, f *Frame) error {
	body, err := marshalPayload(f.Header.Kind, f.Payload)
	if err != nil {
		return err
	}
	f.Header.Length = uint32(len(body))
	WriteHeader(w, f.Header)
	w.PutSlice(body)
	return nil
}

// WritePreface appends the fixed 24-byte client connection preface to w; a
// client sends it before its first Settings frame (RFC 7540 §3.5).
func WritePreface(w buffer.Writer) {
	w.PutSlice([]byte(ConnectionPreface))
}
