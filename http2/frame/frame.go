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

// Package frame implements RFC 7540 HTTP/2 frame parsing and serialization:
// the 9-byte frame header codec, per-kind payload dispatch, padding trim and
// Settings validation. The package carries no per-stream reassembly state;
// a caller owns connection/stream bookkeeping and feeds complete frames in.
package frame

import (
	"encoding/binary"

	"github.com/packetd/webwire/wireerr"
)

const subsystem = "http2frame"

// HeaderLength is the fixed 9-octet frame header size.
const HeaderLength = 9

// streamIDMask clears the reserved top bit of the 32-bit stream-id field.
const streamIDMask = 0x7fffffff

// DefaultMaxFrameSize is RFC 7540 §6.5.2's SETTINGS_MAX_FRAME_SIZE default.
const DefaultMaxFrameSize = 16384

// ConnectionPreface is the fixed client connection preface (RFC 7540 §3.5),
// sent before the first Settings frame.
const ConnectionPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// Kind identifies an HTTP/2 frame type (RFC 7540 §6).
type Kind uint8

const (
	KindData Kind = iota
	KindHeaders
	KindPriority
	KindResetStream
	KindSettings
	KindPushPromise
	KindPing
	KindGoAway
	KindWindowUpdate
	KindContinuation
	// KindUnknown is the catch-all for unregistered kinds.
	KindUnknown Kind = 0xff
)

// Flags holds the frame header's flag octet; its meaning is Kind-dependent.
type Flags uint8

const (
	FlagAck        Flags = 0x1
	FlagEndStream  Flags = 0x1
	FlagEndHeaders Flags = 0x4
	FlagPadded     Flags = 0x8
	FlagPriority   Flags = 0x20
)

// Has reports whether f has every bit in mask set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Header is the decoded 9-byte HTTP/2 frame header.
type Header struct {
	Length   uint32
	Kind     Kind
	Flags    Flags
	StreamID uint32
}

// ParseHeader decodes a frame header from the first HeaderLength bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLength {
		return Header{}, wireerr.ErrPartial
	}
	length := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	kind := rawKind(b[3])
	flags := Flags(b[4])
	streamID := binary.BigEndian.Uint32(b[5:9]) & streamIDMask
	return Header{Length: length, Kind: kind, Flags: flags, StreamID: streamID}, nil
}

func rawKind(b byte) Kind {
	if b <= uint8(KindContinuation) {
		return Kind(b)
	}
	return KindUnknown
}

// PutHeader encodes h into dst[:HeaderLength]; dst must have length >= 9.
func PutHeader(dst []byte, h Header) {
	_ = dst[8]
	dst[0] = byte(h.Length >> 16)
	dst[1] = byte(h.Length >> 8)
	dst[2] = byte(h.Length)
	dst[3] = byte(h.Kind)
	dst[4] = byte(h.Flags)
	binary.BigEndian.PutUint32(dst[5:9], h.StreamID&streamIDMask)
}

// Frame is a fully parsed HTTP/2 frame: its header plus a typed payload.
// Payload is one of Data, HeadersPayload, PriorityPayload, ResetStream,
// SettingsPayload, PushPromisePayload, Ping, GoAwayPayload, WindowUpdate,
// ContinuationPayload, or UnknownPayload depending on Header.Kind.
type Frame struct {
	Header  Header
	Payload any
}

// Data is the KindData payload: opaque body bytes after padding trim.
type Data struct {
	Data []byte
}

// HeadersPayload is the KindHeaders payload. HeaderBlockFragment holds the
// still-HPACK-encoded bytes; a caller reassembles fragments across
// Continuation frames (when END_HEADERS is unset) before invoking
// hpack.Decoder.DecodeBlock, so a block spanning frames decodes as if
// concatenated.
type HeadersPayload struct {
	HasPriority         bool
	Exclusive           bool
	DependencyStreamID  uint32
	Weight              uint8
	HeaderBlockFragment []byte
}

// PriorityPayload is the KindPriority payload.
type PriorityPayload struct {
	Exclusive          bool
	DependencyStreamID uint32
	Weight             uint8
}

// ResetStream is the KindResetStream payload.
type ResetStream struct {
	ErrorCode uint32
}

// Setting is a single (id, value) pair inside a Settings frame.
type Setting struct {
	ID    uint16
	Value uint32
}

// SettingsPayload is the KindSettings payload.
type SettingsPayload struct {
	Settings []Setting
}

// PushPromisePayload is the KindPushPromise payload.
type PushPromisePayload struct {
	PromisedStreamID    uint32
	HeaderBlockFragment []byte
}

// Ping is the KindPing payload: 8 opaque bytes.
type Ping struct {
	Data [8]byte
}

// GoAwayPayload is the KindGoAway payload.
type GoAwayPayload struct {
	LastStreamID uint32
	ErrorCode    uint32
	DebugData    []byte
}

// WindowUpdate is the KindWindowUpdate payload.
type WindowUpdate struct {
	Increment uint32
}

// ContinuationPayload is the KindContinuation payload.
type ContinuationPayload struct {
	HeaderBlockFragment []byte
}

// UnknownPayload carries the raw bytes of an unregistered frame kind.
type UnknownPayload struct {
	Data []byte
}

// Settings ids, per RFC 7540 §6.5.2 plus RFC 8441's
// SETTINGS_ENABLE_CONNECT_PROTOCOL.
const (
	SettingHeaderTableSize       uint16 = 1
	SettingEnablePush            uint16 = 2
	SettingMaxConcurrentStreams  uint16 = 3
	SettingInitialWindowSize     uint16 = 4
	SettingMaxFrameSize          uint16 = 5
	SettingMaxHeaderListSize     uint16 = 6
	SettingEnableConnectProtocol uint16 = 8
)
