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

// Package buffer implements the zero-copy byte-buffer substrate every parser
// in this module reads and writes through: Shared (immutable, refcounted),
// Mutable (growable, owns its storage) and Slice (borrowed, non-owning).
// All three satisfy Reader and Writer below so parsers can be written once
// against the interfaces and handed whichever concrete buffer the caller has
// on hand.
package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/packetd/webwire/wireerr"
)

const subsystem = "buffer"

// Reader is the capability set every buffer kind exposes for consuming
// bytes: remaining/chunk/advance/peek, typed big/little/native-endian
// integer reads, and the mark/cursor pair used to slice out just-parsed
// tokens without copying.
type Reader interface {
	// Remaining returns the number of unread bytes.
	Remaining() int

	// Chunk returns the contiguous readable region without advancing.
	Chunk() []byte

	// Advance moves the cursor forward n bytes. Returns wireerr.Partial if
	// n > Remaining().
	Advance(n int) error

	// Peek returns the next n bytes without advancing the cursor.
	Peek(n int) ([]byte, error)

	// CopyToSlice reads len(dst) bytes into dst, advancing the cursor.
	CopyToSlice(dst []byte) error

	GetU8() (byte, error)

	GetU16() (uint16, error)
	GetU32() (uint32, error)
	GetU64() (uint64, error)

	GetU16LE() (uint16, error)
	GetU32LE() (uint32, error)
	GetU64LE() (uint64, error)

	GetU16NE() (uint16, error)
	GetU32NE() (uint32, error)
	GetU64NE() (uint64, error)

	// MarkCommit sets mark = cursor and returns the new mark.
	MarkCommit() int

	// MarkSliceSkip returns [mark, cursor-k) as a borrowed slice, then
	// commits (mark = cursor).
	MarkSliceSkip(k int) []byte

	// MarkCloneRange produces a new Shared view over [start,end) of the
	// currently readable region, bounds-checked; for Shared buffers this
	// bumps the refcount instead of copying.
	MarkCloneRange(start, end int) (*Shared, error)
}

// Writer is the capability set every buffer kind exposes for producing
// bytes.
type Writer interface {
	// RemainingMut returns the writable capacity left in the current chunk.
	RemainingMut() int

	// ChunkMut returns the writable region without advancing.
	ChunkMut() []byte

	// AdvanceMut commits n bytes already written into ChunkMut.
	AdvanceMut(n int)

	PutSlice(p []byte)

	PutU8(v byte)

	PutU16(v uint16)
	PutU32(v uint32)
	PutU64(v uint64)

	PutU16LE(v uint16)
	PutU32LE(v uint32)
	PutU64LE(v uint64)

	PutU16NE(v uint16)
	PutU32NE(v uint32)
	PutU64NE(v uint64)

	PutI8(v int8)
	PutI16(v int16)
	PutI32(v int32)
	PutI64(v int64)

	WriteFmt(format string, args ...any) (int, error)
}

var (
	_ Reader = (*Mutable)(nil)
	_ Writer = (*Mutable)(nil)
	_ Reader = (*Shared)(nil)
	_ Reader = (*Slice)(nil)
	_ Writer = (*Slice)(nil)
)

// nativeEndian mirrors the host byte order for the *NE family; the wire
// formats this module serves (HTTP/2, WebSocket) are always big-endian, the
// little- and native-endian variants round out the substrate so it can serve
// other protocols.
var nativeEndian = binary.NativeEndian

func errShort(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindShort, format, args...)
}

func sprintf(format string, args ...any) []byte {
	return []byte(fmt.Sprintf(format, args...))
}
