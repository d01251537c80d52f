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

package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/packetd/webwire/wireerr"
)

var pool bytebufferpool.Pool

// Mutable is the heap-owned, growable buffer: the working storage transport
// reads land in before being handed to a parser. It supports both Reader and
// Writer, and may be frozen into a Shared without copying when uniquely
// held (see Freeze).
//
// mark is the last committed boundary, cursor is the current read position,
// and fix slides [mark:] down to offset 0; Reserve calls it whenever the
// spare capacity is too small, before growing the buffer.
type Mutable struct {
	bb     *bytebufferpool.ByteBuffer
	cursor int
	mark   int
}

// NewMutable acquires a pooled backing store and returns an empty Mutable.
func NewMutable() *Mutable {
	return &Mutable{bb: pool.Get()}
}

// NewMutableFrom acquires a pooled backing store pre-loaded with p's bytes
// (copied in), ready for reading from cursor 0.
func NewMutableFrom(p []byte) *Mutable {
	m := &Mutable{bb: pool.Get()}
	m.bb.Write(p)
	return m
}

// NewMutableWithCapacity acquires a pooled backing store guaranteed to hold
// at least n bytes before its first growth.
func NewMutableWithCapacity(n int) *Mutable {
	m := &Mutable{bb: pool.Get()}
	m.Reserve(n)
	return m
}

// Close returns the backing store to the pool. The Mutable must not be used
// afterward.
func (m *Mutable) Close() {
	pool.Put(m.bb)
	m.bb = nil
}

// Reset empties the buffer and resets cursor/mark, keeping the backing
// store for reuse.
func (m *Mutable) Reset() {
	m.bb.Reset()
	m.cursor = 0
	m.mark = 0
}

// Len returns the total number of bytes written (read + unread).
func (m *Mutable) Len() int {
	return len(m.bb.B)
}

// fix slides the consumed prefix [0:mark) out, so Remaining() data always
// starts near offset 0 instead of the backing array growing without bound
// as a long-lived connection buffer is read and refilled.
func (m *Mutable) fix() {
	if m.mark == 0 {
		return
	}
	n := copy(m.bb.B, m.bb.B[m.mark:])
	m.bb.B = m.bb.B[:n]
	m.cursor -= m.mark
	m.mark = 0
}

// Reserve grows the backing store so at least n more bytes can be written
// without reallocating on every small Write, doubling the capacity until
// it fits.
func (m *Mutable) Reserve(n int) {
	if cap(m.bb.B)-len(m.bb.B) >= n {
		return
	}
	m.fix()
	need := len(m.bb.B) + n
	newCap := cap(m.bb.B)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(m.bb.B), newCap)
	copy(grown, m.bb.B)
	m.bb.B = grown
}

// Write appends p to the buffer, growing as needed. It always succeeds:
// Mutable is unbounded, growth being the whole point of the growable view.
func (m *Mutable) Write(p []byte) {
	m.Reserve(len(p))
	m.bb.B = append(m.bb.B, p...)
}

// ---- Reader ----

func (m *Mutable) Remaining() int {
	return len(m.bb.B) - m.cursor
}

func (m *Mutable) Chunk() []byte {
	return m.bb.B[m.cursor:]
}

func (m *Mutable) Advance(n int) error {
	if n > m.Remaining() {
		return wireerr.ErrPartial
	}
	m.cursor += n
	return nil
}

func (m *Mutable) Peek(n int) ([]byte, error) {
	if n > m.Remaining() {
		return nil, wireerr.ErrPartial
	}
	return m.bb.B[m.cursor : m.cursor+n], nil
}

func (m *Mutable) CopyToSlice(dst []byte) error {
	n := len(dst)
	if n > m.Remaining() {
		return wireerr.ErrPartial
	}
	copy(dst, m.bb.B[m.cursor:m.cursor+n])
	m.cursor += n
	return nil
}

func (m *Mutable) GetU8() (byte, error) {
	if m.Remaining() < 1 {
		return 0, wireerr.ErrPartial
	}
	b := m.bb.B[m.cursor]
	m.cursor++
	return b, nil
}

func (m *Mutable) GetU16() (uint16, error) { return getUint[uint16](m, 2, binary.BigEndian.Uint16) }
func (m *Mutable) GetU32() (uint32, error) { return getUint[uint32](m, 4, binary.BigEndian.Uint32) }
func (m *Mutable) GetU64() (uint64, error) { return getUint[uint64](m, 8, binary.BigEndian.Uint64) }

func (m *Mutable) GetU16LE() (uint16, error) {
	return getUint[uint16](m, 2, binary.LittleEndian.Uint16)
}
func (m *Mutable) GetU32LE() (uint32, error) {
	return getUint[uint32](m, 4, binary.LittleEndian.Uint32)
}
func (m *Mutable) GetU64LE() (uint64, error) {
	return getUint[uint64](m, 8, binary.LittleEndian.Uint64)
}

func (m *Mutable) GetU16NE() (uint16, error) { return getUint[uint16](m, 2, nativeEndian.Uint16) }
func (m *Mutable) GetU32NE() (uint32, error) { return getUint[uint32](m, 4, nativeEndian.Uint32) }
func (m *Mutable) GetU64NE() (uint64, error) { return getUint[uint64](m, 8, nativeEndian.Uint64) }

// getUint decodes an n-byte integer straight out of the contiguous chunk,
// generically across the three sizes and three endian orders.
func getUint[T uint16 | uint32 | uint64](m *Mutable, n int, decode func([]byte) T) (T, error) {
	if m.Remaining() < n {
		return 0, wireerr.ErrPartial
	}
	v := decode(m.bb.B[m.cursor : m.cursor+n])
	m.cursor += n
	return v, nil
}

func (m *Mutable) MarkCommit() int {
	m.mark = m.cursor
	return m.mark
}

func (m *Mutable) MarkSliceSkip(k int) []byte {
	end := m.cursor - k
	b := m.bb.B[m.mark:end]
	m.mark = m.cursor
	return b
}

func (m *Mutable) MarkCloneRange(start, end int) (*Shared, error) {
	if start < 0 || end > len(m.bb.B) || start > end {
		return nil, wireerr.New(subsystem, wireerr.KindShort, "mark clone range [%d:%d) out of bounds (len=%d)", start, end, len(m.bb.B))
	}
	owned := make([]byte, end-start)
	copy(owned, m.bb.B[start:end])
	return NewSharedOwned(owned), nil
}

// ---- Writer ----

func (m *Mutable) RemainingMut() int {
	return cap(m.bb.B) - len(m.bb.B)
}

func (m *Mutable) ChunkMut() []byte {
	m.Reserve(1)
	return m.bb.B[len(m.bb.B):cap(m.bb.B)]
}

func (m *Mutable) AdvanceMut(n int) {
	m.bb.B = m.bb.B[:len(m.bb.B)+n]
}

func (m *Mutable) PutSlice(p []byte) {
	m.Write(p)
}

func (m *Mutable) PutU8(v byte) {
	m.Write([]byte{v})
}

func (m *Mutable) PutU16(v uint16) { putUintInto(m, 2, v, binary.BigEndian.PutUint16) }
func (m *Mutable) PutU32(v uint32) { putUintInto(m, 4, v, binary.BigEndian.PutUint32) }
func (m *Mutable) PutU64(v uint64) { putUintInto(m, 8, v, binary.BigEndian.PutUint64) }

func (m *Mutable) PutU16LE(v uint16) { putUintInto(m, 2, v, binary.LittleEndian.PutUint16) }
func (m *Mutable) PutU32LE(v uint32) { putUintInto(m, 4, v, binary.LittleEndian.PutUint32) }
func (m *Mutable) PutU64LE(v uint64) { putUintInto(m, 8, v, binary.LittleEndian.PutUint64) }

func (m *Mutable) PutU16NE(v uint16) { putUintInto(m, 2, v, nativeEndian.PutUint16) }
func (m *Mutable) PutU32NE(v uint32) { putUintInto(m, 4, v, nativeEndian.PutUint32) }
func (m *Mutable) PutU64NE(v uint64) { putUintInto(m, 8, v, nativeEndian.PutUint64) }

// Signed puts reuse the unsigned encodings; two's complement keeps the
// wire bytes identical.
func (m *Mutable) PutI8(v int8)   { m.PutU8(byte(v)) }
func (m *Mutable) PutI16(v int16) { m.PutU16(uint16(v)) }
func (m *Mutable) PutI32(v int32) { m.PutU32(uint32(v)) }
func (m *Mutable) PutI64(v int64) { m.PutU64(uint64(v)) }

// putUintInto encodes v via encode into an on-stack scratch array, then
// writes just the n significant bytes.
func putUintInto[T uint16 | uint32 | uint64](m *Mutable, n int, v T, encode func([]byte, T)) {
	var scratch [8]byte
	encode(scratch[:n], v)
	m.Write(scratch[:n])
}

func (m *Mutable) WriteFmt(format string, args ...any) (int, error) {
	s := fmt.Sprintf(format, args...)
	m.Write([]byte(s))
	return len(s), nil
}

// Freeze converts a uniquely-held Mutable into an immutable Shared without
// copying: the backing store's ownership transfers directly. The Mutable
// must not be used afterward. A shared/aliased buffer would have to copy
// instead; Mutable here is never aliased (no clone method exists), so
// Freeze always takes the no-copy path.
func (m *Mutable) Freeze() *Shared {
	s := newSharedFromOwnedSlice(m.bb.B[m.cursor:])
	// Detach the slice from the pool before returning it to the pool, so a
	// later pool.Get() reuse cannot alias memory the frozen Shared now owns.
	m.bb.B = nil
	pool.Put(m.bb)
	m.bb = nil
	return s
}
