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

	"github.com/packetd/webwire/wireerr"
)

// Slice is a non-owning view over a caller-supplied byte range, with the
// same cursor/mark discipline as Shared/Mutable. Go has no borrow checker,
// so "cannot outlive the backing region" is a caller contract documented
// here rather than compiler-enforced. Writes are permitted
// up to the capacity of the backing array the Slice was constructed over;
// bytes past that capacity are silently dropped (PutSlice copies what fits,
// the fixed-width Put helpers write nothing) rather than reallocating
// (unlike Mutable), since a Slice does not own storage to grow into.
type Slice struct {
	b      []byte // full backing window, len == capacity
	n      int    // bytes actually written/valid
	cursor int
	mark   int
}

// NewSlice wraps b as a borrowed, already-populated read/write window:
// Remaining() starts at len(b) and ChunkMut() exposes [len(b):cap(b)).
func NewSlice(b []byte) *Slice {
	return &Slice{b: b[:cap(b)], n: len(b)}
}

// ---- Reader ----

func (s *Slice) Remaining() int {
	return s.n - s.cursor
}

func (s *Slice) Chunk() []byte {
	return s.b[s.cursor:s.n]
}

func (s *Slice) Advance(n int) error {
	if n > s.Remaining() {
		return wireerr.ErrPartial
	}
	s.cursor += n
	return nil
}

func (s *Slice) Peek(n int) ([]byte, error) {
	if n > s.Remaining() {
		return nil, wireerr.ErrPartial
	}
	return s.b[s.cursor : s.cursor+n], nil
}

func (s *Slice) CopyToSlice(dst []byte) error {
	if len(dst) > s.Remaining() {
		return wireerr.ErrPartial
	}
	copy(dst, s.b[s.cursor:s.cursor+len(dst)])
	s.cursor += len(dst)
	return nil
}

func (s *Slice) GetU8() (byte, error) {
	if s.Remaining() < 1 {
		return 0, wireerr.ErrPartial
	}
	b := s.b[s.cursor]
	s.cursor++
	return b, nil
}

func (s *Slice) GetU16() (uint16, error) { return getUintSlice(s, 2, binary.BigEndian.Uint16) }
func (s *Slice) GetU32() (uint32, error) { return getUintSlice(s, 4, binary.BigEndian.Uint32) }
func (s *Slice) GetU64() (uint64, error) { return getUintSlice(s, 8, binary.BigEndian.Uint64) }

func (s *Slice) GetU16LE() (uint16, error) { return getUintSlice(s, 2, binary.LittleEndian.Uint16) }
func (s *Slice) GetU32LE() (uint32, error) { return getUintSlice(s, 4, binary.LittleEndian.Uint32) }
func (s *Slice) GetU64LE() (uint64, error) { return getUintSlice(s, 8, binary.LittleEndian.Uint64) }

func (s *Slice) GetU16NE() (uint16, error) { return getUintSlice(s, 2, nativeEndian.Uint16) }
func (s *Slice) GetU32NE() (uint32, error) { return getUintSlice(s, 4, nativeEndian.Uint32) }
func (s *Slice) GetU64NE() (uint64, error) { return getUintSlice(s, 8, nativeEndian.Uint64) }

func getUintSlice[T uint16 | uint32 | uint64](s *Slice, n int, decode func([]byte) T) (T, error) {
	if s.Remaining() < n {
		return 0, wireerr.ErrPartial
	}
	v := decode(s.b[s.cursor : s.cursor+n])
	s.cursor += n
	return v, nil
}

func (s *Slice) MarkCommit() int {
	s.mark = s.cursor
	return s.mark
}

func (s *Slice) MarkSliceSkip(k int) []byte {
	end := s.cursor - k
	b := s.b[s.mark:end]
	s.mark = s.cursor
	return b
}

func (s *Slice) MarkCloneRange(start, end int) (*Shared, error) {
	if start < 0 || end > s.n || start > end {
		return nil, wireerr.New(subsystem, wireerr.KindShort, "mark clone range [%d:%d) out of bounds (len=%d)", start, end, s.n)
	}
	owned := make([]byte, end-start)
	copy(owned, s.b[start:end])
	return NewSharedOwned(owned), nil
}

// ---- Writer ----

func (s *Slice) RemainingMut() int {
	return len(s.b) - s.n
}

func (s *Slice) ChunkMut() []byte {
	return s.b[s.n:]
}

func (s *Slice) AdvanceMut(n int) {
	s.n += n
}

func (s *Slice) PutSlice(p []byte) {
	n := copy(s.b[s.n:], p)
	s.n += n
}

func (s *Slice) PutU8(v byte) {
	if s.n < len(s.b) {
		s.b[s.n] = v
		s.n++
	}
}

func (s *Slice) PutU16(v uint16) { putUintSlice(s, 2, v, binary.BigEndian.PutUint16) }
func (s *Slice) PutU32(v uint32) { putUintSlice(s, 4, v, binary.BigEndian.PutUint32) }
func (s *Slice) PutU64(v uint64) { putUintSlice(s, 8, v, binary.BigEndian.PutUint64) }

func (s *Slice) PutU16LE(v uint16) { putUintSlice(s, 2, v, binary.LittleEndian.PutUint16) }
func (s *Slice) PutU32LE(v uint32) { putUintSlice(s, 4, v, binary.LittleEndian.PutUint32) }
func (s *Slice) PutU64LE(v uint64) { putUintSlice(s, 8, v, binary.LittleEndian.PutUint64) }

func (s *Slice) PutU16NE(v uint16) { putUintSlice(s, 2, v, nativeEndian.PutUint16) }
func (s *Slice) PutU32NE(v uint32) { putUintSlice(s, 4, v, nativeEndian.PutUint32) }
func (s *Slice) PutU64NE(v uint64) { putUintSlice(s, 8, v, nativeEndian.PutUint64) }

func (s *Slice) PutI8(v int8)   { s.PutU8(byte(v)) }
func (s *Slice) PutI16(v int16) { s.PutU16(uint16(v)) }
func (s *Slice) PutI32(v int32) { s.PutU32(uint32(v)) }
func (s *Slice) PutI64(v int64) { s.PutU64(uint64(v)) }

func putUintSlice[T uint16 | uint32 | uint64](s *Slice, n int, v T, encode func([]byte, T)) {
	if s.RemainingMut() < n {
		return
	}
	encode(s.b[s.n:s.n+n], v)
	s.n += n
}

func (s *Slice) WriteFmt(format string, args ...any) (int, error) {
	// Slice has no growth path; format into a scratch slice and PutSlice it.
	msg := sprintf(format, args...)
	s.PutSlice(msg)
	return len(msg), nil
}
