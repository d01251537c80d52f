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
	"sync/atomic"

	"github.com/packetd/webwire/wireerr"
)

// sharedCore is the refcounted heap allocation multiple Shared views may
// point into; it is only ever freed (by dropping the Go GC's last
// reference) once refcount reaches zero. Borrowed cores (process-lifetime
// regions, e.g. a string literal's bytes) skip refcounting entirely: they
// are never freed early because nothing in this process owns them.
type sharedCore struct {
	base     []byte
	refcount *atomic.Int64
	borrowed bool
}

// Shared is an immutable view with shared ownership and atomic reference
// counting. Cloning bumps the refcount instead of copying;
// ToVec is the explicit, intentional copy-out.
type Shared struct {
	core   *sharedCore
	cursor int
	mark   int
	len    int
}

// NewSharedOwned wraps a heap-owned byte slice (freed once the last Shared
// holder drops it — in Go terms, once nothing references core anymore and
// the GC reclaims it).
func NewSharedOwned(b []byte) *Shared {
	return newSharedFromOwnedSlice(b)
}

func newSharedFromOwnedSlice(b []byte) *Shared {
	rc := &atomic.Int64{}
	rc.Store(1)
	return &Shared{
		core: &sharedCore{base: b, refcount: rc, borrowed: false},
		len:  len(b),
	}
}

// NewSharedBorrowed wraps a process-lifetime byte slice (e.g. a package
// level []byte literal) that is never freed by this package; no refcount
// bookkeeping is needed since the memory outlives every possible holder.
func NewSharedBorrowed(b []byte) *Shared {
	return &Shared{
		core: &sharedCore{base: b, borrowed: true},
		len:  len(b),
	}
}

// Clone returns a new Shared view over the same core, bumping the refcount
// for owned cores (a cheap O(1) operation, never a copy).
func (s *Shared) Clone() *Shared {
	if !s.core.borrowed {
		s.core.refcount.Add(1)
	}
	return &Shared{core: s.core, cursor: s.cursor, mark: s.mark, len: s.len}
}

// ToVec copies the remaining readable bytes out into a new owned slice.
func (s *Shared) ToVec() []byte {
	out := make([]byte, s.Remaining())
	copy(out, s.core.base[s.cursor:s.len])
	return out
}

// ---- Reader ----

func (s *Shared) Remaining() int {
	return s.len - s.cursor
}

func (s *Shared) Chunk() []byte {
	return s.core.base[s.cursor:s.len]
}

func (s *Shared) Advance(n int) error {
	if n > s.Remaining() {
		return wireerr.ErrPartial
	}
	s.cursor += n
	return nil
}

func (s *Shared) Peek(n int) ([]byte, error) {
	if n > s.Remaining() {
		return nil, wireerr.ErrPartial
	}
	return s.core.base[s.cursor : s.cursor+n], nil
}

func (s *Shared) CopyToSlice(dst []byte) error {
	if len(dst) > s.Remaining() {
		return wireerr.ErrPartial
	}
	copy(dst, s.core.base[s.cursor:s.cursor+len(dst)])
	s.cursor += len(dst)
	return nil
}

func (s *Shared) GetU8() (byte, error) {
	if s.Remaining() < 1 {
		return 0, wireerr.ErrPartial
	}
	b := s.core.base[s.cursor]
	s.cursor++
	return b, nil
}

func (s *Shared) GetU16() (uint16, error) { return getUintShared(s, 2, binary.BigEndian.Uint16) }
func (s *Shared) GetU32() (uint32, error) { return getUintShared(s, 4, binary.BigEndian.Uint32) }
func (s *Shared) GetU64() (uint64, error) { return getUintShared(s, 8, binary.BigEndian.Uint64) }

func (s *Shared) GetU16LE() (uint16, error) { return getUintShared(s, 2, binary.LittleEndian.Uint16) }
func (s *Shared) GetU32LE() (uint32, error) { return getUintShared(s, 4, binary.LittleEndian.Uint32) }
func (s *Shared) GetU64LE() (uint64, error) { return getUintShared(s, 8, binary.LittleEndian.Uint64) }

func (s *Shared) GetU16NE() (uint16, error) { return getUintShared(s, 2, nativeEndian.Uint16) }
func (s *Shared) GetU32NE() (uint32, error) { return getUintShared(s, 4, nativeEndian.Uint32) }
func (s *Shared) GetU64NE() (uint64, error) { return getUintShared(s, 8, nativeEndian.Uint64) }

func getUintShared[T uint16 | uint32 | uint64](s *Shared, n int, decode func([]byte) T) (T, error) {
	if s.Remaining() < n {
		return 0, wireerr.ErrPartial
	}
	v := decode(s.core.base[s.cursor : s.cursor+n])
	s.cursor += n
	return v, nil
}

func (s *Shared) MarkCommit() int {
	s.mark = s.cursor
	return s.mark
}

func (s *Shared) MarkSliceSkip(k int) []byte {
	end := s.cursor - k
	b := s.core.base[s.mark:end]
	s.mark = s.cursor
	return b
}

// MarkCloneRange produces a new Shared view over a sub-range of the
// currently readable region by bumping the refcount, never copying.
func (s *Shared) MarkCloneRange(start, end int) (*Shared, error) {
	if start < 0 || end > s.len || start > end {
		return nil, wireerr.New(subsystem, wireerr.KindShort, "mark clone range [%d:%d) out of bounds (len=%d)", start, end, s.len)
	}
	if !s.core.borrowed {
		s.core.refcount.Add(1)
	}
	return &Shared{core: s.core, cursor: start, mark: start, len: end}, nil
}

// Writer capability is intentionally not implemented by Shared: freezing
// consumes the writer capability, and once shared, mutation is forbidden.
// That rule is enforced here simply by Shared never satisfying the Writer
// interface.
