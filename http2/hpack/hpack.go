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

package hpack

import (
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	"github.com/packetd/webwire/buffer"
	"github.com/packetd/webwire/common"
	"github.com/packetd/webwire/wireerr"
)

// Options bounds the decoder/encoder's resource usage. A zero Options is
// always safe (4096-octet dynamic table, unbounded header list). The
// embedded common.Options keeps any
// extension config key an embedder passes beyond the two typed limits
// below, reachable via its GetInt/GetBool/GetStringSlice helpers.
type Options struct {
	common.Options `mapstructure:"-"`

	// MaxDynamicTableSize is the local dynamic table's ceiling; zero means
	// DefaultDynamicTableSize.
	MaxDynamicTableSize int `mapstructure:"maxDynamicTableSize"`
	// MaxHeaderListSize caps the total octets (name+value+32 per field)
	// accepted from a single header block; zero means unbounded.
	MaxHeaderListSize int `mapstructure:"maxHeaderListSize"`
}

// DecodeOptions builds an Options from a generic config map, the way an
// embedder loading limits from YAML/JSON would, mirroring common.Options'
// cast-based typed getters used elsewhere in this module. The raw map is
// also retained in the embedded common.Options so forward-compatible
// extension keys survive the decode.
func DecodeOptions(m map[string]any) (Options, error) {
	o := Options{Options: common.NewOptions()}
	if err := mapstructure.Decode(m, &o); err != nil {
		return Options{}, err
	}
	for k, v := range m {
		o.Options.Merge(k, v)
	}
	return o, nil
}

func (o Options) dynamicTableSize() int {
	if o.MaxDynamicTableSize > 0 {
		return o.MaxDynamicTableSize
	}
	return DefaultDynamicTableSize
}

// DecodeString reads a single RFC 7541 §5.2 string representation from b:
// 1-bit Huffman flag, 7-bit length prefix integer, then length bytes
// (Huffman-decoded if the flag is set).
func DecodeString(b []byte) (value string, consumed int, err error) {
	if len(b) == 0 {
		return "", 0, wireerr.New(subsystem, wireerr.KindStringNotEnoughOctets, "empty string representation")
	}
	huffman := b[0]&0x80 != 0
	length, n, ierr := DecodeInteger(b, 7)
	if ierr != nil {
		return "", 0, ierr
	}
	total := n + int(length)
	if total > len(b) {
		return "", 0, wireerr.New(subsystem, wireerr.KindStringNotEnoughOctets, "string length %d exceeds remaining %d", length, len(b)-n)
	}
	raw := b[n:total]
	if !huffman {
		return string(raw), total, nil
	}
	decoded, herr := HuffmanDecode(raw)
	if herr != nil {
		return "", 0, herr
	}
	return string(decoded), total, nil
}

// EncodeString appends s's RFC 7541 §5.2 string representation to dst,
// choosing whichever of raw/Huffman encoding is shorter (the Huffman flag
// is then set accordingly), matching how HPACK encoders typically avoid
// Huffman when it would not save space.
func EncodeString(dst []byte, s string) []byte {
	huff := HuffmanEncode([]byte(s))
	if len(huff) < len(s) {
		dst = EncodeInteger(dst, 7, 0x80, uint64(len(huff)))
		return append(dst, huff...)
	}
	dst = EncodeInteger(dst, 7, 0x00, uint64(len(s)))
	return append(dst, s...)
}

// Decoder decodes HPACK header blocks against a dynamic table that
// persists across calls for the lifetime of one HTTP/2 connection
// direction.
type Decoder struct {
	dyn *dynamicTable
	opt Options
}

// NewDecoder returns a Decoder with a fresh, empty dynamic table.
func NewDecoder(opt Options) *Decoder {
	return &Decoder{dyn: newDynamicTable(opt.dynamicTableSize()), opt: opt}
}

// DynamicTableSize reports the decoder's current dynamic-table size, for
// callers wiring a logger around resize events.
func (d *Decoder) DynamicTableSize() int { return d.dyn.Size() }

func (d *Decoder) lookup(index uint64) (HeaderField, bool) {
	if index >= 1 && index <= StaticTableSize {
		return staticTable[index], true
	}
	return d.dyn.Get(int(index) - StaticTableSize)
}

// DecodeBlock decodes a complete (already Continuation-reassembled) header
// block into an ordered header list, applying every dynamic-table mutation
// encountered along the way.
func (d *Decoder) DecodeBlock(block []byte) ([]HeaderField, error) {
	var fields []HeaderField
	var listSize int
	var sawNonSizeUpdate bool

	b := block
	for len(b) > 0 {
		first := b[0]
		switch {
		case first&0x80 != 0: // indexed header field
			idx, n, err := DecodeInteger(b, 7)
			if err != nil {
				return nil, err
			}
			if idx == 0 {
				return nil, wireerr.New(subsystem, wireerr.KindHeaderIndexOutOfBounds, "indexed header field index 0")
			}
			f, ok := d.lookup(idx)
			if !ok {
				return nil, wireerr.New(subsystem, wireerr.KindHeaderIndexOutOfBounds, "index %d out of bounds", idx)
			}
			fields, listSize = appendField(fields, listSize, f)
			sawNonSizeUpdate = true
			b = b[n:]

		case first&0xc0 == 0x40: // literal with incremental indexing
			f, n, err := d.decodeLiteral(b, 6)
			if err != nil {
				return nil, err
			}
			fields, listSize = appendField(fields, listSize, f)
			d.dyn.Insert(f)
			sawNonSizeUpdate = true
			b = b[n:]

		case first&0xe0 == 0x20: // dynamic table size update
			if sawNonSizeUpdate {
				return nil, wireerr.New(subsystem, wireerr.KindHPACKSizeUpdateOrder, "size update after a header representation")
			}
			newSize, n, err := DecodeInteger(b, 5)
			if err != nil {
				return nil, err
			}
			d.dyn.SetMaxSize(int(newSize))
			b = b[n:]

		case first&0xf0 == 0x10: // literal never indexed
			f, n, err := d.decodeLiteral(b, 4)
			if err != nil {
				return nil, err
			}
			fields, listSize = appendField(fields, listSize, f)
			sawNonSizeUpdate = true
			b = b[n:]

		default: // literal without indexing (0000xxxx)
			f, n, err := d.decodeLiteral(b, 4)
			if err != nil {
				return nil, err
			}
			fields, listSize = appendField(fields, listSize, f)
			sawNonSizeUpdate = true
			b = b[n:]
		}

		if d.opt.MaxHeaderListSize > 0 && listSize > d.opt.MaxHeaderListSize {
			return nil, wireerr.New(subsystem, wireerr.KindHeaderListTooBig, "header list size %d exceeds max %d", listSize, d.opt.MaxHeaderListSize)
		}
	}
	return fields, nil
}

func appendField(fields []HeaderField, size int, f HeaderField) ([]HeaderField, int) {
	return append(fields, f), size + entrySize(f)
}

// decodeLiteral decodes the shared shape of the three literal
// representations (incremental/never-indexed/without-indexing): an
// N-bit-prefix name index (0 meaning "name follows as a literal string"),
// then always a literal value string.
func (d *Decoder) decodeLiteral(b []byte, prefixBits int) (HeaderField, int, error) {
	idx, n, err := DecodeInteger(b, prefixBits)
	if err != nil {
		return HeaderField{}, 0, err
	}
	b = b[n:]
	total := n

	var name string
	if idx == 0 {
		s, m, serr := DecodeString(b)
		if serr != nil {
			return HeaderField{}, 0, serr
		}
		name = s
		b = b[m:]
		total += m
	} else {
		f, ok := d.lookup(idx)
		if !ok {
			return HeaderField{}, 0, wireerr.New(subsystem, wireerr.KindHeaderIndexOutOfBounds, "index %d out of bounds", idx)
		}
		name = f.Name
	}

	value, m, verr := DecodeString(b)
	if verr != nil {
		return HeaderField{}, 0, verr
	}
	total += m

	return HeaderField{Name: name, Value: value}, total, nil
}

// DecodeBlockDiagnostic decodes block the same as DecodeBlock and, on
// failure, returns DecodeBlock's fields with its error wrapped in a
// *multierror.Error. It does not decode past the first malformed
// representation, so the batch holds exactly one error and no later
// fields are recovered; like DecodeBlock it never resyncs mid-parse.
func (d *Decoder) DecodeBlockDiagnostic(block []byte) ([]HeaderField, error) {
	fields, err := d.DecodeBlock(block)
	if err == nil {
		return fields, nil
	}
	var merr *multierror.Error
	merr = multierror.Append(merr, err)
	return fields, merr.ErrorOrNil()
}

// Encoder encodes header lists into HPACK header blocks, maintaining its
// own dynamic table in lock-step with the peer decoder's view.
type Encoder struct {
	dyn            *dynamicTable
	pendingMaxSize *int
}

// NewEncoder returns an Encoder with a fresh dynamic table.
func NewEncoder(opt Options) *Encoder {
	return &Encoder{dyn: newDynamicTable(opt.dynamicTableSize())}
}

// SetMaxDynamicTableSize records a new local maximum (bounded by the
// peer's SETTINGS_HEADER_TABLE_SIZE); the next
// EncodeBlock call emits a dynamic-table-size-update representation as
// its first entry.
func (e *Encoder) SetMaxDynamicTableSize(n int) {
	e.pendingMaxSize = &n
}

// DecodeBlockFrom decodes the whole remaining readable region of r as one
// header block, consuming it on success. A header block is only decodable
// once Continuation reassembly is complete, so unlike the frame-level
// readers there is no partial path here: the caller hands in a buffer
// holding exactly the reassembled block.
func (d *Decoder) DecodeBlockFrom(r buffer.Reader) ([]HeaderField, error) {
	fields, err := d.DecodeBlock(r.Chunk())
	if err != nil {
		return nil, err
	}
	if err := r.Advance(r.Remaining()); err != nil {
		return nil, err
	}
	r.MarkCommit()
	return fields, nil
}

// EncodeBlockTo encodes headers into w as a single HPACK header block.
func (e *Encoder) EncodeBlockTo(w buffer.Writer, headers []HeaderField) {
	w.PutSlice(e.EncodeBlock(headers))
}

// EncodeBlock encodes headers into a single HPACK header block.
func (e *Encoder) EncodeBlock(headers []HeaderField) []byte {
	var out []byte

	if e.pendingMaxSize != nil {
		out = EncodeInteger(out, 5, 0x20, uint64(*e.pendingMaxSize))
		e.dyn.SetMaxSize(*e.pendingMaxSize)
		e.pendingMaxSize = nil
	}

	for _, f := range headers {
		out = e.encodeField(out, f)
	}
	return out
}

func (e *Encoder) encodeField(dst []byte, f HeaderField) []byte {
	if idx, ok := staticFullIndex[f]; ok {
		return EncodeInteger(dst, 7, 0x80, uint64(idx))
	}
	if idx, ok := e.dynamicFullIndex(f); ok {
		return EncodeInteger(dst, 7, 0x80, uint64(idx))
	}

	if idx, ok := staticNameIndex[f.Name]; ok {
		dst = EncodeInteger(dst, 6, 0x40, uint64(idx))
	} else if idx, ok := e.dynamicNameIndex(f.Name); ok {
		dst = EncodeInteger(dst, 6, 0x40, uint64(idx))
	} else {
		dst = EncodeInteger(dst, 6, 0x40, 0)
		dst = EncodeString(dst, f.Name)
	}
	dst = EncodeString(dst, f.Value)
	e.dyn.Insert(f)
	return dst
}

func (e *Encoder) dynamicFullIndex(f HeaderField) (int, bool) {
	for i := 1; i <= e.dyn.Len(); i++ {
		entry, _ := e.dyn.Get(i)
		if entry == f {
			return StaticTableSize + i, true
		}
	}
	return 0, false
}

func (e *Encoder) dynamicNameIndex(name string) (int, bool) {
	for i := 1; i <= e.dyn.Len(); i++ {
		entry, _ := e.dyn.Get(i)
		if entry.Name == name {
			return StaticTableSize + i, true
		}
	}
	return 0, false
}
