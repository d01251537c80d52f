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

// Package hpack implements RFC 7541 HPACK header compression: the integer
// and string codecs, the fixed Huffman code table, the 61-entry static
// table, the per-connection dynamic table, and the Decoder/Encoder that
// tie them together into the header-block representation dispatch.
package hpack

import (
	"github.com/packetd/webwire/wireerr"
)

const subsystem = "hpack"

// maxIntegerContinuationOctets bounds DecodeInteger's continuation-byte
// loop; 5 octets already cover any value a u32-sized field can carry.
const maxIntegerContinuationOctets = 5

// EncodeInteger appends value's RFC 7541 §5.1 N-bit-prefix encoding to dst,
// OR-ing the representation's leading bits (already shifted into position)
// into the prefix byte. prefixBits must be in 1..=8.
func EncodeInteger(dst []byte, prefixBits int, leadBits byte, value uint64) []byte {
	max := prefixMax(prefixBits)
	if value < max {
		return append(dst, leadBits|byte(value))
	}
	dst = append(dst, leadBits|byte(max))
	value -= max
	for value >= 128 {
		dst = append(dst, byte(value&0x7f)|0x80)
		value >>= 7
	}
	return append(dst, byte(value))
}

func prefixMax(prefixBits int) uint64 {
	return (uint64(1) << uint(prefixBits)) - 1
}

// DecodeInteger decodes an RFC 7541 §5.1 N-bit-prefix integer starting at
// b[0], returning the value and the number of octets consumed.
func DecodeInteger(b []byte, prefixBits int) (value uint64, consumed int, err error) {
	if prefixBits < 1 || prefixBits > 8 {
		return 0, 0, wireerr.New(subsystem, wireerr.KindIntegerInvalidPrefix, "invalid prefix size %d", prefixBits)
	}
	if len(b) == 0 {
		return 0, 0, wireerr.New(subsystem, wireerr.KindIntegerNotEnoughOctets, "empty input")
	}
	max := prefixMax(prefixBits)
	mask := byte(max)
	v := uint64(b[0] & mask)
	if v < max {
		return v, 1, nil
	}

	m := uint(0)
	i := 1
	for {
		if i > maxIntegerContinuationOctets {
			return 0, 0, wireerr.New(subsystem, wireerr.KindIntegerTooManyOctets, "too many continuation octets")
		}
		if i >= len(b) {
			return 0, 0, wireerr.New(subsystem, wireerr.KindIntegerNotEnoughOctets, "truncated integer")
		}
		octet := b[i]
		inc := uint64(octet&0x7f) << m
		if inc > (1<<62)-v {
			return 0, 0, wireerr.New(subsystem, wireerr.KindIntegerValueTooLarge, "integer value too large")
		}
		v += inc
		i++
		if octet&0x80 == 0 {
			return v, i, nil
		}
		m += 7
	}
}
