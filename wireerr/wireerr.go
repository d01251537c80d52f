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

// Package wireerr defines the flat error taxonomy shared by every wire-format
// parser in this module: buffer, url, httpmsg, http1, http2/frame,
// http2/hpack and websocket all report failures through Kind/Error here
// instead of ad-hoc error values, so a caller can switch on Kind once.
package wireerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the flat error taxonomy.
type Kind int

const (
	// KindUnknown is never returned; it guards against the zero value.
	KindUnknown Kind = iota

	// Partial indicates the input ended mid-item; never fatal, the caller
	// refills the buffer and retries the same parse call.
	Partial

	// HTTP/1 errors.
	KindHeaderName
	KindHeaderValue
	KindNewLine
	KindStatus
	KindToken
	KindVersion
	KindMethod
	KindInvalidStatusCode

	// URL errors.
	KindURLInvalid
	KindURLCodeInvalid

	// HTTP/2 errors.
	KindShort
	KindBadFlag
	KindBadKind
	KindTooMuchPadding
	KindPayloadLengthTooShort
	KindPartialSettingLength
	KindInvalidPayloadLength
	KindInvalidStreamID
	KindInvalidSettingValue
	KindBadFrameSize
	KindInvalidWindowUpdateValue
	KindInvalidDependencyID

	// HPACK errors.
	KindHeaderIndexOutOfBounds
	KindIntegerTooManyOctets
	KindIntegerValueTooLarge
	KindIntegerNotEnoughOctets
	KindIntegerInvalidPrefix
	KindStringNotEnoughOctets
	KindHuffmanPaddingTooLarge
	KindHuffmanInvalidPadding
	KindHuffmanEOSInString
	KindInvalidMaxDynamicSize
	KindHeaderListTooBig
	KindHPACKSizeUpdateOrder

	// WebSocket errors.
	KindDataFrameError
	KindProtocolError
	KindNoDataAvailable

	// KindIO wraps a pass-through error from an underlying reader/writer.
	KindIO
)

var kindNames = map[Kind]string{
	Partial:                      "partial",
	KindHeaderName:               "header_name",
	KindHeaderValue:              "header_value",
	KindNewLine:                  "new_line",
	KindStatus:                   "status",
	KindToken:                    "token",
	KindVersion:                  "version",
	KindMethod:                   "method",
	KindInvalidStatusCode:        "invalid_status_code",
	KindURLInvalid:               "url_invalid",
	KindURLCodeInvalid:           "url_code_invalid",
	KindShort:                    "short",
	KindBadFlag:                  "bad_flag",
	KindBadKind:                  "bad_kind",
	KindTooMuchPadding:           "too_much_padding",
	KindPayloadLengthTooShort:    "payload_length_too_short",
	KindPartialSettingLength:     "partial_setting_length",
	KindInvalidPayloadLength:     "invalid_payload_length",
	KindInvalidStreamID:          "invalid_stream_id",
	KindInvalidSettingValue:      "invalid_setting_value",
	KindBadFrameSize:             "bad_frame_size",
	KindInvalidWindowUpdateValue: "invalid_window_update_value",
	KindInvalidDependencyID:      "invalid_dependency_id",
	KindHeaderIndexOutOfBounds:   "header_index_out_of_bounds",
	KindIntegerTooManyOctets:     "integer_too_many_octets",
	KindIntegerValueTooLarge:     "integer_value_too_large",
	KindIntegerNotEnoughOctets:   "integer_not_enough_octets",
	KindIntegerInvalidPrefix:     "integer_invalid_prefix",
	KindStringNotEnoughOctets:    "string_not_enough_octets",
	KindHuffmanPaddingTooLarge:   "huffman_padding_too_large",
	KindHuffmanInvalidPadding:    "huffman_invalid_padding",
	KindHuffmanEOSInString:       "huffman_eos_in_string",
	KindInvalidMaxDynamicSize:    "invalid_max_dynamic_size",
	KindHeaderListTooBig:         "header_list_too_big",
	KindHPACKSizeUpdateOrder:     "hpack_size_update_order",
	KindDataFrameError:           "data_frame_error",
	KindProtocolError:            "protocol_error",
	KindNoDataAvailable:          "no_data_available",
	KindIO:                       "io",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is the concrete error type returned by every parser in this module.
type Error struct {
	Subsystem string
	Kind      Kind
	err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Subsystem, e.Kind, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// New builds an *Error of the given kind, prefixed with the subsystem name
// so logs read "http1: token: ..." without callers repeating themselves.
func New(subsystem string, kind Kind, format string, args ...any) error {
	return &Error{
		Subsystem: subsystem,
		Kind:      kind,
		err:       errors.Errorf(format, args...),
	}
}

// Wrap attaches subsystem/kind context to an existing error without losing
// the wrapped chain, mirroring github.com/pkg/errors.Wrap.
func Wrap(subsystem string, kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Subsystem: subsystem,
		Kind:      kind,
		err:       errors.WithMessage(err, message),
	}
}

// Is reports whether the first *Error in err's chain has kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// ErrPartial is the singleton sentinel for the hot "not enough bytes yet"
// path; it is never wrapped or allocated per-call.
var ErrPartial = &Error{Subsystem: "wireerr", Kind: Partial, err: errors.New("partial read: need more data")}
