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

// Package http1 implements the HTTP/1.x request/response state machine:
// START → [skip CRLF*] → METHOD → SP → TARGET → SP → VERSION → CRLF →
// (HEADER-NAME ':' OWS HEADER-VALUE CRLF)* → CRLF → BODY.
//
// The line/token scanning is hand-rolled against buffer/ascii's byte tables
// rather than delegating to net/http.ReadRequest/ReadResponse, because
// resumable byte-level parsing with precise consumed counts is something
// net/http doesn't expose.
package http1

import (
	"github.com/mitchellh/mapstructure"

	"github.com/packetd/webwire/common"
	"github.com/packetd/webwire/wireerr"
)

const subsystem = "http1"

// Options bounds parsing resource usage, a typed, mapstructure-decodable
// struct like http2/hpack.Options. The embedded common.Options carries any
// config key an embedder sets that isn't one of the four typed fields
// below, reachable through its GetInt/GetBool/GetStringSlice helpers so
// new limits can be introduced without breaking callers already passing a
// plain map.
type Options struct {
	common.Options `mapstructure:"-"`

	MaxRequestLineBytes int `mapstructure:"max_request_line_bytes"`
	MaxHeaderBytes      int `mapstructure:"max_header_bytes"`
	MaxHeaderCount      int `mapstructure:"max_header_count"`
	MaxBodySize         int `mapstructure:"max_body_size"`
}

// DefaultOptions uses the customary 8KB request-line/header allowances and
// a 100KB body cap.
func DefaultOptions() Options {
	return Options{
		Options:             common.NewOptions(),
		MaxRequestLineBytes: 8192,
		MaxHeaderBytes:      8192,
		MaxHeaderCount:      100,
		MaxBodySize:         102400,
	}
}

// DecodeOptions decodes a generic config map into Options, the same
// embedder-facing constructor shape as hpack.DecodeOptions. Keys
// matching the typed fields populate them directly; the full map is also
// retained in the embedded common.Options so forward-compatible extension
// keys survive the decode.
func DecodeOptions(m map[string]any) (Options, error) {
	opt := DefaultOptions()
	if m == nil {
		return opt, nil
	}
	if err := mapstructure.Decode(m, &opt); err != nil {
		return Options{}, wireerr.Wrap(subsystem, wireerr.KindProtocolError, err, "decode http1 options")
	}
	for k, v := range m {
		opt.Options.Merge(k, v)
	}
	return opt, nil
}

// Method is one of the nine canonical RFC 7230/9110 methods, or an
// Extension for anything else.
type Method struct {
	kind      methodKind
	extension string
}

type methodKind int

const (
	methodNone methodKind = iota
	MethodGet
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch
	methodExtension
)

var methodNames = map[methodKind]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodConnect: "CONNECT",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
	MethodPatch:   "PATCH",
}

var methodByName = map[string]methodKind{
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"DELETE":  MethodDelete,
	"CONNECT": MethodConnect,
	"OPTIONS": MethodOptions,
	"TRACE":   MethodTrace,
	"PATCH":   MethodPatch,
}

// Extension builds a Method carrying a non-canonical token verbatim.
func Extension(text string) Method {
	return Method{kind: methodExtension, extension: text}
}

// ParseMethod looks up text against the nine canonical methods, falling
// back to Extension for anything unrecognized.
func ParseMethod(text string) Method {
	if k, ok := methodByName[text]; ok {
		return Method{kind: k}
	}
	return Extension(text)
}

// String returns the method's wire text.
func (m Method) String() string {
	if m.kind == methodExtension {
		return m.extension
	}
	return methodNames[m.kind]
}

// IsExtension reports whether m fell outside the nine canonical methods.
func (m Method) IsExtension() bool { return m.kind == methodExtension }

func errHeaderName(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindHeaderName, format, args...)
}

func errHeaderValue(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindHeaderValue, format, args...)
}

func errNewLine(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindNewLine, format, args...)
}

func errStatus(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindStatus, format, args...)
}

func errToken(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindToken, format, args...)
}

func errVersion(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindVersion, format, args...)
}

func errMethod(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindMethod, format, args...)
}

func errInvalidStatusCode(format string, args ...any) error {
	return wireerr.New(subsystem, wireerr.KindInvalidStatusCode, format, args...)
}
