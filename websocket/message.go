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

package websocket

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/packetd/webwire/wireerr"
)

// CloseData is the optional payload of a Close message: a status code plus
// a UTF-8 reason.
type CloseData struct {
	Code   CloseCode
	Reason string
}

// Message is one or more DataFrames aggregated into a typed payload.
type Message struct {
	Opcode Opcode
	Data   []byte
}

// IsText reports whether the message is a complete UTF-8 text message.
func (m Message) IsText() bool { return m.Opcode == OpcodeText }

// IsBinary reports whether the message carries binary data.
func (m Message) IsBinary() bool { return m.Opcode == OpcodeBinary }

// IsData reports whether the message is Text or Binary.
func (m Message) IsData() bool { return m.Opcode == OpcodeText || m.Opcode == OpcodeBinary }

// IsControl reports whether the message is Close, Ping, or Pong.
func (m Message) IsControl() bool { return m.Opcode.IsControl() }

// IsClose reports whether the message is a Close message.
func (m Message) IsClose() bool { return m.Opcode == OpcodeClose }

// IsPing reports whether the message is a Ping message.
func (m Message) IsPing() bool { return m.Opcode == OpcodePing }

// IsPong reports whether the message is a Pong message.
func (m Message) IsPong() bool { return m.Opcode == OpcodePong }

// CloseData extracts the status code and reason from a Close message's
// payload, per RFC 6455 §5.5.1 (the first two bytes are a big-endian
// status code, the rest a UTF-8 reason). The second return is false when
// the message is not a Close message or carries no status code.
func (m Message) CloseData() (CloseData, bool) {
	if !m.IsClose() || len(m.Data) < 2 {
		return CloseData{}, false
	}
	return CloseData{
		Code:   CloseCode(binary.BigEndian.Uint16(m.Data[:2])),
		Reason: string(m.Data[2:]),
	}, true
}

// AssembleMessage aggregates a sequence of DataFrames belonging to one
// WebSocket message into a Message, validating fragmentation (every frame
// after the first must be a Continuation), reserved bits, and UTF-8 for
// complete text messages.
func AssembleMessage(frames []DataFrame) (Message, error) {
	if len(frames) == 0 {
		return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "no dataframes provided")
	}

	opcode := frames[0].Opcode
	var data []byte
	for i, f := range frames {
		if i > 0 && f.Opcode != OpcodeContinuation {
			return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "unexpected non-continuation data frame")
		}
		if f.reservedSet() {
			return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "unsupported reserved bits received")
		}
		data = append(data, f.Data...)
	}

	if opcode == OpcodeText && !utf8.Valid(data) {
		return Message{}, wireerr.New(subsystem, wireerr.KindProtocolError, "text message payload is not valid UTF-8")
	}

	return Message{Opcode: opcode, Data: data}, nil
}

// NewTextMessage builds a single-frame Text message.
func NewTextMessage(text string) Message {
	return Message{Opcode: OpcodeText, Data: []byte(text)}
}

// NewBinaryMessage builds a single-frame Binary message.
func NewBinaryMessage(data []byte) Message {
	return Message{Opcode: OpcodeBinary, Data: data}
}

// NewCloseMessage builds a Close message with no status code or reason.
func NewCloseMessage() Message {
	return Message{Opcode: OpcodeClose}
}

// NewCloseMessageWithReason builds a Close message carrying a status code
// and reason.
func NewCloseMessageWithReason(code CloseCode, reason string) Message {
	data := make([]byte, 2+len(reason))
	binary.BigEndian.PutUint16(data[:2], uint16(code))
	copy(data[2:], reason)
	return Message{Opcode: OpcodeClose, Data: data}
}

// NewPingMessage builds a Ping message.
func NewPingMessage(data []byte) Message {
	return Message{Opcode: OpcodePing, Data: data}
}

// NewPongMessage builds a Pong message.
func NewPongMessage(data []byte) Message {
	return Message{Opcode: OpcodePong, Data: data}
}

// ToFrame converts m into a single, unfragmented DataFrame; every Message
// this package builds fits in one frame.
func (m Message) ToFrame() DataFrame {
	return DataFrame{Finished: true, Opcode: m.Opcode, Data: m.Data}
}
