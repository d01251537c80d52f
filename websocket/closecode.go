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

// CloseCode names the numeric status codes of RFC 6455 §7.4. Values
// outside the registered table are preserved verbatim.
type CloseCode uint16

const (
	CloseNormal      CloseCode = 1000
	CloseAway        CloseCode = 1001
	CloseProtocol    CloseCode = 1002
	CloseUnsupported CloseCode = 1003
	CloseStatus      CloseCode = 1005
	CloseAbnormal    CloseCode = 1006
	CloseInvalid     CloseCode = 1007
	ClosePolicy      CloseCode = 1008
	CloseSize        CloseCode = 1009
	CloseExtension   CloseCode = 1010
	CloseError       CloseCode = 1011
	CloseRestart     CloseCode = 1012
	CloseAgain       CloseCode = 1013
	CloseTLS         CloseCode = 1015
)

var closeCodeNames = map[CloseCode]string{
	CloseNormal:      "normal",
	CloseAway:        "going_away",
	CloseProtocol:    "protocol_error",
	CloseUnsupported: "unsupported_data",
	CloseStatus:      "no_status_received",
	CloseAbnormal:    "abnormal_closure",
	CloseInvalid:     "invalid_payload_data",
	ClosePolicy:      "policy_violation",
	CloseSize:        "message_too_big",
	CloseExtension:   "mandatory_extension",
	CloseError:       "internal_error",
	CloseRestart:     "service_restart",
	CloseAgain:       "try_again_later",
	CloseTLS:         "tls_handshake",
}

// String returns the code's canonical name, or "other" for values outside
// the registered table (RFC 6455 §7.4.2 allows private-use codes).
func (c CloseCode) String() string {
	if s, ok := closeCodeNames[c]; ok {
		return s
	}
	return "other"
}
