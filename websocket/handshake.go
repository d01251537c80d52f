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
	"crypto/rand"
	"crypto/sha1" // #nosec G505 - SHA-1 is mandated by RFC 6455 Section 1.3, not used for secrecy
	"encoding/base64"

	"github.com/packetd/webwire/wireerr"
)

// websocketGUID is the fixed magic GUID used to compute
// Sec-WebSocket-Accept, per RFC 6455 §1.3.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateKey returns a fresh, base64-encoded 16-byte nonce suitable for a
// client's Sec-WebSocket-Key header (RFC 6455 §4.1). This package performs
// no HTTP exchange itself; callers wire the returned value into a request
// built with httpmsg.
func GenerateKey() (string, error) {
	var nonce [16]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", wireerr.Wrap(subsystem, wireerr.KindProtocolError, err, "generate websocket key")
	}
	return base64.StdEncoding.EncodeToString(nonce[:]), nil
}

// AcceptKey computes the Sec-WebSocket-Accept value for a given
// Sec-WebSocket-Key, per RFC 6455 §4.2.2 item 5.b: SHA-1 of the key
// concatenated with the magic GUID, base64-encoded.
func AcceptKey(clientKey string) string {
	h := sha1.New() // #nosec G401 - mandated by RFC 6455, not a security boundary
	h.Write([]byte(clientKey))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifyAccept reports whether acceptValue is the correct
// Sec-WebSocket-Accept for clientKey.
func VerifyAccept(clientKey, acceptValue string) bool {
	return AcceptKey(clientKey) == acceptValue
}
