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

package url

// Builder constructs a URL field-by-field. It records the first error and
// every later method becomes a no-op, surfaced once by Build, so call
// chains stay flat.
type Builder struct {
	url *URL
	err error
}

// NewBuilder returns an empty Builder seeded with New()'s defaults (path
// "/", no scheme).
func NewBuilder() *Builder {
	return &Builder{url: New()}
}

// Scheme sets the builder's scheme by name, accepting any of the known
// scheme strings ("http", "https", "ws", "wss", "ftp") or an arbitrary
// extension scheme.
func (b *Builder) Scheme(scheme string) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Scheme = parseScheme(scheme)
	return b
}

// Username sets the builder's userinfo username.
func (b *Builder) Username(username string) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Username = &username
	return b
}

// Password sets the builder's userinfo password.
func (b *Builder) Password(password string) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Password = &password
	return b
}

// Domain sets the builder's host.
func (b *Builder) Domain(domain string) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Domain = &domain
	return b
}

// Port sets the builder's port, overriding the scheme's default.
func (b *Builder) Port(port uint16) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Port = &port
	return b
}

// Path sets the builder's path. An empty path is rejected at Build time,
// matching New()'s "/" default otherwise.
func (b *Builder) Path(path string) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" {
		b.err = errInvalid("builder path must not be empty")
		return b
	}
	b.url.Path = path
	return b
}

// Query sets the builder's query string (without the leading '?').
func (b *Builder) Query(query string) *Builder {
	if b.err != nil {
		return b
	}
	b.url.Query = &query
	return b
}

// Build finalizes the URL, assigning the scheme's default port when none
// was set explicitly, or returns the first error recorded by an earlier
// builder call.
func (b *Builder) Build() (*URL, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.url.Port == nil {
		if dp, ok := b.url.Scheme.DefaultPort(); ok {
			b.url.Port = &dp
		} else {
			zero := uint16(0)
			b.url.Port = &zero
		}
	}
	return b.url, nil
}
