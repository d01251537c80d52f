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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAssignsDefaultPort(t *testing.T) {
	u, err := NewBuilder().
		Scheme("https").
		Domain("example.com").
		Path("/widgets").
		Build()
	require.NoError(t, err)
	assert.Equal(t, SchemeHTTPS, u.Scheme.Kind())
	require.NotNil(t, u.Port)
	assert.Equal(t, uint16(443), *u.Port)
	assert.Equal(t, "/widgets", u.Path)
}

func TestBuilderExplicitPortOverridesDefault(t *testing.T) {
	u, err := NewBuilder().Scheme("http").Domain("example.com").Port(8080).Build()
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), *u.Port)
}

func TestBuilderUsernamePassword(t *testing.T) {
	u, err := NewBuilder().
		Scheme("ws").
		Username("alice").
		Password("secret").
		Domain("chat.example.com").
		Build()
	require.NoError(t, err)
	require.NotNil(t, u.Username)
	require.NotNil(t, u.Password)
	assert.Equal(t, "alice", *u.Username)
	assert.Equal(t, "secret", *u.Password)
}

func TestBuilderRejectsEmptyPath(t *testing.T) {
	_, err := NewBuilder().Scheme("http").Domain("a").Path("").Build()
	require.Error(t, err)
}

func TestBuilderPathAndQueryRoundTripThroughString(t *testing.T) {
	u, err := NewBuilder().
		Scheme("https").
		Domain("example.com").
		Path("/search").
		Query("q=go").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q%3Dgo", u.String())
}
