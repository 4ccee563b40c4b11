// Copyright 2026 The Linkgrammar-Core Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package connector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/linkgrammar-core/descriptor"
	"github.com/dolthub/linkgrammar-core/intern"
)

func TestChainEqualComparesByDescriptorIdentityAndMulti(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	a := &Connector{Descriptor: reg.Lookup("X"), Next: &Connector{Descriptor: reg.Lookup("Y")}}
	b := &Connector{Descriptor: reg.Lookup("X"), Next: &Connector{Descriptor: reg.Lookup("Y")}}
	require.True(t, ChainEqual(a, b, false))

	c := &Connector{Descriptor: reg.Lookup("X"), Multi: true, Next: &Connector{Descriptor: reg.Lookup("Y")}}
	require.False(t, ChainEqual(a, c, false))
}

func TestChainEqualRequiresSameLength(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	a := &Connector{Descriptor: reg.Lookup("X")}
	b := &Connector{Descriptor: reg.Lookup("X"), Next: &Connector{Descriptor: reg.Lookup("Y")}}
	require.False(t, ChainEqual(a, b, false))
}

func TestChainLenCounts(t *testing.T) {
	reg := descriptor.NewRegistry(intern.New())
	a := &Connector{Descriptor: reg.Lookup("X"), Next: &Connector{Descriptor: reg.Lookup("Y")}}
	require.Equal(t, 2, ChainLen(a))
	require.Equal(t, 0, ChainLen(nil))
}

func TestDirectionString(t *testing.T) {
	require.Equal(t, "-", Left.String())
	require.Equal(t, "+", Right.String())
}
