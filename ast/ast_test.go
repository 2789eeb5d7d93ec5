// Copyright © 2025 The movan authors

package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromHex(t *testing.T) {
	a, ok := AddressFromHex("0x1")
	require.True(t, ok)
	assert.Equal(t, "0x1", a.ShortString())

	// Odd-length short forms right-align like the on-chain format.
	b, ok := AddressFromHex("0xcafe")
	require.True(t, ok)
	assert.Equal(t, "0xcafe", b.ShortString())

	full, ok := AddressFromHex("0xab" + strings.Repeat("0", 62))
	require.True(t, ok)
	assert.Equal(t, byte(0xab), full[0])

	_, ok = AddressFromHex("0x")
	assert.False(t, ok)
	_, ok = AddressFromHex("0xzz")
	assert.False(t, ok)
	_, ok = AddressFromHex("0x" + strings.Repeat("f", 70))
	assert.False(t, ok)
}

func TestAddressShortStringZero(t *testing.T) {
	var a Address
	assert.Equal(t, "0x0", a.ShortString())
}

func TestAttributesHasTest(t *testing.T) {
	assert.Equal(t, AttrTestNone, AttributesHasTest(nil))
	assert.Equal(t, AttrTestTest, AttributesHasTest([]Attribute{{Name: "test"}}))
	assert.Equal(t, AttrTestOnly, AttributesHasTest([]Attribute{{Name: "test_only"}}))
	// test_only outranks test regardless of order.
	assert.Equal(t, AttrTestOnly, AttributesHasTest([]Attribute{{Name: "test"}, {Name: "test_only"}}))
	assert.False(t, AttrTestNone.IsTest())
	assert.True(t, AttrTestOnly.IsTest())
}

func TestChainLastName(t *testing.T) {
	single := &NameAccessChain{Single: &PathEntry{Name: Name{Value: "x"}}}
	assert.Equal(t, "x", single.LastName().Value)

	path := &NameAccessChain{Path: &NamePath{
		Root:    LeadingNameAccess{Kind: LeadingName, Name: Name{Value: "std"}},
		Entries: []PathEntry{{Name: Name{Value: "vector"}}, {Name: Name{Value: "empty"}}},
	}}
	assert.Equal(t, "empty", path.LastName().Value)
	assert.Equal(t, "std::vector::empty", path.String())

	// use a::b::{} keeps an empty entry list; the root stands in.
	empty := &NameAccessChain{Path: &NamePath{
		Root: LeadingNameAccess{Kind: LeadingName, Name: Name{Value: "b"}},
	}}
	assert.Equal(t, "b", empty.LastName().Value)
}

func TestFileRangeContains(t *testing.T) {
	r := FileRange{Path: "a.move", LineStart: 2, ColStart: 4, LineEnd: 4, ColEnd: 2}
	assert.True(t, r.Contains(2, 4))
	assert.True(t, r.Contains(3, 0))
	assert.True(t, r.Contains(4, 2))
	assert.False(t, r.Contains(2, 3))
	assert.False(t, r.Contains(4, 3))
	assert.False(t, r.Contains(1, 10))
	assert.False(t, r.Contains(5, 0))
}

func TestLocIsUnknown(t *testing.T) {
	assert.True(t, UnknownLoc().IsUnknown())
	assert.False(t, Loc{Hash: "f", Start: 0, End: 1}.IsUnknown())
	assert.True(t, UnknownRange().IsUnknown())
}
