// Copyright © 2025 The movan authors

package ast

import (
	"encoding/hex"
	"strings"
)

// AddressLen is the byte width of a numeric account address.
const AddressLen = 32

// Address is a numeric account address.
type Address [AddressLen]byte

// ErrAddress is the address used when no real address can be determined.
// Resolution against it degrades to "unknown" rather than failing.
var ErrAddress = MustAddressFromHex("0xcafecafecafecafecafecafecafecafecafecafecafecafecafecafecafecafe")

// AddressFromHex parses a 0x-prefixed hex address, right-aligning short
// forms like 0x1 the way the on-chain address format does.
func AddressFromHex(s string) (Address, bool) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 || len(s) > AddressLen*2 {
		return Address{}, false
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, false
	}
	var a Address
	copy(a[AddressLen-len(raw):], raw)
	return a, true
}

// MustAddressFromHex is AddressFromHex for trusted literals.
func MustAddressFromHex(s string) Address {
	a, ok := AddressFromHex(s)
	if !ok {
		panic("bad address literal: " + s)
	}
	return a
}

// ShortString renders the address with leading zero bytes trimmed, 0x1 style.
func (a Address) ShortString() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

func (a Address) String() string { return a.ShortString() }

// Name2Addr resolves a symbolic named address (e.g. std) to its numeric
// form. The table behind it comes from the project-loader collaborator.
type Name2Addr interface {
	NameToAddr(name string) Address
}
