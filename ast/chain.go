// Copyright © 2025 The movan authors

package ast

import "strings"

// LeadingKind discriminates the first element of a qualified name.
type LeadingKind int

const (
	// LeadingName is a symbolic address or module alias (std::..., V::...).
	LeadingName LeadingKind = iota
	// LeadingAnonAddress is a numeric address literal (0x1::...).
	LeadingAnonAddress
	// LeadingGlobalName is an explicitly global symbolic address (::std::...).
	LeadingGlobalName
)

// LeadingNameAccess is the head of a qualified name chain.
type LeadingNameAccess struct {
	Loc  Loc
	Kind LeadingKind
	// Addr is set for LeadingAnonAddress.
	Addr Address
	// Name is set for LeadingName and LeadingGlobalName.
	Name Name
}

func (l LeadingNameAccess) String() string {
	if l.Kind == LeadingAnonAddress {
		return l.Addr.ShortString()
	}
	return l.Name.Value
}

// PathEntry is one segment of a name chain with optional type arguments.
type PathEntry struct {
	Name     Name
	TypeArgs []Type
	IsMacro  bool
}

// NamePath is a qualified chain: root followed by one or more entries,
// e.g. 0x1::vector::empty or std::coin::Coin.
type NamePath struct {
	Root    LeadingNameAccess
	Entries []PathEntry
}

// NameAccessChain is either a single unqualified name or a qualified path.
// Exactly one of Single and Path is non-nil.
type NameAccessChain struct {
	Loc    Loc
	Single *PathEntry
	Path   *NamePath
}

// LastName returns the final segment of the chain, the name a use-site
// ultimately refers to.
func (c *NameAccessChain) LastName() Name {
	if c.Single != nil {
		return c.Single.Name
	}
	if len(c.Path.Entries) == 0 {
		// use a::b::{} keeps an empty member list; fall back to the root.
		return c.Path.Root.Name
	}
	return c.Path.Entries[len(c.Path.Entries)-1].Name
}

// LastTypeArgs returns the type arguments attached to the final segment.
func (c *NameAccessChain) LastTypeArgs() []Type {
	if c.Single != nil {
		return c.Single.TypeArgs
	}
	if len(c.Path.Entries) == 0 {
		return nil
	}
	return c.Path.Entries[len(c.Path.Entries)-1].TypeArgs
}

func (c *NameAccessChain) String() string {
	if c.Single != nil {
		return c.Single.Name.Value
	}
	parts := []string{c.Path.Root.String()}
	for _, e := range c.Path.Entries {
		parts = append(parts, e.Name.Value)
	}
	return strings.Join(parts, "::")
}

// ModuleIdent names a module by leading address plus module name.
type ModuleIdent struct {
	Loc     Loc
	Address LeadingNameAccess
	Module  Name
}

func (m ModuleIdent) String() string {
	return m.Address.String() + "::" + m.Module.Value
}
