// Copyright © 2025 The movan authors

package sema

import "github.com/movelang/movan/ast"

// Scope holds the three name tables of one lexical region. Items and Types
// are kept separate so a type parameter may share a name with a value
// without colliding; Uses holds import bindings.
type Scope struct {
	Items map[string]Item
	Uses  map[string]Item
	Types map[string]Item
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		Items: make(map[string]Item),
		Uses:  make(map[string]Item),
		Types: make(map[string]Item),
	}
}

// EnterItem adds a value binding. Bindings named _ are discarded: lookups
// must never return a placeholder variable.
func (s *Scope) EnterItem(name string, item Item) {
	if name == "_" {
		switch item.(type) {
		case *ItemVar, *ItemParam:
			return
		}
	}
	s.Items[name] = item
}

// EnterUseItem adds an import binding.
func (s *Scope) EnterUseItem(name string, item Item) {
	s.Uses[name] = item
}

// EnterTypes adds a type-position binding.
func (s *Scope) EnterTypes(name string, item Item) {
	s.Types[name] = item
}

// snapshot returns a value copy of the scope's tables. Module views are
// snapshot into the lexical stack so block scopes can shadow module members
// without mutating the shared record.
func (s *Scope) snapshot() *Scope {
	out := NewScope()
	for k, v := range s.Items {
		out.Items[k] = v
	}
	for k, v := range s.Uses {
		out.Uses[k] = v
	}
	for k, v := range s.Types {
		out.Types[k] = v
	}
	return out
}

// merge copies another scope's entries over this one.
func (s *Scope) merge(other *Scope) {
	for k, v := range other.Items {
		s.Items[k] = v
	}
	for k, v := range other.Uses {
		s.Uses[k] = v
	}
	for k, v := range other.Types {
		s.Types[k] = v
	}
}

// ModuleScope is the per-(address, module) record in the global table: the
// module-level scope, its specification overlay, the friend set, and the
// test-only flag. It is owned by the table and shared during registration;
// lexical traversal reads it only through snapshots.
type ModuleScope struct {
	Key     ModuleKey
	NameLoc ast.Loc
	Scope   *Scope
	// SpecScope extends Scope with spec-only items; lookups against the
	// spec view consult both.
	SpecScope *Scope
	Friends   map[ModuleKey]bool
	IsTest    bool
}

// NewModuleScope creates an empty record for a module.
func NewModuleScope(key ModuleKey, nameLoc ast.Loc, isTest bool) *ModuleScope {
	return &ModuleScope{
		Key:       key,
		NameLoc:   nameLoc,
		Scope:     NewScope(),
		SpecScope: NewScope(),
		Friends:   make(map[ModuleKey]bool),
		IsTest:    isTest,
	}
}

// Clear drops the record's contents for wholesale re-population after the
// owning file re-parses. Identity and friends-by-pointer stay stable.
func (m *ModuleScope) Clear() {
	m.Scope = NewScope()
	m.SpecScope = NewScope()
	m.Friends = make(map[ModuleKey]bool)
}

// ModuleView snapshots the module-level scope plus the spec functions and
// schemas that are callable from value code.
func (m *ModuleScope) ModuleView() *Scope {
	out := m.Scope.snapshot()
	for k, v := range m.SpecScope.Items {
		switch v.(type) {
		case *ItemFun, *ItemSpecSchema:
			if _, shadowed := out.Items[k]; !shadowed {
				out.Items[k] = v
			}
		}
	}
	return out
}

// SpecView snapshots the module-level scope merged with the whole spec
// overlay, for traversing specification blocks.
func (m *ModuleScope) SpecView() *Scope {
	out := m.Scope.snapshot()
	out.merge(m.SpecScope)
	return out
}

// FindMember looks up a member by name against the module view, imports
// included. Used when resolving qualified chains like m::member.
func (m *ModuleScope) FindMember(name string, specView bool) (Item, bool) {
	scopes := []*Scope{m.Scope}
	if specView {
		scopes = append(scopes, m.SpecScope)
	}
	for _, s := range scopes {
		if it, ok := s.Items[name]; ok {
			return it, true
		}
	}
	if !specView {
		// Spec functions and schemas are still addressable from value code.
		if it, ok := m.SpecScope.Items[name]; ok {
			switch it.(type) {
			case *ItemFun, *ItemSpecSchema:
				return it, true
			}
		}
	}
	for _, s := range scopes {
		if it, ok := s.Uses[name]; ok {
			return it, true
		}
	}
	return nil, false
}

// GlobalTable is the project-wide address to module table. Module records
// are owned here; everything else refers to them by ModuleKey.
type GlobalTable struct {
	modules map[ast.Address]map[string]*ModuleScope
}

// NewGlobalTable returns an empty table.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{modules: make(map[ast.Address]map[string]*ModuleScope)}
}

// Lookup returns the record for a key if registered.
func (g *GlobalTable) Lookup(key ModuleKey) (*ModuleScope, bool) {
	mods, ok := g.modules[key.Addr]
	if !ok {
		return nil, false
	}
	m, ok := mods[key.Name]
	return m, ok
}

// Ensure returns the record for a key, creating it on first sight.
func (g *GlobalTable) Ensure(key ModuleKey, nameLoc ast.Loc, isTest bool) *ModuleScope {
	mods, ok := g.modules[key.Addr]
	if !ok {
		mods = make(map[string]*ModuleScope)
		g.modules[key.Addr] = mods
	}
	m, ok := mods[key.Name]
	if !ok {
		m = NewModuleScope(key, nameLoc, isTest)
		mods[key.Name] = m
	}
	return m
}

// ModulesAt lists the module names registered under one address, for
// completion after `0x1::`.
func (g *GlobalTable) ModulesAt(addr ast.Address) []string {
	mods := g.modules[addr]
	out := make([]string, 0, len(mods))
	for name := range mods {
		out = append(out, name)
	}
	return out
}

// ModuleCount reports the number of registered modules.
func (g *GlobalTable) ModuleCount() int {
	n := 0
	for _, mods := range g.modules {
		n += len(mods)
	}
	return n
}
