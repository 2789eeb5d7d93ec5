// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// AccessEnv gates visibility of test-only and specification-only items.
type AccessEnv int

const (
	AccessMove AccessEnv = iota
	AccessTest
	AccessSpec
)

func (e AccessEnv) String() string {
	switch e {
	case AccessTest:
		return "test"
	case AccessSpec:
		return "spec"
	default:
		return "move"
	}
}

// ProjectContext is the traversal's live state: the lexical scope stack,
// the global module table, the module currently being resolved, and the
// access mode. One context is mutated by one traversal at a time; callers
// serialize concurrent queries.
type ProjectContext struct {
	scopes  []*Scope
	global  *GlobalTable
	current ModuleKey
	env     AccessEnv
}

// NewProjectContext builds a context whose outermost scope holds the
// built-in types and functions. The stack is never empty.
func NewProjectContext() *ProjectContext {
	return &ProjectContext{
		scopes: []*Scope{newBuiltinScope()},
		global: NewGlobalTable(),
	}
}

// Global exposes the address to module table.
func (c *ProjectContext) Global() *GlobalTable { return c.global }

// Env returns the current access mode.
func (c *ProjectContext) Env() AccessEnv { return c.env }

// SetEnv switches the access mode and returns the previous one.
func (c *ProjectContext) SetEnv(env AccessEnv) AccessEnv {
	old := c.env
	c.env = env
	return old
}

// CurrentModule returns the module being resolved.
func (c *ProjectContext) CurrentModule() ModuleKey { return c.current }

// SetCurrentModule records the module being resolved and returns the
// previous one.
func (c *ProjectContext) SetCurrentModule(key ModuleKey) ModuleKey {
	old := c.current
	c.current = key
	return old
}

// ScopeDepth reports the lexical stack depth, for scope-discipline checks.
func (c *ProjectContext) ScopeDepth() int { return len(c.scopes) }

// EnterScope pushes a fresh scope and returns the guard that pops it. The
// guard must run on every exit path, normally via defer, so early finishes
// cannot leak scopes.
func (c *ProjectContext) EnterScope() func() {
	c.scopes = append(c.scopes, NewScope())
	depth := len(c.scopes)
	return func() {
		c.scopes = c.scopes[:depth-1]
	}
}

// CloneModuleScopeAndEnter pushes a snapshot of a module's member view
// (the spec view when spec is true) so function bodies resolve module-level
// names through the same innermost-first walk used for block scopes.
func (c *ProjectContext) CloneModuleScopeAndEnter(key ModuleKey, spec bool) func() {
	var view *Scope
	if ms, ok := c.global.Lookup(key); ok {
		if spec {
			view = ms.SpecView()
		} else {
			view = ms.ModuleView()
		}
	} else {
		view = NewScope()
	}
	if spec {
		enterSpecBuiltins(view)
	}
	c.scopes = append(c.scopes, view)
	depth := len(c.scopes)
	return func() {
		c.scopes = c.scopes[:depth-1]
	}
}

func (c *ProjectContext) innermost() *Scope {
	return c.scopes[len(c.scopes)-1]
}

// EnterItem binds a value name in the innermost scope.
func (c *ProjectContext) EnterItem(name string, item Item) {
	c.innermost().EnterItem(name, item)
}

// EnterUseItem binds an import name in the innermost scope.
func (c *ProjectContext) EnterUseItem(name string, item Item) {
	c.innermost().EnterUseItem(name, item)
}

// EnterTypes binds a type-position name in the innermost scope.
func (c *ProjectContext) EnterTypes(name string, item Item) {
	c.innermost().EnterTypes(name, item)
}

// EnterTopItem binds a name at module level, into the spec overlay when
// isSpecModule is true.
func (c *ProjectContext) EnterTopItem(key ModuleKey, isSpecModule bool, name string, item Item) {
	ms := c.global.Ensure(key, ast.UnknownLoc(), false)
	if isSpecModule {
		ms.SpecScope.EnterItem(name, item)
	} else {
		ms.Scope.EnterItem(name, item)
	}
}

// EnterTopUseItem binds an import at module level.
func (c *ProjectContext) EnterTopUseItem(key ModuleKey, isSpecModule bool, name string, item Item) {
	ms := c.global.Ensure(key, ast.UnknownLoc(), false)
	if isSpecModule {
		ms.SpecScope.EnterUseItem(name, item)
	} else {
		ms.Scope.EnterUseItem(name, item)
	}
}

// InnerFirstVisit walks the scope stack from innermost to outermost,
// stopping as soon as the predicate returns true. This is the single lookup
// primitive behind every search.
func (c *ProjectContext) InnerFirstVisit(fn func(*Scope) bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if fn(c.scopes[i]) {
			return
		}
	}
}

// WithFriends runs fn against a module's friend set and reports its result;
// unknown modules yield false.
func (c *ProjectContext) WithFriends(key ModuleKey, fn func(map[ModuleKey]bool) bool) bool {
	ms, ok := c.global.Lookup(key)
	if !ok {
		return false
	}
	return fn(ms.Friends)
}

// AddFriend registers friend as allowed to call key's friend-visibility
// functions.
func (c *ProjectContext) AddFriend(key ModuleKey, friend ModuleKey) {
	ms := c.global.Ensure(key, ast.UnknownLoc(), false)
	ms.Friends[friend] = true
}

// visible filters lookups by the current access mode. Test-only items hide
// outside Test mode; functions additionally check visibility.
func (c *ProjectContext) visible(item Item) bool {
	if ItemIsTest(item) && c.env != AccessTest {
		return false
	}
	if f, ok := item.(*ItemFun); ok {
		return f.Accessible(c, c.env)
	}
	return true
}

// FindVar resolves a bare name against the value tables only.
func (c *ProjectContext) FindVar(name string) Item {
	var found Item
	c.InnerFirstVisit(func(s *Scope) bool {
		if it, ok := s.Items[name]; ok {
			found = it
			return true
		}
		return false
	})
	if found == nil {
		return &ItemDummy{}
	}
	return found
}

// TryFixLocalVarTy assigns ty to the first still-untyped local named name,
// searching scopes outward from the innermost. It returns the lambda body
// associated with the binding, if any, so the caller can resolve it against
// the now-known type. Only the first write wins; locals with a declared
// type are never overwritten.
func (c *ProjectContext) TryFixLocalVarTy(name string, ty ResolvedType) *ast.LambdaExp {
	var lambda *ast.LambdaExp
	c.InnerFirstVisit(func(s *Scope) bool {
		it, ok := s.Items[name]
		if !ok {
			return false
		}
		v, ok := it.(*ItemVar)
		if !ok {
			return true
		}
		if v.HasDeclTy || !IsUnknown(v.Ty) {
			return true
		}
		v.Ty = ty
		lambda = v.Lambda
		return true
	})
	return lambda
}

// lookupModule resolves a ModuleKey to its record, respecting test gating.
func (c *ProjectContext) lookupModule(key ModuleKey) (*ModuleScope, bool) {
	ms, ok := c.global.Lookup(key)
	if !ok {
		return nil, false
	}
	if ms.IsTest && c.env != AccessTest {
		return nil, false
	}
	return ms, true
}

// moduleNameItem builds the click-through item for a module record.
func moduleNameItem(ms *ModuleScope) *ItemModuleName {
	return &ItemModuleName{
		Name:   ast.Name{Loc: ms.NameLoc, Value: ms.Key.Name},
		Module: ms.Key,
		IsTest: ms.IsTest,
	}
}

// resolveUseEntry follows an import binding to the item it imports.
func (c *ProjectContext) resolveUseEntry(use *ItemUse) (Item, *ItemModuleName) {
	for _, e := range use.Entries {
		switch x := e.(type) {
		case *ItemUseModule:
			if ms, ok := c.lookupModule(x.Module); ok {
				return moduleNameItem(ms), nil
			}
		case *ItemUseMember:
			ms, ok := c.lookupModule(x.Module)
			if !ok {
				continue
			}
			if it, ok := ms.FindMember(x.Name.Value, c.env == AccessSpec); ok && c.visible(it) {
				return it, moduleNameItem(ms)
			}
		}
	}
	return &ItemDummy{}, nil
}

// findSingle resolves an unqualified name: value tables first, then import
// tables, innermost scope first.
func (c *ProjectContext) findSingle(name string) (Item, *ItemModuleName) {
	var item Item
	var module *ItemModuleName
	c.InnerFirstVisit(func(s *Scope) bool {
		if it, ok := s.Items[name]; ok && c.visible(it) {
			item = it
			return true
		}
		if it, ok := s.Uses[name]; ok {
			if use, isUse := it.(*ItemUse); isUse {
				item, module = c.resolveUseEntry(use)
			} else {
				item = it
			}
			return true
		}
		return false
	})
	if item == nil {
		return &ItemDummy{}, nil
	}
	return item, module
}

// findModuleByRoot resolves a chain's leading element to a module record.
// A symbolic root first matches module aliases in scope, then falls back to
// the named-address table; a numeric root goes straight to the table.
func (c *ProjectContext) findModuleByRoot(root ast.LeadingNameAccess, entries []ast.PathEntry, n2a ast.Name2Addr) (*ModuleScope, int) {
	switch root.Kind {
	case ast.LeadingAnonAddress:
		if len(entries) == 0 {
			return nil, 0
		}
		ms, ok := c.lookupModule(ModuleKey{Addr: root.Addr, Name: entries[0].Name.Value})
		if !ok {
			return nil, 0
		}
		return ms, 1
	default:
		// A module alias bound by a use declaration shadows address names.
		var aliased *ModuleScope
		c.InnerFirstVisit(func(s *Scope) bool {
			it, ok := s.Uses[root.Name.Value]
			if !ok {
				return false
			}
			use, isUse := it.(*ItemUse)
			if !isUse {
				return true
			}
			for _, e := range use.Entries {
				if m, isMod := e.(*ItemUseModule); isMod {
					if ms, found := c.lookupModule(m.Module); found {
						aliased = ms
					}
					return true
				}
			}
			return true
		})
		if aliased != nil {
			return aliased, 0
		}
		addr := ast.ErrAddress
		if n2a != nil {
			addr = n2a.NameToAddr(root.Name.Value)
		}
		if len(entries) == 0 {
			return nil, 0
		}
		ms, ok := c.lookupModule(ModuleKey{Addr: addr, Name: entries[0].Name.Value})
		if !ok {
			return nil, 0
		}
		return ms, 1
	}
}

// FindNameChainItem resolves a name chain to an item, returning the module
// it was reached through when the chain carried a qualifier. Resolution
// never fails loudly; unresolved chains yield the dummy item.
func (c *ProjectContext) FindNameChainItem(chain *ast.NameAccessChain, n2a ast.Name2Addr) (Item, *ItemModuleName) {
	if chain.Single != nil {
		return c.findSingle(chain.Single.Name.Value)
	}
	path := chain.Path
	ms, consumed := c.findModuleByRoot(path.Root, path.Entries, n2a)
	if ms == nil {
		return &ItemDummy{}, nil
	}
	rest := path.Entries[consumed:]
	if len(rest) == 0 {
		// The chain names the module itself, as in use a::b::{}.
		return moduleNameItem(ms), nil
	}
	if len(rest) > 1 {
		return &ItemDummy{}, nil
	}
	it, ok := ms.FindMember(rest[0].Name.Value, c.env == AccessSpec)
	if !ok || !c.visible(it) {
		return &ItemDummy{}, moduleNameItem(ms)
	}
	return it, moduleNameItem(ms)
}

// FindNameChainType resolves a name chain in type position: type tables
// first for unqualified names so type parameters win, then the ordinary
// item path.
func (c *ProjectContext) FindNameChainType(chain *ast.NameAccessChain, n2a ast.Name2Addr) (Item, *ItemModuleName) {
	if chain.Single != nil {
		name := chain.Single.Name.Value
		var item Item
		c.InnerFirstVisit(func(s *Scope) bool {
			if it, ok := s.Types[name]; ok {
				item = it
				return true
			}
			return false
		})
		if item != nil {
			return item, nil
		}
	}
	return c.FindNameChainItem(chain, n2a)
}

// CollectItems gathers every visible binding, innermost first with shadowed
// names suppressed, for completion consumers.
func (c *ProjectContext) CollectItems(includeTypes bool) map[string]Item {
	out := make(map[string]Item)
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i]
		for k, v := range s.Items {
			if _, seen := out[k]; !seen && c.visible(v) {
				out[k] = v
			}
		}
		for k, v := range s.Uses {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
		if includeTypes {
			for k, v := range s.Types {
				if _, seen := out[k]; !seen {
					out[k] = v
				}
			}
		}
	}
	return out
}
