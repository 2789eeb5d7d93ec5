// Copyright © 2025 The movan authors

package sema

import (
	"github.com/movelang/movan/ast"
)

// fixture hand-builds parsed definitions with distinct source spans, standing
// in for the external parser.
type fixture struct {
	hash ast.FileHash
	next uint32
}

func newFixture(hash string) *fixture {
	return &fixture{hash: ast.FileHash(hash)}
}

func (fx *fixture) loc() ast.Loc {
	fx.next += 16
	return ast.Loc{Hash: fx.hash, Start: fx.next, End: fx.next + 8}
}

func (fx *fixture) name(s string) ast.Name {
	return ast.Name{Loc: fx.loc(), Value: s}
}

func (fx *fixture) anon(addr string) ast.LeadingNameAccess {
	return ast.LeadingNameAccess{
		Loc:  fx.loc(),
		Kind: ast.LeadingAnonAddress,
		Addr: ast.MustAddressFromHex(addr),
	}
}

func (fx *fixture) single(s string, targs ...ast.Type) *ast.NameAccessChain {
	n := fx.name(s)
	return &ast.NameAccessChain{
		Loc:    n.Loc,
		Single: &ast.PathEntry{Name: n, TypeArgs: targs},
	}
}

// qualified builds addr::part0::part1... with type arguments on the last
// segment.
func (fx *fixture) qualified(addr string, parts []string, targs ...ast.Type) *ast.NameAccessChain {
	root := fx.anon(addr)
	entries := make([]ast.PathEntry, len(parts))
	for i, p := range parts {
		entries[i] = ast.PathEntry{Name: fx.name(p)}
	}
	if len(entries) > 0 {
		entries[len(entries)-1].TypeArgs = targs
	}
	return &ast.NameAccessChain{
		Loc:  root.Loc,
		Path: &ast.NamePath{Root: root, Entries: entries},
	}
}

// aliased builds alias::member, the shape of calls through a module alias.
func (fx *fixture) aliased(alias string, member string, targs ...ast.Type) *ast.NameAccessChain {
	root := ast.LeadingNameAccess{Loc: fx.loc(), Kind: ast.LeadingName, Name: fx.name(alias)}
	return &ast.NameAccessChain{
		Loc: root.Loc,
		Path: &ast.NamePath{
			Root:    root,
			Entries: []ast.PathEntry{{Name: fx.name(member), TypeArgs: targs}},
		},
	}
}

func (fx *fixture) applyType(chain *ast.NameAccessChain) *ast.ApplyType {
	return &ast.ApplyType{Loc: chain.Loc, Chain: chain}
}

func (fx *fixture) namedType(s string, targs ...ast.Type) *ast.ApplyType {
	return fx.applyType(fx.single(s, targs...))
}

func (fx *fixture) refType(mut bool, inner ast.Type) *ast.RefType {
	return &ast.RefType{Loc: fx.loc(), Mut: mut, Inner: inner}
}

func (fx *fixture) nameExp(s string) *ast.NameExp {
	c := fx.single(s)
	return &ast.NameExp{Loc: c.Loc, Chain: c}
}

func (fx *fixture) num(lit string) *ast.ValueExp {
	return &ast.ValueExp{Loc: fx.loc(), Kind: ast.ValueNum, Lit: lit}
}

func (fx *fixture) call(chain *ast.NameAccessChain, args ...ast.Exp) *ast.CallExp {
	return &ast.CallExp{Loc: chain.Loc, Chain: chain, Args: args}
}

func (fx *fixture) body(items []ast.SequenceItem, final ast.Exp) *ast.FunctionBody {
	return &ast.FunctionBody{
		Loc: fx.loc(),
		Seq: &ast.Sequence{Items: items, Final: final},
	}
}

func namePtr(n ast.Name) *ast.Name { return &n }

// recorder captures every event in order. A non-zero limit makes the handler
// finish after that many events, for early-abort tests.
type recorder struct {
	events []ItemOrAccess
	limit  int
}

func (r *recorder) HandleItemOrAccess(_ *Project, _ *ProjectContext, ev ItemOrAccess) {
	r.events = append(r.events, ev)
}

func (r *recorder) Finished() bool {
	return r.limit > 0 && len(r.events) >= r.limit
}

// bodyRecorder additionally opts in to every function body.
type bodyRecorder struct {
	recorder
}

func (*bodyRecorder) ShouldVisitBody(ast.FileRange) bool { return true }

// coinFixture builds one file holding two modules:
//
//	module 0x2::coin {
//	    struct Wallet { coin: Coin<u64> }
//	    struct Coin<T> { value: T }
//	    const MAX: u64 = 100;
//	    public fun get_value<T>(c: &Coin<T>): &T { &c.value }
//	    fun internal_only() {}
//	    public fun make(): Coin<u64> { Coin { value: 1 } }
//	    public(friend) fun friendly() {}
//	    #[test_only] public fun test_helper() {}
//	    friend 0x4::other;
//	}
//
//	module 0x4::other {
//	    use 0x2::coin::{Self as C, get_value as gv};
//	    public fun call_make() { let c = C::make(); gv(&c); }
//	    public fun try_internal() { 0x2::coin::internal_only(); }
//	    public fun try_friend() { 0x2::coin::friendly(); }
//	    public fun try_testonly() { 0x2::coin::test_helper(); }
//	    #[test] fun in_test() { 0x2::coin::test_helper(); }
//	}
func coinFixture(fx *fixture) []ast.Definition {
	coinAddr := fx.anon("0x2")
	wallet := &ast.StructDefinition{
		Loc:  fx.loc(),
		Name: fx.name("Wallet"),
		Fields: []ast.StructField{
			{Field: fx.name("coin"), Type: fx.namedType("Coin", fx.namedType("u64"))},
		},
	}
	coinStruct := &ast.StructDefinition{
		Loc:            fx.loc(),
		Name:           fx.name("Coin"),
		TypeParameters: []ast.DatatypeTypeParameter{{Name: fx.name("T")}},
		Fields: []ast.StructField{
			{Field: fx.name("value"), Type: fx.namedType("T")},
		},
	}
	maxConst := &ast.Constant{
		Loc:       fx.loc(),
		Name:      fx.name("MAX"),
		Signature: fx.namedType("u64"),
		Value:     fx.num("100"),
	}
	getValue := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("get_value"),
		Visibility: ast.VisPublic,
		Signature: ast.FunctionSignature{
			TypeParameters: []ast.TypeParameter{{Name: fx.name("T")}},
			Parameters: []ast.FunctionParameter{
				{Var: fx.name("c"), Type: fx.refType(false, fx.namedType("Coin", fx.namedType("T")))},
			},
			ReturnType: fx.refType(false, fx.namedType("T")),
		},
		Body: fx.body(nil, &ast.BorrowExp{
			Loc: fx.loc(),
			Exp: &ast.DotExp{Loc: fx.loc(), LHS: fx.nameExp("c"), Field: fx.name("value")},
		}),
	}
	internalOnly := &ast.Function{
		Loc:  fx.loc(),
		Name: fx.name("internal_only"),
		Body: fx.body(nil, nil),
	}
	valueField := fx.name("value")
	make := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("make"),
		Visibility: ast.VisPublic,
		Signature: ast.FunctionSignature{
			ReturnType: fx.namedType("Coin", fx.namedType("u64")),
		},
		Body: fx.body(nil, &ast.PackExp{
			Loc:    fx.loc(),
			Chain:  fx.single("Coin"),
			Fields: []ast.PackField{{Field: valueField, Exp: fx.num("1")}},
		}),
	}
	friendly := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("friendly"),
		Visibility: ast.VisFriend,
		Body:       fx.body(nil, nil),
	}
	testHelper := &ast.Function{
		Attributes: []ast.Attribute{{Loc: fx.loc(), Name: "test_only"}},
		Loc:        fx.loc(),
		Name:       fx.name("test_helper"),
		Visibility: ast.VisPublic,
		Body:       fx.body(nil, nil),
	}
	friendDecl := &ast.FriendDecl{
		Loc:    fx.loc(),
		Friend: fx.qualified("0x4", []string{"other"}),
	}
	coinMod := &ast.ModuleDefinition{
		Loc:     fx.loc(),
		Address: &coinAddr,
		Name:    fx.name("coin"),
		Members: []ast.ModuleMember{
			wallet, coinStruct, maxConst, getValue, internalOnly, make,
			friendly, testHelper, friendDecl,
		},
	}

	otherAddr := fx.anon("0x4")
	useCoin := &ast.UseDecl{
		Loc: fx.loc(),
		Module: ast.ModuleIdent{
			Loc:     fx.loc(),
			Address: fx.anon("0x2"),
			Module:  fx.name("coin"),
		},
		HasMembers: true,
		Members: []ast.UseMember{
			{Name: fx.name("Self"), Alias: namePtr(fx.name("C"))},
			{Name: fx.name("get_value"), Alias: namePtr(fx.name("gv"))},
		},
	}
	callMake := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("call_make"),
		Visibility: ast.VisPublic,
		Body: fx.body([]ast.SequenceItem{
			&ast.SeqBind{
				Binds: &ast.BindList{Loc: fx.loc(), Binds: []ast.Bind{&ast.VarBind{Var: fx.name("c")}}},
				Exp:   fx.call(fx.aliased("C", "make")),
			},
			&ast.SeqExp{Exp: fx.call(fx.single("gv"), &ast.BorrowExp{Loc: fx.loc(), Exp: fx.nameExp("c")})},
		}, nil),
	}
	tryInternal := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("try_internal"),
		Visibility: ast.VisPublic,
		Body: fx.body([]ast.SequenceItem{
			&ast.SeqExp{Exp: fx.call(fx.qualified("0x2", []string{"coin", "internal_only"}))},
		}, nil),
	}
	tryFriend := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("try_friend"),
		Visibility: ast.VisPublic,
		Body: fx.body([]ast.SequenceItem{
			&ast.SeqExp{Exp: fx.call(fx.qualified("0x2", []string{"coin", "friendly"}))},
		}, nil),
	}
	tryTestOnly := &ast.Function{
		Loc:        fx.loc(),
		Name:       fx.name("try_testonly"),
		Visibility: ast.VisPublic,
		Body: fx.body([]ast.SequenceItem{
			&ast.SeqExp{Exp: fx.call(fx.qualified("0x2", []string{"coin", "test_helper"}))},
		}, nil),
	}
	inTest := &ast.Function{
		Attributes: []ast.Attribute{{Loc: fx.loc(), Name: "test"}},
		Loc:        fx.loc(),
		Name:       fx.name("in_test"),
		Body: fx.body([]ast.SequenceItem{
			&ast.SeqExp{Exp: fx.call(fx.qualified("0x2", []string{"coin", "test_helper"}))},
		}, nil),
	}
	otherMod := &ast.ModuleDefinition{
		Loc:     fx.loc(),
		Address: &otherAddr,
		Name:    fx.name("other"),
		Members: []ast.ModuleMember{
			useCoin, callMake, tryInternal, tryFriend, tryTestOnly, inTest,
		},
	}

	return []ast.Definition{coinMod, otherMod}
}

// coinProject loads the coin fixture into a fresh project.
func coinProject() (*Project, *fixture) {
	fx := newFixture("coin.move")
	defs := coinFixture(fx)
	p := NewProject(nil, nil)
	pkg := p.AddPackage("fixture")
	p.AddFile(pkg, "/src/coin.move", fx.hash, KindSource, defs)
	return p, fx
}
