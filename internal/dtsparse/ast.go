// Package dtsparse is a small hand-written parser for .d.ts-shaped source
// text. It turns source into an AST with roughly the standard shape,
// trimmed to the declaration and type forms the rest of the pipeline
// actually needs.
package dtsparse

import "github.com/tsbindgen/tsbindgen/internal/span"

// File is the root of a parsed .d.ts/.ts/.tsx source file.
type File struct {
	Path       string
	Statements []Statement
}

// QualIdent is a simple or dotted name, e.g. `Foo` or `Foo.Bar`.
type QualIdent struct {
	Parts []string
	Span  span.Span
}

// Statement is the sum of everything that can appear at module or
// namespace-body level.
//
//sumtype:decl
type Statement interface{ isStatement() }

func (*ImportDecl) isStatement()             {}
func (*ExportDecl) isStatement()             {}
func (*ExportAssignmentStmt) isStatement()   {}
func (*ExportAsNamespaceStmt) isStatement()  {}
func (*AmbientDecl) isStatement()            {}
func (*NamespaceDecl) isStatement()          {}
func (*ModuleDecl) isStatement()             {}
func (*VarDecl) isStatement()                {}
func (*FuncDecl) isStatement()               {}
func (*TypeDecl) isStatement()               {}
func (*EnumDecl) isStatement()               {}
func (*ClassDecl) isStatement()              {}
func (*InterfaceDecl) isStatement()          {}

// Decl is the subset of Statement that introduces a name and can carry an
// `export` flag.
type Decl interface {
	Statement
	Exported() bool
	DeclName() string
}

// ImportSpecifier is one entry of `import { foo as bar }`.
type ImportSpecifier struct {
	Imported string
	Local    string
}

type ImportDecl struct {
	DefaultImport string // "" if absent
	NamedImports  []ImportSpecifier
	NamespaceAs   string // "" if absent
	From          string
	SideEffect    bool // `import "module"` with no bindings
}

// ExportSpecifier is one entry of `export { foo as bar }`.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportDecl covers every `export ...` form except `export =` and
// `export as namespace`, which get their own statement types below.
type ExportDecl struct {
	Declaration   Decl   // set for `export <decl>` / `export default <decl>`
	NamedExports  []ExportSpecifier
	ExportAll     bool
	ExportAllAs   string // "" unless `export * as foo from "..."`
	From          string // "" unless a re-export
	ExportDefault bool
}

type ExportAssignmentStmt struct {
	Name string // `export = Name`
}

type ExportAsNamespaceStmt struct {
	Name string
}

// AmbientDecl wraps a `declare ...` statement; its Declaration is never
// another AmbientDecl.
type AmbientDecl struct {
	Declaration Statement
}

// NamespaceDecl is `namespace N { ... }` (or the legacy `module N { ... }`
// spelling when Name has no quotes).
type NamespaceDecl struct {
	Name       string
	Statements []Statement
	Export     bool
}

// ModuleDecl is an ambient module declaration `declare module "foo" { ... }`.
// The collector rejects these with UnsupportedTypeNode when StrictMissing
// is set and otherwise skips them with a warning.
type ModuleDecl struct {
	Name       string
	Statements []Statement
}

type VarDecl struct {
	Name     string
	TypeAnn  TypeAnn // nil if untyped
	Readonly bool
	Export   bool
}

func (d *VarDecl) Exported() bool   { return d.Export }
func (d *VarDecl) DeclName() string { return d.Name }

type TypeParam struct {
	Name       string
	Constraint TypeAnn // nil if absent
	Default    TypeAnn // nil if absent
}

type Param struct {
	Name       string
	TypeAnn    TypeAnn
	Optional   bool
	IsVariadic bool
}

type FuncDecl struct {
	Name       string
	TypeParams []TypeParam
	Params     []Param
	ReturnType TypeAnn
	Export     bool
}

func (d *FuncDecl) Exported() bool   { return d.Export }
func (d *FuncDecl) DeclName() string { return d.Name }

type TypeDecl struct {
	Name       string
	TypeParams []TypeParam
	TypeAnn    TypeAnn
	Export     bool
}

func (d *TypeDecl) Exported() bool   { return d.Export }
func (d *TypeDecl) DeclName() string { return d.Name }

type EnumMember struct {
	Name  string
	Value any // nil, string, or float64
}

type EnumDecl struct {
	Name    string
	Members []EnumMember
	Export  bool
}

func (d *EnumDecl) Exported() bool   { return d.Export }
func (d *EnumDecl) DeclName() string { return d.Name }

// ClassMember is the sum of the forms a class body can contain.
//
//sumtype:decl
type ClassMember interface{ isClassMember() }

func (*CtorMember) isClassMember()     {}
func (*MethodMember) isClassMember()   {}
func (*PropertyMember) isClassMember() {}
func (*IndexMember) isClassMember()    {}

type CtorMember struct{ Params []Param }
type MethodMember struct {
	Name       string
	Static     bool
	Private    bool
	TypeParams []TypeParam
	Params     []Param
	ReturnType TypeAnn
}
type PropertyMember struct {
	Name     string
	Static   bool
	Private  bool
	Readonly bool
	Optional bool
	TypeAnn  TypeAnn
}
type IndexMember struct {
	Readonly  bool
	KeyType   TypeAnn
	ValueType TypeAnn
}

type ClassDecl struct {
	Name       string
	TypeParams []TypeParam
	Extends    *QualIdentRef
	Implements []QualIdentRef
	Members    []ClassMember
	Export     bool
}

func (d *ClassDecl) Exported() bool   { return d.Export }
func (d *ClassDecl) DeclName() string { return d.Name }

// QualIdentRef is a heritage-clause reference, e.g. the `S<T>` of
// `extends S<T>`.
type QualIdentRef struct {
	Name     QualIdent
	TypeArgs []TypeAnn
}

// InterfaceMember is the sum of the forms an interface/object-type body
// can contain.
//
//sumtype:decl
type InterfaceMember interface{ isInterfaceMember() }

func (*PropertySig) isInterfaceMember() {}
func (*MethodSig) isInterfaceMember()   {}
func (*IndexSig) isInterfaceMember()    {}
func (*CallSig) isInterfaceMember()     {}
func (*ConstructSig) isInterfaceMember() {}

type PropertySig struct {
	Name     string
	Optional bool
	Readonly bool
	TypeAnn  TypeAnn
}
type MethodSig struct {
	Name       string
	Optional   bool
	TypeParams []TypeParam
	Params     []Param
	ReturnType TypeAnn
}
type IndexSig struct {
	Readonly  bool
	KeyType   TypeAnn
	ValueType TypeAnn
}
type CallSig struct {
	TypeParams []TypeParam
	Params     []Param
	ReturnType TypeAnn
}
type ConstructSig struct {
	TypeParams []TypeParam
	Params     []Param
	ReturnType TypeAnn
}

type InterfaceDecl struct {
	Name       string
	TypeParams []TypeParam
	Extends    []QualIdentRef
	Members    []InterfaceMember
	Export     bool
}

func (d *InterfaceDecl) Exported() bool   { return d.Export }
func (d *InterfaceDecl) DeclName() string { return d.Name }
