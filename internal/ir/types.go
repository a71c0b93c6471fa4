// Package ir holds the intermediate representation built by the ingestion
// pipeline: TypeIdent/TypeName identity (ident.go), the TypeInfo sum type
// (this file), and the per-file/program tables (table.go). The sum is
// closed with an unexported marker method, the same way a compiler's own
// internal type-system package closes its own Type interface.
package ir

// TypeInfo is the sum of every kind of type node the IR can hold.
//
//sumtype:decl
type TypeInfo interface {
	isTypeInfo()
	String() string
}

func (*Interface) isTypeInfo()      {}
func (*Class) isTypeInfo()          {}
func (*Enum) isTypeInfo()           {}
func (*Alias) isTypeInfo()          {}
func (*Ref) isTypeInfo()            {}
func (*Array) isTypeInfo()          {}
func (*Optional) isTypeInfo()       {}
func (*Mapped) isTypeInfo()         {}
func (*Union) isTypeInfo()          {}
func (*Intersection) isTypeInfo()   {}
func (*Tuple) isTypeInfo()          {}
func (*Func) isTypeInfo()           {}
func (*Constructor) isTypeInfo()    {}
func (*Var) isTypeInfo()            {}
func (*NamespaceImport) isTypeInfo() {}
func (*TypeQuery) isTypeInfo()      {}
func (*Primitive) isTypeInfo()      {}
func (*BuiltinDate) isTypeInfo()    {}
func (*BuiltinPromise) isTypeInfo() {}
func (*LitString) isTypeInfo()      {}
func (*LitNumber) isTypeInfo()      {}
func (*LitBoolean) isTypeInfo()     {}

// Primitive is one of the keyword primitive types.
type Primitive struct{ Kind PrimitiveKind }

type PrimitiveKind int

const (
	PrimAny PrimitiveKind = iota
	PrimNumber
	PrimObject
	PrimBoolean
	PrimBigint
	PrimString
	PrimSymbol
	PrimVoid
	PrimUndefined
	PrimNull
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimAny:
		return "any"
	case PrimNumber:
		return "number"
	case PrimObject:
		return "object"
	case PrimBoolean:
		return "boolean"
	case PrimBigint:
		return "bigint"
	case PrimString:
		return "string"
	case PrimSymbol:
		return "symbol"
	case PrimVoid:
		return "void"
	case PrimUndefined:
		return "undefined"
	case PrimNull:
		return "null"
	default:
		return "unknown-primitive"
	}
}

// BuiltinDate is the resolved form of a bare `Date` reference.
type BuiltinDate struct{}

// BuiltinPromise is the resolved form of `Promise<T>` (T defaults to Any
// when omitted).
type BuiltinPromise struct{ Value TypeInfo }

// LitString/LitNumber/LitBoolean are TypeScript literal types.
type LitString struct{ Value string }
type LitNumber struct{ Value float64 }
type LitBoolean struct{ Value bool }

// Interface carries an optional indexer, base classes, a field map, its
// declared type parameters, and an optional constructor.
type Interface struct {
	Indexer    *Indexer
	Bases      []*Ref
	Fields     map[string]TypeInfo
	TypeParams []TypeParamConfig
	Ctor       *Constructor
}

// Class carries an optional super-reference, its members, declared type
// parameters, and the refs of any implemented interfaces.
type Class struct {
	Super      *Ref
	Members    map[string]Member
	TypeParams []TypeParamConfig
	Implements []*Ref
}

// Member is the sum of the three kinds of class/interface member.
//
//sumtype:decl
type Member interface{ isMember() }

func (*CtorMember) isMember()  {}
func (*MethodMember) isMember() {}
func (*PropertyMember) isMember() {}

type CtorMember struct{ Ctor *Constructor }
type MethodMember struct{ Func *Func }
type PropertyMember struct{ Type TypeInfo }

// Enum carries an ordered list of members with optional literal values.
type Enum struct {
	Members []EnumMember
}

type EnumMember struct {
	ID    string
	Value EnumValue // nil if unspecified
}

// EnumValue is either a string or a number.
type EnumValue interface{ isEnumValue() }

func (EnumValueString) isEnumValue() {}
func (EnumValueNumber) isEnumValue() {}

type EnumValueString string
type EnumValueNumber float64

// Alias is a `type X = …` declaration.
type Alias struct {
	Target     TypeInfo
	TypeParams []TypeParamConfig
}

// Ref is a reference to another type, plus any actual type-parameter
// arguments supplied at the use site.
type Ref struct {
	Referent TypeName
	TypeArgs []TypeInfo
}

// Array, Optional, Mapped each wrap exactly one child TypeInfo.
type Array struct{ Item TypeInfo }
type Optional struct{ Item TypeInfo }
type Mapped struct{ Value TypeInfo }

// Union, Intersection, Tuple each carry an ordered list of children.
type Union struct{ Types []TypeInfo }
type Intersection struct{ Types []TypeInfo }
type Tuple struct{ Types []TypeInfo }

// Param is one parameter of a Func or Constructor.
type Param struct {
	Name       string
	Type       TypeInfo
	IsVariadic bool
}

// Func is a function signature. ClassName is set when the function is a
// method and names its owning class, for diagnostics only.
type Func struct {
	TypeParams []TypeParamConfig
	Params     []Param
	Return     TypeInfo
	ClassName  string
}

// Constructor is a `new (...)` signature; it has no return type of its
// own (the constructed type is implicit).
type Constructor struct {
	Params []Param
}

// Var wraps the declared type of a var/let/const binding.
type Var struct{ Type TypeInfo }

// NamespaceImport is the sum of the three import-specifier shapes.
//
//sumtype:decl
type NamespaceImport interface{ isNamespaceImport() }

func (*ImportDefault) isNamespaceImport() {}
func (*ImportAll) isNamespaceImport()     {}
func (*ImportNamed) isNamespaceImport()   {}

type ImportDefault struct{ Src FileID }
type ImportAll struct{ Src FileID }
type ImportNamed struct {
	Src  FileID
	Name string
}

// TypeQuery is `typeof x`: a Ref whose resolution yields the type of a
// value rather than the named type itself.
type TypeQuery struct{ Ref *Ref }

// Indexer is an interface's index signature, e.g. `[key: string]: V`.
type Indexer struct {
	Readonly bool
	Value    TypeInfo
}

// TypeParamConfig is a declared generic parameter, with its optional
// constraint and default.
type TypeParamConfig struct {
	Name           string
	Constraint     TypeInfo // nil if absent
	DefaultTypeArg TypeInfo // nil if absent
}

// Type is a top-level IR record: a named, possibly-exported declaration.
type Type struct {
	Name       TypeName
	IsExported bool
	Info       TypeInfo
}
