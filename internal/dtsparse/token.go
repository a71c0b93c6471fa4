package dtsparse

import "github.com/tsbindgen/tsbindgen/internal/span"

// TokenKind enumerates the lexical categories the lexer produces. The set
// is deliberately smaller than a full TypeScript lexer's: it only needs
// to recognise the declaration- and type-level syntax the rest of the
// parser actually consumes.
type TokenKind int

const (
	EOF TokenKind = iota
	Ident
	StrLit
	NumLit

	// Keywords
	KwImport
	KwExport
	KwFrom
	KwAs
	KwDefault
	KwType
	KwInterface
	KwExtends
	KwImplements
	KwClass
	KwAbstract
	KwEnum
	KwNamespace
	KwModule
	KwDeclare
	KwFunction
	KwVar
	KwLet
	KwConst
	KwReadonly
	KwNew
	KwTypeof
	KwKeyof
	KwInfer
	KwIs
	KwStatic
	KwPrivate
	KwProtected
	KwPublic
	KwGet
	KwSet
	KwAny
	KwUnknown
	KwNever
	KwIntrinsic
	KwVoid
	KwUndefined
	KwNull
	KwBoolean
	KwNumber
	KwString
	KwSymbol
	KwBigint
	KwObject
	KwTrue
	KwFalse
	KwConstructor

	// Punctuation
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	Comma
	Semicolon
	Colon
	Question
	Bang
	Pipe
	Amp
	Equal
	Arrow
	Dot
	DotDotDot
	Asterisk
	LessThan
	GreaterThan
	Backtick
)

type Token struct {
	Kind  TokenKind
	Value string
	Span  span.Span
}

var keywords = map[string]TokenKind{
	"import": KwImport, "export": KwExport, "from": KwFrom, "as": KwAs,
	"default": KwDefault, "type": KwType, "interface": KwInterface,
	"extends": KwExtends, "implements": KwImplements, "class": KwClass,
	"abstract": KwAbstract, "enum": KwEnum, "namespace": KwNamespace,
	"module": KwModule, "declare": KwDeclare, "function": KwFunction,
	"var": KwVar, "let": KwLet, "const": KwConst, "readonly": KwReadonly,
	"new": KwNew, "typeof": KwTypeof, "keyof": KwKeyof, "infer": KwInfer,
	"is": KwIs, "static": KwStatic, "private": KwPrivate,
	"protected": KwProtected, "public": KwPublic, "get": KwGet, "set": KwSet,
	"any": KwAny, "unknown": KwUnknown, "never": KwNever,
	"intrinsic": KwIntrinsic, "void": KwVoid, "undefined": KwUndefined,
	"null": KwNull, "boolean": KwBoolean, "number": KwNumber,
	"string": KwString, "symbol": KwSymbol, "bigint": KwBigint,
	"object": KwObject, "true": KwTrue, "false": KwFalse,
	"constructor": KwConstructor,
}
