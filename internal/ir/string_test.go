package ir

import "testing"

func TestStringRendersNestedGenericRef(t *testing.T) {
	r := &Ref{
		Referent: TypeName{File: "a.d.ts", Ident: Name("Array")},
		TypeArgs: []TypeInfo{&Primitive{Kind: PrimString}},
	}
	if got, want := r.String(), "Array<string>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringRendersUnion(t *testing.T) {
	u := &Union{Types: []TypeInfo{&Primitive{Kind: PrimString}, &Primitive{Kind: PrimNumber}}}
	if got, want := u.String(), "string | number"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringRendersFuncSignature(t *testing.T) {
	f := &Func{
		Params: []Param{{Name: "x", Type: &Primitive{Kind: PrimNumber}}},
		Return: &Primitive{Kind: PrimBoolean},
	}
	if got, want := f.String(), "(x: number) => boolean"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringHandlesNilChildAsAny(t *testing.T) {
	a := &Array{Item: nil}
	if got, want := a.String(), "any[]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNamespaceImportStringDispatchesOnUnderlyingKind(t *testing.T) {
	var n NamespaceImport = &ImportNamed{Src: "b.d.ts", Name: "Widget"}
	if got, want := (&n).String(), "import Widget from b.d.ts"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTypeStringCombinesNameAndInfo(t *testing.T) {
	ty := Type{Name: TypeName{File: "a.d.ts", Ident: Name("N")}, Info: &Primitive{Kind: PrimAny}}
	if got, want := ty.String(), "N: any"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
