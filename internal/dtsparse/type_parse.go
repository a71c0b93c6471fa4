package dtsparse

import "strconv"

// parseTypeAnn parses a full type annotation: unions of intersections of
// primary types, with postfix array suffixes and reference type arguments
// handled inside parsePrimaryType.
func (p *Parser) parseTypeAnn() TypeAnn {
	t := p.parseIntersection()
	if !p.at(Pipe) {
		return p.maybeConditional(t)
	}
	types := []TypeAnn{t}
	for p.consumeIf(Pipe) {
		types = append(types, p.parseIntersection())
	}
	return p.maybeConditional(&UnionTypeAnn{Types: types})
}

func (p *Parser) parseIntersection() TypeAnn {
	t := p.parsePostfix()
	if !p.at(Amp) {
		return t
	}
	types := []TypeAnn{t}
	for p.consumeIf(Amp) {
		types = append(types, p.parsePostfix())
	}
	return &IntersectionTypeAnn{Types: types}
}

// maybeConditional swallows a trailing `extends X ? Y : Z` conditional-type
// clause. Conditional types aren't represented in the IR; the
// already-parsed check type is discarded in favour of an Unsupported
// placeholder so a malformed partial parse never reaches the collector.
func (p *Parser) maybeConditional(t TypeAnn) TypeAnn {
	if !p.at(KwExtends) {
		return t
	}
	p.next()
	p.skipTo(Question)
	p.consumeIf(Question)
	p.skipTo(Colon)
	p.consumeIf(Colon)
	p.skipTo(Semicolon, Comma, CloseParen, CloseBracket, CloseBrace, GreaterThan)
	return &UnsupportedTypeAnn{Raw: "conditional-type"}
}

// parsePostfix parses a primary type followed by any number of `[]` array
// suffixes. An indexed-access suffix (`T[K]` where the bracket holds more
// than nothing) falls outside the IR's variant set, so it downgrades the
// whole expression to Unsupported.
func (p *Parser) parsePostfix() TypeAnn {
	t := p.parsePrimaryType()
	for p.at(OpenBracket) {
		p.next()
		if p.consumeIf(CloseBracket) {
			t = &ArrayTypeAnn{Elem: t}
			continue
		}
		p.skipTo(CloseBracket)
		p.consumeIf(CloseBracket)
		t = &UnsupportedTypeAnn{Raw: "indexed-access"}
	}
	return t
}

func (p *Parser) parsePrimaryType() TypeAnn {
	switch p.tok.Kind {
	case KwAny:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKAny}
	case KwNumber:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKNumber}
	case KwObject:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKObject}
	case KwBoolean:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKBoolean}
	case KwBigint:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKBigint}
	case KwString:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKString}
	case KwSymbol:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKSymbol}
	case KwVoid:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKVoid}
	case KwUndefined:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKUndefined}
	case KwNull:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKNull}
	case KwUnknown:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKUnknown}
	case KwNever:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKNever}
	case KwIntrinsic:
		p.next()
		return &PrimitiveTypeAnn{Keyword: PKIntrinsic}
	case KwTrue:
		p.next()
		return &LitTypeAnn{Kind: LitBooleanKind, Bool: true}
	case KwFalse:
		p.next()
		return &LitTypeAnn{Kind: LitBooleanKind, Bool: false}
	case StrLit:
		t := p.next()
		return &LitTypeAnn{Kind: LitStringKind, Str: t.Value}
	case NumLit:
		t := p.next()
		if len(t.Value) > 0 && t.Value[len(t.Value)-1] == 'n' {
			return &LitTypeAnn{Kind: LitBigintKind, Str: t.Value}
		}
		return &LitTypeAnn{Kind: LitNumberKind, Num: parseFloatLenient(t.Value)}
	case Backtick:
		t := p.next()
		return &LitTypeAnn{Kind: LitTemplateKind, Str: t.Value}
	case KwTypeof:
		p.next()
		name := p.parseQualIdentExpr()
		return &TypeofTypeAnn{Name: name}
	case KwKeyof:
		p.next()
		return &KeyofTypeAnn{Operand: p.parsePostfix()}
	case KwInfer:
		p.next()
		p.consumeIf(Ident)
		return &UnsupportedTypeAnn{Raw: "infer"}
	case KwNew:
		p.next()
		params := p.parseParams()
		p.expect(Arrow)
		p.parseTypeAnn() // return type is parsed and dropped
		return &ConstructorTypeAnn{Params: params}
	case OpenBracket:
		return p.parseTupleType()
	case OpenBrace:
		return &ObjectTypeAnn{Members: p.parseObjectMembers()}
	case OpenParen:
		return p.parseParenOrFuncType()
	case LessThan:
		// generic function type `<T>(x: T) => T`
		typeParams := p.parseTypeParams()
		params := p.parseParams()
		p.expect(Arrow)
		ret := p.parseTypeAnn()
		return &FuncTypeAnn{TypeParams: typeParams, Params: params, Return: ret}
	case Ident:
		name := p.parseQualIdentExpr()
		var args []TypeAnn
		if p.at(LessThan) {
			args = p.parseTypeArgs()
		}
		return &RefTypeAnn{Name: name, TypeArgs: args}
	default:
		// Unrecognised start of a type: consume one token so callers make
		// forward progress, and surface it for collector-side diagnosis.
		t := p.next()
		return &UnsupportedTypeAnn{Raw: t.Value}
	}
}

func (p *Parser) parseQualIdentExpr() QualIdent {
	var parts []string
	if t, ok := p.expect(Ident); ok {
		parts = append(parts, t.Value)
	}
	for p.consumeIf(Dot) {
		if t, ok := p.expect(Ident); ok {
			parts = append(parts, t.Value)
		}
	}
	return QualIdent{Parts: parts}
}

func (p *Parser) parseTupleType() *TupleTypeAnn {
	p.expect(OpenBracket)
	var types []TypeAnn
	for !p.at(CloseBracket) && !p.at(EOF) {
		p.consumeIf(DotDotDot) // rest element, spread not modelled separately
		// tuple label `name: T`: skip the label if present.
		if p.at(Ident) {
			save := p.lex.Save()
			savedTok := p.tok
			p.next()
			p.consumeIf(Question)
			if p.at(Colon) {
				p.next()
			} else {
				p.lex.Restore(save)
				p.tok = savedTok
			}
		}
		types = append(types, p.parseTypeAnn())
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(CloseBracket)
	return &TupleTypeAnn{Types: types}
}

// parseParenOrFuncType disambiguates `(T)` (a parenthesised type) from
// `(a: T) => R` (a function type) by attempting the function-type parse
// first and rewinding if no arrow follows.
func (p *Parser) parseParenOrFuncType() TypeAnn {
	save := p.lex.Save()
	savedTok := p.tok

	params := p.tryParseParams()
	if params != nil && p.at(Arrow) {
		p.next()
		ret := p.parseTypeAnn()
		return &FuncTypeAnn{Params: *params, Return: ret}
	}

	p.lex.Restore(save)
	p.tok = savedTok
	p.expect(OpenParen)
	inner := p.parseTypeAnn()
	p.expect(CloseParen)
	return inner
}

// tryParseParams returns nil, consuming nothing, when the current token is
// not `(`; otherwise it runs parseParams and returns the result, leaving
// the lexer wherever parseParams stopped (the caller restores it if no
// arrow follows).
func (p *Parser) tryParseParams() *[]Param {
	if !p.at(OpenParen) {
		return nil
	}
	params := p.parseParams()
	return &params
}

func (p *Parser) parseObjectMembers() []InterfaceMember {
	p.expect(OpenBrace)
	var out []InterfaceMember
	for !p.at(CloseBrace) && !p.at(EOF) {
		m := p.parseInterfaceMember()
		if m != nil {
			out = append(out, m)
		}
		if !p.consumeIf(Comma) {
			p.consumeIf(Semicolon)
		}
	}
	p.expect(CloseBrace)
	return out
}

func parseFloatLenient(s string) float64 {
	s = trimTrailing(s, 'n')
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func trimTrailing(s string, r byte) string {
	if len(s) > 0 && s[len(s)-1] == r {
		return s[:len(s)-1]
	}
	return s
}
