package dtsparse

// parseInterfaceMember parses one member of an interface body or object
// type literal: a call signature, construct signature, index signature,
// method signature, or property signature.
func (p *Parser) parseInterfaceMember() InterfaceMember {
	if p.at(OpenParen) || p.at(LessThan) {
		typeParams := p.parseTypeParams()
		params := p.parseParams()
		var ret TypeAnn
		if p.consumeIf(Colon) {
			ret = p.parseReturnTypeAnn()
		}
		return &CallSig{TypeParams: typeParams, Params: params, ReturnType: ret}
	}
	if p.at(KwNew) {
		p.next()
		typeParams := p.parseTypeParams()
		params := p.parseParams()
		var ret TypeAnn
		if p.consumeIf(Colon) {
			ret = p.parseTypeAnn()
		}
		return &ConstructSig{TypeParams: typeParams, Params: params, ReturnType: ret}
	}

	readonly := p.consumeIf(KwReadonly)

	if p.at(OpenBracket) {
		return p.parseIndexLikeMember(readonly)
	}

	name, ok := p.parseMemberName()
	if !ok {
		p.skipTo(Comma, Semicolon, CloseBrace)
		return nil
	}

	optional := p.consumeIf(Question)
	if p.at(OpenParen) || p.at(LessThan) {
		typeParams := p.parseTypeParams()
		params := p.parseParams()
		var ret TypeAnn
		if p.consumeIf(Colon) {
			ret = p.parseReturnTypeAnn()
		}
		return &MethodSig{Name: name, Optional: optional, TypeParams: typeParams, Params: params, ReturnType: ret}
	}

	var typeAnn TypeAnn
	if p.consumeIf(Colon) {
		typeAnn = p.parseTypeAnn()
	}
	return &PropertySig{Name: name, Optional: optional, Readonly: readonly, TypeAnn: typeAnn}
}

// parseIndexLikeMember parses `[name: KeyType]: ValueType`. The mapped-type
// key-remapping form `[K in Keys]: V` is syntactically similar but is a
// Non-goal; when the bracket body isn't a `name: Type` pair, it is
// discarded (returns nil) rather than misread as an index signature.
func (p *Parser) parseIndexLikeMember(readonly bool) InterfaceMember {
	p.expect(OpenBracket)
	p.expect(Ident) // key name, e.g. the `key` in `[key: string]`
	if !p.consumeIf(Colon) {
		p.skipTo(CloseBracket)
		p.consumeIf(CloseBracket)
		p.consumeIf(Colon)
		p.skipTo(Comma, Semicolon, CloseBrace)
		return nil
	}
	keyType := p.parseTypeAnn()
	p.expect(CloseBracket)
	var valueType TypeAnn
	if p.consumeIf(Colon) {
		valueType = p.parseTypeAnn()
	}
	return &IndexSig{Readonly: readonly, KeyType: keyType, ValueType: valueType}
}

// parseMemberName accepts the identifier, string-literal, or numeric-literal
// spellings TypeScript allows for a member name.
func (p *Parser) parseMemberName() (string, bool) {
	switch p.tok.Kind {
	case Ident, KwGet, KwSet, KwDefault, KwStatic, KwConstructor:
		return p.next().Value, true
	case StrLit, NumLit:
		return p.next().Value, true
	default:
		return "", false
	}
}

func (p *Parser) parseInterface(export bool) *InterfaceDecl {
	p.next() // interface
	name, _ := p.expect(Ident)
	decl := &InterfaceDecl{Name: name.Value, Export: export}
	decl.TypeParams = p.parseTypeParams()
	if p.consumeIf(KwExtends) {
		decl.Extends = p.parseHeritageList()
	}
	decl.Members = p.parseObjectMembers()
	return decl
}

func (p *Parser) parseHeritageList() []QualIdentRef {
	var out []QualIdentRef
	for {
		name := p.parseQualIdentExpr()
		ref := QualIdentRef{Name: name}
		if p.at(LessThan) {
			ref.TypeArgs = p.parseTypeArgs()
		}
		out = append(out, ref)
		if !p.consumeIf(Comma) {
			break
		}
	}
	return out
}

func (p *Parser) parseClass(export bool) *ClassDecl {
	p.consumeIf(KwAbstract)
	p.next() // class
	name, _ := p.expect(Ident)
	decl := &ClassDecl{Name: name.Value, Export: export}
	decl.TypeParams = p.parseTypeParams()
	if p.consumeIf(KwExtends) {
		refs := p.parseHeritageList()
		if len(refs) > 0 {
			decl.Extends = &refs[0]
		}
	}
	if p.consumeIf(KwImplements) {
		decl.Implements = p.parseHeritageList()
	}
	decl.Members = p.parseClassMembers()
	return decl
}

func (p *Parser) parseClassMembers() []ClassMember {
	p.expect(OpenBrace)
	var out []ClassMember
	for !p.at(CloseBrace) && !p.at(EOF) {
		m := p.parseClassMember()
		if m != nil {
			out = append(out, m)
		}
		p.consumeIf(Semicolon)
	}
	p.expect(CloseBrace)
	return out
}

func (p *Parser) parseClassMember() ClassMember {
	static := false
	private := false
	readonly := false
	abstract := false
modifierLoop:
	for {
		switch p.tok.Kind {
		case KwStatic:
			static = true
			p.next()
		case KwPrivate:
			private = true
			p.next()
		case KwProtected:
			p.next() // treated as visible; only `private` hides a member
		case KwPublic:
			p.next()
		case KwReadonly:
			readonly = true
			p.next()
		case KwAbstract:
			abstract = true
			p.next()
		case KwGet, KwSet:
			// accessor keyword is consumed here and the member parsed as a
			// regular method; getter/setter distinction isn't modelled.
			p.next()
		default:
			break modifierLoop
		}
	}
	_ = abstract

	if p.at(KwConstructor) {
		p.next()
		params := p.parseParams()
		if p.consumeIf(Colon) {
			p.skipTo(OpenBrace, Semicolon)
		}
		return &CtorMember{Params: params}
	}

	if p.at(OpenBracket) {
		idx := p.parseIndexLikeMember(readonly)
		if sig, ok := idx.(*IndexSig); ok {
			return &IndexMember{Readonly: sig.Readonly, KeyType: sig.KeyType, ValueType: sig.ValueType}
		}
		return nil
	}

	name, ok := p.parseMemberName()
	if !ok {
		p.skipTo(Semicolon, CloseBrace)
		return nil
	}

	optional := p.consumeIf(Question)

	if p.at(OpenParen) || p.at(LessThan) {
		typeParams := p.parseTypeParams()
		params := p.parseParams()
		var ret TypeAnn
		if p.consumeIf(Colon) {
			ret = p.parseReturnTypeAnn()
		}
		return &MethodMember{Name: name, Static: static, Private: private, TypeParams: typeParams, Params: params, ReturnType: ret}
	}

	var typeAnn TypeAnn
	if p.consumeIf(Colon) {
		typeAnn = p.parseTypeAnn()
	}
	if p.consumeIf(Equal) {
		p.skipTo(Semicolon)
	}
	return &PropertyMember{Name: name, Static: static, Private: private, Readonly: readonly, Optional: optional, TypeAnn: typeAnn}
}
