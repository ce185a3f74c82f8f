package internal

import "path/filepath"

type callStack struct {
	function  string
	class     bool
	loopCount int
}

// parser stores parser data
type parser struct {
	current int

	// groupDepth counts the open parens and brackets, newlines
	// are not significant while it is greater than zero
	groupDepth int

	cls []*callStack

	state *interpreterState
}

func (p *parser) getParsingContext() *callStack {
	return p.cls[len(p.cls)-1]
}

func (p *parser) enterFunction(name string) {
	p.cls = append(p.cls, &callStack{
		function:  name,
		loopCount: 0,
	})
}

func (p *parser) enterClass(name string) {
	p.cls = append(p.cls, &callStack{
		function: name,
		class:    true,
	})
}

func (p *parser) leave() {
	p.cls = p.cls[:len(p.cls)-1]
}

func (p *parser) enterLoop() {
	pc := p.getParsingContext()
	pc.loopCount++
}

func (p *parser) leaveLoop() {
	pc := p.getParsingContext()
	pc.loopCount--
}

func (p *parser) insideLoop() bool {
	return p.getParsingContext().loopCount != 0
}

func (p *parser) insideFunction() bool {
	pc := p.getParsingContext()
	return len(p.cls) > 1 && !pc.class
}

const maxFunctionParams = 255

func (p *parser) parse() {
	p.cls = make([]*callStack, 0)
	p.enterFunction("")
	defer p.leave()
	p.skipNewlines()
	for !p.isAtEnd() {
		st := p.parseStmt()
		if st != nil {
			p.state.stmts = append(p.state.stmts, st)
		}
		p.skipNewlines()
	}
}

// parseInline parses a template produced at runtime by the inline
// expression operator. It must hold exactly one expression.
func (p *parser) parseInline() (e expr) {
	p.cls = []*callStack{{function: ""}}
	p.groupDepth = 1
	defer func() {
		if r := recover(); r != nil {
			e = nil
		}
	}()
	e = p.expression()
	if !p.isAtEnd() {
		p.state.setError(errExpectedExpression, p.peek().line, p.peek().lexeme)
		return nil
	}
	return e
}

func (p *parser) parseStmt() stmt {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()
	return p.declaration()
}

func (p *parser) declaration() stmt {
	var s stmt
	if p.match(tkClass) {
		s = p.class()
	} else if p.check(tkFn) && p.peekNext().token == tkIdentifier {
		p.advance()
		s = p.fn()
	} else if p.match(tkLet) {
		s = p.let()
	} else if p.match(tkInclude) {
		s = p.include()
	} else if p.match(tkImport) {
		s = p.importStmt()
	} else {
		s = p.statement()
	}
	p.endStatement()
	return s
}

func (p *parser) endStatement() {
	if p.match(tkNewline, tkSemicolon) {
		return
	}
	if p.check(tkRightCurlyBrace) || p.isAtEnd() {
		return
	}
	p.state.fatalError(errExpectedNewline, p.peek().line, p.peek().lexeme)
}

func (p *parser) class() stmt {
	name := p.consume(tkIdentifier, errExpectedClassName)

	var params []*token
	if p.check(tkLeftParen) {
		params = p.params()
	}

	p.enterClass(name.lexeme)
	defer p.leave()

	p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)

	return &classStmt{
		name:   name,
		params: params,
		body:   p.block(),
	}
}

func (p *parser) fn() *fnStmt {
	name := p.consume(tkIdentifier, errExpectedFunctionName)

	params := p.params()

	p.enterFunction(name.lexeme)
	defer p.leave()

	p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)

	return &fnStmt{
		name:   name,
		params: params,
		body:   p.block(),
	}
}

func (p *parser) fnExpr() *functionExpr {
	keyword := p.previous()

	params := p.params()

	p.enterFunction("lambda")
	defer p.leave()

	p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)

	return &functionExpr{
		keyword: keyword,
		params:  params,
		body:    p.block(),
	}
}

func (p *parser) params() []*token {
	p.consume(tkLeftParen, errExpectedParen)
	p.groupDepth++

	params := make([]*token, 0)
	if !p.check(tkRightParen) {
		for {
			if len(params) >= maxFunctionParams {
				p.state.fatalError(errMaxParameters, p.peek().line, p.peek().lexeme)
			}
			params = append(params, p.consume(tkIdentifier, errExpectedFunctionParam))
			if !p.match(tkComma) {
				break
			}
		}
	}
	p.consume(tkRightParen, errUnclosedParen)
	p.groupDepth--
	return params
}

func (p *parser) let() stmt {
	// const is only special right after let
	constant := false
	if p.check(tkIdentifier) && p.peek().lexeme == "const" && p.peekNext().token == tkIdentifier {
		p.advance()
		constant = true
	}

	name := p.consume(tkIdentifier, errExpectedIdentifier)

	var init expr
	if p.match(tkEqual) {
		p.skipNewlines()
		init = p.expression()
	} else if constant {
		p.state.fatalError(errUninitializedConstant, name.line, name.lexeme)
	}

	return &letStmt{
		name:        name,
		initializer: init,
		constant:    constant,
	}
}

// sourceDir is where module paths of this source are resolved from
func (p *parser) sourceDir() string {
	if p.state.absPath == "" {
		return ""
	}
	return filepath.Dir(p.state.absPath)
}

func (p *parser) include() stmt {
	keyword := p.previous()
	path := p.consume(tkString, errExpectedModulePath)
	return &includeStmt{
		keyword: keyword,
		path:    path,
		dir:     p.sourceDir(),
	}
}

func (p *parser) importStmt() stmt {
	keyword := p.previous()
	path := p.consume(tkString, errExpectedModulePath)
	if !p.check(tkIdentifier) || p.peek().lexeme != "as" {
		p.state.fatalError(errExpectedAs, p.peek().line, p.peek().lexeme)
	}
	p.advance()
	name := p.consume(tkIdentifier, errExpectedClassName)
	return &importStmt{
		keyword: keyword,
		path:    path,
		dir:     p.sourceDir(),
		name:    name,
	}
}

func (p *parser) statement() stmt {
	if p.match(tkIf) {
		return p.ifStmt()
	}
	if p.match(tkLoop) {
		return p.loop()
	}
	if p.match(tkReturn) {
		return p.ret()
	}
	if p.match(tkBreak) {
		return p.brk()
	}
	if p.match(tkLeftCurlyBrace) {
		return &blockStmt{stmts: p.block()}
	}
	return p.expressionStmt()
}

func (p *parser) ifStmt() stmt {
	st := &ifStmt{
		keyword: p.previous(),
	}

	st.condition = p.expression()

	p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)
	st.thenBranch = p.block()

	// else may start on the line following the closing brace
	save := p.current
	p.skipNewlines()
	if p.match(tkElse) {
		if p.match(tkIf) {
			st.elseBranch = []stmt{p.ifStmt()}
		} else {
			p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)
			st.elseBranch = p.block()
		}
	} else {
		p.current = save
	}

	return st
}

func (p *parser) loop() stmt {
	keyword := p.previous()
	p.enterLoop()
	defer p.leaveLoop()
	p.consume(tkLeftCurlyBrace, errExpectedOpeningCurlyBrace)
	return &loopStmt{
		keyword: keyword,
		body:    p.block(),
	}
}

func (p *parser) ret() stmt {
	keyword := p.previous()
	if !p.insideFunction() {
		p.state.fatalError(errReturnOutsideFunction, keyword.line, keyword.lexeme)
	}
	var value expr
	if !p.check(tkNewline) && !p.check(tkSemicolon) && !p.check(tkRightCurlyBrace) && !p.isAtEnd() {
		value = p.expression()
	}
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) brk() stmt {
	keyword := p.previous()
	if !p.insideLoop() {
		p.state.setError(errOnlyAllowedInsideLoop, keyword.line, keyword.lexeme)
	}
	return &breakStmt{
		keyword: keyword,
	}
}

func (p *parser) block() []stmt {
	depth := p.groupDepth
	p.groupDepth = 0
	defer func() {
		p.groupDepth = depth
	}()

	stmts := make([]stmt, 0)
	p.skipNewlines()
	for !p.check(tkRightCurlyBrace) && !p.isAtEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
		p.skipNewlines()
	}
	p.consume(tkRightCurlyBrace, errExpectedClosingCurlyBrace)
	return stmts
}

func (p *parser) expressionStmt() stmt {
	expr := p.expression()
	return &exprStmt{
		last:       p.previous(),
		expression: expr,
	}
}

func (p *parser) expression() expr {
	return p.assignment()
}

func (p *parser) assignment() expr {
	expr := p.or()
	if p.match(tkEqual, tkPlusEqual, tkMinusEqual, tkStarEqual, tkSlashEqual) {
		operator := p.previous()
		p.skipNewlines()
		value := p.assignment()

		if variable, isVar := expr.(*variableExpr); isVar {
			return &assignExpr{
				name:     variable.name,
				operator: operator,
				value:    value,
			}
		}

		p.state.fatalError(errInvalidAssignment, operator.line, operator.lexeme)
	}
	return expr
}

func (p *parser) or() expr {
	expr := p.and()
	for p.match(tkOr) {
		operator := p.previous()
		p.skipNewlines()
		right := p.and()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) and() expr {
	expr := p.equality()
	for p.match(tkAnd) {
		operator := p.previous()
		p.skipNewlines()
		right := p.equality()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) binary(next func() expr, operators ...tokenType) expr {
	expr := next()
	for p.match(operators...) {
		operator := p.previous()
		p.skipNewlines()
		right := next()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) equality() expr {
	return p.binary(p.comparison, tkEqualEqual, tkBangEqual, tkEqualEqualEqual, tkBangEqualEqual)
}

func (p *parser) comparison() expr {
	return p.binary(p.addition, tkGreater, tkGreaterEqual, tkLess, tkLessEqual)
}

func (p *parser) addition() expr {
	return p.binary(p.multiplication, tkPlus, tkMinus)
}

func (p *parser) multiplication() expr {
	return p.binary(p.unary, tkSlash, tkMod, tkStar)
}

func (p *parser) unary() expr {
	if p.match(tkNot, tkMinus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.power()
}

// power binds tighter than unary minus, -2^2 is -(2^2)
func (p *parser) power() expr {
	expr := p.postfix()
	if p.match(tkPower) {
		operator := p.previous()
		p.skipNewlines()
		right := p.unary()
		return &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) postfix() expr {
	expr := p.call()
	if p.match(tkPlusPlus, tkMinusMinus) {
		operator := p.previous()
		if variable, isVar := expr.(*variableExpr); isVar {
			return &postfixExpr{
				name:     variable.name,
				operator: operator,
			}
		}
		p.state.fatalError(errInvalidIncrement, operator.line, operator.lexeme)
	}
	return expr
}

func (p *parser) call() expr {
	expr := p.primary()
	if variable, isVar := expr.(*variableExpr); isVar && p.match(tkColonColon) {
		expr = &staticExpr{
			class: variable.name,
			name:  p.consume(tkIdentifier, errExpectedFunctionName),
		}
	}
	for {
		if p.match(tkLeftParen) {
			expr = p.finishCall(expr)
		} else if p.match(tkDot) {
			name := p.consume(tkIdentifier, errExpectedProp)
			expr = &getExpr{
				object: expr,
				name:   name,
			}
		} else {
			break
		}
	}
	return expr
}

func (p *parser) finishCall(callee expr) expr {
	paren := p.previous()
	arguments := p.arguments(tkRightParen)
	return &callExpr{
		callee:    callee,
		arguments: arguments,
		paren:     paren,
	}
}

// arguments parses a comma separated list of expressions and the
// closing token tk
func (p *parser) arguments(tk tokenType) []expr {
	p.groupDepth++
	arguments := make([]expr, 0)
	for !p.check(tk) {
		if tk == tkRightParen && len(arguments) >= maxFunctionParams {
			p.state.fatalError(errMaxArguments, p.peek().line, p.peek().lexeme)
		}
		arguments = append(arguments, p.expression())
		if !p.match(tkComma) {
			break
		}
	}
	if tk == tkRightParen {
		p.consume(tk, errUnclosedParen)
	} else {
		p.consume(tk, errUnclosedBracket)
	}
	p.groupDepth--
	return arguments
}

func (p *parser) primary() expr {
	if p.match(tkNumber, tkString) {
		return &literalExpr{value: p.previous().literal}
	}
	if p.match(tkFalse) {
		return &literalExpr{value: hashBool(false)}
	}
	if p.match(tkTrue) {
		return &literalExpr{value: hashBool(true)}
	}
	if p.match(tkNull) {
		return &literalExpr{value: nil}
	}
	if p.match(tkIdentifier) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tkBuiltin) {
		return &builtinExpr{name: p.previous()}
	}
	if p.match(tkInline) {
		keyword := p.previous()
		p.consume(tkLeftParen, errExpectedParen)
		return &inlineExpr{
			keyword:   keyword,
			arguments: p.arguments(tkRightParen),
		}
	}
	if p.match(tkLeftParen) {
		p.groupDepth++
		expr := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		p.groupDepth--
		return &groupingExpr{expression: expr}
	}
	if p.match(tkLeftBrace) {
		brace := p.previous()
		return &arrayExpr{
			brace:    brace,
			elements: p.arguments(tkRightBrace),
		}
	}
	if p.match(tkNew) {
		keyword := p.previous()
		class := p.consume(tkIdentifier, errExpectedClassName)
		p.consume(tkLeftParen, errExpectedParen)
		return &newExpr{
			keyword:   keyword,
			class:     class,
			arguments: p.arguments(tkRightParen),
		}
	}
	if p.match(tkFn) {
		return p.fnExpr()
	}

	p.state.fatalError(errUndefinedExpr, p.peek().line, p.peek().lexeme)
	return nil
}

func (p *parser) consume(tk tokenType, err error) *token {
	if p.check(tk) {
		return p.advance()
	}

	p.state.fatalError(err, p.peek().line, p.peek().lexeme)
	return nil
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...tokenType) bool {
	for _, token := range tokens {
		if p.check(token) {
			p.current++
			return true
		}
	}
	return false
}

func (p *parser) check(tk tokenType) bool {
	if p.groupDepth > 0 && tk != tkNewline {
		p.skipNewlines()
	}
	return p.peek().token == tk
}

func (p *parser) skipNewlines() {
	for p.peek().token == tkNewline || p.peek().token == tkSemicolon {
		p.current++
	}
}

func (p *parser) peek() token {
	return p.state.tokens[p.current]
}

func (p *parser) peekNext() token {
	if p.current+1 >= len(p.state.tokens) {
		return p.state.tokens[len(p.state.tokens)-1]
	}
	return p.state.tokens[p.current+1]
}

func (p *parser) previous() *token {
	return &p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	if p.groupDepth > 0 {
		p.skipNewlines()
	}
	return p.peek().token == tkEOF
}

func (p *parser) synchronize() {
	p.groupDepth = 0
	for !p.isAtEnd() {
		if p.advance().token == tkNewline {
			return
		}
	}
}
