package internal

import (
	"strconv"
	"strings"
)

type lexer struct {
	start   int
	current int
	line    int

	state *interpreterState
}

var keywords = map[string]tokenType{
	"and":     tkAnd,
	"or":      tkOr,
	"not":     tkNot,
	"class":   tkClass,
	"new":     tkNew,
	"fn":      tkFn,
	"let":     tkLet,
	"if":      tkIf,
	"else":    tkElse,
	"loop":    tkLoop,
	"break":   tkBreak,
	"return":  tkReturn,
	"true":    tkTrue,
	"false":   tkFalse,
	"null":    tkNull,
	"include": tkInclude,
	"import":  tkImport,
}

func (l *lexer) scan() {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.start = l.current
	l.emit(tkNewline)
	l.emit(tkEOF)
}

func (l *lexer) scanToken() {
	c := l.advance()
	switch c {
	case '[':
		l.emit(tkLeftBrace)
	case ']':
		l.emit(tkRightBrace)
	case '{':
		l.emit(tkLeftCurlyBrace)
	case '}':
		l.emit(tkRightCurlyBrace)
	case '(':
		l.emit(tkLeftParen)
	case ')':
		l.emit(tkRightParen)
	case ',':
		l.emit(tkComma)
	case '.':
		l.emit(tkDot)
	case ';':
		l.emit(tkSemicolon)
	case ':':
		if l.match(':') {
			l.emit(tkColonColon)
		} else {
			l.state.setError(errIllegalChar, l.line, ":")
		}
	case '^':
		l.emit(tkPower)
	case '%':
		l.emit(tkMod)
	case '-':
		if l.match('-') {
			l.emit(tkMinusMinus)
		} else if l.match('=') {
			l.emit(tkMinusEqual)
		} else {
			l.emit(tkMinus)
		}
	case '+':
		if l.match('+') {
			l.emit(tkPlusPlus)
		} else if l.match('=') {
			l.emit(tkPlusEqual)
		} else {
			l.emit(tkPlus)
		}
	case '*':
		if l.match('=') {
			l.emit(tkStarEqual)
		} else {
			l.emit(tkStar)
		}
	case '/':
		if l.match('/') {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		} else if l.match('=') {
			l.emit(tkSlashEqual)
		} else {
			l.emit(tkSlash)
		}
	case '#':
		if l.match('=') {
			l.emit(tkInline)
		} else if isAlpha(l.peek()) {
			l.builtin()
		} else {
			l.state.setError(errIllegalChar, l.line, "#")
		}
	case '!':
		if l.match('=') {
			if l.match('=') {
				l.emit(tkBangEqualEqual)
			} else {
				l.emit(tkBangEqual)
			}
		} else {
			l.state.setError(errWrongBang, l.line, "!")
		}
	case '=':
		if l.match('=') {
			if l.match('=') {
				l.emit(tkEqualEqualEqual)
			} else {
				l.emit(tkEqualEqual)
			}
		} else {
			l.emit(tkEqual)
		}
	case '<':
		if l.match('=') {
			l.emit(tkLessEqual)
		} else {
			l.emit(tkLess)
		}
	case '>':
		if l.match('=') {
			l.emit(tkGreaterEqual)
		} else {
			l.emit(tkGreater)
		}

	// Ignore whitespace
	case ' ':
	case '\r':
	case '\t':

	case '\n':
		l.emit(tkNewline)
		l.line++

	case '"':
		l.string()

	default:
		if isDigit(c) {
			l.number()
		} else if isAlpha(c) {
			l.identifier()
		} else {
			l.state.setError(errIllegalChar, l.line, string(c))
		}
	}
}

var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
}

func (l *lexer) string() {
	line := l.line
	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != '"' {
		c := l.advance()
		if c == '\n' {
			l.line++
		}
		if c == '\\' && !l.isAtEnd() {
			next := l.advance()
			if esc, ok := escapes[next]; ok {
				sb.WriteByte(esc)
			} else {
				sb.WriteByte(c)
				sb.WriteByte(next)
			}
			continue
		}
		sb.WriteByte(c)
	}

	if l.isAtEnd() {
		l.state.setError(errUnclosedString, line, l.state.source[l.start:l.current])
		return
	}

	// Consume ending "
	l.advance()

	l.emitLiteral(tkString, hashString(sb.String()))
}

func (l *lexer) number() {
	if l.state.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		literal, err := strconv.ParseUint(l.state.source[l.start+2:l.current], 16, 64)
		if err != nil {
			l.state.setError(errInvalidNumber, l.line, l.state.source[l.start:l.current])
			return
		}
		l.emitLiteral(tkNumber, hashNumber(literal))
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal, err := strconv.ParseFloat(l.state.source[l.start:l.current], 64)
	if err != nil {
		l.state.setError(errInvalidNumber, l.line, l.state.source[l.start:l.current])
		return
	}

	l.emitLiteral(tkNumber, hashNumber(literal))
}

func (l *lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	// ns#name is a single builtin token
	if l.peek() == '#' && isAlpha(l.peekNext()) {
		l.advance()
		l.builtin()
		return
	}

	identifier := l.state.source[l.start:l.current]

	tokenType, ok := keywords[identifier]
	if !ok {
		tokenType = tkIdentifier
	}

	l.emit(tokenType)
}

func (l *lexer) builtin() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.emit(tkBuiltin)
}

func (l *lexer) advance() byte {
	current := l.state.source[l.current]
	l.current++
	return current
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() || l.state.source[l.current] != c {
		return false
	}
	l.current++
	return true
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.state.source[l.current]
}

func (l *lexer) peekNext() byte {
	if l.current+1 >= len(l.state.source) {
		return 0
	}
	return l.state.source[l.current+1]
}

func (l *lexer) emit(tk tokenType) {
	l.emitLiteral(tk, nil)
}

func (l *lexer) emitLiteral(tk tokenType, literal interface{}) {
	// Collapse runs of blank lines into a single newline token
	if tk == tkNewline {
		n := len(l.state.tokens)
		if n == 0 || l.state.tokens[n-1].token == tkNewline {
			return
		}
	}
	l.state.tokens = append(l.state.tokens, token{
		token:   tk,
		lexeme:  l.state.source[l.start:l.current],
		literal: literal,
		line:    l.line,
	})
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.state.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
