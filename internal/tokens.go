package internal

import "fmt"

type tokenType int

const (
	tkEOF tokenType = iota

	// Single-character tokens.
	// (, ), [, ], {, }, ',', ., -, +, /, *, %, ^, ;
	tkLeftParen
	tkRightParen
	tkLeftBrace
	tkRightBrace
	tkLeftCurlyBrace
	tkRightCurlyBrace
	tkComma
	tkDot
	tkMinus
	tkPlus
	tkSlash
	tkStar
	tkMod
	tkPower
	tkSemicolon

	// One, two or three character tokens.
	// =, ==, ===, !=, !==, >, >=, <, <=, ++, --, +=, -=, *=, /=, ::
	tkEqual
	tkEqualEqual
	tkEqualEqualEqual
	tkBangEqual
	tkBangEqualEqual
	tkGreater
	tkGreaterEqual
	tkLess
	tkLessEqual
	tkPlusPlus
	tkMinusMinus
	tkPlusEqual
	tkMinusEqual
	tkStarEqual
	tkSlashEqual
	tkColonColon

	// Literals.
	// identifier, string, number, ns#name builtin, #= inline expression
	tkIdentifier
	tkString
	tkNumber
	tkBuiltin
	tkInline

	// Keywords.
	// and, or, not, class, new, fn, let, if, else, loop, break,
	// return, true, false, null, include, import
	tkAnd
	tkOr
	tkNot
	tkClass
	tkNew
	tkFn
	tkLet
	tkIf
	tkElse
	tkLoop
	tkBreak
	tkReturn
	tkTrue
	tkFalse
	tkNull
	tkInclude
	tkImport

	tkNewline
)

var tokenNames = map[tokenType]string{
	tkEOF:             "EOF",
	tkLeftParen:       "LEFT_PAREN",
	tkRightParen:      "RIGHT_PAREN",
	tkLeftBrace:       "LEFT_BRACE",
	tkRightBrace:      "RIGHT_BRACE",
	tkLeftCurlyBrace:  "LEFT_CURLY_BRACE",
	tkRightCurlyBrace: "RIGHT_CURLY_BRACE",
	tkComma:           "COMMA",
	tkDot:             "DOT",
	tkMinus:           "MINUS",
	tkPlus:            "PLUS",
	tkSlash:           "SLASH",
	tkStar:            "STAR",
	tkMod:             "MOD",
	tkPower:           "POWER",
	tkSemicolon:       "SEMICOLON",
	tkEqual:           "EQUAL",
	tkEqualEqual:      "EQUAL_EQUAL",
	tkEqualEqualEqual: "EQUAL_EQUAL_EQUAL",
	tkBangEqual:       "BANG_EQUAL",
	tkBangEqualEqual:  "BANG_EQUAL_EQUAL",
	tkGreater:         "GREATER",
	tkGreaterEqual:    "GREATER_EQUAL",
	tkLess:            "LESS",
	tkLessEqual:       "LESS_EQUAL",
	tkPlusPlus:        "PLUS_PLUS",
	tkMinusMinus:      "MINUS_MINUS",
	tkPlusEqual:       "PLUS_EQUAL",
	tkMinusEqual:      "MINUS_EQUAL",
	tkStarEqual:       "STAR_EQUAL",
	tkSlashEqual:      "SLASH_EQUAL",
	tkColonColon:      "COLON_COLON",
	tkIdentifier:      "IDENTIFIER",
	tkString:          "STRING",
	tkNumber:          "NUMBER",
	tkBuiltin:         "BUILTIN",
	tkInline:          "INLINE",
	tkAnd:             "AND",
	tkOr:              "OR",
	tkNot:             "NOT",
	tkClass:           "CLASS",
	tkNew:             "NEW",
	tkFn:              "FN",
	tkLet:             "LET",
	tkIf:              "IF",
	tkElse:            "ELSE",
	tkLoop:            "LOOP",
	tkBreak:           "BREAK",
	tkReturn:          "RETURN",
	tkTrue:            "TRUE",
	tkFalse:           "FALSE",
	tkNull:            "NULL",
	tkInclude:         "INCLUDE",
	tkImport:          "IMPORT",
	tkNewline:         "NEWLINE",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}

type token struct {
	token   tokenType
	lexeme  string
	literal interface{}
	line    int
}

func (t token) String() string {
	if t.literal != nil {
		return fmt.Sprintf("%d %s %q %v", t.line, t.token, t.lexeme, t.literal)
	}
	return fmt.Sprintf("%d %s %q", t.line, t.token, t.lexeme)
}
