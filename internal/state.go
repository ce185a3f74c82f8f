package internal

import (
	"os"
)

// interpreterState stores the state of a single source being run
type interpreterState struct {
	absPath string
	source  string
	errors  []*ParseError
	tokens  []token
	stmts   []stmt

	logger IPrinter
}

func newInterpreterState(absPath, source string, logger IPrinter) *interpreterState {
	return &interpreterState{
		absPath: absPath,
		source:  source,
		errors:  make([]*ParseError, 0),
		logger:  logger,
	}
}

func (s *interpreterState) setError(err error, line int, lexeme string) {
	s.errors = append(s.errors, &ParseError{
		Err:    err,
		Line:   line,
		Lexeme: lexeme,
	})
}

func (s *interpreterState) fatalError(err error, line int, lexeme string) {
	s.setError(err, line, lexeme)
	panic(err)
}

// Valid returns true if the interpreter is in a valid states else false
func (s *interpreterState) Valid() bool {
	return len(s.errors) == 0
}

// PrintErrors prints all errors, returns true if there was any
func (s *interpreterState) PrintErrors() bool {
	for _, e := range s.errors {
		s.logger.Fprintf(os.Stderr, "Syntax Error on line %d\n\t%s\n", e.Line, e.Error())
	}
	return len(s.errors) != 0
}

func (s *interpreterState) printRuntimeError(err *RuntimeError) {
	s.logger.Fprintf(os.Stderr, "Runtime Error on line %d\n\t%s\n", err.Line, err.Error())
}
