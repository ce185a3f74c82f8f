package internal

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"hashlang/internal/config"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// Options configures a Runtime. Zero values fall back to defaults.
type Options struct {
	Printer IPrinter
	Logger  *logrus.Logger
	Config  *config.Config
}

// Runtime runs programs and owns everything shared by their
// execution units: builtins, random source, logger and printer
type Runtime struct {
	printer IPrinter
	logger  *logrus.Logger
	config  *config.Config

	builtins map[string]*nativeFn

	rngMu sync.Mutex
	rng   *rand.Rand

	units sync.WaitGroup

	// parsed inline expressions keyed by their source, least recently
	// used ones are evicted
	inline *lru.Cache[inlineKey, expr]

	modulesMu sync.Mutex
	modules   map[string]*interpreterState

	// globals and repl persist across Eval calls
	globals *env
	repl    *unit
}

// NewRuntime creates a runtime with its builtin table
func NewRuntime(opts Options) *Runtime {
	r := &Runtime{
		printer: opts.Printer,
		logger:  opts.Logger,
		config:  opts.Config,
		globals: newEnv(nil),
	}
	if r.logger == nil {
		r.logger = logrus.New()
		r.logger.SetOutput(io.Discard)
	}
	if r.config == nil {
		r.config = config.Default()
	}
	seed := r.config.RNG.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.rng = rand.New(rand.NewSource(seed))
	size := r.config.Runtime.InlineCache
	if size <= 0 {
		size = config.DefaultInlineCache
	}
	r.inline, _ = lru.New[inlineKey, expr](size)
	r.modules = make(map[string]*interpreterState)
	r.builtins = defineBuiltins()
	return r
}

// load lexes and parses the source into state, prints errors if any
func (r *Runtime) load(state *interpreterState) bool {
	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()

	if state.PrintErrors() {
		return false
	}

	parser := &parser{
		state: state,
	}
	parser.parse()

	return !state.PrintErrors()
}

// Run executes source in a fresh global scope. It returns false if the
// program could not be parsed or its main unit failed.
func (r *Runtime) Run(absPath, source string) bool {
	state := newInterpreterState(absPath, source, r.printer)
	if !r.load(state) {
		return false
	}

	mainUnit := newUnit(r.logger, "main")
	mainUnit.log.WithField("path", absPath).Debug("running program")

	globals := newEnv(nil)
	e := &exec{
		runtime: r,
		state:   state,
		unit:    mainUnit,
		globals: globals,
		env:     globals,
	}
	if absPath != "" {
		e.including = []string{absPath}
	}
	ok := e.interpret()

	if r.config.Runtime.WaitForThreads {
		r.Wait()
	}
	mainUnit.close()
	return ok
}

// Eval executes source in the persistent scope used by the REPL and
// returns the textual value of the last expression statement
func (r *Runtime) Eval(source string) (string, bool) {
	state := newInterpreterState("", source, r.printer)
	if !r.load(state) {
		return "", false
	}

	if r.repl == nil {
		r.repl = newUnit(r.logger, "repl")
	}

	e := &exec{
		runtime: r,
		state:   state,
		unit:    r.repl,
		globals: r.globals,
		env:     r.globals,
	}
	if !e.interpret() {
		return "", false
	}
	if len(state.stmts) == 0 {
		return "", true
	}
	if _, isExpr := state.stmts[len(state.stmts)-1].(*exprStmt); !isExpr {
		return "", true
	}
	return reprObj(e.last), true
}

// Wait blocks until every launched unit has finished
func (r *Runtime) Wait() {
	r.units.Wait()
}

// Close releases the handles opened through Eval
func (r *Runtime) Close() {
	if r.repl != nil {
		r.repl.close()
		r.repl = nil
	}
}

// launch runs fn on a new execution unit. Connection handles passed as
// arguments move from the parent unit to the new one.
func (r *Runtime) launch(parent *exec, fn hashCallable, arguments []interface{}) {
	child := newUnit(r.logger, printObj(fn))
	for _, arg := range arguments {
		if h, ok := arg.(*hashHandle); ok && h.kind == handleConnection {
			parent.unit.transfer(h, child)
		}
	}

	e := &exec{
		runtime: r,
		state:   parent.state,
		unit:    child,
		globals: parent.globals,
		env:     parent.globals,
		site:    parent.site,
	}

	child.log.WithField("parent", parent.unit.id.String()).Debug("unit launched")

	r.units.Add(1)
	go func() {
		defer r.units.Done()
		defer child.close()
		e.invoke(fn, arguments)
	}()
}

type inlineKey struct {
	source string
	line   int
}

// parseInline parses source as a single expression whose tokens are
// located at line
func (r *Runtime) parseInline(source string, line int) (expr, error) {
	key := inlineKey{source: source, line: line}
	if cached, ok := r.inline.Get(key); ok {
		return cached, nil
	}

	state := newInterpreterState("", source, r.printer)
	lexer := &lexer{
		line:  line,
		state: state,
	}
	lexer.scan()
	if !state.Valid() {
		return nil, fmt.Errorf("%w in %q", state.errors[0].Err, source)
	}

	parser := &parser{
		state: state,
	}
	parsed := parser.parseInline()
	if !state.Valid() || parsed == nil {
		if len(state.errors) > 0 {
			return nil, fmt.Errorf("%w in %q", state.errors[0].Err, source)
		}
		return nil, fmt.Errorf("%w in %q", errExpectedExpression, source)
	}

	r.inline.Add(key, parsed)
	return parsed, nil
}

// module loads the source at path, relative paths start at dir or at
// the working directory. Parsed modules are kept for the runtime life.
func (r *Runtime) module(dir, path string) (*interpreterState, error) {
	if !filepath.IsAbs(path) {
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			dir = wd
		}
		path = filepath.Join(dir, path)
	}

	r.modulesMu.Lock()
	defer r.modulesMu.Unlock()
	if mod, ok := r.modules[path]; ok {
		return mod, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", errModuleRead, path, err)
	}
	mod := newInterpreterState(path, string(source), r.printer)
	if !r.load(mod) {
		return nil, fmt.Errorf("%w '%s'", errModuleSyntax, path)
	}
	r.logger.WithField("path", path).Debug("module loaded")
	r.modules[path] = mod
	return mod, nil
}

func (r *Runtime) random() float64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Float64()
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(absPath, source string, p IPrinter) bool {
	return NewRuntime(Options{Printer: p}).Run(absPath, source)
}

// PrintTree prints the parsed program as s-expressions
func PrintTree(source string, p IPrinter) bool {
	state := newInterpreterState("", source, p)
	if !NewRuntime(Options{Printer: p}).load(state) {
		return false
	}
	p.Fprintf(os.Stdout, "%s", state.printTree())
	return true
}

// DumpTokens writes one token per line to w
func DumpTokens(source string, w io.Writer, p IPrinter) bool {
	state := newInterpreterState("", source, p)
	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()
	if state.PrintErrors() {
		return false
	}
	for _, tk := range state.tokens {
		p.Fprintln(w, tk)
	}
	return true
}

// Incomplete reports whether source ends inside an open group or block,
// used by the repl to ask for more lines
func Incomplete(source string) bool {
	state := newInterpreterState("", source, nil)
	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()
	for _, err := range state.errors {
		if errors.Is(err.Err, errUnclosedString) {
			return true
		}
	}

	depth := 0
	for _, tk := range state.tokens {
		switch tk.token {
		case tkLeftParen, tkLeftBrace, tkLeftCurlyBrace:
			depth++
		case tkRightParen, tkRightBrace, tkRightCurlyBrace:
			depth--
		}
	}
	return depth > 0
}
