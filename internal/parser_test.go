package internal

import (
	"testing"

	"hashlang/internal/config"
)

func parseSource(source string) *interpreterState {
	state := scanSource(source)
	parser := &parser{
		state: state,
	}
	parser.parse()
	return state
}

func checkTree(t *testing.T, source string, tree string) {
	t.Helper()
	state := parseSource(source)
	if !state.Valid() {
		t.Fatalf("%q: unexpected errors %v", source, state.errors)
	}
	if out := state.printTree(); out != tree+"\n" {
		t.Errorf("%q:\nexpected\n%s\nfound\n%s", source, tree, out)
	}
}

func TestParser(t *testing.T) {
	checkTree(t, "let a = 1 + 2 * 3", "(let a (+ 1 (* 2 3)))")
	checkTree(t, "2 ^ 3 ^ 2", "(^ 2 (^ 3 2))")
	checkTree(t, "-2 ^ 2", "(- (^ 2 2))")
	checkTree(t, "not a and b or c", "(or (and (not a) b) c)")
	checkTree(t, "a === b < c", "(=== a (< b c))")
	checkTree(t, "a += 1", "(+= a 1)")
	checkTree(t, "a = b = 2", "(= a (= b 2))")
	checkTree(t, "i++", "(++ i)")
	checkTree(t, `io#println("x")`, `(call io#println "x")`)
	checkTree(t, `#=("{} + {}", 1, 2)`, `(#= "{} + {}" 1 2)`)
	checkTree(t, "new Point(1, 2).get()", "(call (. (new Point 1 2) get))")
	checkTree(t, "[1, [2]]", "(array 1 (array 2))")
	checkTree(t, "let f = fn (a) { return a }", "(let f (fn (a) (return a)))")
	checkTree(t, "let const a = 1", "(let const a 1)")
	checkTree(t, `include "lib.hl"`, `(include "lib.hl")`)
	checkTree(t, `import "lib.hl" as Lib`, `(import "lib.hl" Lib)`)
	checkTree(t, "Lib::f(1)", "(call (:: Lib f) 1)")

	// Newlines inside groups are not significant
	checkTree(t, "f(\n\t1,\n\t2,\n)", "(call f 1 2)")
	checkTree(t, "let a = (1\n+ 2)", "(let a (+ 1 2))")

	// Several statements on one line
	checkTree(t, "let a = 1; a++", "(let a 1)\n(++ a)")

	checkTree(t, "if a { b } else if c { d } else { e }",
		"(if a (then b) (else (if c (then d) (else e))))")
	checkTree(t, "if a {\n\tb\n}\nelse {\n\tc\n}", "(if a (then b) (else c))")
	checkTree(t, "if a { b }\nc", "(if a (then b))\nc")

	checkTree(t, "loop {\n\tif done { break }\n}", "(loop (if done (then (break))))")

	checkTree(t, "fn add(a, b) {\n\treturn a + b\n}", "(fn add (a b) (return (+ a b)))")

	checkTree(t, "class Point(x, y) {\n\tlet n = x\n\tfn get(self) { return n }\n}",
		"(class Point (x y) (let n x) (fn get (self) (return n)))")
	checkTree(t, "class Empty {}", "(class Empty ())")

	checkTree(t, "{\n\tlet a = 1\n}", "(scope (let a 1))")
}

func TestParserErrors(t *testing.T) {
	cases := []struct {
		source string
		errs   []error
	}{
		{"break", []error{errOnlyAllowedInsideLoop}},
		{"fn f() { break }", []error{errOnlyAllowedInsideLoop}},
		{"loop { fn f() { break } }", []error{errOnlyAllowedInsideLoop}},
		{"return", []error{errReturnOutsideFunction}},
		{"class A { return 1 }", []error{errReturnOutsideFunction}},
		{"1 = 2", []error{errInvalidAssignment}},
		{"1++", []error{errInvalidIncrement}},
		{"a.", []error{errExpectedProp}},
		{"fn f(1) {}", []error{errExpectedFunctionParam}},
		{"class {}", []error{errExpectedClassName}},
		{"if a b", []error{errExpectedOpeningCurlyBrace}},
		{"[1, 2", []error{errUnclosedBracket}},
		{"new 1", []error{errExpectedClassName}},
		{")", []error{errUndefinedExpr}},

		// The parser recovers at the next line
		{"let = 1\nlet b = )\nlet c = 3", []error{errExpectedIdentifier, errUndefinedExpr}},
	}

	for _, c := range cases {
		state := parseSource(c.source)
		if len(state.errors) != len(c.errs) {
			t.Errorf("%q: expected %v, got %v", c.source, c.errs, state.errors)
			continue
		}
		for i, err := range c.errs {
			if state.errors[i].Err != err {
				t.Errorf("%q: expected %v, got %v", c.source, err, state.errors[i].Err)
			}
		}
	}
}

func TestParseInline(t *testing.T) {
	rt := NewRuntime(Options{Printer: &testPrinter{}})

	parsed, err := rt.parseInline("1 +\n 2", 7)
	if err != nil {
		t.Fatal(err)
	}
	if out := parsed.accept(stringVisitor{}); out != "(+ 1 2)" {
		t.Errorf("unexpected tree %v", out)
	}

	again, _ := rt.parseInline("1 +\n 2", 7)
	if again != parsed {
		t.Error("inline expressions should be cached")
	}

	for _, source := range []string{"1 2", "let a = 1", "", "1 +"} {
		if _, err := rt.parseInline(source, 1); err == nil {
			t.Errorf("%q should not parse as a single expression", source)
		}
	}
}

func TestInlineCacheIsBounded(t *testing.T) {
	cfg := config.Default()
	cfg.Runtime.InlineCache = 16
	rt := NewRuntime(Options{Printer: &testPrinter{}, Config: cfg})
	defer rt.Close()

	_, ok := rt.Eval(`
let i = 0
let sum = 0
loop {
	if i === 500 { break }
	sum += #=("{} + 1", i)
	i++
}
`)
	if !ok {
		t.Fatal("program failed")
	}
	if n := rt.inline.Len(); n > 16 {
		t.Errorf("cache holds %d expressions", n)
	}
	if value, _ := rt.Eval("sum"); value != "125250" {
		t.Errorf("unexpected sum %s", value)
	}
}
