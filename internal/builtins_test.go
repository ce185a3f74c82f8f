package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hashlang/internal/config"
)

func TestStringBuiltins(t *testing.T) {
	checkExpression(t, `string#len("hello")`, "5")
	checkExpression(t, `string#len("héllo")`, "5")
	checkExpression(t, `string#len("")`, "0")

	checkExpression(t, `string#slice("hello", 1, 3)`, "el")
	checkExpression(t, `string#slice("héllo", 1, 2)`, "é")
	checkExpression(t, `string#slice("hello", 2, 2)`, "")

	checkExpression(t, `string#index_of("hello", "l")`, "2")
	checkExpression(t, `string#index_of("héllo", "l")`, "2")
	checkExpression(t, `string#index_of("hello", "z")`, "-1")

	checkExpression(t, `string#split("a,b,c", ",")`, `["a", "b", "c"]`)
	checkExpression(t, `string#split("abc", ",")`, `["abc"]`)
	checkExpression(t, `string#trim("  x  ")`, "x")
	checkExpression(t, `string#upper("abc")`, "ABC")
	checkExpression(t, `string#lower("ABC")`, "abc")

	checkExpression(t, `string#format("{} and {}", 1, "two")`, "1 and two")
	checkExpression(t, `string#format("{} {}", 1)`, "1 {}")
	checkExpression(t, `string#format("{}", 1, 2)`, "1")
	checkExpression(t, `string#format("{}", [1, "a"])`, `[1, "a"]`)
	checkExpression(t, `string#concat("a", 1, true, null)`, "a1truenull")

	checkExpression(t, `string#to_number("3.5")`, "3.5")
	checkExpression(t, `string#to_number(" 42 ")`, "42")
	checkExpression(t, `string#to_number("abc")`, "null")

	checkErrorMsg(
		t,
		`string#slice("abc", 2, 1)`,
		"BuiltinArgumentError: End must not be lower than start: string#slice from 2 to 1",
		1,
	)
	checkErrorMsg(
		t,
		`string#slice("abc", 0, 5)`,
		"BuiltinArgumentError: Index out of range: string#slice from 0 to 5 of length 3",
		1,
	)
	checkErrorMsg(
		t,
		`string#slice("abc", 0.5, 1)`,
		"BuiltinArgumentError: Expected integer: string#slice argument 2 is 0.5",
		1,
	)
}

func TestFormatTemplate(t *testing.T) {
	cases := []struct {
		template  string
		arguments []interface{}
		expected  string
	}{
		{"{} + {}", []interface{}{hashNumber(2), hashNumber(3)}, "2 + 3"},
		{"{}{}", []interface{}{hashString("a")}, "a{}"},
		{"none", []interface{}{hashNumber(1)}, "none"},
		{"{}", []interface{}{nil}, "null"},
		{"{", []interface{}{hashNumber(1)}, "{"},
		{"{} {}", []interface{}{hashString("{}"), hashNumber(1)}, "{} 1"},
	}
	for _, c := range cases {
		if out := formatTemplate(c.template, c.arguments); out != c.expected {
			t.Errorf("formatTemplate(%q) = %q, expected %q", c.template, out, c.expected)
		}
	}
}

func TestArrayBuiltins(t *testing.T) {
	checkExpression(t, "array#len([1, 2, 3])", "3")
	checkExpression(t, "array#get([1, 2, 3], 1)", "2")
	checkExpression(t, `array#get("abc", 2)`, "c")
	checkExpression(t, "array#push([1], 2, 3)", "[1, 2, 3]")
	checkExpression(t, "array#pop([1, 2])", "2")
	checkExpression(t, "array#pop([])", "null")
	checkExpression(t, "array#concat([1], [2], [3, 4])", "[1, 2, 3, 4]")
	checkExpression(t, `array#contains([1, "a"], "a")`, "true")
	checkExpression(t, `array#contains([1, "a"], "1")`, "false")

	checkStatements(t, `
	let a = []
	array#set(a, 2, 1)
	`, "a", "[null, null, 1]")

	// Arrays are shared by reference, clone copies
	checkStatements(t, `
	let a = [1]
	let b = a
	let c = array#clone(a)
	array#push(b, 2)
	`, "[a, c]", "[[1, 2], [1]]")

	// Arrays can hold themselves
	checkStatements(t, `
	let a = [1]
	array#push(a, a)
	`, "a", "[1, [...]]")

	checkErrorMsg(
		t,
		"array#set([], -1, 0)",
		"BuiltinArgumentError: Index out of range: array#set index -1",
		1,
	)
	checkErrorMsg(
		t,
		`array#len("abc")`,
		"BuiltinArgumentError: Expected array: array#len argument 1 is string",
		1,
	)
}

func TestIntegerArguments(t *testing.T) {
	checkErrorMsg(
		t,
		"array#get([1], 2^60)",
		"BuiltinArgumentError: Integer out of range: array#get argument 2 is 1152921504606846976",
		1,
	)
	checkErrorMsg(
		t,
		"array#get([1], -(2^60))",
		"BuiltinArgumentError: Integer out of range: array#get argument 2 is -1152921504606846976",
		1,
	)
	checkErrorMsg(
		t,
		"array#get([1], 0.5)",
		"BuiltinArgumentError: Expected integer: array#get argument 2 is 0.5",
		1,
	)
}

func TestArraySetGrowth(t *testing.T) {
	checkErrorMsg(
		t,
		"let a = []\narray#set(a, 2^40, 1)",
		"BuiltinArgumentError: Index out of range: array#set index 1099511627776 of length 0",
		2,
	)

	cfg := config.Default()
	cfg.Runtime.MaxArrayGrowth = 4
	tp := &testPrinter{}
	rt := NewRuntime(Options{Printer: tp, Config: cfg})
	rt.Run("", `
let a = []
array#set(a, 3, 1)
io#println(a)
array#set(a, 8, 1)
`)
	expected := "[null, null, null, 1]\nRuntime Error on line 5\n\tBuiltinArgumentError: Index out of range: array#set index 8 of length 4\n"
	if tp.Output() != expected {
		t.Errorf("unexpected output %q", tp.Output())
	}

	// A failing unit leaves the others running
	tp = &testPrinter{}
	ok := RunSourceWithPrinter("", `
fn grow() {
	array#set([], 2^40, 1)
}
thread#launch(grow)
time#sleep(0.05)
io#println("survived")
`, tp)
	if !ok || !strings.Contains(tp.Output(), "survived\n") {
		t.Errorf("main unit should survive, output %q", tp.Output())
	}
}

func TestFsBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("héllo\nworld"), 0o644); err != nil {
		t.Fatal(err)
	}

	checkExpression(t, fmt.Sprintf("fs#readstr(%q)", path), "héllo\nworld")
	checkExpression(t, fmt.Sprintf("fs#readstr_until(%q, 6)", path), "héllo")
	checkExpression(t, fmt.Sprintf("fs#readstr_until(%q, 100)", path), "héllo\nworld")
	checkExpression(t, fmt.Sprintf("string#len(fs#readstr_until(%q, 2))", path), "2")

	checkErrorMsg(
		t,
		fmt.Sprintf("fs#readstr_until(%q, -1)", path),
		"BuiltinArgumentError: End must not be lower than start: fs#readstr_until length -1",
		1,
	)

	tp := &testPrinter{}
	missing := filepath.Join(t.TempDir(), "missing.txt")
	RunSourceWithPrinter("", fmt.Sprintf("fs#readstr(%q)", missing), tp)
	if !strings.HasPrefix(tp.Output(), "Runtime Error on line 1\n\tIOError: ") {
		t.Errorf("unexpected output %q", tp.Output())
	}
}

func TestMathBuiltins(t *testing.T) {
	checkExpression(t, "math#round(2.5)", "3")
	checkExpression(t, "math#round(2.4)", "2")
	checkExpression(t, "math#floor(-1.5)", "-2")
	checkExpression(t, "math#sqrt(16)", "4")
	checkExpression(t, `math#eval("1 + 2 * 3")`, "7")
	checkExpression(t, `math#eval(string#format("{} ^ 2", 3))`, "9")

	checkErrorMsg(
		t,
		"math#sqrt(-1)",
		"BuiltinArgumentError: Cannot take square root of a negative number: -1",
		1,
	)
	checkErrorMsg(
		t,
		`math#eval("\"a\"")`,
		"BuiltinArgumentError: Expected number: math#eval of \"\\\"a\\\"\" is string",
		1,
	)
	// math#eval does not see the caller's scope
	checkErrorMsg(
		t,
		"let x = 1\nmath#eval(\"x + 1\")",
		"UnboundNameError: Undefined variable 'x'",
		2,
	)
}

func TestRngAndTimeBuiltins(t *testing.T) {
	checkExpression(t, "rng#rand() < 1 and rng#rand() >= 0", "true")
	checkStatements(t, `
	let r = rng#rand_range(5, 6)
	`, "r >= 5 and r < 6", "true")

	checkExpression(t, "time#now() > 1600000000", "true")
	checkExpression(t, "time#sleep(0)", "null")
	checkStatements(t, `
	let start = time#now()
	time#sleep(0.02)
	`, "time#now() - start >= 0.01", "true")
}

func seeded(seed int64) *config.Config {
	cfg := config.Default()
	cfg.RNG.Seed = seed
	return cfg
}

func TestSeededRandom(t *testing.T) {
	run := func() string {
		tp := &testPrinter{}
		rt := NewRuntime(Options{Printer: tp, Config: seeded(7)})
		rt.Run("", "io#println([rng#rand(), rng#rand_range(1, 10)])")
		return tp.Output()
	}
	if first, second := run(), run(); first != second {
		t.Errorf("seeded runs differ: %s and %s", first, second)
	}
}

func TestInspect(t *testing.T) {
	checkExpression(t, `io#inspect("a")`, "string \"a\"\nnull")
	checkExpression(t, "io#inspect([1])", "array [1]\nnull")
	checkExpression(t, "io#inspect(null)", "null\nnull")
	checkStatements(t, `
	fn add(a, b) { return a + b }
	`, "io#inspect(add)", "function add(a, b)\nnull")
	checkStatements(t, `
	class Point(x, y) {
		let norm = x + y
		fn get_x() { return x }
	}
	`, "io#inspect(new Point(1, 2))", "instance Point {fields: norm, x, y; methods: get_x}\nnull")
}
