package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeModules creates files under a fresh directory, returns the directory
func writeModules(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runModule(t *testing.T, dir, name string) (string, bool) {
	t.Helper()
	path := filepath.Join(dir, name)
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tp := &testPrinter{}
	ok := NewRuntime(Options{Printer: tp}).Run(path, string(source))
	return tp.Output(), ok
}

func TestInclude(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"main.hl": `include "lib/strings.hl"
io#println(shout("hi"))
io#println(version)
`,
		"lib/strings.hl": `include "version.hl"
fn shout(s) {
	return string#upper(s) + "!"
}
`,
		"lib/version.hl": `let const version = "1.0"`,
	})

	out, ok := runModule(t, dir, "main.hl")
	if !ok || out != "HI!\n1.0\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestIncludeInsideClass(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"main.hl": `class Greeter(name) {
	include "methods.hl"
}
io#println(new Greeter("bob").greet())
`,
		"methods.hl": `fn greet() {
	return "hello " + name
}
`,
	})

	out, ok := runModule(t, dir, "main.hl")
	if !ok || out != "hello bob\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestImport(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"main.hl": `import "geometry.hl" as Geometry
io#println(Geometry::square(5))
io#println(Geometry::area(2, 3))
Geometry = 1
`,
		"geometry.hl": `fn square(x) {
	return x * x
}
fn area(w, h) {
	return w * h
}
`,
	})

	out, ok := runModule(t, dir, "main.hl")
	if ok {
		t.Error("assigning an import should fail")
	}
	expected := "25\n6\nRuntime Error on line 4\n\tConstantAssignmentError: Cannot assign to constant 'Geometry'\n"
	if out != expected {
		t.Errorf("unexpected output %q", out)
	}
}

func TestModuleErrors(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"cycle.hl":   `include "cycle.hl"`,
		"a.hl":       `include "b.hl"`,
		"b.hl":       `include "a.hl"`,
		"missing.hl": `include "nowhere.hl"`,
		"broken.hl":  "\ninclude \"bad.hl\"",
		"bad.hl":     "let = 1",
	})

	out, ok := runModule(t, dir, "cycle.hl")
	if ok || !strings.Contains(out, "SyntaxError: Module includes itself") {
		t.Errorf("self include: %q", out)
	}

	out, ok = runModule(t, dir, "a.hl")
	if ok || !strings.Contains(out, "SyntaxError: Module includes itself '"+filepath.Join(dir, "a.hl")+"'") {
		t.Errorf("include cycle: %q", out)
	}

	out, ok = runModule(t, dir, "missing.hl")
	if ok || !strings.HasPrefix(out, "Runtime Error on line 1\n\tIOError: Cannot read module") {
		t.Errorf("missing module: %q", out)
	}

	out, ok = runModule(t, dir, "broken.hl")
	expected := "Syntax Error on line 1\n\tSyntaxError: Expected variable name\n" +
		"Runtime Error on line 2\n\tSyntaxError: Module has syntax errors '" + filepath.Join(dir, "bad.hl") + "'\n"
	if ok || out != expected {
		t.Errorf("broken module: %q", out)
	}
}
