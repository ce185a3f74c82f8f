package main

import (
	"fmt"
	"go/format"
	"log"
	"os"
	"strings"
)

//go:generate go run . Expr ../../internal/expr.go
//go:generate go run . Stmt ../../internal/stmt.go

var nodes = map[string][]string{
	"Stmt": {
		"Expr: last *token, expression expr",
		"Let: name *token, initializer expr, constant bool",
		"Block: stmts []stmt",
		"Loop: keyword *token, body []stmt",
		"Return: keyword *token, value expr",
		"Break: keyword *token",
		"If: keyword *token, condition expr, thenBranch []stmt, elseBranch []stmt",
		"Fn: name *token, params []*token, body []stmt",
		"Class: name *token, params []*token, body []stmt",
		"Include: keyword *token, path *token, dir string",
		"Import: keyword *token, path *token, dir string, name *token",
	},
	"Expr": {
		"Array: elements []expr, brace *token",
		"Assign: name *token, operator *token, value expr",
		"Binary: left expr, operator *token, right expr",
		"Call: callee expr, paren *token, arguments []expr",
		"Builtin: name *token",
		"Inline: keyword *token, arguments []expr",
		"Get: object expr, name *token",
		"New: keyword *token, class *token, arguments []expr",
		"Grouping: expression expr",
		"Literal: value interface{}",
		"Logical: left expr, operator *token, right expr",
		"Unary: operator *token, right expr",
		"Postfix: name *token, operator *token",
		"Variable: name *token",
		"Function: keyword *token, params []*token, body []stmt",
		"Static: class *token, name *token",
	},
}

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: ast Expr|Stmt /path/to/output.go")
		os.Exit(2)
	}
	types, ok := nodes[os.Args[1]]
	if !ok {
		log.Fatalf("unknown node family %q", os.Args[1])
	}

	src, err := format.Source([]byte(generateAst(os.Args[1], types)))
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(os.Args[2], src, 0644); err != nil {
		log.Fatal(err)
	}
}

func generateAst(baseName string, types []string) string {
	base := strings.ToLower(baseName)
	out := "// Code generated by cmd/ast; DO NOT EDIT.\n\npackage internal\n\n"

	out += "type " + base + " interface {\n"
	out += "\taccept(" + base + "Visitor) R\n"
	out += "}\n\n"

	out += fmt.Sprintf("type %sVisitor interface {\n", base)
	for _, t := range types {
		name := strings.TrimSpace(strings.Split(t, ":")[0])
		out += fmt.Sprintf("\tvisit%s%s(%s *%s) R\n", name, baseName, base, structName(name, baseName))
	}
	out += "}\n\n"

	for _, t := range types {
		typeDef := strings.SplitN(t, ":", 2)
		out += generateType(baseName, strings.TrimSpace(typeDef[0]), strings.TrimSpace(typeDef[1]))
	}
	return out
}

func structName(name, baseName string) string {
	return strings.ToLower(name[:1]) + name[1:] + baseName
}

func generateType(baseName, name, fields string) string {
	structType := structName(name, baseName)
	out := "type " + structType + " struct {\n"
	for _, field := range strings.Split(fields, ",") {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"

	out += "func (s *" + structType + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) R {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	return out
}
