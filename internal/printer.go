package internal

import (
	"fmt"
	"strings"
)

//R generic type
type R interface{}

// printTree renders every parsed statement as an s-expression, one per line
func (s *interpreterState) printTree() string {
	var sb strings.Builder
	for _, stmt := range s.stmts {
		sb.WriteString(stmt.accept(stringVisitor{}).(string))
		sb.WriteByte('\n')
	}
	return sb.String()
}

type stringVisitor struct{}

func (v stringVisitor) joinStmts(prefix string, stmts []stmt) string {
	out := prefix
	for _, st := range stmts {
		out += fmt.Sprintf(" %v", st.accept(v))
	}
	return out
}

func (v stringVisitor) joinExprs(prefix string, exprs []expr) string {
	out := prefix
	for _, e := range exprs {
		out += fmt.Sprintf(" %v", e.accept(v))
	}
	return out
}

func joinParams(params []*token) string {
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.lexeme
	}
	return "(" + strings.Join(names, " ") + ")"
}

func (v stringVisitor) visitExprStmt(stmt *exprStmt) R {
	return stmt.expression.accept(v)
}

func (v stringVisitor) visitLetStmt(stmt *letStmt) R {
	if stmt.initializer == nil {
		return fmt.Sprintf("(let %s)", stmt.name.lexeme)
	}
	if stmt.constant {
		return fmt.Sprintf("(let const %s %v)", stmt.name.lexeme, stmt.initializer.accept(v))
	}
	return fmt.Sprintf("(let %s %v)", stmt.name.lexeme, stmt.initializer.accept(v))
}

func (v stringVisitor) visitBlockStmt(stmt *blockStmt) R {
	return v.joinStmts("(scope", stmt.stmts) + ")"
}

func (v stringVisitor) visitLoopStmt(stmt *loopStmt) R {
	return v.joinStmts("(loop", stmt.body) + ")"
}

func (v stringVisitor) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %v)", stmt.value.accept(v))
}

func (v stringVisitor) visitBreakStmt(stmt *breakStmt) R {
	return "(break)"
}

func (v stringVisitor) visitIfStmt(stmt *ifStmt) R {
	out := fmt.Sprintf("(if %v", stmt.condition.accept(v))
	out += v.joinStmts(" (then", stmt.thenBranch) + ")"
	if stmt.elseBranch != nil {
		out += v.joinStmts(" (else", stmt.elseBranch) + ")"
	}
	return out + ")"
}

func (v stringVisitor) visitFnStmt(stmt *fnStmt) R {
	return v.joinStmts("(fn "+stmt.name.lexeme+" "+joinParams(stmt.params), stmt.body) + ")"
}

func (v stringVisitor) visitClassStmt(stmt *classStmt) R {
	return v.joinStmts("(class "+stmt.name.lexeme+" "+joinParams(stmt.params), stmt.body) + ")"
}

func (v stringVisitor) visitIncludeStmt(stmt *includeStmt) R {
	return fmt.Sprintf("(include %s)", stmt.path.lexeme)
}

func (v stringVisitor) visitImportStmt(stmt *importStmt) R {
	return fmt.Sprintf("(import %s %s)", stmt.path.lexeme, stmt.name.lexeme)
}

func (v stringVisitor) visitArrayExpr(expr *arrayExpr) R {
	return v.joinExprs("(array", expr.elements) + ")"
}

func (v stringVisitor) visitAssignExpr(expr *assignExpr) R {
	return fmt.Sprintf("(%s %s %v)", expr.operator.lexeme, expr.name.lexeme, expr.value.accept(v))
}

func (v stringVisitor) visitBinaryExpr(expr *binaryExpr) R {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, expr.left.accept(v), expr.right.accept(v))
}

func (v stringVisitor) visitCallExpr(expr *callExpr) R {
	return v.joinExprs(fmt.Sprintf("(call %v", expr.callee.accept(v)), expr.arguments) + ")"
}

func (v stringVisitor) visitBuiltinExpr(expr *builtinExpr) R {
	return expr.name.lexeme
}

func (v stringVisitor) visitInlineExpr(expr *inlineExpr) R {
	return v.joinExprs("(#=", expr.arguments) + ")"
}

func (v stringVisitor) visitGetExpr(expr *getExpr) R {
	return fmt.Sprintf("(. %v %s)", expr.object.accept(v), expr.name.lexeme)
}

func (v stringVisitor) visitNewExpr(expr *newExpr) R {
	return v.joinExprs("(new "+expr.class.lexeme, expr.arguments) + ")"
}

func (v stringVisitor) visitGroupingExpr(expr *groupingExpr) R {
	return fmt.Sprintf("%v", expr.expression.accept(v))
}

func (v stringVisitor) visitLiteralExpr(expr *literalExpr) R {
	if s, ok := expr.value.(hashString); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return printObj(expr.value)
}

func (v stringVisitor) visitLogicalExpr(expr *logicalExpr) R {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, expr.left.accept(v), expr.right.accept(v))
}

func (v stringVisitor) visitUnaryExpr(expr *unaryExpr) R {
	return fmt.Sprintf("(%s %v)", expr.operator.lexeme, expr.right.accept(v))
}

func (v stringVisitor) visitPostfixExpr(expr *postfixExpr) R {
	return fmt.Sprintf("(%s %s)", expr.operator.lexeme, expr.name.lexeme)
}

func (v stringVisitor) visitVariableExpr(expr *variableExpr) R {
	return expr.name.lexeme
}

func (v stringVisitor) visitFunctionExpr(expr *functionExpr) R {
	return v.joinStmts("(fn "+joinParams(expr.params), expr.body) + ")"
}

func (v stringVisitor) visitStaticExpr(expr *staticExpr) R {
	return fmt.Sprintf("(:: %s %s)", expr.class.lexeme, expr.name.lexeme)
}
