package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"yim/ast"
	"yim/token"
)

// astPrinter implements the Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": exprStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	expressions := make([]any, 0, len(printStmt.Expressions))
	for _, expression := range printStmt.Expressions {
		expressions = append(expressions, expression.Accept(p))
	}
	return map[string]any{
		"type":        "PrintStmt",
		"expressions": expressions,
	}
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        varStmt.Name.Lexeme,
		"initializer": nilOrAccept(varStmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	return map[string]any{
		"type":       "BlockStmt",
		"statements": p.statements(blockStmt.Statements),
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	result := map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.Then.Accept(p),
	}
	if stmt.Else != nil {
		result["else"] = stmt.Else.Accept(p)
	}
	return result
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitForStmt(stmt ast.ForStmt) any {
	return map[string]any{
		"type":  "ForStmt",
		"name":  stmt.Name.Lexeme,
		"start": stmt.Start.Accept(p),
		"end":   stmt.End.Accept(p),
		"step":  nilOrAccept(stmt.Step, p),
		"body":  p.statements(stmt.Body),
	}
}

func (p astPrinter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	return map[string]any{
		"type":   "FunctionStmt",
		"name":   stmt.Name.Lexeme,
		"params": paramNames(stmt.Params),
		"async":  stmt.IsAsync,
		"body":   p.statements(stmt.Body),
	}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAccept(stmt.Value, p),
	}
}

func (p astPrinter) VisitClassStmt(stmt ast.ClassStmt) any {
	methods := make([]any, 0, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods = append(methods, p.VisitFunctionStmt(method))
	}
	return map[string]any{
		"type":    "ClassStmt",
		"name":    stmt.Name.Lexeme,
		"methods": methods,
	}
}

func (p astPrinter) VisitBreakStmt(stmt ast.BreakStmt) any {
	return map[string]any{"type": "BreakStmt"}
}

func (p astPrinter) VisitContinueStmt(stmt ast.ContinueStmt) any {
	return map[string]any{"type": "ContinueStmt"}
}

func (p astPrinter) VisitSwitchStmt(stmt ast.SwitchStmt) any {
	cases := make([]any, 0, len(stmt.Cases))
	for _, switchCase := range stmt.Cases {
		cases = append(cases, map[string]any{
			"value": switchCase.Value.Accept(p),
			"body":  p.statements(switchCase.Body),
		})
	}
	result := map[string]any{
		"type":         "SwitchStmt",
		"discriminant": stmt.Discriminant.Accept(p),
		"cases":        cases,
	}
	if stmt.Default != nil {
		result["default"] = p.statements(stmt.Default)
	}
	return result
}

func (p astPrinter) VisitTryStmt(stmt ast.TryStmt) any {
	return map[string]any{
		"type":      "TryStmt",
		"body":      p.statements(stmt.Body),
		"catchName": stmt.CatchName.Lexeme,
		"catchBody": p.statements(stmt.CatchBody),
	}
}

func (p astPrinter) VisitBinary(binary ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": binary.Operator.Lexeme,
		"left":     binary.Left.Accept(p),
		"right":    binary.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(unary ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": unary.Operator.Lexeme,
		"right":    unary.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(literal ast.Literal) any {
	return map[string]any{
		"type":  "Literal",
		"value": literal.Value,
	}
}

func (p astPrinter) VisitGrouping(grouping ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": grouping.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":   "Assign",
		"target": assign.Target.Accept(p),
		"value":  assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitLogicalExpression(logical ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": logical.Operator.Lexeme,
		"left":     logical.Left.Accept(p),
		"right":    logical.Right.Accept(p),
	}
}

func (p astPrinter) VisitTernaryExpression(ternary ast.Ternary) any {
	return map[string]any{
		"type":      "Ternary",
		"condition": ternary.Condition.Accept(p),
		"then":      ternary.Then.Accept(p),
		"else":      ternary.Else.Accept(p),
	}
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	return map[string]any{
		"type":      "Call",
		"callee":    call.Callee.Accept(p),
		"arguments": p.expressions(call.Arguments),
	}
}

func (p astPrinter) VisitMemberExpression(member ast.Member) any {
	return map[string]any{
		"type":   "Member",
		"object": member.Object.Accept(p),
		"name":   member.Name.Lexeme,
	}
}

func (p astPrinter) VisitIndexExpression(index ast.Index) any {
	return map[string]any{
		"type":   "Index",
		"object": index.Object.Accept(p),
		"index":  index.Idx.Accept(p),
	}
}

func (p astPrinter) VisitArrayLiteral(array ast.ArrayLiteral) any {
	return map[string]any{
		"type":     "ArrayLiteral",
		"elements": p.expressions(array.Elements),
	}
}

func (p astPrinter) VisitObjectLiteral(object ast.ObjectLiteral) any {
	entries := make([]any, 0, len(object.Entries))
	for _, entry := range object.Entries {
		entries = append(entries, map[string]any{
			"key":   entry.Key.Accept(p),
			"value": entry.Value.Accept(p),
		})
	}
	return map[string]any{
		"type":    "ObjectLiteral",
		"entries": entries,
	}
}

func (p astPrinter) VisitFunctionExpression(function ast.FunctionExpr) any {
	return map[string]any{
		"type":   "FunctionExpr",
		"params": paramNames(function.Params),
		"async":  function.IsAsync,
		"body":   p.statements(function.Body),
	}
}

func (p astPrinter) VisitThisExpression(this ast.This) any {
	return map[string]any{"type": "This"}
}

func (p astPrinter) VisitNewExpression(new ast.New) any {
	return map[string]any{
		"type":      "New",
		"callee":    new.Callee.Accept(p),
		"arguments": p.expressions(new.Arguments),
	}
}

func (p astPrinter) VisitAwaitExpression(await ast.Await) any {
	return map[string]any{
		"type":  "Await",
		"value": await.Value.Accept(p),
	}
}

func (p astPrinter) VisitSpreadExpression(spread ast.Spread) any {
	return map[string]any{
		"type":  "Spread",
		"value": spread.Value.Accept(p),
	}
}

func (p astPrinter) statements(statements []ast.Stmt) []any {
	result := make([]any, 0, len(statements))
	for _, statement := range statements {
		result = append(result, statement.Accept(p))
	}
	return result
}

func (p astPrinter) expressions(expressions []ast.Expression) []any {
	result := make([]any, 0, len(expressions))
	for _, expression := range expressions {
		result = append(result, expression.Accept(p))
	}
	return result
}

func paramNames(params []token.Token) []string {
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, param.Lexeme)
	}
	return names
}

func nilOrAccept(expression ast.Expression, p astPrinter) any {
	if expression == nil {
		return nil
	}
	return expression.Accept(p)
}

// buildASTJSON converts the statements to a JSON-marshalable tree.
func buildASTJSON(statements []ast.Stmt) []any {
	printer := astPrinter{}
	return printer.statements(statements)
}

// PrintASTJSON renders the AST for the provided statements as prettified
// JSON and prints it to standard output. It returns the JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	tree := buildASTJSON(statements)
	encoded, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	fmt.Println(string(encoded))
	return string(encoded), nil
}

// WriteASTJSONToFile writes the AST for the provided statements as
// prettified JSON to the file at the given path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	tree := buildASTJSON(statements)
	encoded, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0644)
}
