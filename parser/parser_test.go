package parser

import (
	"testing"

	"yim/ast"
	"yim/lexer"
)

func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	p := Make(tokens)
	statements, errors := p.Parse()
	if len(errors) > 0 {
		t.Fatalf("parsing failed: %v", errors)
	}
	return statements
}

func parseFails(t *testing.T, source string) {
	t.Helper()
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	p := Make(tokens)
	_, errors := p.Parse()
	if len(errors) == 0 {
		t.Fatalf("expected %q to fail to parse", source)
	}
}

func TestParseVarDeclaration(t *testing.T) {
	statements := parseSource(t, "ao x = 10")
	if len(statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(statements))
	}
	varStmt, ok := statements[0].(ast.VarStmt)
	if !ok {
		t.Fatalf("got %T, want VarStmt", statements[0])
	}
	if varStmt.Name.Lexeme != "x" {
		t.Errorf("variable name - got: %q", varStmt.Name.Lexeme)
	}
	literal, ok := varStmt.Initializer.(ast.Literal)
	if !ok || literal.Value != 10.0 {
		t.Errorf("initializer - got: %#v", varStmt.Initializer)
	}
}

func TestParsePrintWithMultipleExpressions(t *testing.T) {
	statements := parseSource(t, "da 1, x, \"s\"")
	printStmt, ok := statements[0].(ast.PrintStmt)
	if !ok {
		t.Fatalf("got %T, want PrintStmt", statements[0])
	}
	if len(printStmt.Expressions) != 3 {
		t.Errorf("got %d print expressions, want 3", len(printStmt.Expressions))
	}
}

func TestParsePrecedence(t *testing.T) {
	statements := parseSource(t, "da 1 + 2 * 3")
	printStmt := statements[0].(ast.PrintStmt)
	binary, ok := printStmt.Expressions[0].(ast.Binary)
	if !ok {
		t.Fatalf("got %T, want Binary", printStmt.Expressions[0])
	}
	if binary.Operator.Lexeme != "+" {
		t.Errorf("top operator - got: %q, want: +", binary.Operator.Lexeme)
	}
	if _, ok := binary.Right.(ast.Binary); !ok {
		t.Errorf("multiplication must bind tighter than addition")
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	statements := parseSource(t, "da 2 ** 3 ** 2")
	printStmt := statements[0].(ast.PrintStmt)
	binary := printStmt.Expressions[0].(ast.Binary)
	if _, ok := binary.Right.(ast.Binary); !ok {
		t.Errorf("** must nest to the right")
	}
	if _, ok := binary.Left.(ast.Literal); !ok {
		t.Errorf("left operand of ** chain must stay a literal")
	}
}

func TestParseWhile(t *testing.T) {
	statements := parseSource(t, "wonn i < 3\nda i\ni = i + 1\njob")
	whileStmt, ok := statements[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("got %T, want WhileStmt", statements[0])
	}
	body, ok := whileStmt.Body.(ast.BlockStmt)
	if !ok || len(body.Statements) != 2 {
		t.Errorf("loop body - got: %#v", whileStmt.Body)
	}
}

func TestParseIfElseChain(t *testing.T) {
	statements := parseSource(t, "tha a\nda 1\nuen tha b\nda 2\nuen\nda 3\njob")
	ifStmt, ok := statements[0].(ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want IfStmt", statements[0])
	}
	chained, ok := ifStmt.Else.(ast.IfStmt)
	if !ok {
		t.Fatalf("else branch - got %T, want chained IfStmt", ifStmt.Else)
	}
	if _, ok := chained.Else.(ast.BlockStmt); !ok {
		t.Errorf("final else - got %T, want BlockStmt", chained.Else)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	statements := parseSource(t, "kian add(a, b)\nkuun a + b\njob")
	fnStmt, ok := statements[0].(ast.FunctionStmt)
	if !ok {
		t.Fatalf("got %T, want FunctionStmt", statements[0])
	}
	if fnStmt.Name.Lexeme != "add" || len(fnStmt.Params) != 2 {
		t.Errorf("function header - got: %s/%d", fnStmt.Name.Lexeme, len(fnStmt.Params))
	}
	if len(fnStmt.Body) != 1 {
		t.Errorf("function body - got %d statements", len(fnStmt.Body))
	}
}

func TestParseAnonymousFunctionExpression(t *testing.T) {
	statements := parseSource(t, "ao f = kian(x)\nkuun x\njob")
	varStmt := statements[0].(ast.VarStmt)
	if _, ok := varStmt.Initializer.(ast.FunctionExpr); !ok {
		t.Errorf("initializer - got %T, want FunctionExpr", varStmt.Initializer)
	}
}

func TestParseClass(t *testing.T) {
	statements := parseSource(t, "klum Box\nkian sang(v)\nni.v = v\njob\nkian get()\nkuun ni.v\njob\njob")
	classStmt, ok := statements[0].(ast.ClassStmt)
	if !ok {
		t.Fatalf("got %T, want ClassStmt", statements[0])
	}
	if classStmt.Name.Lexeme != "Box" || len(classStmt.Methods) != 2 {
		t.Errorf("class - got: %s with %d methods", classStmt.Name.Lexeme, len(classStmt.Methods))
	}
	if classStmt.Methods[0].Name.Lexeme != "sang" {
		t.Errorf("first method - got: %q", classStmt.Methods[0].Name.Lexeme)
	}
}

func TestParseNewExpression(t *testing.T) {
	statements := parseSource(t, "ao b = mai Box(7)")
	varStmt := statements[0].(ast.VarStmt)
	newExpr, ok := varStmt.Initializer.(ast.New)
	if !ok {
		t.Fatalf("initializer - got %T, want New", varStmt.Initializer)
	}
	if len(newExpr.Arguments) != 1 {
		t.Errorf("arguments - got %d, want 1", len(newExpr.Arguments))
	}
}

func TestParseSwitch(t *testing.T) {
	statements := parseSource(t, "cheek x\nkarani 1: da \"one\"\nkarani 2: da \"two\"\npokati: da \"other\"\njob")
	switchStmt, ok := statements[0].(ast.SwitchStmt)
	if !ok {
		t.Fatalf("got %T, want SwitchStmt", statements[0])
	}
	if len(switchStmt.Cases) != 2 {
		t.Errorf("cases - got %d, want 2", len(switchStmt.Cases))
	}
	if switchStmt.Default == nil {
		t.Errorf("default body missing")
	}
}

func TestParseForLoop(t *testing.T) {
	statements := parseSource(t, "tuk i = 1 thueng 10 yang 2\nda i\njob")
	forStmt, ok := statements[0].(ast.ForStmt)
	if !ok {
		t.Fatalf("got %T, want ForStmt", statements[0])
	}
	if forStmt.Name.Lexeme != "i" || forStmt.Step == nil {
		t.Errorf("for header - got: %#v", forStmt)
	}

	statements = parseSource(t, "tuk i = 1 thueng 10\nda i\njob")
	forStmt = statements[0].(ast.ForStmt)
	if forStmt.Step != nil {
		t.Errorf("step must be nil when absent")
	}
}

func TestParsePostfixChain(t *testing.T) {
	statements := parseSource(t, "da a.b(c)[0].d")
	printStmt := statements[0].(ast.PrintStmt)
	member, ok := printStmt.Expressions[0].(ast.Member)
	if !ok {
		t.Fatalf("got %T, want Member at the top", printStmt.Expressions[0])
	}
	if member.Name.Lexeme != "d" {
		t.Errorf("outermost member - got: %q", member.Name.Lexeme)
	}
	if _, ok := member.Object.(ast.Index); !ok {
		t.Errorf("index must nest inside the member chain")
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	statements := parseSource(t, "a = 1\no.p = 2\narr[0] = 3")
	for i, statement := range statements {
		exprStmt, ok := statement.(ast.ExpressionStmt)
		if !ok {
			t.Fatalf("statement %d - got %T", i, statement)
		}
		if _, ok := exprStmt.Expression.(ast.Assign); !ok {
			t.Errorf("statement %d - got %T, want Assign", i, exprStmt.Expression)
		}
	}

	parseFails(t, "1 = 2")
	parseFails(t, "a + b = 3")
}

func TestParseTernary(t *testing.T) {
	statements := parseSource(t, "da a ? 1 : 2")
	printStmt := statements[0].(ast.PrintStmt)
	if _, ok := printStmt.Expressions[0].(ast.Ternary); !ok {
		t.Errorf("got %T, want Ternary", printStmt.Expressions[0])
	}
}

func TestParseCollectionLiterals(t *testing.T) {
	statements := parseSource(t, "ao a = [1, 2, 3]\nao o = {x: 1, \"y\": 2, [k]: 3}")
	arrayVar := statements[0].(ast.VarStmt)
	arrayLit, ok := arrayVar.Initializer.(ast.ArrayLiteral)
	if !ok || len(arrayLit.Elements) != 3 {
		t.Errorf("array literal - got: %#v", arrayVar.Initializer)
	}
	objectVar := statements[1].(ast.VarStmt)
	objectLit, ok := objectVar.Initializer.(ast.ObjectLiteral)
	if !ok || len(objectLit.Entries) != 3 {
		t.Errorf("object literal - got: %#v", objectVar.Initializer)
	}
}

func TestParseTry(t *testing.T) {
	statements := parseSource(t, "long\nda 1\njap (e)\nda 2\njob")
	tryStmt, ok := statements[0].(ast.TryStmt)
	if !ok {
		t.Fatalf("got %T, want TryStmt", statements[0])
	}
	if tryStmt.CatchName.Lexeme != "e" {
		t.Errorf("catch name - got: %q", tryStmt.CatchName.Lexeme)
	}
	if len(tryStmt.Body) != 1 || len(tryStmt.CatchBody) != 1 {
		t.Errorf("try bodies - got %d/%d statements", len(tryStmt.Body), len(tryStmt.CatchBody))
	}
}

func TestParseErrorsAreCollected(t *testing.T) {
	lex := lexer.New("ao = 1\nda 2")
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	p := Make(tokens)
	statements, errors := p.Parse()
	if len(errors) == 0 {
		t.Fatalf("expected at least one parse error")
	}
	// Parsing continues after an error; `da 2` still parses.
	found := false
	for _, statement := range statements {
		if _, ok := statement.(ast.PrintStmt); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("the statement after the error was not parsed")
	}
}
