// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A Recursive descent parser is a top-down parser because it starts from the top
// grammar rule and works its way down in to the nested sub-expressions before reaching
// the leaves of the syntax tree (terminal rules)
//
// Yim blocks are terminated by the `job` keyword rather than braces, so
// statement lists are parsed until one of the terminator keywords of the
// surrounding construct appears.
package parser

import (
	"fmt"

	"yim/ast"
	"yim/token"
)

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var shiftTokenTypes = []token.TokenType{
	token.LSHIFT,
	token.RSHIFT,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
	token.MODULO,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
	token.BIT_NOT,
}

// expressionStartTypes lists the token types that may begin an expression.
// Used to decide whether `kuun` carries a return value.
var expressionStartTypes = []token.TokenType{
	token.NUMBER,
	token.STRING,
	token.IDENTIFIER,
	token.TRUE,
	token.FALSE,
	token.NULL,
	token.LPA,
	token.LBRACKET,
	token.LCUR,
	token.SUB,
	token.BANG,
	token.BIT_NOT,
	token.FUNC,
	token.NEW,
	token.THIS,
}

type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: The parsers position is always one unit ahead of the
// current token

// Initializes and returns a new Parser instance.
//
// Parameters:
//   - tokens: []token.Token
//     The tokens created by the lexer.
//
// Returns:
//   - *Parser: A pointer to a newly created Parser instance.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	_, err := PrintASTJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided statements to a .json file at the given path.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteASTJSONToFile(statements, path)
}

// Peeks the token at the parser's current position,
// without advancing the parser's position.
// Returns:
//   - token.Token: The token at the parser's current position
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// Retrieves the token at the parser's previous position
// (position -1)
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// Increments the parser's position by one unit and
// consumes the current token
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// Determines if the parser has finished scanning all the tokens.
//
// Returns:
//   - bool: true if the parser has finished scanning, false otherwise
func (parser *Parser) isFinished() bool {
	tok := parser.peek()
	return tok.TokenType == token.EOF
}

// Determines if the provided tokenType matches the TokenType
// at the parser's current position
//
// Returns
//   - bool: true if the TokenType matches, false otherwise
func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	tok := parser.peek()
	return tok.TokenType == tokenType
}

// checkAny determines if the TokenType at the current position matches any
// of the provided tokenTypes without consuming it.
func (parser *Parser) checkAny(tokenTypes ...token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			return true
		}
	}
	return false
}

// Determines if the TokenType at the current
// position matches any of the provided tokenTypes. If a match is
// found the parser increments its position and consumes the
// current token
//
// Returns
//   - bool: true if a match was found, false otherwise
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for i := range tokenTypes {
		tokenType := tokenTypes[i]

		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// Parse parses the entire token stream into a slice of Stmt (statement) nodes,
// continuing until the end of input. Errors during parsing are collected
// but parsing continues to find additional errors where possible.
//
// Returns:
//   - []Stmt: the successfully parsed statements.
//   - []error: all errors that occurred during parsing.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	statements := []ast.Stmt{}
	errors := []error{}

	for {
		parser.skipSeparators()
		if parser.isFinished() {
			break
		}
		statement, err := parser.declaration()
		if err != nil {
			errors = append(errors, err)
			if !parser.isFinished() {
				parser.position++
			}
			continue
		}
		statements = append(statements, statement)
	}

	return statements, errors
}

// skipSeparators consumes any optional `;` statement separators.
func (parser *Parser) skipSeparators() {
	for parser.checkType(token.SEMICOLON) {
		parser.advance()
	}
}

// declaration parses a declaration statement.
//
// It first checks if the next token is a variable, function or class
// declaration keyword. If so, it dispatches to the matching declaration
// method; otherwise it parses a general statement.
//
// Returns the parsed statement (Stmt) or an error if parsing fails.
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.VAR}) {
		return parser.variableDeclaration()
	}
	if parser.checkType(token.FUNC) {
		// `kian name(...)` is a declaration; a bare `kian (...)` is an
		// anonymous function expression and falls through to statement().
		next := parser.tokens[parser.position+1]
		if next.TokenType == token.IDENTIFIER {
			parser.advance()
			fnStmt, err := parser.functionDeclaration()
			if err != nil {
				return nil, err
			}
			return fnStmt, nil
		}
	}
	if parser.isMatch([]token.TokenType{token.CLASS}) {
		return parser.classDeclaration()
	}
	return parser.statement()
}

// variableDeclaration parses a variable declaration statement.
// It expects an identifier token for the variable name
// followed by an optional '=' and an initializer expression.
// Returns:
//   - ast.VarStmt: A VarStmt AST node representing the variable declaration.
//   - error: A SyntaxError if parsing fails.
func (parser *Parser) variableDeclaration() (ast.Stmt, error) {
	tok, consumeError := parser.consume(token.IDENTIFIER, "Expected variable name")
	if consumeError != nil {
		return nil, consumeError
	}

	var initialiser ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		var err error
		initialiser, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	return ast.VarStmt{
		Name:        tok,
		Initializer: initialiser,
	}, nil
}

// functionDeclaration parses `name(params) body job`. The `kian` keyword
// has already been consumed by the caller.
func (parser *Parser) functionDeclaration() (ast.FunctionStmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expected function name")
	if err != nil {
		return ast.FunctionStmt{}, err
	}

	params, err := parser.parameterList()
	if err != nil {
		return ast.FunctionStmt{}, err
	}

	body, err := parser.statementsUntil(token.END)
	if err != nil {
		return ast.FunctionStmt{}, err
	}
	if _, err := parser.consume(token.END, "Expected 'job' after function body"); err != nil {
		return ast.FunctionStmt{}, err
	}

	return ast.FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

// parameterList parses "(a, b, c)" and returns the parameter name tokens.
func (parser *Parser) parameterList() ([]token.Token, error) {
	if _, err := parser.consume(token.LPA, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	params := []token.Token{}
	if !parser.checkType(token.RPA) {
		for {
			param, err := parser.consume(token.IDENTIFIER, "Expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

// classDeclaration parses `klum Name methods... job`. Only method
// declarations may appear in a class body; the method named `sang` is the
// initializer by convention.
func (parser *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expected class name")
	if err != nil {
		return nil, err
	}

	methods := []ast.FunctionStmt{}
	for {
		parser.skipSeparators()
		if parser.checkType(token.END) || parser.isFinished() {
			break
		}
		if _, err := parser.consume(token.FUNC, "Expected method declaration inside class body"); err != nil {
			return nil, err
		}
		method, err := parser.functionDeclaration()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := parser.consume(token.END, "Expected 'job' after class body"); err != nil {
		return nil, err
	}

	return ast.ClassStmt{
		Name:    name,
		Methods: methods,
	}, nil
}

// statement parses a single statement: print, control flow, a loop
// control keyword, a return, or an expression statement.
//
// Returns:
//   - Stmt: the parsed statement node.
//   - error: if parsing fails, otherwise nil.
func (parser *Parser) statement() (ast.Stmt, error) {

	if parser.isMatch([]token.TokenType{token.PRINT}) {
		return parser.printStatement()
	}
	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}
	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}
	if parser.isMatch([]token.TokenType{token.FOR}) {
		return parser.forStatement()
	}
	if parser.isMatch([]token.TokenType{token.SWITCH}) {
		return parser.switchStatement()
	}
	if parser.isMatch([]token.TokenType{token.RETURN}) {
		return parser.returnStatement()
	}
	if parser.isMatch([]token.TokenType{token.BREAK}) {
		return ast.BreakStmt{Keyword: parser.previous()}, nil
	}
	if parser.isMatch([]token.TokenType{token.CONTINUE}) {
		return ast.ContinueStmt{Keyword: parser.previous()}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRY}) {
		return parser.tryStatement()
	}

	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expression}, nil
}

// printStatement parses a print statement "da <expr> [, <expr> ...]".
//
// Returns:
//   - Stmt: a PrintStmt containing the expressions to print.
//   - error: if an inner expression fails to parse.
func (parser *Parser) printStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	expressions := []ast.Expression{}
	for {
		expression, err := parser.expression()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expression)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	return ast.PrintStmt{Keyword: keyword, Expressions: expressions}, nil
}

// statementsUntil parses declarations until one of the provided terminator
// token types (or EOF) is reached. The terminator itself is not consumed.
func (parser *Parser) statementsUntil(terminators ...token.TokenType) ([]ast.Stmt, error) {
	statements := []ast.Stmt{}
	for {
		parser.skipSeparators()
		if parser.isFinished() || parser.checkAny(terminators...) {
			break
		}
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// ifStatement parses `tha cond ... [uen tha ... | uen ...] job`.
//
// An `uen tha` chain shares a single trailing `job`, consumed by the
// innermost branch of the recursion.
// Returns:
//   - ast.IfStmt: an IfStmt AST node.
//   - error: if any part fails to parse.
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	conditionExpr, err := parser.expression()
	if err != nil {
		return nil, err
	}

	thenStmts, err := parser.statementsUntil(token.ELSE, token.END)
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		if parser.isMatch([]token.TokenType{token.IF}) {
			// `uen tha` chain; the nested if consumes the final job.
			elseStmt, err = parser.ifStatement()
			if err != nil {
				return nil, err
			}
		} else {
			elseStmts, err := parser.statementsUntil(token.END)
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.END, "Expected 'job' after else branch"); err != nil {
				return nil, err
			}
			elseStmt = ast.BlockStmt{Statements: elseStmts}
		}
	} else {
		if _, err := parser.consume(token.END, "Expected 'job' after if body"); err != nil {
			return nil, err
		}
	}

	return ast.IfStmt{
		Condition: conditionExpr,
		Then:      ast.BlockStmt{Statements: thenStmts},
		Else:      elseStmt,
	}, nil
}

// whileStatement parses `wonn cond body job`.
// Returns:
//   - ast.WhileStmt with the parsed condition and body.
//   - error: if parsing the condition or body fails.
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}

	body, err := parser.statementsUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.END, "Expected 'job' after loop body"); err != nil {
		return nil, err
	}

	return ast.WhileStmt{
		Condition: expr,
		Body:      ast.BlockStmt{Statements: body},
	}, nil
}

// forStatement parses the counted loop
// `tuk i = start thueng end [yang step] body job`.
func (parser *Parser) forStatement() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expected loop variable name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.ASSIGN, "Expected '=' after loop variable"); err != nil {
		return nil, err
	}
	start, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.TO, "Expected 'thueng' after loop start"); err != nil {
		return nil, err
	}
	end, err := parser.expression()
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if parser.isMatch([]token.TokenType{token.STEP}) {
		step, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	body, err := parser.statementsUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.END, "Expected 'job' after loop body"); err != nil {
		return nil, err
	}

	return ast.ForStmt{
		Name:  name,
		Start: start,
		End:   end,
		Step:  step,
		Body:  body,
	}, nil
}

// switchStatement parses
// `cheek expr (karani expr : body)* [pokati : body] job`.
func (parser *Parser) switchStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	discriminant, err := parser.expression()
	if err != nil {
		return nil, err
	}

	cases := []ast.SwitchCase{}
	var defaultBody []ast.Stmt
	for {
		parser.skipSeparators()
		if parser.checkType(token.END) || parser.isFinished() {
			break
		}
		if parser.isMatch([]token.TokenType{token.CASE}) {
			caseValue, err := parser.expression()
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.COLON, "Expected ':' after case value"); err != nil {
				return nil, err
			}
			body, err := parser.statementsUntil(token.CASE, token.DEFAULT, token.END)
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{Value: caseValue, Body: body})
			continue
		}
		if parser.isMatch([]token.TokenType{token.DEFAULT}) {
			if _, err := parser.consume(token.COLON, "Expected ':' after 'pokati'"); err != nil {
				return nil, err
			}
			defaultBody, err = parser.statementsUntil(token.CASE, token.DEFAULT, token.END)
			if err != nil {
				return nil, err
			}
			continue
		}
		current := parser.peek()
		return nil, CreateSyntaxError(current.Line, current.Column, "Expected 'karani' or 'pokati' inside switch")
	}
	if _, err := parser.consume(token.END, "Expected 'job' after switch"); err != nil {
		return nil, err
	}

	return ast.SwitchStmt{
		Keyword:      keyword,
		Discriminant: discriminant,
		Cases:        cases,
		Default:      defaultBody,
	}, nil
}

// returnStatement parses `kuun [value]`. The value is present whenever the
// next token can begin an expression.
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	var value ast.Expression
	if parser.checkAny(expressionStartTypes...) {
		var err error
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	return ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

// tryStatement parses `long body jap (name) handler job`. The handler
// shape is recognized for forward compatibility; see the compiler for the
// current execution contract.
func (parser *Parser) tryStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	body, err := parser.statementsUntil(token.CATCH, token.END)
	if err != nil {
		return nil, err
	}

	var catchName token.Token
	var catchBody []ast.Stmt
	if parser.isMatch([]token.TokenType{token.CATCH}) {
		if _, err := parser.consume(token.LPA, "Expected '(' after 'jap'"); err != nil {
			return nil, err
		}
		catchName, err = parser.consume(token.IDENTIFIER, "Expected catch variable name")
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "Expected ')' after catch variable"); err != nil {
			return nil, err
		}
		catchBody, err = parser.statementsUntil(token.END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.END, "Expected 'job' after try statement"); err != nil {
		return nil, err
	}

	return ast.TryStmt{
		Keyword:   keyword,
		Body:      body,
		CatchName: catchName,
		CatchBody: catchBody,
	}, nil
}

// expression is the entry point for parsing expressions. It begins at
// the assignment rule, which encompasses all lower-precedence rules.
//
// Returns:
//   - Expression: the parsed expression AST node.
//   - error: if parsing fails.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment parses an assignment expression from the token stream.
//
// The left-hand side is parsed first as a ternary expression. If an '='
// follows, the right-hand side is parsed recursively (assignment is
// right-associative) and the LHS is validated as an assignable target:
// a variable, a member access or an indexed access.
//
// Returns:
//   - Expression: Either an Assign node or the underlying expression if
//     no assignment is found.
//   - error: Parsing errors such as invalid assignment targets or failed
//     parsing of sub-expressions.
func (parser *Parser) assignment() (ast.Expression, error) {
	expression, err := parser.ternary()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		equalsToken := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		switch expression.(type) {
		case ast.Variable, ast.Member, ast.Index:
			return ast.Assign{Target: expression, Value: value, Equals: equalsToken}, nil
		default:
			msg := "Invalid assignment target"
			return nil, CreateSyntaxError(equalsToken.Line, equalsToken.Column, msg)
		}
	}

	return expression, nil
}

// ternary parses `cond ? then : else`. The condition has already bound
// tighter than assignment; both branches are parsed at ternary level so
// the operator nests to the right.
func (parser *Parser) ternary() (ast.Expression, error) {
	condition, err := parser.or()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.QUESTION}) {
		thenExpr, err := parser.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.COLON, "Expected ':' in ternary expression"); err != nil {
			return nil, err
		}
		elseExpr, err := parser.ternary()
		if err != nil {
			return nil, err
		}
		return ast.Ternary{Condition: condition, Then: thenExpr, Else: elseExpr}, nil
	}
	return condition, nil
}

// or parses a logical OR expression (`rue`, `||`) from the token stream.
// It first parses an AND expression on the left side, then consumes
// any sequence of OR operators, building a left-associative AST of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		rightExpr, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}

	return expr, nil
}

// and parses a logical AND expression (`lae`, `&&`) from the token stream.
// It first parses a bitwise-or expression on the left side,
// then consumes any sequence of AND operators, building a left-associative
// abstract syntax tree (AST) of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.bitOr()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		rightExpr, err := parser.bitOr()
		if err != nil {
			return nil, err
		}

		expr = ast.Logical{
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}
	return expr, nil
}

// bitOr, bitXor and bitAnd parse the bitwise operator levels, each
// left-associative and binding tighter than the previous one.
func (parser *Parser) bitOr() (ast.Expression, error) {
	return parser.binaryLevel([]token.TokenType{token.BIT_OR}, parser.bitXor)
}

func (parser *Parser) bitXor() (ast.Expression, error) {
	return parser.binaryLevel([]token.TokenType{token.BIT_XOR}, parser.bitAnd)
}

func (parser *Parser) bitAnd() (ast.Expression, error) {
	return parser.binaryLevel([]token.TokenType{token.BIT_AND}, parser.equality)
}

// equality parses equality expressions using operators "==" and "!=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing equality comparison.
//   - error: if parsing fails.
func (parser *Parser) equality() (ast.Expression, error) {
	return parser.binaryLevel(equalityTokenTypes, parser.comparison)
}

// comparison parses comparison expressions using operators "<", "<=", ">", ">=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing a comparison.
//   - error: if parsing fails.
func (parser *Parser) comparison() (ast.Expression, error) {
	return parser.binaryLevel(comparisonTokenTypes, parser.shift)
}

// shift parses "<<" and ">>" expressions.
func (parser *Parser) shift() (ast.Expression, error) {
	return parser.binaryLevel(shiftTokenTypes, parser.term)
}

// term parses addition and subtraction expressions using operators "+" and "-".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing addition or subtraction.
//   - error: if parsing fails.
func (parser *Parser) term() (ast.Expression, error) {
	return parser.binaryLevel(termTokenTypes, parser.factor)
}

// factor parses multiplication, division and modulo expressions.
//
// Returns:
//   - Expression: a Binary node (or sub-expression).
//   - error: if parsing fails.
func (parser *Parser) factor() (ast.Expression, error) {
	return parser.binaryLevel(factorExpressionTypes, parser.power)
}

// binaryLevel parses one left-associative binary precedence level: it
// parses the next-higher level, then folds any sequence of the given
// operators into Binary nodes.
func (parser *Parser) binaryLevel(operators []token.TokenType, higher func() (ast.Expression, error)) (ast.Expression, error) {
	exp, err := higher()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(operators) {
		operator := parser.previous()
		right, err := higher()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// power parses the exponentiation operator "**", which is
// right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (parser *Parser) power() (ast.Expression, error) {
	exp, err := parser.unary()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.POWER}) {
		operator := parser.previous()
		right, err := parser.power()
		if err != nil {
			return nil, err
		}
		return ast.Binary{
			Left:     exp,
			Operator: operator,
			Right:    right,
		}, nil
	}
	return exp, nil
}

// unary parses unary prefix expressions using operators "!", "-" or "~".
// Examples: "!jing", "-x", "~flags".
//
// Returns:
//   - Expression: a Unary node if a unary operator was found, otherwise defers to postfix().
//   - error: if parsing fails.
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{
			Operator: operator,
			Right:    right,
		}, nil
	}
	return parser.postfix()
}

// postfix parses a primary expression followed by any number of call,
// member access and indexed access suffixes, left to right:
// `a.b(c)[d].e` parses as ((((a.b)(c))[d]).e).
func (parser *Parser) postfix() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		if parser.isMatch([]token.TokenType{token.LPA}) {
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
			continue
		}
		if parser.isMatch([]token.TokenType{token.DOT}) {
			name, err := parser.consume(token.IDENTIFIER, "Expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Member{Object: expr, Name: name}
			continue
		}
		if parser.isMatch([]token.TokenType{token.LBRACKET}) {
			bracket := parser.previous()
			index, err := parser.expression()
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.RBRACKET, "Expected ']' after index"); err != nil {
				return nil, err
			}
			expr = ast.Index{Object: expr, Idx: index, Bracket: bracket}
			continue
		}
		break
	}
	return expr, nil
}

// finishCall parses the argument list of a call expression. The "(" has
// already been consumed.
func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	arguments := []ast.Expression{}
	if !parser.checkType(token.RPA) {
		for {
			argument, err := parser.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, argument)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	paren, err := parser.consume(token.RPA, "Expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Paren: paren, Arguments: arguments}, nil
}

// primary parses the most basic forms of expressions:
//   - Literals: jing, tej, wang, strings, numbers
//   - Array and object literals
//   - Anonymous functions, `ni`, `mai`
//   - Grouping: (expression)
//
// If no valid token matches, returns a syntax error.
//
// Returns:
//   - Expression: the parsed node.
//   - error: if no valid primary expression can be parsed.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return ast.Literal{Value: false, Line: parser.previous().Line}, nil
	}
	if parser.isMatch([]token.TokenType{token.NULL}) {
		return ast.Literal{Value: nil, Line: parser.previous().Line}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return ast.Literal{Value: true, Line: parser.previous().Line}, nil
	}

	if parser.isMatch([]token.TokenType{token.NUMBER, token.STRING}) {
		return ast.Literal{Value: parser.previous().Literal, Line: parser.previous().Line}, nil
	}

	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		return ast.Variable{Name: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.THIS}) {
		return ast.This{Keyword: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.NEW}) {
		return parser.newExpression()
	}

	if parser.isMatch([]token.TokenType{token.FUNC}) {
		return parser.functionExpression()
	}

	if parser.isMatch([]token.TokenType{token.LBRACKET}) {
		return parser.arrayLiteral()
	}

	if parser.isMatch([]token.TokenType{token.LCUR}) {
		return parser.objectLiteral()
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		_, consumeErr := parser.consume(token.RPA, fmt.Sprintf("expression is missing '%s'", token.RPA))
		if consumeErr != nil {
			return nil, consumeErr
		}
		return ast.Grouping{Expression: expr}, nil
	}

	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.Line, currentToken.Column, "Unrecognised expression.")
}

// newExpression parses `mai Callee(args...)`. The callee may be a member
// chain; the expression must end in a call.
func (parser *Parser) newExpression() (ast.Expression, error) {
	keyword := parser.previous()
	expr, err := parser.postfix()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(ast.Call)
	if !ok {
		return nil, CreateSyntaxError(keyword.Line, keyword.Column, "Expected constructor call after 'mai'")
	}
	return ast.New{
		Callee:    call.Callee,
		Keyword:   keyword,
		Arguments: call.Arguments,
	}, nil
}

// functionExpression parses an anonymous function `kian (params) body job`.
// The `kian` keyword has already been consumed.
func (parser *Parser) functionExpression() (ast.Expression, error) {
	keyword := parser.previous()
	params, err := parser.parameterList()
	if err != nil {
		return nil, err
	}
	body, err := parser.statementsUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.END, "Expected 'job' after function body"); err != nil {
		return nil, err
	}
	return ast.FunctionExpr{
		Keyword: keyword,
		Params:  params,
		Body:    body,
	}, nil
}

// arrayLiteral parses `[a, b, c]`. The "[" has already been consumed.
func (parser *Parser) arrayLiteral() (ast.Expression, error) {
	bracket := parser.previous()
	elements := []ast.Expression{}
	if !parser.checkType(token.RBRACKET) {
		for {
			element, err := parser.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RBRACKET, "Expected ']' after array elements"); err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Elements: elements, Bracket: bracket}, nil
}

// objectLiteral parses `{key: value, ...}`. Keys may be identifiers,
// string literals or bracketed computed expressions. The "{" has already
// been consumed.
func (parser *Parser) objectLiteral() (ast.Expression, error) {
	brace := parser.previous()
	entries := []ast.ObjectEntry{}
	if !parser.checkType(token.RCUR) {
		for {
			var key ast.Expression
			switch {
			case parser.isMatch([]token.TokenType{token.IDENTIFIER}):
				key = ast.Literal{Value: parser.previous().Lexeme, Line: parser.previous().Line}
			case parser.isMatch([]token.TokenType{token.STRING}):
				key = ast.Literal{Value: parser.previous().Literal, Line: parser.previous().Line}
			case parser.isMatch([]token.TokenType{token.LBRACKET}):
				computed, err := parser.expression()
				if err != nil {
					return nil, err
				}
				if _, err := parser.consume(token.RBRACKET, "Expected ']' after computed key"); err != nil {
					return nil, err
				}
				key = computed
			default:
				current := parser.peek()
				return nil, CreateSyntaxError(current.Line, current.Column, "Expected object key")
			}

			if _, err := parser.consume(token.COLON, "Expected ':' after object key"); err != nil {
				return nil, err
			}
			value, err := parser.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RCUR, "Expected '}' after object entries"); err != nil {
		return nil, err
	}
	return ast.ObjectLiteral{Entries: entries, Brace: brace}, nil
}

// Consumes the current token by advancing the parsers current position by
// one unit if the `tokenType` matches the token type of the parsers current
// position.
//
//	Returns:
//	- A SyntaxError if the provided `tokenType` does not match the `TokenType`
//		at the parsers current position
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.CreateToken(token.EOF, 0, 0), CreateSyntaxError(currentToken.Line, currentToken.Column, errorMessage)
}
