package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"yim/compiler"
	"yim/lexer"
	"yim/parser"
	"yim/stdlib"
	"yim/token"
	"yim/vm"
)

// replCmd starts an interactive session on the bytecode VM. Globals
// persist between lines because the same VM executes every snippet.
type replCmd struct {
	disassemble bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive REPL session" }
func (*replCmd) Usage() string {
	return `yim repl:
  Start an interactive session. Type 'exit' to leave.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "Print the bytecode of every snippet before running it")
	f.BoolVar(&cmd.disassemble, "di", false, "Shorthand for disassemble")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {

	fmt.Println("\nWelcome to the Yim programming language!")
	fmt.Println("Type 'exit' to leave.")
	fmt.Println("")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     os.TempDir() + "/yim_history",
		InterruptPrompt: "^C",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New()
	stdlib.Register(machine)
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		lex := lexer.New(source)
		tokens, err := lex.Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		p := parser.Make(tokens)
		statements, parseErrs := p.Parse()
		if len(parseErrs) > 0 {
			// If all parse errors are syntax errors that occur at the position of the EOF token,
			// it means that the user has not finished typing their input yet.
			// We should wait for more input instead of showing an error.
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			for _, parseErr := range parseErrs {
				fmt.Fprintf(os.Stdout, "%v\n", parseErr)
			}
			buffer.Reset()
			continue
		}

		c := compiler.NewCompiler()
		function, err := c.Compile(statements)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			buffer.Reset()
			continue
		}
		for _, warning := range c.Warnings() {
			fmt.Fprintf(os.Stderr, "⚠️  %s\n", warning)
		}

		if cmd.disassemble {
			fmt.Print(c.Disassemble())
		}

		// On a fault the hook has already reported the error; either way
		// the REPL moves on to the next line.
		machine.Run(function)
		buffer.Reset()
	}
}

// isInputReady checks if the input is ready to be parsed and executed.
// It checks for unterminated `job` blocks and whether the last token is
// an operator or a keyword that expects more input.
//
// For example, if the user types `tha x > 5`, the REPL should wait for
// more input until the user finishes the block with `job`.
func isInputReady(tokens []token.Token) bool {

	blockBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.FUNC, token.WHILE, token.FOR, token.CLASS, token.SWITCH, token.TRY:
			blockBalance++
		case token.IF:
			// `uen tha` continues an existing block instead of opening one.
			blockBalance++
		case token.END:
			blockBalance--
		}
	}
	// `uen tha` pairs were double counted above; every ELSE followed by IF
	// cancels one IF.
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].TokenType == token.ELSE && tokens[i+1].TokenType == token.IF {
			blockBalance--
		}
	}

	if blockBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN,
		token.ADD,
		token.SUB,
		token.MULT,
		token.DIV,
		token.MODULO,
		token.POWER,
		token.BANG,
		token.EQUAL_EQUAL,
		token.NOT_EQUAL,
		token.LESS,
		token.LESS_EQUAL,
		token.LARGER,
		token.LARGER_EQUAL,
		token.COMMA,
		token.DOT,
		token.COLON,
		token.QUESTION,
		token.LPA,
		token.LBRACKET,
		token.LCUR,
		token.IF,
		token.ELSE,
		token.WHILE,
		token.FOR,
		token.TO,
		token.STEP,
		token.FUNC,
		token.RETURN,
		token.VAR,
		token.NEW,
		token.AND,
		token.OR,
		token.PRINT:
		return false
	}

	return true
}

// lastNonEOF returns the last non-EOF token from the list of tokens. If all tokens are EOF, it returns nil.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF checks if all parse errors are syntax errors that occur at the position of the EOF token.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
