package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"yim/compiler"
	"yim/lexer"
	"yim/parser"
	"yim/stdlib"
	"yim/vm"
)

// runCmd executes a Yim source file on the bytecode VM.
type runCmd struct {
	dumpAST bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Yim code from a source file" }
func (*runCmd) Usage() string {
	return `yim run <file>:
  Compile and execute a .yim source file.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "Writes the AST as JSON to ast.json before running")
	f.BoolVar(&cmd.dumpAST, "da", false, "Shorthand for dumpAST")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lexing error: %v\n", err)
		return subcommands.ExitFailure
	}

	p := parser.Make(tokens)
	statements, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			fmt.Fprintln(os.Stderr, parseErr)
		}
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		if err := p.PrintToFile(statements, "ast.json"); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Dump AST error:\n\t%s\n", err.Error())
			return subcommands.ExitFailure
		}
	}

	c := compiler.NewCompiler()
	function, err := c.Compile(statements)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}
	for _, warning := range c.Warnings() {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", warning)
	}

	machine := vm.New()
	stdlib.Register(machine)
	if _, err := machine.Run(function); err != nil {
		// The fault hook already reported the error.
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
