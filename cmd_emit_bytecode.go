package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"yim/compiler"
	"yim/lexer"
	"yim/parser"
)

// emitBytecodeCmd compiles a source file and writes its disassembled
// bytecode to a text file, without executing it.
type emitBytecodeCmd struct {
	outPath string
}

func (*emitBytecodeCmd) Name() string { return "emit" }
func (*emitBytecodeCmd) Synopsis() string {
	return "Emit the disassembled bytecode of a source file"
}
func (*emitBytecodeCmd) Usage() string {
	return `yim emit <file>:
  Compile a .yim source file and write the disassembled bytecode next to it.
`
}

func (cmd *emitBytecodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "out", "", "Path of the output file. Defaults to the source file name with a .byc extension")
}

func (cmd *emitBytecodeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	sourceFile := args[0]
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file:\n\t%v\n", err.Error())
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
		fmt.Fprintf(os.Stderr, "💥 Parsing error:\n")
		for _, parseErr := range parseErrs {
			fmt.Fprintf(os.Stderr, "\t%v\n", parseErr)
		}
		return subcommands.ExitFailure
	}

	c := compiler.NewCompiler()
	if _, err := c.Compile(statements); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Compilation error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}

	outPath := cmd.outPath
	if outPath == "" {
		outPath = strings.TrimSuffix(sourceFile, ".yim") + ".byc"
	}
	if err := os.WriteFile(outPath, []byte(c.Disassemble()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write bytecode file:\n\t%v\n", err.Error())
		return subcommands.ExitFailure
	}

	fmt.Printf("Wrote %s\n", outPath)
	return subcommands.ExitSuccess
}
