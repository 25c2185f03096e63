package compiler

import "fmt"

// CompileError is reported for semantic errors found while lowering the
// AST: bad name resolution, control flow outside its construct, or a
// function body that outgrew the 16-bit jump range. Errors are collected;
// a failed production does not abort its siblings, but any recorded error
// discards the compiled Function.
type CompileError struct {
	Line    int32
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 Yim compile error: line:%d - %s", e.Line, e.Message)
}

// DeveloperError flags conditions that can only be produced by a bug in
// the pipeline itself, such as an AST node kind the compiler does not
// know about.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
