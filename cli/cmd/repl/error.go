package repl

import "github.com/ardnew/mson/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrNoModel      = pkg.NewError("no model to inspect")
	ErrNoNode       = pkg.NewError("node not found")
	ErrCompile      = pkg.NewError("compile expression")
	ErrEval         = pkg.NewError("evaluate expression")
)
