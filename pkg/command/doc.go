// Package command builds the command lines of every external program the workflow runs.
//
// A Command is a structured list of argv tokens, optionally chained with pipes and with its
// standard input or output redirected to a file. Commands are never handed to a shell, so
// no token ever needs quoting; String renders a shell-like line for logs and error messages only.
//
// Builders in this package are pure: they only describe what to run.
package command
