// Package lang decodes and executes lotr scripts.
//
// A script is a tree of commands. Leaves are operations, each bound to one
// call on an [engine.Engine]; interior nodes combine their children:
//
//   - all: run children in order, stopping at the first failure
//   - any: run children in order, stopping at the first success
//   - repeat: run the body until it fails; the repeat itself passes
//
// Every command yields a [Result]. [Aborted] is produced only by the abort
// operation (or a cancelled context) and ends execution at once, passing
// through every enclosing command.
//
// # Syntax
//
// Scripts are YAML documents. A list is a sequence of commands. A command
// is an operation name, or a mapping with a single key naming the operation
// or control keyword:
//
//	# Turn "key = value" lines into "value: key" and drop comments.
//	- repeat:
//	    any:
//	      - all: [{starts: "#"}, remove]
//	      - all: [{replace: [!re '(\w+)\s*=\s*(\w+)', !fmt '{2}: {1}']}, next]
//	      - next
//
// Arguments follow the operation name, as one scalar or as a list. Their
// types come from YAML: quoted or plain strings are text, integers and
// floats are numbers, and tags select the rest:
//
//	!re  'a|b'     regular expression (RE2 syntax)
//	!fmt '{1}-{0}' template with positional placeholders
//	!text 42       text, whatever it looks like
//
// Run "lotr ops" for the operations and the arguments each accepts.
// Arguments are checked when an operation runs, not when it is decoded, so
// a mismatch is an ordinary failure that a surrounding any can absorb.
//
// # Expressions
//
// The test operation evaluates a boolean expr-lang expression over the
// variables line, cursor, range_end, count, empty, and groups:
//
//	- test: 'len(line) > 80 && !empty'
package lang
