package lang

import "iter"

// Opcode names a primitive operation bound to one engine call.
type Opcode uint8

const (
	OpAbort Opcode = iota
	OpLog
	OpFail
	OpReset
	OpEmpty
	OpEquals
	OpStarts
	OpEnds
	OpContains
	OpMatch
	OpTest
	OpRangeReset
	OpRange
	OpRangeEmpty
	OpRangeStarts
	OpRangeEnds
	OpRangeContains
	OpRangeAdjust
	OpGoto
	OpNext
	OpNextEmpty
	OpNextStarts
	OpNextEnds
	OpNextContains
	OpPrev
	OpPrevEmpty
	OpPrevStarts
	OpPrevEnds
	OpPrevContains
	OpInsert
	OpInsertAfter
	OpAppend
	OpRemove
	OpRemoveRange
	OpReplace
	OpReplaceFirst
	OpReplaceAll
	OpReplaceText
	OpTranslate
	OpCatenate
	OpUpper
	OpLower
	OpTrim
	OpSlice
	OpSplit

	opcodeCount
)

type opcodeInfo struct {
	name    string
	usage   string
	summary string
}

//nolint:gochecknoglobals
var opcodes = [opcodeCount]opcodeInfo{
	OpAbort:         {"abort", "[text|fmt]", "stop the script and exit with the abort status"},
	OpLog:           {"log", "[text|fmt]", "write a message to the log"},
	OpFail:          {"fail", "[text|fmt]", "fail, logging a warning if a message is given"},
	OpReset:         {"reset", "", "move to the first line and select the whole buffer"},
	OpEmpty:         {"empty", "", "test that the current line is empty"},
	OpEquals:        {"equals", "text", "test that the current line equals text"},
	OpStarts:        {"starts", "text", "test that the current line starts with text"},
	OpEnds:          {"ends", "text", "test that the current line ends with text"},
	OpContains:      {"contains", "text", "test that the current line contains text"},
	OpMatch:         {"match", "re [integer]", "match the current (or numbered) line and capture groups"},
	OpTest:          {"test", "text", "evaluate a boolean expression"},
	OpRangeReset:    {"range-reset", "", "extend the range to the end of the buffer"},
	OpRange:         {"range", "text|re|integer", "end the range before a line, or after n lines"},
	OpRangeEmpty:    {"range-empty", "", "end the range before the next empty line"},
	OpRangeStarts:   {"range-starts", "text", "end the range before the next line starting with text"},
	OpRangeEnds:     {"range-ends", "text", "end the range before the next line ending with text"},
	OpRangeContains: {"range-contains", "text", "end the range before the next line containing text"},
	OpRangeAdjust:   {"range-adjust", "integer", "grow or shrink the range"},
	OpGoto:          {"goto", "integer", "move to an absolute line index"},
	OpNext:          {"next", "[text|re|integer]", "move forward within the range"},
	OpNextEmpty:     {"next-empty", "", "move forward to the next empty line"},
	OpNextStarts:    {"next-starts", "text", "move forward to the next line starting with text"},
	OpNextEnds:      {"next-ends", "text", "move forward to the next line ending with text"},
	OpNextContains:  {"next-contains", "text", "move forward to the next line containing text"},
	OpPrev:          {"prev", "[text|re|integer]", "move backward"},
	OpPrevEmpty:     {"prev-empty", "", "move backward to the previous empty line"},
	OpPrevStarts:    {"prev-starts", "text", "move backward to the previous line starting with text"},
	OpPrevEnds:      {"prev-ends", "text", "move backward to the previous line ending with text"},
	OpPrevContains:  {"prev-contains", "text", "move backward to the previous line containing text"},
	OpInsert:        {"insert", "text|fmt|re fmt", "insert a line before the current line"},
	OpInsertAfter:   {"insert-after", "text|fmt|re fmt", "insert a line after the current line and move to it"},
	OpAppend:        {"append", "text|fmt|re fmt", "add a line at the end of the range"},
	OpRemove:        {"remove", "", "delete the current line"},
	OpRemoveRange:   {"remove-range", "", "delete every line in the range"},
	OpReplace:       {"replace", "text|fmt|re fmt", "overwrite the current line"},
	OpReplaceFirst:  {"replace-first", "re text", "substitute the first match in the current line"},
	OpReplaceAll:    {"replace-all", "re text", "substitute every match in the current line"},
	OpReplaceText:   {"replace-text", "text text", "substitute every occurrence of text"},
	OpTranslate:     {"translate", "text text", "map characters one for one"},
	OpCatenate:      {"catenate", "[integer]", "join following lines onto the current line"},
	OpUpper:         {"upper", "", "convert the current line to upper case"},
	OpLower:         {"lower", "", "convert the current line to lower case"},
	OpTrim:          {"trim", "", "strip surrounding whitespace"},
	OpSlice:         {"slice", "integer [integer]", "keep a substring of the current line"},
	OpSplit:         {"split", "re", "split the current line into capture groups"},
}

//nolint:gochecknoglobals
var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, opcodeCount)
	for op := range Opcodes() {
		m[op.String()] = op
	}

	return m
}()

// Opcodes returns an iterator over every operation in declaration order.
func Opcodes() iter.Seq[Opcode] {
	return func(yield func(Opcode) bool) {
		for op := range opcodeCount {
			if !yield(op) {
				return
			}
		}
	}
}

// OpcodeNames returns the names of every operation in declaration order.
func OpcodeNames() []string {
	names := make([]string, 0, opcodeCount)
	for op := range Opcodes() {
		names = append(names, op.String())
	}

	return names
}

// ParseOpcode returns the operation with the given name.
func ParseOpcode(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]

	return op, ok
}

// String returns the script name of the operation.
func (o Opcode) String() string {
	if o >= opcodeCount {
		return "unknown"
	}

	return opcodes[o].name
}

// Usage describes the argument shapes the operation accepts.
// Alternatives are separated by "|" and optional arguments are bracketed.
func (o Opcode) Usage() string {
	if o >= opcodeCount {
		return ""
	}

	return opcodes[o].usage
}

// Summary returns a one-line description of the operation.
func (o Opcode) Summary() string {
	if o >= opcodeCount {
		return ""
	}

	return opcodes[o].summary
}
