package lang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/lotr/engine"
	"github.com/ardnew/lotr/log"
)

// Dispatcher binds operations to engine calls.
//
// It checks the number and kinds of arguments for each operation and
// recovers from any panic raised by the engine, so a single operation can
// only ever pass, fail, or abort. A Dispatcher holds no execution state; the
// zero value is usable and logs nothing.
type Dispatcher struct {
	logger log.Logger
	exprs  *exprCache
}

// NewDispatcher returns a Dispatcher that writes diagnostics to logger and
// memoizes compiled test expressions.
func NewDispatcher(logger log.Logger) Dispatcher {
	return Dispatcher{logger: logger, exprs: newExprCache()}
}

// Dispatch applies op with args to e.
func (d Dispatcher) Dispatch(
	ctx context.Context,
	e *engine.Engine,
	op Opcode,
	args ...Literal,
) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			attrs := append(d.attrs(e, op, args), slog.String("panic", fmt.Sprint(r)))
			d.logger.ErrorContext(ctx, "operation fault", attrs...)

			result = Failed
		}
	}()

	result = d.dispatch(ctx, e, op, args)

	d.logger.TraceContext(ctx, "dispatch",
		append(d.attrs(e, op, args), slog.String("result", result.String()))...,
	)

	return result
}

//nolint:gocyclo,cyclop,funlen // one case per operation
func (d Dispatcher) dispatch(
	ctx context.Context,
	e *engine.Engine,
	op Opcode,
	args []Literal,
) Result {
	switch op {
	case OpAbort:
		msg, ok := d.message(e, args)
		if !ok || msg == "" {
			msg = "script aborted"
		}

		d.logger.ErrorContext(ctx, msg, d.attrs(e, op, args)...)

		return Aborted

	case OpLog:
		if is(args) {
			return Passed
		}

		if msg, ok := d.message(e, args); ok {
			d.logger.InfoContext(ctx, msg)

			return Passed
		}

	case OpFail:
		if msg, ok := d.message(e, args); ok && len(args) > 0 {
			d.logger.WarnContext(ctx, msg, d.attrs(e, op, args)...)
		}

		return Failed

	case OpReset:
		if is(args) {
			return resultOf(e.Reset())
		}

	case OpEmpty:
		if is(args) {
			return resultOf(e.IsEmpty())
		}

	case OpEquals:
		if is(args, KindText) {
			return resultOf(e.Equals(args[0].Value()))
		}

	case OpStarts:
		if is(args, KindText) {
			return resultOf(e.StartsWith(args[0].Value()))
		}

	case OpEnds:
		if is(args, KindText) {
			return resultOf(e.EndsWith(args[0].Value()))
		}

	case OpContains:
		if is(args, KindText) {
			return resultOf(e.Contains(args[0].Value()))
		}

	case OpMatch:
		switch {
		case is(args, KindRegex):
			return resultOf(e.Match(args[0].Pattern()))
		case is(args, KindRegex, KindInteger):
			return resultOf(e.MatchAt(args[0].Pattern(), args[1].Int()))
		}

	case OpTest:
		if is(args, KindText) {
			return resultOf(d.test(ctx, e, args[0].Value()))
		}

	case OpRangeReset:
		if is(args) {
			return resultOf(e.ClearRange())
		}

	case OpRange:
		switch {
		case is(args, KindInteger):
			return resultOf(e.SetRange(args[0].Int()))
		case is(args, KindText), is(args, KindRegex):
			return resultOf(e.SetRangeTo(selectLine(args[0])))
		}

	case OpRangeEmpty:
		if is(args) {
			return resultOf(e.SetRangeTo(engine.LineEmpty()))
		}

	case OpRangeStarts:
		if is(args, KindText) {
			return resultOf(e.SetRangeTo(engine.LineStartsWith(args[0].Value())))
		}

	case OpRangeEnds:
		if is(args, KindText) {
			return resultOf(e.SetRangeTo(engine.LineEndsWith(args[0].Value())))
		}

	case OpRangeContains:
		if is(args, KindText) {
			return resultOf(e.SetRangeTo(engine.LineContains(args[0].Value())))
		}

	case OpRangeAdjust:
		if is(args, KindInteger) {
			return resultOf(e.AdjustRange(args[0].Int()))
		}

	case OpGoto:
		if is(args, KindInteger) {
			return resultOf(e.SetCursor(args[0].Int()))
		}

	case OpNext:
		switch {
		case is(args):
			return resultOf(e.Next())
		case is(args, KindInteger):
			return resultOf(e.NextN(args[0].Int()))
		case is(args, KindText), is(args, KindRegex):
			return resultOf(e.NextTo(selectLine(args[0])))
		}

	case OpNextEmpty:
		if is(args) {
			return resultOf(e.NextTo(engine.LineEmpty()))
		}

	case OpNextStarts:
		if is(args, KindText) {
			return resultOf(e.NextTo(engine.LineStartsWith(args[0].Value())))
		}

	case OpNextEnds:
		if is(args, KindText) {
			return resultOf(e.NextTo(engine.LineEndsWith(args[0].Value())))
		}

	case OpNextContains:
		if is(args, KindText) {
			return resultOf(e.NextTo(engine.LineContains(args[0].Value())))
		}

	case OpPrev:
		switch {
		case is(args):
			return resultOf(e.Prev())
		case is(args, KindInteger):
			return resultOf(e.PrevN(args[0].Int()))
		case is(args, KindText), is(args, KindRegex):
			return resultOf(e.PrevTo(selectLine(args[0])))
		}

	case OpPrevEmpty:
		if is(args) {
			return resultOf(e.PrevTo(engine.LineEmpty()))
		}

	case OpPrevStarts:
		if is(args, KindText) {
			return resultOf(e.PrevTo(engine.LineStartsWith(args[0].Value())))
		}

	case OpPrevEnds:
		if is(args, KindText) {
			return resultOf(e.PrevTo(engine.LineEndsWith(args[0].Value())))
		}

	case OpPrevContains:
		if is(args, KindText) {
			return resultOf(e.PrevTo(engine.LineContains(args[0].Value())))
		}

	case OpInsert:
		if r, ok := write(args, e.InsertBefore, e.InsertFormat, e.InsertRewrite); ok {
			return r
		}

	case OpInsertAfter:
		if r, ok := write(args, e.InsertAfter, e.InsertAfterFormat, e.InsertAfterRewrite); ok {
			return r
		}

	case OpAppend:
		if r, ok := write(args, e.Append, e.AppendFormat, e.AppendRewrite); ok {
			return r
		}

	case OpReplace:
		if r, ok := write(args, e.Replace, e.ReplaceFormat, e.Rewrite); ok {
			return r
		}

	case OpRemove:
		if is(args) {
			return resultOf(e.Remove())
		}

	case OpRemoveRange:
		if is(args) {
			return resultOf(e.RemoveRange())
		}

	case OpReplaceFirst:
		if is(args, KindRegex, KindText) {
			return resultOf(e.ReplaceFirst(args[0].Pattern(), args[1].Value()))
		}

	case OpReplaceAll:
		if is(args, KindRegex, KindText) {
			return resultOf(e.ReplaceAll(args[0].Pattern(), args[1].Value()))
		}

	case OpReplaceText:
		if is(args, KindText, KindText) {
			return resultOf(e.ReplaceText(args[0].Value(), args[1].Value()))
		}

	case OpTranslate:
		if is(args, KindText, KindText) {
			return resultOf(e.Translate(args[0].Value(), args[1].Value()))
		}

	case OpCatenate:
		switch {
		case is(args):
			return resultOf(e.Catenate(1))
		case is(args, KindInteger):
			return resultOf(e.Catenate(args[0].Int()))
		}

	case OpUpper:
		if is(args) {
			return resultOf(e.Upper())
		}

	case OpLower:
		if is(args) {
			return resultOf(e.Lower())
		}

	case OpTrim:
		if is(args) {
			return resultOf(e.Trim())
		}

	case OpSlice:
		switch {
		case is(args, KindInteger):
			return resultOf(e.Slice(args[0].Int()))
		case is(args, KindInteger, KindInteger):
			return resultOf(e.SliceRange(args[0].Int(), args[1].Int()))
		}

	case OpSplit:
		if is(args, KindRegex) {
			return resultOf(e.Split(args[0].Pattern()))
		}
	}

	d.logger.WarnContext(ctx, "invalid arguments",
		append(d.attrs(e, op, args), slog.String("usage", op.Usage()))...,
	)

	return Failed
}

// is reports whether args has exactly the given kinds, in order.
func is(args []Literal, kinds ...LiteralKind) bool {
	if len(args) != len(kinds) {
		return false
	}

	for i, k := range kinds {
		if args[i].Kind != k {
			return false
		}
	}

	return true
}

// selectLine returns a selector for a text or regex argument.
func selectLine(arg Literal) engine.Selector {
	if arg.Kind == KindRegex {
		return engine.LineMatches(arg.Pattern())
	}

	return engine.LineEquals(arg.Value())
}

// write dispatches the text, template, and rewrite forms shared by the
// insert, append, and replace operations.
func write(
	args []Literal,
	text func(string) bool,
	format func(string) bool,
	rewrite func(*engine.Pattern, string) bool,
) (Result, bool) {
	switch {
	case is(args, KindText):
		return resultOf(text(args[0].Value())), true
	case is(args, KindTemplate):
		return resultOf(format(args[0].Value())), true
	case is(args, KindRegex, KindTemplate):
		return resultOf(rewrite(args[0].Pattern(), args[1].Value())), true
	default:
		return Failed, false
	}
}

// message returns the text of a log message argument. Templates are
// rendered against the current capture groups. No arguments yields an empty
// message.
func (d Dispatcher) message(e *engine.Engine, args []Literal) (string, bool) {
	switch {
	case is(args):
		return "", true
	case is(args, KindText):
		return args[0].Value(), true
	case is(args, KindTemplate):
		s, err := e.Render(args[0].Value())
		if err != nil {
			return "", false
		}

		return s, true
	default:
		return "", false
	}
}

// attrs returns the diagnostic attributes describing op applied to e.
func (d Dispatcher) attrs(e *engine.Engine, op Opcode, args []Literal) []slog.Attr {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = arg.String()
	}

	attrs := []slog.Attr{
		slog.String("op", op.String()),
		slog.Any("args", strs),
		slog.Int("cursor", e.Cursor()),
		slog.Int("range_end", e.RangeEnd()),
	}

	if line, ok := e.Line(); ok {
		attrs = append(attrs, slog.String("line", line))
	}

	return attrs
}
