package lang

import (
	"context"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/lotr/engine"
)

// exprEnv is the environment visible to test expressions.
type exprEnv struct {
	Line     string   `expr:"line"`
	Cursor   int      `expr:"cursor"`
	RangeEnd int      `expr:"range_end"`
	Count    int      `expr:"count"`
	Empty    bool     `expr:"empty"`
	Groups   []string `expr:"groups"`
}

func makeExprEnv(e *engine.Engine) exprEnv {
	line, _ := e.Line()

	return exprEnv{
		Line:     line,
		Cursor:   e.Cursor(),
		RangeEnd: e.RangeEnd(),
		Count:    e.Len(),
		Empty:    e.RangeEmpty(),
		Groups:   e.Groups(),
	}
}

// exprCache memoizes compiled programs by source text.
type exprCache struct {
	mutex    sync.Mutex
	programs map[string]*vm.Program
}

func newExprCache() *exprCache {
	return &exprCache{programs: make(map[string]*vm.Program)}
}

// CompileExpr compiles a boolean test expression.
func CompileExpr(source string) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return program, nil
}

// compile returns the program for source, compiling it on first use.
// A nil cache compiles every time.
func (c *exprCache) compile(source string) (*vm.Program, error) {
	if c == nil {
		return CompileExpr(source)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if program, ok := c.programs[source]; ok {
		return program, nil
	}

	program, err := CompileExpr(source)
	if err != nil {
		return nil, err
	}

	c.programs[source] = program

	return program, nil
}

// test evaluates the boolean expression source against the state of e.
func (d Dispatcher) test(ctx context.Context, e *engine.Engine, source string) bool {
	program, err := d.exprs.compile(source)
	if err != nil {
		d.logger.WarnContext(ctx, "test expression", slog.Any("error", err))

		return false
	}

	out, err := expr.Run(program, makeExprEnv(e))
	if err != nil {
		d.logger.WarnContext(ctx, "test expression",
			slog.Any("error", ErrExprEvaluate.Wrap(err).With(slog.String("source", source))),
		)

		return false
	}

	ok, _ := out.(bool)

	return ok
}
