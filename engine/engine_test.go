package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireState checks the buffer, cursor and range end together, and that
// the structural constraints hold.
func requireState(t *testing.T, e *Engine, lines []string, cursor, rangeEnd int) {
	t.Helper()
	requireInvariants(t, e)
	assert.Equal(t, lines, e.Lines(), "lines")
	assert.Equal(t, cursor, e.Cursor(), "cursor")
	assert.Equal(t, rangeEnd, e.RangeEnd(), "range end")
}

func requireInvariants(t *testing.T, e *Engine) {
	t.Helper()
	require.GreaterOrEqual(t, e.Cursor(), 0)
	require.LessOrEqual(t, e.Cursor(), e.RangeEnd())
	require.LessOrEqual(t, e.RangeEnd(), e.Len())

	if e.Len() == 0 {
		require.Zero(t, e.Cursor())
		require.Zero(t, e.RangeEnd())
	}
}

func TestNew_CopiesInput(t *testing.T) {
	in := []string{"a", "b"}
	e := New(in)
	in[0] = "z"

	requireState(t, e, []string{"a", "b"}, 0, 2)

	out := e.Lines()
	out[1] = "z"
	assert.Equal(t, []string{"a", "b"}, e.Lines())
}

func TestEngine_EmptyBuffer(t *testing.T) {
	e := New(nil)

	_, ok := e.Line()
	assert.False(t, ok)
	assert.False(t, e.Remove())
	assert.False(t, e.Replace("x"))
	assert.False(t, e.Next())
	assert.False(t, e.Prev())
	assert.True(t, e.Reset())
	requireState(t, e, []string{}, 0, 0)
}

func TestEngine_ResetIdempotent(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.Next())
	require.True(t, e.SetRange(1))

	require.True(t, e.Reset())
	once := []int{e.Cursor(), e.RangeEnd()}
	require.True(t, e.Reset())

	assert.Equal(t, once, []int{e.Cursor(), e.RangeEnd()})
	requireState(t, e, []string{"a", "b", "c"}, 0, 3)
}

func TestEngine_NextThenSetRange(t *testing.T) {
	e := New([]string{"a", "b", "c"})

	require.True(t, e.NextTo(LineEquals("b")))
	requireState(t, e, []string{"a", "b", "c"}, 1, 3)

	require.True(t, e.SetRangeTo(LineEquals("c")))
	requireState(t, e, []string{"a", "b", "c"}, 1, 2)

	line, ok := e.Line()
	require.True(t, ok)
	assert.Equal(t, "b", line)
	assert.Equal(t, 1, e.RangeLen())
}

func TestEngine_Catenate(t *testing.T) {
	e := New([]string{"x", "y"})

	require.True(t, e.Catenate(1))
	requireState(t, e, []string{"xy"}, 0, 1)
	assert.False(t, e.Catenate(1))
	assert.False(t, e.Catenate(math.MaxInt))

	e = New([]string{"a", "b", "c", "d"})
	require.True(t, e.SetRange(3))
	assert.False(t, e.Catenate(3))
	require.True(t, e.Catenate(2))
	requireState(t, e, []string{"abc", "d"}, 0, 1)
	assert.False(t, e.Catenate(-1))
}

func TestEngine_InsertBeforeThenRemove(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.Next())

	require.True(t, e.InsertBefore("x"))
	requireState(t, e, []string{"a", "x", "b", "c"}, 2, 4)

	require.True(t, e.Prev())
	require.True(t, e.Remove())
	requireState(t, e, []string{"a", "b", "c"}, 1, 3)
}

func TestEngine_InsertAfter(t *testing.T) {
	e := New([]string{"a", "b"})

	require.True(t, e.InsertAfter("x"))
	requireState(t, e, []string{"a", "x", "b"}, 1, 3)

	require.True(t, e.SetRange(0))
	assert.False(t, e.InsertAfter("y"))
	requireState(t, e, []string{"a", "x", "b"}, 1, 1)
}

func TestEngine_Append(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.SetRange(1))

	require.True(t, e.Append("x"))
	requireState(t, e, []string{"a", "x", "b", "c"}, 0, 2)

	require.True(t, e.ClearRange())
	require.True(t, e.Append("z"))
	requireState(t, e, []string{"a", "x", "b", "c", "z"}, 0, 5)
}

func TestEngine_RemoveRange(t *testing.T) {
	e := New([]string{"a", "b", "c", "d"})
	require.True(t, e.Next())
	require.True(t, e.SetRange(2))

	require.True(t, e.RemoveRange())
	requireState(t, e, []string{"a", "d"}, 1, 1)
	assert.False(t, e.Remove())
	assert.True(t, e.RemoveRange())
}

func TestEngine_Replace(t *testing.T) {
	e := New([]string{"a"})
	require.True(t, e.Replace("b"))
	requireState(t, e, []string{"b"}, 0, 1)

	require.True(t, e.SetCursor(1))
	assert.False(t, e.Replace("c"))
	requireState(t, e, []string{"b"}, 1, 1)
}

func TestEngine_Navigation(t *testing.T) {
	lines := []string{"a", "", "b", "c", "a"}

	tests := []struct {
		name   string
		start  int
		op     func(*Engine) bool
		ok     bool
		cursor int
	}{
		{"next", 0, (*Engine).Next, true, 1},
		{"next past end", 4, (*Engine).Next, false, 4},
		{"next n", 0, func(e *Engine) bool { return e.NextN(3) }, true, 3},
		{"next n past end", 0, func(e *Engine) bool { return e.NextN(5) }, false, 0},
		{"next negative", 2, func(e *Engine) bool { return e.NextN(-2) }, true, 0},
		{"next to equals", 0, func(e *Engine) bool { return e.NextTo(LineEquals("a")) }, true, 4},
		{"next to skips current", 4, func(e *Engine) bool { return e.NextTo(LineEquals("a")) }, false, 4},
		{"next to empty", 0, func(e *Engine) bool { return e.NextTo(LineEmpty()) }, true, 1},
		{"prev", 2, (*Engine).Prev, true, 1},
		{"prev at start", 0, (*Engine).Prev, false, 0},
		{"prev n", 4, func(e *Engine) bool { return e.PrevN(4) }, true, 0},
		{"prev to starts", 4, func(e *Engine) bool { return e.PrevTo(LineStartsWith("b")) }, true, 2},
		{"prev to missing", 4, func(e *Engine) bool { return e.PrevTo(LineContains("z")) }, false, 4},
		{"set cursor end", 0, func(e *Engine) bool { return e.SetCursor(5) }, true, 5},
		{"set cursor past end", 0, func(e *Engine) bool { return e.SetCursor(6) }, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(lines)
			require.True(t, e.SetCursor(tt.start))

			assert.Equal(t, tt.ok, tt.op(e))
			assert.Equal(t, tt.cursor, e.Cursor())
			requireInvariants(t, e)
		})
	}
}

func TestEngine_NextStopsAtRangeEnd(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.SetRange(2))

	assert.False(t, e.NextTo(LineEquals("c")))
	assert.False(t, e.NextN(2))
	require.True(t, e.Next())
	assert.False(t, e.Next())
}

func TestEngine_PrevIgnoresRangeStart(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.SetCursor(2))
	require.True(t, e.SetRange(1))

	require.True(t, e.PrevTo(LineEquals("a")))
	requireState(t, e, []string{"a", "b", "c"}, 0, 3)
}

func TestEngine_Range(t *testing.T) {
	e := New([]string{"a", "b", "c", "d"})
	require.True(t, e.Next())

	assert.False(t, e.SetRange(-1))
	assert.False(t, e.SetRange(4))
	require.True(t, e.SetRange(0))
	assert.True(t, e.RangeEmpty())

	require.True(t, e.AdjustRange(2))
	assert.Equal(t, 3, e.RangeEnd())
	assert.False(t, e.AdjustRange(2))
	assert.False(t, e.AdjustRange(-3))
	assert.Equal(t, 3, e.RangeEnd())

	// The scan runs past the current range end.
	require.True(t, e.SetRangeTo(LineEndsWith("d")))
	assert.Equal(t, 3, e.RangeEnd())
	assert.False(t, e.SetRangeTo(LineEquals("b")))

	require.True(t, e.ClearRange())
	requireState(t, e, []string{"a", "b", "c", "d"}, 1, 4)
}

func TestEngine_MatchCapturesGroups(t *testing.T) {
	e := New([]string{"key=value", "other"})
	p := MustCompile(`(\w+)=(\w+)`)

	require.True(t, e.Match(p))
	assert.Equal(t, []string{"key=value", "key", "value"}, e.Groups())

	require.True(t, e.Next())
	assert.False(t, e.Match(p))
	assert.Equal(t, []string{"key=value", "key", "value"}, e.Groups())

	// Partial matches do not count.
	assert.False(t, e.Match(MustCompile(`oth`)))

	assert.True(t, e.MatchAt(MustCompile(`k(.*)`), 0))
	assert.Equal(t, 1, e.Cursor())

	g, ok := e.Group(1)
	require.True(t, ok)
	assert.Equal(t, "ey=value", g)
}

func TestEngine_MatchThenEchoGroupZero(t *testing.T) {
	for _, line := range []string{"hello world", "", "a'b{c}"} {
		e := New([]string{line})

		require.True(t, e.Match(MustCompile(`.*`)))
		require.True(t, e.ReplaceFormat("{0}"))
		assert.Equal(t, []string{line}, e.Lines())
	}
}

func TestEngine_Predicates(t *testing.T) {
	e := New([]string{"hello world"})

	assert.True(t, e.Equals("hello world"))
	assert.True(t, e.StartsWith("hello"))
	assert.True(t, e.EndsWith("world"))
	assert.True(t, e.Contains("o w"))
	assert.False(t, e.IsEmpty())

	require.True(t, e.SetRange(0))
	assert.False(t, e.Equals("hello world"))
}

func TestEngine_Rewrite(t *testing.T) {
	e := New([]string{"key=value"})
	p := MustCompile(`(\w+)=(\w+)`)

	require.True(t, e.Rewrite(p, "{2}: {1}"))
	assert.Equal(t, []string{"value: key"}, e.Lines())

	assert.False(t, e.Rewrite(p, "{1}"))
	assert.Equal(t, []string{"value: key"}, e.Lines())
}

func TestEngine_FormatVariants(t *testing.T) {
	e := New([]string{"a=1", "b=2"})
	require.True(t, e.Match(MustCompile(`(\w)=(\d)`)))

	require.True(t, e.InsertFormat("<{1}>"))
	require.True(t, e.InsertAfterFormat("[{2}]"))
	require.True(t, e.AppendFormat("{1}{2}{3}"))
	requireState(t, e, []string{"<a>", "a=1", "[1]", "b=2", "a1{3}"}, 2, 5)

	// Malformed templates leave the buffer alone.
	assert.False(t, e.InsertFormat("{1"))
	assert.False(t, e.AppendFormat("{x}"))
	assert.False(t, e.ReplaceFormat("{0,number}"))
	requireState(t, e, []string{"<a>", "a=1", "[1]", "b=2", "a1{3}"}, 2, 5)
}

func TestEngine_RewriteVariants(t *testing.T) {
	p := MustCompile(`(\d+)`)

	e := New([]string{"10", "x"})
	require.True(t, e.InsertRewrite(p, "n={1}"))
	require.True(t, e.InsertAfterRewrite(p, "after {1}"))
	requireState(t, e, []string{"n=10", "10", "after 10", "x"}, 2, 4)

	assert.False(t, e.AppendRewrite(p, "{1}"))
	require.True(t, e.Prev())
	require.True(t, e.AppendRewrite(p, "end {1}"))
	requireState(t, e, []string{"n=10", "10", "after 10", "x", "end 10"}, 1, 5)
}

func TestEngine_DeleteAtRepairsIndexes(t *testing.T) {
	e := New([]string{"a", "b", "c", "d"})
	require.True(t, e.SetCursor(2))
	require.True(t, e.SetRange(1))

	assert.Equal(t, "a", e.deleteAt(0))
	requireState(t, e, []string{"b", "c", "d"}, 1, 2)

	assert.Equal(t, "d", e.deleteAt(2))
	requireState(t, e, []string{"b", "c"}, 1, 2)
}

func TestEngine_InvariantsUnderOperations(t *testing.T) {
	ops := []func(*Engine) bool{
		(*Engine).Next,
		(*Engine).Prev,
		(*Engine).Remove,
		(*Engine).RemoveRange,
		(*Engine).Reset,
		(*Engine).ClearRange,
		(*Engine).Upper,
		(*Engine).Trim,
		func(e *Engine) bool { return e.InsertBefore("i") },
		func(e *Engine) bool { return e.InsertAfter("j") },
		func(e *Engine) bool { return e.Append("k") },
		func(e *Engine) bool { return e.Catenate(1) },
		func(e *Engine) bool { return e.SetRange(1) },
		func(e *Engine) bool { return e.AdjustRange(-1) },
		func(e *Engine) bool { return e.SetCursor(e.RangeEnd()) },
		func(e *Engine) bool { return e.PrevTo(LineEquals("i")) },
		func(e *Engine) bool { return e.SetRangeTo(LineEmpty()) },
		func(e *Engine) bool { return e.Replace("") },
	}

	// A fixed walk through every operation pair, from a few start states.
	for _, start := range [][]string{nil, {"a"}, {"a", "", "b", "c"}} {
		for i := range ops {
			for j := range ops {
				e := New(start)
				ops[i](e)
				requireInvariants(t, e)
				ops[j](e)
				requireInvariants(t, e)
				ops[(i+j)%len(ops)](e)
				requireInvariants(t, e)
			}
		}
	}
}

func TestEngine_FailureLeavesStateUnchanged(t *testing.T) {
	e := New([]string{"a", "b"})
	require.True(t, e.Match(MustCompile(`(a)`)))
	require.True(t, e.SetRange(1))

	before := []any{e.Lines(), e.Cursor(), e.RangeEnd(), e.Groups()}

	assert.False(t, e.Next())
	assert.False(t, e.Catenate(1))
	assert.False(t, e.Catenate(math.MaxInt))
	assert.False(t, e.SetRange(3))
	assert.False(t, e.NextTo(LineEquals("b")))
	assert.False(t, e.Match(MustCompile(`b`)))
	assert.False(t, e.ReplaceFirst(MustCompile(`z`), "y"))
	assert.False(t, e.Translate("ab", "c"))

	assert.Equal(t, before, []any{e.Lines(), e.Cursor(), e.RangeEnd(), e.Groups()})
}

func TestEngine_Catenate_HugeCountLeavesStateUnchanged(t *testing.T) {
	e := New([]string{"a", "b", "c"})
	require.True(t, e.NextN(1))

	assert.False(t, e.Catenate(math.MaxInt))
	requireState(t, e, []string{"a", "b", "c"}, 1, 3)
}

func TestEngine_Clone_IsIndependent(t *testing.T) {
	e := New([]string{"k = v", "x"})
	require.True(t, e.Match(MustCompile(`(\w+) = (\w+)`)))
	require.True(t, e.SetRangeEnd(1))

	c := e.Clone()
	require.True(t, c.Remove())

	requireState(t, e, []string{"k = v", "x"}, 0, 1)
	assert.Equal(t, []string{"k = v", "k", "v"}, e.Groups())
	requireState(t, c, []string{"x"}, 0, 0)
	assert.Equal(t, e.Groups(), c.Groups())
}
