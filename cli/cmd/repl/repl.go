package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lotr/engine"
	"github.com/ardnew/lotr/lang"
	"github.com/ardnew/lotr/log"
)

// editBufferMsg is sent when the external editor exits successfully.
type editBufferMsg struct {
	lines   []string
	changed bool
}

// editDeclinedMsg is sent when the editor exited with an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	prompt       = "➜ "
	defaultWidth = 80
	defaultRows  = 12
	chromeRows   = 5 // position, status, input, hint, spacing
	maxUndo      = 100

	// executeTimeout bounds a single script run from the prompt.
	executeTimeout = 5 * time.Second
)

func helpMessage() string {
	return `Enter a command in script syntax to run it against the buffer:

  next: key              move to the next line equal to "key"
  next: !re '\w+ = .*'   move to the next line matching the pattern
  replace: !fmt "{2}={1}" replace the line using the last capture groups
  any: [trim, fail]      try alternatives in order
  repeat: remove         repeat until failure

Control commands:

  :help          Print this cruft
  :ops           List operations and their arguments
  :undo          Restore the buffer before the last command
  :reset         Restore the buffer as it was loaded
  :write FILE    Write the buffer to FILE
  :edit          Edit the buffer in $EDITOR
  :clear         Clear messages
  :quit          Exit

Keys:

  Tab / Shift-Tab   cycle completions; Enter accepts
  Up / Down         history
  Ctrl+C on empty line or Ctrl+D to exit`
}

// Styles.
//
//nolint:gochecknoglobals
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	passStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	abortStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4"))
	rangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	engine       *engine.Engine
	original     []string
	undo         []*engine.Engine
	dispatcher   lang.Dispatcher
	timeout      time.Duration // limit on each script run
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int
	height       int
	status       string // outcome of the last input
	output       string // output of the last control command
	quitting     bool
}

// Run starts the REPL over a buffer holding lines.
//
// History is persisted in cacheDir unless it is empty.
func Run(
	ctx context.Context,
	lines []string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("lines", len(lines)),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}

	// Input lines may have been read from stdin.
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		opts = append(opts, tea.WithInputTTY())
	}

	_, err = tea.NewProgram(newModel(ctx, lines, history, logger), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

func newModel(
	ctx context.Context,
	lines []string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "next: key"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		engine:     engine.New(lines),
		original:   slices.Clone(lines),
		dispatcher: lang.NewDispatcher(logger),
		timeout:    executeTimeout,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		height:     defaultRows + chromeRows,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-lipgloss.Width(prompt)-2, 1)

		return m, nil

	case editBufferMsg:
		if !msg.changed {
			m.status = hintStyle.Render("buffer unchanged")

			return m, nil
		}

		m.pushUndo()
		m.engine = engine.New(msg.lines)
		m.status = passStyle.Render(fmt.Sprintf("buffer edited (%d lines)", len(msg.lines)))

		return m, nil

	case editDeclinedMsg:
		m.status = hintStyle.Render("edit discarded")

		return m, nil

	case editErrorMsg:
		m.status = failStyle.Render("error: " + msg.err.Error())

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.bufferView())
	b.WriteString(m.positionView())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	if m.output != "" {
		b.WriteString(m.output)
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// bufferView renders the lines around the cursor. The cursor line is
// highlighted and the rest of the range is marked in the gutter.
func (m model) bufferView() string {
	n := m.engine.Len()
	if n == 0 {
		return hintStyle.Render("(empty buffer)") + "\n"
	}

	cursor, end := m.engine.Cursor(), m.engine.RangeEnd()

	rows := max(m.height-chromeRows-lipgloss.Height(m.output), 3)
	first := min(max(cursor-rows/2, 0), max(n-rows, 0))
	last := min(first+rows, n)
	digits := len(strconv.Itoa(n))
	clip := lipgloss.NewStyle().MaxWidth(max(m.width, 1))

	var b strings.Builder

	for i := first; i < last; i++ {
		line, _ := m.engine.LineAt(i)
		gutter := hintStyle.Render(fmt.Sprintf("%*d ", digits, i+1))

		switch {
		case i == cursor:
			line = cursorStyle.Render("▶ " + line)
		case i > cursor && i < end:
			line = rangeStyle.Render("│ " + line)
		default:
			line = "  " + line
		}

		b.WriteString(clip.Render(gutter + line))
		b.WriteString("\n")
	}

	if cursor == n {
		b.WriteString(strings.Repeat(" ", digits+1))
		b.WriteString(cursorStyle.Render("▶ "))
		b.WriteString(hintStyle.Render("<end>"))
		b.WriteString("\n")
	}

	return b.String()
}

// positionView renders the cursor, range, and capture groups.
func (m model) positionView() string {
	e := m.engine

	view := fmt.Sprintf("line %d/%d  range %d..%d (%d)",
		e.Cursor()+1, e.Len(), e.Cursor()+1, e.RangeEnd(), e.RangeLen())

	if groups := e.Groups(); len(groups) > 0 {
		quoted := make([]string, len(groups))
		for i, g := range groups {
			quoted[i] = fmt.Sprintf("{%d}=%q", i, g)
		}

		view += "  " + strings.Join(quoted, " ")
	}

	return hintStyle.Render(view)
}

// hintView renders the completion bar, the usage of the opcode under the
// cursor, or a hint.
func (m model) hintView() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type a command, or :help")
	}

	if op, ok := activeOpcode(input, m.input.Position()); ok && !isControl(input) {
		return renderUsageHint(op)
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1), nil

	case tea.KeyDown:
		return m.historyStep(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also drops the completion bar once the typed
// word equals the sole candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// historyStep moves through history by step entries. Moving past the newest
// entry clears the input.
func (m model) historyStep(step int) model {
	idx := m.historyIdx + step

	switch {
	case idx < 0:
		return m

	case idx >= m.history.Len():
		if m.historyIdx < m.history.Len() {
			m.input.SetValue("")
		}

		m.historyIdx = m.history.Len()

	default:
		entry, err := m.history.Entry(idx)
		if err != nil {
			return m
		}

		m.historyIdx = idx
		m.input.SetValue(entry)
		m.input.SetCursor(len(entry))
	}

	m.tabActive = false
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if isControl(input) {
		return m.executeCommand(strings.TrimSpace(strings.TrimPrefix(input, ":")))
	}

	return m.execute(input), nil
}

// execute decodes input as a script and runs it against the buffer.
func (m model) execute(input string) model {
	// The event loop is blocked while a script runs, so a script that never
	// finishes is cut off rather than left to hang the prompt.
	ctx, cancel := context.WithTimeoutCause(m.ctxFunc(), m.timeout, ErrTimeout)
	defer cancel()

	root, err := lang.DecodeString(input)
	if err != nil {
		m.status = failStyle.Render("✗ " + err.Error())

		return m
	}

	m.pushUndo()

	result := root.Execute(ctx, m.dispatcher, m.engine)

	m.logger.TraceContext(ctx, "repl execute",
		slog.String("command", root.String()),
		slog.String("result", result.String()),
	)

	m.status = renderResult(result) + " " + hintStyle.Render(root.String())
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		m.status += " " + abortStyle.Render(ErrTimeout.Error())
	}

	return m
}

func renderResult(r lang.Result) string {
	switch r {
	case lang.Passed:
		return passStyle.Render("✓ passed")
	case lang.Aborted:
		return abortStyle.Render("⊘ aborted")
	default:
		return failStyle.Render("✗ failed")
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help":
		m.output = helpMessage()

	case "ops":
		m.output = opsList()

	case "c", "clear":
		m.output = ""
		m.status = ""

	case "u", "undo":
		if len(m.undo) == 0 {
			m.status = failStyle.Render("✗ " + ErrNothingToUndo.Error())

			break
		}

		m.engine = m.undo[len(m.undo)-1]
		m.undo = m.undo[:len(m.undo)-1]
		m.status = hintStyle.Render("undone")

	case "reset":
		m.pushUndo()
		m.engine = engine.New(m.original)
		m.status = hintStyle.Render("buffer reset")

	case "w", "write":
		if len(parts) < 2 {
			m.status = failStyle.Render("✗ " + ErrMissingFile.Error())

			break
		}

		lines := m.engine.Lines()

		if err := os.WriteFile(parts[1], []byte(joinLines(lines)), 0o644); err != nil { //nolint:gosec
			m.status = failStyle.Render("✗ " + err.Error())

			break
		}

		m.status = passStyle.Render(fmt.Sprintf("wrote %d lines to %s", len(lines), parts[1]))

	case "e", "edit":
		return m, m.edit()

	default:
		m.status = failStyle.Render("unknown command: " + parts[0] + " (try :help)")
	}

	return m, nil
}

func (m model) edit() tea.Cmd {
	cmd := &editBufferCommand{
		lines:   m.engine.Lines(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		default:
			return editBufferMsg{lines: cmd.edited, changed: cmd.changed}
		}
	})
}

// pushUndo saves the buffer state, discarding the oldest beyond maxUndo.
func (m *model) pushUndo() {
	m.undo = append(m.undo, m.engine.Clone())
	if len(m.undo) > maxUndo {
		m.undo = slices.Delete(m.undo, 0, len(m.undo)-maxUndo)
	}
}

// opsList renders the opcode table.
func opsList() string {
	var b strings.Builder

	for op := range lang.Opcodes() {
		fmt.Fprintf(&b, "  %-15s %s %s\n",
			op.String(),
			suggestionStyle.Render(fmt.Sprintf("%-28s", op.Usage())),
			hintStyle.Render(op.Summary()))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
