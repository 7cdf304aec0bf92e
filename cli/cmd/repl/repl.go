package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

// editDoneMsg is sent when editing produced a new session.
type editDoneMsg struct{ session *formula.Session }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// command is a control-mode command.
type command struct {
	name, args, help string
	run              func(m model, args []string) (model, tea.Cmd)
}

// commands lists the control-mode commands. It is populated in init since
// the help command refers to it.
var commands []command

func init() {
	commands = []command{
		{"help", "", "Print this help", (model).cmdHelp},
		{"vars", "", "List variables", (model).cmdVars},
		{"reset", "", "Remove all variables", (model).cmdReset},
		{"edit", "", "Edit variables in $EDITOR", (model).cmdEdit},
		{"precision", "[N]", "Show or set result decimal places (-1 for shortest)", (model).cmdPrecision},
		{"clear", "", "Clear screen", (model).cmdClear},
		{"quit", "", "Exit REPL", (model).cmdQuit},
	}
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// lookupCommand returns the command named name or by a unique prefix of it.
func lookupCommand(name string) (command, bool) {
	var found []command

	for _, c := range commands {
		if c.name == name {
			return c, true
		}

		if strings.HasPrefix(c.name, name) {
			found = append(found, c)
		}
	}

	if len(found) == 1 {
		return found[0], true
	}

	return command{}, false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-16s %s\n", strings.TrimSpace(c.name+" "+c.args), c.help)
	}

	b.WriteString(`
Formulas:
  Operators    + - * / ^ and = (assignment), with ( ) for grouping
  Functions    ` + strings.Join(formula.Functions(), " ") + `
  Constants    ` + strings.Join(formula.Constants(), " ") + `
  Variables    any other name; created as 0 on first use

Keys:
  Tab / Shift-Tab     Cycle through completion candidates
  Space               Accept the current candidate
  Esc                 Toggle between eval and command modes
  Up / Down           History (mode switches automatically)
  Shift-Up / Down     History within the current mode
  Alt-Up / Down       Command history
  Ctrl-C on empty line or Ctrl-D exits
`)

	return b.String()
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

var prompts = [...]struct {
	text  string
	style lipgloss.Style
}{
	modeEval: {evalPrompt, promptStyle},
	modeCtrl: {ctrlPrompt, ctrlPromptStyle},
}

// echo formats an input line as it was entered.
func echo(mode inputMode, input string) string {
	p := prompts[mode]

	return p.style.Render(p.text) + inputStyle.Render(input)
}

// completion is the state of the candidate bar.
type completion struct {
	matches   fuzzy.Matches
	start     int    // byte offset of current word start
	end       int    // byte offset of current word end
	selected  int    // selected candidate index, -1 if none
	cycling   bool   // whether the user is tab-cycling
	preText   string // input before cycling began
	preCursor int    // cursor before cycling began
}

// snapshot is a saved input line.
type snapshot struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc   func() context.Context
	session   *formula.Session
	logger    log.Logger
	input     textinput.Model
	history   *History
	histIdx   int
	comp      completion
	saved     [2]snapshot // input of the inactive mode
	altNav    bool        // whether the user is in Alt+Up/Down navigation
	altMode   inputMode   // mode before Alt navigation
	altInput  snapshot    // input before Alt navigation
	precision int
	width     int
	mode      inputMode
	quitting  bool
}

// Config holds the REPL settings.
type Config struct {
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	// Precision is the number of decimal places in results, or -1 for the
	// shortest exact form.
	Precision int
	// Logger traces REPL activity.
	Logger log.Logger
}

// Run starts the REPL on session and returns when the user quits.
func Run(ctx context.Context, session *formula.Session, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("variables", session.Table().Len()),
	)

	var history *History
	if cfg.CacheDir != "" {
		history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("error", err.Error()))
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, session, history, cfg)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && context.Cause(ctx) != nil {
		return context.Cause(ctx)
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *formula.Session,
	history *History,
	cfg Config,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:   func() context.Context { return ctx },
		session:   session,
		logger:    cfg.Logger,
		input:     ti,
		history:   history,
		histIdx:   history.Len(),
		comp:      completion{selected: -1},
		precision: cfg.Precision,
		width:     defaultWidth,
		mode:      modeEval,
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
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.session = msg.session
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("variables", m.session.Table().Len()),
		)

		return m, tea.Println(resultStyle.Render("variables updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.histIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type a formula or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)")

	case len(m.comp.matches) > 0:
		return renderCandidateBar(m.comp.matches, m.comp.selectedIndex(), m.width)

	case m.mode == modeEval:
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			return renderSignatureHint(call.name)
		}
	}

	return ""
}

// selectedIndex returns the highlighted candidate, or -1 when not cycling.
func (c completion) selectedIndex() int {
	if !c.cycling {
		return -1
	}

	return c.selected
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.comp.cycling = false
		m.altNav = false
		m.histIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNav = false

		if m.comp.cycling && len(m.comp.matches) > 0 {
			m.comp.cycling = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.altHistory(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.altHistory(1), nil
		}

		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			m.comp.cycling = false
			m.setInput(m.comp.preText, m.comp.preCursor)
			m.refreshMatches(false)

			return m, nil
		}

		m.altNav = false

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.comp.cycling && msg.String() == " " {
			m.comp.cycling = false
		}

		var cmd tea.Cmd

		m.histIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// Any other key (backspace, delete, cursor movement) edits the input
	// without auto-confirming a completion.
	var cmd tea.Cmd

	m.comp.cycling = false
	m.altNav = false
	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the candidate selection by step, wrapping at either end. A
// single candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{selected: -1}

		return m

	case m.comp.cycling:
		m.comp.selected = (m.comp.selected + step + n) % n

	default:
		m.comp.cycling = true
		m.comp.preText = m.input.Value()
		m.comp.preCursor = m.input.Position()
		m.comp.selected = 0

		if step < 0 {
			m.comp.selected = n - 1
		}
	}

	m.replaceWord(m.comp.matches[m.comp.selected].Str)

	return m
}

// replaceWord replaces the current word with s and moves the cursor after it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	m.setInput(input[:m.comp.start]+s+input[m.comp.end:], m.comp.start+len(s))
	m.comp.end = m.comp.start + len(s)
}

func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
}

// refreshMatches recomputes the candidates for the word at the cursor. With
// autoConfirm, a word that already equals its only candidate is accepted so
// the bar disappears. Deletions and cursor movement pass false so editing
// never completes unexpectedly.
func (m *model) refreshMatches(autoConfirm bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.selected = -1
	}

	if !autoConfirm || len(m.comp.matches) != 1 {
		return
	}

	word := m.input.Value()[m.comp.start:m.comp.end]
	if strings.EqualFold(word, m.comp.matches[0].Str) {
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{selected: -1}
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]snapshot{}
	m.input.SetValue("")
	m.comp = completion{selected: -1}

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history not saved",
			slog.String("error", err.Error()))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m, tea.Sequence(
		tea.Println(echo(modeEval, input)),
		tea.Println(m.evaluate(input)),
	)
}

// evaluate evaluates input and renders the result or the error with a caret
// under the offending position.
func (m model) evaluate(input string) string {
	r := m.session.Evaluate(m.ctxFunc(), input)

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
		slog.Bool("ok", r.OK()),
	)

	if r.OK() {
		return resultStyle.Render(formula.FormatValue(r.Value, m.precision))
	}

	pad := strings.Repeat(" ", lipgloss.Width(evalPrompt)+min(r.End, len(input)))

	return errorStyle.Render(pad+"^") + "\n" +
		errorStyle.Render("error: "+r.Kind.Message())
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echoCmd := tea.Println(echo(modeCtrl, input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", fields[0]),
		slog.Any("args", fields[1:]),
	)

	c, ok := lookupCommand(fields[0])
	if !ok {
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("unknown command: "+fields[0]+" (try 'help')")))
	}

	m, cmd := c.run(m, fields[1:])

	return m, tea.Sequence(echoCmd, cmd)
}

func (m model) cmdHelp([]string) (model, tea.Cmd) {
	return m, tea.Println(helpMessage())
}

func (m model) cmdVars([]string) (model, tea.Cmd) {
	return m, tea.Println(m.listVariables())
}

func (m model) cmdReset([]string) (model, tea.Cmd) {
	n := m.session.Table().Len()
	m.session.Reset()

	return m, tea.Println(hintStyle.Render(fmt.Sprintf("removed %d variables", n)))
}

func (m model) cmdClear([]string) (model, tea.Cmd) {
	return m, tea.ClearScreen
}

func (m model) cmdQuit([]string) (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

func (m model) cmdPrecision(args []string) (model, tea.Cmd) {
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < -1 {
			return m, tea.Println(errorStyle.Render("precision must be an integer >= -1"))
		}

		m.precision = p
	}

	return m, tea.Println(hintStyle.Render("precision " + strconv.Itoa(m.precision)))
}

func (m model) cmdEdit([]string) (model, tea.Cmd) {
	cmd := &editCommand{
		session:   m.session,
		precision: m.precision,
		ctxFunc:   m.ctxFunc,
		logger:    m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newSession == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{session: cmd.newSession}
		}
	})
}

func (m model) listVariables() string {
	table := m.session.Table()
	if table.Len() == 0 {
		return hintStyle.Render("  no variables")
	}

	width := 0
	for _, v := range table.All() {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, table.Len())

	for _, v := range table.All() {
		lines = append(lines, fmt.Sprintf("  %-*s %s", width, v.Name,
			hintStyle.Render(formula.FormatValue(v.Value, m.precision))))
	}

	return strings.Join(lines, "\n")
}

// historyStep moves through the history by dir. With sameMode, entries of
// the other mode are skipped; otherwise the mode follows the entry. Moving
// past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.histIdx + dir; 0 <= i && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || sameMode && entry.Mode != m.mode {
			continue
		}

		m.histIdx = i

		return m.showEntry(entry)
	}

	if dir > 0 && m.histIdx < m.history.Len() {
		m.histIdx = m.history.Len()
		m.setInput("", 0)
		m.refreshMatches(false)
	}

	return m
}

func (m model) showEntry(entry HistoryEntry) model {
	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.setInput(entry.Line, len(entry.Line))
	m.refreshMatches(false)

	return m
}

// altHistory navigates command history from either mode. The original mode
// and input are restored when navigation runs off either end.
func (m model) altHistory(dir int) model {
	if !m.altNav {
		m.altNav = true
		m.altMode = m.mode
		m.altInput = snapshot{m.input.Value(), m.input.Position()}
		m = m.switchToMode(modeCtrl)
	}

	for i := m.histIdx + dir; 0 <= i && i < m.history.Len(); i += dir {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == modeCtrl {
			m.histIdx = i

			return m.showEntry(entry)
		}
	}

	m.altNav = false
	m = m.switchToMode(m.altMode)
	m.setInput(m.altInput.text, m.altInput.cursor)
	m.histIdx = m.history.Len()
	m.refreshMatches(false)

	return m
}

// switchToMode switches input modes, saving the input of the mode being
// left and restoring that of the mode entered.
func (m model) switchToMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode] = snapshot{m.input.Value(), m.input.Position()}
	m.mode = mode

	p := prompts[mode]
	m.input.Prompt = p.style.Render(p.text)
	m.setInput(m.saved[mode].text, m.saved[mode].cursor)
	m.refreshMatches(false)

	return m
}
