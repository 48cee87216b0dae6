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

	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/model"
)

// Loader builds the tree under inspection. It is called again on reload and
// after each edit.
type Loader interface {
	Build(ctx context.Context) (*model.Part, error)
	// Path returns the file the model is described in.
	Path() (string, error)
}

type (
	// treeMsg replaces the tree after a reload or edit.
	treeMsg struct {
		root *model.Part
		note string
	}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	errorMsg         struct{ err error }
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List top-level parts
  paths    List the path of every node
  edit     Edit the model file in $EDITOR and rebuild
  reload   Rebuild the model from disk
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it. Top-level parts are variables,
  "root" is the whole tree, and node(path), paths() and stats(path)
  inspect it.
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down for history (switching mode to match the entry)
  Use Shift+Up/Shift+Down for history within the current mode
  Press Ctrl+C on empty line or Ctrl+D to exit
`

type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// draft is the unsubmitted input of one mode.
type draft struct {
	text   string
	cursor int
}

// shell is the Bubble Tea model of the REPL.
type shell struct {
	ctxFunc    func() context.Context
	loader     Loader
	logger     log.Logger
	root       *model.Part
	env        map[string]any
	input      textinput.Model
	history    *History
	historyIdx int

	matches      fuzzy.Matches
	candidates   []string
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int

	width    int
	quitting bool
	mode     inputMode
	drafts   [2]draft
}

// Run builds the model and starts the REPL over it. History is kept in
// cacheDir.
func Run(ctx context.Context, loader Loader, cacheDir string, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	root, err := loader.Build(ctx)
	if err != nil {
		return err
	}

	logger.TraceContext(ctx, "repl model built", slog.Int("roots", root.Children.Len()))

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	_, err = tea.NewProgram(newShell(ctx, loader, root, history, logger), tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newShell(
	ctx context.Context,
	loader Loader,
	root *model.Part,
	history *History,
	logger log.Logger,
) shell {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return shell{
		ctxFunc:    func() context.Context { return ctx },
		loader:     loader,
		logger:     logger,
		root:       root,
		env:        Env(root),
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m shell) Init() tea.Cmd { return textinput.Blink }

func (m shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case treeMsg:
		m.root, m.env = msg.root, Env(msg.root)
		m.logger.TraceContext(m.ctxFunc(), "repl tree replaced",
			slog.Int("roots", m.root.Children.Len()))

		return m, tea.Println(resultStyle.Render("✔ " + msg.note))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled, file unchanged"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit declined, file restored"))

	case errorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m shell) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine is the line under the input: the history position, a usage
// hint, the signature of the enclosing call, or the completions.
func (m shell) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render("Type an expression or press Esc for commands")
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if sig, params := getSignature(call.name); sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m shell) handleKey(msg tea.KeyMsg) (shell, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.submit()
		}

		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		m.cycle(1)

		return m, nil

	case tea.KeyShiftTab:
		m.cycle(-1)

		return m, nil

	case tea.KeyUp:
		m.recallStep(-1, false)

		return m, nil

	case tea.KeyDown:
		m.recallStep(1, false)

		return m, nil

	case tea.KeyShiftUp:
		m.recallStep(-1, true)

		return m, nil

	case tea.KeyShiftDown:
		m.recallStep(1, true)

		return m, nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		m.switchMode(1 - m.mode)

		return m, nil
	}

	// Typing confirms a candidate with space; deleting and moving do not
	// auto-complete.
	typing := msg.Type == tea.KeyRunes
	if typing && m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if !typing {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(typing)

	return m, cmd
}

// cycle moves the tab selection by step, starting at the first or last
// candidate. A single candidate is completed at once.
func (m *shell) cycle(step int) {
	n := len(m.matches)
	if n == 0 {
		return
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive, m.suggIdx, m.matches = false, -1, nil

		return
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	m.replaceWord(m.matches[m.suggIdx].Str)
}

func (m *shell) replaceWord(s string) {
	input := m.input.Value()
	cursor := m.wordStart + len(s)

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refreshMatches recomputes the completions. With autoConfirm, a word that
// already equals its only candidate is completed.
func (m *shell) refreshMatches(autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if c := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == c {
		m.replaceWord(c)
		m.tabActive, m.suggIdx, m.matches = false, -1, nil
	}
}

func (m shell) submit() (shell, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")

	if _, err := m.history.WriteWithMode(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := Eval(m.root, input)
	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
		slog.String("result_type", fmt.Sprintf("%T", result)),
		slog.Bool("success", err == nil),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(FormatResult(result))))
}

func (m shell) command(input string) (shell, tea.Cmd) {
	name, _, _ := strings.Cut(input, " ")
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "p", "paths":
		return m, tea.Sequence(echo, tea.Println(m.paths()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "r", "reload":
		return m, tea.Sequence(echo, m.reload())

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Println(errorStyle.Render("Unknown command: " + name + " (try 'help')"))
}

func (m shell) reload() tea.Cmd {
	ctx, loader := m.ctxFunc(), m.loader

	return func() tea.Msg {
		root, err := loader.Build(ctx)
		if err != nil {
			return errorMsg{err}
		}

		return treeMsg{root: root, note: "model reloaded"}
	}
}

func (m shell) edit() tea.Cmd {
	cmd := &editCommand{ctxFunc: m.ctxFunc, loader: m.loader, logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return errorMsg{err}
		case cmd.root == nil:
			return editCancelledMsg{}
		}

		return treeMsg{root: cmd.root, note: "model rebuilt"}
	})
}

func (m shell) list() string {
	var b strings.Builder

	for name, n := range m.root.Children.All() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(n)))
	}

	return b.String()
}

func (m shell) paths() string {
	var b strings.Builder

	for path, n := range model.All(m.root) {
		depth := strings.Count(path, model.PathSeparator)
		fmt.Fprintf(&b, "  %s%s %s\n", strings.Repeat("  ", depth), path, hintStyle.Render(formatPreview(n)))
	}

	return b.String()
}

// recallStep moves through history by step. Within the current mode only
// entries of that mode are visited; otherwise the mode follows the entry.
// Stepping past the newest entry clears the input.
func (m *shell) recallStep(step int, sameMode bool) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m.switchMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}
}

// switchMode saves the draft of the current mode and restores the draft of
// mode.
func (m *shell) switchMode(mode inputMode) {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}

	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)
	m.refreshMatches(false)
}
