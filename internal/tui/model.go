// Package tui is the interactive front-end: a two-pane bubbletea view of
// the pending queue and the server status table, plus the transcription
// modal. All state mutations flow through the controller; the model only
// mirrors what the controller renders.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"scribe/internal/controller"
	"scribe/pkg/types"
)

type pane int

const (
	paneQueue pane = iota
	paneStatus
)

// Model is the bubbletea model for the interactive session.
type Model struct {
	ctrl *controller.Controller

	width  int
	height int
	focus  pane

	pending       []types.QueuedFile
	submitEnabled bool
	queueCursor   int

	rows         []types.RemoteFile
	statusCursor int
	disabled     map[string]bool

	modal     controller.ModalState
	modalView viewport.Model
	copyLabel string

	input    textinput.Model
	entering bool

	spin spinner.Model

	statusLine  string
	statusLevel controller.Level
}

// NewModel builds the model around an already wired controller.
func NewModel(ctrl *controller.Controller) *Model {
	ti := textinput.New()
	ti.Placeholder = "caminho do arquivo de áudio (aceita curingas)"
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Theme.Help

	return &Model{
		ctrl:      ctrl,
		focus:     paneStatus,
		disabled:  make(map[string]bool),
		modalView: viewport.New(0, 0),
		copyLabel: controller.CopyLabel,
		input:     ti,
		spin:      sp,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		run(m.ctrl.StartPolling),
	)
}

// run wraps a controller call into a command so the network happens off
// the update loop.
func run(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.modalView.Width = clamp(msg.Width-10, 20, 100)
		m.modalView.Height = clamp(msg.Height-12, 5, 40)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case PendingMsg:
		m.pending = msg.Files
		m.submitEnabled = msg.SubmitEnabled
		if m.queueCursor >= len(m.pending) {
			m.queueCursor = max(0, len(m.pending)-1)
		}
		return m, nil

	case StatusTableMsg:
		m.rows = msg.Rows
		if m.statusCursor >= len(m.rows) {
			m.statusCursor = max(0, len(m.rows)-1)
		}
		return m, nil

	case ModalMsg:
		m.modal = msg.State
		if m.modal.Open && !m.modal.Loading {
			m.modalView.SetContent(wrapText(m.modal.Text, m.modalView.Width))
			m.modalView.GotoTop()
		}
		return m, nil

	case ActionMsg:
		if msg.Enabled {
			delete(m.disabled, msg.Filename)
		} else {
			m.disabled[msg.Filename] = true
		}
		return m, nil

	case CopyLabelMsg:
		m.copyLabel = msg.Label
		return m, nil

	case NotifyMsg:
		m.statusLine = msg.Message
		m.statusLevel = msg.Level
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		return m.handleEntryKey(msg)
	}
	if m.modal.Open {
		return m.handleModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.ctrl.StopPolling()
		return m, tea.Quit

	case "tab":
		if m.focus == paneQueue {
			m.focus = paneStatus
		} else {
			m.focus = paneQueue
		}

	case "j", "down":
		m.moveCursor(1)

	case "k", "up":
		m.moveCursor(-1)

	case "a":
		m.entering = true
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if m.focus == paneQueue && len(m.pending) > 0 {
			idx := m.queueCursor
			return m, run(func() { m.ctrl.Remove(idx) })
		}

	case "c":
		if m.focus == paneQueue {
			return m, run(m.ctrl.Clear)
		}

	case "u":
		if m.submitEnabled {
			return m, run(m.ctrl.Submit)
		}

	case "r":
		return m, run(m.ctrl.Refresh)

	case "t":
		if row, ok := m.selectedRow(); ok && row.Transcribable() && !m.disabled[row.Filename] {
			name := row.Filename
			return m, run(func() { m.ctrl.StartTranscription(name) })
		}

	case "enter", "v":
		if row, ok := m.selectedRow(); ok && row.Viewable() {
			name, orig := row.Filename, row.DisplayName()
			return m, run(func() { m.ctrl.ViewTranscription(name, orig) })
		}

	case "x":
		if row, ok := m.selectedRow(); ok {
			name := row.Filename
			return m, run(func() { m.ctrl.Delete(name) })
		}
	}
	return m, nil
}

func (m *Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		pattern := strings.TrimSpace(m.input.Value())
		m.entering = false
		m.input.Reset()
		if pattern == "" {
			return m, nil
		}
		return m, run(func() { m.addPattern(pattern) })
	case "esc":
		m.entering = false
		m.input.Reset()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.modal = controller.ModalState{}
		m.copyLabel = controller.CopyLabel
		return m, nil
	case "y":
		return m, run(m.ctrl.CopyTranscription)
	default:
		var cmd tea.Cmd
		m.modalView, cmd = m.modalView.Update(msg)
		return m, cmd
	}
}

// addPattern expands shell-style wildcards and feeds the matches to the
// queue. A plain path is passed through untouched.
func (m *Model) addPattern(pattern string) {
	paths, err := filepath.Glob(pattern)
	if err != nil || len(paths) == 0 {
		paths = []string{pattern}
	}
	m.ctrl.AddPaths(paths)
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case paneQueue:
		m.queueCursor = clamp(m.queueCursor+delta, 0, max(0, len(m.pending)-1))
	case paneStatus:
		m.statusCursor = clamp(m.statusCursor+delta, 0, max(0, len(m.rows)-1))
	}
}

func (m *Model) selectedRow() (types.RemoteFile, bool) {
	if m.focus != paneStatus || len(m.rows) == 0 {
		return types.RemoteFile{}, false
	}
	return m.rows[m.statusCursor], true
}

// View implements tea.Model
func (m *Model) View() string {
	if m.modal.Open {
		return Theme.App.Render(m.viewModal())
	}

	var b strings.Builder
	b.WriteString(Theme.Title.Render("scribe — Transcrição Whisper"))
	b.WriteString("\n")
	b.WriteString(m.viewQueuePane())
	b.WriteString("\n")
	b.WriteString(m.viewStatusPane())
	b.WriteString("\n")

	if m.entering {
		b.WriteString("Adicionar arquivo: " + m.input.View() + "\n")
	}
	if m.statusLine != "" {
		style := Theme.Help
		switch m.statusLevel {
		case controller.LevelError:
			style = Theme.Error
		case controller.LevelSuccess:
			style = Theme.Success
		}
		b.WriteString(style.Render(m.statusLine) + "\n")
	}
	b.WriteString(Theme.Help.Render(m.helpLine()))

	return Theme.App.Render(b.String())
}

func (m *Model) viewQueuePane() string {
	var b strings.Builder
	b.WriteString(Theme.Title.Render(fmt.Sprintf("Fila de envio (%d)", len(m.pending))))
	b.WriteString("\n")

	if len(m.pending) == 0 {
		b.WriteString(Theme.Unselected.Render("Nenhum arquivo na fila — pressione 'a' para adicionar") + "\n")
	}
	for i, f := range m.pending {
		cursor := " "
		style := Theme.Unselected
		if m.focus == paneQueue && i == m.queueCursor {
			cursor = ">"
			style = Theme.Selected
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			cursor,
			style.Render(f.Name),
			Theme.Help.Render(humanize.Bytes(uint64(f.Size)))))
	}

	submit := "[u] Enviar"
	if !m.submitEnabled {
		submit = Theme.Unselected.Render(submit)
	} else {
		submit = Theme.Success.Render(submit)
	}
	b.WriteString(submit)

	style := Theme.Pane
	if m.focus == paneQueue {
		style = Theme.FocusPane
	}
	return style.Render(b.String())
}

func (m *Model) viewStatusPane() string {
	var b strings.Builder
	b.WriteString(Theme.Title.Render("Arquivos no servidor"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(Theme.Unselected.Render("Nenhum arquivo no servidor") + "\n")
	}
	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
	}

	style := Theme.Pane
	if m.focus == paneStatus {
		style = Theme.FocusPane
	}
	return style.Render(b.String())
}

func (m *Model) renderRow(i int, row types.RemoteFile) string {
	cursor := " "
	nameStyle := Theme.Unselected
	if m.focus == paneStatus && i == m.statusCursor {
		cursor = ">"
		nameStyle = Theme.Selected
	}

	detail := ""
	switch {
	case row.Status == types.StatusCompleted && row.ProcessingTime > 0:
		detail = Theme.Help.Render(fmt.Sprintf("(%.0fs)", row.ProcessingTime))
	case row.Status == types.StatusError && row.Error != "":
		detail = Theme.Error.Render(truncate(row.Error, 40))
	case row.Status == types.StatusUploaded && row.Size > 0:
		detail = Theme.Help.Render(humanize.Bytes(uint64(row.Size)))
	}

	var actions []string
	if row.Transcribable() {
		if m.disabled[row.Filename] {
			actions = append(actions, Theme.Unselected.Render("[t] Transcrever"))
		} else {
			actions = append(actions, "[t] Transcrever")
		}
	}
	if row.Viewable() {
		actions = append(actions, "[v] Ver")
	}

	parts := []string{cursor, renderBadge(row.Status), nameStyle.Render(row.DisplayName())}
	if detail != "" {
		parts = append(parts, detail)
	}
	if len(actions) > 0 {
		parts = append(parts, Theme.Help.Render(strings.Join(actions, " ")))
	}
	return strings.Join(parts, " ") + "\n"
}

func (m *Model) viewModal() string {
	var b strings.Builder
	b.WriteString(Theme.Title.Render("Transcrição — " + m.modal.OriginalName))
	b.WriteString("\n")

	if m.modal.Loading {
		b.WriteString(m.spin.View() + " Carregando transcrição...\n")
	} else {
		b.WriteString(m.modalView.View())
		b.WriteString("\n\n")
		if !m.modal.Failed {
			b.WriteString(Theme.Help.Render("Baixar: "+m.modal.DownloadURL) + "\n")
			b.WriteString(Theme.Help.Render(fmt.Sprintf("[y] %s  ", m.copyLabel)))
		}
		b.WriteString(Theme.Help.Render("[esc] Fechar"))
	}

	return Theme.Modal.Render(b.String())
}

func (m *Model) helpLine() string {
	return "[tab] Alternar painel  [a] Adicionar  [d] Remover  [c] Limpar  [u] Enviar  " +
		"[t] Transcrever  [v] Ver  [x] Deletar  [r] Atualizar  [q] Sair"
}

// Run starts the interactive session and blocks until the user quits.
func Run(ctrl *controller.Controller, adapter *Adapter) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	adapter.Attach(p)

	_, err := p.Run()
	ctrl.StopPolling()
	return err
}

// wrapText soft-wraps long lines while keeping the original paragraph
// breaks of the transcription.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		var b strings.Builder
		line := 0
		for _, word := range strings.Fields(para) {
			if line > 0 && line+len(word)+1 > width {
				b.WriteString("\n")
				line = 0
			} else if line > 0 {
				b.WriteString(" ")
				line++
			}
			b.WriteString(word)
			line += len(word)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
