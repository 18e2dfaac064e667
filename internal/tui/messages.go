package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/controller"
	"scribe/pkg/types"
)

// PendingMsg replaces the pending-upload pane.
type PendingMsg struct {
	Files         []types.QueuedFile
	SubmitEnabled bool
}

// StatusTableMsg replaces the server status pane.
type StatusTableMsg struct {
	Rows []types.RemoteFile
}

// ModalMsg opens or updates the transcription modal.
type ModalMsg struct {
	State controller.ModalState
}

// ActionMsg toggles the transcribe control for one file.
type ActionMsg struct {
	Filename string
	Enabled  bool
}

// CopyLabelMsg swaps the clipboard control label.
type CopyLabelMsg struct {
	Label string
}

// NotifyMsg surfaces a message in the status line.
type NotifyMsg struct {
	Level   controller.Level
	Message string
}

// Adapter bridges the controller's View to a running bubbletea program.
// Render calls arrive from arbitrary goroutines and are forwarded as
// messages; calls before Attach are dropped, which only ever affects the
// initial empty render.
type Adapter struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewAdapter returns an unattached adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Attach binds the adapter to the program whose model consumes the
// messages.
func (a *Adapter) Attach(p *tea.Program) {
	a.mu.Lock()
	a.p = p
	a.mu.Unlock()
}

func (a *Adapter) send(msg tea.Msg) {
	a.mu.Lock()
	p := a.p
	a.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// RenderPendingList implements controller.View.
func (a *Adapter) RenderPendingList(files []types.QueuedFile, submitEnabled bool) {
	a.send(PendingMsg{Files: files, SubmitEnabled: submitEnabled})
}

// RenderStatusTable implements controller.View.
func (a *Adapter) RenderStatusTable(rows []types.RemoteFile) {
	a.send(StatusTableMsg{Rows: rows})
}

// ShowModal implements controller.View.
func (a *Adapter) ShowModal(state controller.ModalState) {
	a.send(ModalMsg{State: state})
}

// SetActionEnabled implements controller.View.
func (a *Adapter) SetActionEnabled(filename string, enabled bool) {
	a.send(ActionMsg{Filename: filename, Enabled: enabled})
}

// SetCopyLabel implements controller.View.
func (a *Adapter) SetCopyLabel(label string) {
	a.send(CopyLabelMsg{Label: label})
}

// Notify implements controller.View.
func (a *Adapter) Notify(level controller.Level, message string) {
	a.send(NotifyMsg{Level: level, Message: message})
}
