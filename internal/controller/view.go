package controller

import "scribe/pkg/types"

// Level classifies user-facing notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// ModalState describes the transcription modal. The modal opens in a
// loading state before the fetch is issued and is replaced once the
// response lands; on failure Text carries a fixed placeholder and Failed
// is set.
type ModalState struct {
	Open         bool
	Loading      bool
	Filename     string // server-side name the action was keyed by
	OriginalName string
	Text         string
	DownloadName string // derived .txt name
	DownloadURL  string
	Failed       bool
}

// View is the presentation surface the controller drives. Implementations
// must tolerate calls from multiple goroutines; the TUI adapter forwards
// them as bubbletea messages, tests record them.
type View interface {
	// RenderPendingList replaces the pending-upload pane. submitEnabled
	// is true iff the queue is non-empty and no upload is running.
	RenderPendingList(files []types.QueuedFile, submitEnabled bool)

	// RenderStatusTable replaces the server status pane, already sorted.
	RenderStatusTable(rows []types.RemoteFile)

	// ShowModal opens or updates the transcription modal.
	ShowModal(state ModalState)

	// SetActionEnabled toggles the start-transcription control for one file.
	SetActionEnabled(filename string, enabled bool)

	// SetCopyLabel swaps the clipboard control's label.
	SetCopyLabel(label string)

	// Notify surfaces a message to the user.
	Notify(level Level, message string)
}
