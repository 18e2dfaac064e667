package controller

import (
	"github.com/atotto/clipboard"

	"scribe/internal/log"
)

// Clipboard control labels.
const (
	CopyLabel        = "Copiar"
	CopyConfirmLabel = "Copiado!"
)

// CopyTranscription puts the currently displayed transcription on the
// system clipboard and flashes a confirmation label for a fixed duration.
// Failures are logged and swallowed; losing a copy is not worth an alert.
func (c *Controller) CopyTranscription() {
	c.mu.Lock()
	text := c.modalText
	c.mu.Unlock()

	if text == "" {
		return
	}

	if err := clipboard.WriteAll(text); err != nil {
		log.Debugf("Clipboard copy failed: %v", err)
		return
	}

	c.view.SetCopyLabel(CopyConfirmLabel)
	c.sched.After(c.opts.CopyConfirm, func() {
		c.view.SetCopyLabel(CopyLabel)
	})
}
