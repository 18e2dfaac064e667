package controller

import (
	"context"
	"fmt"

	apperrors "scribe/internal/errors"
	"scribe/internal/log"
	"scribe/pkg/types"
)

// Fixed placeholder shown in the modal when the transcription body could
// not be fetched.
const transcriptionErrorText = "Erro ao carregar a transcrição."

// StartTranscription issues a start request for one uploaded file, gated
// by the in-flight lease set so rapid duplicate actions produce a single
// request. A 404 means the file was already consumed or claimed elsewhere;
// that is not an error to the user, just a cue to refresh.
func (c *Controller) StartTranscription(filename string) {
	if !c.inflight.tryAcquire(filename) {
		log.Debugf("Transcription start for %s already in flight, ignoring", filename)
		return
	}
	c.view.SetActionEnabled(filename, false)

	result, err := c.svc.StartTranscription(context.Background(), filename)
	switch {
	case err == nil:
		// Hold the lease through the cooldown window to absorb the
		// double-clicks that arrive right after the response.
		c.inflight.settle(filename)
		log.Infof("Transcription requested for %s: %s", filename, result.Message)
		c.sched.After(c.opts.RefreshDelay, c.Refresh)
		// Restore the control once the cooldown lapses. The lease keeps
		// gating until then, and if processing later fails server-side
		// the user must be able to start again.
		c.sched.After(c.opts.Cooldown, func() {
			c.view.SetActionEnabled(filename, true)
		})

	case apperrors.IsNotFound(err):
		c.inflight.release(filename)
		c.view.SetActionEnabled(filename, true)
		log.Infof("File %s already processed or claimed elsewhere, refreshing", filename)
		c.sched.After(c.opts.RefreshDelay, c.Refresh)

	default:
		c.inflight.settle(filename)
		c.view.SetActionEnabled(filename, true)
		log.Errorf("Transcription start for %s failed: %v", filename, err)
		c.view.Notify(LevelError, startFailureMessage(err))
	}
}

func startFailureMessage(err error) string {
	var reqErr *apperrors.RequestError
	if apperrors.As(err, &reqErr) && reqErr.Detail() != "" {
		return fmt.Sprintf("Falha ao iniciar a transcrição: %s", reqErr.Detail())
	}
	return "Falha ao iniciar a transcrição. Tente novamente."
}

// ViewTranscription opens the modal in a loading state before any network
// activity, then populates it with the fetched text. The action is never
// gated by the in-flight set.
func (c *Controller) ViewTranscription(filename, originalName string) {
	downloadName := types.TranscriptName(filename)
	state := ModalState{
		Open:         true,
		Loading:      true,
		Filename:     filename,
		OriginalName: originalName,
		DownloadName: downloadName,
		DownloadURL:  c.svc.DownloadURL(filename),
	}
	c.view.ShowModal(state)

	result, err := c.svc.GetTranscription(context.Background(), downloadName)

	state.Loading = false
	if err != nil {
		log.Errorf("Failed to fetch transcription %s: %v", downloadName, err)
		state.Failed = true
		state.Text = transcriptionErrorText
		c.setModalText("")
	} else {
		state.Text = result.Transcription
		c.setModalText(result.Transcription)
	}
	c.view.ShowModal(state)
}

// Delete removes a file (and its transcription artifacts) on the server,
// then schedules a refresh.
func (c *Controller) Delete(filename string) {
	if err := c.svc.DeleteFile(context.Background(), filename); err != nil {
		log.Errorf("Delete of %s failed: %v", filename, err)
		c.view.Notify(LevelError, "Falha ao deletar o arquivo.")
		return
	}
	c.view.Notify(LevelSuccess, "Arquivo deletado com sucesso")
	c.sched.After(c.opts.RefreshDelay, c.Refresh)
}

func (c *Controller) setModalText(text string) {
	c.mu.Lock()
	c.modalText = text
	c.mu.Unlock()
}
