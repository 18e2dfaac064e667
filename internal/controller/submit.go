package controller

import (
	"context"
	"fmt"

	"scribe/internal/api"
	"scribe/internal/log"
	"scribe/pkg/types"
)

// Submit uploads the whole queue in one multipart request. On success the
// queue is cleared and a delayed refresh is scheduled so the server has
// registered the files by the time we poll. On failure the queue is
// preserved for retry. The submit affordance is disabled for the duration
// and restored on every exit path.
func (c *Controller) Submit() {
	c.mu.Lock()
	if c.submitting || len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}
	c.submitting = true
	files := make([]types.QueuedFile, len(c.queue))
	copy(files, c.queue)
	c.renderPendingLocked()
	c.mu.Unlock()

	var (
		result *api.UploadResult
		err    error
	)
	defer func() {
		c.mu.Lock()
		c.submitting = false
		if err == nil && result != nil {
			c.queue = c.queue[:0]
		}
		c.renderPendingLocked()
		c.mu.Unlock()

		if err != nil {
			log.Errorf("Upload failed: %v", err)
			c.view.Notify(LevelError, "Falha ao enviar os arquivos. Tente novamente.")
			return
		}
		c.view.Notify(LevelSuccess, fmt.Sprintf("%d arquivo(s) enviado(s) com sucesso", len(result.Files)))
		c.sched.After(c.opts.RefreshDelay, c.Refresh)
	}()

	result, err = c.svc.Upload(context.Background(), files)
}
