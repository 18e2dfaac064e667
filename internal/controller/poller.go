package controller

import (
	"context"

	"scribe/internal/log"
)

// Refresh polls the server for the full status listing and replaces the
// local snapshot wholesale. At most one refresh runs at a time: a tick
// that lands while another is outstanding is a no-op, so a slow network
// never piles up concurrent polls. Polling is best-effort; on failure the
// previous snapshot stays and the user sees nothing.
func (c *Controller) Refresh() {
	if !c.refreshing.CompareAndSwap(false, true) {
		log.Debugf("Refresh already in flight, skipping tick")
		return
	}
	defer c.refreshing.Store(false)

	files, err := c.svc.ListFiles(context.Background())
	if err != nil {
		log.Warnf("Status refresh failed, keeping previous snapshot: %v", err)
		return
	}

	c.mu.Lock()
	c.snapshot = files
	rows := c.sortedSnapshotLocked()
	c.mu.Unlock()

	c.view.RenderStatusTable(rows)
}
