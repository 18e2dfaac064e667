package controller

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/log"
	"scribe/pkg/types"
)

// Add filters candidates to audio files, drops duplicates by (name, size)
// against both the queue and the batch itself, and appends the survivors.
// Rejected candidates are skipped silently. Returns how many were added.
func (c *Controller) Add(candidates []types.QueuedFile) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, cand := range candidates {
		if !c.isAudio(cand.Name) {
			log.Debugf("Skipping %s: not an audio file", cand.Name)
			continue
		}
		if c.inQueueLocked(cand) {
			log.Debugf("Skipping %s: already queued", cand.Name)
			continue
		}
		c.queue = append(c.queue, cand)
		added++
	}

	c.renderPendingLocked()
	return added
}

// AddPaths stats local paths and adds them as candidates. Unreadable
// paths are skipped like any other rejected candidate.
func (c *Controller) AddPaths(paths []string) int {
	candidates := make([]types.QueuedFile, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			log.Debugf("Skipping %s: %v", path, err)
			continue
		}
		candidates = append(candidates, types.QueuedFile{
			Name:     filepath.Base(path),
			Path:     path,
			Size:     info.Size(),
			MimeType: mime.TypeByExtension(filepath.Ext(path)),
		})
	}
	return c.Add(candidates)
}

// Remove drops the queue entry at index i. Out-of-bounds is a no-op.
func (c *Controller) Remove(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.queue) {
		return
	}
	c.queue = append(c.queue[:i], c.queue[i+1:]...)
	c.renderPendingLocked()
}

// Clear empties the pending queue.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue = c.queue[:0]
	c.renderPendingLocked()
}

func (c *Controller) inQueueLocked(cand types.QueuedFile) bool {
	for _, q := range c.queue {
		if q.Same(cand) {
			return true
		}
	}
	return false
}

func (c *Controller) isAudio(name string) bool {
	lower := strings.ToLower(name)
	for _, g := range c.opts.AudioGlobs {
		if g.Match(lower) {
			return true
		}
	}
	return false
}
